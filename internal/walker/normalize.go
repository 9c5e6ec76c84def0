// Package walker drives the two batch stages over the filesystem: the
// normalize stage over raw product folders, the publish stage over
// normalized output folders.
package walker

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eternal-elegance/emporium/internal/config"
	"github.com/eternal-elegance/emporium/internal/ledger"
	"github.com/eternal-elegance/emporium/internal/normalize"
)

// ProductResult is the outcome of normalizing one discovered directory.
// Per-directory failures are values here, not panics; the walk always
// continues and the product id always advances.
type ProductResult struct {
	ID      int
	Dir     string
	Written int
	Failed  int
	Err     error
}

// NormalizeSummary aggregates a whole normalize run.
type NormalizeSummary struct {
	Directories  int
	Products     int // directories that yielded at least one image
	ImagesOK     int
	ImagesFailed int
	Results      []ProductResult
}

// NormalizeBatch walks the input root and normalizes every product folder.
type NormalizeBatch struct {
	cfg  config.Pipeline
	norm *normalize.Normalizer
}

func NewNormalizeBatch(cfg config.Pipeline, norm *normalize.Normalizer) *NormalizeBatch {
	return &NormalizeBatch{cfg: cfg, norm: norm}
}

// Run discovers product directories, assigns ids starting at 1 in sorted
// traversal order, normalizes each, and writes the run summary. Missing
// input or output roots are the only fatal errors.
func (b *NormalizeBatch) Run() (NormalizeSummary, error) {
	if _, err := os.Stat(b.cfg.InputRoot); err != nil {
		return NormalizeSummary{}, fmt.Errorf("input directory does not exist: %s", b.cfg.InputRoot)
	}
	if _, err := os.Stat(b.cfg.OutputRoot); err != nil {
		return NormalizeSummary{}, fmt.Errorf("output directory does not exist: %s", b.cfg.OutputRoot)
	}

	dirs, err := discoverDirs(b.cfg.InputRoot)
	if err != nil {
		return NormalizeSummary{}, err
	}

	summary := NormalizeSummary{Directories: len(dirs)}
	productID := 1
	for _, dir := range dirs {
		result := ProductResult{ID: productID, Dir: dir}

		written, failed, err := b.norm.ProcessDirectory(dir, productID)
		result.Written = written
		result.Failed = failed
		result.Err = err
		if err != nil {
			slog.Error("Directory processing failed", "dir", dir, "product_id", productID, "error", err)
		} else {
			slog.Info("Processed product directory", "dir", dir, "product_id", productID, "written", written, "failed", failed)
		}

		summary.ImagesOK += written
		summary.ImagesFailed += failed
		if written > 0 {
			summary.Products++
		}
		summary.Results = append(summary.Results, result)

		// The counter advances even for failed directories.
		productID++
	}

	if err := ledger.WriteSummary(ledger.SummaryPath(b.cfg.OutputRoot), summary.Products, time.Now()); err != nil {
		return summary, fmt.Errorf("failed to write run summary: %w", err)
	}

	slog.Info("Normalize run complete",
		"directories", summary.Directories,
		"products", summary.Products,
		"images_ok", summary.ImagesOK,
		"images_failed", summary.ImagesFailed)
	return summary, nil
}

// discoverDirs returns every subdirectory under root, at any depth, in
// lexical walk order. Each one is treated as a product.
func discoverDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable directory stays in the list; its ReadDir
			// failure surfaces as that product's result.
			slog.Warn("Could not descend into path during discovery", "path", path, "error", err)
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory: %w", err)
	}
	return dirs, nil
}
