package walker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/eternal-elegance/emporium/internal/catalog"
	"github.com/eternal-elegance/emporium/internal/config"
	"github.com/eternal-elegance/emporium/internal/listing"
	"github.com/eternal-elegance/emporium/internal/marketplace"
	"github.com/eternal-elegance/emporium/internal/vision"
)

// listingImageTypes are the extensions considered when picking analysis
// images. Normalized output is always PNG; JPEG is accepted for folders
// produced elsewhere.
var listingImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// FolderResult is the outcome of one product folder in the publish stage.
type FolderResult struct {
	Folder  string
	SKU     string
	Output  string
	Skipped bool
	Err     error
}

// PublishSummary aggregates a whole publish run.
type PublishSummary struct {
	Folders   int
	Published int
	Skipped   int
	Failed    int
	Results   []FolderResult
}

// PublishBatch chains keyword extraction, category resolution, text
// generation, template rendering and marketplace submission per folder.
// All collaborators are injected so tests can substitute fakes.
type PublishBatch struct {
	cfg       config.Pipeline
	detector  vision.LabelDetector
	generator listing.TextGenerator
	renderer  *listing.Renderer
	publisher marketplace.Publisher
}

func NewPublishBatch(
	cfg config.Pipeline,
	detector vision.LabelDetector,
	generator listing.TextGenerator,
	renderer *listing.Renderer,
	publisher marketplace.Publisher,
) *PublishBatch {
	return &PublishBatch{
		cfg:       cfg,
		detector:  detector,
		generator: generator,
		renderer:  renderer,
		publisher: publisher,
	}
}

// Run iterates product folders under the normalize output root in sorted
// order. Per-folder failures are logged and recorded; the walk continues.
// A missing input root is the only fatal error.
func (b *PublishBatch) Run(ctx context.Context) (PublishSummary, error) {
	if _, err := os.Stat(b.cfg.OutputRoot); err != nil {
		return PublishSummary{}, fmt.Errorf("input directory does not exist: %s", b.cfg.OutputRoot)
	}
	if err := os.MkdirAll(b.cfg.ListingsRoot, 0755); err != nil {
		return PublishSummary{}, fmt.Errorf("failed to create listings directory: %w", err)
	}

	entries, err := os.ReadDir(b.cfg.OutputRoot)
	if err != nil {
		return PublishSummary{}, fmt.Errorf("failed to read input directory: %w", err)
	}

	var summary PublishSummary
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == "metadata" {
			continue
		}
		summary.Folders++

		folder := filepath.Join(b.cfg.OutputRoot, entry.Name())
		result := b.processFolder(ctx, folder)
		switch {
		case result.Skipped:
			summary.Skipped++
		case result.Err != nil:
			slog.Error("Error processing folder", "folder", folder, "error", result.Err)
			summary.Failed++
		default:
			summary.Published++
		}
		summary.Results = append(summary.Results, result)
	}

	slog.Info("Publish run complete",
		"folders", summary.Folders,
		"published", summary.Published,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

// processFolder runs the full listing chain for one product folder.
func (b *PublishBatch) processFolder(ctx context.Context, folder string) FolderResult {
	result := FolderResult{Folder: folder}

	images, err := listingImages(folder)
	if err != nil {
		result.Err = err
		return result
	}
	if len(images) < b.cfg.MinImages {
		slog.Error("Not enough images to analyze", "folder", folder, "found", len(images), "need", b.cfg.MinImages)
		result.Skipped = true
		return result
	}

	keywords, err := vision.ExtractKeywords(ctx, b.detector, images[:b.cfg.MinImages], b.cfg.MaxLabels)
	if err != nil {
		result.Err = fmt.Errorf("keyword extraction: %w", err)
		return result
	}

	sku := catalog.Resolve(keywords)
	result.SKU = sku

	completion, err := b.generator.Generate(ctx, listing.BuildPrompt(keywords, sku))
	if err != nil {
		result.Err = fmt.Errorf("text generation: %w", err)
		return result
	}

	parsed, err := listing.ParseCompletion(completion)
	if err != nil {
		result.Err = err
		return result
	}

	html, err := b.renderer.Render(parsed)
	if err != nil {
		result.Err = err
		return result
	}

	// Output is keyed by folder name as well as SKU so two products
	// resolving to the same category never overwrite each other.
	outPath := filepath.Join(b.cfg.ListingsRoot, fmt.Sprintf("%s_%s.html", filepath.Base(folder), sku))
	if err := os.WriteFile(outPath, []byte(html), 0644); err != nil {
		result.Err = fmt.Errorf("failed to write listing file: %w", err)
		return result
	}
	result.Output = outPath
	slog.Info("Rendered listing", "folder", folder, "sku", sku, "output", outPath)

	item := marketplace.Item{
		Title:           parsed.Title,
		DescriptionHTML: html,
		CategoryID:      parsed.Specifics["category_id"],
		SKU:             sku,
		Specifics:       parsed.Specifics,
	}
	if err := b.publisher.Publish(ctx, item); err != nil {
		result.Err = fmt.Errorf("publish: %w", err)
		return result
	}

	return result
}

// listingImages returns the folder's supported images in sorted name order.
func listingImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if listingImageTypes[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, filepath.Join(folder, entry.Name()))
		}
	}
	return images, nil
}
