// Package normalize turns raw product photos into watermarked,
// fixed-resolution PNGs. The sequence per image is decode, orientation fix,
// sharpen, resize, watermark, encode.
package normalize

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/eternal-elegance/emporium/internal/ledger"
)

// SupportedTypes are the extensions the normalizer decodes directly.
var SupportedTypes = map[string]bool{
	".heic": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
}

// convertibleTypes are decodable formats outside SupportedTypes; they get
// converted to PNG before normalization.
var convertibleTypes = map[string]bool{
	".gif": true,
	".bmp": true,
}

// isImageCandidate reports whether a file name counts toward the per-directory
// image minimum. Sidecar files like .DS_Store or readmes do not.
func isImageCandidate(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return SupportedTypes[ext] || convertibleTypes[ext]
}

// Kernel for the fixed 3x3 sharpening convolution.
var sharpenKernel = [9]float64{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

// Normalizer processes raw images for one product at a time, writing output
// files under the output root and appending a ledger row per success.
type Normalizer struct {
	outputRoot   string
	targetWidth  int
	targetHeight int
	minImages    int
	mark         *Watermark
	ledger       *ledger.Ledger
}

func New(outputRoot string, targetWidth, targetHeight, minImages int, mark *Watermark, led *ledger.Ledger) *Normalizer {
	return &Normalizer{
		outputRoot:   outputRoot,
		targetWidth:  targetWidth,
		targetHeight: targetHeight,
		minImages:    minImages,
		mark:         mark,
		ledger:       led,
	}
}

// ProcessDirectory normalizes every supported image in dir for the given
// product id. Directories below the configured minimum image count are
// skipped entirely with a logged error. Files are visited in sorted name
// order; the image index only advances on success. Single-image failures are
// logged and skipped.
func (n *Normalizer) ProcessDirectory(dir string, productID int) (written, failed int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read product directory: %w", err)
	}

	images := 0
	for _, entry := range entries {
		if !entry.IsDir() && isImageCandidate(entry.Name()) {
			images++
		}
	}
	if images < n.minImages {
		slog.Error("Not enough images to process", "dir", dir, "found", images, "need", n.minImages)
		return 0, 0, nil
	}

	index := 1
	for _, entry := range entries {
		if entry.IsDir() || !isImageCandidate(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !SupportedTypes[ext] {
			converted, convErr := convertToPNG(path)
			if convErr != nil {
				slog.Error("Failed to convert image to supported format", "file", path, "error", convErr)
				failed++
				continue
			}
			path = converted
			ext = ".png"
		}

		if procErr := n.ProcessImage(path, productID, index, ext); procErr != nil {
			slog.Error("Failed to process image", "file", path, "error", procErr)
			failed++
			continue
		}
		index++
		written++
	}

	return written, failed, nil
}

// ProcessImage normalizes a single image and appends its ledger row. The
// output file is written before the ledger row, so every row corresponds to
// an existing file.
func (n *Normalizer) ProcessImage(path string, productID, imageIndex int, imageType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	img, err := decode(data, imageType)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	img = orient(img, orientationOf(data, imageType))
	sharpened := imaging.Convolve3x3(img, sharpenKernel, nil)
	resized := imaging.Resize(sharpened, n.targetWidth, n.targetHeight, imaging.Lanczos)
	n.mark.Apply(resized)

	productDir := filepath.Join(n.outputRoot, fmt.Sprintf("Product_%05d", productID))
	if err := os.MkdirAll(productDir, 0755); err != nil {
		return fmt.Errorf("failed to create product directory: %w", err)
	}

	fileName := fmt.Sprintf("Product_%05d_Image_%02d.png", productID, imageIndex)
	outPath := filepath.Join(productDir, fileName)
	if err := imaging.Save(resized, outPath); err != nil {
		return fmt.Errorf("failed to save normalized image: %w", err)
	}

	if err := n.ledger.Append(ledger.Record{
		ProductID: productID,
		FileName:  fileName,
		Type:      imageType,
		Width:     resized.Bounds().Dx(),
		Height:    resized.Bounds().Dy(),
	}); err != nil {
		return fmt.Errorf("failed to record image in ledger: %w", err)
	}

	slog.Info("Processed image", "file", path, "output", outPath)
	return nil
}

// convertToPNG re-encodes an image of an unsupported raster format as PNG
// beside the source file and returns the new path.
func convertToPNG(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	newPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	if err := imaging.Save(img, newPath); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", newPath, err)
	}
	return newPath, nil
}
