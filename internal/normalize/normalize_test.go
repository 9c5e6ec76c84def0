package normalize

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/eternal-elegance/emporium/internal/ledger"
)

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func newTestNormalizer(t *testing.T, outputRoot string) (*Normalizer, string) {
	t.Helper()
	ledgerPath := ledger.Path(outputRoot)
	led, err := ledger.Init(ledgerPath)
	if err != nil {
		t.Fatalf("Failed to init ledger: %v", err)
	}
	mark := LoadWatermark("missing.ttf", "also-missing.ttf")
	return New(outputRoot, 1024, 768, 2, mark, led), ledgerPath
}

func TestProcessImageOutputsTargetResolution(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	norm, ledgerPath := newTestNormalizer(t, outDir)

	src := filepath.Join(inDir, "photo.jpg")
	writeJPEG(t, src, 640, 480)

	if err := norm.ProcessImage(src, 3, 1, ".jpg"); err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}

	outPath := filepath.Join(outDir, "Product_00003", "Product_00003_Image_01.png")
	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Expected output file at %s: %v", outPath, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("Failed to decode output: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected png output, got %s", format)
	}
	if cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("Expected 1024x768, got %dx%d", cfg.Width, cfg.Height)
	}

	records, err := ledger.Read(ledgerPath)
	if err != nil {
		t.Fatalf("Failed to read ledger: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 ledger record, got %d", len(records))
	}
	r := records[0]
	if r.ProductID != 3 || r.FileName != "Product_00003_Image_01.png" || r.Type != ".jpg" || r.Width != 1024 || r.Height != 768 {
		t.Errorf("Unexpected ledger record: %+v", r)
	}
}

func TestProcessDirectory(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	norm, ledgerPath := newTestNormalizer(t, outDir)

	for i := 1; i <= 3; i++ {
		writeJPEG(t, filepath.Join(inDir, fmt.Sprintf("img_%d.jpg", i)), 800, 600)
	}

	written, failed, err := norm.ProcessDirectory(inDir, 1)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if written != 3 || failed != 0 {
		t.Fatalf("Expected 3 written / 0 failed, got %d / %d", written, failed)
	}

	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("Product_00001_Image_%02d.png", i)
		if _, err := os.Stat(filepath.Join(outDir, "Product_00001", name)); err != nil {
			t.Errorf("Expected output file %s: %v", name, err)
		}
	}

	records, err := ledger.Read(ledgerPath)
	if err != nil {
		t.Fatalf("Failed to read ledger: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 ledger records, got %d", len(records))
	}
}

func TestProcessDirectoryDoesNotAdvanceIndexOnFailure(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	norm, _ := newTestNormalizer(t, outDir)

	// Sorted order: bad.jpg fails its decode, good.jpg and worse.jpg
	// normalize. The index must stay contiguous.
	if err := os.WriteFile(filepath.Join(inDir, "bad.jpg"), []byte("not an image"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}
	writeJPEG(t, filepath.Join(inDir, "good.jpg"), 800, 600)
	writeJPEG(t, filepath.Join(inDir, "worse.jpg"), 800, 600)

	written, failed, err := norm.ProcessDirectory(inDir, 1)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if written != 2 || failed != 1 {
		t.Fatalf("Expected 2 written / 1 failed, got %d / %d", written, failed)
	}

	for i := 1; i <= 2; i++ {
		name := fmt.Sprintf("Product_00001_Image_%02d.png", i)
		if _, err := os.Stat(filepath.Join(outDir, "Product_00001", name)); err != nil {
			t.Errorf("Expected output file %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "Product_00001", "Product_00001_Image_03.png")); err == nil {
		t.Error("Index advanced past the number of successful images")
	}
}

func TestProcessDirectorySkipsBelowMinimum(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	norm, ledgerPath := newTestNormalizer(t, outDir)

	writeJPEG(t, filepath.Join(inDir, "only.jpg"), 800, 600)

	written, failed, err := norm.ProcessDirectory(inDir, 1)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if written != 0 || failed != 0 {
		t.Errorf("Expected 0 written / 0 failed for skipped directory, got %d / %d", written, failed)
	}
	if _, err := os.Stat(filepath.Join(outDir, "Product_00001")); err == nil {
		t.Error("Skipped directory produced output files")
	}

	records, err := ledger.Read(ledgerPath)
	if err != nil {
		t.Fatalf("Failed to read ledger: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected 0 ledger records for skipped directory, got %d", len(records))
	}
}

func TestProcessDirectoryIgnoresSidecarFiles(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	norm, ledgerPath := newTestNormalizer(t, outDir)

	writeJPEG(t, filepath.Join(inDir, "only.jpg"), 800, 600)
	if err := os.WriteFile(filepath.Join(inDir, ".DS_Store"), []byte{0, 0, 0, 1}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inDir, "readme.txt"), []byte("notes"), 0644); err != nil {
		t.Fatal(err)
	}

	written, failed, err := norm.ProcessDirectory(inDir, 1)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if written != 0 || failed != 0 {
		t.Errorf("Sidecar files must not satisfy the image minimum, got %d written / %d failed", written, failed)
	}

	records, err := ledger.Read(ledgerPath)
	if err != nil {
		t.Fatalf("Failed to read ledger: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected 0 ledger records, got %d", len(records))
	}
}

func TestOrient(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 30, 20))

	tests := []struct {
		orientation   int
		width, height int
	}{
		{1, 30, 20},
		{3, 30, 20},
		{6, 20, 30},
		{8, 20, 30},
		{0, 30, 20},
		{99, 30, 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("orientation_%d", tt.orientation), func(t *testing.T) {
			got := orient(base, tt.orientation)
			b := got.Bounds()
			if b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("Expected %dx%d, got %dx%d", tt.width, tt.height, b.Dx(), b.Dy())
			}
		})
	}
}

func TestOrientationOfMalformedData(t *testing.T) {
	if got := orientationOf([]byte("junk"), ".jpg"); got != 1 {
		t.Errorf("Expected orientation 1 for malformed data, got %d", got)
	}
}

func TestConvertToPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "anim.gif")

	img := image.NewPaletted(image.Rect(0, 0, 40, 30), []color.Color{color.Black, color.White})
	f, err := os.Create(src)
	if err != nil {
		t.Fatalf("Failed to create gif: %v", err)
	}
	if err := gif.Encode(f, img, nil); err != nil {
		t.Fatalf("Failed to encode gif: %v", err)
	}
	f.Close()

	converted, err := convertToPNG(src)
	if err != nil {
		t.Fatalf("convertToPNG failed: %v", err)
	}
	if converted != filepath.Join(dir, "anim.png") {
		t.Errorf("Unexpected converted path: %s", converted)
	}

	out, err := os.Open(converted)
	if err != nil {
		t.Fatalf("Converted file missing: %v", err)
	}
	defer out.Close()
	if _, format, err := image.DecodeConfig(out); err != nil || format != "png" {
		t.Errorf("Expected decodable png, got format %q err %v", format, err)
	}
}

func TestConvertToPNGRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "junk.bin")
	if err := os.WriteFile(src, []byte("garbage"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if _, err := convertToPNG(src); err == nil {
		t.Error("Expected error for undecodable file, got nil")
	}
}
