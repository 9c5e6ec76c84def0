package normalize

import (
	"image"
	"testing"
)

func TestLoadWatermarkFallsBackToBuiltinFace(t *testing.T) {
	mark := LoadWatermark("does-not-exist.ttf", "also-does-not-exist.ttf")
	if mark == nil {
		t.Fatal("Expected a watermark even with no fonts available")
	}
	if mark.face == nil {
		t.Fatal("Expected the built-in face as last resort")
	}
}

func TestApplyDrawsInBottomRight(t *testing.T) {
	mark := LoadWatermark("does-not-exist.ttf", "also-does-not-exist.ttf")

	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	mark.Apply(img)

	// The text lands near the bottom-right corner; the top-left quadrant
	// must stay untouched.
	changed := false
	for y := 100; y < 200; y++ {
		for x := 200; x < 400; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				changed = true
			}
		}
	}
	if !changed {
		t.Error("Expected watermark pixels in the bottom-right quadrant")
	}

	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				t.Fatalf("Unexpected pixel outside watermark area at %d,%d", x, y)
			}
		}
	}
}

func TestApplyClampsOnTinyImages(t *testing.T) {
	mark := LoadWatermark("does-not-exist.ttf", "also-does-not-exist.ttf")

	// Narrower than the rendered text. Apply must not panic; drawing is
	// clipped to the image bounds.
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	mark.Apply(img)
}
