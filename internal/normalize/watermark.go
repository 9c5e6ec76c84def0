package normalize

import (
	"image"
	"image/color"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	watermarkText   = "Eternal Elegance Emporium"
	watermarkSize   = 16
	watermarkMargin = 10
)

// Watermark draws semi-transparent branding text anchored to the
// bottom-right corner of an image.
type Watermark struct {
	face font.Face
	text string
}

// LoadWatermark resolves the font fallback chain: the preferred TTF, then the
// fallback TTF, then the built-in bitmap face. It never fails.
func LoadWatermark(fontPath, fallbackPath string) *Watermark {
	if face, err := loadFace(fontPath); err == nil {
		slog.Info("Using watermark font", "path", fontPath)
		return &Watermark{face: face, text: watermarkText}
	} else {
		slog.Warn("Watermark font not usable, trying fallback", "path", fontPath, "error", err)
	}

	if face, err := loadFace(fallbackPath); err == nil {
		slog.Info("Using fallback watermark font", "path", fallbackPath)
		return &Watermark{face: face, text: watermarkText}
	} else {
		slog.Warn("Fallback font not usable, using built-in face", "path", fallbackPath, "error", err)
	}

	return &Watermark{face: basicfont.Face7x13, text: watermarkText}
}

func loadFace(path string) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    watermarkSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Apply draws the watermark in place. Placement uses the measured text
// bounds, clamped so the text never starts outside the image.
func (w *Watermark) Apply(img *image.NRGBA) {
	bounds, advance := font.BoundString(w.face, w.text)
	textWidth := advance.Ceil()
	descent := bounds.Max.Y.Ceil()

	x := img.Bounds().Dx() - textWidth - watermarkMargin
	if x < watermarkMargin {
		x = watermarkMargin
	}
	y := img.Bounds().Dy() - watermarkMargin - descent

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 128}),
		Face: w.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(w.text)
}
