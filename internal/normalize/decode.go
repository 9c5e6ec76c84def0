package normalize

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
	"github.com/rwcarlsen/goexif/exif"
)

// decode picks the decoder by extension. HEIC needs its own container path;
// everything else goes through the registered raster decoders.
func decode(data []byte, imageType string) (image.Image, error) {
	if imageType == ".heic" {
		img, err := goheif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("heic decode: %w", err)
		}
		return img, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// orientationOf extracts the EXIF orientation tag, returning 1 (no rotation)
// when the metadata is absent or malformed.
func orientationOf(data []byte, imageType string) int {
	raw := data
	if imageType == ".heic" {
		exifData, err := goheif.ExtractExif(bytes.NewReader(data))
		if err != nil {
			return 1
		}
		raw = exifData
	}

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// orient undoes the camera rotation recorded in the EXIF orientation tag.
// Only the pure-rotation orientations are handled; mirrored variants and
// unknown values pass through unchanged.
func orient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 3:
		return imaging.Rotate180(img)
	case 6:
		return imaging.Rotate270(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
