package label

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lewtec/photolabel/internal/domain"
)

var ErrEmptyImage = errors.New("image has no pixels")

// OrientationField is the EXIF tag telling how the sensor image must be
// turned to display upright
const OrientationField = "Orientation"

// DecodeImage decodes any registered format and reports its format name
func DecodeImage(ctx context.Context, data []byte) (image.Image, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	m, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("while decoding image: %w", err)
	}
	if m.Bounds().Empty() {
		return nil, format, ErrEmptyImage
	}
	return m, format, nil
}

// Orient applies the EXIF orientation found in record, the way browsers
// show photos. Images without the tag, or with orientation 1, are
// returned unchanged.
func Orient(img image.Image, record domain.MetadataRecord) image.Image {
	o, _ := record.Int(OrientationField)
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		// imaging rotates counter clockwise
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
