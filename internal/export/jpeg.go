package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
)

const (
	// MediaType of every exported artifact
	MediaType = "image/jpeg"

	// DefaultQuality is the encoder quality on a 0 to 1 scale
	DefaultQuality = 0.9
)

var ErrInvalidQuality = errors.New("quality must be greater than 0 and at most 1")

// Encoder turns composited bitmaps into downloadable JPEG blobs
type Encoder struct {
	Quality float64
}

func NewEncoder(quality float64) (Encoder, error) {
	if err := validateQuality(quality); err != nil {
		return Encoder{}, err
	}
	return Encoder{Quality: quality}, nil
}

func (e Encoder) Encode(ctx context.Context, img image.Image) ([]byte, error) {
	return Encode(ctx, img, e.Quality)
}

// Encode writes img as a JPEG. quality is on a 0 to 1 scale.
func Encode(ctx context.Context, img image.Image, quality float64) ([]byte, error) {
	if err := validateQuality(quality); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality(quality)}); err != nil {
		return nil, fmt.Errorf("while encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// JPEGQuality maps a 0 to 1 quality onto the 1 to 100 scale of image/jpeg
func JPEGQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	return max(1, min(100, q))
}

func validateQuality(quality float64) error {
	if math.IsNaN(quality) || quality <= 0 || quality > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidQuality, quality)
	}
	return nil
}
