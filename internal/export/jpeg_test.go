package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	return img
}

func TestEncode(t *testing.T) {
	ctx := context.Background()

	t.Run("produces a decodable jpeg", func(t *testing.T) {
		blob, err := Encode(ctx, testImage(), DefaultQuality)
		require.NoError(t, err)
		img, format, err := image.Decode(bytes.NewReader(blob))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
	})

	t.Run("is deterministic", func(t *testing.T) {
		a, err := Encode(ctx, testImage(), DefaultQuality)
		require.NoError(t, err)
		b, err := Encode(ctx, testImage(), DefaultQuality)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("rejects out of range quality", func(t *testing.T) {
		for _, q := range []float64{0, -0.5, 1.01, math.NaN()} {
			_, err := Encode(ctx, testImage(), q)
			assert.ErrorIs(t, err, ErrInvalidQuality)
		}
	})

	t.Run("encoder failures are returned", func(t *testing.T) {
		huge := image.NewGray(image.Rect(0, 0, 1<<16+1, 1))
		_, err := Encode(ctx, huge, DefaultQuality)
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Encode(cctx, testImage(), DefaultQuality)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewEncoder(t *testing.T) {
	e, err := NewEncoder(0.5)
	require.NoError(t, err)
	blob, err := e.Encode(context.Background(), testImage())
	require.NoError(t, err)
	_, err = jpeg.Decode(bytes.NewReader(blob))
	require.NoError(t, err)

	_, err = NewEncoder(2)
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestJPEGQuality(t *testing.T) {
	assert.Equal(t, 90, JPEGQuality(0.9))
	assert.Equal(t, 100, JPEGQuality(1))
	assert.Equal(t, 1, JPEGQuality(0.001))
}
