package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/lewtec/photolabel/internal/domain"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Renderer burns a label into the bottom center of a photo
type Renderer struct {
	fonts  *FontLibrary
	interp draw.Interpolator
	log    zerolog.Logger
}

func NewRenderer(fonts *FontLibrary, log zerolog.Logger) *Renderer {
	return &Renderer{
		fonts:  fonts,
		interp: draw.CatmullRom,
		log:    log,
	}
}

// Fonts exposes the library used to resolve style font families
func (r *Renderer) Fonts() *FontLibrary {
	return r.fonts
}

// Render returns a new bitmap with the natural size of src. The outline is
// painted before the fill so the fill always sits on top. An empty label
// returns the photo as is.
func (r *Renderer) Render(ctx context.Context, src image.Image, label string, style domain.StyleConfig) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	r.interp.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	if label == "" {
		return dst, nil
	}

	fill, err := ParseHexColor(style.FillColor)
	if err != nil {
		return nil, fmt.Errorf("while parsing fill color: %w", err)
	}
	var stroke color.RGBA
	if style.Outline {
		stroke, err = ParseHexColor(style.StrokeColor)
		if err != nil {
			return nil, fmt.Errorf("while parsing stroke color: %w", err)
		}
	}

	fnt, family := r.fonts.Resolve(style.FontFamily)
	if fnt == nil {
		return nil, fmt.Errorf("no font available for family %q", style.FontFamily)
	}
	m := MetricsFor(b.Dx(), b.Dy())
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(m.FontSize),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("while creating %s face: %w", family, err)
	}
	defer face.Close()

	radius := strokeRadius(m.StrokeWidth)
	text := textMask(face, label, m, dst.Bounds(), radius)
	if text == nil {
		return dst, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if style.Outline && radius > 0 {
		outline := dilate(text, radius)
		draw.DrawMask(dst, outline.Rect, image.NewUniform(stroke), image.Point{}, outline, outline.Rect.Min, draw.Over)
	}
	draw.DrawMask(dst, text.Rect, image.NewUniform(fill), image.Point{}, text, text.Rect.Min, draw.Over)

	r.log.Debug().
		Str("label", label).
		Str("font", family).
		Int("font_size", m.FontSize).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Msg("render: label composited")
	return dst, nil
}

// strokeRadius is how far a centered stroke of the given width reaches
// outside the glyph edge.
func strokeRadius(width int) int {
	return (width + 1) / 2
}

type placedGlyph struct {
	r   rune
	dot fixed.Point26_6
}

// textMask rasterizes label horizontally centered on canvas with its
// baseline padding pixels above the bottom edge. The mask is grown by
// margin on every side to leave room for the outline. It returns nil when
// the label has no visible glyphs.
func textMask(face font.Face, label string, m Metrics, canvas image.Rectangle, margin int) *image.Alpha {
	spacing := fixed.I(m.LetterSpacing)

	var (
		glyphs []placedGlyph
		bounds fixed.Rectangle26_6
		x      fixed.Int26_6
		prev   rune = -1
	)
	for _, c := range label {
		if prev >= 0 {
			x += face.Kern(prev, c)
		}
		gb, advance, _ := face.GlyphBounds(c)
		pos := fixed.Point26_6{X: x}
		glyphs = append(glyphs, placedGlyph{r: c, dot: pos})
		if !gb.Empty() {
			bounds = bounds.Union(gb.Add(pos))
		}
		x += advance + spacing
		prev = c
	}
	if bounds.Empty() {
		return nil
	}

	origin := fixed.Point26_6{
		X: fixed.I(canvas.Min.X) + (fixed.I(canvas.Dx())-x)/2,
		Y: fixed.Int26_6(math.Round((float64(canvas.Max.Y) - m.Padding) * 64)),
	}
	bounds = bounds.Add(origin)
	rect := image.Rect(
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
	).Inset(-margin)

	mask := image.NewAlpha(rect)
	for _, g := range glyphs {
		dr, glyph, gp, _, ok := face.Glyph(g.dot.Add(origin), g.r)
		if !ok || glyph == nil {
			continue
		}
		draw.DrawMask(mask, dr, image.Opaque, image.Point{}, glyph, gp, draw.Over)
	}
	return mask
}

// dilate grows every covered pixel of mask by a disk of the given radius,
// which is how the outline is obtained from the glyph coverage.
func dilate(mask *image.Alpha, radius int) *image.Alpha {
	out := image.NewAlpha(mask.Rect)
	offsets := disk(radius)
	b := mask.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var v uint8
			for _, o := range offsets {
				p := image.Pt(x+o.X, y+o.Y)
				if !p.In(b) {
					continue
				}
				if a := mask.Pix[mask.PixOffset(p.X, p.Y)]; a > v {
					v = a
					if v == 0xff {
						break
					}
				}
			}
			out.Pix[out.PixOffset(x, y)] = v
		}
	}
	return out
}

func disk(radius int) []image.Point {
	var points []image.Point
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				points = append(points, image.Pt(dx, dy))
			}
		}
	}
	return points
}
