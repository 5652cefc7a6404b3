package render

import (
	"math"
)

// Metrics are the text dimensions derived from the photo size, so the
// label keeps the same proportions on any resolution.
type Metrics struct {
	FontSize      int
	Padding       float64
	StrokeWidth   int
	LetterSpacing int
}

func MetricsFor(width, height int) Metrics {
	base := float64(min(width, height))
	fontSize := math.Ceil(base * 0.04)
	return Metrics{
		FontSize:      int(fontSize),
		Padding:       base * 0.025,
		StrokeWidth:   int(math.Ceil(fontSize * 0.1)),
		LetterSpacing: int(math.Ceil(fontSize * 0.05)),
	}
}
