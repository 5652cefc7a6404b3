package domain

const (
	DefaultFillColor   = "#ffffff"
	DefaultStrokeColor = "#000000"
	DefaultFontFamily  = "Quantico"
)

// StyleConfig controls how the label is painted over the photo
type StyleConfig struct {
	FillColor   string `yaml:"fill_color"`
	StrokeColor string `yaml:"stroke_color"`
	Outline     bool   `yaml:"outline"`
	FontFamily  string `yaml:"font_family"`
}

func DefaultStyle() StyleConfig {
	return StyleConfig{
		FillColor:   DefaultFillColor,
		StrokeColor: DefaultStrokeColor,
		Outline:     true,
		FontFamily:  DefaultFontFamily,
	}
}
