// Package config loads document settings from a YAML file.
//
// A file only needs the keys it changes; everything else keeps the values
// from Default. Paths may reference ${VAR} or ${VAR:-default}.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/wudi/simplepdf/builder"
	"github.com/wudi/simplepdf/fonts"
	"github.com/wudi/simplepdf/layout"
	"github.com/wudi/simplepdf/sink"
)

// Config is the complete set of document settings.
type Config struct {
	// Version is written to the header banner.
	Version string `yaml:"version"`

	// Metadata fills the information dictionary.
	Metadata builder.Metadata `yaml:"metadata"`

	Page   PageConfig   `yaml:"page"`
	Text   TextConfig   `yaml:"text"`
	Output OutputConfig `yaml:"output"`
}

// PageConfig selects the page size and margins, in millimetres.
type PageConfig struct {
	// Size names a standard paper size such as A4 or LETTER.
	Size string `yaml:"size"`

	// Dimension is an explicit [width, height] and wins over Size.
	Dimension []float64 `yaml:"dimension,omitempty"`

	// Landscape swaps width and height.
	Landscape bool `yaml:"landscape"`

	Margins MarginsConfig `yaml:"margins"`
}

// MarginsConfig holds the page margins used by flowed content.
type MarginsConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// TextConfig sets the defaults for flowed text.
type TextConfig struct {
	// Font is a standard font name or key (Helvetica, TIMES_ROMAN, /Courier).
	Font       string  `yaml:"font"`
	FontSize   float64 `yaml:"font_size"`
	LineHeight float64 `yaml:"line_height"`

	// Measurer sizes link rectangles and wrapped lines: face or shaping.
	Measurer string `yaml:"measurer"`
}

// Text measurer names.
const (
	MeasurerFace    = "face"
	MeasurerShaping = "shaping"
)

// OutputConfig says where the composed document is written.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Filename string `yaml:"filename"`

	// CheckContent tokenizes every content stream before it is written.
	CheckContent bool `yaml:"check_content"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Version: builder.DefaultVersion,
		Page: PageConfig{
			Size:    "A4",
			Margins: MarginsConfig{Top: 20, Right: 20, Bottom: 20, Left: 20},
		},
		Text: TextConfig{
			Font:       string(fonts.Helvetica),
			FontSize:   12,
			LineHeight: 1.2,
			Measurer:   MeasurerFace,
		},
		Output: OutputConfig{
			Dir:      ".",
			Filename: sink.DefaultFilename,
		},
	}
}

// LoadFile loads configuration from a specific file path on top of Default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	c.Output.Dir = expandVars(c.Output.Dir)
	c.Output.Filename = expandVars(c.Output.Filename)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Dimension(); err != nil {
		errs = append(errs, err)
	}
	if _, ok := fonts.LookupBaseFont(c.Text.Font); !ok {
		errs = append(errs, fmt.Errorf("text.font: unknown font %q", c.Text.Font))
	}
	if !(c.Text.FontSize > 0) {
		errs = append(errs, fmt.Errorf("text.font_size must be positive, got %v", c.Text.FontSize))
	}
	if !(c.Text.LineHeight > 0) {
		errs = append(errs, fmt.Errorf("text.line_height must be positive, got %v", c.Text.LineHeight))
	}
	switch c.Text.Measurer {
	case MeasurerFace, MeasurerShaping:
	default:
		errs = append(errs, fmt.Errorf("text.measurer: want %s or %s, got %q", MeasurerFace, MeasurerShaping, c.Text.Measurer))
	}
	m := c.Page.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		errs = append(errs, fmt.Errorf("page.margins must not be negative"))
	}
	if c.Output.Filename == "" {
		errs = append(errs, fmt.Errorf("output.filename is required"))
	}
	return errors.Join(errs...)
}

// Dimension resolves the page size to [width, height] in millimetres.
func (c *Config) Dimension() ([]float64, error) {
	var size builder.PaperSize
	switch {
	case len(c.Page.Dimension) > 0:
		if len(c.Page.Dimension) != 2 {
			return nil, fmt.Errorf("page.dimension needs two values, got %d", len(c.Page.Dimension))
		}
		size = builder.PaperSize{Width: c.Page.Dimension[0], Height: c.Page.Dimension[1]}
		if !(size.Width > 0) || !(size.Height > 0) {
			return nil, fmt.Errorf("page.dimension must be positive, got %v", c.Page.Dimension)
		}
	default:
		var ok bool
		if size, ok = builder.LookupPaperSize(c.Page.Size); !ok {
			return nil, fmt.Errorf("page.size: unknown paper size %q", c.Page.Size)
		}
	}
	if c.Page.Landscape {
		size = size.Landscape()
	}
	return size.Dimension(), nil
}

// BuilderOptions returns the document options the settings imply.
func (c *Config) BuilderOptions() []builder.Option {
	opts := []builder.Option{builder.WithVersion(c.Version)}
	switch c.Text.Measurer {
	case MeasurerShaping:
		opts = append(opts, builder.WithMeasurer(fonts.NewShapingMeasurer()))
	default:
		opts = append(opts, builder.WithMeasurer(fonts.NewFaceMeasurer()))
	}
	if c.Output.CheckContent {
		opts = append(opts, builder.WithContentCheck())
	}
	return opts
}

// LayoutOptions returns the layout engine options the settings imply.
func (c *Config) LayoutOptions() []layout.Option {
	font, _ := fonts.LookupBaseFont(c.Text.Font)
	m := c.Page.Margins
	return []layout.Option{
		layout.WithDefaultFont(font),
		layout.WithDefaultFontSize(c.Text.FontSize),
		layout.WithLineHeight(c.Text.LineHeight),
		layout.WithMargins(layout.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}),
	}
}
