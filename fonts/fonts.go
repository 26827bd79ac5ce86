// Package fonts knows the standard Type1 fonts and encodings and measures
// the rendered extent of text set in them.
package fonts

import (
	"fmt"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Extent is the rendered bounding box of a piece of text, in points.
type Extent struct {
	Width  float64
	Height float64
}

// Measurer reports the rendered extent of text set at size points in font.
type Measurer interface {
	Measure(text string, size float64, font BaseFont) (Extent, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(text string, size float64, font BaseFont) (Extent, error)

func (f MeasurerFunc) Measure(text string, size float64, font BaseFont) (Extent, error) {
	return f(text, size, font)
}

// metricFace returns the TrueType data of the Go font family member that
// stands in for a standard font when measuring.
func metricFace(f BaseFont) []byte {
	switch {
	case f.Monospaced() && f.Bold() && f.Slanted():
		return gomonobolditalic.TTF
	case f.Monospaced() && f.Bold():
		return gomonobold.TTF
	case f.Monospaced() && f.Slanted():
		return gomonoitalic.TTF
	case f.Monospaced():
		return gomono.TTF
	case f.Bold() && f.Slanted():
		return gobolditalic.TTF
	case f.Bold():
		return gobold.TTF
	case f.Slanted():
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

// FaceMeasurer measures text with golang.org/x/image font faces at 72 DPI,
// so one pixel equals one point. Markup in the text is reduced to its
// visible characters first.
type FaceMeasurer struct {
	mu     sync.Mutex
	parsed map[BaseFont]*opentype.Font
}

func NewFaceMeasurer() *FaceMeasurer {
	return &FaceMeasurer{parsed: make(map[BaseFont]*opentype.Font)}
}

func (m *FaceMeasurer) font(f BaseFont) (*opentype.Font, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.parsed == nil {
		m.parsed = make(map[BaseFont]*opentype.Font)
	}
	if ft, ok := m.parsed[f]; ok {
		return ft, nil
	}
	ft, err := opentype.Parse(metricFace(f))
	if err != nil {
		return nil, fmt.Errorf("parse metric face for %s: %w", f, err)
	}
	m.parsed[f] = ft
	return ft, nil
}

func (m *FaceMeasurer) Measure(text string, size float64, f BaseFont) (Extent, error) {
	if size <= 0 {
		return Extent{}, fmt.Errorf("font size must be positive, got %v", size)
	}
	ft, err := m.font(f)
	if err != nil {
		return Extent{}, err
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: xfont.HintingNone})
	if err != nil {
		return Extent{}, fmt.Errorf("open face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	return Extent{
		Width:  fixedToFloat(xfont.MeasureString(face, VisibleText(text))),
		Height: fixedToFloat(metrics.Ascent + metrics.Descent),
	}, nil
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
