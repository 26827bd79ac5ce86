package fonts

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapingMeasurer measures text by shaping it with HarfBuzz through
// go-text/typesetting, so kerning and ligatures count toward the width.
type ShapingMeasurer struct {
	mu     sync.Mutex
	faces  map[BaseFont]*gofont.Face
	shaper shaping.HarfbuzzShaper
}

func NewShapingMeasurer() *ShapingMeasurer {
	return &ShapingMeasurer{faces: make(map[BaseFont]*gofont.Face)}
}

func (m *ShapingMeasurer) face(f BaseFont) (*gofont.Face, error) {
	if m.faces == nil {
		m.faces = make(map[BaseFont]*gofont.Face)
	}
	if face, ok := m.faces[f]; ok {
		return face, nil
	}
	face, err := gofont.ParseTTF(bytes.NewReader(metricFace(f)))
	if err != nil {
		return nil, fmt.Errorf("parse metric face for %s: %w", f, err)
	}
	m.faces[f] = face
	return face, nil
}

func (m *ShapingMeasurer) Measure(text string, size float64, f BaseFont) (Extent, error) {
	if size <= 0 {
		return Extent{}, fmt.Errorf("font size must be positive, got %v", size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(f)
	if err != nil {
		return Extent{}, err
	}
	runes := []rune(VisibleText(text))
	out := m.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      fixed.Int26_6(size * 64),
		Script:    language.Latin,
		Language:  language.DefaultLanguage(),
	})
	descent := out.LineBounds.Descent
	if descent < 0 {
		descent = -descent
	}
	return Extent{
		Width:  fixedToFloat(out.Advance),
		Height: fixedToFloat(out.LineBounds.Ascent + descent),
	}, nil
}
