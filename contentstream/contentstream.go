// Package contentstream formats the operator lines that make up a page
// content stream. Coordinates passed here are already in points.
package contentstream

import (
	"strconv"
	"strings"
)

// Fixed formats v with five decimals, the precision used for every
// coordinate in the content stream.
func Fixed(v float64) string { return strconv.FormatFloat(v, 'f', 5, 64) }

// Real formats v in its shortest exact form.
func Real(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

var escaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// Escape protects backslashes and parentheses for a literal string.
func Escape(s string) string { return escaper.Replace(s) }

// Literal wraps s as a literal string operand.
func Literal(s string) string { return "(" + Escape(s) + ")" }

// FillColor sets the non-stroking RGB color from 0-255 components.
func FillColor(r, g, b uint8) string { return rgb(r, g, b) + " rg" }

// StrokeColor sets the stroking RGB color from 0-255 components.
func StrokeColor(r, g, b uint8) string { return rgb(r, g, b) + " RG" }

func rgb(r, g, b uint8) string {
	return Real(float64(r)/255) + " " + Real(float64(g)/255) + " " + Real(float64(b)/255)
}

// Operator renders the style as "w j J d" operators. A non-positive width
// falls back to 1.
func (s LineStyle) Operator() string {
	width := s.Width
	if width <= 0 {
		width = 1
	}
	dash := make([]string, len(s.Dash))
	for i, d := range s.Dash {
		dash[i] = Real(d)
	}
	style := strconv.Itoa(int(s.Cap))
	return Real(width) + " w " + style + " j " + style + " J [" + strings.Join(dash, " ") + "] " + Real(s.Phase) + " d"
}

// Operator returns the painting operator for a closed shape; ok is false
// when nothing is to be painted.
func (p Paint) Operator() (op string, ok bool) {
	switch {
	case p.Border && p.Fill:
		return "b", true
	case p.Fill:
		return "f", true
	case p.Border:
		return "s", true
	default:
		return "", false
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) *Path {
	p.Subpaths = append(p.Subpaths, Subpath{Points: []PathPoint{{Type: PathMoveTo, X: x, Y: y}}})
	return p
}

// LineTo appends a straight segment.
func (p *Path) LineTo(x, y float64) *Path {
	p.current().Points = append(p.current().Points, PathPoint{Type: PathLineTo, X: x, Y: y})
	return p
}

// CurveTo appends a cubic Bezier segment.
func (p *Path) CurveTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	p.current().Points = append(p.current().Points, PathPoint{
		Type: PathCurveTo, X: x, Y: y,
		Control1X: c1x, Control1Y: c1y,
		Control2X: c2x, Control2Y: c2y,
	})
	return p
}

func (p *Path) current() *Subpath {
	if len(p.Subpaths) == 0 {
		p.Subpaths = append(p.Subpaths, Subpath{})
	}
	return &p.Subpaths[len(p.Subpaths)-1]
}

// Construction renders the path construction operators, each followed by a
// space, ready for a painting operator to be appended.
func (p Path) Construction() string {
	var b strings.Builder
	for _, sp := range p.Subpaths {
		for _, pt := range sp.Points {
			switch pt.Type {
			case PathMoveTo:
				b.WriteString(Fixed(pt.X) + " " + Fixed(pt.Y) + " m ")
			case PathLineTo:
				b.WriteString(Fixed(pt.X) + " " + Fixed(pt.Y) + " l ")
			case PathCurveTo:
				b.WriteString(Fixed(pt.Control1X) + " " + Fixed(pt.Control1Y) + " " +
					Fixed(pt.Control2X) + " " + Fixed(pt.Control2Y) + " " +
					Fixed(pt.X) + " " + Fixed(pt.Y) + " c ")
			}
		}
	}
	return b.String()
}

// Rect renders a rectangle construction operator with its lower-left corner
// at (x, y).
func Rect(x, y, w, h float64) string {
	return Fixed(x) + " " + Fixed(y) + " " + Fixed(w) + " " + Fixed(h) + " re "
}

// TextObject renders a text object that shows the already encoded string at
// (x, y).
func TextObject(x, y float64, encoded string) []string {
	return []string{
		"BT",
		Fixed(x) + " " + Fixed(y) + " Td",
		Literal(encoded) + " Tj",
		"ET",
	}
}

// FontSelect renders the Tf operator.
func FontSelect(name string, size float64) string { return name + " " + Real(size) + " Tf" }

// DrawXObject renders the Do operator.
func DrawXObject(name string) string { return name + " Do" }

// Placement renders the two cm operators that map the unit square onto a
// w by h box whose lower-left corner is at (x, y).
func Placement(x, y, w, h float64) []string {
	return []string{
		"1 0 0 1 " + Fixed(x) + " " + Fixed(y) + " cm",
		Fixed(w) + " 0 0 " + Fixed(h) + " 0 0 cm",
	}
}
