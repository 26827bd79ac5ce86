// Package layout flows structured content (Markdown/HTML) onto the pages of
// a builder.Document. Lengths are millimetres, font sizes points.
package layout

import (
	"strings"

	"github.com/wudi/simplepdf/builder"
	"github.com/wudi/simplepdf/coords"
	"github.com/wudi/simplepdf/fonts"
)

// Engine handles the layout of structured content into document pages.
type Engine struct {
	doc *builder.Document

	// Configuration
	DefaultFont     fonts.BaseFont
	DefaultFontSize float64
	LineHeight      float64 // Multiplier, e.g., 1.2
	Margins         Margins
	TextColor       Color
	LinkColor       Color

	// State
	onPage  bool
	cursorY float64
	color   Color
}

// Margins defines page margins in millimetres.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// Option defines a configuration option for the Engine.
type Option func(*Engine)

// WithDefaultFont sets the default font.
func WithDefaultFont(font fonts.BaseFont) Option {
	return func(e *Engine) {
		e.DefaultFont = font
	}
}

// WithDefaultFontSize sets the default font size.
func WithDefaultFontSize(size float64) Option {
	return func(e *Engine) {
		e.DefaultFontSize = size
	}
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(height float64) Option {
	return func(e *Engine) {
		e.LineHeight = height
	}
}

// WithMargins sets the page margins.
func WithMargins(margins Margins) Option {
	return func(e *Engine) {
		e.Margins = margins
	}
}

// WithLinkColor sets the color links are drawn in.
func WithLinkColor(c Color) Option {
	return func(e *Engine) {
		e.LinkColor = c
	}
}

// NewEngine creates a layout engine that draws into doc. The engine opens
// its first page lazily.
func NewEngine(doc *builder.Document, opts ...Option) *Engine {
	e := &Engine{
		doc:             doc,
		DefaultFont:     fonts.Helvetica,
		DefaultFontSize: 12,
		LineHeight:      1.2,
		Margins: Margins{
			Top:    20,
			Bottom: 20,
			Left:   20,
			Right:  20,
		},
		LinkColor: Color{B: 238},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cursor returns the distance in millimetres from the top of the current
// page to where the next line starts.
func (e *Engine) Cursor() float64 { return e.cursorY }

// ensurePage makes sure there is a current page and the cursor is valid.
func (e *Engine) ensurePage() {
	if !e.onPage {
		e.newPage()
	}
}

// newPage starts a new page and resets the cursor. Colors do not carry
// over to the new content stream.
func (e *Engine) newPage() {
	e.doc.AddPage()
	e.onPage = true
	e.cursorY = e.Margins.Top
	e.color = Color{}
}

// checkPageBreak adds a new page unless height fits above the bottom margin.
func (e *Engine) checkPageBreak(height float64) {
	if !e.onPage {
		e.newPage()
		return
	}
	if e.cursorY+height > e.doc.PageSize().Height-e.Margins.Bottom && e.cursorY > e.Margins.Top {
		e.newPage()
	}
}

// lineHeight converts a font size to the advance of one line.
func (e *Engine) lineHeight(size float64) float64 {
	return coords.ToMillimeters(size * e.LineHeight)
}

func (e *Engine) setColor(c Color) error {
	if c == e.color {
		return nil
	}
	if err := e.doc.SetFontColor(c.R, c.G, c.B); err != nil {
		return err
	}
	e.color = c
	return nil
}

// TextSpan represents a segment of text with specific styling.
type TextSpan struct {
	Text          string
	Font          fonts.BaseFont
	FontSize      float64
	Link          string
	Color         *Color
	Underline     bool
	Strikethrough bool
}

func (e *Engine) renderParagraphSpacing() {
	if e.onPage {
		e.cursorY += e.lineHeight(e.DefaultFontSize) / 2
	}
}

func (e *Engine) renderTextWrapped(text string, x float64, font fonts.BaseFont, fontSize float64) error {
	return e.renderSpans([]TextSpan{{
		Text:     text,
		Font:     font,
		FontSize: fontSize,
	}}, x)
}

type wordSpan struct {
	text  string
	span  TextSpan
	width float64 // millimetres
}

// renderSpans lays spans out from x to the right margin, breaking between
// words and, for words wider than a line, between characters.
func (e *Engine) renderSpans(spans []TextSpan, x float64) error {
	if len(spans) == 0 {
		return nil
	}
	maxWidth := e.doc.PageSize().Width - e.Margins.Right - x

	var (
		currentLine      []wordSpan
		currentLineWidth float64
		lineSize         float64
	)
	flushLine := func() error {
		if len(currentLine) == 0 {
			return nil
		}
		// trailing blanks do not need drawing
		for len(currentLine) > 0 && currentLine[len(currentLine)-1].text == " " {
			currentLine = currentLine[:len(currentLine)-1]
		}
		e.checkPageBreak(e.lineHeight(lineSize))
		curX := x
		for _, ws := range currentLine {
			if err := e.drawWord(ws, curX); err != nil {
				return err
			}
			curX += ws.width
		}
		e.cursorY += e.lineHeight(lineSize)
		currentLine = nil
		currentLineWidth = 0
		lineSize = 0
		return nil
	}
	push := func(ws wordSpan) {
		if ws.text == " " && len(currentLine) == 0 {
			return
		}
		currentLine = append(currentLine, ws)
		currentLineWidth += ws.width
		lineSize = max(lineSize, ws.span.FontSize)
	}

	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		if span.Font == "" {
			span.Font = e.DefaultFont
		}
		if span.FontSize == 0 {
			span.FontSize = e.DefaultFontSize
		}
		spaceW, err := e.measure(span, " ")
		if err != nil {
			return err
		}

		for _, token := range tokenize(span.Text) {
			if token == " " {
				if currentLineWidth+spaceW > maxWidth {
					if err := flushLine(); err != nil {
						return err
					}
				} else {
					push(wordSpan{text: " ", span: span, width: spaceW})
				}
				continue
			}

			w, err := e.measure(span, token)
			if err != nil {
				return err
			}
			if currentLineWidth+w <= maxWidth {
				push(wordSpan{text: token, span: span, width: w})
				continue
			}
			if err := flushLine(); err != nil {
				return err
			}
			if w <= maxWidth {
				push(wordSpan{text: token, span: span, width: w})
				continue
			}
			// Character-level wrapping
			var sub strings.Builder
			subWidth := 0.0
			for _, r := range token {
				rw, err := e.measure(span, string(r))
				if err != nil {
					return err
				}
				if subWidth+rw > maxWidth && sub.Len() > 0 {
					push(wordSpan{text: sub.String(), span: span, width: subWidth})
					if err := flushLine(); err != nil {
						return err
					}
					sub.Reset()
					subWidth = 0
				}
				sub.WriteRune(r)
				subWidth += rw
			}
			if sub.Len() > 0 {
				push(wordSpan{text: sub.String(), span: span, width: subWidth})
			}
		}
	}
	return flushLine()
}

func (e *Engine) drawWord(ws wordSpan, x float64) error {
	span := ws.span
	color := e.TextColor
	if span.Color != nil {
		color = *span.Color
	}
	if ws.text != " " {
		if err := e.setColor(color); err != nil {
			return err
		}
		if err := e.doc.SetFont(span.Font, ""); err != nil {
			return err
		}
		var err error
		if span.Link != "" {
			err = e.doc.AddLink(ws.text, span.Link, span.FontSize, x, e.cursorY)
		} else {
			err = e.doc.AddText(ws.text, span.FontSize, x, e.cursorY)
		}
		if err != nil {
			return err
		}
	}

	height := coords.ToMillimeters(span.FontSize)
	style := builder.LineStyle{Width: span.FontSize / 16}
	if span.Underline {
		y := e.cursorY + height*1.1
		if err := e.rule(color, style, x, y, x+ws.width); err != nil {
			return err
		}
	}
	if span.Strikethrough {
		y := e.cursorY + height*0.7
		if err := e.rule(color, style, x, y, x+ws.width); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) rule(c Color, style builder.LineStyle, x0, y, x1 float64) error {
	if err := e.doc.SetLineColor(c.R, c.G, c.B); err != nil {
		return err
	}
	return e.doc.DrawLine([]builder.Point{{X: x0, Y: y}, {X: x1, Y: y}}, style)
}

// measure returns the width of text in span's style in millimetres.
func (e *Engine) measure(span TextSpan, text string) (float64, error) {
	ext, err := e.doc.MeasureIn(span.Font, text, span.FontSize)
	if err != nil {
		return 0, err
	}
	return coords.ToMillimeters(ext.Width), nil
}

// tokenize splits s into words and single-space separators.
func tokenize(s string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, " ")
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
