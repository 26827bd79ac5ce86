package layout

import (
	"strconv"
	"strings"

	"github.com/wudi/simplepdf/builder"
	"github.com/wudi/simplepdf/fonts"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const listIndent = 6

// RenderMarkdown renders a markdown string into the document using goldmark.
func (e *Engine) RenderMarkdown(source string) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))
	return e.walkMarkdown(doc, src, e.Margins.Left)
}

func (e *Engine) walkMarkdown(node ast.Node, source []byte, x float64) error {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		var err error
		switch n := child.(type) {
		case *ast.Heading:
			err = e.renderMarkdownHeader(n, source, x)
		case *ast.Paragraph:
			if err = e.renderSpans(e.inlineSpans(n, source, inlineStyle{}), x); err == nil {
				e.renderParagraphSpacing()
			}
		case *ast.TextBlock:
			err = e.renderSpans(e.inlineSpans(n, source, inlineStyle{}), x)
		case *ast.List:
			err = e.renderMarkdownList(n, source, x)
		case *ast.Blockquote:
			err = e.walkMarkdown(n, source, x+listIndent)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			err = e.renderMarkdownCode(n, source, x)
		case *ast.ThematicBreak:
			err = e.renderRule(x)
		case *ast.HTMLBlock:
			err = e.RenderHTML(string(blockText(n, source)))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func headingSize(base float64, level int) float64 {
	switch level {
	case 1:
		return base * 2.0
	case 2:
		return base * 1.5
	default:
		return base * 1.25
	}
}

func (e *Engine) renderMarkdownHeader(n *ast.Heading, source []byte, x float64) error {
	spans := e.inlineSpans(n, source, inlineStyle{bold: true})
	size := headingSize(e.DefaultFontSize, n.Level)
	for i := range spans {
		spans[i].FontSize = size
	}
	if err := e.renderSpans(spans, x); err != nil {
		return err
	}
	e.renderParagraphSpacing()
	return nil
}

func (e *Engine) renderMarkdownList(n *ast.List, source []byte, x float64) error {
	number := n.Start
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if n.IsOrdered() {
			marker = strconv.Itoa(number) + "."
			number++
		}
		e.ensurePage()
		e.checkPageBreak(e.lineHeight(e.DefaultFontSize))
		if err := e.setColor(e.TextColor); err != nil {
			return err
		}
		if err := e.doc.SetFont(e.DefaultFont, ""); err != nil {
			return err
		}
		if err := e.doc.AddText(marker, e.DefaultFontSize, x, e.cursorY); err != nil {
			return err
		}
		if err := e.walkMarkdown(item, source, x+listIndent); err != nil {
			return err
		}
	}
	if n.IsTight {
		e.renderParagraphSpacing()
	}
	return nil
}

func (e *Engine) renderMarkdownCode(n ast.Node, source []byte, x float64) error {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(source)), "\n")
		if strings.TrimSpace(line) == "" {
			e.ensurePage()
			e.cursorY += e.lineHeight(e.DefaultFontSize)
			continue
		}
		if err := e.renderTextWrapped(line, x, fonts.Courier, e.DefaultFontSize); err != nil {
			return err
		}
	}
	e.renderParagraphSpacing()
	return nil
}

func (e *Engine) renderRule(x float64) error {
	e.ensurePage()
	e.checkPageBreak(e.lineHeight(e.DefaultFontSize))
	y := e.cursorY + e.lineHeight(e.DefaultFontSize)/2
	right := e.doc.PageSize().Width - e.Margins.Right
	if err := e.rule(e.TextColor, builder.LineStyle{Width: 0.5}, x, y, right); err != nil {
		return err
	}
	e.cursorY += e.lineHeight(e.DefaultFontSize)
	return nil
}

type inlineStyle struct {
	bold, italic, code, strike bool
	link                       string
}

func (e *Engine) spanFor(s inlineStyle, value string) TextSpan {
	font := e.DefaultFont.Variant(s.bold, s.italic)
	if s.code {
		font = fonts.Courier.Variant(s.bold, s.italic)
	}
	span := TextSpan{
		Text:          value,
		Font:          font,
		FontSize:      e.DefaultFontSize,
		Link:          s.link,
		Strikethrough: s.strike,
	}
	if s.link != "" {
		c := e.LinkColor
		span.Color = &c
		span.Underline = true
	}
	return span
}

// inlineSpans flattens the inline children of n into styled spans.
func (e *Engine) inlineSpans(n ast.Node, source []byte, style inlineStyle) []TextSpan {
	var spans []TextSpan
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			t := string(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				t += " "
			}
			spans = append(spans, e.spanFor(style, t))
		case *ast.String:
			spans = append(spans, e.spanFor(style, string(c.Value)))
		case *ast.CodeSpan:
			s := style
			s.code = true
			spans = append(spans, e.inlineSpans(c, source, s)...)
		case *ast.Emphasis:
			s := style
			if c.Level >= 2 {
				s.bold = true
			} else {
				s.italic = true
			}
			spans = append(spans, e.inlineSpans(c, source, s)...)
		case *extast.Strikethrough:
			s := style
			s.strike = true
			spans = append(spans, e.inlineSpans(c, source, s)...)
		case *ast.Link:
			s := style
			s.link = string(c.Destination)
			spans = append(spans, e.inlineSpans(c, source, s)...)
		case *ast.AutoLink:
			s := style
			s.link = string(c.URL(source))
			spans = append(spans, e.spanFor(s, string(c.Label(source))))
		case *ast.Image:
			spans = append(spans, e.inlineSpans(c, source, style)...)
		case *ast.RawHTML:
			// inline markup is dropped
		default:
			spans = append(spans, e.inlineSpans(c, source, style)...)
		}
	}
	return spans
}

func blockText(n ast.Node, source []byte) []byte {
	var out []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, seg.Value(source)...)
	}
	return out
}
