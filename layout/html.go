package layout

import (
	"strconv"
	"strings"

	"github.com/wudi/simplepdf/fonts"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML renders an HTML string into the document. Only the flow
// elements that have a Markdown counterpart are laid out; styling
// attributes are ignored.
func (e *Engine) RenderHTML(source string) error {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return err
	}
	return e.walkHTML(doc, e.Margins.Left)
}

// walkHTML lays out the children of n. Runs of text and phrasing elements
// between blocks are laid out as one paragraph.
func (e *Engine) walkHTML(n *html.Node, x float64) error {
	var inline []TextSpan
	flush := func() error {
		err := e.renderSpans(inline, x)
		inline = nil
		return err
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || (c.Type == html.ElementNode && !isBlock(c.DataAtom)) {
			inline = append(inline, e.htmlNodeSpans(c, inlineStyle{})...)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		if err := e.renderHTMLBlock(c, x); err != nil {
			return err
		}
	}
	return flush()
}

func (e *Engine) renderHTMLBlock(n *html.Node, x float64) error {
	if n.Type != html.ElementNode {
		return e.walkHTML(n, x)
	}
	switch n.DataAtom {
	case atom.Head:
		return nil
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return e.renderHTMLHeader(n, x)
	case atom.P:
		if err := e.renderSpans(e.htmlSpans(n, inlineStyle{}), x); err != nil {
			return err
		}
		e.renderParagraphSpacing()
		return nil
	case atom.Ul, atom.Ol:
		return e.renderHTMLList(n, x)
	case atom.Blockquote:
		return e.walkHTML(n, x+listIndent)
	case atom.Pre:
		for _, line := range strings.Split(strings.Trim(extractText(n), "\n"), "\n") {
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
	case atom.Hr:
		return e.renderRule(x)
	}
	return e.walkHTML(n, x)
}

func (e *Engine) renderHTMLHeader(n *html.Node, x float64) error {
	level := 4
	switch n.DataAtom {
	case atom.H1:
		level = 1
	case atom.H2:
		level = 2
	case atom.H3:
		level = 3
	}
	spans := e.htmlSpans(n, inlineStyle{bold: true})
	size := headingSize(e.DefaultFontSize, level)
	for i := range spans {
		spans[i].FontSize = size
	}
	if err := e.renderSpans(spans, x); err != nil {
		return err
	}
	e.renderParagraphSpacing()
	return nil
}

func (e *Engine) renderHTMLList(n *html.Node, x float64) error {
	number := 1
	if v, err := strconv.Atoi(attr(n, "start")); err == nil {
		number = v
	}
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		marker := "•"
		if n.DataAtom == atom.Ol {
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
		if err := e.walkHTML(li, x+listIndent); err != nil {
			return err
		}
	}
	e.renderParagraphSpacing()
	return nil
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Html, atom.Head, atom.Body, atom.P, atom.Ul, atom.Ol, atom.Pre, atom.Blockquote,
		atom.Div, atom.Hr, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// htmlSpans flattens the phrasing content below n into styled spans.
func (e *Engine) htmlSpans(n *html.Node, style inlineStyle) []TextSpan {
	var spans []TextSpan
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		spans = append(spans, e.htmlNodeSpans(c, style)...)
	}
	return spans
}

func (e *Engine) htmlNodeSpans(n *html.Node, style inlineStyle) []TextSpan {
	switch n.Type {
	case html.TextNode:
		return []TextSpan{e.spanFor(style, n.Data)}
	case html.ElementNode:
	default:
		return nil
	}
	s := style
	underline := false
	switch n.DataAtom {
	case atom.Script, atom.Style:
		return nil
	case atom.Br:
		return []TextSpan{e.spanFor(style, " ")}
	case atom.B, atom.Strong:
		s.bold = true
	case atom.I, atom.Em:
		s.italic = true
	case atom.Code, atom.Tt, atom.Kbd, atom.Samp:
		s.code = true
	case atom.S, atom.Del, atom.Strike:
		s.strike = true
	case atom.U:
		underline = true
	case atom.A:
		s.link = attr(n, "href")
	case atom.Img:
		if alt := attr(n, "alt"); alt != "" {
			return []TextSpan{e.spanFor(style, alt)}
		}
		return nil
	}
	spans := e.htmlSpans(n, s)
	if underline {
		for i := range spans {
			spans[i].Underline = true
		}
	}
	return spans
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}
