package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/wudi/simplepdf/builder"
	"github.com/wudi/simplepdf/fonts"
)

func TestRenderMarkdown(t *testing.T) {
	d := newDoc(t)
	e := NewEngine(d)

	md := `# Title

Hello *world* and **bold** ` + "`code`" + `

- one
- two

3. third

[site](https://example.com) ~~gone~~

---
`
	if err := e.RenderMarkdown(md); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	pages := collect(t, d)
	if len(pages) != 1 {
		t.Fatalf("Expected one page, got %d", len(pages))
	}
	p := pages[0]

	cases := []struct {
		text string
		font fonts.BaseFont
	}{
		{"Title", fonts.HelveticaBold},
		{"Hello", fonts.Helvetica},
		{"world", fonts.HelveticaOblique},
		{"bold", fonts.HelveticaBold},
		{"code", fonts.Courier},
		{"3.", fonts.Helvetica},
		{"third", fonts.Helvetica},
		{"site", fonts.Helvetica},
		{"gone", fonts.Helvetica},
	}
	for _, tc := range cases {
		w, ok := p.find(tc.text)
		if !ok {
			t.Fatalf("%q not drawn; got %q", tc.text, p.texts())
		}
		if w.font != tc.font {
			t.Errorf("%q font = %s, want %s", tc.text, w.font, tc.font)
		}
	}

	title, _ := p.find("Title")
	hello, _ := p.find("Hello")
	if title.y <= hello.y {
		t.Fatalf("heading should sit above the paragraph")
	}
	bullets := 0
	for _, w := range p.words {
		if w.text == "\x95" {
			bullets++
		}
	}
	if bullets != 2 {
		t.Fatalf("bullets = %d, want 2", bullets)
	}
	if p.annots != 1 {
		t.Fatalf("annotations = %d, want 1", p.annots)
	}
	// link underline, strikethrough and the thematic break
	if p.strokes != 3 {
		t.Fatalf("strokes = %d, want 3", p.strokes)
	}
	var linkColor bool
	for _, op := range p.ops {
		if strings.HasPrefix(op, "0 0 0.933") && strings.HasSuffix(op, " rg") {
			linkColor = true
		}
	}
	if !linkColor {
		t.Fatalf("link color not set: %q", p.ops)
	}
}

func TestRenderMarkdownHTMLBlock(t *testing.T) {
	d := newDoc(t)
	e := NewEngine(d)
	if err := e.RenderMarkdown("Intro\n\n<div><b>raw</b> html</div>\n"); err != nil {
		t.Fatalf("render: %v", err)
	}
	p := collect(t, d)[0]
	w, ok := p.find("raw")
	if !ok || w.font != fonts.HelveticaBold {
		t.Fatalf("html block not laid out: %q", p.texts())
	}
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	d := newDoc(t)
	e := NewEngine(d, WithDefaultFont(fonts.TimesRoman))
	if err := e.RenderMarkdown("```\nfmt.Println(1)\n\nreturn\n```\n\n*done*\n"); err != nil {
		t.Fatalf("render: %v", err)
	}
	p := collect(t, d)[0]
	first, _ := p.find("fmt.Println\\(1\\)")
	last, _ := p.find("return")
	if first.font != fonts.Courier || last.font != fonts.Courier {
		t.Fatalf("code not set in Courier: %+v %+v", first, last)
	}
	if first.y <= last.y {
		t.Fatalf("code lines out of order")
	}
	if w, _ := p.find("done"); w.font != fonts.TimesItalic {
		t.Fatalf("emphasis font = %s", w.font)
	}
}

func TestRenderPropagatesMeasureError(t *testing.T) {
	boom := errors.New("no metrics")
	d, err := builder.New(builder.Metadata{}, builder.A4.Dimension(), builder.WithMeasurer(fonts.MeasurerFunc(
		func(string, float64, fonts.BaseFont) (fonts.Extent, error) { return fonts.Extent{}, boom },
	)))
	if err != nil {
		t.Fatal(err)
	}
	if err := NewEngine(d).RenderMarkdown("text"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
