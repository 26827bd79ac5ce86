package fonts

import (
	"testing"
)

func TestLookupBaseFont(t *testing.T) {
	cases := []struct {
		in   string
		want BaseFont
		ok   bool
	}{
		{"HELVETICA", Helvetica, true},
		{"helvetica_bold", HelveticaBold, true},
		{"Times-Roman", TimesRoman, true},
		{"/ZapfDingbats", ZapfDingbats, true},
		{"Arial", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := LookupBaseFont(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("LookupBaseFont(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
	if len(BaseFonts) != 14 {
		t.Fatalf("expected 14 standard fonts, got %d", len(BaseFonts))
	}
	if BaseFont("Helvetica-Narrow").Valid() {
		t.Fatalf("unknown font reported valid")
	}
}

func TestLookupEncoding(t *testing.T) {
	if e, ok := LookupEncoding("WIN_ANSI"); !ok || e != WinAnsi {
		t.Fatalf("WIN_ANSI = (%q, %v)", e, ok)
	}
	if e, ok := LookupEncoding("/MacRomanEncoding"); !ok || e != MacRoman {
		t.Fatalf("MacRomanEncoding = (%q, %v)", e, ok)
	}
	if _, ok := LookupEncoding("StandardEncoding"); ok {
		t.Fatalf("StandardEncoding must not validate")
	}
}

func TestFontTraits(t *testing.T) {
	if !CourierBoldOblique.Monospaced() || !CourierBoldOblique.Bold() || !CourierBoldOblique.Slanted() {
		t.Fatalf("Courier-BoldOblique traits")
	}
	if Helvetica.Bold() || Helvetica.Slanted() || Helvetica.Monospaced() {
		t.Fatalf("Helvetica traits")
	}
	if !TimesItalic.Slanted() {
		t.Fatalf("Times-Italic should be slanted")
	}
}

func TestVariant(t *testing.T) {
	cases := []struct {
		in            BaseFont
		bold, slanted bool
		want          BaseFont
	}{
		{Helvetica, true, false, HelveticaBold},
		{HelveticaBoldOblique, false, false, Helvetica},
		{TimesRoman, false, true, TimesItalic},
		{TimesItalic, true, true, TimesBoldItalic},
		{CourierBold, false, true, CourierOblique},
		{Symbol, true, true, Symbol},
	}
	for _, tc := range cases {
		if got := tc.in.Variant(tc.bold, tc.slanted); got != tc.want {
			t.Fatalf("%s.Variant(%v, %v) = %s, want %s", tc.in, tc.bold, tc.slanted, got, tc.want)
		}
	}
}

func TestEncodeString(t *testing.T) {
	if got := WinAnsi.EncodeString("café €"); got != "caf\xe9 \x80" {
		t.Fatalf("WinAnsi = %q", got)
	}
	if got := MacRoman.EncodeString("é"); got != "\x8e" {
		t.Fatalf("MacRoman = %q", got)
	}
	if got := MacExpert.EncodeString("aé"); got != "a?" {
		t.Fatalf("MacExpert = %q", got)
	}
	if got := WinAnsi.EncodeString("日本"); got != "??" {
		t.Fatalf("unmappable = %q", got)
	}
}

func TestVisibleText(t *testing.T) {
	cases := map[string]string{
		"plain text":                  "plain text",
		"  spaced   out ":             "spaced out",
		"<b>bold</b> &amp; more":      "bold & more",
		"a<br>b":                      "a b",
		"x<script>hidden()</script>y": "xy",
		"fish &lt;&gt; chips":         "fish <> chips",
	}
	for in, want := range cases {
		if got := VisibleText(in); got != want {
			t.Fatalf("VisibleText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMeasurers(t *testing.T) {
	measurers := map[string]Measurer{
		"face":    NewFaceMeasurer(),
		"shaping": NewShapingMeasurer(),
	}
	for name, m := range measurers {
		t.Run(name, func(t *testing.T) {
			short, err := m.Measure("Hi", 12, Helvetica)
			if err != nil {
				t.Fatalf("measure: %v", err)
			}
			long, err := m.Measure("Hi there, world", 12, Helvetica)
			if err != nil {
				t.Fatalf("measure: %v", err)
			}
			if short.Width <= 0 || long.Width <= short.Width {
				t.Fatalf("widths not increasing: %v then %v", short.Width, long.Width)
			}
			if short.Height <= 0 || short.Height > 24 {
				t.Fatalf("implausible height %v for 12pt", short.Height)
			}
			big, err := m.Measure("Hi", 24, Helvetica)
			if err != nil {
				t.Fatalf("measure: %v", err)
			}
			if big.Width <= short.Width {
				t.Fatalf("larger size not wider: %v vs %v", big.Width, short.Width)
			}
			markup, err := m.Measure("<b>Hi</b>", 12, Helvetica)
			if err != nil {
				t.Fatalf("measure: %v", err)
			}
			if markup.Width != short.Width {
				t.Fatalf("markup width %v, want %v", markup.Width, short.Width)
			}
			mono, err := m.Measure("iiii", 12, Courier)
			if err != nil {
				t.Fatalf("measure: %v", err)
			}
			wide, err := m.Measure("MMMM", 12, Courier)
			if err != nil {
				t.Fatalf("measure: %v", err)
			}
			if mono.Width != wide.Width {
				t.Fatalf("monospaced widths differ: %v vs %v", mono.Width, wide.Width)
			}
			if _, err := m.Measure("Hi", 0, Helvetica); err == nil {
				t.Fatalf("expected error for zero size")
			}
		})
	}
}

func TestMeasurerFunc(t *testing.T) {
	m := MeasurerFunc(func(text string, size float64, _ BaseFont) (Extent, error) {
		return Extent{Width: float64(len(text)) * size, Height: size}, nil
	})
	got, err := m.Measure("abc", 2, Helvetica)
	if err != nil || got.Width != 6 || got.Height != 2 {
		t.Fatalf("MeasurerFunc = %+v, %v", got, err)
	}
}
