package fonts

import (
	"sort"
	"strings"
)

// BaseFont names one of the fourteen standard Type1 fonts every reader
// provides without embedding.
type BaseFont string

const (
	TimesRoman           BaseFont = "Times-Roman"
	TimesItalic          BaseFont = "Times-Italic"
	TimesBold            BaseFont = "Times-Bold"
	TimesBoldItalic      BaseFont = "Times-BoldItalic"
	Helvetica            BaseFont = "Helvetica"
	HelveticaOblique     BaseFont = "Helvetica-Oblique"
	HelveticaBold        BaseFont = "Helvetica-Bold"
	HelveticaBoldOblique BaseFont = "Helvetica-BoldOblique"
	Courier              BaseFont = "Courier"
	CourierOblique       BaseFont = "Courier-Oblique"
	CourierBold          BaseFont = "Courier-Bold"
	CourierBoldOblique   BaseFont = "Courier-BoldOblique"
	Symbol               BaseFont = "Symbol"
	ZapfDingbats         BaseFont = "ZapfDingbats"
)

// BaseFonts maps the symbolic key of each standard font to its name.
var BaseFonts = map[string]BaseFont{
	"TIMES_ROMAN":            TimesRoman,
	"TIMES_ITALIC":           TimesItalic,
	"TIMES_BOLD":             TimesBold,
	"TIMES_BOLD_ITALIC":      TimesBoldItalic,
	"HELVETICA":              Helvetica,
	"HELVETICA_OBLIQUE":      HelveticaOblique,
	"HELVETICA_BOLD":         HelveticaBold,
	"HELVETICA_BOLD_OBLIQUE": HelveticaBoldOblique,
	"COURIER":                Courier,
	"COURIER_OBLIQUE":        CourierOblique,
	"COURIER_BOLD":           CourierBold,
	"COURIER_BOLD_OBLIQUE":   CourierBoldOblique,
	"SYMBOL":                 Symbol,
	"ZAPF_DINGBATS":          ZapfDingbats,
}

// Valid reports whether f is a standard font name.
func (f BaseFont) Valid() bool {
	for _, known := range BaseFonts {
		if f == known {
			return true
		}
	}
	return false
}

// Bold reports whether the face is a bold variant.
func (f BaseFont) Bold() bool { return strings.Contains(string(f), "Bold") }

// Slanted reports whether the face is an italic or oblique variant.
func (f BaseFont) Slanted() bool {
	return strings.Contains(string(f), "Italic") || strings.Contains(string(f), "Oblique")
}

// Monospaced reports whether the face belongs to the Courier family.
func (f BaseFont) Monospaced() bool { return strings.HasPrefix(string(f), "Courier") }

// LookupBaseFont accepts a symbolic key (HELVETICA_BOLD), a font name
// (Helvetica-Bold) or a PDF name (/Helvetica-Bold).
func LookupBaseFont(name string) (BaseFont, bool) {
	if f, ok := BaseFonts[strings.ToUpper(name)]; ok {
		return f, true
	}
	f := BaseFont(strings.TrimPrefix(name, "/"))
	return f, f.Valid()
}

// Encoding names a simple-font character encoding.
type Encoding string

const (
	WinAnsi   Encoding = "WinAnsiEncoding"
	MacRoman  Encoding = "MacRomanEncoding"
	MacExpert Encoding = "MacExpertEncoding"
)

// Encodings maps the symbolic key of each encoding to its name.
var Encodings = map[string]Encoding{
	"WIN_ANSI":   WinAnsi,
	"MAC_ROMAN":  MacRoman,
	"MAC_EXPERT": MacExpert,
}

// Valid reports whether e is a supported encoding.
func (e Encoding) Valid() bool {
	for _, known := range Encodings {
		if e == known {
			return true
		}
	}
	return false
}

// LookupEncoding accepts a symbolic key (WIN_ANSI), an encoding name or a
// PDF name.
func LookupEncoding(name string) (Encoding, bool) {
	if e, ok := Encodings[strings.ToUpper(name)]; ok {
		return e, true
	}
	e := Encoding(strings.TrimPrefix(name, "/"))
	return e, e.Valid()
}

// SortedKeys returns the keys of a lookup table in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Variant returns the face of f's family with the requested weight and
// slant. Symbol and ZapfDingbats have no variants and are returned as is.
func (f BaseFont) Variant(bold, slanted bool) BaseFont {
	var family string
	switch {
	case strings.HasPrefix(string(f), "Times"):
		family = "Times"
	case strings.HasPrefix(string(f), "Helvetica"):
		family = "Helvetica"
	case f.Monospaced():
		family = "Courier"
	default:
		return f
	}
	if family == "Times" {
		switch {
		case bold && slanted:
			return TimesBoldItalic
		case bold:
			return TimesBold
		case slanted:
			return TimesItalic
		}
		return TimesRoman
	}
	switch {
	case bold && slanted:
		return BaseFont(family + "-BoldOblique")
	case bold:
		return BaseFont(family + "-Bold")
	case slanted:
		return BaseFont(family + "-Oblique")
	}
	return BaseFont(family)
}
