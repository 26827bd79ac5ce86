package builder

import "strings"

// PaperSize is a page dimension in millimetres.
type PaperSize struct {
	Width, Height float64
}

// Dimension returns the size in the [width, height] form New accepts.
func (p PaperSize) Dimension() []float64 { return []float64{p.Width, p.Height} }

// Landscape swaps width and height.
func (p PaperSize) Landscape() PaperSize { return PaperSize{Width: p.Height, Height: p.Width} }

var (
	A0  = PaperSize{841, 1189}
	A1  = PaperSize{594, 841}
	A2  = PaperSize{420, 594}
	A3  = PaperSize{297, 420}
	A4  = PaperSize{210, 297}
	A5  = PaperSize{148, 210}
	A6  = PaperSize{105, 148}
	A7  = PaperSize{74, 105}
	A8  = PaperSize{52, 74}
	A9  = PaperSize{37, 52}
	A10 = PaperSize{26, 37}

	Letter      = PaperSize{215.9, 279.4}
	PostcardMax = PaperSize{125, 245}
	PostcardMin = PaperSize{90, 140}
)

// PaperSizes maps symbolic names to standard page dimensions.
var PaperSizes = map[string]PaperSize{
	"A0":                  A0,
	"A1":                  A1,
	"A2":                  A2,
	"A3":                  A3,
	"A4":                  A4,
	"A5":                  A5,
	"A6":                  A6,
	"A7":                  A7,
	"A8":                  A8,
	"A9":                  A9,
	"A10":                 A10,
	"LETTER":              Letter,
	"POSTCARD_MAX":        PostcardMax,
	"POSTCARD_MIN":        PostcardMin,
	"BUSINESS_CARD_85x55": {85, 55},
	"BUSINESS_CARD_85x54": {85, 54},
	"BUSINESS_CARD_90x55": {90, 55},
	"BUSINESS_CARD_91x55": {91, 55},
	"BUSINESS_CARD_90x54": {90, 54},
	"BUSINESS_CARD_90x50": {90, 50},
	"BUSINESS_CARD_89x51": {89, 51},
}

// LookupPaperSize finds a size by name, ignoring case.
func LookupPaperSize(name string) (PaperSize, bool) {
	for k, v := range PaperSizes {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return PaperSize{}, false
}
