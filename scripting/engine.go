// Package scripting drives a document from JavaScript.
package scripting

import (
	"context"

	"github.com/wudi/simplepdf/builder"
	"github.com/wudi/simplepdf/fonts"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script in the context of the document.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterDOM registers the document with the engine.
	RegisterDOM(dom DocumentDOM) error
}

// DocumentDOM is the drawing API exposed to scripts. Lengths are
// millimetres from the top-left corner of the page.
type DocumentDOM interface {
	AddPage()
	PageCount() int
	SetFont(base fonts.BaseFont, enc fonts.Encoding) error
	SetFillColor(r, g, b uint8) error
	SetFontColor(r, g, b uint8) error
	SetLineColor(r, g, b uint8) error
	AddText(text string, size, x, y float64) error
	AddLink(text, url string, size, x, y float64) error
	DrawLine(points []builder.Point, style builder.LineStyle) error
	DrawCurve(start builder.Point, curves []builder.Curve, style builder.LineStyle) error
	DrawPolygon(points []builder.Point, paint builder.Paint, style builder.LineStyle) error
	DrawRectangle(x, y, width, height float64, paint builder.Paint, style builder.LineStyle) error
	AddImageFile(ctx context.Context, path string, x, y, width, height float64, opts ...builder.ImageOption) error
	AddImageURL(ctx context.Context, url string, x, y, width, height float64, opts ...builder.ImageOption) error
	Await(ctx context.Context) error
}

var _ DocumentDOM = (*builder.Document)(nil)
