// Package builder grows a document object graph through a small drawing
// API. Positions and lengths are millimetres measured from the top-left
// corner of the page; font sizes and line widths are points.
package builder

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wudi/simplepdf/contentstream"
	"github.com/wudi/simplepdf/coords"
	"github.com/wudi/simplepdf/fonts"
	"github.com/wudi/simplepdf/ir/graph"
	"github.com/wudi/simplepdf/observability"
	"github.com/wudi/simplepdf/sink"
	"github.com/wudi/simplepdf/writer"
)

// Document is a document under construction. It is not safe for concurrent
// use; only image acquisition runs on other goroutines.
type Document struct {
	opts options
	g    *graph.Graph
	head graph.NodeID
	area graph.NodeID
	size PaperSize
	font graph.NodeID

	pending []*pendingImage
}

// New creates an empty document whose pages measure dimension[0] by
// dimension[1] millimetres.
func New(meta Metadata, dimension []float64, opts ...Option) (*Document, error) {
	if len(dimension) != 2 {
		return nil, &ConfigurationError{Err: ErrInvalidDimension, Detail: fmt.Sprintf("got %d values", len(dimension))}
	}
	for _, v := range dimension {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, &ConfigurationError{Err: ErrInvalidDimension, Detail: fmt.Sprintf("got %v", dimension)}
		}
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.writer == nil {
		o.writer = writer.New(writer.Config{Logger: o.logger, CheckContent: o.check})
	}

	d := &Document{
		opts: o,
		g:    graph.New(),
		size: PaperSize{Width: dimension[0], Height: dimension[1]},
		font: graph.NoNode,
	}
	d.head = d.g.Create(graph.KindHead, []graph.Value{graph.Text(o.version)}, graph.NoNode, true)
	info := d.g.Create(graph.KindMetadata, meta.values(o.clock()), d.head, true)
	catalog := d.g.Create(graph.KindCatalog, nil, info, true)
	d.area = d.g.Create(graph.KindPageArea, []graph.Value{
		graph.Text(contentstream.Fixed(coords.ToPoints(d.size.Width))),
		graph.Text(contentstream.Fixed(coords.ToPoints(d.size.Height))),
	}, catalog, true)
	return d, nil
}

// Graph exposes the underlying object graph.
func (d *Document) Graph() *graph.Graph { return d.g }

// Root returns the head node the graph is serialized from.
func (d *Document) Root() graph.NodeID { return d.head }

// PageSize returns the page dimension in millimetres.
func (d *Document) PageSize() PaperSize { return d.size }

// Logger returns the logger the document reports to.
func (d *Document) Logger() observability.Logger { return d.opts.logger }

// PageCount returns the number of active pages.
func (d *Document) PageCount() int { return len(d.g.ActiveChildren(d.area, graph.KindPage)) }

// AddPage appends a page and becomes the target of subsequent drawing. The
// current font is reset.
func (d *Document) AddPage() {
	d.g.Create(graph.KindPage, nil, d.area, true)
	d.font = graph.NoNode
	d.opts.logger.Debug("page added", observability.Int("page", d.PageCount()))
}

// SetFont selects the font for subsequent text. An empty encoding means
// WinAnsi. Fonts are shared between pages: a font already present with the
// same base font and encoding is reused.
func (d *Document) SetFont(base fonts.BaseFont, enc fonts.Encoding) error {
	if enc == "" {
		enc = fonts.WinAnsi
	}
	if !base.Valid() {
		return &ValidationError{Op: "set font", Value: string(base), Err: ErrUnknownFont}
	}
	if !enc.Valid() {
		return &ValidationError{Op: "set font", Value: string(enc), Err: ErrUnknownEncoding}
	}
	for _, id := range d.g.Node(d.area).Children {
		n := d.g.Node(id)
		if n.Kind != graph.KindFont {
			break
		}
		if n.Active && n.ContainsAttribute(graph.Text(string(base))) && n.ContainsAttribute(graph.Text(string(enc))) {
			d.font = id
			return nil
		}
	}
	id := d.g.CreateDetached(graph.KindFont, []graph.Value{graph.Text(string(base)), graph.Text(string(enc))}, d.area, true)
	d.g.Prepend(d.area, id)
	d.font = id
	d.opts.logger.Debug("font added", observability.String("base_font", string(base)), observability.String("encoding", string(enc)))
	return nil
}

// Font returns the current base font and encoding; ok is false when no font
// is set on the current page.
func (d *Document) Font() (base fonts.BaseFont, enc fonts.Encoding, ok bool) {
	n := d.g.Node(d.font)
	if n == nil {
		return "", "", false
	}
	b, _ := n.Attr(0).Text()
	e, _ := n.Attr(1).Text()
	return fonts.BaseFont(b), fonts.Encoding(e), true
}

// SetFillColor sets the color used to fill shapes and text.
func (d *Document) SetFillColor(r, g, b uint8) error {
	s, err := d.stream("set fill color")
	if err != nil {
		return err
	}
	d.g.Node(s).Append(graph.Text(contentstream.FillColor(r, g, b)))
	return nil
}

// SetFontColor is SetFillColor.
func (d *Document) SetFontColor(r, g, b uint8) error { return d.SetFillColor(r, g, b) }

// SetLineColor sets the color used to stroke lines and borders.
func (d *Document) SetLineColor(r, g, b uint8) error {
	s, err := d.stream("set line color")
	if err != nil {
		return err
	}
	d.g.Node(s).Append(graph.Text(contentstream.StrokeColor(r, g, b)))
	return nil
}

// AddText shows text with its top-left corner at (x, y).
func (d *Document) AddText(text string, size, x, y float64) error {
	if _, err := d.textTarget("add text"); err != nil {
		return err
	}
	d.appendText(text, size, x, y)
	return nil
}

// AddLink shows text like AddText and covers it with a link annotation to
// url. The annotation is sized by the document's Measurer.
func (d *Document) AddLink(text, url string, size, x, y float64) error {
	page, err := d.textTarget("add link")
	if err != nil {
		return err
	}
	base, _, _ := d.Font()
	ext, err := d.opts.measurer.Measure(text, size, base)
	if err != nil {
		return fmt.Errorf("add link: measure text: %w", err)
	}
	d.appendText(text, size, x, y)

	left := coords.ToPoints(x)
	top := coords.ToPoints(d.size.Height - y)
	rect := contentstream.Fixed(left) + " " + contentstream.Fixed(top-size) + " " +
		contentstream.Fixed(left+ext.Width) + " " + contentstream.Fixed(top-size+ext.Height)
	annot := d.g.CreateDetached(graph.KindAnnotation, []graph.Value{graph.Text(rect), graph.Text(url)}, page, true)
	d.g.InsertBeforeTrailing(page, graph.KindPage, annot)
	return nil
}

// Measure returns the rendered extent of text in the current font.
func (d *Document) Measure(text string, size float64) (fonts.Extent, error) {
	base, _, ok := d.Font()
	if !ok {
		return fonts.Extent{}, &SequenceError{Op: "measure", Err: ErrNoFont}
	}
	return d.MeasureIn(base, text, size)
}

// MeasureIn returns the rendered extent of text set in font, whatever the
// current font is.
func (d *Document) MeasureIn(font fonts.BaseFont, text string, size float64) (fonts.Extent, error) {
	return d.opts.measurer.Measure(text, size, font)
}

func (d *Document) appendText(text string, size, x, y float64) {
	s, _ := d.stream("add text")
	_, enc, _ := d.Font()
	p := coords.Page{Height: d.size.Height}.Point(x, y)
	n := d.g.Node(s)
	n.Append(graph.Ref(d.font), graph.Number(size))
	for _, line := range contentstream.TextObject(p.X, p.Y-size, enc.EncodeString(text)) {
		n.Append(graph.Text(line))
	}
}

func (d *Document) textTarget(op string) (graph.NodeID, error) {
	page, err := d.page(op)
	if err != nil {
		return graph.NoNode, err
	}
	if d.g.Node(d.font) == nil {
		return graph.NoNode, &SequenceError{Op: op, Err: ErrNoFont}
	}
	return page, nil
}

func (d *Document) page(op string) (graph.NodeID, error) {
	page := d.g.NewestActiveChild(d.area, graph.KindPage)
	if page == graph.NoNode {
		return graph.NoNode, &SequenceError{Op: op, Err: ErrNoPage}
	}
	return page, nil
}

// stream returns the newest content stream of the current page, creating
// one if the page has none.
func (d *Document) stream(op string) (graph.NodeID, error) {
	page, err := d.page(op)
	if err != nil {
		return graph.NoNode, err
	}
	if s := d.g.NewestActiveChild(page, graph.KindStream); s != graph.NoNode {
		return s, nil
	}
	return d.g.Create(graph.KindStream, nil, page, true), nil
}

// Compose waits for pending images and serializes the document.
func (d *Document) Compose() ([]byte, error) {
	return d.ComposeContext(context.Background())
}

// ComposeContext waits for pending images until ctx is done and serializes
// the document. Identifiers are recomputed on every call.
func (d *Document) ComposeContext(ctx context.Context) ([]byte, error) {
	ctx, span := d.opts.tracer.StartSpan(ctx, "builder.compose")
	defer span.Finish()
	start := time.Now()

	if err := d.Await(ctx); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("compose: %w", err)
	}
	out, err := d.opts.writer.Compose(ctx, d.g, d.head)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("compose: %w", err)
	}
	span.SetTag(observability.MetricOutputBytes, len(out))
	d.opts.logger.Info("document composed",
		observability.Int(observability.MetricPageCount, d.PageCount()),
		observability.Int(observability.MetricOutputBytes, len(out)),
		observability.Int64(observability.MetricComposeTime, time.Since(start).Microseconds()),
	)
	return out, nil
}

// WriteTo composes the document into w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	out, err := d.Compose()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	return int64(n), err
}

// Save composes the document and hands it to s. An empty filename means
// sink.DefaultFilename.
func (d *Document) Save(ctx context.Context, s sink.Sink, filename string) error {
	out, err := d.ComposeContext(ctx)
	if err != nil {
		return err
	}
	if filename == "" {
		filename = sink.DefaultFilename
	}
	if err := s.Deliver(ctx, out, filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	d.opts.logger.Debug("document saved", observability.String("file", filename))
	return nil
}
