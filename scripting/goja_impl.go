package scripting

import (
	"context"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/wudi/simplepdf/builder"
	"github.com/wudi/simplepdf/contentstream"
	"github.com/wudi/simplepdf/fonts"
	"github.com/wudi/simplepdf/observability"
)

type GojaEngine struct {
	vm     *goja.Runtime
	dom    DocumentDOM
	logger observability.Logger
	ctx    context.Context
}

// Option configures a GojaEngine.
type Option func(*GojaEngine)

// WithLogger routes console.log and app.alert to l.
func WithLogger(l observability.Logger) Option {
	return func(e *GojaEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(opts ...Option) *GojaEngine {
	e := &GojaEngine{
		vm:     goja.New(),
		logger: observability.NopLogger{},
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs script. Images the script adds are fetched under ctx, so ctx
// should outlive the call when the document is composed afterwards.
func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	e.ctx = ctx
	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// RegisterDOM exposes dom as the global doc object together with the
// SimplePdfBaseFont, SimplePdfFontEncoding and SimplePdfPageDimension
// lookup tables.
func (e *GojaEngine) RegisterDOM(dom DocumentDOM) error {
	e.dom = dom

	appObj := e.vm.NewObject()
	if err := appObj.Set("alert", e.log("alert")); err != nil {
		return err
	}
	if err := e.vm.Set("app", appObj); err != nil {
		return err
	}
	console := e.vm.NewObject()
	if err := console.Set("log", e.log("console")); err != nil {
		return err
	}
	if err := e.vm.Set("console", console); err != nil {
		return err
	}

	baseFonts := map[string]string{}
	for k, v := range fonts.BaseFonts {
		baseFonts[k] = "/" + string(v)
	}
	encodings := map[string]string{}
	for k, v := range fonts.Encodings {
		encodings[k] = "/" + string(v)
	}
	dimensions := map[string][]float64{}
	for k, v := range builder.PaperSizes {
		dimensions[k] = v.Dimension()
	}
	for name, table := range map[string]interface{}{
		"SimplePdfBaseFont":      baseFonts,
		"SimplePdfFontEncoding":  encodings,
		"SimplePdfPageDimension": dimensions,
	} {
		if err := e.vm.Set(name, table); err != nil {
			return err
		}
	}

	doc := e.vm.NewObject()
	methods := map[string]func(goja.FunctionCall) goja.Value{
		"addPage":       e.addPage,
		"pageCount":     e.pageCount,
		"setFont":       e.setFont,
		"setFillColor":  e.color(dom.SetFillColor),
		"setFontColor":  e.color(dom.SetFontColor),
		"setLineColor":  e.color(dom.SetLineColor),
		"addText":       e.addText,
		"addLink":       e.addLink,
		"drawLine":      e.drawLine,
		"drawCurve":     e.drawCurve,
		"drawPolygon":   e.drawPolygon,
		"drawRectangle": e.drawRectangle,
		"addImage":      e.addImage,
		"await":         e.await,
	}
	for name, fn := range methods {
		if err := doc.Set(name, fn); err != nil {
			return err
		}
	}
	return e.vm.Set("doc", doc)
}

// throw raises err as a JavaScript exception wrapping the Go error.
func (e *GojaEngine) throw(err error) {
	panic(e.vm.NewGoError(err))
}

func (e *GojaEngine) check(err error) goja.Value {
	if err != nil {
		e.throw(err)
	}
	return goja.Undefined()
}

func (e *GojaEngine) log(source string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		e.logger.Info(strings.Join(parts, " "), observability.String("source", source))
		return goja.Undefined()
	}
}

func (e *GojaEngine) addPage(goja.FunctionCall) goja.Value {
	e.dom.AddPage()
	return goja.Undefined()
}

func (e *GojaEngine) pageCount(goja.FunctionCall) goja.Value {
	return e.vm.ToValue(e.dom.PageCount())
}

func (e *GojaEngine) setFont(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	base, ok := fonts.LookupBaseFont(name)
	if !ok {
		e.throw(&builder.ValidationError{Op: "set font", Value: name, Err: builder.ErrUnknownFont})
	}
	var enc fonts.Encoding
	if v := call.Argument(1); !goja.IsUndefined(v) && !goja.IsNull(v) {
		if enc, ok = fonts.LookupEncoding(v.String()); !ok {
			e.throw(&builder.ValidationError{Op: "set font", Value: v.String(), Err: builder.ErrUnknownEncoding})
		}
	}
	return e.check(e.dom.SetFont(base, enc))
}

func (e *GojaEngine) color(set func(r, g, b uint8) error) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return e.check(set(channel(call, 0), channel(call, 1), channel(call, 2)))
	}
}

func channel(call goja.FunctionCall, i int) uint8 {
	v := call.Argument(i).ToInteger()
	return uint8(min(max(v, 0), 255))
}

func (e *GojaEngine) addText(call goja.FunctionCall) goja.Value {
	return e.check(e.dom.AddText(
		call.Argument(0).String(),
		call.Argument(1).ToFloat(),
		call.Argument(2).ToFloat(),
		call.Argument(3).ToFloat(),
	))
}

func (e *GojaEngine) addLink(call goja.FunctionCall) goja.Value {
	return e.check(e.dom.AddLink(
		call.Argument(0).String(),
		call.Argument(1).String(),
		call.Argument(2).ToFloat(),
		call.Argument(3).ToFloat(),
		call.Argument(4).ToFloat(),
	))
}

// drawLine(points, lineWidth=1, style=0, phase=[], shift=0)
func (e *GojaEngine) drawLine(call goja.FunctionCall) goja.Value {
	return e.check(e.dom.DrawLine(e.points(call.Argument(0)), e.lineStyle(call, 1)))
}

// drawCurve(start, [[c1x, c1y, c2x, c2y, x, y], ...], lineWidth=1, style=0, phase=[], shift=0)
func (e *GojaEngine) drawCurve(call goja.FunctionCall) goja.Value {
	start := e.point(call.Argument(0))
	var segments [][]float64
	if v := call.Argument(1); !goja.IsUndefined(v) {
		if err := e.vm.ExportTo(v, &segments); err != nil {
			e.throw(fmt.Errorf("draw curve: %w", err))
		}
	}
	curves := make([]builder.Curve, len(segments))
	for i, s := range segments {
		if len(s) != 6 {
			e.throw(fmt.Errorf("draw curve: segment %d has %d coordinates, want 6", i, len(s)))
		}
		curves[i] = builder.Curve{
			Control1: builder.Point{X: s[0], Y: s[1]},
			Control2: builder.Point{X: s[2], Y: s[3]},
			End:      builder.Point{X: s[4], Y: s[5]},
		}
	}
	return e.check(e.dom.DrawCurve(start, curves, e.lineStyle(call, 2)))
}

// drawPolygon(points, border=true, fill=false, lineWidth=1, style=0, phase=[], shift=0)
func (e *GojaEngine) drawPolygon(call goja.FunctionCall) goja.Value {
	return e.check(e.dom.DrawPolygon(e.points(call.Argument(0)), paint(call, 1), e.lineStyle(call, 3)))
}

// drawRectangle(x, y, width, height, border=true, fill=false, lineWidth=1, style=0, phase=[], shift=0)
func (e *GojaEngine) drawRectangle(call goja.FunctionCall) goja.Value {
	return e.check(e.dom.DrawRectangle(
		call.Argument(0).ToFloat(),
		call.Argument(1).ToFloat(),
		call.Argument(2).ToFloat(),
		call.Argument(3).ToFloat(),
		paint(call, 4),
		e.lineStyle(call, 6),
	))
}

// addImage(pathOrURL, x, y, width, height, callback)
//
// The callback receives null or an error message once the image is
// embedded, which for URLs happens when the document is awaited.
func (e *GojaEngine) addImage(call goja.FunctionCall) goja.Value {
	src := call.Argument(0).String()
	x, y := call.Argument(1).ToFloat(), call.Argument(2).ToFloat()
	w, h := call.Argument(3).ToFloat(), call.Argument(4).ToFloat()
	var opts []builder.ImageOption
	if cb, ok := goja.AssertFunction(call.Argument(5)); ok {
		opts = append(opts, builder.OnReady(func(err error) {
			arg := goja.Null()
			if err != nil {
				arg = e.vm.ToValue(err.Error())
			}
			if _, cbErr := cb(goja.Undefined(), arg); cbErr != nil {
				e.logger.Warn("image callback failed", observability.Error("error", cbErr))
			}
		}))
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return e.check(e.dom.AddImageURL(e.ctx, src, x, y, w, h, opts...))
	}
	return e.check(e.dom.AddImageFile(e.ctx, src, x, y, w, h, opts...))
}

func (e *GojaEngine) await(goja.FunctionCall) goja.Value {
	return e.check(e.dom.Await(e.ctx))
}

func (e *GojaEngine) points(v goja.Value) []builder.Point {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	var raw [][]float64
	if err := e.vm.ExportTo(v, &raw); err != nil {
		e.throw(fmt.Errorf("points: %w", err))
	}
	pts := make([]builder.Point, len(raw))
	for i, p := range raw {
		if len(p) != 2 {
			e.throw(fmt.Errorf("point %d has %d coordinates, want 2", i, len(p)))
		}
		pts[i] = builder.Point{X: p[0], Y: p[1]}
	}
	return pts
}

func (e *GojaEngine) point(v goja.Value) builder.Point {
	var p []float64
	if err := e.vm.ExportTo(v, &p); err != nil {
		e.throw(fmt.Errorf("point: %w", err))
	}
	if len(p) != 2 {
		e.throw(fmt.Errorf("point has %d coordinates, want 2", len(p)))
	}
	return builder.Point{X: p[0], Y: p[1]}
}

// lineStyle reads lineWidth, style, phase and shift starting at argument i.
func (e *GojaEngine) lineStyle(call goja.FunctionCall, i int) builder.LineStyle {
	style := builder.LineStyle{Width: 1}
	if v := call.Argument(i); !goja.IsUndefined(v) {
		style.Width = v.ToFloat()
	}
	if v := call.Argument(i + 1); !goja.IsUndefined(v) {
		style.Cap = contentstream.LineCap(v.ToInteger())
	}
	if v := call.Argument(i + 2); !goja.IsUndefined(v) && !goja.IsNull(v) {
		if err := e.vm.ExportTo(v, &style.Dash); err != nil {
			e.throw(fmt.Errorf("dash phase: %w", err))
		}
	}
	if v := call.Argument(i + 3); !goja.IsUndefined(v) {
		style.Phase = v.ToFloat()
	}
	return style
}

// paint reads the border (default true) and fill (default false) flags
// starting at argument i.
func paint(call goja.FunctionCall, i int) builder.Paint {
	p := builder.Border
	if v := call.Argument(i); !goja.IsUndefined(v) {
		p.Border = v.ToBoolean()
	}
	if v := call.Argument(i + 1); !goja.IsUndefined(v) {
		p.Fill = v.ToBoolean()
	}
	return p
}
