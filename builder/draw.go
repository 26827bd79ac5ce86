package builder

import (
	"github.com/wudi/simplepdf/contentstream"
	"github.com/wudi/simplepdf/coords"
	"github.com/wudi/simplepdf/ir/graph"
)

// Point is a position in millimetres from the top-left corner of the page.
type Point struct {
	X, Y float64
}

// Curve is one cubic Bezier segment continuing from the previous end point.
type Curve struct {
	Control1, Control2, End Point
}

// LineStyle configures stroking. A zero Width means 1pt.
type LineStyle = contentstream.LineStyle

// Paint selects whether a closed shape gets its border stroked, its area
// filled, or both.
type Paint = contentstream.Paint

var (
	// Border strokes the outline only.
	Border = Paint{Border: true}
	// Fill fills the area only.
	Fill = Paint{Fill: true}
	// BorderAndFill fills the area and strokes the outline.
	BorderAndFill = Paint{Border: true, Fill: true}
)

// DrawLine strokes an open polyline through points.
func (d *Document) DrawLine(points []Point, style LineStyle) error {
	s, err := d.stream("draw line")
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	d.appendPath(s, style, d.polyline(points), "S")
	return nil
}

// DrawCurve strokes a path of Bezier segments starting at start.
func (d *Document) DrawCurve(start Point, curves []Curve, style LineStyle) error {
	s, err := d.stream("draw curve")
	if err != nil {
		return err
	}
	page := coords.Page{Height: d.size.Height}
	var path contentstream.Path
	p0 := page.Point(start.X, start.Y)
	path.MoveTo(p0.X, p0.Y)
	for _, c := range curves {
		c1 := page.Point(c.Control1.X, c.Control1.Y)
		c2 := page.Point(c.Control2.X, c.Control2.Y)
		end := page.Point(c.End.X, c.End.Y)
		path.CurveTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
	}
	d.appendPath(s, style, path, "S")
	return nil
}

// DrawPolygon paints the closed shape through points.
func (d *Document) DrawPolygon(points []Point, paint Paint, style LineStyle) error {
	if _, err := d.page("draw polygon"); err != nil {
		return err
	}
	op, ok := paint.Operator()
	if !ok || len(points) == 0 {
		return nil
	}
	s, _ := d.stream("draw polygon")
	d.appendPath(s, style, d.polyline(points), op)
	return nil
}

// DrawRectangle paints a width by height rectangle whose top-left corner is
// at (x, y).
func (d *Document) DrawRectangle(x, y, width, height float64, paint Paint, style LineStyle) error {
	if _, err := d.page("draw rectangle"); err != nil {
		return err
	}
	op, ok := paint.Operator()
	if !ok {
		return nil
	}
	s, _ := d.stream("draw rectangle")
	rect := contentstream.Rect(
		coords.ToPoints(x),
		coords.ToPoints(d.size.Height-height-y),
		coords.ToPoints(width),
		coords.ToPoints(height),
	)
	d.g.Node(s).Append(graph.Text(style.Operator()), graph.Text(rect+op))
	return nil
}

func (d *Document) polyline(points []Point) contentstream.Path {
	page := coords.Page{Height: d.size.Height}
	var path contentstream.Path
	for i, pt := range points {
		p := page.Point(pt.X, pt.Y)
		if i == 0 {
			path.MoveTo(p.X, p.Y)
		} else {
			path.LineTo(p.X, p.Y)
		}
	}
	return path
}

func (d *Document) appendPath(s graph.NodeID, style LineStyle, path contentstream.Path, op string) {
	d.g.Node(s).Append(graph.Text(style.Operator()), graph.Text(path.Construction()+op))
}
