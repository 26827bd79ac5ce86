// Package coords converts between the document's top-left millimetre
// coordinates and the output's bottom-left point coordinates.
package coords

// PointsPerMillimeter is the fixed unit conversion factor k.
const PointsPerMillimeter = 2.83464567

// ToPoints converts a length in millimetres to points.
func ToPoints(mm float64) float64 { return mm * PointsPerMillimeter }

// ToMillimeters converts a length in points to millimetres.
func ToMillimeters(pt float64) float64 { return pt / PointsPerMillimeter }

type Point struct{ X, Y float64 }

// Page flips the y axis of a page whose height is given in millimetres.
type Page struct {
	Height float64
}

// Point maps a top-left origin millimetre position to bottom-left points.
func (p Page) Point(x, y float64) Point {
	return Point{X: ToPoints(x), Y: ToPoints(p.Height - y)}
}

// Top returns the y coordinate in points of a box of height h (in points)
// whose top edge sits y millimetres below the top of the page.
func (p Page) Top(y, h float64) float64 { return ToPoints(p.Height-y) - h }
