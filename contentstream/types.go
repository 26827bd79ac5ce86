package contentstream

// LineCap represents the line cap style (J operator). The same value also
// drives the line join style (j operator).
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineStyle configures stroking: width in points, cap/join style, dash
// lengths and dash phase.
type LineStyle struct {
	Width float64
	Cap   LineCap
	Dash  []float64
	Phase float64
}

// DefaultLineStyle is a solid 1pt line with butt caps.
func DefaultLineStyle() LineStyle { return LineStyle{Width: 1} }

// Paint selects how a closed shape is painted.
type Paint struct {
	Border bool
	Fill   bool
}

// Path describes a graphics path made of subpaths.
type Path struct {
	Subpaths []Subpath
}

// Subpath describes a portion of a path.
type Subpath struct {
	Points []PathPoint
}

// PathPoint identifies a path segment and its coordinates.
type PathPoint struct {
	X, Y                 float64
	Type                 PathPointType
	Control1X, Control1Y float64
	Control2X, Control2Y float64
}

// PathPointType enumerates path segment types.
type PathPointType int

const (
	PathMoveTo PathPointType = iota
	PathLineTo
	PathCurveTo
)

// Operation is one operator together with its operand tokens.
type Operation struct {
	Operator string
	Operands []string
}
