package svggeom

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position or direction in user space.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p − q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns the point scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Length is the distance from the origin.
func (p Point) Length() float64 { return VectorLength(p.X, p.Y) }

// Lerp interpolates linearly between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

type pathCommand uint8

const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

// Operation groups the basic path commands.
type Operation interface {
	command() pathCommand
}

type MoveTo Point

type LineTo Point

type QuadTo [2]Point

type CubicTo [3]Point

type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (QuadTo) command() pathCommand  { return pathQuadTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

// Path describes a sequence of basic path operations, in the coordinate
// space of the owning element. Higher-level shapes are reduced to a path
// before rasterizing or stroking, and a produced path is never mutated
// afterwards.
type Path []Operation

// Clear zeros the path slice.
func (p *Path) Clear() { *p = (*p)[:0] }

// IsEmpty reports whether the path holds no drawing command.
func (p Path) IsEmpty() bool { return len(p) == 0 }

// Start starts a new subpath at the given point.
func (p *Path) Start(a Point) { *p = append(*p, MoveTo(a)) }

// Line adds a linear segment to the current subpath.
func (p *Path) Line(b Point) { *p = append(*p, LineTo(b)) }

// QuadBezier adds a quadratic segment to the current subpath.
func (p *Path) QuadBezier(b, c Point) { *p = append(*p, QuadTo{b, c}) }

// CubeBezier adds a cubic segment to the current subpath.
func (p *Path) CubeBezier(b, c, d Point) { *p = append(*p, CubicTo{b, c, d}) }

// Stop closes the current subpath if closeLoop is true.
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// Transform returns a copy of the path with every point mapped by m.
func (p Path) Transform(m Matrix) Path {
	if m.IsIdentity() {
		return p
	}
	tr := func(pt Point) Point {
		x, y := m.TransformPoint(pt.X, pt.Y)
		return Point{x, y}
	}
	out := make(Path, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			out[i] = MoveTo(tr(Point(op)))
		case LineTo:
			out[i] = LineTo(tr(Point(op)))
		case QuadTo:
			out[i] = QuadTo{tr(op[0]), tr(op[1])}
		case CubicTo:
			out[i] = CubicTo{tr(op[0]), tr(op[1]), tr(op[2])}
		case Close:
			out[i] = op
		}
	}
	return out
}

// Bounds returns the control-point bounding box of the path. Curves are
// bounded by their control polygon, which is sufficient for viewport
// sizing and hit testing. An empty path yields a zero box.
func (p Path) Bounds() Box {
	first := true
	var minX, minY, maxX, maxY float64
	grow := func(pt Point) {
		if first {
			minX, maxX, minY, maxY = pt.X, pt.X, pt.Y, pt.Y
			first = false
			return
		}
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			grow(Point(op))
		case LineTo:
			grow(Point(op))
		case QuadTo:
			grow(op[0])
			grow(op[1])
		case CubicTo:
			grow(op[0])
			grow(op[1])
			grow(op[2])
		}
	}
	if first {
		return Box{}
	}
	return Box{minX, minY, maxX - minX, maxY - minY}
}

// Subpath is a flattened subpath: a polyline plus whether the source
// subpath was explicitly closed.
type Subpath struct {
	Points []Point
	Closed bool
}

// flattening tolerance in user units; callers scale it down by the
// current transform magnification before flattening in device space
const flattenTolerance = 0.25

// Flatten reduces every curve of the path to line segments within
// `tolerance`, returning one polyline per subpath. A non positive
// tolerance falls back to the default.
func (p Path) Flatten(tolerance float64) []Subpath {
	if tolerance <= 0 {
		tolerance = flattenTolerance
	}
	var subs []Subpath
	var cur []Point
	var start Point
	var pen Point
	flush := func(closed bool) {
		if len(cur) > 1 {
			subs = append(subs, Subpath{Points: cur, Closed: closed})
		}
		cur = nil
	}
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			flush(false)
			start = Point(op)
			pen = start
			cur = append(cur, pen)
		case LineTo:
			pen = Point(op)
			cur = append(cur, pen)
		case QuadTo:
			cur = flattenQuad(cur, pen, op[0], op[1], tolerance)
			pen = op[1]
		case CubicTo:
			cur = flattenCubic(cur, pen, op[0], op[1], op[2], tolerance)
			pen = op[2]
		case Close:
			if len(cur) > 0 && pen != start {
				cur = append(cur, start)
			}
			flush(true)
			pen = start
		}
	}
	flush(false)
	return subs
}

// flattenQuad subdivides the quadratic (a, b, c) until flat enough.
func flattenQuad(dst []Point, a, b, c Point, tol float64) []Point {
	// distance from the control point to the chord bounds the error
	if curveFlat(a, b, c, tol) {
		return append(dst, c)
	}
	ab := a.Lerp(b, 0.5)
	bc := b.Lerp(c, 0.5)
	mid := ab.Lerp(bc, 0.5)
	dst = flattenQuad(dst, a, ab, mid, tol)
	return flattenQuad(dst, mid, bc, c, tol)
}

// flattenCubic subdivides the cubic (a, b, c, d) until flat enough.
func flattenCubic(dst []Point, a, b, c, d Point, tol float64) []Point {
	if curveFlat(a, b, d, tol) && curveFlat(a, c, d, tol) {
		return append(dst, d)
	}
	ab := a.Lerp(b, 0.5)
	bc := b.Lerp(c, 0.5)
	cd := c.Lerp(d, 0.5)
	abc := ab.Lerp(bc, 0.5)
	bcd := bc.Lerp(cd, 0.5)
	mid := abc.Lerp(bcd, 0.5)
	dst = flattenCubic(dst, a, ab, abc, mid, tol)
	return flattenCubic(dst, mid, bcd, cd, d, tol)
}

// curveFlat reports whether control point b is within tol of the chord a-c.
func curveFlat(a, b, c Point, tol float64) bool {
	dx, dy := c.X-a.X, c.Y-a.Y
	l := math.Hypot(dx, dy)
	if l < 1e-12 {
		return b.Sub(a).Length() <= tol
	}
	// cross product gives distance times chord length
	d := math.Abs((b.X-a.X)*dy - (b.Y-a.Y)*dx)
	return d <= tol*l
}

// Contains reports whether the point (x, y) is inside the path under the
// given fill rule, by counting crossings of the flattened outline.
func (p Path) Contains(x, y float64, evenOdd bool) bool {
	winding := 0
	for _, sub := range p.Flatten(0) {
		pts := sub.Points
		n := len(pts)
		if n < 2 {
			continue
		}
		// the crossing test always closes the outline implicitly
		for i := 0; i < n; i++ {
			a := pts[i]
			b := pts[(i+1)%n]
			if a.Y <= y {
				if b.Y > y && (b.X-a.X)*(y-a.Y)-(x-a.X)*(b.Y-a.Y) > 0 {
					winding++
				}
			} else if b.Y <= y && (b.X-a.X)*(y-a.Y)-(x-a.X)*(b.Y-a.Y) < 0 {
				winding--
			}
		}
	}
	if evenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// String returns an SVG path-data representation, mainly for debugging
// and tests.
func (p Path) String() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%.4g,%.4g", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%.4g,%.4g", op.X, op.Y)
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%.4g,%.4g,%.4g,%.4g", op[0].X, op[0].Y, op[1].X, op[1].Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%.4g,%.4g,%.4g,%.4g,%.4g,%.4g",
				op[0].X, op[0].Y, op[1].X, op[1].Y, op[2].X, op[2].Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}
