package svggeom

import "math"

// Box is an axis-aligned rectangle. Width and height are never negative:
// degenerate geometry collapses to a zero box.
type Box struct {
	X, Y, W, H float64
}

// IsEmpty reports whether the box has no area.
func (b Box) IsEmpty() bool { return b.W <= 0 || b.H <= 0 }

// Contains reports whether the point (x, y) lies inside the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Union returns the smallest box containing both operands. An empty box
// is the neutral element.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	x0 := math.Min(b.X, o.X)
	y0 := math.Min(b.Y, o.Y)
	x1 := math.Max(b.X+b.W, o.X+o.W)
	y1 := math.Max(b.Y+b.H, o.Y+o.H)
	return Box{x0, y0, x1 - x0, y1 - y0}
}

// Intersect returns the overlap of both boxes, or a zero box if they are
// disjoint.
func (b Box) Intersect(o Box) Box {
	x0 := math.Max(b.X, o.X)
	y0 := math.Max(b.Y, o.Y)
	x1 := math.Min(b.X+b.W, o.X+o.W)
	y1 := math.Min(b.Y+b.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Box{}
	}
	return Box{x0, y0, x1 - x0, y1 - y0}
}

// Transformed returns the bounding box of the four transformed corners.
func (b Box) Transformed(m Matrix) Box {
	if m.IsIdentity() {
		return b
	}
	x0, y0 := m.TransformPoint(b.X, b.Y)
	x1, y1 := m.TransformPoint(b.X+b.W, b.Y)
	x2, y2 := m.TransformPoint(b.X+b.W, b.Y+b.H)
	x3, y3 := m.TransformPoint(b.X, b.Y+b.H)
	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return Box{minX, minY, maxX - minX, maxY - minY}
}
