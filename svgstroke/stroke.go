// Package svgstroke expands a path plus stroke parameters into a new
// fillable outline path: two offset curves per segment, join and cap
// geometry at the seams, and optional dash segmentation. The outline is
// meant to be filled with the nonzero rule.
package svgstroke

import (
	"math"

	"github.com/MohammadRaziei/novasvg/svggeom"
)

// CapMode defines how line ends are finished.
type CapMode uint8

const (
	ButtCap CapMode = iota
	RoundCap
	SquareCap
)

// JoinMode defines how segments bridge the gap at a join.
type JoinMode uint8

const (
	MiterJoin JoinMode = iota
	RoundJoin
	BevelJoin
)

// Options parametrizes an outline generation.
type Options struct {
	Width      float64
	Cap        CapMode
	Join       JoinMode
	MiterLimit float64
	Dash       []float64
	DashOffset float64
}

// angular step used when emitting round joins and caps
const arcStep = math.Pi / 16

// flattening tolerance for the source path; finer than the fill
// tolerance since offsetting magnifies errors
const strokeTolerance = 0.1

// Outline generates the stroke outline of p. A non positive width
// yields an empty path.
func Outline(p svggeom.Path, opt Options) svggeom.Path {
	if opt.Width <= 0 || p.IsEmpty() {
		return nil
	}
	if opt.MiterLimit < 1 {
		opt.MiterLimit = 4
	}
	halfw := opt.Width / 2

	var out svggeom.Path
	for _, sub := range p.Flatten(strokeTolerance) {
		polys := [][]svggeom.Point{sub.Points}
		closed := sub.Closed
		if len(opt.Dash) > 0 && dashable(opt.Dash) {
			polys = dashPolyline(sub.Points, sub.Closed, opt.Dash, opt.DashOffset)
			closed = false // dash runs are always open
		}
		for _, pts := range polys {
			strokePolyline(&out, pts, closed, halfw, opt)
		}
	}
	return out
}

// strokePolyline emits the outline of a single polyline.
func strokePolyline(out *svggeom.Path, pts []svggeom.Point, closed bool, halfw float64, opt Options) {
	pts = dropRepeats(pts)
	if len(pts) < 2 {
		if len(pts) == 1 && opt.Cap != ButtCap {
			emitDot(out, pts[0], halfw, opt.Cap)
		}
		return
	}
	if closed && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
		if len(pts) < 2 {
			return
		}
	}

	if closed {
		// two rings: the left offsets forward, the right offsets
		// reversed; nonzero filling covers the band between them
		ring(out, pts, halfw, opt)
		ring(out, reversed(pts), halfw, opt)
		return
	}

	// open polyline: left side forward, end cap, right side backward,
	// start cap, close
	var side svggeom.Path
	offsetSide(&side, pts, halfw, opt, true)
	rev := reversed(pts)
	capAt(&side, pts[len(pts)-1], direction(pts[len(pts)-2], pts[len(pts)-1]), halfw, opt.Cap)
	offsetSide(&side, rev, halfw, opt, false)
	capAt(&side, pts[0], direction(pts[1], pts[0]), halfw, opt.Cap)
	side.Stop(true)
	*out = append(*out, side...)
}

// ring emits one closed offset ring on the left side of the polyline.
// Every join ends on the start offset of the following segment, so the
// seam join at pts[0] lands back on the ring's first point.
func ring(out *svggeom.Path, pts []svggeom.Point, halfw float64, opt Options) {
	var side svggeom.Path
	n := len(pts)
	side.Start(offsetPoint(pts[0], direction(pts[0], pts[1]), halfw))
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		d := direction(a, b)
		side.Line(offsetPoint(b, d, halfw))
		next := pts[(i+2)%n]
		joinAt(&side, b, d, direction(b, next), halfw, opt)
	}
	side.Stop(true)
	*out = append(*out, side...)
}

// offsetSide walks the polyline emitting the left offset curve with
// joins. `start` begins a new subpath; otherwise points continue the
// current one.
func offsetSide(side *svggeom.Path, pts []svggeom.Point, halfw float64, opt Options, start bool) {
	n := len(pts)
	for i := 0; i < n-1; i++ {
		a, b := pts[i], pts[i+1]
		d := direction(a, b)
		pa := offsetPoint(a, d, halfw)
		pb := offsetPoint(b, d, halfw)
		if i == 0 && start {
			side.Start(pa)
		} else {
			side.Line(pa)
		}
		side.Line(pb)
		if i+2 < n {
			joinAt(side, b, d, direction(b, pts[i+2]), halfw, opt)
		}
	}
}

// direction returns the unit vector from a to b.
func direction(a, b svggeom.Point) svggeom.Point {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return svggeom.Point{X: 1}
	}
	return d.Scale(1 / l)
}

// offsetPoint displaces p by halfw along the left normal of direction d.
func offsetPoint(p, d svggeom.Point, halfw float64) svggeom.Point {
	// left normal of (x, y) is (y, −x)
	return svggeom.Point{X: p.X + d.Y*halfw, Y: p.Y - d.X*halfw}
}

// joinAt bridges the gap between the offset ends of two adjacent
// segments meeting at pivot with directions d0 and d1.
func joinAt(side *svggeom.Path, pivot, d0, d1 svggeom.Point, halfw float64, opt Options) {
	cross := d0.X*d1.Y - d0.Y*d1.X
	dot := d0.X*d1.X + d0.Y*d1.Y
	if math.Abs(cross) < 1e-12 && dot > 0 {
		return // collinear, nothing to bridge
	}
	from := offsetPoint(pivot, d0, halfw)
	to := offsetPoint(pivot, d1, halfw)
	if cross < 0 {
		// turning left: the left side is the inner side. Meet where
		// the two offset lines cross, unless the turn is so sharp
		// that the meeting point runs away.
		if dot > -0.99 {
			mx, my := intersectLines(from, d0, to, d1)
			side.Line(svggeom.Point{X: mx, Y: my})
		}
		side.Line(to)
		return
	}
	switch opt.Join {
	case RoundJoin:
		emitArc(side, pivot, halfw, from, to)
	case MiterJoin:
		// ratio of miter length to stroke width is 1/sin(θ/2), θ
		// being the interior angle between the segments
		sinHalf := math.Sqrt(math.Max(0, (1+dot)/2))
		if sinHalf > 1e-9 && 1/sinHalf <= opt.MiterLimit && math.Abs(cross) > 1e-12 {
			mx, my := intersectLines(from, d0, to, d1)
			side.Line(svggeom.Point{X: mx, Y: my})
		}
		side.Line(to)
	default: // BevelJoin
		side.Line(to)
	}
}

// intersectLines returns the intersection of the lines through p0 along
// d0 and through p1 along d1. Callers ensure the lines are not
// parallel.
func intersectLines(p0, d0, p1, d1 svggeom.Point) (float64, float64) {
	denom := d0.X*d1.Y - d0.Y*d1.X
	t := ((p1.X-p0.X)*d1.Y - (p1.Y-p0.Y)*d1.X) / denom
	return p0.X + d0.X*t, p0.Y + d0.Y*t
}

// capAt finishes a line end at pivot heading along d (pointing out of
// the path).
func capAt(side *svggeom.Path, pivot, d svggeom.Point, halfw float64, mode CapMode) {
	from := offsetPoint(pivot, d, halfw)
	// opposite offset: the right side of the outgoing direction
	to := svggeom.Point{X: pivot.X - d.Y*halfw, Y: pivot.Y + d.X*halfw}
	switch mode {
	case RoundCap:
		emitArc(side, pivot, halfw, from, to)
	case SquareCap:
		ext := d.Scale(halfw)
		side.Line(from.Add(ext))
		side.Line(to.Add(ext))
		side.Line(to)
	default: // ButtCap
		side.Line(to)
	}
}

// emitArc appends an arc around center from `from` to `to`, as line
// segments of at most arcStep radians each. Outer join wedges and caps
// on the left-offset side always open toward increasing angle.
func emitArc(side *svggeom.Path, center svggeom.Point, radius float64, from, to svggeom.Point) {
	_, a0 := svggeom.Polar(from.X-center.X, from.Y-center.Y)
	_, a1 := svggeom.Polar(to.X-center.X, to.Y-center.Y)
	delta := svggeom.AngleDiff(a0, a1)
	if delta < 0 {
		delta += 2 * math.Pi
	}
	segs := int(math.Ceil(math.Abs(delta) / arcStep))
	if segs < 1 {
		segs = 1
	}
	for i := 1; i <= segs; i++ {
		ang := a0 + delta*float64(i)/float64(segs)
		x, y := svggeom.FromPolar(radius, ang)
		side.Line(svggeom.Point{X: center.X + x, Y: center.Y + y})
	}
}

// emitDot draws the degenerate stroke of a zero-length subpath.
func emitDot(out *svggeom.Path, center svggeom.Point, halfw float64, mode CapMode) {
	if mode == SquareCap {
		out.AddRect(center.X-halfw, center.Y-halfw, 2*halfw, 2*halfw)
		return
	}
	out.AddEllipse(center.X, center.Y, halfw, halfw)
}

// dropRepeats removes consecutive duplicate points.
func dropRepeats(pts []svggeom.Point) []svggeom.Point {
	if len(pts) < 2 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

func reversed(pts []svggeom.Point) []svggeom.Point {
	out := make([]svggeom.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
