package svgraster

import (
	"image/color"
	"math"
	"sort"

	"github.com/MohammadRaziei/novasvg/svggeom"
)

// Paint produces the source color for a pixel. Coordinates are in device
// space, at the pixel center.
type Paint interface {
	// at returns the non premultiplied color for the pixel center (x, y).
	at(x, y float64) color.NRGBA
	// opaque reports whether every produced color is fully opaque,
	// enabling the fast blend path.
	opaque() bool
}

// PlainColor is a solid color paint.
type PlainColor struct {
	C color.NRGBA
}

// NewPlainColor builds a solid paint from 8 bit channels.
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{C: color.NRGBA{r, g, b, a}}
}

func (p PlainColor) at(x, y float64) color.NRGBA { return p.C }
func (p PlainColor) opaque() bool                { return p.C.A == 0xff }

// GradientUnits selects the coordinate system of the gradient geometry.
type GradientUnits uint8

const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod controls how a gradient repeats outside [0, 1].
type SpreadMethod uint8

const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop is one color stop of a gradient.
type GradStop struct {
	Color   color.NRGBA
	Offset  float64
	Opacity float64
}

// Linear holds the x1, y1, x2, y2 end points of a linear gradient.
type Linear [4]float64

// Radial holds the cx, cy, fx, fy, r, fr parameters of a radial
// gradient.
type Radial [6]float64

type gradientDirecter interface{ isRadial() bool }

func (Linear) isRadial() bool { return false }
func (Radial) isRadial() bool { return true }

// Gradient is a linear or radial gradient paint. Bounds and Matrix map
// the gradient geometry to device space; with ObjectBoundingBox units
// the direction coordinates are fractions of Bounds.
type Gradient struct {
	Direction gradientDirecter
	Stops     []GradStop
	Bounds    svggeom.Box
	Matrix    svggeom.Matrix // gradientTransform composed with the element transform
	Spread    SpreadMethod
	Units     GradientUnits

	inverse svggeom.Matrix // device space back to gradient space
	ok      bool
}

// Prepare resolves the gradient geometry against the painted bounds and
// caches the inverse mapping. Must be called before use as a Paint; a
// gradient without stops stays unusable and paints nothing.
func (g *Gradient) Prepare(pathBounds svggeom.Box) {
	g.ok = false
	if len(g.Stops) == 0 {
		return
	}
	if g.Units == ObjectBoundingBox {
		g.Bounds = pathBounds
		if g.Bounds.IsEmpty() {
			return
		}
	}
	sort.SliceStable(g.Stops, func(i, j int) bool { return g.Stops[i].Offset < g.Stops[j].Offset })
	inv, invertible := g.Matrix.Invert()
	if !invertible {
		return
	}
	g.inverse = inv
	g.ok = true
}

func (g *Gradient) opaque() bool {
	if !g.ok {
		return false
	}
	for _, s := range g.Stops {
		if s.Color.A != 0xff || s.Opacity < 1 {
			return false
		}
	}
	return true
}

// resolve maps fractional gradient coordinates to user space.
func (g *Gradient) resolve(fx, fy float64) (float64, float64) {
	if g.Units == ObjectBoundingBox {
		return g.Bounds.X + fx*g.Bounds.W, g.Bounds.Y + fy*g.Bounds.H
	}
	return fx, fy
}

func (g *Gradient) at(x, y float64) color.NRGBA {
	if !g.ok {
		return color.NRGBA{}
	}
	px, py := g.inverse.TransformPoint(x, y)
	var t float64
	switch dir := g.Direction.(type) {
	case Linear:
		x1, y1 := g.resolve(dir[0], dir[1])
		x2, y2 := g.resolve(dir[2], dir[3])
		dx, dy := x2-x1, y2-y1
		d := dx*dx + dy*dy
		if d == 0 {
			t = 0
		} else {
			t = ((px-x1)*dx + (py-y1)*dy) / d
		}
	case Radial:
		cx, cy := g.resolve(dir[0], dir[1])
		fx, fy := g.resolve(dir[2], dir[3])
		r, fr := dir[4], dir[5]
		if g.Units == ObjectBoundingBox {
			// radius fractions measured against the bounds diagonal
			rscale := math.Hypot(g.Bounds.W, g.Bounds.H) / math.Sqrt2
			r *= rscale
			fr *= rscale
		}
		if r <= 0 {
			return g.stopColor(1)
		}
		// t picks the circle interpolated between the focal circle
		// (fx, fy, fr) at 0 and the end circle (cx, cy, r) at 1 that
		// passes through the sample point
		cdx, cdy := cx-fx, cy-fy
		dr := r - fr
		pdx, pdy := px-fx, py-fy
		a := cdx*cdx + cdy*cdy - dr*dr
		b := pdx*cdx + pdy*cdy + fr*dr
		c := pdx*pdx + pdy*pdy - fr*fr
		if math.Abs(a) < 1e-12 {
			if b == 0 {
				return g.stopColor(1)
			}
			t = c / (2 * b)
		} else {
			disc := b*b - a*c
			if disc < 0 {
				return g.stopColor(1)
			}
			root := math.Sqrt(disc)
			t = (b + root) / a
			if fr+t*dr < 0 {
				t = (b - root) / a
			}
		}
	}
	return g.stopColor(g.spread(t))
}

// spread folds t into [0, 1] per the spread method.
func (g *Gradient) spread(t float64) float64 {
	switch g.Spread {
	case RepeatSpread:
		t = t - math.Floor(t)
	case ReflectSpread:
		t = math.Mod(math.Abs(t), 2)
		if t > 1 {
			t = 2 - t
		}
	default: // PadSpread
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return t
}

// stopColor interpolates the sorted stop list at offset t.
func (g *Gradient) stopColor(t float64) color.NRGBA {
	stops := g.Stops
	if t <= stops[0].Offset {
		return applyStopOpacity(stops[0])
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return applyStopOpacity(last)
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			s0, s1 := stops[i-1], stops[i]
			span := s1.Offset - s0.Offset
			f := 0.0
			if span > 0 {
				f = (t - s0.Offset) / span
			}
			c0, c1 := applyStopOpacity(s0), applyStopOpacity(s1)
			return color.NRGBA{
				R: lerp8(c0.R, c1.R, f),
				G: lerp8(c0.G, c1.G, f),
				B: lerp8(c0.B, c1.B, f),
				A: lerp8(c0.A, c1.A, f),
			}
		}
	}
	return applyStopOpacity(last)
}

func applyStopOpacity(s GradStop) color.NRGBA {
	c := s.Color
	if s.Opacity < 1 {
		op := s.Opacity
		if op < 0 {
			op = 0
		}
		c.A = uint8(float64(c.A)*op + 0.5)
	}
	return c
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
