package svgstroke

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadRaziei/novasvg/svggeom"
)

func outlineArea(p svggeom.Path) float64 {
	// signed area over the flattened outline; nonzero filling of a
	// stroke outline yields a positive total
	area := 0.0
	for _, sub := range p.Flatten(0.01) {
		pts := sub.Points
		n := len(pts)
		for i := 0; i < n; i++ {
			a, b := pts[i], pts[(i+1)%n]
			area += a.X*b.Y - b.X*a.Y
		}
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}

func line(x1, y1, x2, y2 float64) svggeom.Path {
	var p svggeom.Path
	p.AddLine(x1, y1, x2, y2)
	return p
}

func TestOutlineButtLine(t *testing.T) {
	out := Outline(line(0, 0, 100, 0), Options{Width: 10})
	require.False(t, out.IsEmpty())
	assert.InDelta(t, 1000, outlineArea(out), 1)

	b := out.Bounds()
	assert.InDelta(t, 0, b.X, 1e-9)
	assert.InDelta(t, -5, b.Y, 1e-9)
	assert.InDelta(t, 100, b.W, 1e-9)
	assert.InDelta(t, 10, b.H, 1e-9)
}

func TestOutlineSquareCap(t *testing.T) {
	out := Outline(line(0, 0, 100, 0), Options{Width: 10, Cap: SquareCap})
	// square caps extend half the width past both ends
	assert.InDelta(t, 1100, outlineArea(out), 1)
	assert.InDelta(t, -5, out.Bounds().X, 1e-9)
}

func TestOutlineRoundCap(t *testing.T) {
	out := Outline(line(0, 0, 100, 0), Options{Width: 10, Cap: RoundCap})
	// two half discs of radius 5 on top of the butt area
	assert.InDelta(t, 1000+25*3.14159, outlineArea(out), 2)
}

func TestOutlineMiterCorner(t *testing.T) {
	var p svggeom.Path
	p.Start(svggeom.Point{X: 0, Y: 0})
	p.Line(svggeom.Point{X: 50, Y: 0})
	p.Line(svggeom.Point{X: 50, Y: 50})

	out := Outline(p, Options{Width: 10, Join: MiterJoin, MiterLimit: 4})
	// the right-angle miter adds one quarter square at the corner
	assert.InDelta(t, 1025, outlineArea(out), 2)
	assert.InDelta(t, 55, out.Bounds().X+out.Bounds().W, 1e-6)
	// the mitered wedge sits on the outer side of the turn
	assert.True(t, out.Contains(54, -4, false))
	assert.True(t, out.Contains(52, -2, false))
}

func TestOutlineBevelCorner(t *testing.T) {
	var p svggeom.Path
	p.Start(svggeom.Point{X: 0, Y: 0})
	p.Line(svggeom.Point{X: 50, Y: 0})
	p.Line(svggeom.Point{X: 50, Y: 50})

	out := Outline(p, Options{Width: 10, Join: BevelJoin})
	// the bevel cuts the miter tip, half the corner square remains
	assert.InDelta(t, 1012.5, outlineArea(out), 2)
}

func TestOutlineMiterLimitFallsBackToBevel(t *testing.T) {
	// nearly reversing direction makes the miter arbitrarily long
	var p svggeom.Path
	p.Start(svggeom.Point{X: 0, Y: 0})
	p.Line(svggeom.Point{X: 100, Y: 0})
	p.Line(svggeom.Point{X: 0, Y: 1})

	limited := Outline(p, Options{Width: 10, Join: MiterJoin, MiterLimit: 2})
	bevel := Outline(p, Options{Width: 10, Join: BevelJoin})
	assert.InDelta(t, outlineArea(bevel), outlineArea(limited), 5)
}

func TestOutlineClosedRect(t *testing.T) {
	var p svggeom.Path
	p.AddRect(10, 10, 80, 80)

	out := Outline(p, Options{Width: 10, Join: MiterJoin, MiterLimit: 4})
	// the band around an 80x80 rect: outer 90x90 minus inner 70x70
	assert.InDelta(t, 90*90-70*70, outlineArea(out), 5)

	b := out.Bounds()
	assert.InDelta(t, 5, b.X, 1e-6)
	assert.InDelta(t, 90, b.W, 1e-6)
}

func TestOutlineDashes(t *testing.T) {
	out := Outline(line(0, 0, 100, 0), Options{Width: 10, Dash: []float64{10, 10}})
	// five drawn dashes of length 10
	assert.InDelta(t, 500, outlineArea(out), 2)
}

func TestOutlineDashOffset(t *testing.T) {
	plain := Outline(line(0, 0, 100, 0), Options{Width: 10, Dash: []float64{10, 10}})
	shifted := Outline(line(0, 0, 100, 0), Options{Width: 10, Dash: []float64{10, 10}, DashOffset: 5})
	assert.InDelta(t, outlineArea(plain), outlineArea(shifted), 2)
	// the shifted pattern starts mid gap, so the first dash is short
	assert.InDelta(t, 0, shifted.Bounds().X, 1e-9)
}

func TestOutlineOddDashPatternWraps(t *testing.T) {
	out := Outline(line(0, 0, 90, 0), Options{Width: 10, Dash: []float64{15}})
	// a single entry alternates 15 on, 15 off
	assert.InDelta(t, 450, outlineArea(out), 2)
}

func TestOutlineInvalidDashIsSolid(t *testing.T) {
	solid := Outline(line(0, 0, 100, 0), Options{Width: 10})
	neg := Outline(line(0, 0, 100, 0), Options{Width: 10, Dash: []float64{10, -5}})
	assert.InDelta(t, outlineArea(solid), outlineArea(neg), 1e-6)
}

func TestOutlineZeroWidth(t *testing.T) {
	assert.True(t, Outline(line(0, 0, 100, 0), Options{Width: 0}).IsEmpty())
	assert.True(t, Outline(svggeom.Path{}, Options{Width: 10}).IsEmpty())
}

func TestOutlineDot(t *testing.T) {
	var p svggeom.Path
	p.Start(svggeom.Point{X: 10, Y: 10})
	p.Line(svggeom.Point{X: 10, Y: 10})

	round := Outline(p, Options{Width: 10, Cap: RoundCap})
	assert.InDelta(t, 25*3.14159, outlineArea(round), 1)

	butt := Outline(p, Options{Width: 10})
	assert.True(t, butt.IsEmpty(), "butt caps draw nothing for a dot")
}
