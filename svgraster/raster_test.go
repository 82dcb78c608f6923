package svgraster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadRaziei/novasvg/svggeom"
)

func TestBitmapNull(t *testing.T) {
	b := NewBitmap(0, 10)
	assert.True(t, b.IsNull())
	assert.Equal(t, 0, b.Width())
	assert.Nil(t, b.Data())

	b = NewBitmap(-1, -1)
	assert.True(t, b.IsNull())

	var nilMap *Bitmap
	assert.True(t, nilMap.IsNull())
	assert.Equal(t, 0, nilMap.Height())
}

func TestBitmapClearPremultiplied(t *testing.T) {
	b := NewBitmap(2, 2)
	require.False(t, b.IsNull())
	assert.Equal(t, 8, b.Stride())

	b.Clear(color.NRGBA{R: 0xff, G: 0, B: 0, A: 0x80})
	px := b.At(0, 0)
	// red premultiplied by the half-opaque alpha
	assert.Equal(t, uint8(0x80), px.A)
	assert.InDelta(t, 0x80, int(px.R), 1)
	assert.Equal(t, uint8(0), px.G)
}

func TestBitmapMove(t *testing.T) {
	b := NewBitmap(4, 4)
	moved := b.Move()
	assert.True(t, b.IsNull())
	assert.False(t, moved.IsNull())
	assert.Equal(t, 4, moved.Width())
}

func fillArea(b *Bitmap) float64 {
	sum := 0.0
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			sum += float64(b.At(x, y).A) / 255
		}
	}
	return sum
}

func TestFillRectCoverage(t *testing.T) {
	b := NewBitmap(20, 20)
	var p svggeom.Path
	p.AddRect(5, 5, 10, 10)

	f := NewFiller()
	f.Fill(b, p, svggeom.Identity, NonZeroWinding, NewPlainColor(0, 0, 0, 0xff), 1, nil)

	assert.InDelta(t, 100, fillArea(b), 0.5)
	assert.Equal(t, uint8(0xff), b.At(10, 10).A, "interior is fully opaque")
	assert.Equal(t, uint8(0), b.At(2, 2).A, "exterior stays empty")
}

func TestFillHalfPixelOffset(t *testing.T) {
	b := NewBitmap(10, 3)
	var p svggeom.Path
	p.AddRect(0.5, 1, 9, 1)

	f := NewFiller()
	f.Fill(b, p, svggeom.Identity, NonZeroWinding, NewPlainColor(0, 0, 0, 0xff), 1, nil)

	// edge pixels get half coverage
	assert.InDelta(t, 128, int(b.At(0, 1).A), 3)
	assert.InDelta(t, 128, int(b.At(9, 1).A), 3)
	assert.Equal(t, uint8(0xff), b.At(5, 1).A)
}

func TestFillRuleDonut(t *testing.T) {
	var p svggeom.Path
	p.AddRect(0, 0, 20, 20)
	p.AddRect(5, 5, 10, 10)

	paint := NewPlainColor(0, 0, 0, 0xff)

	nz := NewBitmap(20, 20)
	NewFiller().Fill(nz, p, svggeom.Identity, NonZeroWinding, paint, 1, nil)
	assert.Equal(t, uint8(0xff), nz.At(10, 10).A, "nonzero fills the middle")

	eo := NewBitmap(20, 20)
	NewFiller().Fill(eo, p, svggeom.Identity, EvenOdd, paint, 1, nil)
	assert.Equal(t, uint8(0), eo.At(10, 10).A, "evenodd leaves the hole")
	assert.Equal(t, uint8(0xff), eo.At(2, 10).A)
}

func TestFillTransformAndOpacity(t *testing.T) {
	b := NewBitmap(20, 20)
	var p svggeom.Path
	p.AddRect(0, 0, 5, 5)

	f := NewFiller()
	f.Fill(b, p, svggeom.Scaled(2, 2), NonZeroWinding, NewPlainColor(0xff, 0, 0, 0xff), 0.5, nil)

	px := b.At(5, 5)
	assert.InDelta(t, 128, int(px.A), 2)
	assert.InDelta(t, 128, int(px.R), 2)
	assert.Equal(t, uint8(0), b.At(15, 15).A)
}

func TestFillOverBlend(t *testing.T) {
	b := NewBitmap(4, 4)
	b.Clear(color.NRGBA{R: 0, G: 0, B: 0xff, A: 0xff})

	var p svggeom.Path
	p.AddRect(0, 0, 4, 4)
	NewFiller().Fill(b, p, svggeom.Identity, NonZeroWinding, NewPlainColor(0xff, 0, 0, 0xff), 0.5, nil)

	px := b.At(2, 2)
	assert.Equal(t, uint8(0xff), px.A)
	assert.InDelta(t, 128, int(px.R), 2)
	assert.InDelta(t, 127, int(px.B), 2)
}

func TestFillClipRect(t *testing.T) {
	b := NewBitmap(20, 20)
	var p svggeom.Path
	p.AddRect(0, 0, 20, 20)

	clip := &Clip{Rect: svggeom.Box{X: 0, Y: 0, W: 10, H: 20}}
	NewFiller().Fill(b, p, svggeom.Identity, NonZeroWinding, NewPlainColor(0, 0, 0, 0xff), 1, clip)

	assert.Equal(t, uint8(0xff), b.At(5, 5).A)
	assert.Equal(t, uint8(0), b.At(15, 5).A)
}

func TestFillClipMask(t *testing.T) {
	b := NewBitmap(10, 10)
	mask := make([]uint8, 100)
	for i := range mask {
		if i%10 < 5 {
			mask[i] = 0xff
		}
	}
	var p svggeom.Path
	p.AddRect(0, 0, 10, 10)
	clip := &Clip{Rect: svggeom.Box{W: 10, H: 10}, Mask: mask}
	NewFiller().Fill(b, p, svggeom.Identity, NonZeroWinding, NewPlainColor(0, 0, 0, 0xff), 1, clip)

	assert.Equal(t, uint8(0xff), b.At(2, 3).A)
	assert.Equal(t, uint8(0), b.At(7, 3).A)
}

func TestRasterizeMask(t *testing.T) {
	var p svggeom.Path
	p.AddRect(2, 2, 4, 4)
	mask := RasterizeMask(p, svggeom.Identity, NonZeroWinding, 8, 8)
	require.Len(t, mask, 64)
	assert.Equal(t, uint8(0xff), mask[3*8+3])
	assert.Equal(t, uint8(0), mask[0])
}

func TestLinearGradientStops(t *testing.T) {
	g := &Gradient{
		Direction: Linear{0, 0, 1, 0},
		Stops: []GradStop{
			{Color: color.NRGBA{R: 0xff, A: 0xff}, Offset: 0, Opacity: 1},
			{Color: color.NRGBA{B: 0xff, A: 0xff}, Offset: 1, Opacity: 1},
		},
		Matrix: svggeom.Identity,
		Units:  ObjectBoundingBox,
	}
	g.Prepare(svggeom.Box{X: 0, Y: 0, W: 100, H: 10})

	b := NewBitmap(100, 10)
	var p svggeom.Path
	p.AddRect(0, 0, 100, 10)
	NewFiller().Fill(b, p, svggeom.Identity, NonZeroWinding, g, 1, nil)

	left, right := b.At(1, 5), b.At(98, 5)
	assert.Greater(t, int(left.R), 200)
	assert.Less(t, int(left.B), 50)
	assert.Greater(t, int(right.B), 200)
	mid := b.At(50, 5)
	assert.InDelta(t, 127, int(mid.R), 20)
}

func TestRadialGradientFocus(t *testing.T) {
	g := &Gradient{
		// end circle at (50,50) radius 50, focus pulled left to (25,50)
		Direction: Radial{50, 50, 25, 50, 50, 0},
		Stops: []GradStop{
			{Color: color.NRGBA{R: 0xff, A: 0xff}, Offset: 0, Opacity: 1},
			{Color: color.NRGBA{B: 0xff, A: 0xff}, Offset: 1, Opacity: 1},
		},
		Matrix: svggeom.Identity,
		Units:  UserSpaceOnUse,
	}
	g.Prepare(svggeom.Box{X: 0, Y: 0, W: 100, H: 100})

	b := NewBitmap(100, 100)
	var p svggeom.Path
	p.AddRect(0, 0, 100, 100)
	NewFiller().Fill(b, p, svggeom.Identity, NonZeroWinding, g, 1, nil)

	// offset zero sits at the focus, not the circle center
	focus := b.At(25, 50)
	assert.Greater(t, int(focus.R), 220)
	assert.Less(t, int(focus.B), 30)
	// the center is a third of the way from focus to the circle edge
	center := b.At(50, 50)
	assert.Greater(t, int(center.R), int(center.B))
	edge := b.At(97, 50)
	assert.Greater(t, int(edge.B), 200)
}

func TestGradientWithoutStopsPaintsNothing(t *testing.T) {
	g := &Gradient{Direction: Linear{0, 0, 1, 0}, Matrix: svggeom.Identity}
	g.Prepare(svggeom.Box{W: 10, H: 10})

	b := NewBitmap(10, 10)
	var p svggeom.Path
	p.AddRect(0, 0, 10, 10)
	NewFiller().Fill(b, p, svggeom.Identity, NonZeroWinding, g, 1, nil)
	assert.Equal(t, uint8(0), b.At(5, 5).A)
}
