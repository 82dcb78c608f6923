package svggeom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathData(t *testing.T) {
	p, err := ParsePathData("M10 10 L90 10 90 90 Z")
	require.NoError(t, err)
	assert.Equal(t, "M10,10 L90,10 L90,90 Z", p.String())

	// relative forms and shorthands
	p, err = ParsePathData("m10 10 h80 v80 z")
	require.NoError(t, err)
	assert.Equal(t, "M10,10 L90,10 L90,90 Z", p.String())
}

func TestParsePathDataArcFlags(t *testing.T) {
	// arc flags may be written without separators
	p, err := ParsePathData("M0 0 A5 5 0 0160 0")
	require.NoError(t, err)
	assert.False(t, p.IsEmpty())
}

func TestParsePathDataErrors(t *testing.T) {
	// anything before the first moveto is an error
	p0, err := ParsePathData("L10 10")
	assert.Error(t, err)
	assert.True(t, p0.IsEmpty())

	_, err = ParsePathData("M10 10 Q1")
	assert.Error(t, err)

	// the valid prefix survives a trailing error
	p, err := ParsePathData("M0 0 L10 0 L10")
	assert.Error(t, err)
	assert.Equal(t, "M0,0 L10,0", p.String())
}

func TestPathBounds(t *testing.T) {
	var p Path
	p.AddRect(10, 20, 30, 40)
	assert.Equal(t, Box{X: 10, Y: 20, W: 30, H: 40}, p.Bounds())

	assert.True(t, Path{}.Bounds().IsEmpty())
}

func TestPathTransform(t *testing.T) {
	var p Path
	p.AddRect(0, 0, 10, 10)
	q := p.Transform(Translated(5, 5))
	assert.Equal(t, Box{X: 5, Y: 5, W: 10, H: 10}, q.Bounds())
	// the receiver is left untouched
	assert.Equal(t, Box{X: 0, Y: 0, W: 10, H: 10}, p.Bounds())
}

func TestFlattenCircleLength(t *testing.T) {
	var p Path
	p.AddEllipse(0, 0, 10, 10)
	subs := p.Flatten(0.01)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].Closed)

	perimeter := 0.0
	pts := subs[0].Points
	for i := 1; i < len(pts); i++ {
		perimeter += pts[i].Sub(pts[i-1]).Length()
	}
	assert.InDelta(t, 62.83, perimeter, 0.5)
}

func TestPathContains(t *testing.T) {
	var p Path
	p.AddRect(0, 0, 10, 10)
	assert.True(t, p.Contains(5, 5, false))
	assert.False(t, p.Contains(15, 5, false))

	// a ring: outer and inner rect wound the same way
	p.AddRect(2, 2, 6, 6)
	assert.True(t, p.Contains(5, 5, false), "nonzero keeps the middle")
	assert.False(t, p.Contains(5, 5, true), "evenodd punches the hole")
	assert.True(t, p.Contains(1, 5, true))
}

func TestAddArcDegenerateRadii(t *testing.T) {
	var p Path
	p.Start(Point{X: 0, Y: 0})
	x, y := p.AddArc(0, 5, 0, false, true, 0, 0, 10, 0)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 0.0, y)
	// zero radius degrades to a straight line
	assert.Equal(t, "M0,0 L10,0", p.String())
}
