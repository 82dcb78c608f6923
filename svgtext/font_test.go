package svgtext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/image/font/gofont/goregular"
)

func TestAddFaceRejectsGarbage(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.AddFace("Broken", false, false, []byte("not a font")))
	assert.Nil(t, r.Lookup("Broken", false, false))
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.AddFace("Go", false, false, goregular.TTF))

	assert.NotNil(t, r.Lookup("Go", false, false))
	assert.NotNil(t, r.Lookup("go", false, false), "family names are case insensitive")
	assert.NotNil(t, r.Lookup("Go", true, false), "style relaxes to the loaded face")
	assert.NotNil(t, r.Lookup("Missing", false, false), "any face beats none")
	assert.NotNil(t, r.Lookup("serif, Go", false, false), "family lists fall through")
}

func TestOutlineAndAdvance(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.AddFace("Go", false, false, goregular.TTF))
	face := r.Lookup("Go", false, false)

	adv := face.Advance("Hello", 16)
	assert.Greater(t, adv, 20.0)
	assert.Less(t, adv, 80.0)
	assert.InDelta(t, 2*adv, face.Advance("Hello", 32), 1e-6, "advance scales with size")

	p := face.Outline("Hello", 16, 10, 40, AnchorStart)
	assert.False(t, p.IsEmpty())
	b := p.Bounds()
	assert.InDelta(t, 10, b.X, 2, "run starts at the origin")
	assert.Less(t, b.Y, 40.0, "glyphs sit above the baseline")

	mid := face.Outline("Hello", 16, 10, 40, AnchorMiddle)
	assert.InDelta(t, 10-adv/2, mid.Bounds().X, 2)

	assert.True(t, face.Outline("", 16, 0, 0, AnchorStart).IsEmpty())
	var missing *Face
	assert.True(t, missing.Outline("x", 16, 0, 0, AnchorStart).IsEmpty())
	assert.Equal(t, 0.0, missing.Advance("x", 16))
}
