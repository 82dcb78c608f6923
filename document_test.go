package novasvg

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadRaziei/novasvg/svggeom"
)

func load(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := LoadFromData([]byte(markup))
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func TestLoadFromData(t *testing.T) {
	doc := load(t, `<svg width="100" height="50"><rect width="10" height="10"/></svg>`)
	assert.Equal(t, 100.0, doc.Width())
	assert.Equal(t, 50.0, doc.Height())
	assert.Equal(t, "svg", doc.DocumentElement().TagName())
}

func TestLoadInvalid(t *testing.T) {
	for _, markup := range []string{
		"", "not xml", "<svg", "<rect width='10'/>", "<svg><rect></svg>",
	} {
		doc, err := LoadFromData([]byte(markup))
		assert.Error(t, err, "%q", markup)
		assert.Nil(t, doc, "%q", markup)
	}
}

func TestViewportResolution(t *testing.T) {
	// viewBox supplies the size when width and height are missing
	doc := load(t, `<svg viewBox="0 0 200 100"/>`)
	assert.Equal(t, 200.0, doc.Width())
	assert.Equal(t, 100.0, doc.Height())

	// no sizing information falls back to the default viewport
	doc = load(t, `<svg/>`)
	assert.Equal(t, 300.0, doc.Width())
	assert.Equal(t, 150.0, doc.Height())

	// percentages resolve against the viewBox
	doc = load(t, `<svg width="50%" viewBox="0 0 200 100"/>`)
	assert.Equal(t, 100.0, doc.Width())
}

func TestNodeHandles(t *testing.T) {
	doc := load(t, `<svg><g id="grp"><rect id="r" width="5" height="5"/>hello</g></svg>`)

	g := doc.GetElementByID("grp")
	require.False(t, g.IsNull())
	r := doc.GetElementByID("r")
	require.False(t, r.IsNull())

	// handles to the same element compare equal
	assert.Equal(t, g, doc.QuerySelector("#grp"))
	assert.Equal(t, g, r.ParentElement())
	assert.Equal(t, doc.DocumentElement(), g.ParentElement())

	children := g.Children()
	require.Len(t, children, 2)
	assert.True(t, children[0].IsElement())
	assert.True(t, children[1].IsTextNode())
	assert.Equal(t, "hello", children[1].ToTextNode().Data())
	assert.True(t, children[0].ToTextNode().IsNull())
	assert.Equal(t, r, children[0].ToElement())
}

func TestAttributes(t *testing.T) {
	doc := load(t, `<svg><rect id="r" width="5" height="5"/></svg>`)
	r := doc.GetElementByID("r")

	assert.True(t, r.HasAttribute("width"))
	assert.False(t, r.HasAttribute("fill"))
	assert.Equal(t, "5", r.GetAttribute("width"))
	assert.Equal(t, "", r.GetAttribute("fill"))

	r.SetAttribute("fill", "red")
	assert.Equal(t, "red", r.GetAttribute("fill"))
	r.SetAttribute("fill", "blue")
	assert.Equal(t, "blue", r.GetAttribute("fill"))
}

func TestQuerySelectorAllOrder(t *testing.T) {
	doc := load(t, `<svg>
		<rect id="a" class="x" width="1" height="1"/>
		<circle id="b" class="x" r="1"/>
		<rect id="c" width="1" height="1"/>
	</svg>`)

	rects := doc.QuerySelectorAll("rect")
	require.Len(t, rects, 2)
	assert.Equal(t, "a", rects[0].ID())
	assert.Equal(t, "c", rects[1].ID())

	assert.Len(t, doc.QuerySelectorAll(".x"), 2)
	assert.Len(t, doc.QuerySelectorAll("rect, circle"), 3)
	assert.Len(t, doc.QuerySelectorAll("rect.x"), 1)
	assert.Empty(t, doc.QuerySelectorAll("g > rect"), "unsupported selectors match nothing")
	assert.True(t, doc.QuerySelector("ellipse").IsNull())
}

func TestCascadePrecedence(t *testing.T) {
	doc := load(t, `<svg>
		<style>rect { fill: blue; } #r { fill: purple; }</style>
		<rect id="r" width="5" height="5" fill="green" style="fill: orange"/>
		<rect id="plain" width="5" height="5" fill="green"/>
	</svg>`)

	v, ok := doc.GetElementByID("r").ComputedValue("fill")
	require.True(t, ok)
	assert.Equal(t, "orange", v, "inline style beats rules and attributes")

	v, _ = doc.GetElementByID("plain").ComputedValue("fill")
	assert.Equal(t, "blue", v, "rules beat presentation attributes")

	// recomputing without changes is stable
	doc.ForceLayout()
	v, _ = doc.GetElementByID("r").ComputedValue("fill")
	assert.Equal(t, "orange", v)
}

func TestStyleInheritance(t *testing.T) {
	doc := load(t, `<svg><g fill="red" opacity="0.5"><rect id="r" width="5" height="5"/></g></svg>`)
	r := doc.GetElementByID("r")

	v, _ := r.ComputedValue("fill")
	assert.Equal(t, "red", v)
	v, _ = r.ComputedValue("opacity")
	assert.Equal(t, "1", v, "opacity does not inherit")
}

func TestApplyStyleSheet(t *testing.T) {
	doc := load(t, `<svg><rect id="r" width="5" height="5"/></svg>`)
	require.NoError(t, doc.ApplyStyleSheet("#r { fill: red; }"))

	v, _ := doc.GetElementByID("r").ComputedValue("fill")
	assert.Equal(t, "red", v)
}

func TestSetAttributeInvalidatesLayout(t *testing.T) {
	doc := load(t, `<svg width="100" height="100"><rect id="r" width="10" height="10"/></svg>`)
	r := doc.GetElementByID("r")
	assert.Equal(t, 10.0, r.GetLocalBoundingBox().W)

	r.SetAttribute("width", "40")
	assert.Equal(t, 40.0, r.GetLocalBoundingBox().W)
}

func TestMatricesAndBoxes(t *testing.T) {
	doc := load(t, `<svg width="100" height="100">
		<g transform="translate(10, 20)">
			<rect id="r" x="5" y="5" width="10" height="10" transform="scale(2)"/>
		</g>
	</svg>`)
	r := doc.GetElementByID("r")

	local := r.GetLocalMatrix()
	assert.Equal(t, svggeom.Scaled(2, 2), local)

	global := r.GetGlobalMatrix()
	x, y := global.TransformPoint(5, 5)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 30.0, y)

	assert.Equal(t, svggeom.Box{X: 5, Y: 5, W: 10, H: 10}, r.GetLocalBoundingBox())
	assert.Equal(t, svggeom.Box{X: 20, Y: 30, W: 20, H: 20}, r.GetGlobalBoundingBox())

	assert.Equal(t, svggeom.Box{X: 20, Y: 30, W: 20, H: 20}, doc.BoundingBox())
}

func TestViewBoxScaling(t *testing.T) {
	doc := load(t, `<svg width="200" height="200" viewBox="0 0 100 100">
		<rect id="r" x="10" y="10" width="30" height="30"/>
	</svg>`)
	box := doc.GetElementByID("r").GetGlobalBoundingBox()
	assert.Equal(t, svggeom.Box{X: 20, Y: 20, W: 60, H: 60}, box)
}

func TestRenderToBitmapSizes(t *testing.T) {
	doc := load(t, `<svg width="100" height="50"/>`)

	b := doc.RenderToBitmap(0, 0, nil)
	assert.Equal(t, 100, b.Width())
	assert.Equal(t, 50, b.Height())

	// a single non positive side derives from the aspect ratio
	b = doc.RenderToBitmap(-1, 100, nil)
	assert.Equal(t, 200, b.Width())
	assert.Equal(t, 100, b.Height())

	b = doc.RenderToBitmap(300, -1, nil)
	assert.Equal(t, 300, b.Width())
	assert.Equal(t, 150, b.Height())
}

func TestRenderRect(t *testing.T) {
	doc := load(t, `<svg width="64" height="64">
		<rect x="16" y="16" width="32" height="32" fill="#ff0000"/>
	</svg>`)
	b := doc.RenderToBitmap(64, 64, color.White)
	require.False(t, b.IsNull())

	inside := b.At(32, 32)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, inside)

	outside := b.At(4, 4)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, outside)
}

func TestRenderScalesWithBitmap(t *testing.T) {
	doc := load(t, `<svg width="10" height="10">
		<rect width="5" height="10" fill="black"/>
	</svg>`)
	b := doc.RenderToBitmap(100, 100, nil)

	assert.Equal(t, uint8(0xff), b.At(25, 50).A, "left half is painted")
	assert.Equal(t, uint8(0), b.At(75, 50).A, "right half is empty")
}

func TestRenderDisplayAndVisibility(t *testing.T) {
	doc := load(t, `<svg width="10" height="10">
		<rect width="10" height="10" fill="red" display="none"/>
		<rect width="10" height="10" fill="blue" visibility="hidden"/>
	</svg>`)
	b := doc.RenderToBitmap(10, 10, nil)
	assert.Equal(t, uint8(0), b.At(5, 5).A)
}

func TestRenderOpacity(t *testing.T) {
	doc := load(t, `<svg width="10" height="10">
		<g opacity="0.5"><rect width="10" height="10" fill="black" fill-opacity="0.5"/></g>
	</svg>`)
	b := doc.RenderToBitmap(10, 10, nil)
	assert.InDelta(t, 64, int(b.At(5, 5).A), 3)
}

func TestRenderStroke(t *testing.T) {
	doc := load(t, `<svg width="40" height="40">
		<line x1="0" y1="20" x2="40" y2="20" stroke="black" stroke-width="8"/>
	</svg>`)
	b := doc.RenderToBitmap(40, 40, nil)

	assert.Equal(t, uint8(0xff), b.At(20, 20).A, "stroke core")
	assert.Equal(t, uint8(0), b.At(20, 5).A, "above the stroke")
	assert.Equal(t, uint8(0), b.At(20, 35).A, "below the stroke")
}

func TestRenderUse(t *testing.T) {
	doc := load(t, `<svg width="40" height="40">
		<defs><rect id="unit" width="10" height="10" fill="black"/></defs>
		<use href="#unit" x="20" y="20"/>
	</svg>`)
	b := doc.RenderToBitmap(40, 40, nil)

	assert.Equal(t, uint8(0), b.At(5, 5).A, "defs content does not render directly")
	assert.Equal(t, uint8(0xff), b.At(25, 25).A, "use places the reference")
}

func TestRenderLinearGradient(t *testing.T) {
	doc := load(t, `<svg width="100" height="10">
		<defs>
			<linearGradient id="g">
				<stop offset="0" stop-color="#ff0000"/>
				<stop offset="1" stop-color="#0000ff"/>
			</linearGradient>
		</defs>
		<rect width="100" height="10" fill="url(#g)"/>
	</svg>`)
	b := doc.RenderToBitmap(100, 10, nil)

	assert.Greater(t, int(b.At(2, 5).R), 200)
	assert.Greater(t, int(b.At(97, 5).B), 200)
}

func TestRenderClipPath(t *testing.T) {
	doc := load(t, `<svg width="20" height="20">
		<defs><clipPath id="c"><rect width="10" height="20"/></clipPath></defs>
		<rect width="20" height="20" fill="black" clip-path="url(#c)"/>
	</svg>`)
	b := doc.RenderToBitmap(20, 20, nil)

	assert.Equal(t, uint8(0xff), b.At(5, 10).A)
	assert.Equal(t, uint8(0), b.At(15, 10).A)
}

func TestElementFromPoint(t *testing.T) {
	doc := load(t, `<svg width="100" height="100">
		<rect id="below" x="0" y="0" width="60" height="60"/>
		<rect id="above" x="40" y="40" width="60" height="60"/>
	</svg>`)

	assert.Equal(t, "below", doc.ElementFromPoint(10, 10).ID())
	assert.Equal(t, "above", doc.ElementFromPoint(50, 50).ID(), "later sibling paints on top")
	assert.Equal(t, "above", doc.ElementFromPoint(90, 90).ID())
	assert.True(t, doc.ElementFromPoint(95, 5).IsNull())
}

func TestElementRenderToBitmap(t *testing.T) {
	doc := load(t, `<svg width="100" height="100">
		<rect id="r" x="10" y="10" width="20" height="10" fill="black"/>
	</svg>`)
	r := doc.GetElementByID("r")

	b := r.RenderToBitmap(40, 20, nil)
	require.False(t, b.IsNull())
	assert.Equal(t, 40, b.Width())
	assert.Equal(t, 20, b.Height())
	assert.Equal(t, uint8(0xff), b.At(20, 10).A)

	b = r.RenderToBitmap(40, -1, nil)
	assert.Equal(t, 20, b.Height(), "height follows the box aspect")
}

func TestParseTransformAttr(t *testing.T) {
	m, err := parseTransform("translate(5 10) scale(2)")
	require.NoError(t, err)
	x, y := m.TransformPoint(1, 1)
	assert.Equal(t, 7.0, x)
	assert.Equal(t, 12.0, y)

	m, err = parseTransform("matrix(1 0 0 1 3 4)")
	require.NoError(t, err)
	assert.Equal(t, svggeom.Translated(3, 4), m)

	_, err = parseTransform("rotate(1 2)")
	assert.Error(t, err)
	_, err = parseTransform("frobnicate(1)")
	assert.Error(t, err)
}
