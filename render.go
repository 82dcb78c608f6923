package novasvg

import (
	"image/color"
	"math"

	"github.com/MohammadRaziei/novasvg/svggeom"
	"github.com/MohammadRaziei/novasvg/svgraster"
	"github.com/MohammadRaziei/novasvg/svgstroke"
	"github.com/MohammadRaziei/novasvg/svgstyle"
)

// renderState carries the accumulated transform, opacity and clip down
// the tree. It is passed by value so siblings never see each other's
// mutations.
type renderState struct {
	matrix  svggeom.Matrix // device matrix excluding the current element's own transform
	opacity float64
	clip    *svgraster.Clip
	filler  *svgraster.Filler
	depth   int // guards use reference cycles
}

const maxUseDepth = 64

func (doc *Document) render(bitmap *svgraster.Bitmap, matrix svggeom.Matrix) {
	doc.renderElement(bitmap, doc.root, renderState{
		matrix:  matrix,
		opacity: 1,
		filler:  svgraster.NewFiller(),
	})
}

func (doc *Document) renderElement(bitmap *svgraster.Bitmap, idx int, state renderState) {
	d := &doc.nodes[idx]
	if d.kind != elementNode || d.style == nil {
		return
	}
	switch d.tag {
	case "defs", "style", "symbol", "clipPath", "mask",
		"linearGradient", "radialGradient", "stop", "title", "desc", "metadata":
		return
	}
	if d.style.Get(svgstyle.Display) == "none" {
		return
	}

	e := Element{Node{doc, idx}}
	state.matrix = state.matrix.Mult(d.localMatrix)
	if op, ok := svgstyle.ParseOpacity(d.style.Get(svgstyle.Opacity)); ok {
		state.opacity *= op
	}
	if state.opacity <= 0 {
		return
	}
	if clip := e.resolveClip(bitmap, state); clip != nil {
		state.clip = clip
	}

	if len(d.path) > 0 && !hiddenVisibility(d.style) {
		e.paintShape(bitmap, d.path, state)
	}

	switch d.tag {
	case "use":
		if state.depth >= maxUseDepth {
			return
		}
		if ref := e.resolveHref(); !ref.IsNull() {
			shift := svggeom.Translated(
				e.lengthAttr("x", horizontal, 0),
				e.lengthAttr("y", vertical, 0))
			sub := state
			sub.matrix = state.matrix.Mult(shift)
			sub.depth = state.depth + 1
			doc.renderElement(bitmap, ref.idx, sub)
		}
	default:
		for _, c := range d.children {
			if doc.nodes[c].kind == elementNode {
				doc.renderElement(bitmap, c, state)
			}
		}
	}
}

func hiddenVisibility(cs *svgstyle.ComputedStyle) bool {
	v := cs.Get(svgstyle.Visibility)
	return v == "hidden" || v == "collapse"
}

// paintShape fills then strokes one geometry. The device matrix
// already includes the element's transform.
func (e Element) paintShape(bitmap *svgraster.Bitmap, path svggeom.Path, state renderState) {
	style := e.data().style
	bounds := path.Bounds()

	if paint, ok := e.resolvePaint(svgstyle.Fill, bounds, state.matrix); ok {
		rule := svgraster.NonZeroWinding
		if style.Get(svgstyle.FillRule) == "evenodd" {
			rule = svgraster.EvenOdd
		}
		opacity := state.opacity
		if v, ok := svgstyle.ParseOpacity(style.Get(svgstyle.FillOpacity)); ok {
			opacity *= v
		}
		state.filler.Fill(bitmap, path, state.matrix, rule, paint, opacity, state.clip)
	}

	if paint, ok := e.resolvePaint(svgstyle.Stroke, bounds, state.matrix); ok {
		if outline := e.strokeOutline(path, style); len(outline) > 0 {
			opacity := state.opacity
			if v, ok := svgstyle.ParseOpacity(style.Get(svgstyle.StrokeOpacity)); ok {
				opacity *= v
			}
			state.filler.Fill(bitmap, outline, state.matrix, svgraster.NonZeroWinding, paint, opacity, state.clip)
		}
	}
}

// strokeOutline expands the stroked path into a fillable outline in
// the element's user space.
func (e Element) strokeOutline(path svggeom.Path, style *svgstyle.ComputedStyle) svggeom.Path {
	width := 1.0
	if l, ok := svgstyle.ParseLength(style.Get(svgstyle.StrokeWidth)); ok {
		width = l.Resolve(e.doc.referenceLength(diagonal), e.fontSize())
	}
	if width <= 0 {
		return nil
	}
	opt := svgstroke.Options{
		Width:      width,
		MiterLimit: 4,
		Dash:       svgstyle.ParseDashArray(style.Get(svgstyle.StrokeDashArray)),
	}
	switch style.Get(svgstyle.StrokeLineCap) {
	case "round":
		opt.Cap = svgstroke.RoundCap
	case "square":
		opt.Cap = svgstroke.SquareCap
	}
	switch style.Get(svgstyle.StrokeLineJoin) {
	case "round":
		opt.Join = svgstroke.RoundJoin
	case "bevel":
		opt.Join = svgstroke.BevelJoin
	}
	if v, ok := svgstyle.ParseNumber(style.Get(svgstyle.StrokeMiterLimit)); ok && v >= 1 {
		opt.MiterLimit = v
	}
	if l, ok := svgstyle.ParseLength(style.Get(svgstyle.StrokeDashOffset)); ok {
		opt.DashOffset = l.Resolve(e.doc.referenceLength(diagonal), e.fontSize())
	}
	return svgstroke.Outline(path, opt)
}

// resolvePaint turns a computed fill or stroke value into a raster
// paint. ok is false when nothing should be painted.
func (e Element) resolvePaint(prop svgstyle.PropID, bounds svggeom.Box, device svggeom.Matrix) (svgraster.Paint, bool) {
	style := e.data().style
	pv := svgstyle.ParsePaint(style.Get(prop))
	switch pv.Kind {
	case svgstyle.PaintNone:
		return nil, false
	case svgstyle.PaintCurrentColor:
		c, ok := svgstyle.ParseColor(style.Get(svgstyle.Color))
		if !ok {
			return nil, false
		}
		return svgraster.NewPlainColor(c.R, c.G, c.B, c.A), true
	case svgstyle.PaintRef:
		if g := e.doc.buildGradient(pv.Ref, bounds, device); g != nil {
			return g, true
		}
		if pv.Fallback != nil {
			c := *pv.Fallback
			return svgraster.NewPlainColor(c.R, c.G, c.B, c.A), true
		}
		return nil, false
	default:
		c := pv.Color
		return svgraster.NewPlainColor(c.R, c.G, c.B, c.A), true
	}
}

// resolveClip rasterizes the element's clip-path reference into a
// device mask intersected with the inherited clip. A dangling or
// empty reference clips everything away, matching how an unmatched
// clip region has no interior.
func (e Element) resolveClip(bitmap *svgraster.Bitmap, state renderState) *svgraster.Clip {
	ref, ok := svgstyle.ParseURLRef(e.data().style.Get(svgstyle.ClipPath))
	if !ok {
		return nil
	}
	clipEl := e.doc.GetElementByID(ref)
	var clipPath svggeom.Path
	if clipEl.TagName() == "clipPath" {
		clipPath = e.doc.collectClipGeometry(clipEl)
	}
	rule := svgraster.NonZeroWinding
	if !clipEl.IsNull() && clipEl.data().style != nil &&
		clipEl.data().style.Get(svgstyle.ClipRule) == "evenodd" {
		rule = svgraster.EvenOdd
	}
	mask := svgraster.RasterizeMask(clipPath, state.matrix, rule, bitmap.Width(), bitmap.Height())
	rect := svggeom.Box{W: float64(bitmap.Width()), H: float64(bitmap.Height())}
	if len(clipPath) > 0 {
		rect = clipPath.Bounds().Transformed(state.matrix)
	}
	return intersectClip(state.clip, &svgraster.Clip{Rect: rect, Mask: mask})
}

// collectClipGeometry flattens a clipPath element's shape children
// into one path in the referencing element's user space.
func (doc *Document) collectClipGeometry(clipEl Element) svggeom.Path {
	var out svggeom.Path
	for _, c := range clipEl.childElements() {
		d := c.data()
		if len(d.path) == 0 {
			continue
		}
		out = append(out, d.path.Transform(d.localMatrix)...)
	}
	return out
}

func intersectClip(a, b *svgraster.Clip) *svgraster.Clip {
	if a == nil {
		return b
	}
	out := &svgraster.Clip{Rect: a.Rect.Intersect(b.Rect)}
	switch {
	case a.Mask == nil:
		out.Mask = b.Mask
	case b.Mask == nil:
		out.Mask = a.Mask
	default:
		mask := make([]uint8, len(a.Mask))
		for i := range mask {
			mask[i] = uint8(uint32(a.Mask[i]) * uint32(b.Mask[i]) / 255)
		}
		out.Mask = mask
	}
	return out
}

// buildGradient resolves a gradient reference into a prepared raster
// gradient, nil when the id does not name a usable gradient.
func (doc *Document) buildGradient(id string, bounds svggeom.Box, device svggeom.Matrix) *svgraster.Gradient {
	el := doc.GetElementByID(id)
	tag := el.TagName()
	if tag != "linearGradient" && tag != "radialGradient" {
		return nil
	}

	attr := func(name string) (string, bool) { return gradientAttr(el, name, 0) }
	units := svgraster.ObjectBoundingBox
	if v, ok := attr("gradientUnits"); ok && v == "userSpaceOnUse" {
		units = svgraster.UserSpaceOnUse
	}
	spread := svgraster.PadSpread
	if v, ok := attr("spreadMethod"); ok {
		switch v {
		case "reflect":
			spread = svgraster.ReflectSpread
		case "repeat":
			spread = svgraster.RepeatSpread
		}
	}
	matrix := device
	if v, ok := attr("gradientTransform"); ok {
		if m, err := parseTransform(v); err == nil {
			matrix = device.Mult(m)
		}
	}

	coord := func(name string, def float64, dir lengthDir) float64 {
		v, ok := attr(name)
		if !ok {
			return def
		}
		l, lok := svgstyle.ParseLength(v)
		if !lok {
			return def
		}
		if units == svgraster.ObjectBoundingBox {
			// bounding-box units are fractions; percentages scale to them
			if l.Unit == svgstyle.UnitPercent {
				return l.Value / 100
			}
			return l.Value
		}
		return l.Resolve(doc.referenceLength(dir), 16)
	}

	g := &svgraster.Gradient{
		Stops:  doc.gradientStops(el, 0),
		Matrix: matrix,
		Spread: spread,
		Units:  units,
	}
	if tag == "linearGradient" {
		def := 1.0
		if units == svgraster.UserSpaceOnUse {
			def = doc.referenceLength(horizontal)
		}
		g.Direction = svgraster.Linear{
			coord("x1", 0, horizontal), coord("y1", 0, vertical),
			coord("x2", def, horizontal), coord("y2", 0, vertical),
		}
	} else {
		half := 0.5
		if units == svgraster.UserSpaceOnUse {
			half = doc.referenceLength(diagonal) / 2
		}
		cx := coord("cx", half, horizontal)
		cy := coord("cy", half, vertical)
		r := coord("r", half, diagonal)
		if r <= 0 {
			return nil
		}
		g.Direction = svgraster.Radial{
			cx, cy,
			coord("fx", cx, horizontal), coord("fy", cy, vertical),
			r, coord("fr", 0, diagonal),
		}
	}
	g.Prepare(bounds)
	return g
}

// gradientAttr looks the attribute up on the gradient element, then
// along its href chain.
func gradientAttr(el Element, name string, depth int) (string, bool) {
	if el.IsNull() || depth > maxUseDepth {
		return "", false
	}
	if v, ok := el.Attribute(name); ok {
		return v, true
	}
	return gradientAttr(el.resolveHref(), name, depth+1)
}

// gradientStops reads the stop children, following href when the
// element has none of its own. Offsets clamp to [0, 1] and never
// decrease.
func (doc *Document) gradientStops(el Element, depth int) []svgraster.GradStop {
	if el.IsNull() || depth > maxUseDepth {
		return nil
	}
	var stops []svgraster.GradStop
	prev := 0.0
	for _, c := range el.childElements() {
		if c.TagName() != "stop" {
			continue
		}
		offset := 0.0
		if v, ok := c.Attribute("offset"); ok {
			if l, lok := svgstyle.ParseLength(v); lok {
				offset = l.Value
				if l.Unit == svgstyle.UnitPercent {
					offset = l.Value / 100
				}
			}
		}
		offset = math.Max(prev, math.Min(1, math.Max(0, offset)))
		prev = offset

		style := c.data().style
		stopColor := color.NRGBA{A: 0xff}
		opacity := 1.0
		if style != nil {
			if col, ok := svgstyle.ParseColor(style.Get(svgstyle.StopColor)); ok {
				stopColor = col
			}
			if v, ok := svgstyle.ParseOpacity(style.Get(svgstyle.StopOpacity)); ok {
				opacity = v
			}
		}
		stops = append(stops, svgraster.GradStop{Color: stopColor, Offset: offset, Opacity: opacity})
	}
	if len(stops) == 0 {
		return doc.gradientStops(el.resolveHref(), depth+1)
	}
	return stops
}
