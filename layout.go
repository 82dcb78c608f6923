package novasvg

import (
	"image/color"
	"math"
	"strings"

	"github.com/MohammadRaziei/novasvg/svggeom"
	"github.com/MohammadRaziei/novasvg/svgraster"
	"github.com/MohammadRaziei/novasvg/svgstyle"
)

// layout computes per-element matrices and geometry. Runs after the
// cascade; text geometry reads computed font properties.
func (doc *Document) layout() {
	if doc.root == nullIndex {
		return
	}
	var walk func(idx int, parentGlobal svggeom.Matrix)
	walk = func(idx int, parentGlobal svggeom.Matrix) {
		d := &doc.nodes[idx]
		if d.kind != elementNode {
			return
		}
		e := Element{Node{doc, idx}}

		local := svggeom.Identity
		if idx == doc.root {
			local = doc.viewBoxMatrix()
		} else if v, ok := e.Attribute("transform"); ok {
			if m, err := parseTransform(v); err == nil {
				local = m
			}
		}
		d.localMatrix = local
		d.globalMatrix = parentGlobal.Mult(local)

		d.path = nil
		if renderableTag(d.tag) {
			d.path = e.buildGeometry()
		}
		for _, c := range d.children {
			walk(c, d.globalMatrix)
		}
	}
	walk(doc.root, svggeom.Identity)
}

// GetLocalMatrix returns the element's own transform.
func (e Element) GetLocalMatrix() svggeom.Matrix {
	if e.IsNull() {
		return svggeom.Identity
	}
	e.doc.UpdateLayout()
	return e.data().localMatrix
}

// GetGlobalMatrix returns the element's transform composed with its
// ancestors', mapping local user units to document coordinates.
func (e Element) GetGlobalMatrix() svggeom.Matrix {
	if e.IsNull() {
		return svggeom.Identity
	}
	e.doc.UpdateLayout()
	return e.data().globalMatrix
}

// GetLocalBoundingBox returns the bounds of the element's geometry and
// its subtree in the element's own coordinate space.
func (e Element) GetLocalBoundingBox() svggeom.Box {
	if e.IsNull() {
		return svggeom.Box{}
	}
	e.doc.UpdateLayout()
	return e.doc.subtreeBounds(e.idx, svggeom.Identity)
}

// GetGlobalBoundingBox returns the subtree bounds in document
// coordinates.
func (e Element) GetGlobalBoundingBox() svggeom.Box {
	if e.IsNull() {
		return svggeom.Box{}
	}
	e.doc.UpdateLayout()
	d := e.data()
	parentGlobal := svggeom.Identity
	if p := e.ParentElement(); !p.IsNull() {
		parentGlobal = p.data().globalMatrix
	}
	return e.doc.subtreeBounds(e.idx, parentGlobal.Mult(d.localMatrix))
}

// subtreeBounds unions geometry bounds over the subtree, mapping each
// element through the accumulated matrix. defs subtrees contribute
// nothing; use references contribute the referenced subtree.
func (doc *Document) subtreeBounds(idx int, m svggeom.Matrix) svggeom.Box {
	d := &doc.nodes[idx]
	if d.kind != elementNode || d.tag == "defs" || d.tag == "style" {
		return svggeom.Box{}
	}
	var box svggeom.Box
	if len(d.path) > 0 {
		box = d.path.Bounds().Transformed(m)
	}
	if d.tag == "use" {
		e := Element{Node{doc, idx}}
		if ref := e.resolveHref(); !ref.IsNull() {
			shift := svggeom.Translated(
				e.lengthAttr("x", horizontal, 0),
				e.lengthAttr("y", vertical, 0))
			sub := m.Mult(shift).Mult(ref.data().localMatrix)
			box = box.Union(doc.subtreeBounds(ref.idx, sub))
		}
	}
	for _, c := range d.children {
		if doc.nodes[c].kind != elementNode {
			continue
		}
		box = box.Union(doc.subtreeBounds(c, m.Mult(doc.nodes[c].localMatrix)))
	}
	return box
}

// resolveHref returns the element referenced by href, null when the
// reference is absent or dangling.
func (e Element) resolveHref() Element {
	v, ok := e.Attribute("href")
	if !ok {
		return Element{}
	}
	id := strings.TrimPrefix(strings.TrimSpace(v), "#")
	ref := e.doc.GetElementByID(id)
	if ref.idx == e.idx {
		return Element{}
	}
	return ref
}

// hitTest reports whether the document-space point falls inside the
// element's filled geometry.
func (e Element) hitTest(x, y float64) bool {
	d := e.data()
	if len(d.path) == 0 || d.style == nil {
		return false
	}
	if d.style.Get(svgstyle.Display) == "none" ||
		d.style.Get(svgstyle.Visibility) == "hidden" {
		return false
	}
	inv, ok := d.globalMatrix.Invert()
	if !ok {
		return false
	}
	lx, ly := inv.TransformPoint(x, y)
	evenOdd := d.style.Get(svgstyle.FillRule) == "evenodd"
	return d.path.Contains(lx, ly, evenOdd)
}

// Render draws the element's subtree into the bitmap with the given
// transform applied on top of the element's local matrix.
func (e Element) Render(bitmap *svgraster.Bitmap, matrix svggeom.Matrix) {
	if e.IsNull() || bitmap.IsNull() {
		return
	}
	e.doc.UpdateLayout()
	state := renderState{
		matrix:  matrix,
		opacity: 1,
		filler:  svgraster.NewFiller(),
	}
	e.doc.renderElement(bitmap, e.idx, state)
}

// RenderToBitmap rasterizes the element's subtree alone, sized to its
// local bounding box scaled to the requested dimensions.
func (e Element) RenderToBitmap(width, height int, background color.Color) *svgraster.Bitmap {
	if e.IsNull() {
		return &svgraster.Bitmap{}
	}
	e.doc.UpdateLayout()
	box := e.GetLocalBoundingBox()
	if box.IsEmpty() {
		return svgraster.NewBitmap(0, 0)
	}
	switch {
	case width <= 0 && height <= 0:
		width = int(math.Ceil(box.W))
		height = int(math.Ceil(box.H))
	case width <= 0:
		width = int(math.Ceil(float64(height) * box.W / box.H))
	case height <= 0:
		height = int(math.Ceil(float64(width) * box.H / box.W))
	}
	bitmap := svgraster.NewBitmap(width, height)
	if bitmap.IsNull() {
		return bitmap
	}
	if background != nil {
		bitmap.Clear(background)
	}
	m := svggeom.Scaled(float64(width)/box.W, float64(height)/box.H).
		Translate(-box.X, -box.Y)
	e.Render(bitmap, m)
	return bitmap
}
