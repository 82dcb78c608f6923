package novasvg

import (
	"errors"
	"image/color"
	"math"
	"os"

	"github.com/MohammadRaziei/novasvg/svggeom"
	"github.com/MohammadRaziei/novasvg/svgraster"
	"github.com/MohammadRaziei/novasvg/svgstyle"
	"github.com/MohammadRaziei/novasvg/svgtext"
)

// Document is a parsed SVG tree plus its computed style and layout
// state. Style and layout are recomputed lazily: mutations bump a
// version counter and the next query or render catches up.
type Document struct {
	nodes []nodeData
	root  int

	width, height float64 // resolved viewport in user units
	viewBox       svggeom.Box
	hasViewBox    bool

	sheet svgstyle.StyleSheet
	fonts *svgtext.Registry

	version       uint64 // bumped on every mutation
	layoutVersion uint64 // version the cached layout was computed at
}

var errInvalidDocument = errors.New("novasvg: invalid svg document")

// LoadFromData parses an SVG document from markup. A document that
// cannot be parsed down to an svg root yields a nil Document and an
// error.
func LoadFromData(data []byte) (*Document, error) {
	doc := &Document{root: nullIndex, fonts: svgtext.Default()}
	if err := doc.parse(data); err != nil {
		return nil, err
	}
	if doc.root == nullIndex {
		return nil, errInvalidDocument
	}
	doc.collectStyleElements()
	doc.resolveViewport()
	doc.version = 1
	return doc, nil
}

// LoadFromFile reads and parses an SVG file.
func LoadFromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFromData(data)
}

// AddFontFace registers font data for text rendering, replacing any
// face already registered under the same family and style. It reports
// whether the data parsed as a usable font.
func AddFontFace(family string, bold, italic bool, data []byte) bool {
	return svgtext.Default().AddFace(family, bold, italic, data)
}

// DocumentElement returns the root svg element.
func (doc *Document) DocumentElement() Element {
	if doc == nil || doc.root == nullIndex {
		return Element{}
	}
	return Element{Node{doc, doc.root}}
}

// Width returns the intrinsic document width in user units.
func (doc *Document) Width() float64 { return doc.width }

// Height returns the intrinsic document height in user units.
func (doc *Document) Height() float64 { return doc.height }

// invalidate marks computed style and layout stale.
func (doc *Document) invalidate() { doc.version++ }

// UpdateLayout recomputes style and layout if anything changed since
// the last pass.
func (doc *Document) UpdateLayout() {
	if doc.layoutVersion == doc.version {
		return
	}
	doc.ForceLayout()
}

// ForceLayout recomputes style and layout unconditionally.
func (doc *Document) ForceLayout() {
	doc.resolveViewport()
	doc.cascade()
	doc.layout()
	doc.layoutVersion = doc.version
}

// ApplyStyleSheet parses a CSS sheet and appends its rules to the
// document's author rules. The error reports an unparseable sheet;
// individually malformed rules are skipped.
func (doc *Document) ApplyStyleSheet(css string) error {
	err := doc.sheet.Parse(css)
	doc.invalidate()
	return err
}

// GetElementByID returns the first element with the given id, null
// when absent.
func (doc *Document) GetElementByID(id string) Element {
	if id == "" {
		return Element{}
	}
	for i := range doc.nodes {
		if doc.nodes[i].kind != elementNode {
			continue
		}
		e := Element{Node{doc, i}}
		if e.ID() == id {
			return e
		}
	}
	return Element{}
}

// QuerySelectorAll returns the elements matching a comma-separated
// compound selector list, in document order. A malformed selector
// yields no matches.
func (doc *Document) QuerySelectorAll(selector string) []Element {
	sels, err := svgstyle.ParseSelectorList(selector)
	if err != nil {
		return nil
	}
	var out []Element
	for i := range doc.nodes {
		if doc.nodes[i].kind != elementNode {
			continue
		}
		e := Element{Node{doc, i}}
		for _, sel := range sels {
			if sel.Matches(styleTarget{e}) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// QuerySelector returns the first match of QuerySelectorAll.
func (doc *Document) QuerySelector(selector string) Element {
	all := doc.QuerySelectorAll(selector)
	if len(all) == 0 {
		return Element{}
	}
	return all[0]
}

// BoundingBox returns the untransformed union of the document's
// rendered geometry in document coordinates.
func (doc *Document) BoundingBox() svggeom.Box {
	doc.UpdateLayout()
	return doc.DocumentElement().GetGlobalBoundingBox()
}

// ElementFromPoint returns the topmost element whose rendered geometry
// contains the document-space point, null when nothing is hit.
func (doc *Document) ElementFromPoint(x, y float64) Element {
	doc.UpdateLayout()
	// reverse document order so later siblings, painted on top, win
	for i := len(doc.nodes) - 1; i >= 0; i-- {
		d := &doc.nodes[i]
		if d.kind != elementNode || !renderableTag(d.tag) {
			continue
		}
		e := Element{Node{doc, i}}
		if e.hitTest(x, y) {
			return e
		}
	}
	return Element{}
}

// RenderToBitmap rasterizes the document. Passing a non-positive width
// or height derives that side from the document's aspect ratio; when
// both are non-positive the intrinsic size is used. Invalid final
// dimensions yield a null bitmap.
func (doc *Document) RenderToBitmap(width, height int, background color.Color) *svgraster.Bitmap {
	doc.UpdateLayout()
	width, height = doc.resolveBitmapSize(width, height)
	bitmap := svgraster.NewBitmap(width, height)
	if bitmap.IsNull() {
		return bitmap
	}
	if background != nil {
		bitmap.Clear(background)
	}
	matrix := svggeom.Scaled(float64(width)/doc.width, float64(height)/doc.height)
	doc.render(bitmap, matrix)
	return bitmap
}

// Render draws the document into an existing bitmap with the given
// root transform.
func (doc *Document) Render(bitmap *svgraster.Bitmap, matrix svggeom.Matrix) {
	if bitmap.IsNull() {
		return
	}
	doc.UpdateLayout()
	doc.render(bitmap, matrix)
}

func (doc *Document) resolveBitmapSize(width, height int) (int, int) {
	if doc.width <= 0 || doc.height <= 0 {
		return 0, 0
	}
	switch {
	case width <= 0 && height <= 0:
		width = int(math.Ceil(doc.width))
		height = int(math.Ceil(doc.height))
	case width <= 0:
		width = int(math.Ceil(float64(height) * doc.width / doc.height))
	case height <= 0:
		height = int(math.Ceil(float64(width) * doc.height / doc.width))
	}
	return width, height
}
