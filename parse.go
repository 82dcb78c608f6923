package novasvg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/MohammadRaziei/novasvg/svggeom"
	"github.com/MohammadRaziei/novasvg/svgstyle"
)

var errParamMismatch = errors.New("novasvg: transform parameter mismatch")

// parse runs the XML token loop and fills the node arena. Only the
// first svg element opens a tree; anything before it is skipped and
// anything that is not well formed XML aborts the load.
func (doc *Document) parse(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	stack := []int{}
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		switch se := t.(type) {
		case xml.StartElement:
			if doc.root == nullIndex && se.Name.Local != "svg" {
				return errInvalidDocument
			}
			idx := doc.appendNode(nodeData{
				kind:   elementNode,
				tag:    se.Name.Local,
				attrs:  convertAttrs(se.Attr),
				parent: nullIndex,
			}, stack)
			if doc.root == nullIndex {
				doc.root = idx
			}
			stack = append(stack, idx)
		case xml.EndElement:
			if len(stack) == 0 {
				return errInvalidDocument
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				// content after the root element is ignored
				return nil
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := string(se)
			if strings.TrimSpace(text) == "" {
				continue
			}
			doc.appendNode(nodeData{
				kind:   textNode,
				text:   text,
				parent: nullIndex,
			}, stack)
		}
	}
	if len(stack) != 0 {
		return errInvalidDocument
	}
	return nil
}

func (doc *Document) appendNode(d nodeData, stack []int) int {
	idx := len(doc.nodes)
	if len(stack) > 0 {
		parent := stack[len(stack)-1]
		d.parent = parent
		doc.nodes = append(doc.nodes, d)
		doc.nodes[parent].children = append(doc.nodes[parent].children, idx)
	} else {
		doc.nodes = append(doc.nodes, d)
	}
	return idx
}

func convertAttrs(attrs []xml.Attr) []attribute {
	out := make([]attribute, 0, len(attrs))
	for _, a := range attrs {
		name := a.Name.Local
		// xlink:href and href address the same references
		if a.Name.Space != "" && name != "href" {
			continue
		}
		out = append(out, attribute{Name: name, Value: a.Value})
	}
	return out
}

// collectStyleElements feeds the text of every style element to the
// document sheet, in document order.
func (doc *Document) collectStyleElements() {
	for i := range doc.nodes {
		if doc.nodes[i].kind != elementNode || doc.nodes[i].tag != "style" {
			continue
		}
		css := Element{Node{doc, i}}.TextContent()
		if strings.TrimSpace(css) == "" {
			continue
		}
		if err := doc.sheet.Parse(css); err != nil {
			// a broken sheet does not take down the document
			continue
		}
	}
}

// resolveViewport computes the intrinsic size from the root's width,
// height and viewBox attributes.
func (doc *Document) resolveViewport() {
	const defaultWidth, defaultHeight = 300, 150
	root := doc.DocumentElement()
	if root.IsNull() {
		return
	}

	doc.hasViewBox = false
	if vb, ok := root.Attribute("viewBox"); ok {
		pts := readNumberList(vb)
		if len(pts) == 4 && pts[2] > 0 && pts[3] > 0 {
			doc.viewBox = svggeom.Box{X: pts[0], Y: pts[1], W: pts[2], H: pts[3]}
			doc.hasViewBox = true
		}
	}

	size := func(attr string, vbSide, fallback float64) float64 {
		v, ok := root.Attribute(attr)
		if !ok {
			if doc.hasViewBox {
				return vbSide
			}
			return fallback
		}
		l, ok := svgstyle.ParseLength(v)
		if !ok {
			return fallback
		}
		if l.Unit == svgstyle.UnitPercent {
			if doc.hasViewBox {
				return l.Value / 100 * vbSide
			}
			return fallback
		}
		return l.Resolve(0, 16)
	}
	doc.width = size("width", doc.viewBox.W, defaultWidth)
	doc.height = size("height", doc.viewBox.H, defaultHeight)
}

// viewBoxMatrix maps viewBox coordinates onto the intrinsic viewport.
func (doc *Document) viewBoxMatrix() svggeom.Matrix {
	if !doc.hasViewBox {
		return svggeom.Identity
	}
	return svggeom.Scaled(doc.width/doc.viewBox.W, doc.height/doc.viewBox.H).
		Translate(-doc.viewBox.X, -doc.viewBox.Y)
}

// readNumberList scans whitespace or comma separated floats, stopping
// at the first malformed entry.
func readNumberList(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out
		}
		out = append(out, v)
	}
	return out
}

// parseTransform parses a transform attribute into a matrix. Transform
// functions apply left to right; a malformed function invalidates the
// whole list.
func parseTransform(v string) (svggeom.Matrix, error) {
	m := svggeom.Identity
	for _, t := range strings.Split(v, ")") {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return svggeom.Identity, errParamMismatch
		}
		points := readNumberList(d[1])
		var err error
		m, err = applyTransformFunc(m, strings.ToLower(strings.TrimSpace(d[0])), points)
		if err != nil {
			return svggeom.Identity, err
		}
	}
	return m, nil
}

func applyTransformFunc(m svggeom.Matrix, name string, pts []float64) (svggeom.Matrix, error) {
	switch name {
	case "translate":
		switch len(pts) {
		case 1:
			return m.Translate(pts[0], 0), nil
		case 2:
			return m.Translate(pts[0], pts[1]), nil
		}
	case "scale":
		switch len(pts) {
		case 1:
			return m.Scale(pts[0], pts[0]), nil
		case 2:
			return m.Scale(pts[0], pts[1]), nil
		}
	case "rotate":
		switch len(pts) {
		case 1:
			return m.Rotate(pts[0] * math.Pi / 180), nil
		case 3:
			return m.Translate(pts[1], pts[2]).
				Rotate(pts[0] * math.Pi / 180).
				Translate(-pts[1], -pts[2]), nil
		}
	case "skewx":
		if len(pts) == 1 {
			return m.SkewX(pts[0] * math.Pi / 180), nil
		}
	case "skewy":
		if len(pts) == 1 {
			return m.SkewY(pts[0] * math.Pi / 180), nil
		}
	case "matrix":
		if len(pts) == 6 {
			return m.Mult(svggeom.Matrix{
				A: pts[0], B: pts[1], C: pts[2],
				D: pts[3], E: pts[4], F: pts[5],
			}), nil
		}
	}
	return m, errParamMismatch
}
