package novasvg

import (
	"math"
	"strings"

	"github.com/MohammadRaziei/novasvg/svggeom"
	"github.com/MohammadRaziei/novasvg/svgstyle"
	"github.com/MohammadRaziei/novasvg/svgtext"
)

// lengthDir picks the viewport side a percentage resolves against.
type lengthDir uint8

const (
	horizontal lengthDir = iota
	vertical
	diagonal
)

// lengthAttr resolves a length attribute to user units, with
// percentages measured against the viewport.
func (e Element) lengthAttr(name string, dir lengthDir, def float64) float64 {
	v, ok := e.Attribute(name)
	if !ok {
		return def
	}
	l, ok := svgstyle.ParseLength(v)
	if !ok {
		return def
	}
	return l.Resolve(e.doc.referenceLength(dir), e.fontSize())
}

func (doc *Document) referenceLength(dir lengthDir) float64 {
	w, h := doc.width, doc.height
	if doc.hasViewBox {
		w, h = doc.viewBox.W, doc.viewBox.H
	}
	switch dir {
	case horizontal:
		return w
	case vertical:
		return h
	default:
		return math.Sqrt((w*w + h*h) / 2)
	}
}

func (e Element) fontSize() float64 {
	if e.IsNull() || e.data().style == nil {
		return 16
	}
	if v, ok := svgstyle.ParseLength(e.data().style.Get(svgstyle.FontSize)); ok {
		return v.Resolve(16, 16)
	}
	return 16
}

// renderableTag reports whether the tag produces geometry of its own.
func renderableTag(tag string) bool {
	switch tag {
	case "path", "rect", "circle", "ellipse", "line", "polyline", "polygon", "text":
		return true
	}
	return false
}

// buildGeometry fills the element's path in its local user space. The
// cascade must have run: text geometry depends on computed font
// properties.
func (e Element) buildGeometry() svggeom.Path {
	var p svggeom.Path
	switch e.TagName() {
	case "rect":
		w := e.lengthAttr("width", horizontal, 0)
		h := e.lengthAttr("height", vertical, 0)
		if w <= 0 || h <= 0 {
			return nil
		}
		x := e.lengthAttr("x", horizontal, 0)
		y := e.lengthAttr("y", vertical, 0)
		rx, hasRx := e.cornerRadius("rx", horizontal)
		ry, hasRy := e.cornerRadius("ry", vertical)
		// a single specified corner radius applies to both axes
		if hasRx && !hasRy {
			ry = rx
		} else if hasRy && !hasRx {
			rx = ry
		}
		if rx > 0 && ry > 0 {
			p.AddRoundRect(x, y, w, h, math.Min(rx, w/2), math.Min(ry, h/2))
		} else {
			p.AddRect(x, y, w, h)
		}
	case "circle":
		r := e.lengthAttr("r", diagonal, 0)
		if r <= 0 {
			return nil
		}
		p.AddEllipse(e.lengthAttr("cx", horizontal, 0), e.lengthAttr("cy", vertical, 0), r, r)
	case "ellipse":
		rx := e.lengthAttr("rx", horizontal, 0)
		ry := e.lengthAttr("ry", vertical, 0)
		if rx <= 0 || ry <= 0 {
			return nil
		}
		p.AddEllipse(e.lengthAttr("cx", horizontal, 0), e.lengthAttr("cy", vertical, 0), rx, ry)
	case "line":
		p.AddLine(
			e.lengthAttr("x1", horizontal, 0), e.lengthAttr("y1", vertical, 0),
			e.lengthAttr("x2", horizontal, 0), e.lengthAttr("y2", vertical, 0))
	case "polyline", "polygon":
		pts := readPoints(e.GetAttribute("points"))
		if len(pts) < 2 {
			return nil
		}
		p.AddPoly(pts, e.TagName() == "polygon")
	case "path":
		d, ok := e.Attribute("d")
		if !ok {
			return nil
		}
		// a parse error keeps the valid prefix
		p, _ = svggeom.ParsePathData(d)
	case "text":
		return e.buildTextGeometry()
	}
	return p
}

func (e Element) cornerRadius(name string, dir lengthDir) (float64, bool) {
	v, ok := e.Attribute(name)
	if !ok || strings.TrimSpace(v) == "auto" {
		return 0, false
	}
	l, ok := svgstyle.ParseLength(v)
	if !ok || l.Value < 0 {
		return 0, false
	}
	return l.Resolve(e.doc.referenceLength(dir), e.fontSize()), true
}

func (e Element) buildTextGeometry() svggeom.Path {
	text := strings.Join(strings.Fields(e.TextContent()), " ")
	if text == "" {
		return nil
	}
	style := e.data().style
	face := e.doc.fonts.Lookup(
		style.Get(svgstyle.FontFamily),
		fontWeightBold(style.Get(svgstyle.FontWeight)),
		style.Get(svgstyle.FontStyle) == "italic" || style.Get(svgstyle.FontStyle) == "oblique",
	)
	if face == nil {
		return nil
	}
	anchor := svgtext.AnchorStart
	switch style.Get(svgstyle.TextAnchor) {
	case "middle":
		anchor = svgtext.AnchorMiddle
	case "end":
		anchor = svgtext.AnchorEnd
	}
	x := e.lengthAttr("x", horizontal, 0)
	y := e.lengthAttr("y", vertical, 0)
	return face.Outline(text, e.fontSize(), x, y, anchor)
}

func fontWeightBold(w string) bool {
	switch w {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func readPoints(s string) []svggeom.Point {
	nums := readNumberList(s)
	pts := make([]svggeom.Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, svggeom.Point{X: nums[i], Y: nums[i+1]})
	}
	return pts
}
