package novasvg

import (
	"github.com/MohammadRaziei/novasvg/svgstyle"
)

// cascade computes one style per element, walking the tree top down so
// parents resolve before their children. Precedence per property, low
// to high: presentation attributes, author rules by ascending
// specificity then source order, the inline style attribute. Running
// the pass twice over unchanged inputs produces identical styles.
func (doc *Document) cascade() {
	if doc.root == nullIndex {
		return
	}
	var walk func(idx int, parent *svgstyle.ComputedStyle)
	walk = func(idx int, parent *svgstyle.ComputedStyle) {
		d := &doc.nodes[idx]
		if d.kind != elementNode {
			return
		}
		e := Element{Node{doc, idx}}
		specified := make(map[svgstyle.PropID]string)

		for _, a := range d.attrs {
			if id, ok := svgstyle.LookupProp(a.Name); ok && a.Name != "transform" {
				specified[id] = a.Value
			}
		}
		for _, p := range doc.sheet.MatchingDeclarations(styleTarget{e}) {
			specified[p.ID] = p.Value
		}
		if inline, ok := e.Attribute("style"); ok {
			for _, p := range svgstyle.ParseInline(inline) {
				specified[p.ID] = p.Value
			}
		}

		d.style = svgstyle.Resolve(specified, parent)
		for _, c := range d.children {
			walk(c, d.style)
		}
	}
	walk(doc.root, nil)
}

// computedStyle returns the element's cascaded style, resolving layout
// first when stale.
func (e Element) computedStyle() *svgstyle.ComputedStyle {
	if e.IsNull() {
		return nil
	}
	e.doc.UpdateLayout()
	return e.data().style
}

// ComputedValue returns the computed value of a presentation property
// by name; ok is false for unsupported property names.
func (e Element) ComputedValue(property string) (string, bool) {
	id, ok := svgstyle.LookupProp(property)
	if !ok {
		return "", false
	}
	cs := e.computedStyle()
	if cs == nil {
		return "", false
	}
	return cs.Get(id), true
}
