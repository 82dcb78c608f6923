// Package novasvg loads SVG documents into a queryable element tree
// and renders them into premultiplied RGBA bitmaps. Geometry, style
// resolution, stroking and rasterization live in the sub-packages;
// this package owns the document model and the render orchestration.
package novasvg

import (
	"strings"

	"github.com/MohammadRaziei/novasvg/svggeom"
	"github.com/MohammadRaziei/novasvg/svgstyle"
)

type nodeKind uint8

const (
	elementNode nodeKind = iota
	textNode
)

type attribute struct {
	Name, Value string
}

// nodeData is the arena entry backing one tree node. Nodes are
// addressed by index so handles stay valid across appends.
type nodeData struct {
	kind     nodeKind
	tag      string
	attrs    []attribute
	text     string
	parent   int
	children []int

	// filled by the cascade and layout passes
	style        *svgstyle.ComputedStyle
	localMatrix  svggeom.Matrix
	globalMatrix svggeom.Matrix
	path         svggeom.Path
}

const nullIndex = -1

// Node is a handle to any tree node. The zero Node is null; handles to
// the same node compare equal with ==.
type Node struct {
	doc *Document
	idx int
}

// Element is a handle to an element node.
type Element struct {
	Node
}

// TextNode is a handle to a character-data node.
type TextNode struct {
	Node
}

// IsNull reports whether the handle refers to no node.
func (n Node) IsNull() bool { return n.doc == nil }

// IsElement reports whether the node is an element.
func (n Node) IsElement() bool {
	return !n.IsNull() && n.data().kind == elementNode
}

// IsTextNode reports whether the node holds character data.
func (n Node) IsTextNode() bool {
	return !n.IsNull() && n.data().kind == textNode
}

// ToElement converts the handle; the result is null when the node is
// not an element.
func (n Node) ToElement() Element {
	if !n.IsElement() {
		return Element{}
	}
	return Element{n}
}

// ToTextNode converts the handle; the result is null when the node is
// not a text node.
func (n Node) ToTextNode() TextNode {
	if !n.IsTextNode() {
		return TextNode{}
	}
	return TextNode{n}
}

// ParentElement returns the closest element ancestor, or a null
// element at the tree root.
func (n Node) ParentElement() Element {
	if n.IsNull() {
		return Element{}
	}
	p := n.data().parent
	for p != nullIndex {
		if n.doc.nodes[p].kind == elementNode {
			return Element{Node{n.doc, p}}
		}
		p = n.doc.nodes[p].parent
	}
	return Element{}
}

func (n Node) data() *nodeData { return &n.doc.nodes[n.idx] }

// Data returns the node's character data.
func (t TextNode) Data() string {
	if t.IsNull() {
		return ""
	}
	return t.data().text
}

// SetData replaces the node's character data.
func (t TextNode) SetData(text string) {
	if t.IsNull() {
		return
	}
	t.data().text = text
	t.doc.invalidate()
}

// TagName returns the element's local tag name.
func (e Element) TagName() string {
	if e.IsNull() {
		return ""
	}
	return e.data().tag
}

// ID returns the value of the id attribute.
func (e Element) ID() string {
	v, _ := e.Attribute("id")
	return v
}

// HasClass reports whether the class attribute contains the given
// class.
func (e Element) HasClass(class string) bool {
	v, ok := e.Attribute("class")
	if !ok {
		return false
	}
	for _, f := range strings.Fields(v) {
		if f == class {
			return true
		}
	}
	return false
}

// Attribute returns the raw attribute value and whether it is present.
func (e Element) Attribute(name string) (string, bool) {
	if e.IsNull() {
		return "", false
	}
	for _, a := range e.data().attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (e Element) HasAttribute(name string) bool {
	_, ok := e.Attribute(name)
	return ok
}

// GetAttribute returns the attribute value, empty when absent.
func (e Element) GetAttribute(name string) string {
	v, _ := e.Attribute(name)
	return v
}

// SetAttribute sets or replaces an attribute and invalidates the
// document's computed state. Attribute order is preserved; a new
// attribute appends.
func (e Element) SetAttribute(name, value string) {
	if e.IsNull() {
		return
	}
	d := e.data()
	for i := range d.attrs {
		if d.attrs[i].Name == name {
			d.attrs[i].Value = value
			e.doc.invalidate()
			return
		}
	}
	d.attrs = append(d.attrs, attribute{name, value})
	e.doc.invalidate()
}

// Children returns the element's child nodes in document order.
func (e Element) Children() []Node {
	if e.IsNull() {
		return nil
	}
	d := e.data()
	out := make([]Node, len(d.children))
	for i, c := range d.children {
		out[i] = Node{e.doc, c}
	}
	return out
}

// childElements yields element children only.
func (e Element) childElements() []Element {
	if e.IsNull() {
		return nil
	}
	var out []Element
	for _, c := range e.data().children {
		if e.doc.nodes[c].kind == elementNode {
			out = append(out, Element{Node{e.doc, c}})
		}
	}
	return out
}

// TextContent concatenates the character data of the element's
// descendants.
func (e Element) TextContent() string {
	if e.IsNull() {
		return ""
	}
	var sb strings.Builder
	var walk func(idx int)
	walk = func(idx int) {
		d := &e.doc.nodes[idx]
		if d.kind == textNode {
			sb.WriteString(d.text)
			return
		}
		for _, c := range d.children {
			walk(c)
		}
	}
	walk(e.idx)
	return sb.String()
}

// styleTarget adapts an element to the selector matcher.
type styleTarget struct{ e Element }

func (t styleTarget) TagName() string                 { return t.e.TagName() }
func (t styleTarget) ID() string                      { return t.e.ID() }
func (t styleTarget) HasClass(class string) bool      { return t.e.HasClass(class) }
func (t styleTarget) Attribute(s string) (string, bool) { return t.e.Attribute(s) }
