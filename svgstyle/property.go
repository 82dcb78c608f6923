// Package svgstyle implements the presentation side of the document
// model: typed properties with inheritance and initial values, the
// selector matching engine with specificity, and style-sheet parsing.
package svgstyle

// PropID identifies one presentation property.
type PropID uint8

const (
	Display PropID = iota
	Visibility
	Fill
	FillOpacity
	FillRule
	Stroke
	StrokeWidth
	StrokeOpacity
	StrokeLineCap
	StrokeLineJoin
	StrokeMiterLimit
	StrokeDashArray
	StrokeDashOffset
	Opacity
	Color
	StopColor
	StopOpacity
	FontFamily
	FontSize
	FontWeight
	FontStyle
	TextAnchor
	ClipPath
	ClipRule
	TransformProp
	numProperties
)

var propNames = [numProperties]string{
	Display:          "display",
	Visibility:       "visibility",
	Fill:             "fill",
	FillOpacity:      "fill-opacity",
	FillRule:         "fill-rule",
	Stroke:           "stroke",
	StrokeWidth:      "stroke-width",
	StrokeOpacity:    "stroke-opacity",
	StrokeLineCap:    "stroke-linecap",
	StrokeLineJoin:   "stroke-linejoin",
	StrokeMiterLimit: "stroke-miterlimit",
	StrokeDashArray:  "stroke-dasharray",
	StrokeDashOffset: "stroke-dashoffset",
	Opacity:          "opacity",
	Color:            "color",
	StopColor:        "stop-color",
	StopOpacity:      "stop-opacity",
	FontFamily:       "font-family",
	FontSize:         "font-size",
	FontWeight:       "font-weight",
	FontStyle:        "font-style",
	TextAnchor:       "text-anchor",
	ClipPath:         "clip-path",
	ClipRule:         "clip-rule",
	TransformProp:    "transform",
}

var propByName = func() map[string]PropID {
	m := make(map[string]PropID, numProperties)
	for id, name := range propNames {
		m[name] = PropID(id)
	}
	return m
}()

// inheritable properties copy the parent's computed value when
// unspecified; the rest fall back to their initial value
var inherited = [numProperties]bool{
	Visibility:       true,
	Fill:             true,
	FillOpacity:      true,
	FillRule:         true,
	Stroke:           true,
	StrokeWidth:      true,
	StrokeOpacity:    true,
	StrokeLineCap:    true,
	StrokeLineJoin:   true,
	StrokeMiterLimit: true,
	StrokeDashArray:  true,
	StrokeDashOffset: true,
	Color:            true,
	FontFamily:       true,
	FontSize:         true,
	FontWeight:       true,
	FontStyle:        true,
	TextAnchor:       true,
	ClipRule:         true,
}

var initialValues = [numProperties]string{
	Display:          "inline",
	Visibility:       "visible",
	Fill:             "black",
	FillOpacity:      "1",
	FillRule:         "nonzero",
	Stroke:           "none",
	StrokeWidth:      "1",
	StrokeOpacity:    "1",
	StrokeLineCap:    "butt",
	StrokeLineJoin:   "miter",
	StrokeMiterLimit: "4",
	StrokeDashArray:  "none",
	StrokeDashOffset: "0",
	Opacity:          "1",
	Color:            "black",
	StopColor:        "black",
	StopOpacity:      "1",
	FontFamily:       "",
	FontSize:         "16",
	FontWeight:       "normal",
	FontStyle:        "normal",
	TextAnchor:       "start",
	ClipPath:         "none",
	ClipRule:         "nonzero",
}

// Name returns the CSS name of the property.
func (id PropID) Name() string { return propNames[id] }

// Inherited reports whether the property inherits from the parent.
func (id PropID) Inherited() bool { return inherited[id] }

// Initial returns the property's initial (default) value.
func (id PropID) Initial() string { return initialValues[id] }

// LookupProp resolves a property name; ok is false for names outside
// the supported set.
func LookupProp(name string) (PropID, bool) {
	id, ok := propByName[name]
	return id, ok
}

// NumProperties is the size of dense per-element property tables.
const NumProperties = int(numProperties)

// Property is one cascaded value: the property identity, the specified
// value that won the cascade, and whether it arrived by inheritance.
type Property struct {
	ID        PropID
	Value     string
	Inherited bool
}

// ComputedStyle is the dense result of one cascade pass over an
// element: exactly one computed value per property.
type ComputedStyle struct {
	values [numProperties]string
	// set marks properties that were explicitly specified (not
	// inherited, not initial); used by gradients for href inheritance
	set [numProperties]bool
}

// Get returns the computed value of the property.
func (cs *ComputedStyle) Get(id PropID) string { return cs.values[id] }

// Explicit reports whether the property was specified on the element
// itself (by rule, inline style or presentation attribute).
func (cs *ComputedStyle) Explicit(id PropID) bool { return cs.set[id] }

// Resolve performs the cascade for one element, given the winning
// specified values and the parent's computed style (nil for the root).
// Precedence among specified values is decided by the caller; Resolve
// only applies inheritance and initial fallbacks, so re-running it for
// identical inputs is idempotent.
func Resolve(specified map[PropID]string, parent *ComputedStyle) *ComputedStyle {
	cs := &ComputedStyle{}
	for id := PropID(0); id < numProperties; id++ {
		if v, ok := specified[id]; ok && v != "inherit" {
			cs.values[id] = v
			cs.set[id] = true
			continue
		}
		_, wantInherit := specified[id] // explicit "inherit" keyword
		if (inherited[id] || wantInherit) && parent != nil {
			cs.values[id] = parent.values[id]
			continue
		}
		cs.values[id] = initialValues[id]
	}
	return cs
}
