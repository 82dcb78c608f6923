package svgstyle

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// LengthUnit tags the unit a length value was written in.
type LengthUnit uint8

const (
	UnitNumber LengthUnit = iota // unitless user units
	UnitPx
	UnitPercent
	UnitEm
	UnitEx
	UnitPt
	UnitPc
	UnitCm
	UnitMm
	UnitIn
)

// Length is a parsed numeric value with its unit. Absolute units are
// converted to user units at resolve time; percentages need a
// reference length from the caller.
type Length struct {
	Value float64
	Unit  LengthUnit
}

var unitSuffixes = []struct {
	suffix string
	unit   LengthUnit
}{
	{"px", UnitPx}, {"pt", UnitPt}, {"pc", UnitPc},
	{"cm", UnitCm}, {"mm", UnitMm}, {"in", UnitIn},
	{"em", UnitEm}, {"ex", UnitEx}, {"%", UnitPercent},
}

// ParseLength parses a CSS length. Malformed input returns ok=false;
// callers fall back to the property's previous or initial value.
func ParseLength(s string) (Length, bool) {
	s = strings.TrimSpace(s)
	unit := UnitNumber
	for _, u := range unitSuffixes {
		if strings.HasSuffix(s, u.suffix) {
			unit = u.unit
			s = s[:len(s)-len(u.suffix)]
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: v, Unit: unit}, true
}

// Resolve converts the length to user units. reference resolves
// percentages; fontSize resolves em and ex.
func (l Length) Resolve(reference, fontSize float64) float64 {
	const dpi = 96
	switch l.Unit {
	case UnitPercent:
		return l.Value / 100 * reference
	case UnitEm:
		return l.Value * fontSize
	case UnitEx:
		return l.Value * fontSize / 2
	case UnitPt:
		return l.Value * dpi / 72
	case UnitPc:
		return l.Value * dpi / 6
	case UnitCm:
		return l.Value * dpi / 2.54
	case UnitMm:
		return l.Value * dpi / 25.4
	case UnitIn:
		return l.Value * dpi
	default:
		return l.Value
	}
}

// ParseNumber parses a plain float, ok=false on malformed input.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseOpacity parses an opacity value, accepting the percentage form,
// and clamps the result to [0, 1].
func ParseOpacity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	if pct {
		s = strings.TrimSpace(s[:len(s)-1])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1, false
	}
	if pct {
		v /= 100
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return v, true
}

// PaintKind discriminates the forms a fill or stroke value can take.
type PaintKind uint8

const (
	PaintNone PaintKind = iota
	PaintColor
	PaintCurrentColor
	PaintRef // url(#id), with an optional fallback color
)

// PaintValue is a parsed fill or stroke.
type PaintValue struct {
	Kind     PaintKind
	Color    color.NRGBA
	Ref      string // fragment id for PaintRef
	Fallback *color.NRGBA
}

// ParsePaint parses a paint value. Unrecognized input is treated as
// none so a single bad declaration cannot take the whole element down.
func ParsePaint(s string) PaintValue {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "none":
		return PaintValue{Kind: PaintNone}
	case s == "currentColor":
		return PaintValue{Kind: PaintCurrentColor}
	case strings.HasPrefix(s, "url("):
		end := strings.IndexByte(s, ')')
		if end < 0 {
			return PaintValue{Kind: PaintNone}
		}
		ref := strings.Trim(s[4:end], " \t'\"")
		ref = strings.TrimPrefix(ref, "#")
		pv := PaintValue{Kind: PaintRef, Ref: ref}
		if rest := strings.TrimSpace(s[end+1:]); rest != "" && rest != "none" {
			if c, ok := ParseColor(rest); ok {
				pv.Fallback = &c
			}
		}
		return pv
	default:
		c, ok := ParseColor(s)
		if !ok {
			return PaintValue{Kind: PaintNone}
		}
		return PaintValue{Kind: PaintColor, Color: c}
	}
}

// ParseColor parses the color forms used by SVG documents: named
// colors, #rgb, #rrggbb, #rrggbbaa, rgb() and rgba(), plus the
// transparent keyword.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, false
	}
	if s[0] == '#' {
		return parseHexColor(s[1:])
	}
	lower := strings.ToLower(s)
	if lower == "transparent" {
		return color.NRGBA{}, true
	}
	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		return parseRGBFunc(s)
	}
	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return color.NRGBA{}, false
}

func parseHexColor(hex string) (color.NRGBA, bool) {
	parse := func(s string) (uint8, bool) {
		v, err := strconv.ParseUint(s, 16, 8)
		return uint8(v), err == nil
	}
	switch len(hex) {
	case 3:
		r, ok1 := parse(hex[0:1] + hex[0:1])
		g, ok2 := parse(hex[1:2] + hex[1:2])
		b, ok3 := parse(hex[2:3] + hex[2:3])
		if ok1 && ok2 && ok3 {
			return color.NRGBA{R: r, G: g, B: b, A: 0xff}, true
		}
	case 6, 8:
		r, ok1 := parse(hex[0:2])
		g, ok2 := parse(hex[2:4])
		b, ok3 := parse(hex[4:6])
		a, ok4 := uint8(0xff), true
		if len(hex) == 8 {
			a, ok4 = parse(hex[6:8])
		}
		if ok1 && ok2 && ok3 && ok4 {
			return color.NRGBA{R: r, G: g, B: b, A: a}, true
		}
	}
	return color.NRGBA{}, false
}

func parseRGBFunc(s string) (color.NRGBA, bool) {
	open := strings.IndexByte(s, '(')
	close_ := strings.LastIndexByte(s, ')')
	if open < 0 || close_ < open {
		return color.NRGBA{}, false
	}
	parts := strings.FieldsFunc(s[open+1:close_], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, false
	}
	channel := func(p string) (uint8, bool) {
		p = strings.TrimSpace(p)
		if strings.HasSuffix(p, "%") {
			v, err := strconv.ParseFloat(p[:len(p)-1], 64)
			if err != nil {
				return 0, false
			}
			return clamp8(v / 100 * 255), true
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return clamp8(v), true
	}
	r, ok1 := channel(parts[0])
	g, ok2 := channel(parts[1])
	b, ok3 := channel(parts[2])
	if !ok1 || !ok2 || !ok3 {
		return color.NRGBA{}, false
	}
	a := uint8(0xff)
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		a = clamp8(v * 255)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, true
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// ParseDashArray parses a dash pattern. The none keyword and patterns
// with any negative entry yield a nil slice (solid stroke).
func ParseDashArray(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	dashes := make([]float64, 0, len(fields))
	sum := 0.0
	for _, f := range fields {
		l, ok := ParseLength(f)
		if !ok {
			return nil
		}
		v := l.Resolve(0, 16)
		if v < 0 {
			return nil
		}
		dashes = append(dashes, v)
		sum += v
	}
	if sum == 0 {
		return nil
	}
	return dashes
}

// ParseURLRef extracts the fragment id from a url(#id) value; ok is
// false for none or malformed input.
func ParseURLRef(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "url(") {
		return "", false
	}
	end := strings.IndexByte(s, ')')
	if end < 0 {
		return "", false
	}
	ref := strings.Trim(s[4:end], " \t'\"")
	ref = strings.TrimPrefix(ref, "#")
	if ref == "" {
		return "", false
	}
	return ref, true
}
