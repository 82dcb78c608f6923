package svgtext

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/MohammadRaziei/novasvg/svggeom"
)

// Anchor positions a text run relative to its origin.
type Anchor uint8

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Outline converts a text run into a filled path. The origin is the
// baseline start point in user units; glyphs advance along +x and the
// returned path uses the usual y-down convention, so ascenders sit at
// negative offsets from the baseline.
func (f *Face) Outline(text string, size, x, y float64, anchor Anchor) svggeom.Path {
	if f == nil || size <= 0 || text == "" {
		return nil
	}
	switch anchor {
	case AnchorMiddle:
		x -= f.Advance(text, size) / 2
	case AnchorEnd:
		x -= f.Advance(text, size)
	}

	var buf sfnt.Buffer
	// load at one 26.6 unit per font unit, then scale to user units
	ppem := fixed.I(int(f.font.UnitsPerEm()))
	scale := size / f.unitsPerEm

	var path svggeom.Path
	pen := x
	prev := sfnt.GlyphIndex(0)
	for i, r := range text {
		gi, err := f.font.GlyphIndex(&buf, r)
		if err != nil || gi == 0 {
			prev = 0
			continue
		}
		if i > 0 && prev != 0 {
			if kern, err := f.font.Kern(&buf, prev, gi, ppem, font.HintingNone); err == nil {
				pen += fixedToUser(kern, scale)
			}
		}
		segs, err := f.font.LoadGlyph(&buf, gi, ppem, nil)
		if err == nil {
			appendGlyph(&path, segs, pen, y, scale)
		}
		if adv, err := f.font.GlyphAdvance(&buf, gi, ppem, font.HintingNone); err == nil {
			pen += fixedToUser(adv, scale)
		}
		prev = gi
	}
	return path
}

// Advance returns the width of the run in user units.
func (f *Face) Advance(text string, size float64) float64 {
	if f == nil || size <= 0 {
		return 0
	}
	var buf sfnt.Buffer
	ppem := fixed.I(int(f.font.UnitsPerEm()))
	scale := size / f.unitsPerEm
	total := 0.0
	prev := sfnt.GlyphIndex(0)
	for i, r := range text {
		gi, err := f.font.GlyphIndex(&buf, r)
		if err != nil || gi == 0 {
			prev = 0
			continue
		}
		if i > 0 && prev != 0 {
			if kern, err := f.font.Kern(&buf, prev, gi, ppem, font.HintingNone); err == nil {
				total += fixedToUser(kern, scale)
			}
		}
		if adv, err := f.font.GlyphAdvance(&buf, gi, ppem, font.HintingNone); err == nil {
			total += fixedToUser(adv, scale)
		}
		prev = gi
	}
	return total
}

func appendGlyph(path *svggeom.Path, segs sfnt.Segments, dx, dy, scale float64) {
	pt := func(p fixed.Point26_6) svggeom.Point {
		return svggeom.Point{
			X: dx + fixedToUser(p.X, scale),
			Y: dy + fixedToUser(p.Y, scale),
		}
	}
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				path.Stop(true)
			}
			path.Start(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			path.Line(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			path.QuadBezier(pt(seg.Args[0]), pt(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			path.CubeBezier(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
		}
	}
	if open {
		path.Stop(true)
	}
}

func fixedToUser(v fixed.Int26_6, scale float64) float64 {
	return float64(v) / 64 * scale
}
