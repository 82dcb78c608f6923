package svgraster

import (
	"errors"
	"math"
	"sort"

	"github.com/MohammadRaziei/novasvg/svggeom"
)

var errNullBitmap = errors.New("svgraster: null bitmap")

// FillRule maps edge-crossing counts to inside/outside.
type FillRule uint8

const (
	NonZeroWinding FillRule = iota
	EvenOdd
)

// Clip restricts the writable pixels of a fill. Rect is in device
// pixels; Mask, when non nil, is a per-pixel alpha buffer covering the
// whole destination bitmap (stride = bitmap width).
type Clip struct {
	Rect svggeom.Box
	Mask []uint8
}

// number of vertical subsamples per pixel row
const subsamples = 4

// edge is a monotonically descending segment in device space, with the
// original winding direction.
type edge struct {
	x0, y0, x1, y1 float64
	dir            int8
}

type crossing struct {
	x   float64
	dir int8
}

// Filler scan-converts paths into antialiased coverage and composites
// them onto a Bitmap. Its accumulation buffers are scoped to a single
// Fill call; a Filler itself may be reused across calls but not
// concurrently.
type Filler struct {
	edges     []edge
	crossings []crossing
	cover     []float64
}

// NewFiller returns an empty filler.
func NewFiller() *Filler { return &Filler{} }

// Fill scan-converts `path` transformed by `m` and composites
// paint × coverage onto dst with premultiplied "over" blending.
// Self-intersecting and zero-area paths are handled per the fill rule.
func (f *Filler) Fill(dst *Bitmap, path svggeom.Path, m svggeom.Matrix, rule FillRule, paint Paint, opacity float64, clip *Clip) {
	if dst.IsNull() || path.IsEmpty() || opacity <= 0 || paint == nil {
		return
	}
	defer f.release()

	device := path.Transform(m)
	f.buildEdges(device)
	if len(f.edges) == 0 {
		return
	}

	minY, maxY, minX, maxX := f.edgeBounds()
	y0, y1 := int(math.Floor(minY)), int(math.Ceil(maxY))
	x0, x1 := int(math.Floor(minX)), int(math.Ceil(maxX))
	if y0 < 0 {
		y0 = 0
	}
	if y1 > dst.height {
		y1 = dst.height
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > dst.width {
		x1 = dst.width
	}
	if clip != nil && !clip.Rect.IsEmpty() {
		if cy0 := int(math.Floor(clip.Rect.Y)); cy0 > y0 {
			y0 = cy0
		}
		if cy1 := int(math.Ceil(clip.Rect.Y + clip.Rect.H)); cy1 < y1 {
			y1 = cy1
		}
		if cx0 := int(math.Floor(clip.Rect.X)); cx0 > x0 {
			x0 = cx0
		}
		if cx1 := int(math.Ceil(clip.Rect.X + clip.Rect.W)); cx1 < x1 {
			x1 = cx1
		}
	}
	if y0 >= y1 || x0 >= x1 {
		return
	}

	if cap(f.cover) < dst.width {
		f.cover = make([]float64, dst.width)
	}
	f.cover = f.cover[:dst.width]

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.cover[x] = 0
		}
		covered := false
		for s := 0; s < subsamples; s++ {
			scanY := float64(y) + (float64(s)+0.5)/subsamples
			if f.scanline(scanY, rule, float64(x0), float64(x1)) {
				covered = true
			}
		}
		if covered {
			f.blendRow(dst, y, x0, x1, paint, opacity, clip)
		}
	}
}

// release drops per-call growth so a huge path does not pin memory.
func (f *Filler) release() {
	f.edges = f.edges[:0]
	f.crossings = f.crossings[:0]
	if cap(f.cover) > 1<<14 {
		f.cover = nil
	}
}

// buildEdges flattens the device-space path; every subpath is treated
// as closed for filling. Horizontal edges never produce crossings and
// are dropped.
func (f *Filler) buildEdges(device svggeom.Path) {
	for _, sub := range device.Flatten(0) {
		pts := sub.Points
		n := len(pts)
		if n < 2 {
			continue
		}
		for i := 0; i < n; i++ {
			a, b := pts[i], pts[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			if a.Y < b.Y {
				f.edges = append(f.edges, edge{a.X, a.Y, b.X, b.Y, 1})
			} else {
				f.edges = append(f.edges, edge{b.X, b.Y, a.X, a.Y, -1})
			}
		}
	}
}

func (f *Filler) edgeBounds() (minY, maxY, minX, maxX float64) {
	minY, maxY = math.Inf(1), math.Inf(-1)
	minX, maxX = math.Inf(1), math.Inf(-1)
	for _, e := range f.edges {
		minY = math.Min(minY, e.y0)
		maxY = math.Max(maxY, e.y1)
		minX = math.Min(minX, math.Min(e.x0, e.x1))
		maxX = math.Max(maxX, math.Max(e.x0, e.x1))
	}
	return
}

// scanline accumulates one subsample row of coverage into f.cover,
// reporting whether anything was covered.
func (f *Filler) scanline(scanY float64, rule FillRule, clampX0, clampX1 float64) bool {
	f.crossings = f.crossings[:0]
	for _, e := range f.edges {
		if scanY < e.y0 || scanY >= e.y1 {
			continue
		}
		x := e.x0 + (scanY-e.y0)*(e.x1-e.x0)/(e.y1-e.y0)
		f.crossings = append(f.crossings, crossing{x, e.dir})
	}
	if len(f.crossings) < 2 {
		return false
	}
	sort.Slice(f.crossings, func(i, j int) bool { return f.crossings[i].x < f.crossings[j].x })

	covered := false
	if rule == EvenOdd {
		for i := 0; i+1 < len(f.crossings); i += 2 {
			covered = f.addSpan(f.crossings[i].x, f.crossings[i+1].x, clampX0, clampX1) || covered
		}
		return covered
	}
	winding := 0
	spanStart := 0.0
	for _, c := range f.crossings {
		if winding == 0 {
			spanStart = c.x
		}
		winding += int(c.dir)
		if winding == 0 {
			covered = f.addSpan(spanStart, c.x, clampX0, clampX1) || covered
		}
	}
	return covered
}

// addSpan adds one subsample's coverage for the inside interval
// [xa, xb), splitting the fractional first and last pixels.
func (f *Filler) addSpan(xa, xb, clampX0, clampX1 float64) bool {
	if xa < clampX0 {
		xa = clampX0
	}
	if xb > clampX1 {
		xb = clampX1
	}
	if xb <= xa {
		return false
	}
	const w = 1.0 / subsamples
	ia, ib := int(xa), int(xb)
	if ia == ib {
		f.cover[ia] += (xb - xa) * w
		return true
	}
	f.cover[ia] += (float64(ia+1) - xa) * w
	for i := ia + 1; i < ib; i++ {
		f.cover[i] += w
	}
	if ib < len(f.cover) {
		f.cover[ib] += (xb - float64(ib)) * w
	}
	return true
}

// blendRow composites the accumulated coverage of row y using the
// paint, with premultiplied-alpha over blending.
func (f *Filler) blendRow(dst *Bitmap, y, x0, x1 int, paint Paint, opacity float64, clip *Clip) {
	row := dst.pix[y*dst.stride:]
	fy := float64(y) + 0.5
	solid, isSolid := paint.(PlainColor)
	fast := paint.opaque() && opacity >= 1
	for x := x0; x < x1; x++ {
		cov := f.cover[x]
		if cov <= 0 {
			continue
		}
		if cov > 1 {
			cov = 1
		}
		if clip != nil && clip.Mask != nil {
			cov *= float64(clip.Mask[y*dst.width+x]) / 255
			if cov <= 0 {
				continue
			}
		}
		src := solid.C
		if !isSolid {
			src = paint.at(float64(x)+0.5, fy)
		}
		if fast && cov >= 1 {
			i := x * 4
			row[i+0] = src.R
			row[i+1] = src.G
			row[i+2] = src.B
			row[i+3] = 0xff
			continue
		}
		ea := float64(src.A) / 255 * opacity * cov
		if ea <= 0 {
			continue
		}
		i := x * 4
		if ea >= 1 {
			row[i+0] = src.R
			row[i+1] = src.G
			row[i+2] = src.B
			row[i+3] = 0xff
			continue
		}
		inv := 1 - ea
		row[i+0] = uint8(float64(src.R)*ea + float64(row[i+0])*inv + 0.5)
		row[i+1] = uint8(float64(src.G)*ea + float64(row[i+1])*inv + 0.5)
		row[i+2] = uint8(float64(src.B)*ea + float64(row[i+2])*inv + 0.5)
		row[i+3] = uint8(255*ea + float64(row[i+3])*inv + 0.5)
	}
}

// RasterizeMask renders the path as an 8 bit coverage mask of the given
// size, used for clip-path regions. The returned buffer has
// width×height bytes.
func RasterizeMask(path svggeom.Path, m svggeom.Matrix, rule FillRule, width, height int) []uint8 {
	if width <= 0 || height <= 0 {
		return nil
	}
	tmp := NewBitmap(width, height)
	f := NewFiller()
	f.Fill(tmp, path, m, rule, NewPlainColor(0xff, 0xff, 0xff, 0xff), 1, nil)
	mask := make([]uint8, width*height)
	for i := 0; i < len(mask); i++ {
		mask[i] = tmp.pix[i*4+3]
	}
	return mask
}
