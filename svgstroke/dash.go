package svgstroke

import (
	"math"

	"github.com/MohammadRaziei/novasvg/svggeom"
)

// Dash segmentation: the flattened polyline is cut into drawn and gap
// runs before offsetting, cycling through the dash pattern. An odd
// pattern is repeated twice, per the SVG rules.

// dashable reports whether the pattern actually produces dashes: at
// least one positive entry and no negative one.
func dashable(dash []float64) bool {
	positive := false
	for _, d := range dash {
		if d < 0 {
			return false
		}
		if d > 0 {
			positive = true
		}
	}
	return positive
}

type dashState struct {
	pattern []float64
	index   int
	left    float64 // remaining length of the current pattern entry
	drawing bool
}

func newDashState(dash []float64, offset float64) *dashState {
	pattern := dash
	if len(pattern)%2 == 1 {
		pattern = append(append([]float64{}, dash...), dash...)
	}
	total := 0.0
	for _, d := range pattern {
		total += d
	}
	s := &dashState{pattern: pattern, drawing: true, left: pattern[0]}
	if total <= 0 {
		return s
	}
	// consume the starting offset, wrapped into one pattern period
	phase := math.Mod(offset, total)
	if phase < 0 {
		phase += total
	}
	for phase > 0 {
		if phase < s.left {
			s.left -= phase
			break
		}
		phase -= s.left
		s.advance()
	}
	return s
}

func (s *dashState) advance() {
	s.index = (s.index + 1) % len(s.pattern)
	s.left = s.pattern[s.index]
	s.drawing = !s.drawing
	// skip zero-length entries, keeping the draw/gap alternation
	for s.left == 0 {
		s.index = (s.index + 1) % len(s.pattern)
		s.left = s.pattern[s.index]
		s.drawing = !s.drawing
	}
}

// dashPolyline cuts the polyline into drawn runs. A closed source
// outline is walked with its closing segment appended first.
func dashPolyline(pts []svggeom.Point, closed bool, dash []float64, offset float64) [][]svggeom.Point {
	if len(pts) < 2 {
		return nil
	}
	if closed && pts[0] != pts[len(pts)-1] {
		pts = append(append([]svggeom.Point{}, pts...), pts[0])
	}
	s := newDashState(dash, offset)
	var runs [][]svggeom.Point
	var run []svggeom.Point
	if s.drawing {
		run = append(run, pts[0])
	}
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		segLen := b.Sub(a).Length()
		pos := 0.0
		for segLen-pos > s.left {
			pos += s.left
			cut := a.Lerp(b, pos/segLen)
			if s.drawing {
				run = append(run, cut)
				runs = append(runs, run)
				run = nil
			} else {
				run = append(run, cut)
			}
			s.advance()
		}
		s.left -= segLen - pos
		if s.drawing {
			run = append(run, b)
		}
	}
	if len(run) > 1 {
		runs = append(runs, run)
	}
	return runs
}
