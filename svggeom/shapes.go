package svggeom

import "math"

// This file implements the transformation from high level shapes to
// their path equivalent.

// maxArcSpan is the maximum radians a cubic segment is allowed to span
// when approximating an elliptical arc.
const maxArcSpan = math.Pi / 8

// AddRect appends an axis-aligned rectangle outline.
func (p *Path) AddRect(x, y, w, h float64) {
	p.Start(Point{x, y})
	p.Line(Point{x + w, y})
	p.Line(Point{x + w, y + h})
	p.Line(Point{x, y + h})
	p.Stop(true)
}

// AddRoundRect appends a rectangle with corners rounded by quarter arcs
// of radii (rx, ry). Radii are clamped to half the rectangle size; non
// positive radii fall back to sharp corners.
func (p *Path) AddRoundRect(x, y, w, h, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.AddRect(x, y, w, h)
		return
	}
	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}
	// kappa scales a radius to the cubic control distance of a quarter arc
	const kappa = 0.5522847498307935
	cx, cy := rx*kappa, ry*kappa
	right, bottom := x+w, y+h

	p.Start(Point{x + rx, y})
	p.Line(Point{right - rx, y})
	p.CubeBezier(Point{right - rx + cx, y}, Point{right, y + ry - cy}, Point{right, y + ry})
	p.Line(Point{right, bottom - ry})
	p.CubeBezier(Point{right, bottom - ry + cy}, Point{right - rx + cx, bottom}, Point{right - rx, bottom})
	p.Line(Point{x + rx, bottom})
	p.CubeBezier(Point{x + rx - cx, bottom}, Point{x, bottom - ry + cy}, Point{x, bottom - ry})
	p.Line(Point{x, y + ry})
	p.CubeBezier(Point{x, y + ry - cy}, Point{x + rx - cx, y}, Point{x + rx, y})
	p.Stop(true)
}

// AddEllipse appends a closed ellipse centered on (cx, cy), approximated
// by four cubic segments.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	const kappa = 0.5522847498307935
	dx, dy := rx*kappa, ry*kappa
	p.Start(Point{cx + rx, cy})
	p.CubeBezier(Point{cx + rx, cy + dy}, Point{cx + dx, cy + ry}, Point{cx, cy + ry})
	p.CubeBezier(Point{cx - dx, cy + ry}, Point{cx - rx, cy + dy}, Point{cx - rx, cy})
	p.CubeBezier(Point{cx - rx, cy - dy}, Point{cx - dx, cy - ry}, Point{cx, cy - ry})
	p.CubeBezier(Point{cx + dx, cy - ry}, Point{cx + rx, cy - dy}, Point{cx + rx, cy})
	p.Stop(true)
}

// AddLine appends the single segment (x1, y1)-(x2, y2).
func (p *Path) AddLine(x1, y1, x2, y2 float64) {
	p.Start(Point{x1, y1})
	p.Line(Point{x2, y2})
}

// AddPoly appends a segment chain through the given points; the chain is
// closed for a polygon and left open for a polyline. Fewer than two
// points produce nothing.
func (p *Path) AddPoly(pts []Point, closed bool) {
	if len(pts) < 2 {
		return
	}
	p.Start(pts[0])
	for _, pt := range pts[1:] {
		p.Line(pt)
	}
	p.Stop(closed)
}

// AddArc appends the elliptical arc from the current point (px, py) to
// (x, y), following the SVG arc parametrization: radii (rx, ry), x-axis
// rotation in degrees, large-arc and sweep flags. The arc is flattened
// to cubic segments by the method of L. Maisonobe, "Drawing an
// elliptical arc using polylines, quadratic or cubic Bezier curves",
// 2003. Returns the actual end point.
func (p *Path) AddArc(rx, ry, rotDeg float64, largeArc, sweep bool, px, py, x, y float64) (lx, ly float64) {
	if rx == 0 || ry == 0 {
		// degenerate radii draw a straight segment, per the SVG rules
		p.Line(Point{x, y})
		return x, y
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	rotX := rotDeg * math.Pi / 180
	cx, cy := findEllipseCenter(&rx, &ry, rotX, px, py, x, y, sweep, !largeArc)

	startAngle := math.Atan2(py-cy, px-cx) - rotX
	endAngle := math.Atan2(y-cy, x-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	// angles measured on the unit circle of the parametrization
	etaStart := math.Atan2(math.Sin(startAngle)/ry, math.Cos(startAngle)/rx)
	etaEnd := math.Atan2(math.Sin(endAngle)/ry, math.Cos(endAngle)/rx)
	deltaEta := etaEnd - etaStart
	if arcBig != largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	segs := int(math.Abs(deltaEta)/maxArcSpan) + 1
	dEta := deltaEta / float64(segs)
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly = px, py
	sinTheta, cosTheta := SinCos(rotX)
	ldx, ldy := ellipsePrime(rx, ry, sinTheta, cosTheta, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var nx, ny float64
		if i == segs {
			nx, ny = x, y // make the end point exact
		} else {
			nx, ny = ellipsePointAt(rx, ry, sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(rx, ry, sinTheta, cosTheta, eta)
		p.CubeBezier(Point{lx + alpha*ldx, ly + alpha*ldy},
			Point{nx - alpha*dx, ny - alpha*dy}, Point{nx, ny})
		lx, ly, ldx, ldy = nx, ny, dx, dy
	}
	return lx, ly
}

// ellipsePrime gives the tangent vector of the parameterized ellipse at eta.
func ellipsePrime(a, b, sinTheta, cosTheta, eta float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives the point of the parameterized ellipse at eta.
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the ellipse through both end
// points. If no such ellipse exists the radii are scaled up minimally,
// preserving their ratio. The problem is reduced by coordinate
// transformations to finding the center of a circle including the origin
// and an arbitrary point.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// move the origin to the start point
	nx, ny := endX-startX, endY-startY

	// rotate the ellipse x-axis onto the coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	nx *= *rb / *ra // now the ellipse is a circle of radius rb

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// requested ellipse does not exist; scale ra, rb to fit
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// if hr is zero, both answers are the same
	if (sweep && smallArc) || (!sweep && !smallArc) {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	cx *= *ra / *rb // reverse the scale
	// reverse rotate and translate back to the original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
