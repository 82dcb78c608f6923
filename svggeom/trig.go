package svggeom

import "math"

// Trigonometric primitives used by arc flattening and stroke join/cap
// generation. The engine relies on exact quadrant selection near the
// axis-aligned angles, so sine and cosine snap to their exact values
// when the angle is within `angleEpsilon` of a multiple of π/2.

const angleEpsilon = 1e-12

// SinCos returns (sin(theta), cos(theta)), with exact results on the
// axis-aligned boundaries 0, π/2, π and 3π/2.
func SinCos(theta float64) (sin, cos float64) {
	q := theta / (math.Pi / 2)
	r := math.Round(q)
	if math.Abs(q-r) < angleEpsilon {
		switch int(math.Mod(math.Mod(r, 4)+4, 4)) {
		case 0:
			return 0, 1
		case 1:
			return 1, 0
		case 2:
			return 0, -1
		default:
			return -1, 0
		}
	}
	sin, cos = math.Sincos(theta)
	return sin, cos
}

// VectorLength returns the euclidean length of the vector (x, y).
func VectorLength(x, y float64) float64 { return math.Hypot(x, y) }

// Polar converts the vector (x, y) to (length, angle), with the angle in
// (−π, π]. The zero vector maps to (0, 0).
func Polar(x, y float64) (length, angle float64) {
	length = math.Hypot(x, y)
	if length == 0 {
		return 0, 0
	}
	angle = math.Atan2(y, x)
	if angle <= -math.Pi {
		angle = math.Pi
	}
	return length, angle
}

// FromPolar converts (length, angle) back to cartesian coordinates.
func FromPolar(length, angle float64) (x, y float64) {
	sin, cos := SinCos(angle)
	return length * cos, length * sin
}

// AngleDiff returns the shortest signed difference b−a, normalized to
// (−π, π].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
