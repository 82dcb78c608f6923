package svggeom

import (
	"errors"
	"strconv"
)

// Parser for the SVG path-data mini grammar ("d" attribute): the
// move/line/curve/arc/close commands in absolute and relative form.

var (
	errCmdMismatch   = errors.New("svg path data: wrong number of parameters")
	errUnknownCmd    = errors.New("svg path data: unknown command")
	errCmdBeforeVal  = errors.New("svg path data: value before any command")
	errNoInitialMove = errors.New("svg path data: path must begin with a moveto")
)

type pathCursor struct {
	path Path
	// parameter accumulator for the current command
	points []float64

	pen        Point // current point
	start      Point // first point of the current subpath
	lastCmd    byte
	cntlPt     Point // last control point, for smooth curve reflection
	hasCntl    bool
	quadCntl   bool // whether cntlPt is a quadratic control point
	inSubpath  bool
	begun      bool // a moveto has been seen
}

// ParsePathData compiles an SVG path-data string into a Path. Quadratic
// segments are retained; arcs are flattened to cubics. A syntax error
// aborts the parse and reports the error; the commands parsed so far are
// still returned, matching how renderers keep the valid prefix.
func ParsePathData(data string) (Path, error) {
	c := pathCursor{}
	i := 0
	n := len(data)
	for i < n {
		b := data[i]
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == ',':
			i++
		case (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z'):
			i++
			var err error
			i, err = c.parameters(data, i, b)
			if err != nil {
				return c.path, err
			}
			if err = c.command(b); err != nil {
				return c.path, err
			}
		default:
			return c.path, errCmdBeforeVal
		}
	}
	return c.path, nil
}

// parameters scans the numeric parameters following a command letter.
func (c *pathCursor) parameters(data string, i int, cmd byte) (int, error) {
	c.points = c.points[:0]
	n := len(data)
	arcFlags := cmd == 'A' || cmd == 'a'
	for i < n {
		b := data[i]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == ',' {
			i++
			continue
		}
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') {
			break
		}
		// arc flags are single digits and may be run together: "1 0" or "10"
		if arcFlags {
			switch len(c.points) % 7 {
			case 3, 4:
				if b == '0' || b == '1' {
					c.points = append(c.points, float64(b-'0'))
					i++
					continue
				}
				return i, errCmdMismatch
			}
		}
		j := scanNumber(data, i)
		if j == i {
			return i, errCmdMismatch
		}
		v, err := strconv.ParseFloat(data[i:j], 64)
		if err != nil {
			return i, err
		}
		c.points = append(c.points, v)
		i = j
	}
	return i, nil
}

// scanNumber returns the end of the float starting at i, accepting the
// SVG form where a second dot or a sign starts a new number ("1.5.5").
func scanNumber(data string, i int) int {
	n := len(data)
	j := i
	if j < n && (data[j] == '+' || data[j] == '-') {
		j++
	}
	seenDot, seenExp := false, false
	for j < n {
		b := data[j]
		switch {
		case b >= '0' && b <= '9':
			j++
		case b == '.' && !seenDot && !seenExp:
			seenDot = true
			j++
		case (b == 'e' || b == 'E') && !seenExp && j > i:
			seenExp = true
			j++
			if j < n && (data[j] == '+' || data[j] == '-') {
				j++
			}
		default:
			return j
		}
	}
	return j
}

func (c *pathCursor) command(cmd byte) error {
	rel := cmd >= 'a'
	if !c.begun {
		if cmd != 'M' && cmd != 'm' {
			return errNoInitialMove
		}
		c.begun = true
	}
	var err error
	switch cmd {
	case 'M', 'm':
		err = c.moveTo(rel)
	case 'L', 'l':
		err = c.lineTo(rel)
	case 'H', 'h':
		err = c.axisLineTo(rel, true)
	case 'V', 'v':
		err = c.axisLineTo(rel, false)
	case 'C', 'c':
		err = c.cubicTo(rel, false)
	case 'S', 's':
		err = c.cubicTo(rel, true)
	case 'Q', 'q':
		err = c.quadTo(rel, false)
	case 'T', 't':
		err = c.quadTo(rel, true)
	case 'A', 'a':
		err = c.arcTo(rel)
	case 'Z', 'z':
		if len(c.points) != 0 {
			return errCmdMismatch
		}
		if c.inSubpath {
			c.path.Stop(true)
			c.pen = c.start
			c.inSubpath = false
		}
	default:
		return errUnknownCmd
	}
	if err != nil {
		return err
	}
	switch cmd {
	case 'C', 'c', 'S', 's':
		c.quadCntl = false
	case 'Q', 'q', 'T', 't':
		c.quadCntl = true
	default:
		c.hasCntl = false
	}
	c.lastCmd = cmd
	return nil
}

func (c *pathCursor) abs(x, y float64, rel bool) Point {
	if rel {
		return Point{c.pen.X + x, c.pen.Y + y}
	}
	return Point{x, y}
}

func (c *pathCursor) moveTo(rel bool) error {
	if len(c.points) == 0 || len(c.points)%2 != 0 {
		return errCmdMismatch
	}
	c.pen = c.abs(c.points[0], c.points[1], rel)
	c.start = c.pen
	c.path.Start(c.pen)
	c.inSubpath = true
	// extra coordinate pairs are implicit line-to commands
	for i := 2; i < len(c.points); i += 2 {
		c.pen = c.abs(c.points[i], c.points[i+1], rel)
		c.path.Line(c.pen)
	}
	return nil
}

func (c *pathCursor) lineTo(rel bool) error {
	if len(c.points) == 0 || len(c.points)%2 != 0 {
		return errCmdMismatch
	}
	for i := 0; i < len(c.points); i += 2 {
		c.pen = c.abs(c.points[i], c.points[i+1], rel)
		c.path.Line(c.pen)
	}
	return nil
}

func (c *pathCursor) axisLineTo(rel, horizontal bool) error {
	if len(c.points) == 0 {
		return errCmdMismatch
	}
	for _, v := range c.points {
		if horizontal {
			if rel {
				c.pen.X += v
			} else {
				c.pen.X = v
			}
		} else {
			if rel {
				c.pen.Y += v
			} else {
				c.pen.Y = v
			}
		}
		c.path.Line(c.pen)
	}
	return nil
}

func (c *pathCursor) cubicTo(rel, smooth bool) error {
	stride := 6
	if smooth {
		stride = 4
	}
	if len(c.points) == 0 || len(c.points)%stride != 0 {
		return errCmdMismatch
	}
	for i := 0; i < len(c.points); i += stride {
		var c1 Point
		if smooth {
			c1 = c.reflectedControl(false)
		} else {
			c1 = c.abs(c.points[i], c.points[i+1], rel)
		}
		j := i + stride - 4
		c2 := c.abs(c.points[j], c.points[j+1], rel)
		end := c.abs(c.points[j+2], c.points[j+3], rel)
		c.path.CubeBezier(c1, c2, end)
		c.pen = end
		c.cntlPt, c.hasCntl, c.quadCntl = c2, true, false
	}
	return nil
}

func (c *pathCursor) quadTo(rel, smooth bool) error {
	stride := 4
	if smooth {
		stride = 2
	}
	if len(c.points) == 0 || len(c.points)%stride != 0 {
		return errCmdMismatch
	}
	for i := 0; i < len(c.points); i += stride {
		var c1 Point
		if smooth {
			c1 = c.reflectedControl(true)
		} else {
			c1 = c.abs(c.points[i], c.points[i+1], rel)
		}
		j := i + stride - 2
		end := c.abs(c.points[j], c.points[j+1], rel)
		c.path.QuadBezier(c1, end)
		c.pen = end
		c.cntlPt, c.hasCntl, c.quadCntl = c1, true, true
	}
	return nil
}

// reflectedControl reflects the previous control point around the pen,
// falling back to the pen itself when the previous command was not of
// the matching curve family.
func (c *pathCursor) reflectedControl(quad bool) Point {
	if !c.hasCntl || c.quadCntl != quad {
		return c.pen
	}
	return Point{2*c.pen.X - c.cntlPt.X, 2*c.pen.Y - c.cntlPt.Y}
}

func (c *pathCursor) arcTo(rel bool) error {
	if len(c.points) == 0 || len(c.points)%7 != 0 {
		return errCmdMismatch
	}
	for i := 0; i < len(c.points); i += 7 {
		end := c.abs(c.points[i+5], c.points[i+6], rel)
		if end == c.pen {
			continue
		}
		lx, ly := c.path.AddArc(c.points[i], c.points[i+1], c.points[i+2],
			c.points[i+3] != 0, c.points[i+4] != 0,
			c.pen.X, c.pen.Y, end.X, end.Y)
		c.pen = Point{lx, ly}
	}
	return nil
}
