package path

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r3"
)

// CurveType selects the interpolation used between control points.
type CurveType int

const (
	// CurveCentripetal is Catmull-Rom with alpha 0.5. It never forms cusps or self-intersections
	// inside a segment and is the default.
	CurveCentripetal CurveType = iota

	// CurveChordal is Catmull-Rom with alpha 1, parameterized by chord length.
	CurveChordal

	// CurveCatmullRom is the uniform Catmull-Rom spline with an adjustable tension.
	CurveCatmullRom

	// CurveHobby solves John Hobby's smooth-curve equations over the control points. Control points
	// must lie in one horizontal plane (equal Y).
	CurveHobby
)

var curveTypeNames = map[CurveType]string{
	CurveCentripetal: "centripetal",
	CurveChordal:     "chordal",
	CurveCatmullRom:  "catmullrom",
	CurveHobby:       "hobby",
}

func (c CurveType) String() string {
	if name, ok := curveTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CurveType(%d)", int(c))
}

// ParseCurveType converts a configuration string into a CurveType. Matching is case-insensitive
// and the empty string selects CurveCentripetal.
//
// Parameters:
//   - s: the curve name
//
// Returns:
//   - CurveType: the parsed type
//   - bool: false when the name is unknown
func ParseCurveType(s string) (CurveType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CurveCentripetal, true
	}
	for k, v := range curveTypeNames {
		if v == s {
			return k, true
		}
	}
	return CurveCentripetal, false
}

// curve evaluates a raw (not arc-length corrected) position for u in [0, 1].
type curve interface {
	point(u float64) r3.Vector
}

// catmullRom interpolates a Catmull-Rom spline through its points. Open splines extrapolate a
// phantom point beyond each end so the curve passes through the first and last control points.
type catmullRom struct {
	points  []r3.Vector
	closed  bool
	kind    CurveType
	tension float64
}

func (c *catmullRom) point(u float64) r3.Vector {
	l := len(c.points)
	var p float64
	if c.closed {
		p = float64(l) * u
	} else {
		p = float64(l-1) * u
	}
	seg := int(math.Floor(p))
	weight := p - float64(seg)

	if c.closed {
		if seg <= 0 {
			seg += (-seg/l + 1) * l
		}
	} else if weight == 0 && seg == l-1 {
		seg = l - 2
		weight = 1
	}

	var p0, p3 r3.Vector
	if c.closed || seg > 0 {
		p0 = c.points[(seg-1)%l]
	} else {
		p0 = c.points[0].Sub(c.points[1]).Add(c.points[0])
	}
	p1 := c.points[seg%l]
	p2 := c.points[(seg+1)%l]
	if c.closed || seg+2 < l {
		p3 = c.points[(seg+2)%l]
	} else {
		p3 = c.points[l-1].Sub(c.points[l-2]).Add(c.points[l-1])
	}

	var poly cubicPoly
	switch c.kind {
	case CurveCentripetal, CurveChordal:
		exp := 0.25
		if c.kind == CurveChordal {
			exp = 0.5
		}
		dt0 := math.Pow(p0.Sub(p1).Norm2(), exp)
		dt1 := math.Pow(p1.Sub(p2).Norm2(), exp)
		dt2 := math.Pow(p2.Sub(p3).Norm2(), exp)
		// repeated points would divide by zero
		if dt1 < 1e-4 {
			dt1 = 1
		}
		if dt0 < 1e-4 {
			dt0 = dt1
		}
		if dt2 < 1e-4 {
			dt2 = dt1
		}
		poly = nonUniformCatmullRom(p0, p1, p2, p3, dt0, dt1, dt2)
	default:
		poly = hermite(p1, p2, p2.Sub(p0).Mul(c.tension), p3.Sub(p1).Mul(c.tension))
	}
	return poly.eval(weight)
}

// cubicPoly is c0 + c1*w + c2*w^2 + c3*w^3, evaluated per component.
type cubicPoly struct {
	c0, c1, c2, c3 r3.Vector
}

func (p cubicPoly) eval(w float64) r3.Vector {
	w2 := w * w
	return p.c0.Add(p.c1.Mul(w)).Add(p.c2.Mul(w2)).Add(p.c3.Mul(w2 * w))
}

// hermite builds the cubic through x0 and x1 with end tangents t0 and t1.
func hermite(x0, x1, t0, t1 r3.Vector) cubicPoly {
	return cubicPoly{
		c0: x0,
		c1: t0,
		c2: x0.Mul(-3).Add(x1.Mul(3)).Sub(t0.Mul(2)).Sub(t1),
		c3: x0.Mul(2).Sub(x1.Mul(2)).Add(t0).Add(t1),
	}
}

// nonUniformCatmullRom computes the segment x1..x2 using knot spacings dt0, dt1, dt2.
func nonUniformCatmullRom(x0, x1, x2, x3 r3.Vector, dt0, dt1, dt2 float64) cubicPoly {
	t1 := x1.Sub(x0).Mul(1 / dt0).Sub(x2.Sub(x0).Mul(1 / (dt0 + dt1))).Add(x2.Sub(x1).Mul(1 / dt1))
	t2 := x2.Sub(x1).Mul(1 / dt1).Sub(x3.Sub(x1).Mul(1 / (dt1 + dt2))).Add(x3.Sub(x2).Mul(1 / dt2))
	return hermite(x1, x2, t1.Mul(dt1), t2.Mul(dt1))
}
