package geom

import "math"

// PointAt maps an intrinsic coordinate to the Cartesian point on the
// path. Values in [0, 1] are read as fractions of the total length;
// anything else is read as absolute meters. The two representations are
// indistinguishable on paths no longer than one meter; the dual
// contract is inherited from the data model and kept as is.
// Use PointAtMeters when the unit is known.
//
// The offset is clamped to the path's extent. An empty path answers the
// origin as a defined fallback; a non-empty path whose total length is
// not positive has no usable geometry and answers ok=false.
func (p *Path) PointAt(ik float64) (Point, bool) {
	if len(p.Segments) == 0 {
		return Point{}, true
	}
	if p.Length <= 0 {
		return Point{}, false
	}
	meters := ik
	if ik >= 0 && ik <= 1 {
		meters = ik * p.Length
	}
	return p.PointAtMeters(meters)
}

// PointAtMeters maps an absolute arc-length offset in meters to the
// Cartesian point on the path, clamping to [0, Length].
func (p *Path) PointAtMeters(meters float64) (Point, bool) {
	if len(p.Segments) == 0 {
		return Point{}, true
	}
	if p.Length <= 0 {
		return Point{}, false
	}
	if meters < 0 {
		meters = 0
	}
	if meters > p.Length {
		meters = p.Length
	}

	acc := 0.0
	for _, s := range p.Segments {
		if meters <= acc+s.Length {
			t := 0.0
			if s.Length > 0 {
				t = (meters - acc) / s.Length
			}
			return s.pointAt(t), true
		}
		acc += s.Length
	}

	// Accumulated rounding pushed the offset past the last segment;
	// answer the terminal point instead of failing.
	last := p.Segments[len(p.Segments)-1]
	return last.pointAt(1), true
}

// pointAt interpolates within one segment, t in [0, 1]: linear along a
// line, angular around an arc's center.
func (s Segment) pointAt(t float64) Point {
	if s.Kind == KindLine {
		return Point{
			X: s.P1.X + (s.P2.X-s.P1.X)*t,
			Y: s.P1.Y + (s.P2.Y-s.P1.Y)*t,
		}
	}
	ang := s.StartAngle + s.Sweep*t
	return Point{
		X: s.Center.X + s.Radius*math.Cos(ang),
		Y: s.Center.Y + s.Radius*math.Sin(ang),
	}
}
