// Package geom reconstructs continuous track-edge paths from loosely
// ordered geometric primitives (line segments, circular arcs, transition
// polylines) and provides arc-length parameterized projection onto them.
//
// All coordinates are planar meters in the site reference frame; this
// package performs no geodetic math.
package geom

import "math"

// Point is a position in the planar site coordinate system.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec is a displacement between two points.
type Vec struct {
	X float64
	Y float64
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vec {
	return Vec{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add offsets p by v.
func (p Point) Add(v Vec) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// IsFinite reports whether both coordinates are finite numbers.
// Non-finite points are filtered at normalization so NaNs never reach
// the angle and length math.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Len returns the length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dot returns the dot product of v and w.
func (v Vec) Dot(w Vec) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Unit returns v scaled to length 1. ok is false for the zero vector.
func (v Vec) Unit() (Vec, bool) {
	l := v.Len()
	if l == 0 {
		return Vec{}, false
	}
	return Vec{X: v.X / l, Y: v.Y / l}, true
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// perp returns v rotated 90° counterclockwise.
func (v Vec) perp() Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// SegmentKind discriminates the two assembled segment shapes.
type SegmentKind int

const (
	KindLine SegmentKind = iota
	KindArc
)

// String returns the wire name of the kind.
func (k SegmentKind) String() string {
	if k == KindArc {
		return "arc"
	}
	return "line"
}

// Segment is one piece of an assembled path: a straight line or a
// circular arc, always traversed P1 → P2. The arc fields (Center,
// Radius, StartAngle, EndAngle, Sweep) are meaningful only when Kind
// is KindArc. Sweep is the signed angular span; positive is
// counterclockwise.
type Segment struct {
	Kind       SegmentKind
	P1         Point
	P2         Point
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Sweep      float64
	Length     float64
}

// newLine builds a line segment between two points.
func newLine(p1, p2 Point) Segment {
	return Segment{
		Kind:   KindLine,
		P1:     p1,
		P2:     p2,
		Length: p1.DistanceTo(p2),
	}
}

// newArcFromCenter builds an arc segment from explicit center and
// endpoints. turnSign picks the sweep direction when it is non-zero;
// otherwise the smaller of the two sweeps is used as-is.
func newArcFromCenter(p1, p2, center Point, turnSign float64) Segment {
	radius := center.DistanceTo(p1)
	start := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	end := math.Atan2(p2.Y-center.Y, p2.X-center.X)
	sweep := normalizeAngle(end - start)
	if turnSign != 0 {
		sweep = forceSweepSign(sweep, turnSign)
		sweep = clampToMinorArc(sweep)
	}
	return Segment{
		Kind:       KindArc,
		P1:         p1,
		P2:         p2,
		Center:     center,
		Radius:     radius,
		StartAngle: start,
		EndAngle:   start + sweep,
		Sweep:      sweep,
		Length:     math.Abs(sweep) * radius,
	}
}

// startTangent returns the unit direction of travel at the segment start.
func (s Segment) startTangent() (Vec, bool) {
	if s.Kind == KindLine {
		return s.P2.Sub(s.P1).Unit()
	}
	return arcTangent(s.P1, s.Center, s.Sweep)
}

// endTangent returns the unit direction of travel at the segment end.
func (s Segment) endTangent() (Vec, bool) {
	if s.Kind == KindLine {
		return s.P2.Sub(s.P1).Unit()
	}
	return arcTangent(s.P2, s.Center, s.Sweep)
}

// arcTangent is the travel direction on a circle at point p: the radius
// vector rotated a quarter turn, flipped for clockwise sweeps.
func arcTangent(p, center Point, sweep float64) (Vec, bool) {
	radial, ok := p.Sub(center).Unit()
	if !ok {
		return Vec{}, false
	}
	t := radial.perp()
	if sweep < 0 {
		t = t.Scale(-1)
	}
	return t, true
}

// reversed returns the segment traversed in the opposite direction.
// Arcs swap their start and end angles and negate the sweep.
func (s Segment) reversed() Segment {
	r := s
	r.P1, r.P2 = s.P2, s.P1
	if s.Kind == KindArc {
		r.StartAngle, r.EndAngle = s.EndAngle, s.StartAngle
		r.Sweep = -s.Sweep
	}
	return r
}

// Path is an ordered, continuously connected segment chain running from
// an edge's node A to its node B. Length is the sum of the segment
// lengths. Paths are immutable once built.
type Path struct {
	Segments []Segment
	Length   float64
}

// normalizeAngle wraps a into (−π, π].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// forceSweepSign adds a full turn as needed so the sweep runs in the
// requested direction.
func forceSweepSign(sweep, turnSign float64) float64 {
	if turnSign > 0 && sweep < 0 {
		return sweep + 2*math.Pi
	}
	if turnSign < 0 && sweep > 0 {
		return sweep - 2*math.Pi
	}
	return sweep
}

// clampToMinorArc folds sweeps beyond a half turn onto the minor arc.
func clampToMinorArc(sweep float64) float64 {
	if sweep > math.Pi {
		return sweep - 2*math.Pi
	}
	if sweep < -math.Pi {
		return sweep + 2*math.Pi
	}
	return sweep
}
