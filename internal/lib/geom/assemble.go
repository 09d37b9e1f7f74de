package geom

const (
	// SnapTolerance is the maximum gap between the chain end and the
	// next primitive's start that gets snapped shut to avoid drift.
	SnapTolerance = 1e-2

	// minSegmentLength is the threshold below which a segment is
	// numerical noise and is dropped from the chain.
	minSegmentLength = 1e-6
)

// RawRef is one entry of an edge's declared element order. The order of
// these references is ground truth for chaining; Points carries inline
// geometry for references that resolve to no known primitive.
type RawRef struct {
	ID     string
	Points []Point
}

// ArcSpec is a raw arc primitive: two endpoints (first and last of
// Points), a signed radius whose sign encodes the turn direction, and
// an optional explicit center.
type ArcSpec struct {
	ID     string
	Points []Point
	Radius float64
	Center *Point
}

// EdgeGeometrySpec is everything the assembler needs for one edge: the
// boundary node coordinates, the declared element order, and the typed
// primitive collections keyed by identifier.
type EdgeGeometrySpec struct {
	A           Point
	B           Point
	Order       []RawRef
	Lines       map[string][]Point
	Transitions map[string][]Point
	Arcs        map[string]ArcSpec
}

// Assemble chains an edge's primitives in their declared order into a
// single continuous path oriented from node A to node B. Primitives are
// appended forward or reversed, whichever continues the chain; arcs
// without an explicit center go through ResolveArc with the chain's
// current tangent as continuity hint; degenerate arcs fall back to
// straight segments. After chaining, the whole path is reversed if its
// first point lies closer to B than to A.
//
// An edge with no resolvable primitives yields an empty path with zero
// length; the straight node-to-node fallback is the caller's policy.
func Assemble(spec EdgeGeometrySpec) Path {
	c := assembleChain(spec)
	segs := c.segs

	if len(segs) > 0 {
		first := segs[0].P1
		if first.DistanceTo(spec.B) < first.DistanceTo(spec.A) {
			segs = reverseSegments(segs)
		}
	}

	total := 0.0
	for _, s := range segs {
		total += s.Length
	}
	return Path{Segments: segs, Length: total}
}

// appendResult tags why a raw reference did or did not contribute
// segments to the chain.
type appendResult int

const (
	resultAppended appendResult = iota
	resultFallbackLine
	resultSkipped
)

type appendOutcome struct {
	ref    string
	result appendResult
	reason string
}

// chain is the accumulator threaded through the assembly fold.
type chain struct {
	segs     []Segment
	outcomes []appendOutcome
}

func (c *chain) endPoint() *Point {
	if len(c.segs) == 0 {
		return nil
	}
	p := c.segs[len(c.segs)-1].P2
	return &p
}

func (c *chain) endTangent() *Vec {
	if len(c.segs) == 0 {
		return nil
	}
	t, ok := c.segs[len(c.segs)-1].endTangent()
	if !ok {
		return nil
	}
	return &t
}

func (c *chain) push(s Segment) bool {
	if s.Length <= minSegmentLength {
		return false
	}
	c.segs = append(c.segs, s)
	return true
}

func (c *chain) record(ref string, result appendResult, reason string) {
	c.outcomes = append(c.outcomes, appendOutcome{ref: ref, result: result, reason: reason})
}

// assembleChain folds the raw element order into a segment chain.
// Resolution order per reference: lines, then transitions, then arcs,
// then inline points as a generic polyline.
func assembleChain(spec EdgeGeometrySpec) *chain {
	c := &chain{}
	for _, ref := range spec.Order {
		if pts, ok := spec.Lines[ref.ID]; ok {
			c.appendPolyline(ref.ID, pts)
			continue
		}
		if pts, ok := spec.Transitions[ref.ID]; ok {
			c.appendPolyline(ref.ID, pts)
			continue
		}
		if arc, ok := spec.Arcs[ref.ID]; ok {
			c.appendArc(arc)
			continue
		}
		if len(ref.Points) > 0 {
			c.appendPolyline(ref.ID, ref.Points)
			continue
		}
		c.record(ref.ID, resultSkipped, "unresolvable reference")
	}
	return c
}

// appendPolyline splits a polyline into line segments, oriented so its
// near end meets the current chain end.
func (c *chain) appendPolyline(ref string, pts []Point) {
	pts = filterFinite(pts)
	if len(pts) < 2 {
		c.record(ref, resultSkipped, "fewer than two usable points")
		return
	}
	pts = c.orient(pts)

	appended := false
	for i := 0; i < len(pts)-1; i++ {
		if c.push(newLine(pts[i], pts[i+1])) {
			appended = true
		}
	}
	if appended {
		c.record(ref, resultAppended, "")
	} else {
		c.record(ref, resultSkipped, "all segments below length threshold")
	}
}

// appendArc appends an arc primitive, reversing its endpoints (and turn
// direction) when the chain approaches from the far end. An explicit
// center wins over radius-based resolution; a degenerate arc degrades
// to a straight segment between the same endpoints.
func (c *chain) appendArc(arc ArcSpec) {
	pts := filterFinite(arc.Points)
	if len(pts) < 2 {
		c.record(arc.ID, resultSkipped, "fewer than two usable endpoints")
		return
	}
	p1, p2 := pts[0], pts[len(pts)-1]
	radius := arc.Radius

	if end := c.endPoint(); end != nil {
		if end.DistanceTo(p2) < end.DistanceTo(p1) {
			p1, p2 = p2, p1
			radius = -radius
		}
		if gap := end.DistanceTo(p1); gap > 0 && gap <= SnapTolerance {
			p1 = *end
		}
	}

	if arc.Center != nil && arc.Center.IsFinite() {
		seg := newArcFromCenter(p1, p2, *arc.Center, signOf(radius))
		if c.push(seg) {
			c.record(arc.ID, resultAppended, "")
		} else {
			c.record(arc.ID, resultSkipped, "zero-length arc")
		}
		return
	}

	seg, ok := ResolveArc(p1, p2, radius, c.endTangent())
	if !ok {
		if c.push(newLine(p1, p2)) {
			c.record(arc.ID, resultFallbackLine, "degenerate arc")
		} else {
			c.record(arc.ID, resultSkipped, "degenerate arc with coincident endpoints")
		}
		return
	}
	if c.push(seg) {
		c.record(arc.ID, resultAppended, "")
	} else {
		c.record(arc.ID, resultSkipped, "zero-length arc")
	}
}

// orient flips the point order if the far end is closer to the chain
// end, then snaps the near end onto the chain to close sub-tolerance
// gaps.
func (c *chain) orient(pts []Point) []Point {
	end := c.endPoint()
	if end == nil {
		return pts
	}
	if end.DistanceTo(pts[len(pts)-1]) < end.DistanceTo(pts[0]) {
		pts = reversePoints(pts)
	}
	if gap := end.DistanceTo(pts[0]); gap > 0 && gap <= SnapTolerance {
		pts = append([]Point{*end}, pts[1:]...)
	}
	return pts
}

// reverseSegments flips a whole chain end-for-end.
func reverseSegments(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[len(segs)-1-i] = s.reversed()
	}
	return out
}

func reversePoints(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// filterFinite drops points with NaN or infinite coordinates.
func filterFinite(pts []Point) []Point {
	out := pts[:0:0]
	for _, p := range pts {
		if p.IsFinite() {
			out = append(out, p)
		}
	}
	return out
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
