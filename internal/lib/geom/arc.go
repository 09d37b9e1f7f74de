package geom

import "math"

// ResolveArc recovers the circular arc through p1 and p2 with the given
// signed radius. The sign of radius encodes the turn direction: positive
// sweeps counterclockwise, negative clockwise. Two candidate centers
// exist on the perpendicular bisector of the chord; the turn sign selects
// the preferred one, and when prevTangent is non-nil the candidate whose
// start tangent best continues the previous direction wins instead.
//
// ok is false when no circle of that radius passes through both points:
// radius zero, coincident endpoints, or a chord longer than the diameter.
// Callers fall back to a straight segment in that case.
func ResolveArc(p1, p2 Point, radius float64, prevTangent *Vec) (Segment, bool) {
	absR := math.Abs(radius)
	if absR <= 0 {
		return Segment{}, false
	}
	turnSign := 1.0
	if radius < 0 {
		turnSign = -1.0
	}

	chordVec := p2.Sub(p1)
	chord := chordVec.Len()
	if chord <= 0 {
		return Segment{}, false
	}
	half := chord / 2
	if half > absR {
		// Tolerate rounding right at the half-circle limit.
		if half-absR > 1e-9*math.Max(1, absR) {
			return Segment{}, false
		}
		half = absR
	}

	dir, _ := chordVec.Unit()
	mid := p1.Add(chordVec.Scale(0.5))
	h := math.Sqrt(absR*absR - half*half)

	// Candidate on the left of the chord direction first; that is the
	// center of a counterclockwise minor arc, so turnSign orders the
	// pair preferred-first.
	left := mid.Add(dir.perp().Scale(h))
	right := mid.Add(dir.perp().Scale(-h))
	candidates := [2]Point{left, right}
	if turnSign < 0 {
		candidates[0], candidates[1] = right, left
	}

	chosen := buildArcCandidate(p1, p2, candidates[0], absR, turnSign)
	if prevTangent != nil {
		alt := buildArcCandidate(p1, p2, candidates[1], absR, turnSign)
		if tangentScore(alt, *prevTangent) > tangentScore(chosen, *prevTangent) {
			chosen = alt
		}
	}
	return chosen, true
}

// buildArcCandidate constructs the arc around one candidate center,
// forcing the sweep direction to the turn sign and clamping to the
// minor arc.
func buildArcCandidate(p1, p2, center Point, absR, turnSign float64) Segment {
	start := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	end := math.Atan2(p2.Y-center.Y, p2.X-center.X)
	sweep := normalizeAngle(end - start)
	sweep = forceSweepSign(sweep, turnSign)
	sweep = clampToMinorArc(sweep)
	return Segment{
		Kind:       KindArc,
		P1:         p1,
		P2:         p2,
		Center:     center,
		Radius:     absR,
		StartAngle: start,
		EndAngle:   start + sweep,
		Sweep:      sweep,
		Length:     math.Abs(sweep) * absR,
	}
}

// tangentScore rates continuity between the previous travel direction
// and an arc candidate's start tangent. Higher is smoother.
func tangentScore(s Segment, prev Vec) float64 {
	t, ok := s.startTangent()
	if !ok {
		return math.Inf(-1)
	}
	return prev.Dot(t)
}
