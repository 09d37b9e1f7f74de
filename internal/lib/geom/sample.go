package geom

import "math"

// DefaultMaxChord is the arc subdivision chord length used when a
// caller passes a non-positive value.
const DefaultMaxChord = 1.0

// Sample flattens the path into a display polyline. Line segments
// contribute their endpoints; arcs are subdivided into evenly
// angle-spaced points so no chord exceeds maxChord. Consecutive
// duplicate points are collapsed (exact equality), and the path's first
// and last points are always included.
func (p *Path) Sample(maxChord float64) []Point {
	if maxChord <= 0 {
		maxChord = DefaultMaxChord
	}
	var out []Point
	emit := func(pt Point) {
		if len(out) > 0 && out[len(out)-1] == pt {
			return
		}
		out = append(out, pt)
	}

	for _, s := range p.Segments {
		if s.Kind == KindLine {
			emit(s.P1)
			emit(s.P2)
			continue
		}
		n := int(math.Ceil(math.Abs(s.Sweep)*s.Radius/maxChord)) + 1
		if n < 2 {
			n = 2
		}
		for i := 0; i < n; i++ {
			t := float64(i) / float64(n-1)
			if i == 0 {
				emit(s.P1)
			} else if i == n-1 {
				emit(s.P2)
			} else {
				emit(s.pointAt(t))
			}
		}
	}
	return out
}
