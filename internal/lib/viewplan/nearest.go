package viewplan

import (
	"math"

	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
)

// NearestEdge finds the edge whose display polyline passes closest to
// p, for hit-testing. Edges without geometry compete with their
// straight fallback line. ok is false when the snapshot has no edges.
func NearestEdge(store *topo.Store, p geom.Point, maxChord float64) (edgeID string, dist float64, ok bool) {
	snap := store.Current()
	best := math.Inf(1)

	for _, id := range snap.EdgeIDs() {
		pts := store.EdgePolyline(id, maxChord)
		if len(pts) < 2 {
			a, b, found := store.NodeCoords(id)
			if !found {
				continue
			}
			pts = []geom.Point{a, b}
		}
		if d := pointToPolyline(p, pts); d < best {
			best = d
			edgeID = id
		}
	}
	if edgeID == "" {
		return "", 0, false
	}
	return edgeID, best, true
}

// pointToPolyline is the minimum distance from p to any segment of the
// polyline.
func pointToPolyline(p geom.Point, pts []geom.Point) float64 {
	min := math.Inf(1)
	for i := 0; i < len(pts)-1; i++ {
		if d := pointToSegment(p, pts[i], pts[i+1]); d < min {
			min = d
		}
	}
	return min
}

// pointToSegment projects p onto the segment a-b, clamped to the
// segment's extent.
func pointToSegment(p, a, b geom.Point) float64 {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 == 0 {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(d) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceTo(a.Add(d.Scale(t)))
}
