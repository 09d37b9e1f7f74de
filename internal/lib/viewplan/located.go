// Package viewplan turns a topology store into render plans for the two
// frontend views: the geometrically accurate located view and the
// schematic dynamic view. It owns the fallback policy for edges without
// usable geometry: such edges are drawn as a straight line between
// their boundary nodes and flagged, so the UI can style them.
package viewplan

import (
	"time"

	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
)

// NodePlan places one node in the located view.
type NodePlan struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	At   geom.Point `json:"at"`
}

// EdgePlan is one edge's display polyline. Fallback marks edges drawn
// as a plain node-to-node line because no usable geometry assembled.
type EdgePlan struct {
	ID       string       `json:"id"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	Length   float64      `json:"length"`
	Fallback bool         `json:"fallback,omitempty"`
	Points   []geom.Point `json:"points"`
}

// ElementPlan places one point element. Placed is false when the
// element's edge has no real geometry and the position was interpolated
// on the straight fallback line instead.
type ElementPlan struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Kind   topo.ElementKind `json:"kind"`
	EdgeID string           `json:"edgeId"`
	IK     float64          `json:"ik"`
	At     geom.Point       `json:"at"`
	Placed bool             `json:"placed"`
}

// OverlaySpan is a sampled sub-span of an edge carrying a speed value.
type OverlaySpan struct {
	EdgeID  string       `json:"edgeId"`
	FromIK  float64      `json:"fromIk"`
	ToIK    float64      `json:"toIk"`
	VMaxKmh float64      `json:"vmaxKmh"`
	Points  []geom.Point `json:"points"`
}

// LocatedPlan is the complete located-view render plan for one snapshot.
type LocatedPlan struct {
	SnapshotID  string        `json:"snapshotId"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Nodes       []NodePlan    `json:"nodes"`
	Edges       []EdgePlan    `json:"edges"`
	Elements    []ElementPlan `json:"elements"`
	Overlays    []OverlaySpan `json:"overlays"`
}

// Located builds the located-view render plan. maxChord bounds the
// chord length of arc subdivision.
func Located(store *topo.Store, maxChord float64) *LocatedPlan {
	snap := store.Current()
	plan := &LocatedPlan{
		SnapshotID:  snap.ID,
		GeneratedAt: time.Now(),
	}

	for _, id := range sortedNodeIDs(snap) {
		n := snap.Nodes[id]
		plan.Nodes = append(plan.Nodes, NodePlan{ID: n.ID, Name: n.Name, At: n.Coord})
	}

	for _, id := range snap.EdgeIDs() {
		edge := snap.Edges[id]
		plan.Edges = append(plan.Edges, buildEdgePlan(store, edge, maxChord))
	}

	for _, el := range snap.Elements {
		plan.Elements = append(plan.Elements, placeElement(store, el))
	}

	for _, sr := range snap.SpeedRanges {
		if span, ok := buildOverlaySpan(store, sr, maxChord); ok {
			plan.Overlays = append(plan.Overlays, span)
		}
	}
	return plan
}

func buildEdgePlan(store *topo.Store, edge *topo.Edge, maxChord float64) EdgePlan {
	plan := EdgePlan{ID: edge.ID, From: edge.NodeA, To: edge.NodeB}

	pts := store.EdgePolyline(edge.ID, maxChord)
	if len(pts) >= 2 {
		plan.Points = pts
		plan.Length, _ = store.EdgeLength(edge.ID)
		return plan
	}

	// No usable geometry: straight line between the boundary nodes.
	plan.Fallback = true
	if a, b, ok := store.NodeCoords(edge.ID); ok {
		plan.Points = []geom.Point{a, b}
		plan.Length = a.DistanceTo(b)
	}
	return plan
}

// placeElement projects a point element onto its edge, falling back to
// interpolation on the straight node-to-node line when the edge has no
// assembled geometry.
func placeElement(store *topo.Store, el topo.PointElement) ElementPlan {
	plan := ElementPlan{
		ID:     el.ID,
		Name:   el.Name,
		Kind:   el.Kind,
		EdgeID: el.EdgeID,
		IK:     el.IK,
	}
	if length, ok := store.EdgeLength(el.EdgeID); ok && length > 0 {
		if p, ok := store.ProjectIntrinsicToXY(el.EdgeID, el.IK); ok {
			plan.At = p
			plan.Placed = true
			return plan
		}
	}
	if a, b, ok := store.NodeCoords(el.EdgeID); ok {
		plan.At = lerpOnLine(a, b, el.IK)
	}
	return plan
}

// buildOverlaySpan samples a speed range along its edge path. The span
// bounds follow the intrinsic-coordinate dual reading: values in [0,1]
// are fractions, others meters.
func buildOverlaySpan(store *topo.Store, sr topo.SpeedRange, maxChord float64) (OverlaySpan, bool) {
	path := store.PathFor(sr.EdgeID)
	if path == nil || path.Length <= 0 {
		return OverlaySpan{}, false
	}

	from := toMeters(sr.FromIK, path.Length)
	to := toMeters(sr.ToIK, path.Length)
	if to < from {
		from, to = to, from
	}
	from = clamp(from, 0, path.Length)
	to = clamp(to, 0, path.Length)
	if to-from <= 0 {
		return OverlaySpan{}, false
	}

	if maxChord <= 0 {
		maxChord = geom.DefaultMaxChord
	}
	steps := int((to-from)/maxChord) + 1
	if steps < 1 {
		steps = 1
	}
	pts := make([]geom.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		m := from + (to-from)*float64(i)/float64(steps)
		p, ok := path.PointAtMeters(m)
		if !ok {
			return OverlaySpan{}, false
		}
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	return OverlaySpan{
		EdgeID:  sr.EdgeID,
		FromIK:  sr.FromIK,
		ToIK:    sr.ToIK,
		VMaxKmh: sr.VMaxKmh,
		Points:  pts,
	}, true
}

func toMeters(ik, length float64) float64 {
	if ik >= 0 && ik <= 1 {
		return ik * length
	}
	return ik
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerpOnLine interpolates on the straight a-b line using the same dual
// intrinsic-coordinate reading as real projection.
func lerpOnLine(a, b geom.Point, ik float64) geom.Point {
	t := ik
	if ik < 0 || ik > 1 {
		length := a.DistanceTo(b)
		if length <= 0 {
			return a
		}
		t = clamp(ik/length, 0, 1)
	}
	return geom.Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

func sortedNodeIDs(snap *topo.Snapshot) []string {
	ids := make([]string, 0, len(snap.Nodes))
	for id := range snap.Nodes {
		ids = append(ids, id)
	}
	sortStrings(ids)
	return ids
}
