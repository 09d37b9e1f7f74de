package viewplan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
)

// fixtureStore builds a store with one geometric edge (straight, quarter
// arc, straight), one edge without geometry, and a few point elements.
func fixtureStore() *topo.Store {
	snap := topo.NewSnapshot()
	snap.Nodes["n1"] = &topo.Node{ID: "n1", Name: "W1", Coord: geom.Point{X: 0, Y: 0}}
	snap.Nodes["n2"] = &topo.Node{ID: "n2", Name: "W2", Coord: geom.Point{X: 300, Y: 0}}
	snap.Nodes["n3"] = &topo.Node{ID: "n3", Name: "W3", Coord: geom.Point{X: 300, Y: 200}}
	snap.Edges["e1"] = &topo.Edge{
		ID:    "e1",
		NodeA: "n1",
		NodeB: "n2",
		Order: []geom.RawRef{{ID: "l1"}, {ID: "a1"}, {ID: "l2"}},
	}
	snap.Edges["e2"] = &topo.Edge{ID: "e2", NodeA: "n2", NodeB: "n3"}
	snap.Geometry["e1"] = &topo.EdgeGeometry{
		Lines: map[string][]geom.Point{
			"l1": {{X: 0, Y: 0}, {X: 100, Y: 0}},
			"l2": {{X: 150, Y: 50}, {X: 300, Y: 0}},
		},
		Arcs: map[string]geom.ArcSpec{
			"a1": {ID: "a1", Points: []geom.Point{{X: 100, Y: 0}, {X: 150, Y: 50}}, Radius: 50},
		},
	}
	snap.Elements = []topo.PointElement{
		{ID: "b1", Name: "B1", Kind: topo.ElementBalise, EdgeID: "e1", IK: 50},
		{ID: "s1", Name: "S1", Kind: topo.ElementSignal, EdgeID: "e2", IK: 0.5},
	}
	snap.SpeedRanges = []topo.SpeedRange{
		{ID: "v1", EdgeID: "e1", FromIK: 0, ToIK: 0.5, VMaxKmh: 120},
	}
	store := topo.NewStore()
	store.Replace(snap)
	return store
}

func TestLocated_EdgePolylines(t *testing.T) {
	plan := Located(fixtureStore(), 5)
	require.Len(t, plan.Edges, 2)

	e1 := plan.Edges[0]
	assert.Equal(t, "e1", e1.ID)
	assert.False(t, e1.Fallback)
	require.GreaterOrEqual(t, len(e1.Points), 4)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, e1.Points[0])
	assert.Equal(t, geom.Point{X: 300, Y: 0}, e1.Points[len(e1.Points)-1])

	e2 := plan.Edges[1]
	assert.Equal(t, "e2", e2.ID)
	assert.True(t, e2.Fallback, "edge without geometry must degrade to the node line")
	require.Len(t, e2.Points, 2)
	assert.Equal(t, geom.Point{X: 300, Y: 0}, e2.Points[0])
	assert.Equal(t, geom.Point{X: 300, Y: 200}, e2.Points[1])
	assert.InDelta(t, 200, e2.Length, 1e-9)
}

func TestLocated_ElementPlacement(t *testing.T) {
	plan := Located(fixtureStore(), 5)
	require.Len(t, plan.Elements, 2)

	// 50 m down e1 sits on the first straight run.
	b1 := plan.Elements[0]
	assert.True(t, b1.Placed)
	assert.InDelta(t, 50, b1.At.X, 1e-9)
	assert.InDelta(t, 0, b1.At.Y, 1e-9)

	// e2 has no geometry: the signal is interpolated on the fallback
	// line and marked accordingly.
	s1 := plan.Elements[1]
	assert.False(t, s1.Placed)
	assert.InDelta(t, 300, s1.At.X, 1e-9)
	assert.InDelta(t, 100, s1.At.Y, 1e-9)
}

func TestLocated_OverlaySpans(t *testing.T) {
	store := fixtureStore()
	plan := Located(store, 5)
	require.Len(t, plan.Overlays, 1)

	span := plan.Overlays[0]
	assert.Equal(t, "e1", span.EdgeID)
	require.GreaterOrEqual(t, len(span.Points), 2)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, span.Points[0])

	path := store.PathFor("e1")
	want, ok := path.PointAt(0.5)
	require.True(t, ok)
	last := span.Points[len(span.Points)-1]
	assert.InDelta(t, want.X, last.X, 1e-9)
	assert.InDelta(t, want.Y, last.Y, 1e-9)
}

func TestDynamic_Layout(t *testing.T) {
	plan := Dynamic(fixtureStore())
	require.Len(t, plan.Nodes, 3)
	require.Len(t, plan.Edges, 2)

	byID := make(map[string]DynamicNode)
	for _, n := range plan.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, 0, byID["n1"].Column)
	assert.Equal(t, 1, byID["n2"].Column)
	assert.Equal(t, 2, byID["n3"].Column)
	assert.Equal(t, 0, byID["n1"].Lane)
}

func TestDynamic_Deterministic(t *testing.T) {
	store := fixtureStore()
	first := Dynamic(store)
	second := Dynamic(store)
	assert.Equal(t, first.Nodes, second.Nodes)
	assert.Equal(t, first.Edges, second.Edges)
}

func TestNearestEdge(t *testing.T) {
	store := fixtureStore()

	id, dist, ok := NearestEdge(store, geom.Point{X: 50, Y: 5}, 5)
	require.True(t, ok)
	assert.Equal(t, "e1", id)
	assert.InDelta(t, 5, dist, 1e-9)

	// Near the fallback line of e2.
	id, dist, ok = NearestEdge(store, geom.Point{X: 290, Y: 100}, 5)
	require.True(t, ok)
	assert.Equal(t, "e2", id)
	assert.InDelta(t, 10, dist, 1e-9)
}

func TestNearestEdge_EmptyTopology(t *testing.T) {
	store := topo.NewStore()
	_, _, ok := NearestEdge(store, geom.Point{}, 5)
	assert.False(t, ok)
}

func TestPointToSegment(t *testing.T) {
	a := geom.Point{X: 0, Y: 0}
	b := geom.Point{X: 10, Y: 0}

	assert.InDelta(t, 3, pointToSegment(geom.Point{X: 5, Y: 3}, a, b), 1e-9)
	assert.InDelta(t, 5, pointToSegment(geom.Point{X: -3, Y: 4}, a, b), 1e-9, "beyond the start clamps to the endpoint")
	assert.InDelta(t, math.Sqrt2, pointToSegment(geom.Point{X: 11, Y: 1}, a, b), 1e-9)
	assert.InDelta(t, 2*math.Sqrt2, pointToSegment(geom.Point{X: 2, Y: 2}, a, a), 1e-9, "degenerate segment")
}
