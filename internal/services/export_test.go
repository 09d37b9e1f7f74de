package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"

	"github.com/finnrmn/GraphVisualizerV2/internal/config"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/viewplan"
)

func exportPlan() *viewplan.LocatedPlan {
	return &viewplan.LocatedPlan{
		SnapshotID: "snap-1",
		Nodes: []viewplan.NodePlan{
			{ID: "n1", Name: "N1", At: geom.Point{X: 0, Y: 0}},
			{ID: "n2", Name: "N2", At: geom.Point{X: 300, Y: 0}},
		},
		Edges: []viewplan.EdgePlan{
			{ID: "e1", From: "n1", To: "n2", Length: 300,
				Points: []geom.Point{{X: 0, Y: 0}, {X: 300, Y: 0}}},
			{ID: "e2", From: "n2", To: "n3", Length: 0, Fallback: true,
				Points: []geom.Point{{X: 300, Y: 0}, {X: 300, Y: 200}}},
		},
		Elements: []viewplan.ElementPlan{
			{ID: "b1", Name: "B1", Kind: topo.ElementBalise, EdgeID: "e1", IK: 50,
				At: geom.Point{X: 50, Y: 0}, Placed: true},
		},
		Overlays: []viewplan.OverlaySpan{
			{EdgeID: "e1", FromIK: 0, ToIK: 0.5, VMaxKmh: 80,
				Points: []geom.Point{{X: 0, Y: 0}, {X: 150, Y: 0}}},
		},
	}
}

func TestBuildGeoJSON(t *testing.T) {
	fc := BuildGeoJSON(exportPlan())

	// 2 nodes + 2 edges + 1 element + 1 overlay.
	require.Len(t, fc.Features, 6)

	nodes, edges, overlays := 0, 0, 0
	for _, f := range fc.Features {
		switch f.Properties["kind"] {
		case "node":
			nodes++
		case "edge":
			edges++
		case "speed":
			overlays++
		}
	}
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 2, edges)
	assert.Equal(t, 1, overlays)
}

func TestBuildGeoJSON_MarksFallbackEdges(t *testing.T) {
	fc := BuildGeoJSON(exportPlan())

	for _, f := range fc.Features {
		if f.Properties["kind"] != "edge" {
			continue
		}
		if f.Properties["id"] == "e2" {
			assert.Equal(t, true, f.Properties["fallback"])
		} else {
			assert.NotContains(t, f.Properties, "fallback")
		}
	}
}

func TestBuildKML_OriginMapsToConfiguredCoordinates(t *testing.T) {
	origin := config.GeoOrigin{Latitude: 49.0, Longitude: 8.4}

	c := toGeo(geom.Point{X: 0, Y: 0}, origin)
	assert.InDelta(t, 8.4, c.Lon, 1e-12)
	assert.InDelta(t, 49.0, c.Lat, 1e-12)

	// 111320 m north is one degree of latitude.
	c = toGeo(geom.Point{X: 0, Y: 111320}, origin)
	assert.InDelta(t, 50.0, c.Lat, 1e-9)
	assert.InDelta(t, 8.4, c.Lon, 1e-12)

	// Eastward meters shrink by cos(lat).
	c = toGeo(geom.Point{X: 111320, Y: 0}, origin)
	assert.Greater(t, c.Lon-8.4, 1.0)
	assert.InDelta(t, 49.0, c.Lat, 1e-12)
}

func TestBuildKML_Serializes(t *testing.T) {
	doc := BuildKML(exportPlan(), config.DefaultConfig().Export.GeoOrigin)
	require.NotNil(t, doc)
}

func TestEncodePolyline_RoundTrips(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 100.5, Y: 0}, {X: 150, Y: 50.25}}
	encoded := EncodePolyline(pts)
	require.NotEmpty(t, encoded)

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	require.NoError(t, err)
	require.Len(t, coords, 3)
	// Pairs are (y, x); codec precision is 1e-5.
	assert.InDelta(t, 50.25, coords[2][0], 1e-5)
	assert.InDelta(t, 150, coords[2][1], 1e-5)
}
