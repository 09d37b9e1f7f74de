package services

import (
	"math"

	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-kml/v2"
	"github.com/twpayne/go-polyline"

	"github.com/finnrmn/GraphVisualizerV2/internal/config"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/viewplan"
)

// BuildGeoJSON renders a located plan as a GeoJSON feature collection
// in site coordinates: nodes and point elements become Point features,
// edge polylines and overlay spans become LineStrings.
func BuildGeoJSON(plan *viewplan.LocatedPlan) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, n := range plan.Nodes {
		f := geojson.NewPointFeature([]float64{n.At.X, n.At.Y})
		f.SetProperty("kind", "node")
		f.SetProperty("id", n.ID)
		f.SetProperty("name", n.Name)
		fc.AddFeature(f)
	}

	for _, e := range plan.Edges {
		f := geojson.NewLineStringFeature(toCoords(e.Points))
		f.SetProperty("kind", "edge")
		f.SetProperty("id", e.ID)
		f.SetProperty("from", e.From)
		f.SetProperty("to", e.To)
		f.SetProperty("length", e.Length)
		if e.Fallback {
			f.SetProperty("fallback", true)
		}
		fc.AddFeature(f)
	}

	for _, el := range plan.Elements {
		f := geojson.NewPointFeature([]float64{el.At.X, el.At.Y})
		f.SetProperty("kind", string(el.Kind))
		f.SetProperty("id", el.ID)
		f.SetProperty("name", el.Name)
		f.SetProperty("edgeId", el.EdgeID)
		f.SetProperty("ik", el.IK)
		fc.AddFeature(f)
	}

	for _, ov := range plan.Overlays {
		f := geojson.NewLineStringFeature(toCoords(ov.Points))
		f.SetProperty("kind", "speed")
		f.SetProperty("edgeId", ov.EdgeID)
		f.SetProperty("vmaxKmh", ov.VMaxKmh)
		fc.AddFeature(f)
	}
	return fc
}

// BuildKML renders a located plan as KML, mapping the planar site frame
// onto the earth at the configured origin. x runs east and y north, in
// an equirectangular approximation around the origin latitude.
func BuildKML(plan *viewplan.LocatedPlan, origin config.GeoOrigin) *kml.CompoundElement {
	var children []kml.Element
	children = append(children, kml.Name("GraphVisualizer located view"))

	for _, n := range plan.Nodes {
		children = append(children, kml.Placemark(
			kml.Name(n.Name),
			kml.Point(kml.Coordinates(toGeo(n.At, origin))),
		))
	}
	for _, e := range plan.Edges {
		coords := make([]kml.Coordinate, 0, len(e.Points))
		for _, p := range e.Points {
			coords = append(coords, toGeo(p, origin))
		}
		children = append(children, kml.Placemark(
			kml.Name(e.ID),
			kml.LineString(kml.Coordinates(coords...)),
		))
	}
	for _, el := range plan.Elements {
		children = append(children, kml.Placemark(
			kml.Name(el.Name),
			kml.Point(kml.Coordinates(toGeo(el.At, origin))),
		))
	}
	return kml.KML(kml.Document(children...))
}

// metersPerDegree is the meridian arc length of one degree of latitude.
const metersPerDegree = 111320.0

// toGeo maps a site coordinate to lon/lat around the export origin.
func toGeo(p geom.Point, origin config.GeoOrigin) kml.Coordinate {
	lat := origin.Latitude + p.Y/metersPerDegree
	lon := origin.Longitude + p.X/(metersPerDegree*math.Cos(origin.Latitude*math.Pi/180))
	return kml.Coordinate{Lon: lon, Lat: lat}
}

// EncodePolyline packs a polyline into the Google encoded-polyline
// format, pairs ordered (y, x) to match the codec's lat/lng convention.
// Precision is the codec's 1e-5, about a centimeter at site scale.
func EncodePolyline(pts []geom.Point) string {
	coords := make([][]float64, 0, len(pts))
	for _, p := range pts {
		coords = append(coords, []float64{p.Y, p.X})
	}
	return string(polyline.EncodeCoords(coords))
}

func toCoords(pts []geom.Point) [][]float64 {
	coords := make([][]float64, 0, len(pts))
	for _, p := range pts {
		coords = append(coords, []float64{p.X, p.Y})
	}
	return coords
}
