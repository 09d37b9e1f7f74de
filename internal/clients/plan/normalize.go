package plan

import (
	"math"
	"strings"

	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
)

// normalize converts the raw payload into a typed snapshot. Records
// with missing identifiers are dropped; missing or non-finite
// coordinates become non-finite points that the geometry layer filters
// out, so no NaN reaches angle or length math.
func normalize(p *payload) *topo.Snapshot {
	snap := topo.NewSnapshot()

	for _, n := range p.nodes {
		if n.ID == "" {
			continue
		}
		coord := toPoint(n.Coord)
		if !coord.IsFinite() {
			continue
		}
		snap.Nodes[n.ID] = &topo.Node{ID: n.ID, Name: n.Name, Coord: coord}
	}

	for _, e := range p.edges {
		if e.ID == "" {
			continue
		}
		snap.Edges[e.ID] = &topo.Edge{
			ID:             e.ID,
			NodeA:          e.NodeA,
			NodeB:          e.NodeB,
			RefNodeIsA:     e.RefNodeIsA,
			DeclaredLength: e.Length,
			Order:          toRawRefs(e.ElementOrder),
		}
		snap.Geometry[e.ID] = &topo.EdgeGeometry{
			Lines:       make(map[string][]geom.Point),
			Transitions: make(map[string][]geom.Point),
			Arcs:        make(map[string]geom.ArcSpec),
		}
	}

	for _, prim := range p.lines {
		if g := snap.Geometry[prim.EdgeID]; g != nil && prim.ID != "" {
			g.Lines[prim.ID] = toPoints(prim.Points)
		}
	}
	for _, prim := range p.transitions {
		if g := snap.Geometry[prim.EdgeID]; g != nil && prim.ID != "" {
			g.Transitions[prim.ID] = toPoints(prim.Points)
		}
	}
	for _, prim := range p.arcs {
		g := snap.Geometry[prim.EdgeID]
		if g == nil || prim.ID == "" {
			continue
		}
		spec := geom.ArcSpec{
			ID:     prim.ID,
			Points: toPoints(prim.Points),
			Radius: prim.Radius,
		}
		if prim.Center != nil {
			center := toPoint(*prim.Center)
			if center.IsFinite() {
				spec.Center = &center
			}
		}
		g.Arcs[prim.ID] = spec
	}

	snap.Elements = append(snap.Elements, toElements(p.balises, topo.ElementBalise)...)
	snap.Elements = append(snap.Elements, toElements(p.signals, topo.ElementSignal)...)
	snap.Elements = append(snap.Elements, toElements(p.tds, topo.ElementTDS)...)

	for _, sr := range p.speed {
		if sr.ID == "" || sr.EdgeID == "" {
			continue
		}
		snap.SpeedRanges = append(snap.SpeedRanges, topo.SpeedRange{
			ID:      sr.ID,
			EdgeID:  sr.EdgeID,
			FromIK:  sr.From,
			ToIK:    sr.To,
			VMaxKmh: sr.VMax,
		})
	}
	return snap
}

// toElements normalizes one point-element collection. A free-form kind
// on the record overrides the collection default only when it is one of
// the known kinds; everything else stays with the collection kind, and
// a collection-less record would be generic.
func toElements(records []wireElement, kind topo.ElementKind) []topo.PointElement {
	out := make([]topo.PointElement, 0, len(records))
	for _, r := range records {
		if r.ID == "" || r.EdgeID == "" {
			continue
		}
		k := kind
		switch strings.ToLower(r.Kind) {
		case "":
			// collection default
		case string(topo.ElementBalise):
			k = topo.ElementBalise
		case string(topo.ElementSignal):
			k = topo.ElementSignal
		case string(topo.ElementTDS), "axle_counter", "axlecounter", "track_circuit":
			k = topo.ElementTDS
		default:
			k = topo.ElementGeneric
		}
		if math.IsNaN(r.IK) || math.IsInf(r.IK, 0) {
			continue
		}
		out = append(out, topo.PointElement{
			ID:     r.ID,
			Name:   r.Name,
			Kind:   k,
			EdgeID: r.EdgeID,
			IK:     r.IK,
		})
	}
	return out
}

func toRawRefs(refs []wireRef) []geom.RawRef {
	out := make([]geom.RawRef, 0, len(refs))
	for _, r := range refs {
		if r.Ref == "" && len(r.Points) == 0 {
			continue
		}
		out = append(out, geom.RawRef{ID: r.Ref, Points: toPoints(r.Points)})
	}
	return out
}

func toPoints(pts []wirePoint) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		out = append(out, toPoint(p))
	}
	return out
}

// toPoint maps absent coordinates to NaN so the finite-point filter in
// the geometry layer drops them.
func toPoint(p wirePoint) geom.Point {
	pt := geom.Point{X: math.NaN(), Y: math.NaN()}
	if p.X != nil {
		pt.X = *p.X
	}
	if p.Y != nil {
		pt.Y = *p.Y
	}
	return pt
}
