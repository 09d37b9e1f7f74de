package topo

import (
	"fmt"
	"sync"

	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
)

// Store owns the current topology snapshot and a per-edge cache of
// assembled paths. Paths are computed lazily on first access and frozen;
// replacing the snapshot drops the whole cache. Concurrent readers may
// race on an uncached edge and assemble it twice; assembly is pure, so
// the loser's copy is simply discarded instead of holding a lock across
// the computation.
type Store struct {
	mu    sync.RWMutex
	snap  *Snapshot
	paths map[string]*geom.Path
}

// NewStore creates a store with an empty snapshot.
func NewStore() *Store {
	return &Store{
		snap:  NewSnapshot(),
		paths: make(map[string]*geom.Path),
	}
}

// Replace swaps in a new snapshot and invalidates every cached path.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.paths = make(map[string]*geom.Path)
}

// InvalidateAll drops all cached paths while keeping the snapshot.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = make(map[string]*geom.Path)
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// PathFor returns the assembled path for an edge, building and caching
// it on first access. Unknown edges return nil. An edge without usable
// geometry yields a cached empty path; the straight node-to-node
// fallback is the caller's policy.
func (s *Store) PathFor(edgeID string) *geom.Path {
	s.mu.RLock()
	if p, ok := s.paths[edgeID]; ok {
		s.mu.RUnlock()
		return p
	}
	snap := s.snap
	s.mu.RUnlock()

	edge, ok := snap.Edges[edgeID]
	if !ok {
		return nil
	}
	path := assembleEdge(snap, edge)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != snap {
		// Reload happened mid-assembly; serve the stale result once but
		// do not poison the fresh cache with it.
		return path
	}
	if existing, ok := s.paths[edgeID]; ok {
		return existing
	}
	s.paths[edgeID] = path
	return path
}

// assembleEdge builds the geometry spec for one edge and runs assembly.
func assembleEdge(snap *Snapshot, edge *Edge) *geom.Path {
	spec := geom.EdgeGeometrySpec{Order: edge.Order}
	if n, ok := snap.Nodes[edge.NodeA]; ok {
		spec.A = n.Coord
	}
	if n, ok := snap.Nodes[edge.NodeB]; ok {
		spec.B = n.Coord
	}
	if g, ok := snap.Geometry[edge.ID]; ok {
		spec.Lines = g.Lines
		spec.Transitions = g.Transitions
		spec.Arcs = g.Arcs
	}
	path := geom.Assemble(spec)
	return &path
}

// ProjectIntrinsicToXY maps an intrinsic coordinate on an edge to a site
// coordinate. Values in [0,1] are fractions of the edge length, others
// absolute meters (see geom.Path.PointAt for the ambiguity caveat).
// ok is false for unknown edges or unusable geometry.
func (s *Store) ProjectIntrinsicToXY(edgeID string, ik float64) (geom.Point, bool) {
	path := s.PathFor(edgeID)
	if path == nil {
		return geom.Point{}, false
	}
	return path.PointAt(ik)
}

// EdgePolyline returns a display polyline for an edge, subdividing arcs
// so no chord exceeds maxChord. nil for unknown edges, empty for edges
// without usable geometry.
func (s *Store) EdgePolyline(edgeID string, maxChord float64) []geom.Point {
	path := s.PathFor(edgeID)
	if path == nil {
		return nil
	}
	return path.Sample(maxChord)
}

// EdgeLength returns the assembled arc length of an edge. ok is false
// for unknown edges or edges with no usable geometry.
func (s *Store) EdgeLength(edgeID string) (float64, bool) {
	path := s.PathFor(edgeID)
	if path == nil || path.Length <= 0 {
		return 0, false
	}
	return path.Length, true
}

// SegmentRecord is the wire form of one assembled segment, with a
// stable identifier derived from its position on the edge.
type SegmentRecord struct {
	ID         string      `json:"id"`
	EdgeID     string      `json:"edgeId"`
	Kind       string      `json:"kind"`
	P1         geom.Point  `json:"p1"`
	P2         geom.Point  `json:"p2"`
	Center     *geom.Point `json:"center,omitempty"`
	Radius     float64     `json:"radius,omitempty"`
	StartAngle float64     `json:"startAngle,omitempty"`
	EndAngle   float64     `json:"endAngle,omitempty"`
	Sweep      float64     `json:"sweep,omitempty"`
	Length     float64     `json:"length"`
}

// EdgeSegmentsOrdered returns the assembled segments of an edge in path
// order, each with the stable id "<edgeID>:<index>". nil for unknown
// edges.
func (s *Store) EdgeSegmentsOrdered(edgeID string) []SegmentRecord {
	path := s.PathFor(edgeID)
	if path == nil {
		return nil
	}
	records := make([]SegmentRecord, 0, len(path.Segments))
	for i, seg := range path.Segments {
		rec := SegmentRecord{
			ID:     fmt.Sprintf("%s:%d", edgeID, i),
			EdgeID: edgeID,
			Kind:   seg.Kind.String(),
			P1:     seg.P1,
			P2:     seg.P2,
			Length: seg.Length,
		}
		if seg.Kind == geom.KindArc {
			c := seg.Center
			rec.Center = &c
			rec.Radius = seg.Radius
			rec.StartAngle = seg.StartAngle
			rec.EndAngle = seg.EndAngle
			rec.Sweep = seg.Sweep
		}
		records = append(records, rec)
	}
	return records
}

// NodeCoords returns both boundary node coordinates of an edge. ok is
// false when the edge or either node is missing.
func (s *Store) NodeCoords(edgeID string) (a, b geom.Point, ok bool) {
	snap := s.Current()
	edge, found := snap.Edges[edgeID]
	if !found {
		return geom.Point{}, geom.Point{}, false
	}
	na, okA := snap.Nodes[edge.NodeA]
	nb, okB := snap.Nodes[edge.NodeB]
	if !okA || !okB {
		return geom.Point{}, geom.Point{}, false
	}
	return na.Coord, nb.Coord, true
}
