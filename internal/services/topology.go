package services

import (
	"context"
	"fmt"
	"log"

	"github.com/finnrmn/GraphVisualizerV2/internal/cache"
	"github.com/finnrmn/GraphVisualizerV2/internal/config"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/viewplan"
)

// Cache keys for rendered plans; dropped wholesale on every reload.
const (
	planKeyPrefix  = "plan:"
	locatedPlanKey = planKeyPrefix + "located"
	dynamicPlanKey = planKeyPrefix + "dynamic"
)

// SnapshotFetcher loads a topology snapshot from the source.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (*topo.Snapshot, error)
}

// TopologyService owns the load cycle: fetch, normalize, swap the
// store, and serve render plans and per-edge geometry queries.
type TopologyService struct {
	fetcher SnapshotFetcher
	store   *topo.Store
	cache   *cache.Cache
	config  *config.Config
}

// NewTopologyService creates the service around an empty store.
func NewTopologyService(fetcher SnapshotFetcher, store *topo.Store, cache *cache.Cache, cfg *config.Config) *TopologyService {
	return &TopologyService{
		fetcher: fetcher,
		store:   store,
		cache:   cache,
		config:  cfg,
	}
}

// Store exposes the underlying topology store.
func (s *TopologyService) Store() *topo.Store {
	return s.store
}

// Refresh fetches a fresh snapshot and swaps it in, invalidating all
// assembled paths and cached render plans.
func (s *TopologyService) Refresh(ctx context.Context) error {
	log.Printf("Refreshing topology from source")

	snap, err := s.fetcher.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch topology snapshot: %w", err)
	}

	s.store.Replace(snap)
	s.cache.DeletePrefix(planKeyPrefix)

	log.Printf("Topology snapshot %s loaded: %d nodes, %d edges, %d elements, %d speed ranges",
		snap.ID, len(snap.Nodes), len(snap.Edges), len(snap.Elements), len(snap.SpeedRanges))
	return nil
}

// Located returns the located-view render plan, rebuilding it only when
// the cached copy expired or a reload dropped it.
func (s *TopologyService) Located(ctx context.Context) (*viewplan.LocatedPlan, error) {
	var cached viewplan.LocatedPlan
	found, err := s.cache.Get(locatedPlanKey, &cached)
	if err != nil {
		log.Printf("Cache error for located plan: %v", err)
	}
	if found {
		return &cached, nil
	}

	plan := viewplan.Located(s.store, s.config.Render.MaxChordLength)
	if err := s.cache.Set(locatedPlanKey, plan, s.config.Source.RefreshInterval, "viewplan"); err != nil {
		log.Printf("Failed to cache located plan: %v", err)
	}
	return plan, nil
}

// Dynamic returns the schematic-view render plan, cached like Located.
func (s *TopologyService) Dynamic(ctx context.Context) (*viewplan.DynamicPlan, error) {
	var cached viewplan.DynamicPlan
	found, err := s.cache.Get(dynamicPlanKey, &cached)
	if err != nil {
		log.Printf("Cache error for dynamic plan: %v", err)
	}
	if found {
		return &cached, nil
	}

	plan := viewplan.Dynamic(s.store)
	if err := s.cache.Set(dynamicPlanKey, plan, s.config.Source.RefreshInterval, "viewplan"); err != nil {
		log.Printf("Failed to cache dynamic plan: %v", err)
	}
	return plan, nil
}

// EdgeInfo is the list form of one edge.
type EdgeInfo struct {
	ID             string  `json:"id"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	RefNodeIsA     bool    `json:"refNodeIsA"`
	Length         float64 `json:"length,omitempty"`
	DeclaredLength float64 `json:"declaredLength,omitempty"`
	HasGeometry    bool    `json:"hasGeometry"`
}

// Edges lists all edges of the current snapshot with their assembled
// lengths.
func (s *TopologyService) Edges() []EdgeInfo {
	snap := s.store.Current()
	infos := make([]EdgeInfo, 0, len(snap.Edges))
	for _, id := range snap.EdgeIDs() {
		e := snap.Edges[id]
		info := EdgeInfo{
			ID:             e.ID,
			From:           e.NodeA,
			To:             e.NodeB,
			RefNodeIsA:     e.RefNodeIsA,
			DeclaredLength: e.DeclaredLength,
		}
		if length, ok := s.store.EdgeLength(id); ok {
			info.Length = length
			info.HasGeometry = true
		}
		infos = append(infos, info)
	}
	return infos
}

// Polyline returns an edge's display polyline. ok is false for unknown
// edges; for edges without geometry the straight node line is served,
// matching the located view's fallback.
func (s *TopologyService) Polyline(edgeID string, maxChord float64) ([]geom.Point, bool) {
	if maxChord <= 0 {
		maxChord = s.config.Render.MaxChordLength
	}
	pts := s.store.EdgePolyline(edgeID, maxChord)
	if len(pts) < 2 {
		a, b, ok := s.store.NodeCoords(edgeID)
		if !ok {
			return nil, false
		}
		return []geom.Point{a, b}, true
	}
	return pts, true
}

// Segments returns an edge's assembled segments in path order.
func (s *TopologyService) Segments(edgeID string) ([]topo.SegmentRecord, bool) {
	records := s.store.EdgeSegmentsOrdered(edgeID)
	if records == nil {
		return nil, false
	}
	return records, true
}

// Project maps an intrinsic coordinate on an edge to a site coordinate.
// The dual fraction/meters reading of geom.Path.PointAt applies.
func (s *TopologyService) Project(edgeID string, ik float64) (geom.Point, bool) {
	return s.store.ProjectIntrinsicToXY(edgeID, ik)
}
