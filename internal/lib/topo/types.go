// Package topo holds the normalized railway topology model for one load
// cycle and the store that serves assembled edge geometry from it.
package topo

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
)

// Node is a topology node: a switch, buffer stop or border point with a
// site coordinate.
type Node struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Coord geom.Point `json:"coord"`
}

// Edge is a track edge between two nodes. Order is the source's
// declared chaining sequence of geometric primitives, kept verbatim:
// it is ground truth for assembly, not the collection order.
// DeclaredLength is the source's own length statement (0 when absent);
// the assembled geometric length may differ slightly.
type Edge struct {
	ID             string        `json:"id"`
	NodeA          string        `json:"nodeA"`
	NodeB          string        `json:"nodeB"`
	RefNodeIsA     bool          `json:"refNodeIsA"`
	DeclaredLength float64       `json:"declaredLength,omitempty"`
	Order          []geom.RawRef `json:"-"`
}

// EdgeGeometry carries an edge's raw geometric primitives keyed by
// identifier.
type EdgeGeometry struct {
	Lines       map[string][]geom.Point
	Transitions map[string][]geom.Point
	Arcs        map[string]geom.ArcSpec
}

// ElementKind classifies point elements located on an edge.
type ElementKind string

const (
	ElementBalise  ElementKind = "balise"
	ElementSignal  ElementKind = "signal"
	ElementTDS     ElementKind = "tds"
	ElementGeneric ElementKind = "generic"
)

// PointElement is an entity located on an edge by intrinsic coordinate:
// a balise, a signal, or a train-detection component.
type PointElement struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Kind   ElementKind `json:"kind"`
	EdgeID string      `json:"edgeId"`
	IK     float64     `json:"ik"`
}

// SpeedRange is a speed-profile overlay spanning part of an edge.
type SpeedRange struct {
	ID      string  `json:"id"`
	EdgeID  string  `json:"edgeId"`
	FromIK  float64 `json:"fromIk"`
	ToIK    float64 `json:"toIk"`
	VMaxKmh float64 `json:"vmaxKmh"`
}

// Snapshot is the immutable result of one load cycle. Everything in it
// is frozen after construction; a reload produces a fresh snapshot.
type Snapshot struct {
	ID          string
	LoadedAt    time.Time
	Nodes       map[string]*Node
	Edges       map[string]*Edge
	Geometry    map[string]*EdgeGeometry
	Elements    []PointElement
	SpeedRanges []SpeedRange
}

// NewSnapshot creates an empty snapshot with a fresh identifier.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now(),
		Nodes:    make(map[string]*Node),
		Edges:    make(map[string]*Edge),
		Geometry: make(map[string]*EdgeGeometry),
	}
}

// EdgeIDs returns the snapshot's edge identifiers in sorted order.
func (s *Snapshot) EdgeIDs() []string {
	ids := make([]string, 0, len(s.Edges))
	for id := range s.Edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
