package plan

// Wire types for the schema-described topology source. The source is
// loosely typed: coordinates may be missing or non-numeric, radii carry
// their turn direction in the sign, and element kinds are free-form
// strings. Normalization tightens all of that before anything reaches
// the geometry engine.

// schemaDoc describes where each collection lives on the source.
type schemaDoc struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Resources map[string]string `json:"resources"`
}

// Resource keys used in the schema document. Missing entries fall back
// to the conventional paths.
const (
	resNodes       = "nodes"
	resEdges       = "edges"
	resLines       = "lines"
	resArcs        = "arcs"
	resTransitions = "transitions"
	resBalises     = "balises"
	resSignals     = "signals"
	resTDS         = "tdsComponents"
	resSpeed       = "speedProfiles"
)

var defaultResourcePaths = map[string]string{
	resNodes:       "/topology/nodes",
	resEdges:       "/topology/edges",
	resLines:       "/geometry/lines",
	resArcs:        "/geometry/arcs",
	resTransitions: "/geometry/transitions",
	resBalises:     "/elements/balises",
	resSignals:     "/elements/signals",
	resTDS:         "/elements/tds",
	resSpeed:       "/overlays/speed",
}

// wirePoint uses pointer fields so absent coordinates are
// distinguishable from zero.
type wirePoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type wireNode struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Coord wirePoint `json:"coord"`
}

type wireRef struct {
	Ref    string      `json:"ref"`
	Points []wirePoint `json:"points,omitempty"`
}

type wireEdge struct {
	ID           string    `json:"id"`
	NodeA        string    `json:"nodeA"`
	NodeB        string    `json:"nodeB"`
	RefNodeIsA   bool      `json:"refNodeIsA"`
	Length       float64   `json:"length,omitempty"`
	ElementOrder []wireRef `json:"elementOrder"`
}

type wirePrimitive struct {
	ID     string      `json:"id"`
	EdgeID string      `json:"edgeId"`
	Points []wirePoint `json:"points"`
	Radius float64     `json:"radius,omitempty"`
	Center *wirePoint  `json:"center,omitempty"`
}

type wireElement struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	EdgeID string  `json:"edgeId"`
	IK     float64 `json:"ik"`
	Kind   string  `json:"kind,omitempty"`
}

type wireSpeedRange struct {
	ID     string  `json:"id"`
	EdgeID string  `json:"edgeId"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	VMax   float64 `json:"vmax"`
}

// payload aggregates everything fetched in one load cycle.
type payload struct {
	nodes       []wireNode
	edges       []wireEdge
	lines       []wirePrimitive
	arcs        []wirePrimitive
	transitions []wirePrimitive
	balises     []wireElement
	signals     []wireElement
	tds         []wireElement
	speed       []wireSpeedRange
}
