package viewplan

import (
	"sort"

	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
)

// DynamicNode places one node on the schematic column/lane grid.
type DynamicNode struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Column int    `json:"column"`
	Lane   int    `json:"lane"`
}

// DynamicEdge is one edge of the schematic view; geometry is left to
// the frontend's edge routing.
type DynamicEdge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// DynamicPlan is the render plan for the schematic topology view.
type DynamicPlan struct {
	SnapshotID string        `json:"snapshotId"`
	Nodes      []DynamicNode `json:"nodes"`
	Edges      []DynamicEdge `json:"edges"`
}

// Dynamic lays the topology out on a column/lane grid: columns are BFS
// distance from a deterministic root (smallest node id per connected
// component), lanes pack the nodes of a column in id order. The layout
// is fully deterministic for a given snapshot.
func Dynamic(store *topo.Store) *DynamicPlan {
	snap := store.Current()
	plan := &DynamicPlan{SnapshotID: snap.ID}

	adj := make(map[string][]string, len(snap.Nodes))
	for _, id := range snap.EdgeIDs() {
		e := snap.Edges[id]
		adj[e.NodeA] = append(adj[e.NodeA], e.NodeB)
		adj[e.NodeB] = append(adj[e.NodeB], e.NodeA)
		plan.Edges = append(plan.Edges, DynamicEdge{ID: e.ID, From: e.NodeA, To: e.NodeB})
	}

	columns := assignColumns(sortedNodeIDs(snap), adj)

	// Lane packing: nodes of the same column get lanes in id order.
	byColumn := make(map[int][]string)
	for id, col := range columns {
		byColumn[col] = append(byColumn[col], id)
	}
	lanes := make(map[string]int, len(columns))
	for _, ids := range byColumn {
		sort.Strings(ids)
		for lane, id := range ids {
			lanes[id] = lane
		}
	}

	for _, id := range sortedNodeIDs(snap) {
		n := snap.Nodes[id]
		plan.Nodes = append(plan.Nodes, DynamicNode{
			ID:     n.ID,
			Name:   n.Name,
			Column: columns[id],
			Lane:   lanes[id],
		})
	}
	return plan
}

// assignColumns runs BFS per connected component, in sorted root order
// so disconnected parts still lay out deterministically.
func assignColumns(ids []string, adj map[string][]string) map[string]int {
	columns := make(map[string]int, len(ids))
	visited := make(map[string]bool, len(ids))

	for _, root := range ids {
		if visited[root] {
			continue
		}
		visited[root] = true
		columns[root] = 0
		queue := []string{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			next := append([]string(nil), adj[cur]...)
			sort.Strings(next)
			for _, nb := range next {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				columns[nb] = columns[cur] + 1
				queue = append(queue, nb)
			}
		}
	}
	return columns
}

func sortStrings(ids []string) {
	sort.Strings(ids)
}
