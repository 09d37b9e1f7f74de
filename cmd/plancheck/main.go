package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/finnrmn/GraphVisualizerV2/internal/clients/plan"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/geom"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
)

func main() {
	var (
		source  = flag.String("source", "http://localhost:9090", "Base URL of the plan source")
		edgeID  = flag.String("edge", "", "Check a single edge instead of all edges")
		verbose = flag.Bool("verbose", false, "Print per-segment detail")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Plan Assembly Check Tool\n\n")
		fmt.Printf("Fetches a topology plan and reports how each edge's geometry assembles.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -source=http://localhost:9090\n", os.Args[0])
		fmt.Printf("  %s -edge=e1 -verbose\n", os.Args[0])
		return
	}

	fmt.Printf("Plan Assembly Check\n")
	fmt.Printf("===================\n")
	fmt.Printf("Source: %s\n\n", *source)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := plan.NewClient(*source)
	snap, err := client.FetchSnapshot(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch plan: %v", err)
	}

	fmt.Printf("Snapshot %s: %d nodes, %d edges, %d elements, %d speed ranges\n\n",
		snap.ID, len(snap.Nodes), len(snap.Edges), len(snap.Elements), len(snap.SpeedRanges))

	store := topo.NewStore()
	store.Replace(snap)

	ids := snap.EdgeIDs()
	if *edgeID != "" {
		if _, ok := snap.Edges[*edgeID]; !ok {
			log.Fatalf("Unknown edge: %s", *edgeID)
		}
		ids = []string{*edgeID}
	}

	var empty, gapped int
	for _, id := range ids {
		if !checkEdge(store, snap, id, *verbose) {
			gapped++
		}
		if path := store.PathFor(id); path != nil && len(path.Segments) == 0 {
			empty++
		}
	}

	fmt.Printf("\nChecked %d edges: %d without geometry, %d with continuity gaps\n",
		len(ids), empty, gapped)
}

// checkEdge prints one edge's assembly summary and returns false when
// consecutive segments do not join within the snap tolerance.
func checkEdge(store *topo.Store, snap *topo.Snapshot, id string, verbose bool) bool {
	edge := snap.Edges[id]
	path := store.PathFor(id)

	if len(path.Segments) == 0 {
		fmt.Printf("%-12s  no usable geometry (declared %.2f m)\n", id, edge.DeclaredLength)
		return true
	}

	maxGap := 0.0
	for i := 1; i < len(path.Segments); i++ {
		gap := path.Segments[i-1].P2.DistanceTo(path.Segments[i].P1)
		if gap > maxGap {
			maxGap = gap
		}
	}

	status := "ok"
	continuous := maxGap <= geom.SnapTolerance
	if !continuous {
		status = fmt.Sprintf("GAP %.4f m", maxGap)
	}

	delta := ""
	if edge.DeclaredLength > 0 {
		delta = fmt.Sprintf("  declared %.2f m (diff %+.3f)",
			edge.DeclaredLength, path.Length-edge.DeclaredLength)
	}

	fmt.Printf("%-12s  %2d segments  %9.2f m  %s%s\n",
		id, len(path.Segments), path.Length, status, delta)

	if verbose {
		for i, s := range path.Segments {
			if s.Kind == geom.KindArc {
				fmt.Printf("    [%2d] arc   %8.2f m  r=%.2f  sweep=%.1f°\n",
					i, s.Length, s.Radius, s.Sweep*180/math.Pi)
			} else {
				fmt.Printf("    [%2d] line  %8.2f m\n", i, s.Length)
			}
		}
	}

	return continuous
}
