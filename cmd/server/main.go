package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/dpup/prefab"

	"github.com/finnrmn/GraphVisualizerV2/internal/cache"
	"github.com/finnrmn/GraphVisualizerV2/internal/clients/plan"
	"github.com/finnrmn/GraphVisualizerV2/internal/config"
	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
	"github.com/finnrmn/GraphVisualizerV2/internal/services"
)

func main() {
	appConfig := loadConfig()

	cacheInstance := cache.New()
	store := topo.NewStore()
	planClient := plan.NewClient(appConfig.Source.BaseURL)

	topologyService := services.NewTopologyService(planClient, store, cacheInstance, appConfig)
	apiHandler := services.NewAPIHandler(topologyService, appConfig)

	log.Printf("GraphVisualizer server starting")
	log.Printf("Plan source: %s (refresh every %v)", appConfig.Source.BaseURL, appConfig.Source.RefreshInterval)

	ctx := context.Background()

	// Load the first snapshot before serving; a failed source just means
	// an empty topology until the periodic refresh succeeds.
	initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	if err := topologyService.Refresh(initCtx); err != nil {
		log.Printf("Initial topology load failed: %v", err)
	}
	cancel()

	periodicRefresh := services.NewPeriodicRefreshService(topologyService, appConfig)
	if err := periodicRefresh.StartPeriodicRefresh(ctx); err != nil {
		log.Printf("Failed to start periodic refresh: %v", err)
	}

	cacheInstance.StartPeriodicCleanup(ctx, appConfig.Source.StaleThreshold)

	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
		prefab.WithHTTPHandlerFunc("/api/v1/", apiHandler.ServeAPI),
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig layers prefab's config system (prefab.yaml plus PF__
// environment variables) over the built-in defaults.
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	if err := prefab.Config.Unmarshal("source", &appConfig.Source); err != nil {
		log.Fatalf("Failed to unmarshal source section: %v", err)
	}
	if err := prefab.Config.Unmarshal("render", &appConfig.Render); err != nil {
		log.Fatalf("Failed to unmarshal render section: %v", err)
	}
	if err := prefab.Config.Unmarshal("export", &appConfig.Export); err != nil {
		log.Fatalf("Failed to unmarshal export section: %v", err)
	}

	defaults := config.DefaultConfig()
	if appConfig.Source.BaseURL == "" {
		appConfig.Source.BaseURL = defaults.Source.BaseURL
	}
	if appConfig.Source.RefreshInterval <= 0 {
		appConfig.Source.RefreshInterval = defaults.Source.RefreshInterval
	}
	if appConfig.Source.StaleThreshold <= 0 {
		appConfig.Source.StaleThreshold = defaults.Source.StaleThreshold
	}
	if appConfig.Render.MaxChordLength <= 0 {
		appConfig.Render.MaxChordLength = defaults.Render.MaxChordLength
	}

	return appConfig
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>GraphVisualizer</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">GraphVisualizer</span>

Railway topology server: reconstructs track geometry from a schema
described plan source and serves render plans for visualization.

<span class="header">API Endpoints:</span>

Topology:
  <a href="/api/v1/topology/located">GET /api/v1/topology/located</a>       - Located (geometric) render plan
  <a href="/api/v1/topology/dynamic">GET /api/v1/topology/dynamic</a>       - Dynamic (schematic) render plan

Edges:
  <a href="/api/v1/edges">GET /api/v1/edges</a>                  - List edges with assembled lengths
  GET /api/v1/edges/{id}/polyline    - Display polyline (?maxChord=, ?format=points|encoded)
  GET /api/v1/edges/{id}/segments    - Assembled segments in path order
  GET /api/v1/project?edge=&amp;ik=      - Project an intrinsic coordinate to x/y

Export:
  <a href="/api/v1/export/geojson">GET /api/v1/export/geojson</a>         - Located view as GeoJSON
  <a href="/api/v1/export/kml">GET /api/v1/export/kml</a>             - Located view as KML
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
