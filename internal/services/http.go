package services

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/finnrmn/GraphVisualizerV2/internal/config"
)

// APIHandler serves the JSON API under /api/v1/. All endpoints are
// read-only GETs over the current snapshot.
type APIHandler struct {
	topology *TopologyService
	config   *config.Config
}

// NewAPIHandler creates the handler for the given topology service.
func NewAPIHandler(topology *TopologyService, cfg *config.Config) *APIHandler {
	return &APIHandler{topology: topology, config: cfg}
}

// ServeAPI dispatches /api/v1/ requests. Register it with the path
// prefix "/api/v1/".
func (h *APIHandler) ServeAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "only GET is supported")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 2 && parts[0] == "topology" && parts[1] == "located":
		h.handleLocated(w, r)
	case len(parts) == 2 && parts[0] == "topology" && parts[1] == "dynamic":
		h.handleDynamic(w, r)
	case len(parts) == 1 && parts[0] == "edges":
		writeJSON(w, h.topology.Edges())
	case len(parts) == 3 && parts[0] == "edges" && parts[2] == "polyline":
		h.handlePolyline(w, r, parts[1])
	case len(parts) == 3 && parts[0] == "edges" && parts[2] == "segments":
		h.handleSegments(w, parts[1])
	case len(parts) == 1 && parts[0] == "project":
		h.handleProject(w, r)
	case len(parts) == 2 && parts[0] == "export" && parts[1] == "geojson":
		h.handleGeoJSON(w, r)
	case len(parts) == 2 && parts[0] == "export" && parts[1] == "kml":
		h.handleKML(w, r)
	default:
		writeError(w, http.StatusNotFound, "unknown endpoint")
	}
}

func (h *APIHandler) handleLocated(w http.ResponseWriter, r *http.Request) {
	plan, err := h.topology.Located(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, plan)
}

func (h *APIHandler) handleDynamic(w http.ResponseWriter, r *http.Request) {
	plan, err := h.topology.Dynamic(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, plan)
}

func (h *APIHandler) handlePolyline(w http.ResponseWriter, r *http.Request, edgeID string) {
	maxChord := 0.0
	if raw := r.URL.Query().Get("maxChord"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "maxChord must be a positive number")
			return
		}
		maxChord = v
	}

	pts, ok := h.topology.Polyline(edgeID, maxChord)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown edge: "+edgeID)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "points":
		writeJSON(w, map[string]any{"edgeId": edgeID, "points": pts})
	case "encoded":
		writeJSON(w, map[string]any{"edgeId": edgeID, "encoded": EncodePolyline(pts)})
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
	}
}

func (h *APIHandler) handleSegments(w http.ResponseWriter, edgeID string) {
	records, ok := h.topology.Segments(edgeID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown edge: "+edgeID)
		return
	}
	writeJSON(w, map[string]any{"edgeId": edgeID, "segments": records})
}

func (h *APIHandler) handleProject(w http.ResponseWriter, r *http.Request) {
	edgeID := r.URL.Query().Get("edge")
	if edgeID == "" {
		writeError(w, http.StatusBadRequest, "edge parameter is required")
		return
	}
	ik, err := strconv.ParseFloat(r.URL.Query().Get("ik"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ik must be a number")
		return
	}

	pt, ok := h.topology.Project(edgeID, ik)
	if !ok {
		writeError(w, http.StatusNotFound, "cannot project onto edge: "+edgeID)
		return
	}
	writeJSON(w, map[string]any{"edgeId": edgeID, "ik": ik, "point": pt})
}

func (h *APIHandler) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	plan, err := h.topology.Located(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, BuildGeoJSON(plan))
}

func (h *APIHandler) handleKML(w http.ResponseWriter, r *http.Request) {
	plan, err := h.topology.Located(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	doc := BuildKML(plan, h.config.Export.GeoOrigin)
	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	if err := doc.WriteIndent(w, "", "  "); err != nil {
		log.Printf("Failed to write KML response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
