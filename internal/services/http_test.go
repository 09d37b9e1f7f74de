package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *APIHandler {
	t.Helper()
	svc := newTestService(&stubFetcher{snap: serviceSnapshot()})
	require.NoError(t, svc.Refresh(context.Background()))
	return NewAPIHandler(svc, svc.config)
}

func apiGet(t *testing.T, h *APIHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeAPI(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServeAPI_Located(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/topology/located")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["snapshotId"])
	assert.Len(t, body["edges"], 2)
}

func TestServeAPI_Dynamic(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/topology/dynamic")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["nodes"], 3)
}

func TestServeAPI_Edges(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/edges")

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []EdgeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "e1", infos[0].ID)
}

func TestServeAPI_Polyline(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/edges/e1/polyline?maxChord=5")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "e1", body["edgeId"])
	assert.NotEmpty(t, body["points"])
}

func TestServeAPI_PolylineEncoded(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/edges/e1/polyline?format=encoded")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["encoded"])
}

func TestServeAPI_PolylineBadParams(t *testing.T) {
	h := newTestAPI(t)

	rec := apiGet(t, h, "/api/v1/edges/e1/polyline?maxChord=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = apiGet(t, h, "/api/v1/edges/e1/polyline?format=wkt")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = apiGet(t, h, "/api/v1/edges/ghost/polyline")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeAPI_Segments(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/edges/e1/segments")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	segments, ok := body["segments"].([]any)
	require.True(t, ok)
	assert.Len(t, segments, 3)
}

func TestServeAPI_Project(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/project?edge=e1&ik=0.5")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "e1", body["edgeId"])
	assert.NotNil(t, body["point"])

	rec = apiGet(t, h, "/api/v1/project?ik=0.5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = apiGet(t, h, "/api/v1/project?edge=e1&ik=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = apiGet(t, h, "/api/v1/project?edge=ghost&ik=0.5")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeAPI_ExportGeoJSON(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/export/geojson")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "FeatureCollection", body["type"])
}

func TestServeAPI_ExportKML(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/export/kml")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "kml")
	assert.True(t, strings.Contains(rec.Body.String(), "<kml"))
}

func TestServeAPI_UnknownRoute(t *testing.T) {
	h := newTestAPI(t)
	rec := apiGet(t, h, "/api/v1/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "unknown endpoint")
}

func TestServeAPI_MethodNotAllowed(t *testing.T) {
	h := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/edges", nil)
	rec := httptest.NewRecorder()
	h.ServeAPI(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
