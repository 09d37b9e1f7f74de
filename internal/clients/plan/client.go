// Package plan fetches a railway infrastructure plan from a
// schema-described REST source and normalizes it into a topology
// snapshot. The source publishes a schema document naming the resource
// path of each collection; the collections themselves are fetched
// concurrently.
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finnrmn/GraphVisualizerV2/internal/lib/topo"
)

// Client talks to one topology source.
type Client struct {
	baseURL    string
	schemaPath string
	httpClient *http.Client
}

// NewClient creates a client for the source at baseURL. The schema
// document is expected at /schema unless overridden.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		schemaPath: "/schema",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchSnapshot loads the schema document, fetches every collection it
// names concurrently, and normalizes the result into a fresh snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*topo.Snapshot, error) {
	schema, err := c.fetchSchema(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schema document: %w", err)
	}

	var p payload
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.fetchCollection(gctx, schema, resNodes, &p.nodes) })
	g.Go(func() error { return c.fetchCollection(gctx, schema, resEdges, &p.edges) })
	g.Go(func() error { return c.fetchCollection(gctx, schema, resLines, &p.lines) })
	g.Go(func() error { return c.fetchCollection(gctx, schema, resArcs, &p.arcs) })
	g.Go(func() error { return c.fetchCollection(gctx, schema, resTransitions, &p.transitions) })
	g.Go(func() error { return c.fetchCollection(gctx, schema, resBalises, &p.balises) })
	g.Go(func() error { return c.fetchCollection(gctx, schema, resSignals, &p.signals) })
	g.Go(func() error { return c.fetchCollection(gctx, schema, resTDS, &p.tds) })
	g.Go(func() error { return c.fetchCollection(gctx, schema, resSpeed, &p.speed) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return normalize(&p), nil
}

// fetchSchema downloads and decodes the schema document.
func (c *Client) fetchSchema(ctx context.Context) (*schemaDoc, error) {
	var schema schemaDoc
	if err := c.getJSON(ctx, c.schemaPath, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// fetchCollection resolves a collection's path from the schema (falling
// back to the conventional path) and decodes it into out.
func (c *Client) fetchCollection(ctx context.Context, schema *schemaDoc, key string, out interface{}) error {
	path, ok := schema.Resources[key]
	if !ok || path == "" {
		path = defaultResourcePaths[key]
	}
	if err := c.getJSON(ctx, path, out); err != nil {
		return fmt.Errorf("failed to fetch %s collection: %w", key, err)
	}
	return nil
}

// getJSON performs one GET against the source and decodes the JSON
// response body.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
