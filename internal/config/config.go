package config

import "time"

// Config is the complete server configuration. Sections are unmarshaled
// from prefab's config system (prefab.yaml plus PF__ environment
// variables) in cmd/server.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Render RenderConfig `yaml:"render"`
	Export ExportConfig `yaml:"export"`
}

// SourceConfig describes the schema-described topology source.
type SourceConfig struct {
	BaseURL         string        `yaml:"base_url"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	StaleThreshold  time.Duration `yaml:"stale_threshold"`
}

// RenderConfig holds display-geometry settings.
type RenderConfig struct {
	// MaxChordLength bounds the chord length when arcs are flattened
	// into display polylines, in meters.
	MaxChordLength float64 `yaml:"max_chord_length"`
}

// ExportConfig holds settings for the GeoJSON/KML exports.
type ExportConfig struct {
	GeoOrigin GeoOrigin `yaml:"geo_origin"`
}

// GeoOrigin anchors the planar site frame on the earth for KML export:
// site (0,0) maps to this position, the x axis points east, y north.
type GeoOrigin struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// DefaultConfig returns the built-in defaults: a local source, half a
// meter of flattening error, and an origin near the Karlsruhe test
// field.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:         "http://localhost:9090",
			RefreshInterval: 5 * time.Minute,
			StaleThreshold:  10 * time.Minute,
		},
		Render: RenderConfig{
			MaxChordLength: 0.5,
		},
		Export: ExportConfig{
			GeoOrigin: GeoOrigin{
				Latitude:  49.0069,
				Longitude: 8.4037,
			},
		},
	}
}
