package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveArc_QuarterCircle(t *testing.T) {
	p1 := Point{X: 0, Y: 0}
	p2 := Point{X: 50, Y: 50}

	// Positive radius sweeps counterclockwise; the center sits on the
	// left of the chord direction.
	arc, ok := ResolveArc(p1, p2, 50, nil)
	require.True(t, ok)
	assert.InDelta(t, 0, arc.Center.X, 1e-9)
	assert.InDelta(t, 50, arc.Center.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, arc.Sweep, 1e-9)
	assert.InDelta(t, math.Pi/2*50, arc.Length, 1e-9)

	// Negative radius picks the mirrored center and sweeps clockwise.
	arc, ok = ResolveArc(p1, p2, -50, nil)
	require.True(t, ok)
	assert.InDelta(t, 50, arc.Center.X, 1e-9)
	assert.InDelta(t, 0, arc.Center.Y, 1e-9)
	assert.InDelta(t, -math.Pi/2, arc.Sweep, 1e-9)
}

func TestResolveArc_HalfCircleLimit(t *testing.T) {
	// Chord exactly equal to the diameter: the two candidate centers
	// coincide at the midpoint.
	arc, ok := ResolveArc(Point{X: 0, Y: 0}, Point{X: 100, Y: 0}, 50, nil)
	require.True(t, ok)
	assert.InDelta(t, 50, arc.Center.X, 1e-9)
	assert.InDelta(t, 0, arc.Center.Y, 1e-9)
	assert.InDelta(t, math.Pi, math.Abs(arc.Sweep), 1e-9)
	assert.InDelta(t, math.Pi*50, arc.Length, 1e-9)
}

func TestResolveArc_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		radius float64
	}{
		{"zero radius", Point{}, Point{X: 10}, 0},
		{"negative zero chord", Point{X: 5, Y: 5}, Point{X: 5, Y: 5}, 50},
		{"chord longer than diameter", Point{}, Point{X: 100}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ResolveArc(tt.p1, tt.p2, tt.radius, nil)
			assert.False(t, ok)
		})
	}
}

func TestResolveArc_SignConsistency(t *testing.T) {
	// Without a continuity hint the resolved sweep always runs in the
	// direction the radius sign requests, and stays on the minor arc.
	cases := []float64{30, 40, 80, -30, -40, -80}
	p1 := Point{X: 0, Y: 0}
	p2 := Point{X: 40, Y: 20}
	for _, radius := range cases {
		arc, ok := ResolveArc(p1, p2, radius, nil)
		require.True(t, ok, "radius %v", radius)
		if radius > 0 {
			assert.Positive(t, arc.Sweep, "radius %v", radius)
		} else {
			assert.Negative(t, arc.Sweep, "radius %v", radius)
		}
		assert.LessOrEqual(t, math.Abs(arc.Sweep), math.Pi+1e-12)

		// Both endpoints must lie on the resolved circle.
		assert.InDelta(t, math.Abs(radius), arc.Center.DistanceTo(p1), 1e-9)
		assert.InDelta(t, math.Abs(radius), arc.Center.DistanceTo(p2), 1e-9)
	}
}

func TestResolveArc_TangentPreference(t *testing.T) {
	p1 := Point{X: 0, Y: 0}
	p2 := Point{X: 50, Y: 50}

	// Approaching upward: the turn-sign-preferred candidate would start
	// moving along +x, the mirrored candidate starts moving along +y.
	// Continuity wins over the preferred side.
	up := Vec{X: 0, Y: 1}
	arc, ok := ResolveArc(p1, p2, 50, &up)
	require.True(t, ok)
	assert.InDelta(t, 50, arc.Center.X, 1e-9)
	assert.InDelta(t, 0, arc.Center.Y, 1e-9)

	tangent, tok := arc.startTangent()
	require.True(t, tok)
	assert.InDelta(t, 1.0, up.Dot(tangent), 1e-9)

	// Approaching along +x the preferred candidate already continues
	// smoothly and is kept.
	right := Vec{X: 1, Y: 0}
	arc, ok = ResolveArc(p1, p2, 50, &right)
	require.True(t, ok)
	assert.InDelta(t, 0, arc.Center.X, 1e-9)
	assert.InDelta(t, 50, arc.Center.Y, 1e-9)
}
