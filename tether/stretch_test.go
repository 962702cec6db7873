package tether

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestComputeStretch(t *testing.T) {
	tests := []struct {
		name         string
		fixture      mgl64.Vec2
		body         mgl64.Vec2
		relaxed      float64
		displacement float64
		ratio        float64
	}{
		{"slack", mgl64.Vec2{3, 4}, mgl64.Vec2{0, 0}, 10, 0, 0},
		{"exactly relaxed", mgl64.Vec2{6, 8}, mgl64.Vec2{0, 0}, 10, 0, 0},
		{"stretched", mgl64.Vec2{30, 40}, mgl64.Vec2{0, 0}, 10, 40, 0.8},
		{"zero relaxed length", mgl64.Vec2{0, -20}, mgl64.Vec2{0, 0}, 0, 20, 1},
		{"coincident", mgl64.Vec2{5, 5}, mgl64.Vec2{5, 5}, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeStretch(tc.fixture, tc.body, tc.relaxed)
			assert.InDelta(t, tc.displacement, s.Displacement, 1e-12)
			assert.InDelta(t, tc.ratio, s.Ratio, 1e-12)
			assert.Equal(t, tc.displacement > 0, s.IsStretched())
		})
	}
}

func TestStretch_Acceleration(t *testing.T) {
	s := ComputeStretch(mgl64.Vec2{30, 40}, mgl64.Vec2{0, 0}, 10)

	// delta * (40 * 5 * 0.8 / 10)
	accel := s.Acceleration(5, 10)
	assert.InDelta(t, 30*16, accel.X(), 1e-9)
	assert.InDelta(t, 40*16, accel.Y(), 1e-9)

	slack := ComputeStretch(mgl64.Vec2{1, 0}, mgl64.Vec2{0, 0}, 10)
	assert.Equal(t, mgl64.Vec2{}, slack.Acceleration(5, 10))
}
