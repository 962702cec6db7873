package tether

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Stretch describes how far a band extends beyond its relaxed length
type Stretch struct {
	// Delta points from the body to the fixture
	Delta mgl64.Vec2
	// Displacement is the length beyond the relaxed length, ≥ 0
	Displacement float64
	// Ratio is Displacement / distance, 0 when body and fixture coincide
	Ratio float64
}

// ComputeStretch measures the band between a fixture and a body
func ComputeStretch(fixture, body mgl64.Vec2, relaxedLength float64) Stretch {
	delta := fixture.Sub(body)
	return stretchOver(delta, delta.Len(), relaxedLength)
}

// stretchOver builds the stretch from a delta and a distance measured by the caller
func stretchOver(delta mgl64.Vec2, distance, relaxedLength float64) Stretch {
	displacement := math.Max(distance-relaxedLength, 0)

	// body sur la fixation : pas de direction, pas de ratio
	ratio := 0.0
	if distance >= zeroDistance {
		ratio = displacement / distance
	}

	return Stretch{
		Delta:        delta,
		Displacement: displacement,
		Ratio:        ratio,
	}
}

// IsStretched reports whether the band pulls at all
func (s Stretch) IsStretched() bool {
	return s.Displacement > 0
}

// Acceleration returns the acceleration the band applies to the body
func (s Stretch) Acceleration(stiffness, mass float64) mgl64.Vec2 {
	if !s.IsStretched() {
		return mgl64.Vec2{}
	}
	return s.Delta.Mul(s.Displacement * stiffness * s.Ratio / mass)
}
