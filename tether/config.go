package tether

import "math"

const (
	// DefaultDt is the frame delta assumed before any sample was pushed (60 fps)
	DefaultDt = 1.0 / 60.0

	// MaxStep bounds a single tick's displacement on each axis
	MaxStep = 1000.0

	// MoveThreshold is the per-axis displacement under which a tick is not
	// reported as a move to the host
	MoveThreshold = 0.1

	// PushOutTolerance is added to the push-out distance after a collision
	PushOutTolerance = 1.0

	// zeroDistance is the body-fixture distance under which the stretch ratio is 0
	zeroDistance = 1e-9
)

// Config holds the tunables of one tethered body
type Config struct {
	// RelaxedLength is the distance allowed before the band pulls, clamped to ≥ 0
	RelaxedLength float64 `toml:"relaxed_length"`
	// Stiffness scales the restoring force once stretched
	Stiffness float64 `toml:"stiffness"`
	// Mass divides the restoring force into an acceleration
	Mass float64 `toml:"mass"`
	// Gravity is a signed acceleration along the vertical axis
	Gravity float64 `toml:"gravity"`
	// Drag is the fraction of velocity removed every tick, in [0,1)
	Drag float64 `toml:"drag"`
	// Elasticity is the fraction of velocity kept (and inverted) by a bounce, in [0,1]
	Elasticity float64 `toml:"elasticity"`
	// Friction scales the velocity component tangent to a bounce
	Friction float64 `toml:"friction"`

	Enabled           bool `toml:"enabled"`
	CollisionsEnabled bool `toml:"collisions_enabled"`
	// ValidateBounce probes the post-bounce velocity and reflects straight back
	// when the probe still hits a solid
	ValidateBounce bool `toml:"validate_bounce"`
}

// DefaultConfig returns the tunables a body spawns with
func DefaultConfig() Config {
	return Config{
		RelaxedLength:     100,
		Stiffness:         5,
		Mass:              10,
		Gravity:           10,
		Drag:              0.02,
		Elasticity:        0.5,
		Friction:          0.5,
		Enabled:           true,
		CollisionsEnabled: false,
		ValidateBounce:    false,
	}
}

// sanitize makes the config safe to integrate with: invalid values are
// clamped, never rejected
func (c Config) sanitize() Config {
	c.RelaxedLength = math.Max(c.RelaxedLength, 0)
	if c.Mass <= 0 {
		c.Mass = 1
	}
	return c
}
