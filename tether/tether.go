// Package tether implements a rubber band movement: a body elastically tied to
// an optional fixture body, integrated once per frame under the band's pull,
// gravity and drag, with an optional bounce off solid obstacles.
//
// The kernel never owns the bodies it touches. Everything it needs from the
// surrounding world goes through the Host interface.
package tether

import (
	"math"

	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// NoFixture is the saved fixture id of an untied band
const NoFixture = -1

// Host is the set of world services a tether depends on. Every call is
// synchronous and happens inside Tick.
type Host interface {
	DistanceBetween(p1, p2 mgl64.Vec2) float64
	// FrameDeltaTime returns the raw time elapsed for this body since the last frame
	FrameDeltaTime(body *actor.Body) float64
	// TestOverlapWithSolid returns the solid overlapping the body, or nil
	TestOverlapWithSolid(body *actor.Body) (*actor.Body, error)
	// PushOutOfOverlap moves the body along dir until it no longer overlaps a
	// solid, at most maxDistance away
	PushOutOfOverlap(body *actor.Body, dir mgl64.Vec2, maxDistance float64) error
	NotifyCollision(body, other *actor.Body)
}

// Report describes what one Tick did
type Report struct {
	// Dt is the median frame delta used for the tick
	Dt float64
	// Displacement is the movement the integrator asked for
	Displacement mgl64.Vec2
	// Moved is true when the host was notified of a bounding box change
	Moved bool
	// Path is the collision handling branch taken
	Path Path
	// Contact is the solid hit during the tick, if any
	Contact *actor.Body
	// Constellation is the contact side classification when Contact is set
	Constellation Constellation
}

// Tether is the per-body state of the rubber band movement
type Tether struct {
	Body *actor.Body

	config   Config
	host     Host
	velocity mgl64.Vec2

	fixture   *actor.Body
	fixtureId int // pending id between LoadState and AfterLoad

	smoother     DtSmoother
	lastPosition mgl64.Vec2
	isStretched  bool
}

// New attaches a tether to a body
func New(body *actor.Body, host Host, config Config) (*Tether, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	if host == nil {
		return nil, ErrNilHost
	}

	return &Tether{
		Body:         body,
		config:       config.sanitize(),
		host:         host,
		fixtureId:    NoFixture,
		smoother:     NewDtSmoother(),
		lastPosition: body.Position(),
	}, nil
}

// Tick advances the body by one frame
func (t *Tether) Tick() (Report, error) {
	// 1. Jitter-free frame delta
	dt := t.smoother.Push(t.host.FrameDeltaTime(t.Body))
	report := Report{Dt: dt}

	// 2. Motion caused by someone else
	t.absorbImpulse(dt)

	if !t.config.Enabled {
		t.lastPosition = t.Body.Position()
		return report, nil
	}

	// 3. Band pull
	accel := mgl64.Vec2{}
	t.isStretched = false
	if t.fixture != nil {
		stretch := t.stretch()
		t.isStretched = stretch.IsStretched()
		accel = stretch.Acceleration(t.config.Stiffness, t.config.Mass)
		t.velocity = t.velocity.Add(accel.Mul(dt))
	}

	// 4. Gravity
	t.velocity[1] += t.config.Gravity * dt

	// 5. Drag, per tick
	t.velocity = t.velocity.Sub(t.velocity.Mul(t.config.Drag))

	// 6. Bounded step
	step := t.velocity.Mul(dt).Add(accel.Mul(0.5 * dt * dt))
	report.Displacement = mgl64.Vec2{
		mgl64.Clamp(step.X(), -MaxStep, MaxStep),
		mgl64.Clamp(step.Y(), -MaxStep, MaxStep),
	}
	report.Moved = isSignificant(report.Displacement)

	// 7. Move, with or without collisions
	if t.config.CollisionsEnabled && report.Moved {
		if err := t.resolve(&report); err != nil {
			t.lastPosition = t.Body.Position()
			return report, err
		}
	} else {
		t.Body.Translate(report.Displacement)
		if report.Moved {
			report.Path = PathDirect
			t.Body.SetBBoxChanged()
		}
	}

	t.lastPosition = t.Body.Position()

	return report, nil
}

func (t *Tether) stretch() Stretch {
	fixture, body := t.fixture.Position(), t.Body.Position()
	distance := t.host.DistanceBetween(fixture, body)

	return stretchOver(fixture.Sub(body), distance, t.config.RelaxedLength)
}

// isSignificant reports whether a displacement is worth telling the host about
func isSignificant(d mgl64.Vec2) bool {
	return math.Abs(d.X()) >= MoveThreshold || math.Abs(d.Y()) >= MoveThreshold
}

// Tie connects the band to a fixture body, replacing any previous one
func (t *Tether) Tie(fixture *actor.Body) error {
	if fixture == nil {
		return errors.Wrap(ErrNilBody, "tie")
	}
	if fixture == t.Body || fixture.Id == t.Body.Id {
		return ErrSelfTie
	}
	t.fixture = fixture
	t.fixtureId = NoFixture

	return nil
}

// Untie cuts the band; the body keeps its velocity
func (t *Tether) Untie() {
	t.fixture = nil
	t.fixtureId = NoFixture
	t.isStretched = false
}

// UntieFrom cuts the band only if it is tied to the given body
func (t *Tether) UntieFrom(fixture *actor.Body) bool {
	if fixture == nil || t.fixture != fixture {
		return false
	}
	t.Untie()
	return true
}

func (t *Tether) Fixture() *actor.Body {
	return t.fixture
}

func (t *Tether) IsTied() bool {
	return t.fixture != nil
}

// IsStretched reports whether the band pulled during the last tick
func (t *Tether) IsStretched() bool {
	return t.isStretched
}

func (t *Tether) Velocity() mgl64.Vec2 {
	return t.velocity
}

func (t *Tether) SetVelocity(velocity mgl64.Vec2) {
	t.velocity = velocity
}

func (t *Tether) Speed() float64 {
	return t.velocity.Len()
}

// MedianDt returns the smoothed frame delta of the last tick
func (t *Tether) MedianDt() float64 {
	return t.smoother.Median()
}

// LastPosition returns the position recorded at the end of the last tick
func (t *Tether) LastPosition() mgl64.Vec2 {
	return t.lastPosition
}

func (t *Tether) Config() Config {
	return t.config
}

// Configure replaces the tunables; out of range values are clamped
func (t *Tether) Configure(config Config) {
	t.config = config.sanitize()
}

func (t *Tether) SetRelaxedLength(length float64) {
	t.config.RelaxedLength = math.Max(length, 0)
}

func (t *Tether) SetStiffness(stiffness float64) {
	t.config.Stiffness = stiffness
}

func (t *Tether) SetGravity(gravity float64) {
	t.config.Gravity = gravity
}

func (t *Tether) SetDrag(drag float64) {
	t.config.Drag = drag
}

func (t *Tether) SetEnabled(enabled bool) {
	t.config.Enabled = enabled
}

func (t *Tether) SetCollisionsEnabled(enabled bool) {
	t.config.CollisionsEnabled = enabled
}
