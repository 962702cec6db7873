package tether

import (
	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// State is the flat field set a tether is saved as. The fixture is saved by
// id and only resolved once every body of the world exists again.
type State struct {
	FixtureId         int                    `json:"fixtureUid"`
	RelaxedLength     float64                `json:"relaxedLength"`
	Stiffness         float64                `json:"stiffness"`
	Mass              float64                `json:"mass"`
	Gravity           float64                `json:"gravity"`
	Drag              float64                `json:"drag"`
	Elasticity        float64                `json:"elasticity"`
	Friction          float64                `json:"friction"`
	Enabled           bool                   `json:"enabled"`
	CollisionsEnabled bool                   `json:"collisionsEnabled"`
	ValidateBounce    bool                   `json:"validateBounce"`
	Dx                float64                `json:"dx"`
	Dy                float64                `json:"dy"`
	LastX             float64                `json:"lastX"`
	LastY             float64                `json:"lastY"`
	MedianDt          float64                `json:"medianDt"`
	DtHistory         [DtHistorySize]float64 `json:"dtHistory"`
	DtSeeded          bool                   `json:"dtSeeded"`
}

// SaveState captures the tether
func (t *Tether) SaveState() State {
	fixtureId := NoFixture
	if t.fixture != nil {
		fixtureId = t.fixture.Id
	} else if t.fixtureId != NoFixture {
		// saved again before AfterLoad ran
		fixtureId = t.fixtureId
	}

	return State{
		FixtureId:         fixtureId,
		RelaxedLength:     t.config.RelaxedLength,
		Stiffness:         t.config.Stiffness,
		Mass:              t.config.Mass,
		Gravity:           t.config.Gravity,
		Drag:              t.config.Drag,
		Elasticity:        t.config.Elasticity,
		Friction:          t.config.Friction,
		Enabled:           t.config.Enabled,
		CollisionsEnabled: t.config.CollisionsEnabled,
		ValidateBounce:    t.config.ValidateBounce,
		Dx:                t.velocity.X(),
		Dy:                t.velocity.Y(),
		LastX:             t.lastPosition.X(),
		LastY:             t.lastPosition.Y(),
		MedianDt:          t.smoother.Median(),
		DtHistory:         t.smoother.History(),
		DtSeeded:          t.smoother.Seeded(),
	}
}

// LoadState restores the scalars. The fixture stays pending until AfterLoad.
func (t *Tether) LoadState(s State) {
	t.Configure(Config{
		RelaxedLength:     s.RelaxedLength,
		Stiffness:         s.Stiffness,
		Mass:              s.Mass,
		Gravity:           s.Gravity,
		Drag:              s.Drag,
		Elasticity:        s.Elasticity,
		Friction:          s.Friction,
		Enabled:           s.Enabled,
		CollisionsEnabled: s.CollisionsEnabled,
		ValidateBounce:    s.ValidateBounce,
	})
	t.velocity = mgl64.Vec2{s.Dx, s.Dy}
	t.lastPosition = mgl64.Vec2{s.LastX, s.LastY}
	t.smoother.Restore(s.DtHistory, s.MedianDt, s.DtSeeded)

	t.fixture = nil
	t.fixtureId = s.FixtureId
	if t.fixtureId < 0 {
		t.fixtureId = NoFixture
	}
}

// PendingFixture returns the fixture id waiting for AfterLoad, or NoFixture
func (t *Tether) PendingFixture() int {
	return t.fixtureId
}

// AfterLoad resolves the pending fixture id into a live body. An id that
// cannot be resolved is an error: silently dropping the band would change
// how the body moves.
func (t *Tether) AfterLoad(resolve func(id int) (*actor.Body, bool)) error {
	if t.fixtureId == NoFixture {
		t.fixture = nil
		return nil
	}

	fixture, ok := resolve(t.fixtureId)
	if !ok || fixture == nil {
		return errors.Wrapf(ErrFixtureNotFound, "body %d: fixture uid %d", t.Body.Id, t.fixtureId)
	}
	if fixture == t.Body {
		return errors.Wrapf(ErrSelfTie, "body %d", t.Body.Id)
	}

	t.fixture = fixture
	t.fixtureId = NoFixture
	t.isStretched = ComputeStretch(fixture.Position(), t.Body.Position(), t.config.RelaxedLength).IsStretched()

	return nil
}
