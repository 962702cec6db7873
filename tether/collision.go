package tether

import (
	"math"

	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Path is the branch a tick's movement went through
type Path uint8

const (
	// PathNone: negligible movement, applied without telling anyone
	PathNone Path = iota
	// PathDirect: collisions disabled, moved straight
	PathDirect
	// PathFast: step larger than the body, moved without any overlap test
	PathFast
	// PathSlow: step smaller than the body, moved then tested for overlap
	PathSlow
)

func (p Path) String() string {
	switch p {
	case PathDirect:
		return "direct"
	case PathFast:
		return "fast"
	case PathSlow:
		return "slow"
	}
	return "none"
}

// Constellation is the axis of the contact normal, approximated from where the
// body sits around the obstacle
type Constellation uint8

const (
	// Horizontal: the body hit a left or right side
	Horizontal Constellation = iota
	// Vertical: the body hit a top or bottom side
	Vertical
)

func (c Constellation) String() string {
	if c == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// resolve moves the body by the report displacement and bounces it off the
// first solid it ends up in
func (t *Tether) resolve(report *Report) error {
	d := report.Displacement
	size := t.Body.Size()

	// Fast: no test at all, the body may fly through thin obstacles
	if math.Abs(d.X()) >= size.X() || math.Abs(d.Y()) >= size.Y() {
		report.Path = PathFast
		t.Body.Translate(d)
		t.Body.SetBBoxChanged()
		return nil
	}

	report.Path = PathSlow
	t.Body.Translate(d)
	t.Body.SetBBoxChanged()

	other, err := t.host.TestOverlapWithSolid(t.Body)
	if err != nil {
		return errors.Wrapf(err, "body %d: overlap test", t.Body.Id)
	}
	if other == nil {
		return nil
	}

	if err := t.host.PushOutOfOverlap(t.Body, d.Mul(-1), d.Len()+PushOutTolerance); err != nil {
		return errors.Wrapf(err, "body %d: push out of %d", t.Body.Id, other.Id)
	}
	t.host.NotifyCollision(t.Body, other)
	t.lastPosition = t.Body.Position()

	offset := t.Body.Position().Sub(other.Quad().Center())
	constellation := Classify(offset, other.Quad())
	incoming := t.velocity
	t.velocity = Bounce(incoming, offset, constellation, t.config.Elasticity, t.config.Friction)

	if t.config.ValidateBounce {
		blocked, err := t.probe(t.velocity.Mul(report.Dt), size)
		if err != nil {
			return errors.Wrapf(err, "body %d: bounce probe", t.Body.Id)
		}
		if blocked {
			t.velocity = incoming.Mul(-t.config.Elasticity)
		}
	}

	report.Contact = other
	report.Constellation = constellation

	return nil
}

// probe reports whether a step would end inside a solid. The body is put back
// where it was.
func (t *Tether) probe(step, size mgl64.Vec2) (bool, error) {
	step = mgl64.Vec2{
		mgl64.Clamp(step.X(), -size.X(), size.X()),
		mgl64.Clamp(step.Y(), -size.Y(), size.Y()),
	}
	if step.LenSqr() == 0 {
		return false, nil
	}

	origin := t.Body.Position()
	t.Body.Translate(step)
	t.Body.UpdateAABB()
	other, err := t.host.TestOverlapWithSolid(t.Body)
	t.Body.SetPosition(origin)
	t.Body.UpdateAABB()

	return other != nil, err
}

// Classify approximates the contact side from the body offset to the obstacle
// center: an offset steeper than the diagonal through the nearest corner of the
// obstacle quad means the body sits above or below it.
func Classify(offset mgl64.Vec2, quad actor.Quad) Constellation {
	diagonal := quad.CornerToward(offset).Sub(quad.Center())

	// |offset.y / offset.x| > |diagonal.y / diagonal.x|, without dividing
	if math.Abs(offset.Y())*math.Abs(diagonal.X()) > math.Abs(diagonal.Y())*math.Abs(offset.X()) {
		return Vertical
	}
	return Horizontal
}

// Bounce flips the velocity component along the constellation axis when it
// points into the obstacle, and applies friction to the other one
func Bounce(velocity, offset mgl64.Vec2, constellation Constellation, elasticity, friction float64) mgl64.Vec2 {
	axis, other := 0, 1
	if constellation == Vertical {
		axis, other = 1, 0
	}

	// offset points from the obstacle to the body: opposite signs mean incoming
	if velocity[axis]*offset[axis] < 0 {
		velocity[axis] = -velocity[axis] * elasticity
	}
	velocity[other] *= friction

	return velocity
}
