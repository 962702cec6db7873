package tether

import (
	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var errHostDown = errors.New("host down")

// fakeHost is a minimal world: a fixed frame delta, a list of solids tested
// with strict AABB overlap, and a push-out in small steps
type fakeHost struct {
	dt         float64
	solids     []*actor.Body
	overlapErr error
	pushErr    error

	overlapCalls int
	collisions   [][2]*actor.Body
	pushes       []mgl64.Vec2
}

func newFakeHost(dt float64, solids ...*actor.Body) *fakeHost {
	return &fakeHost{dt: dt, solids: solids}
}

func (h *fakeHost) DistanceBetween(p1, p2 mgl64.Vec2) float64 {
	return p1.Sub(p2).Len()
}

func (h *fakeHost) FrameDeltaTime(body *actor.Body) float64 {
	return h.dt
}

func strictOverlap(a, b actor.AABB) bool {
	return a.Max.X() > b.Min.X() && a.Min.X() < b.Max.X() &&
		a.Max.Y() > b.Min.Y() && a.Min.Y() < b.Max.Y()
}

func (h *fakeHost) TestOverlapWithSolid(body *actor.Body) (*actor.Body, error) {
	h.overlapCalls++
	if h.overlapErr != nil {
		return nil, h.overlapErr
	}
	for _, solid := range h.solids {
		if strictOverlap(body.AABB(), solid.AABB()) {
			return solid, nil
		}
	}
	return nil, nil
}

func (h *fakeHost) PushOutOfOverlap(body *actor.Body, dir mgl64.Vec2, maxDistance float64) error {
	h.pushes = append(h.pushes, dir)
	if h.pushErr != nil {
		return h.pushErr
	}

	const step = 0.25
	unit := dir.Normalize()
	origin := body.Position()
	for moved := step; moved <= maxDistance; moved += step {
		body.SetPosition(origin.Add(unit.Mul(moved)))
		if other, _ := h.TestOverlapWithSolid(body); other == nil {
			return nil
		}
	}
	body.SetPosition(origin)
	return errors.New("still overlapping")
}

func (h *fakeHost) NotifyCollision(body, other *actor.Body) {
	h.collisions = append(h.collisions, [2]*actor.Body{body, other})
}

func newBox(id int, position, halfExtents mgl64.Vec2, solid bool) *actor.Body {
	return actor.NewBody(id, actor.Transform{Position: position}, &actor.Box{HalfExtents: halfExtents}, solid)
}

func newPoint(id int, position mgl64.Vec2) *actor.Body {
	return actor.NewBody(id, actor.Transform{Position: position}, &actor.Circle{Radius: 0.5}, false)
}
