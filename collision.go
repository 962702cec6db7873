package rubberband

import (
	"github.com/akmonengine/rubberband/actor"
	"github.com/akmonengine/rubberband/gjk"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// PUSH_OUT_STEP is the distance a body is moved per push-out attempt
const PUSH_OUT_STEP = 1.0

// rebuildSolids refreshes the id-ordered solid list after bodies were added or removed
func (w *World) rebuildSolids() {
	w.solids = w.solids[:0]
	for _, body := range w.Bodies {
		if body.Solid {
			w.solids = append(w.solids, body)
		}
	}
	w.gridDirty = true
}

// BroadPhase re-inserts every solid in the grid
func BroadPhase(spatialGrid *SpatialGrid, solids []*actor.Body) {
	spatialGrid.Clear()
	for i, body := range solids {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()
}

func (w *World) refreshGrid() {
	if !w.gridDirty {
		return
	}
	BroadPhase(w.SpatialGrid, w.solids)
	w.gridDirty = false
}

// TestOverlapWithSolid returns the lowest id solid overlapping the body, or nil.
// Grid candidates are filtered by bounding box, then by GJK.
func (w *World) TestOverlapWithSolid(body *actor.Body) (*actor.Body, error) {
	if body == nil {
		return nil, errors.New("overlap test: nil body")
	}
	if body.Shape == nil {
		return nil, errors.Wrapf(ErrNoShape, "overlap test: body %d", body.Id)
	}
	w.refreshGrid()

	aabb := body.AABB()
	for _, idx := range w.SpatialGrid.Query(aabb) {
		solid := w.solids[idx]
		if solid == body {
			continue
		}
		if !aabb.Overlaps(solid.AABB()) {
			continue
		}
		if gjk.Overlaps(body, solid) {
			return solid, nil
		}
	}

	return nil, nil
}

// PushOutOfOverlap moves the body along dir in unit steps until it overlaps no
// solid, never further than maxDistance. On failure the body is put back.
func (w *World) PushOutOfOverlap(body *actor.Body, dir mgl64.Vec2, maxDistance float64) error {
	if dir.LenSqr() == 0 {
		return errors.Wrapf(ErrPushOutFailed, "body %d: no direction", body.Id)
	}
	unit := dir.Normalize()
	origin := body.Position()

	for moved := PUSH_OUT_STEP; moved <= maxDistance; moved += PUSH_OUT_STEP {
		body.SetPosition(origin.Add(unit.Mul(moved)))
		other, err := w.TestOverlapWithSolid(body)
		if err != nil {
			body.SetPosition(origin)
			body.UpdateAABB()
			return err
		}
		if other == nil {
			body.UpdateAABB()
			return nil
		}
	}

	body.SetPosition(origin)
	body.UpdateAABB()
	return errors.Wrapf(ErrPushOutFailed, "body %d within %.1f", body.Id, maxDistance)
}
