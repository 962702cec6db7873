// Package rubberband hosts tethered bodies: a World owns the bodies, ticks
// their tethers once per Step and answers the overlap queries the tethers make
// against solid bodies.
package rubberband

import (
	"log/slog"
	"sort"

	"github.com/akmonengine/rubberband/actor"
	"github.com/akmonengine/rubberband/tether"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const DEFAULT_WORKERS = 1

// tetherEntry is a tether and the stuck bookkeeping the world keeps for it
type tetherEntry struct {
	tether   *tether.Tether
	stuck    tether.StuckTracker
	wasStuck bool
}

type World struct {
	// List of all bodies in the world, by ascending id
	Bodies      []*actor.Body
	SpatialGrid *SpatialGrid
	// Workers used for read-only fan-outs (save snapshots)
	Workers int
	Logger  *slog.Logger

	Events Events

	tethers map[int]*tetherEntry
	// solids, by ascending id; the grid stores indices into it
	solids    []*actor.Body
	gridDirty bool
	// frame delta of the running Step
	dt float64
}

// NewWorld creates an empty world; cellSize and numCells size the broad phase grid
func NewWorld(cellSize float64, numCells int) *World {
	return &World{
		SpatialGrid: NewSpatialGrid(cellSize, numCells),
		Workers:     DEFAULT_WORKERS,
		Logger:      slog.New(slog.DiscardHandler),
		Events:      NewEvents(),
		tethers:     make(map[int]*tetherEntry),
		dt:          tether.DefaultDt,
	}
}

// AddBody adds a body to the world
func (w *World) AddBody(body *actor.Body) error {
	if body == nil {
		return tether.ErrNilBody
	}
	if body.Shape == nil {
		return errors.Wrapf(ErrNoShape, "body %d", body.Id)
	}

	i := sort.Search(len(w.Bodies), func(i int) bool { return w.Bodies[i].Id >= body.Id })
	if i < len(w.Bodies) && w.Bodies[i].Id == body.Id {
		return errors.Wrapf(ErrDuplicateBody, "body %d", body.Id)
	}
	w.Bodies = append(w.Bodies, nil)
	copy(w.Bodies[i+1:], w.Bodies[i:])
	w.Bodies[i] = body

	body.UpdateAABB()
	w.rebuildSolids()

	return nil
}

// RemoveBody removes a body and its tether. Tethers tied to it are cut.
func (w *World) RemoveBody(id int) error {
	i, ok := w.indexOf(id)
	if !ok {
		return errors.Wrapf(ErrUnknownBody, "body %d", id)
	}
	body := w.Bodies[i]
	w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)

	delete(w.tethers, id)
	for _, entry := range w.tethers {
		if entry.tether.UntieFrom(body) {
			w.Logger.Debug("tether cut", "body", entry.tether.Body.Id, "fixture", id)
		}
	}

	w.Events.forget(body)
	w.rebuildSolids()

	return nil
}

// Body returns the body with the given id
func (w *World) Body(id int) (*actor.Body, bool) {
	i, ok := w.indexOf(id)
	if !ok {
		return nil, false
	}
	return w.Bodies[i], true
}

func (w *World) indexOf(id int) (int, bool) {
	i := sort.Search(len(w.Bodies), func(i int) bool { return w.Bodies[i].Id >= id })
	return i, i < len(w.Bodies) && w.Bodies[i].Id == id
}

// Attach gives a body the rubber band movement
func (w *World) Attach(bodyID int, config tether.Config) (*tether.Tether, error) {
	body, ok := w.Body(bodyID)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBody, "attach body %d", bodyID)
	}
	if _, exists := w.tethers[bodyID]; exists {
		return nil, errors.Wrapf(ErrDuplicateBody, "body %d already has a tether", bodyID)
	}

	t, err := tether.New(body, w, config)
	if err != nil {
		return nil, errors.Wrapf(err, "attach body %d", bodyID)
	}
	w.tethers[bodyID] = &tetherEntry{tether: t}

	return t, nil
}

// Detach removes the tether of a body; the body stays in the world
func (w *World) Detach(bodyID int) bool {
	if _, ok := w.tethers[bodyID]; !ok {
		return false
	}
	delete(w.tethers, bodyID)
	return true
}

// Tether returns the tether attached to a body
func (w *World) Tether(bodyID int) (*tether.Tether, bool) {
	entry, ok := w.tethers[bodyID]
	if !ok {
		return nil, false
	}
	return entry.tether, true
}

// Tie ties the tether of a body to a fixture body, both by id
func (w *World) Tie(bodyID, fixtureID int) error {
	t, ok := w.Tether(bodyID)
	if !ok {
		return errors.Wrapf(ErrUnknownBody, "no tether on body %d", bodyID)
	}
	fixture, ok := w.Body(fixtureID)
	if !ok {
		return errors.Wrapf(ErrUnknownBody, "fixture %d", fixtureID)
	}
	return t.Tie(fixture)
}

// IsStuck reports whether a tethered body is currently wedged against a solid
func (w *World) IsStuck(bodyID int) bool {
	entry, ok := w.tethers[bodyID]
	return ok && entry.stuck.IsStuck()
}

// Step ticks every tether once, in ascending body id order, then flushes the
// events. A failing tick does not stop the others: failures come back together
// as a *StepError.
func (w *World) Step(dt float64) error {
	w.dt = dt
	w.gridDirty = true

	var failures StepError
	for _, body := range w.Bodies {
		entry, ok := w.tethers[body.Id]
		if !ok {
			continue
		}

		before := body.Position()
		report, err := entry.tether.Tick()
		if err != nil {
			w.Logger.Warn("tick failed", "body", body.Id, "error", err)
			failures.add(body.Id, err)
			continue
		}

		if report.Moved {
			w.Events.emitMoved(body, report.Displacement)
			if body.Solid {
				w.gridDirty = true
			}
		}
		w.trackStuck(entry, report, before)
	}

	w.Events.flush()

	if len(failures.Failures) > 0 {
		return &failures
	}
	return nil
}

// trackStuck feeds the stuck tracker: a collision without net progress counts
// as unmoved time, anything else frees the body
func (w *World) trackStuck(entry *tetherEntry, report tether.Report, before mgl64.Vec2) {
	body := entry.tether.Body
	progress := body.Position().Sub(before)

	if report.Contact != nil && progress.Len() < tether.MoveThreshold {
		entry.stuck.RegisterUnmoved(report.Dt)
	} else {
		entry.stuck.RegisterFreed()
	}

	stuck := entry.stuck.IsStuck()
	if stuck && !entry.wasStuck {
		w.Logger.Debug("body stuck", "body", body.Id, "unmoved", entry.stuck.UnmovedTime())
		w.Events.emitStuck(body, entry.stuck.UnmovedTime())
	}
	entry.wasStuck = stuck
}

// ============================================================================
// tether.Host
// ============================================================================

func (w *World) DistanceBetween(p1, p2 mgl64.Vec2) float64 {
	return p1.Sub(p2).Len()
}

// FrameDeltaTime is the step delta scaled by the body's own time scale
func (w *World) FrameDeltaTime(body *actor.Body) float64 {
	return w.dt * body.TimeScale
}

func (w *World) NotifyCollision(body, other *actor.Body) {
	w.Logger.Debug("collision", "body", body.Id, "other", other.Id)
	w.Events.recordCollision(body, other)
}
