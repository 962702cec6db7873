package rubberband

import (
	"encoding/json"
	"io"

	"github.com/akmonengine/rubberband/actor"
	"github.com/akmonengine/rubberband/tether"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const (
	shapeKindBox    = "box"
	shapeKindCircle = "circle"
)

type worldSnapshot struct {
	Bodies []bodySnapshot `json:"bodies"`
}

type bodySnapshot struct {
	Id        int           `json:"id"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Rotation  float64       `json:"rotation"`
	Solid     bool          `json:"solid"`
	TimeScale float64       `json:"timeScale"`
	Shape     shapeSnapshot `json:"shape"`
	Tether    *tether.State `json:"tether,omitempty"`
}

type shapeSnapshot struct {
	Kind       string  `json:"kind"`
	HalfWidth  float64 `json:"halfWidth,omitempty"`
	HalfHeight float64 `json:"halfHeight,omitempty"`
	Radius     float64 `json:"radius,omitempty"`
}

func snapshotShape(shape actor.ShapeInterface) shapeSnapshot {
	switch s := shape.(type) {
	case *actor.Box:
		return shapeSnapshot{Kind: shapeKindBox, HalfWidth: s.HalfExtents.X(), HalfHeight: s.HalfExtents.Y()}
	case *actor.Circle:
		return shapeSnapshot{Kind: shapeKindCircle, Radius: s.Radius}
	}
	return shapeSnapshot{}
}

func (s shapeSnapshot) build() (actor.ShapeInterface, error) {
	switch s.Kind {
	case shapeKindBox:
		return &actor.Box{HalfExtents: mgl64.Vec2{s.HalfWidth, s.HalfHeight}}, nil
	case shapeKindCircle:
		return &actor.Circle{Radius: s.Radius}, nil
	}
	return nil, errors.Wrapf(ErrNoShape, "unknown shape kind %q", s.Kind)
}

type snapshotJob struct {
	body  *actor.Body
	entry *tetherEntry
	out   *bodySnapshot
}

// Save writes every body and tether state as JSON
func (w *World) Save(writer io.Writer) error {
	snapshot := worldSnapshot{Bodies: make([]bodySnapshot, len(w.Bodies))}

	jobs := make([]snapshotJob, len(w.Bodies))
	for i, body := range w.Bodies {
		jobs[i] = snapshotJob{body: body, entry: w.tethers[body.Id], out: &snapshot.Bodies[i]}
	}

	task(w.Workers, jobs, func(job snapshotJob) {
		body := job.body
		*job.out = bodySnapshot{
			Id:        body.Id,
			X:         body.Position().X(),
			Y:         body.Position().Y(),
			Rotation:  body.Transform.Rotation,
			Solid:     body.Solid,
			TimeScale: body.TimeScale,
			Shape:     snapshotShape(body.Shape),
		}
		if job.entry != nil {
			state := job.entry.tether.SaveState()
			job.out.Tether = &state
		}
	})

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return errors.Wrap(err, "save world")
	}

	return nil
}

// LoadWorld rebuilds a world saved with Save. Fixtures are resolved once every
// body exists; a fixture id that matches no body fails the load.
func LoadWorld(reader io.Reader, cellSize float64, numCells int) (*World, error) {
	var snapshot worldSnapshot
	if err := json.NewDecoder(reader).Decode(&snapshot); err != nil {
		return nil, errors.Wrap(err, "load world: decode")
	}

	w := NewWorld(cellSize, numCells)
	for _, saved := range snapshot.Bodies {
		shape, err := saved.Shape.build()
		if err != nil {
			return nil, errors.Wrapf(err, "load world: body %d", saved.Id)
		}

		transform := actor.Transform{Position: mgl64.Vec2{saved.X, saved.Y}, Rotation: saved.Rotation}
		body := actor.NewBody(saved.Id, transform, shape, saved.Solid)
		body.TimeScale = saved.TimeScale
		if err := w.AddBody(body); err != nil {
			return nil, errors.Wrap(err, "load world")
		}

		if saved.Tether == nil {
			continue
		}
		t, err := w.Attach(saved.Id, tether.DefaultConfig())
		if err != nil {
			return nil, errors.Wrap(err, "load world")
		}
		t.LoadState(*saved.Tether)
	}

	for _, body := range w.Bodies {
		entry, ok := w.tethers[body.Id]
		if !ok {
			continue
		}
		if err := entry.tether.AfterLoad(w.Body); err != nil {
			return nil, errors.Wrap(err, "load world")
		}
	}

	return w, nil
}
