package main

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/akmonengine/rubberband"
	"github.com/akmonengine/rubberband/actor"
	"github.com/akmonengine/rubberband/tether"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Scene is the sandbox file: a grid, a view, one band config shared by every
// tethered body, the fixture they are tied to and the solids they bounce off
type Scene struct {
	Grid    GridConfig    `toml:"grid"`
	View    ViewConfig    `toml:"view"`
	Tether  tether.Config `toml:"tether"`
	Fixture BodyConfig    `toml:"fixture"`
	Bodies  []BodyConfig  `toml:"body"`
	Solids  []BodyConfig  `toml:"solid"`
}

type GridConfig struct {
	CellSize float64 `toml:"cell_size"`
	NumCells int     `toml:"num_cells"`
}

// ViewConfig maps world units to terminal cells and tunes the camera spring
type ViewConfig struct {
	ScaleX    float64 `toml:"scale_x"`
	ScaleY    float64 `toml:"scale_y"`
	FPS       int     `toml:"fps"`
	Frequency float64 `toml:"frequency"`
	Damping   float64 `toml:"damping"`
}

type BodyConfig struct {
	Id         int     `toml:"id"`
	X          float64 `toml:"x"`
	Y          float64 `toml:"y"`
	Rotation   float64 `toml:"rotation"`
	HalfWidth  float64 `toml:"half_width"`
	HalfHeight float64 `toml:"half_height"`
	// Radius > 0 makes a circle, otherwise a box
	Radius    float64 `toml:"radius"`
	TimeScale float64 `toml:"time_scale"`
}

func defaultScene() Scene {
	return Scene{
		Grid:   GridConfig{CellSize: 32, NumCells: 1024},
		View:   ViewConfig{ScaleX: 4, ScaleY: 8, FPS: 60, Frequency: 4, Damping: 0.8},
		Tether: tether.DefaultConfig(),
	}
}

// LoadScene reads a scene file over the defaults. Unknown keys are an error.
func LoadScene(path string) (Scene, error) {
	scene := defaultScene()
	md, err := toml.DecodeFile(path, &scene)
	if err != nil {
		return Scene{}, errors.Wrapf(err, "scene %s", path)
	}
	return scene, checkUndecoded(md)
}

// ParseScene is LoadScene on an in-memory document
func ParseScene(data string) (Scene, error) {
	scene := defaultScene()
	md, err := toml.Decode(data, &scene)
	if err != nil {
		return Scene{}, errors.Wrap(err, "scene")
	}
	return scene, checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	keys := make([]string, 0, len(undecoded))
	for _, key := range undecoded {
		keys = append(keys, key.String())
	}
	return errors.Errorf("scene: unknown keys %s", strings.Join(keys, ", "))
}

func (b BodyConfig) shape() actor.ShapeInterface {
	if b.Radius > 0 {
		return &actor.Circle{Radius: b.Radius}
	}

	half := mgl64.Vec2{b.HalfWidth, b.HalfHeight}
	if half.X() <= 0 {
		half[0] = 1
	}
	if half.Y() <= 0 {
		half[1] = 1
	}
	return &actor.Box{HalfExtents: half}
}

func (b BodyConfig) body(solid bool) *actor.Body {
	transform := actor.Transform{Position: mgl64.Vec2{b.X, b.Y}, Rotation: b.Rotation}
	body := actor.NewBody(b.Id, transform, b.shape(), solid)
	if b.TimeScale > 0 {
		body.TimeScale = b.TimeScale
	}
	return body
}

// Build creates the world of a scene and returns the ids of its tethered bodies
func (s Scene) Build() (*rubberband.World, []int, error) {
	world := rubberband.NewWorld(s.Grid.CellSize, s.Grid.NumCells)

	if err := world.AddBody(s.Fixture.body(false)); err != nil {
		return nil, nil, errors.Wrap(err, "fixture")
	}
	for _, solid := range s.Solids {
		if err := world.AddBody(solid.body(true)); err != nil {
			return nil, nil, errors.Wrap(err, "solid")
		}
	}

	ids := make([]int, 0, len(s.Bodies))
	for _, config := range s.Bodies {
		if err := world.AddBody(config.body(false)); err != nil {
			return nil, nil, errors.Wrap(err, "body")
		}
		if _, err := world.Attach(config.Id, s.Tether); err != nil {
			return nil, nil, err
		}
		if err := world.Tie(config.Id, s.Fixture.Id); err != nil {
			return nil, nil, errors.Wrapf(err, "tie body %d", config.Id)
		}
		ids = append(ids, config.Id)
	}

	return world, ids, nil
}
