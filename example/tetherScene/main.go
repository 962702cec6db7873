package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/akmonengine/rubberband"
	"github.com/akmonengine/rubberband/actor"
	"github.com/akmonengine/rubberband/tether"
	"github.com/charmbracelet/harmonica"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	scenePath = flag.String("scene", "example/tetherScene/scene.toml", "scene file")
	savePath  = flag.String("save", "rubberband-save.json", "file written by the s key")
	logPath   = flag.String("log", "", "debug log file (none by default)")
)

const (
	fixtureStep = 8.0
	kickSpeed   = 400.0
	lengthStep  = 10.0
)

// camera follows a body through one critically damped spring per axis
type camera struct {
	spring harmonica.Spring
	x, vx  float64
	y, vy  float64
}

func newCamera(fps int, frequency, damping float64, start mgl64.Vec2) camera {
	return camera{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		x:      start.X(),
		y:      start.Y(),
	}
}

func (c *camera) follow(target mgl64.Vec2) {
	c.x, c.vx = c.spring.Update(c.x, c.vx, target.X())
	c.y, c.vy = c.spring.Update(c.y, c.vy, target.Y())
}

type sandbox struct {
	screen tcell.Screen
	world  *rubberband.World
	scene  Scene
	camera camera

	tethered []int
	focus    int // index in tethered

	width, height int
	hits          int
	status        string
	lastFrame     time.Time
}

func newSandbox(scene Scene, logger *slog.Logger, screen tcell.Screen) (*sandbox, error) {
	world, tethered, err := scene.Build()
	if err != nil {
		return nil, err
	}
	world.Logger = logger

	if err := screen.Init(); err != nil {
		return nil, err
	}

	s := &sandbox{
		screen:    screen,
		world:     world,
		scene:     scene,
		tethered:  tethered,
		status:    "arrows: move fixture  space: kick  tab: focus  c: collisions  e: enable  +/-: length  s: save  q: quit",
		lastFrame: time.Now(),
	}
	s.width, s.height = screen.Size()

	start := mgl64.Vec2{}
	if body := s.focused(); body != nil {
		start = body.Position()
	}
	s.camera = newCamera(scene.View.FPS, scene.View.Frequency, scene.View.Damping, start)

	world.Events.Subscribe(rubberband.COLLISION_ENTER, func(event rubberband.Event) {
		s.hits++
	})
	world.Events.Subscribe(rubberband.ON_STUCK, func(event rubberband.Event) {
		stuck := event.(rubberband.StuckEvent)
		s.status = fmt.Sprintf("body %d stuck for %.2fs", stuck.Body.Id, stuck.UnmovedTime)
	})

	return s, nil
}

func (s *sandbox) focused() *actor.Body {
	if len(s.tethered) == 0 {
		return nil
	}
	body, _ := s.world.Body(s.tethered[s.focus])
	return body
}

func (s *sandbox) focusedTether() *tether.Tether {
	if len(s.tethered) == 0 {
		return nil
	}
	t, _ := s.world.Tether(s.tethered[s.focus])
	return t
}

func (s *sandbox) forEachTether(fn func(t *tether.Tether)) {
	for _, id := range s.tethered {
		if t, ok := s.world.Tether(id); ok {
			fn(t)
		}
	}
}

func (s *sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

		switch ev.Key() {
		case tcell.KeyLeft:
			s.moveFixture(mgl64.Vec2{-fixtureStep, 0})
		case tcell.KeyRight:
			s.moveFixture(mgl64.Vec2{fixtureStep, 0})
		case tcell.KeyUp:
			s.moveFixture(mgl64.Vec2{0, -fixtureStep})
		case tcell.KeyDown:
			s.moveFixture(mgl64.Vec2{0, fixtureStep})
		case tcell.KeyTab:
			if len(s.tethered) > 0 {
				s.focus = (s.focus + 1) % len(s.tethered)
			}
		case tcell.KeyRune:
			s.handleRune(ev.Rune())
		}

	case *tcell.EventResize:
		s.width, s.height = s.screen.Size()
		s.screen.Sync()
	}

	return true
}

func (s *sandbox) moveFixture(delta mgl64.Vec2) {
	if fixture, ok := s.world.Body(s.scene.Fixture.Id); ok {
		fixture.Translate(delta)
	}
}

func (s *sandbox) handleRune(r rune) {
	t := s.focusedTether()

	switch r {
	case ' ':
		if t != nil {
			t.SetVelocity(t.Velocity().Add(mgl64.Vec2{0, -kickSpeed}))
		}
	case 'c':
		s.forEachTether(func(t *tether.Tether) { t.SetCollisionsEnabled(!t.Config().CollisionsEnabled) })
	case 'e':
		s.forEachTether(func(t *tether.Tether) { t.SetEnabled(!t.Config().Enabled) })
	case '+':
		if t != nil {
			t.SetRelaxedLength(t.Config().RelaxedLength + lengthStep)
		}
	case '-':
		if t != nil {
			t.SetRelaxedLength(t.Config().RelaxedLength - lengthStep)
		}
	case 'u':
		if t == nil {
			break
		}
		if t.IsTied() {
			t.Untie()
			s.status = fmt.Sprintf("body %d untied", t.Body.Id)
		} else if err := s.world.Tie(t.Body.Id, s.scene.Fixture.Id); err != nil {
			s.status = err.Error()
		} else {
			s.status = fmt.Sprintf("body %d tied to %d", t.Body.Id, s.scene.Fixture.Id)
		}
	case 's':
		s.status = s.save()
	}
}

func (s *sandbox) save() string {
	file, err := os.Create(*savePath)
	if err != nil {
		return err.Error()
	}
	defer file.Close()

	if err := s.world.Save(file); err != nil {
		return err.Error()
	}
	return "saved to " + *savePath
}

func (s *sandbox) update() {
	now := time.Now()
	dt := now.Sub(s.lastFrame).Seconds()
	s.lastFrame = now

	if err := s.world.Step(dt); err != nil {
		s.status = err.Error()
	}
	if body := s.focused(); body != nil {
		s.camera.follow(body.Position())
	}
}

// toScreen converts a world position to a terminal cell, the camera at the center
func (s *sandbox) toScreen(p mgl64.Vec2) (int, int) {
	x := (p.X()-s.camera.x)/s.scene.View.ScaleX + float64(s.width)/2
	y := (p.Y()-s.camera.y)/s.scene.View.ScaleY + float64(s.height)/2
	return int(math.Floor(x)), int(math.Floor(y))
}

func (s *sandbox) set(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height-1 {
		s.screen.SetContent(x, y, r, nil, style)
	}
}

func (s *sandbox) drawBox(aabb actor.AABB, r rune, style tcell.Style) {
	minX, minY := s.toScreen(aabb.Min)
	maxX, maxY := s.toScreen(aabb.Max)
	for x := max(minX, 0); x <= min(maxX, s.width-1); x++ {
		for y := max(minY, 0); y <= min(maxY, s.height-2); y++ {
			s.set(x, y, r, style)
		}
	}
}

func (s *sandbox) drawBand(t *tether.Tether) {
	fixture := t.Fixture()
	if fixture == nil {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	r := '·'
	if t.IsStretched() {
		style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		r = '*'
	}

	from, to := t.Body.Position(), fixture.Position()
	fx, fy := s.toScreen(from)
	tx, ty := s.toScreen(to)
	steps := max(abs(tx-fx), abs(ty-fy))
	for i := 1; i < steps; i++ {
		p := from.Add(to.Sub(from).Mul(float64(i) / float64(steps)))
		x, y := s.toScreen(p)
		s.set(x, y, r, style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (s *sandbox) draw() {
	s.screen.Clear()

	for _, body := range s.world.Bodies {
		if body.Solid {
			s.drawBox(body.AABB(), '█', tcell.StyleDefault.Foreground(tcell.ColorBlue))
		}
	}

	s.forEachTether(s.drawBand)

	if fixture, ok := s.world.Body(s.scene.Fixture.Id); ok {
		x, y := s.toScreen(fixture.Position())
		s.set(x, y, '+', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}

	for i, id := range s.tethered {
		body, ok := s.world.Body(id)
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		if i == s.focus {
			style = style.Reverse(true)
		}
		if s.world.IsStuck(id) {
			style = style.Foreground(tcell.ColorPurple)
		}
		x, y := s.toScreen(body.Position())
		s.set(x, y, 'O', style)
	}

	s.drawStatus()
	s.screen.Show()
}

func (s *sandbox) drawStatus() {
	line := s.status
	if t := s.focusedTether(); t != nil {
		cfg := t.Config()
		line = fmt.Sprintf("body %d  v=%6.1f  len=%.0f  dt=%.3f  hits=%d  collide=%t  on=%t | %s",
			t.Body.Id, t.Speed(), cfg.RelaxedLength, t.MedianDt(), s.hits, cfg.CollisionsEnabled, cfg.Enabled, s.status)
	}

	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < s.width; x++ {
		r := ' '
		if x < len([]rune(line)) {
			r = []rune(line)[x]
		}
		s.screen.SetContent(x, s.height-1, r, nil, style)
	}
}

func (s *sandbox) run() {
	frame := time.Second / time.Duration(max(s.scene.View.FPS, 1))
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- s.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !s.handleInput(ev) {
				return
			}

		case <-ticker.C:
			s.update()
			s.draw()
		}
	}
}

func (s *sandbox) cleanup() {
	s.screen.Fini()
}

func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { file.Close() }, nil
}

func main() {
	flag.Parse()

	scene, err := LoadScene(*scenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scene: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}

	game, err := newSandbox(scene, logger, screen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer game.cleanup()

	game.run()
}
