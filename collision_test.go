package rubberband

import (
	"testing"

	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

func newTestWorld(t *testing.T, bodies ...*actor.Body) *World {
	t.Helper()
	w := NewWorld(10.0, 256)
	for _, body := range bodies {
		if err := w.AddBody(body); err != nil {
			t.Fatalf("AddBody(%d): %v", body.Id, err)
		}
	}
	return w
}

// =============================================================================
// TestOverlapWithSolid
// =============================================================================

func TestTestOverlapWithSolid(t *testing.T) {
	tests := []struct {
		name   string
		body   *actor.Body
		wantID int // -1: no overlap
	}{
		{"clear of everything", newTestBox(1, mgl64.Vec2{0, -30}, mgl64.Vec2{1, 1}, false), -1},
		{"inside the wall", newTestBox(1, mgl64.Vec2{0, 5}, mgl64.Vec2{1, 1}, false), 10},
		{"inside both, lowest id wins", newTestBox(1, mgl64.Vec2{40, 5}, mgl64.Vec2{1, 1}, false), 10},
		{"just above the wall", newTestBox(1, mgl64.Vec2{0, -1.01}, mgl64.Vec2{1, 1}, false), -1},
		{"circle beyond the pillar corner", newTestCircle(1, mgl64.Vec2{80.8, -0.8}, 1, false), -1},
		{"circle on the pillar corner", newTestCircle(1, mgl64.Vec2{80.5, -0.5}, 1, false), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wall := newTestBox(10, mgl64.Vec2{0, 10}, mgl64.Vec2{50, 10}, true)   // top edge at y = 0
			pillar := newTestBox(20, mgl64.Vec2{40, 10}, mgl64.Vec2{40, 10}, true) // x in [0, 80]
			ghost := newTestBox(5, mgl64.Vec2{0, -30}, mgl64.Vec2{5, 5}, false)   // not solid
			w := newTestWorld(t, pillar, ghost, wall, tt.body)

			other, err := w.TestOverlapWithSolid(tt.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch {
			case tt.wantID == -1 && other != nil:
				t.Errorf("expected no overlap, got body %d", other.Id)
			case tt.wantID != -1 && other == nil:
				t.Errorf("expected body %d, got none", tt.wantID)
			case tt.wantID != -1 && other.Id != tt.wantID:
				t.Errorf("expected body %d, got %d", tt.wantID, other.Id)
			}
		})
	}
}

func TestTestOverlapWithSolid_IgnoresItself(t *testing.T) {
	solid := newTestBox(1, mgl64.Vec2{0, 0}, mgl64.Vec2{5, 5}, true)
	w := newTestWorld(t, solid)

	other, err := w.TestOverlapWithSolid(solid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other != nil {
		t.Errorf("a solid must not overlap itself, got %d", other.Id)
	}
}

func TestTestOverlapWithSolid_SeesMovedSolids(t *testing.T) {
	wall := newTestBox(10, mgl64.Vec2{0, 10}, mgl64.Vec2{50, 10}, true)
	body := newTestBox(1, mgl64.Vec2{0, -100}, mgl64.Vec2{1, 1}, false)
	w := newTestWorld(t, wall, body)

	if other, _ := w.TestOverlapWithSolid(body); other != nil {
		t.Fatal("expected no overlap before the wall moved")
	}

	wall.SetPosition(mgl64.Vec2{0, -100})
	wall.SetBBoxChanged()
	if err := w.Step(1.0 / 60.0); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if other, _ := w.TestOverlapWithSolid(body); other != wall {
		t.Error("expected the grid to follow the wall after a step")
	}
}

func TestTestOverlapWithSolid_NoShape(t *testing.T) {
	w := newTestWorld(t)
	body := actor.NewBody(1, actor.NewTransform(), nil, false)

	_, err := w.TestOverlapWithSolid(body)
	if !errors.Is(err, ErrNoShape) {
		t.Errorf("expected ErrNoShape, got %v", err)
	}
}

// =============================================================================
// PushOutOfOverlap
// =============================================================================

func TestPushOutOfOverlap(t *testing.T) {
	wall := newTestBox(10, mgl64.Vec2{0, 10}, mgl64.Vec2{50, 10}, true) // top edge at y = 0

	t.Run("unit steps until clear", func(t *testing.T) {
		body := newTestBox(1, mgl64.Vec2{0, 0.5}, mgl64.Vec2{1, 1}, false) // 1.5 deep
		w := newTestWorld(t, wall, body)

		if err := w.PushOutOfOverlap(body, mgl64.Vec2{0, -1}, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := body.Position(); got != (mgl64.Vec2{0, -1.5}) {
			t.Errorf("position = %v, want [0 -1.5]", got)
		}
	})

	t.Run("gives up past max distance", func(t *testing.T) {
		body := newTestBox(1, mgl64.Vec2{0, 10}, mgl64.Vec2{1, 1}, false) // 11 deep
		w := newTestWorld(t, wall, body)

		err := w.PushOutOfOverlap(body, mgl64.Vec2{0, -1}, 3)
		if !errors.Is(err, ErrPushOutFailed) {
			t.Fatalf("expected ErrPushOutFailed, got %v", err)
		}
		if got := body.Position(); got != (mgl64.Vec2{0, 10}) {
			t.Errorf("position = %v, want restored [0 10]", got)
		}
	})

	t.Run("no direction", func(t *testing.T) {
		body := newTestBox(1, mgl64.Vec2{0, 0.5}, mgl64.Vec2{1, 1}, false)
		w := newTestWorld(t, wall, body)

		if err := w.PushOutOfOverlap(body, mgl64.Vec2{}, 3); !errors.Is(err, ErrPushOutFailed) {
			t.Errorf("expected ErrPushOutFailed, got %v", err)
		}
	})
}
