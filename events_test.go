package rubberband

import (
	"testing"

	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	for _, e := range ec.events {
		if e.Type() == eventType {
			return true
		}
	}
	return false
}

func (ec *eventCapture) countType(eventType EventType) int {
	n := 0
	for _, e := range ec.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

func subscribeAll(events *Events, capture *eventCapture) {
	for _, eventType := range []EventType{COLLISION_ENTER, COLLISION_STAY, COLLISION_EXIT, ON_MOVED, ON_STUCK} {
		events.Subscribe(eventType, capture.capture)
	}
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)

	if len(events.listeners[COLLISION_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	first, second := &eventCapture{}, &eventCapture{}
	events.Subscribe(ON_MOVED, first.capture)
	events.Subscribe(ON_MOVED, second.capture)

	body := newTestBox(1, mgl64.Vec2{}, mgl64.Vec2{1, 1}, false)
	events.emitMoved(body, mgl64.Vec2{1, 0})
	events.flush()

	if first.count() != 1 || second.count() != 1 {
		t.Errorf("Expected both listeners called once, got %d and %d", first.count(), second.count())
	}
}

func TestEvents_NoListeners(t *testing.T) {
	events := NewEvents()
	body := newTestBox(1, mgl64.Vec2{}, mgl64.Vec2{1, 1}, false)

	events.emitStuck(body, 0.4)
	events.flush()

	if len(events.buffer) != 0 {
		t.Errorf("Expected buffer to be cleared, got %d events", len(events.buffer))
	}
}

// =============================================================================
// Collision Enter / Stay / Exit
// =============================================================================

func TestEvents_CollisionLifecycle(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	body := newTestBox(1, mgl64.Vec2{}, mgl64.Vec2{1, 1}, false)
	wall := newTestBox(10, mgl64.Vec2{}, mgl64.Vec2{5, 5}, true)

	// Frame 1: Enter
	events.recordCollision(body, wall)
	events.flush()
	if capture.count() != 1 || !capture.hasEventType(COLLISION_ENTER) {
		t.Fatalf("frame 1: expected one COLLISION_ENTER, got %v", capture.events)
	}
	enter := capture.events[0].(CollisionEnterEvent)
	if enter.Body != body || enter.Other != wall {
		t.Errorf("frame 1: wrong bodies %v", enter)
	}

	// Frame 2: Stay, recorded twice in the frame but reported once
	capture.reset()
	events.recordCollision(body, wall)
	events.recordCollision(body, wall)
	events.flush()
	if capture.count() != 1 || !capture.hasEventType(COLLISION_STAY) {
		t.Fatalf("frame 2: expected one COLLISION_STAY, got %v", capture.events)
	}

	// Frame 3: Exit
	capture.reset()
	events.flush()
	if capture.count() != 1 || !capture.hasEventType(COLLISION_EXIT) {
		t.Fatalf("frame 3: expected one COLLISION_EXIT, got %v", capture.events)
	}

	// Frame 4: nothing
	capture.reset()
	events.flush()
	if capture.count() != 0 {
		t.Errorf("frame 4: expected no event, got %v", capture.events)
	}
}

func TestEvents_MultipleFrames_EnterExitEnter(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	body := newTestBox(1, mgl64.Vec2{}, mgl64.Vec2{1, 1}, false)
	wall := newTestBox(10, mgl64.Vec2{}, mgl64.Vec2{5, 5}, true)

	events.recordCollision(body, wall)
	events.flush()
	events.flush()
	events.recordCollision(body, wall)
	events.flush()

	if got := capture.countType(COLLISION_ENTER); got != 2 {
		t.Errorf("Expected 2 COLLISION_ENTER, got %d", got)
	}
	if got := capture.countType(COLLISION_EXIT); got != 1 {
		t.Errorf("Expected 1 COLLISION_EXIT, got %d", got)
	}
}

func TestEvents_DeterministicOrder(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_ENTER, capture.capture)

	var bodies []*actor.Body
	for id := 1; id <= 8; id++ {
		bodies = append(bodies, newTestBox(id, mgl64.Vec2{}, mgl64.Vec2{1, 1}, false))
	}
	wall := newTestBox(100, mgl64.Vec2{}, mgl64.Vec2{5, 5}, true)
	for i := len(bodies) - 1; i >= 0; i-- {
		events.recordCollision(bodies[i], wall)
	}
	events.flush()

	for i, event := range capture.events {
		if got := event.(CollisionEnterEvent).Body.Id; got != i+1 {
			t.Fatalf("event %d is for body %d, want %d", i, got, i+1)
		}
	}
}

func TestEvents_Forget(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	body := newTestBox(1, mgl64.Vec2{}, mgl64.Vec2{1, 1}, false)
	wall := newTestBox(10, mgl64.Vec2{}, mgl64.Vec2{5, 5}, true)

	events.recordCollision(body, wall)
	events.flush()
	capture.reset()

	events.forget(wall)
	events.flush()

	if capture.count() != 0 {
		t.Errorf("Expected no exit event for a removed body, got %v", capture.events)
	}
}

// =============================================================================
// Moved / Stuck
// =============================================================================

func TestEvents_MovedAndStuck(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	body := newTestBox(1, mgl64.Vec2{}, mgl64.Vec2{1, 1}, false)
	events.emitMoved(body, mgl64.Vec2{0, 2})
	events.emitStuck(body, 0.34)
	events.flush()

	if capture.count() != 2 {
		t.Fatalf("Expected 2 events, got %d", capture.count())
	}
	moved, ok := capture.events[0].(MovedEvent)
	if !ok || moved.Displacement != (mgl64.Vec2{0, 2}) {
		t.Errorf("Expected MovedEvent first, got %v", capture.events[0])
	}
	stuck, ok := capture.events[1].(StuckEvent)
	if !ok || stuck.UnmovedTime != 0.34 {
		t.Errorf("Expected StuckEvent second, got %v", capture.events[1])
	}
}
