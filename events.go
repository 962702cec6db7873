package rubberband

import (
	"sort"

	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
	ON_MOVED
	ON_STUCK
)

// pairKey identifies a tethered body and the solid it hit
type pairKey struct {
	body  *actor.Body
	other *actor.Body
}

func makePairKey(body, other *actor.Body) pairKey {
	return pairKey{body: body, other: other}
}

func (p pairKey) less(o pairKey) bool {
	if p.body.Id != o.body.Id {
		return p.body.Id < o.body.Id
	}
	return p.other.Id < o.other.Id
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Collision events. Body is the tethered body, Other the solid it bounced off.
type CollisionEnterEvent struct {
	Body  *actor.Body
	Other *actor.Body
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	Body  *actor.Body
	Other *actor.Body
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	Body  *actor.Body
	Other *actor.Body
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// MovedEvent is sent when a tick moved a body enough to change its bounding box
type MovedEvent struct {
	Body         *actor.Body
	Displacement mgl64.Vec2
}

func (e MovedEvent) Type() EventType { return ON_MOVED }

// StuckEvent is sent once each time a body becomes stuck against a solid
type StuckEvent struct {
	Body        *actor.Body
	UnmovedTime float64
}

func (e StuckEvent) Type() EventType { return ON_STUCK }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollision is called from the tether host when a body bounced off a solid
func (e *Events) recordCollision(body, other *actor.Body) {
	e.currentActivePairs[makePairKey(body, other)] = true
}

func (e *Events) emitMoved(body *actor.Body, displacement mgl64.Vec2) {
	e.buffer = append(e.buffer, MovedEvent{Body: body, Displacement: displacement})
}

func (e *Events) emitStuck(body *actor.Body, unmovedTime float64) {
	e.buffer = append(e.buffer, StuckEvent{Body: body, UnmovedTime: unmovedTime})
}

// forget drops every pair involving a removed body, without an exit event
func (e *Events) forget(body *actor.Body) {
	for pair := range e.previousActivePairs {
		if pair.body == body || pair.other == body {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.body == body || pair.other == body {
			delete(e.currentActivePairs, pair)
		}
	}
}

func sortedPairs(pairs map[pairKey]bool) []pairKey {
	keys := make([]pairKey, 0, len(pairs))
	for pair := range pairs {
		keys = append(keys, pair)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
// Should be called once per step, after every tether ticked
func (e *Events) processCollisionEvents() {
	// Detect Enter and Stay events
	for _, pair := range sortedPairs(e.currentActivePairs) {
		if e.previousActivePairs[pair] {
			// Pair was active before and still is, Stay
			e.buffer = append(e.buffer, CollisionStayEvent{Body: pair.body, Other: pair.other})
		} else {
			// New pair, Enter
			e.buffer = append(e.buffer, CollisionEnterEvent{Body: pair.body, Other: pair.other})
		}
	}

	// Detect Exit events
	for _, pair := range sortedPairs(e.previousActivePairs) {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionExitEvent{Body: pair.body, Other: pair.other})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
