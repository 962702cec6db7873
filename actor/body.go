package actor

import "github.com/go-gl/mathgl/mgl64"

// Body is a host entity: something with a position and a collision shape.
// Solid bodies are obstacles that tethered bodies bounce off.
type Body struct {
	Id        int
	Transform Transform
	Shape     ShapeInterface

	// Solid marks the body as an obstacle for overlap queries
	Solid bool
	// TimeScale multiplies the world frame delta for this body (1 = normal speed)
	TimeScale float64

	bboxChanged bool
}

// NewBody creates a body and computes its initial bounding box
func NewBody(id int, transform Transform, shape ShapeInterface, solid bool) *Body {
	b := &Body{
		Id:        id,
		Transform: transform,
		Shape:     shape,
		Solid:     solid,
		TimeScale: 1.0,
	}
	if shape != nil {
		shape.ComputeAABB(transform)
	}

	return b
}

// Position returns the world position of the body
func (b *Body) Position() mgl64.Vec2 {
	return b.Transform.Position
}

// SetPosition moves the body without flagging its bounding box
func (b *Body) SetPosition(position mgl64.Vec2) {
	b.Transform.Position = position
}

// Translate moves the body by delta without flagging its bounding box
func (b *Body) Translate(delta mgl64.Vec2) {
	b.Transform.Position = b.Transform.Position.Add(delta)
}

// SetBBoxChanged recomputes the bounding box and flags the body as moved
func (b *Body) SetBBoxChanged() {
	b.bboxChanged = true
	b.UpdateAABB()
}

// UpdateAABB recomputes the bounding box at the current transform
func (b *Body) UpdateAABB() {
	if b.Shape != nil {
		b.Shape.ComputeAABB(b.Transform)
	}
}

// ConsumeBBoxChanged reports whether the body moved since the last call, and clears the flag
func (b *Body) ConsumeBBoxChanged() bool {
	changed := b.bboxChanged
	b.bboxChanged = false
	return changed
}

// BBoxChanged reports the moved flag without clearing it
func (b *Body) BBoxChanged() bool {
	return b.bboxChanged
}

// AABB returns the bounding box at the current transform
func (b *Body) AABB() AABB {
	b.UpdateAABB()
	if b.Shape == nil {
		return AABB{Min: b.Transform.Position, Max: b.Transform.Position}
	}
	return b.Shape.GetAABB()
}

// Size returns the width and height of the bounding box
func (b *Body) Size() mgl64.Vec2 {
	return b.AABB().Size()
}

// Quad returns the bounding quad in world space
func (b *Body) Quad() Quad {
	if b.Shape == nil {
		return AABB{Min: b.Transform.Position, Max: b.Transform.Position}.Quad()
	}
	return b.Shape.ComputeQuad(b.Transform)
}

// SupportWorld returns the furthest world point of the body along a world direction
func (b *Body) SupportWorld(direction mgl64.Vec2) mgl64.Vec2 {
	// 1. Direction en espace local
	localDirection := b.Transform.ApplyInverseRotation(direction)

	// 2. Support en espace local
	localSupport := b.Shape.Support(localDirection)

	// 3. Retour en espace monde
	return b.Transform.Apply(localSupport)
}
