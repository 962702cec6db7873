package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and an orientation in 2D space
type Transform struct {
	Position mgl64.Vec2
	Rotation float64 // radians, counter-clockwise
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec2{0, 0},
		Rotation: 0,
	}
}

// Apply converts a local point to world space
func (t Transform) Apply(local mgl64.Vec2) mgl64.Vec2 {
	if t.Rotation == 0 {
		return local.Add(t.Position)
	}
	return mgl64.Rotate2D(t.Rotation).Mul2x1(local).Add(t.Position)
}

// ApplyInverseRotation rotates a world direction into local space
func (t Transform) ApplyInverseRotation(direction mgl64.Vec2) mgl64.Vec2 {
	if t.Rotation == 0 {
		return direction
	}
	return mgl64.Rotate2D(-t.Rotation).Mul2x1(direction)
}

// ApplyRotation rotates a local direction into world space
func (t Transform) ApplyRotation(direction mgl64.Vec2) mgl64.Vec2 {
	if t.Rotation == 0 {
		return direction
	}
	return mgl64.Rotate2D(t.Rotation).Mul2x1(direction)
}
