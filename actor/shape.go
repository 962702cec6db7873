package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeBox ShapeType = iota
	ShapeTypeCircle
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeQuad returns the bounding quad of the shape in world space
	ComputeQuad(transform Transform) Quad
	// Support returns the furthest local point along a local direction
	Support(direction mgl64.Vec2) mgl64.Vec2
}

// Box represents an oriented rectangle collision shape
// The box is defined by its half-extents (half-width, half-height)
type Box struct {
	HalfExtents mgl64.Vec2
	aabb        AABB
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

func (b *Box) ComputeQuad(transform Transform) Quad {
	hx, hy := b.HalfExtents.X(), b.HalfExtents.Y()

	// Coins en espace local, ordre de parcours
	return Quad{
		transform.Apply(mgl64.Vec2{-hx, -hy}),
		transform.Apply(mgl64.Vec2{+hx, -hy}),
		transform.Apply(mgl64.Vec2{+hx, +hy}),
		transform.Apply(mgl64.Vec2{-hx, +hy}),
	}
}

func (b *Box) ComputeAABB(transform Transform) {
	b.aabb = b.ComputeQuad(transform).AABB()
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) Support(direction mgl64.Vec2) mgl64.Vec2 {
	hx, hy := b.HalfExtents.X(), b.HalfExtents.Y()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}

	return mgl64.Vec2{hx, hy}
}

// Circle represents a circle collision shape
type Circle struct {
	Radius float64
	aabb   AABB
}

func (c *Circle) Type() ShapeType {
	return ShapeTypeCircle
}

// ComputeQuad returns the square enclosing the circle; rotation has no effect
func (c *Circle) ComputeQuad(transform Transform) Quad {
	r := mgl64.Vec2{c.Radius, c.Radius}
	return AABB{
		Min: transform.Position.Sub(r),
		Max: transform.Position.Add(r),
	}.Quad()
}

func (c *Circle) ComputeAABB(transform Transform) {
	r := mgl64.Vec2{c.Radius, c.Radius}
	c.aabb = AABB{
		Min: transform.Position.Sub(r),
		Max: transform.Position.Add(r),
	}
}

func (c *Circle) GetAABB() AABB {
	return c.aabb
}

func (c *Circle) Support(direction mgl64.Vec2) mgl64.Vec2 {
	if direction.LenSqr() < 1e-16 {
		return mgl64.Vec2{c.Radius, 0}
	}
	return direction.Normalize().Mul(c.Radius)
}
