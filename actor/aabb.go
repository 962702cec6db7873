package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on both axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// Size returns the width and height of the box
func (a AABB) Size() mgl64.Vec2 {
	return a.Max.Sub(a.Min)
}

// Center returns the middle of the box
func (a AABB) Center() mgl64.Vec2 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Quad returns the four corners of the box
func (a AABB) Quad() Quad {
	return Quad{
		{a.Min.X(), a.Min.Y()},
		{a.Max.X(), a.Min.Y()},
		{a.Max.X(), a.Max.Y()},
		{a.Min.X(), a.Max.Y()},
	}
}

// Quad is a bounding quadrilateral, corners in winding order
type Quad [4]mgl64.Vec2

// Center returns the centroid of the four corners
func (q Quad) Center() mgl64.Vec2 {
	return q[0].Add(q[1]).Add(q[2]).Add(q[3]).Mul(0.25)
}

// CornerToward returns the corner lying furthest along the given direction,
// seen from the quad center. Ties keep the first corner in winding order.
func (q Quad) CornerToward(direction mgl64.Vec2) mgl64.Vec2 {
	center := q.Center()
	best := q[0]
	bestDot := q[0].Sub(center).Dot(direction)
	for i := 1; i < 4; i++ {
		if d := q[i].Sub(center).Dot(direction); d > bestDot {
			best = q[i]
			bestDot = d
		}
	}
	return best
}

// AABB returns the axis-aligned box enclosing the quad
func (q Quad) AABB() AABB {
	min := q[0]
	max := q[0]
	for i := 1; i < 4; i++ {
		min[0] = math.Min(min[0], q[i][0])
		min[1] = math.Min(min[1], q[i][1])
		max[0] = math.Max(max[0], q[i][0])
		max[1] = math.Max(max[1], q[i][1])
	}
	return AABB{Min: min, Max: max}
}
