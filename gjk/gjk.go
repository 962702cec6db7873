// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for 2D collision detection.
//
// GJK detects whether two convex shapes overlap by testing if their Minkowski difference
// contains the origin. In 2D the simplex grows from a point to a segment to a triangle,
// and a triangle enclosing the origin proves the overlap.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/akmonengine/rubberband/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Simplex represents a set of 1-3 points in the Minkowski difference space.
// Size progression: 1 point → 2 points (segment) → 3 points (triangle)
type Simplex struct {
	Points [3]mgl64.Vec2
	Count  int
	// Straddle is set when the origin lies on the segment simplex: the next
	// search direction is one of its normals and both sides must be searched
	Straddle bool
}

func (s *Simplex) Reset() {
	s.Count = 0
	s.Straddle = false
}

// Tolerance is the distance under which a support point is taken as touching the origin
const Tolerance = 1e-9

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport computes a support point in the Minkowski difference (A - B):
// furthestPoint(A, direction) - furthestPoint(B, -direction)
func MinkowskiSupport(a, b *actor.Body, direction mgl64.Vec2) mgl64.Vec2 {
	supportA := a.SupportWorld(direction)
	supportB := b.SupportWorld(direction.Mul(-1))
	return supportA.Sub(supportB)
}

// Overlaps runs GJK with a pooled simplex
func Overlaps(a, b *actor.Body) bool {
	simplex := SimplexPool.Get().(*Simplex)
	simplex.Reset()
	defer SimplexPool.Put(simplex)

	return GJK(a, b, simplex)
}

// GJK performs collision detection between two convex bodies.
//
// Algorithm overview:
//  1. Start with initial search direction (toward B from A)
//  2. Get first support point in Minkowski difference
//  3. Iteratively refine simplex toward origin
//  4. If origin is enclosed → collision
//  5. If can't reach origin → no collision
//
// Shapes that only touch are reported as separated.
func GJK(a, b *actor.Body, simplex *Simplex) bool {
	direction := b.Transform.Position.Sub(a.Transform.Position)
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec2{1, 0} // Fallback if positions are identical
	}

	simplex.Points[0] = MinkowskiSupport(a, b, direction)
	simplex.Count = 1

	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		// first support point is the origin: touching
		return false
	}

	maxIterations := 32 // Safety limit to prevent infinite loops
	for i := 0; i < maxIterations; i++ {
		newPoint := MinkowskiSupport(a, b, direction)

		// The new point doesn't pass the origin: separated or touching
		if !passesOrigin(newPoint, direction) {
			return false
		}

		if simplex.Straddle {
			// origin on a segment with the difference reaching past it on both sides
			opposite := direction.Mul(-1)
			return passesOrigin(MinkowskiSupport(a, b, opposite), opposite)
		}

		simplex.Points[simplex.Count] = newPoint
		simplex.Count++

		if containsOrigin(simplex, &direction) {
			return true
		}
	}

	return false
}

func passesOrigin(point, direction mgl64.Vec2) bool {
	return point.Dot(direction) > Tolerance*direction.Len()
}

// tripleProduct returns (a × b) × c, using the 2D vectors as z=0 3D vectors.
// (a × b) × c = b(a·c) - a(b·c)
func tripleProduct(a, b, c mgl64.Vec2) mgl64.Vec2 {
	return b.Mul(a.Dot(c)).Sub(a.Mul(b.Dot(c)))
}

func containsOrigin(simplex *Simplex, direction *mgl64.Vec2) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	}
	return false
}

// line handles the segment simplex (2 points: A newest, B oldest).
func line(simplex *Simplex, direction *mgl64.Vec2) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	// Handle degenerate case: identical points
	if ab.LenSqr() < 1e-8 {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return false
	}

	// Origin behind A: reduce to point A
	if ab.Dot(ao) <= 0 {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return false
	}

	abPerp := tripleProduct(ab, ao, ab)
	if abPerp.LenSqr() < 1e-12 {
		// Origin is on the segment: search along a normal
		simplex.Straddle = true
		*direction = mgl64.Vec2{-ab.Y(), ab.X()}
		return false
	}

	*direction = abPerp
	return false
}

// triangle handles the triangle simplex (3 points: A newest, then B, C).
// An origin lying on edge AB or AC is treated as outside, so that edge is
// searched past before the overlap is accepted.
func triangle(simplex *Simplex, direction *mgl64.Vec2) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	abPerp := tripleProduct(ac, ab, ab)
	acPerp := tripleProduct(ab, ac, ac)

	// Colinear points enclose nothing
	if abPerp.LenSqr() < 1e-12 && acPerp.LenSqr() < 1e-12 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		return line(simplex, direction)
	}

	// Region AB: drop C
	if abPerp.Dot(ao) >= 0 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = abPerp
		return false
	}

	// Region AC: drop B
	if acPerp.Dot(ao) >= 0 {
		simplex.Points[0] = c
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = acPerp
		return false
	}

	return true
}
