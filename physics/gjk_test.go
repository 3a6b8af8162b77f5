package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestPoints(t *testing.T) {
	ident := mgl64.QuatIdent()

	tests := []struct {
		name     string
		a        Shape
		posA     mgl64.Vec3
		b        Shape
		posB     mgl64.Vec3
		distance float64
		normal   mgl64.Vec3
	}{
		{
			name:     "spheres_apart",
			a:        Sphere(1),
			posA:     mgl64.Vec3{3, 0, 0},
			b:        Sphere(0.5),
			posB:     mgl64.Vec3{},
			distance: 1.5,
			normal:   mgl64.Vec3{1, 0, 0},
		},
		{
			name:     "sphere_above_box",
			a:        Sphere(0.5),
			posA:     mgl64.Vec3{0.2, 2, -0.3},
			b:        Cuboid(1, 1, 1),
			posB:     mgl64.Vec3{},
			distance: 0.5,
			normal:   mgl64.Vec3{0, 1, 0},
		},
		{
			name:     "capsule_beside_box",
			a:        Capsule(0.35, 1),
			posA:     mgl64.Vec3{0, 0, 2},
			b:        Cuboid(1, 1, 1),
			posB:     mgl64.Vec3{},
			distance: 0.65,
			normal:   mgl64.Vec3{0, 0, 1},
		},
		{
			name:     "rounded_penetration",
			a:        Sphere(1),
			posA:     mgl64.Vec3{0, 1.5, 0},
			b:        Cuboid(2, 1, 2),
			posB:     mgl64.Vec3{},
			distance: -0.5,
			normal:   mgl64.Vec3{0, 1, 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prox := ClosestPoints(tc.a, tc.posA, ident, tc.b, tc.posB, ident)
			require.False(t, prox.Overlap)
			assert.InDelta(t, tc.distance, prox.Distance, 1e-6)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, tc.normal[i], prox.Normal[i], 1e-6)
			}
		})
	}
}

func TestClosestPointsCoreOverlap(t *testing.T) {
	ident := mgl64.QuatIdent()
	prox := ClosestPoints(Sphere(0.2), mgl64.Vec3{0.1, 0.1, 0.1}, ident, Cuboid(1, 1, 1), mgl64.Vec3{}, ident)
	assert.True(t, prox.Overlap)
}

func TestClosestPointsRotated(t *testing.T) {
	// A box rotated 45 degrees around Y presents an edge toward +X.
	rot := mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0})
	prox := ClosestPoints(Sphere(0.5), mgl64.Vec3{3, 0, 0}, mgl64.QuatIdent(), Cuboid(1, 1, 1), mgl64.Vec3{}, rot)
	require.False(t, prox.Overlap)
	assert.InDelta(t, 3-math.Sqrt2-0.5, prox.Distance, 1e-6)
}

func TestShapeAABB(t *testing.T) {
	box := Capsule(0.5, 2).AABB(mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent())
	assert.InDelta(t, 0.5, box.Min.X(), 1e-9)
	assert.InDelta(t, 0.5, box.Min.Y(), 1e-9)
	assert.InDelta(t, 3.5, box.Max.Y(), 1e-9)
	assert.InDelta(t, 3.5, box.Max.Z(), 1e-9)

	// Lying on its side along X.
	side := Capsule(0.5, 2).AABB(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	assert.InDelta(t, 1.5, side.Max.X(), 1e-9)
	assert.InDelta(t, 0.5, side.Max.Y(), 1e-9)
}
