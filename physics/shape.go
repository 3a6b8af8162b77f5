package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type ShapeKind int

const (
	KindSphere ShapeKind = iota
	KindCapsule
	KindCuboid
	KindRamp
	KindHull
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindCapsule:
		return "capsule"
	case KindCuboid:
		return "cuboid"
	case KindRamp:
		return "ramp"
	case KindHull:
		return "hull"
	default:
		return "unknown"
	}
}

// Shape is a convex core expanded by a rounding radius. Spheres and capsules
// are a point and a segment with a radius; boxes and hulls have no radius.
type Shape struct {
	Kind   ShapeKind
	Core   []mgl64.Vec3
	Radius float64
}

func Sphere(radius float64) Shape {
	return Shape{Kind: KindSphere, Core: []mgl64.Vec3{{}}, Radius: math.Max(radius, 0)}
}

// Capsule is a segment of the given length along local Y rounded by radius.
func Capsule(radius, length float64) Shape {
	h := math.Max(length, 0) / 2
	return Shape{
		Kind:   KindCapsule,
		Core:   []mgl64.Vec3{{0, -h, 0}, {0, h, 0}},
		Radius: math.Max(radius, 0),
	}
}

func Cuboid(hx, hy, hz float64) Shape {
	core := make([]mgl64.Vec3, 0, 8)
	for _, x := range []float64{-hx, hx} {
		for _, y := range []float64{-hy, hy} {
			for _, z := range []float64{-hz, hz} {
				core = append(core, mgl64.Vec3{x, y, z})
			}
		}
	}
	return Shape{Kind: KindCuboid, Core: core}
}

// Ramp is a wedge with a full-size base whose top edge sits at +Z, so the
// slope rises toward +Z.
func Ramp(hx, hy, hz float64) Shape {
	return Shape{
		Kind: KindRamp,
		Core: []mgl64.Vec3{
			{-hx, -hy, -hz}, {hx, -hy, -hz},
			{-hx, -hy, hz}, {hx, -hy, hz},
			{-hx, hy, hz}, {hx, hy, hz},
		},
	}
}

func ConvexHull(points ...mgl64.Vec3) Shape {
	if len(points) == 0 {
		return Shape{Kind: KindHull, Core: []mgl64.Vec3{{}}}
	}
	return Shape{Kind: KindHull, Core: append([]mgl64.Vec3(nil), points...)}
}

// Support returns the core point farthest along dir in local space.
func (s Shape) Support(dir mgl64.Vec3) mgl64.Vec3 {
	if len(s.Core) == 0 {
		return mgl64.Vec3{}
	}
	best := s.Core[0]
	bestDot := best.Dot(dir)
	for _, p := range s.Core[1:] {
		if d := p.Dot(dir); d > bestDot {
			best, bestDot = p, d
		}
	}
	return best
}

func (s Shape) supportFunc(pos mgl64.Vec3, rot mgl64.Quat) func(mgl64.Vec3) mgl64.Vec3 {
	inv := rot.Conjugate()
	return func(dir mgl64.Vec3) mgl64.Vec3 {
		return pos.Add(rot.Rotate(s.Support(inv.Rotate(dir))))
	}
}

// AABB returns the world bounds of the shape placed at pos with rot.
func (s Shape) AABB(pos mgl64.Vec3, rot mgl64.Quat) AABB {
	rot = normalizeRotation(rot)
	support := s.supportFunc(pos, rot)
	var box AABB
	for i := 0; i < 3; i++ {
		var axis mgl64.Vec3
		axis[i] = 1
		box.Max[i] = support(axis)[i] + s.Radius
		box.Min[i] = support(axis.Mul(-1))[i] - s.Radius
	}
	return box
}

type AABB struct {
	Min, Max mgl64.Vec3
}

func (b AABB) Union(o AABB) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], o.Min[i])
		b.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return b
}

func (b AABB) Expand(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

func (b AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

func normalizeRotation(q mgl64.Quat) mgl64.Quat {
	if q.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
