package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	gjkMaxIterations     = 64
	gjkRelativeTolerance = 1e-10
	gjkOverlapEpsilon    = 1e-16
)

// Proximity is the result of a distance query between two shapes.
// Normal points from B toward A. Distance is negative when the rounded
// shapes interpenetrate while their cores stay apart. Overlap means the cores
// intersect and no separating normal exists.
type Proximity struct {
	Distance float64
	Normal   mgl64.Vec3
	PointA   mgl64.Vec3
	PointB   mgl64.Vec3
	Overlap  bool
}

// ClosestPoints computes the distance between two placed shapes.
func ClosestPoints(a Shape, posA mgl64.Vec3, rotA mgl64.Quat, b Shape, posB mgl64.Vec3, rotB mgl64.Quat) Proximity {
	rotA = normalizeRotation(rotA)
	rotB = normalizeRotation(rotB)
	res := gjk(a.supportFunc(posA, rotA), b.supportFunc(posB, rotB), posA.Sub(posB))
	if res.overlap {
		return Proximity{
			Distance: -(a.Radius + b.Radius),
			PointA:   res.pointA,
			PointB:   res.pointB,
			Overlap:  true,
		}
	}
	n := res.pointA.Sub(res.pointB).Mul(1 / res.distance)
	return Proximity{
		Distance: res.distance - a.Radius - b.Radius,
		Normal:   n,
		PointA:   res.pointA.Sub(n.Mul(a.Radius)),
		PointB:   res.pointB.Add(n.Mul(b.Radius)),
	}
}

type simplexVertex struct {
	a, b, w mgl64.Vec3
}

type simplex struct {
	v    [4]simplexVertex
	bary [4]float64
	n    int
}

func (s *simplex) point() mgl64.Vec3 {
	var p mgl64.Vec3
	for i := 0; i < s.n; i++ {
		p = p.Add(s.v[i].w.Mul(s.bary[i]))
	}
	return p
}

func (s *simplex) witnesses() (mgl64.Vec3, mgl64.Vec3) {
	var pa, pb mgl64.Vec3
	for i := 0; i < s.n; i++ {
		pa = pa.Add(s.v[i].a.Mul(s.bary[i]))
		pb = pb.Add(s.v[i].b.Mul(s.bary[i]))
	}
	return pa, pb
}

func (s *simplex) contains(w mgl64.Vec3) bool {
	for i := 0; i < s.n; i++ {
		if s.v[i].w.Sub(w).LenSqr() < gjkOverlapEpsilon {
			return true
		}
	}
	return false
}

// reduce replaces the simplex with the sub-simplex supporting its closest
// point to the origin. inside reports that the origin lies within a
// tetrahedron.
func (s simplex) reduce() (out simplex, inside bool) {
	switch s.n {
	case 1:
		s.bary[0] = 1
		return s, false
	case 2:
		return closestOnSegment(s.v[0], s.v[1]), false
	case 3:
		return closestOnTriangle(s.v[0], s.v[1], s.v[2]), false
	default:
		return closestOnTetrahedron(s.v[0], s.v[1], s.v[2], s.v[3])
	}
}

func single(a simplexVertex) simplex {
	return simplex{v: [4]simplexVertex{a}, bary: [4]float64{1}, n: 1}
}

func pair(a, b simplexVertex, t float64) simplex {
	return simplex{v: [4]simplexVertex{a, b}, bary: [4]float64{1 - t, t}, n: 2}
}

func closestOnSegment(a, b simplexVertex) simplex {
	ab := b.w.Sub(a.w)
	denom := ab.LenSqr()
	if denom < gjkOverlapEpsilon {
		return single(a)
	}
	t := -a.w.Dot(ab) / denom
	switch {
	case t <= 0:
		return single(a)
	case t >= 1:
		return single(b)
	}
	return pair(a, b, t)
}

func closestOnTriangle(a, b, c simplexVertex) simplex {
	ab := b.w.Sub(a.w)
	ac := c.w.Sub(a.w)
	ap := a.w.Mul(-1)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return single(a)
	}

	bp := b.w.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return single(b)
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return pair(a, b, d1/(d1-d3))
	}

	cp := c.w.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return single(c)
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return pair(a, c, d2/(d2-d6))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		return pair(b, c, (d4-d3)/((d4-d3)+(d5-d6)))
	}

	sum := va + vb + vc
	if math.Abs(sum) < gjkOverlapEpsilon {
		return closestOnSegment(a, b)
	}
	v := vb / sum
	w := vc / sum
	return simplex{
		v:    [4]simplexVertex{a, b, c},
		bary: [4]float64{1 - v - w, v, w},
		n:    3,
	}
}

func closestOnTetrahedron(a, b, c, d simplexVertex) (simplex, bool) {
	faces := [4][4]simplexVertex{
		{a, b, c, d},
		{a, c, d, b},
		{a, d, b, c},
		{b, d, c, a},
	}
	var best simplex
	bestDist := math.Inf(1)
	inside := true
	for _, f := range faces {
		if !originOutsidePlane(f[0].w, f[1].w, f[2].w, f[3].w) {
			continue
		}
		inside = false
		s := closestOnTriangle(f[0], f[1], f[2])
		if dist := s.point().LenSqr(); dist < bestDist {
			best, bestDist = s, dist
		}
	}
	if inside {
		return simplex{v: [4]simplexVertex{a, b, c, d}, bary: [4]float64{0.25, 0.25, 0.25, 0.25}, n: 4}, true
	}
	return best, false
}

// originOutsidePlane reports whether the origin and d lie on opposite sides
// of the plane through a, b, c. Degenerate planes count as outside so the
// face still gets tested.
func originOutsidePlane(a, b, c, d mgl64.Vec3) bool {
	n := b.Sub(a).Cross(c.Sub(a))
	signP := a.Mul(-1).Dot(n)
	signD := d.Sub(a).Dot(n)
	if signD*signD < gjkOverlapEpsilon {
		return true
	}
	return signP*signD < 0
}

type gjkResult struct {
	pointA, pointB mgl64.Vec3
	distance       float64
	overlap        bool
}

func gjk(supportA, supportB func(mgl64.Vec3) mgl64.Vec3, initial mgl64.Vec3) gjkResult {
	support := func(dir mgl64.Vec3) simplexVertex {
		pa := supportA(dir)
		pb := supportB(dir.Mul(-1))
		return simplexVertex{a: pa, b: pb, w: pa.Sub(pb)}
	}

	if initial.LenSqr() < gjkOverlapEpsilon {
		initial = mgl64.Vec3{1, 0, 0}
	}
	s := single(support(initial.Mul(-1)))
	v := s.v[0].w

	for i := 0; i < gjkMaxIterations; i++ {
		vv := v.LenSqr()
		if vv < gjkOverlapEpsilon {
			pa, pb := s.witnesses()
			return gjkResult{pointA: pa, pointB: pb, overlap: true}
		}

		w := support(v.Mul(-1))
		if vv-v.Dot(w.w) <= gjkRelativeTolerance*vv || s.contains(w.w) {
			break
		}

		next := s
		next.v[next.n] = w
		next.n++
		reduced, inside := next.reduce()
		if inside {
			pa, pb := reduced.witnesses()
			return gjkResult{pointA: pa, pointB: pb, overlap: true}
		}

		nv := reduced.point()
		if nv.LenSqr() >= vv {
			break
		}
		s, v = reduced, nv
	}

	pa, pb := s.witnesses()
	dist := pa.Sub(pb).Len()
	if dist*dist < gjkOverlapEpsilon {
		return gjkResult{pointA: pa, pointB: pb, overlap: true}
	}
	return gjkResult{pointA: pa, pointB: pb, distance: dist}
}
