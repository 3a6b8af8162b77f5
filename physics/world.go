package physics

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

var ErrUnknownCollider = errors.New("physics: unknown collider")

// footprintPadding keeps degenerate footprints from producing empty boxes in
// the broadphase.
const footprintPadding = 1e-4

type ColliderID uint32

func (id ColliderID) Valid() bool {
	return id != 0
}

type Collider struct {
	Shape    Shape
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Layers   Layers
	Sensor   bool
	UserData any
}

type body struct {
	collider Collider
	bounds   AABB
	shape    *cp.Shape
}

// World is a query-only collision world. Colliders are indexed by their
// horizontal footprint in a Chipmunk space; narrow phase runs on the full 3D
// shapes.
type World struct {
	space  *cp.Space
	bodies map[ColliderID]*body
	nextID ColliderID
}

func NewWorld() *World {
	return &World{
		space:  cp.NewSpace(),
		bodies: make(map[ColliderID]*body),
	}
}

func (w *World) Add(c Collider) ColliderID {
	c.Rotation = normalizeRotation(c.Rotation)
	w.nextID++
	id := w.nextID
	b := &body{collider: c}
	w.bodies[id] = b
	w.index(id, b)
	return id
}

func (w *World) Remove(id ColliderID) bool {
	b, ok := w.bodies[id]
	if !ok {
		return false
	}
	if b.shape != nil {
		w.space.RemoveShape(b.shape)
	}
	delete(w.bodies, id)
	return true
}

func (w *World) SetTransform(id ColliderID, pos mgl64.Vec3, rot mgl64.Quat) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("physics: set transform %d: %w", id, ErrUnknownCollider)
	}
	b.collider.Position = pos
	b.collider.Rotation = normalizeRotation(rot)
	w.index(id, b)
	return nil
}

// SetLayers replaces the collision layers of a collider.
func (w *World) SetLayers(id ColliderID, layers Layers) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("physics: set layers %d: %w", id, ErrUnknownCollider)
	}
	b.collider.Layers = layers
	b.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, layers.Memberships, cp.ALL_CATEGORIES))
	return nil
}

func (w *World) Get(id ColliderID) (Collider, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Collider{}, false
	}
	return b.collider, true
}

// Each visits colliders in id order.
func (w *World) Each(fn func(id ColliderID, c Collider)) {
	for _, id := range w.sortedIDs() {
		fn(id, w.bodies[id].collider)
	}
}

func (w *World) Len() int {
	return len(w.bodies)
}

// Bounds returns the world bounds of a collider.
func (w *World) Bounds(id ColliderID) (AABB, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return AABB{}, false
	}
	return b.bounds, true
}

// CastShape sweeps shape from origin along dir and returns the closest hit
// among the colliders accepted by filter.
func (w *World) CastShape(shape Shape, origin mgl64.Vec3, rotation mgl64.Quat, dir mgl64.Vec3, cfg ShapeCastConfig, filter QueryFilter) (ShapeHit, bool) {
	dirLen := dir.Len()
	if dirLen == 0 || math.IsNaN(dirLen) || math.IsInf(dirLen, 0) {
		return ShapeHit{}, false
	}
	dir = dir.Mul(1 / dirLen)
	rotation = normalizeRotation(rotation)

	maxDist := cfg.MaxDistance
	if math.IsNaN(maxDist) || maxDist < 0 {
		maxDist = 0
	}

	var candidates []ColliderID
	if math.IsInf(maxDist, 1) {
		candidates = w.sortedIDs()
	} else {
		start := shape.AABB(origin, rotation)
		end := shape.AABB(origin.Add(dir.Mul(maxDist)), rotation)
		candidates = w.query(start.Union(end).Expand(cfg.TargetDistance+footprintPadding), filter.Mask)
	}

	var best ShapeHit
	found := false
	for _, id := range candidates {
		b := w.bodies[id]
		if !filter.Allows(id, b.collider.Layers) {
			continue
		}
		hit, ok := castAgainst(shape, origin, rotation, dir, maxDist, cfg, &b.collider)
		if !ok || (found && hit.Distance >= best.Distance) {
			continue
		}
		hit.Collider = id
		hit.UserData = b.collider.UserData
		best, found = hit, true
	}
	return best, found
}

// Overlapping returns the colliders accepted by filter that intersect shape
// placed at pos.
func (w *World) Overlapping(shape Shape, pos mgl64.Vec3, rot mgl64.Quat, filter QueryFilter) []ColliderID {
	rot = normalizeRotation(rot)
	var out []ColliderID
	for _, id := range w.query(shape.AABB(pos, rot), filter.Mask) {
		b := w.bodies[id]
		if !filter.Allows(id, b.collider.Layers) {
			continue
		}
		prox := ClosestPoints(shape, pos, rot, b.collider.Shape, b.collider.Position, b.collider.Rotation)
		if prox.Overlap || prox.Distance <= 0 {
			out = append(out, id)
		}
	}
	return out
}

func (w *World) index(id ColliderID, b *body) {
	if b.shape != nil {
		w.space.RemoveShape(b.shape)
	}
	b.bounds = b.collider.Shape.AABB(b.collider.Position, b.collider.Rotation)
	shape := cp.NewBox2(w.space.StaticBody, footprint(b.bounds), 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, b.collider.Layers.Memberships, cp.ALL_CATEGORIES))
	shape.UserData = id
	b.shape = w.space.AddShape(shape)
}

// query returns the ids whose footprint and vertical extent intersect bounds.
// The space is locked while BBQuery runs, so matches are only collected.
func (w *World) query(bounds AABB, mask uint) []ColliderID {
	var ids []ColliderID
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: mask}
	w.space.BBQuery(footprint(bounds), filter, func(shape *cp.Shape, _ interface{}) {
		if id, ok := shape.UserData.(ColliderID); ok {
			ids = append(ids, id)
		}
	}, nil)

	out := ids[:0]
	for _, id := range ids {
		b, ok := w.bodies[id]
		if !ok {
			continue
		}
		if b.bounds.Max.Y() < bounds.Min.Y() || bounds.Max.Y() < b.bounds.Min.Y() {
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (w *World) sortedIDs() []ColliderID {
	ids := make([]ColliderID, 0, len(w.bodies))
	for id := range w.bodies {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func footprint(b AABB) cp.BB {
	return cp.BB{
		L: b.Min.X() - footprintPadding,
		B: b.Min.Z() - footprintPadding,
		R: b.Max.X() + footprintPadding,
		T: b.Max.Z() + footprintPadding,
	}
}
