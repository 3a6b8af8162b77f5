package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var down = mgl64.Vec3{0, -1, 0}

func newGroundWorld(t *testing.T) (*World, ColliderID) {
	t.Helper()
	w := NewWorld()
	ground := w.Add(Collider{
		Shape:    Cuboid(10, 0.5, 10),
		Position: mgl64.Vec3{0, -0.5, 0},
		Rotation: mgl64.QuatIdent(),
		Layers:   Layers{Memberships: LayerDefault, Filters: AllMask},
		UserData: "ground",
	})
	return w, ground
}

func TestWorldCastShapeHitsGround(t *testing.T) {
	w, ground := newGroundWorld(t)

	cfg := DefaultShapeCastConfig()
	cfg.MaxDistance = 10
	hit, ok := w.CastShape(Sphere(0.5), mgl64.Vec3{1, 3, 2}, mgl64.QuatIdent(), down, cfg, NewQueryFilter())
	require.True(t, ok)
	assert.Equal(t, ground, hit.Collider)
	assert.Equal(t, "ground", hit.UserData)
	assert.InDelta(t, 2.5, hit.Distance, 1e-5)
	assert.InDelta(t, 1, hit.Normal1.Y(), 1e-6)
	assert.InDelta(t, -1, hit.Normal2.Y(), 1e-6)
	assert.InDelta(t, 0, hit.Point1.Y(), 1e-5)
}

func TestWorldCastShapeRespectsLimits(t *testing.T) {
	w, ground := newGroundWorld(t)

	tests := []struct {
		name   string
		dir    mgl64.Vec3
		max    float64
		filter func() QueryFilter
		hit    bool
	}{
		{name: "too_short", dir: down, max: 1, filter: NewQueryFilter},
		{name: "away", dir: mgl64.Vec3{0, 1, 0}, max: 10, filter: NewQueryFilter},
		{name: "zero_dir", dir: mgl64.Vec3{}, max: 10, filter: NewQueryFilter},
		{name: "nan_dir", dir: mgl64.Vec3{math.NaN(), -1, 0}, max: 10, filter: NewQueryFilter},
		{name: "masked", dir: down, max: 10, filter: func() QueryFilter { return NewQueryFilter().WithMask(LayerCharacter) }},
		{name: "excluded", dir: down, max: 10, filter: func() QueryFilter {
			f := NewQueryFilter()
			f.Exclude(ground)
			return f
		}},
		{name: "unbounded", dir: down, max: math.Inf(1), filter: NewQueryFilter, hit: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultShapeCastConfig()
			cfg.MaxDistance = tc.max
			_, ok := w.CastShape(Sphere(0.5), mgl64.Vec3{0, 3, 0}, mgl64.QuatIdent(), tc.dir, cfg, tc.filter())
			assert.Equal(t, tc.hit, ok)
		})
	}
}

func TestWorldCastShapeOriginPenetration(t *testing.T) {
	w, _ := newGroundWorld(t)
	origin := mgl64.Vec3{0, 0.3, 0}

	cfg := DefaultShapeCastConfig()
	cfg.MaxDistance = 5
	cfg.IgnoreOriginPenetration = true

	_, ok := w.CastShape(Sphere(0.5), origin, mgl64.QuatIdent(), mgl64.Vec3{0, 1, 0}, cfg, NewQueryFilter())
	assert.False(t, ok, "moving out of a penetrated collider is ignored")

	hit, ok := w.CastShape(Sphere(0.5), origin, mgl64.QuatIdent(), down, cfg, NewQueryFilter())
	require.True(t, ok, "moving into a penetrated collider hits immediately")
	assert.Zero(t, hit.Distance)
	assert.InDelta(t, 1, hit.Normal1.Y(), 1e-6)

	cfg.IgnoreOriginPenetration = false
	hit, ok = w.CastShape(Sphere(0.5), origin, mgl64.QuatIdent(), mgl64.Vec3{0, 1, 0}, cfg, NewQueryFilter())
	require.True(t, ok)
	assert.Zero(t, hit.Distance)
}

func TestWorldCastShapeClosestWins(t *testing.T) {
	w, _ := newGroundWorld(t)
	box := w.Add(Collider{
		Shape:    Cuboid(0.5, 0.5, 0.5),
		Position: mgl64.Vec3{0, 0.5, 0},
		Layers:   AllLayers,
	})

	cfg := DefaultShapeCastConfig()
	cfg.MaxDistance = 10
	hit, ok := w.CastShape(Capsule(0.35, 1), mgl64.Vec3{0, 4, 0}, mgl64.QuatIdent(), down, cfg, NewQueryFilter())
	require.True(t, ok)
	assert.Equal(t, box, hit.Collider)
	assert.InDelta(t, 4-0.85-1, hit.Distance, 1e-5)
}

func TestWorldCastShapeRamp(t *testing.T) {
	w := NewWorld()
	w.Add(Collider{Shape: Ramp(1, 1, 1), Rotation: mgl64.QuatIdent(), Layers: AllLayers})

	cfg := DefaultShapeCastConfig()
	cfg.MaxDistance = 10
	hit, ok := w.CastShape(Sphere(0.5), mgl64.Vec3{0, 5, 0}, mgl64.QuatIdent(), down, cfg, NewQueryFilter())
	require.True(t, ok)
	assert.InDelta(t, 5-0.5*math.Sqrt2, hit.Distance, 1e-4)
	assert.InDelta(t, math.Sqrt2/2, hit.Normal1.Y(), 1e-4)
	assert.InDelta(t, -math.Sqrt2/2, hit.Normal1.Z(), 1e-4)
}

func TestWorldSetTransformMovesCollider(t *testing.T) {
	w := NewWorld()
	id := w.Add(Collider{Shape: Cuboid(1, 0.25, 1), Position: mgl64.Vec3{0, 0, 0}, Layers: AllLayers})

	cfg := DefaultShapeCastConfig()
	cfg.MaxDistance = 10
	origin := mgl64.Vec3{20, 5, 0}
	_, ok := w.CastShape(Sphere(0.5), origin, mgl64.QuatIdent(), down, cfg, NewQueryFilter())
	require.False(t, ok)

	require.NoError(t, w.SetTransform(id, mgl64.Vec3{20, 0, 0}, mgl64.QuatIdent()))
	hit, ok := w.CastShape(Sphere(0.5), origin, mgl64.QuatIdent(), down, cfg, NewQueryFilter())
	require.True(t, ok)
	assert.Equal(t, id, hit.Collider)

	c, ok := w.Get(id)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{20, 0, 0}, c.Position)

	err := w.SetTransform(id+1, mgl64.Vec3{}, mgl64.QuatIdent())
	assert.True(t, errors.Is(err, ErrUnknownCollider))
}

func TestWorldRemoveAndEach(t *testing.T) {
	w, ground := newGroundWorld(t)
	other := w.Add(Collider{Shape: Sphere(1), Layers: AllLayers})
	require.Equal(t, 2, w.Len())

	var seen []ColliderID
	w.Each(func(id ColliderID, _ Collider) { seen = append(seen, id) })
	assert.Equal(t, []ColliderID{ground, other}, seen)

	assert.True(t, w.Remove(ground))
	assert.False(t, w.Remove(ground))
	assert.Equal(t, 1, w.Len())

	cfg := DefaultShapeCastConfig()
	cfg.MaxDistance = 10
	_, ok := w.CastShape(Sphere(0.1), mgl64.Vec3{5, 3, 5}, mgl64.QuatIdent(), down, cfg, NewQueryFilter())
	assert.False(t, ok)
}

func TestWorldOverlapping(t *testing.T) {
	w, ground := newGroundWorld(t)
	ids := w.Overlapping(Sphere(0.5), mgl64.Vec3{0, 0.25, 0}, mgl64.QuatIdent(), NewQueryFilter())
	assert.Equal(t, []ColliderID{ground}, ids)

	ids = w.Overlapping(Sphere(0.5), mgl64.Vec3{0, 2, 0}, mgl64.QuatIdent(), NewQueryFilter())
	assert.Empty(t, ids)
}

func TestQueryFilter(t *testing.T) {
	f := NewQueryFilter().WithMask(LayerDefault | LayerPlatform)
	assert.True(t, f.Allows(1, Layers{Memberships: LayerPlatform}))
	assert.False(t, f.Allows(1, Layers{Memberships: LayerSensor}))

	f.Exclude(1, 2)
	assert.False(t, f.Allows(2, Layers{Memberships: LayerDefault}))

	f.Reset()
	assert.True(t, f.Allows(2, Layers{Memberships: LayerSensor}))
	assert.Equal(t, AllMask, f.Mask)
}
