package kcc

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWalkable(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}
	tilt := func(deg float64) mgl64.Vec3 {
		r := mgl64.DegToRad(deg)
		return mgl64.Vec3{math.Sin(r), math.Cos(r), 0}
	}

	cases := []struct {
		name   string
		normal mgl64.Vec3
		want   bool
	}{
		{"flat", up, true},
		{"thirty_degrees", tilt(30), true},
		{"sixty_degrees", tilt(60), false},
		{"wall", mgl64.Vec3{1, 0, 0}, false},
		{"ceiling", mgl64.Vec3{0, -1, 0}, false},
		{"zero", mgl64.Vec3{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsWalkable(c.normal, up, math.Pi/4); got != c.want {
				t.Fatalf("IsWalkable(%v) = %v, want %v", c.normal, got, c.want)
			}
		})
	}
}

func TestAcceleration(t *testing.T) {
	cases := []struct {
		name      string
		velocity  mgl64.Vec3
		direction mgl64.Vec3
		want      mgl64.Vec3
	}{
		{"no_direction", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{}},
		{"from_rest", mgl64.Vec3{}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 0, 0}},
		{"near_target", mgl64.Vec3{7.5, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0.5, 0, 0}},
		{"at_target", mgl64.Vec3{8, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}},
		{"sideways", mgl64.Vec3{8, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Acceleration(c.velocity, c.direction, 10, 8, 0.1)
			vecInDelta(t, c.want, got, 1e-9)
		})
	}
}

func TestFriction(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, Friction(mgl64.Vec3{0.001, 0, 0}, 60, 1.0/60))

	got := Friction(mgl64.Vec3{10, 0, 0}, 60, 1.0/60)
	assert.InDelta(t, -10*(1-math.Exp(-0.1)), got.X(), 1e-9)
	assert.Zero(t, got.Y())
}

func TestCharacterJumpAndLaunch(t *testing.T) {
	ch := NewCharacter()
	ch.Ground = Ground{Collider: 1, Normal: mgl64.Vec3{0, 1, 0}}
	ch.Velocity = mgl64.Vec3{2, -3, 0}

	ch.Launch(mgl64.Vec3{1, 0, 0})
	assert.True(t, ch.Grounded(), "sideways launch keeps the ground")

	ch.Jump(6)
	assert.False(t, ch.Grounded())
	vecInDelta(t, mgl64.Vec3{3, 6, 0}, ch.Velocity, 1e-9)

	ch.Jump(6)
	assert.InDelta(t, 12, ch.Velocity.Y(), 1e-9, "upward velocity is not cancelled")
}

func TestProjectMotionOnGround(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}
	slope := mgl64.Vec3{-0.5, math.Sqrt(3) / 2, 0}

	got := ProjectMotionOnGround(mgl64.Vec3{1, -5, 0}, slope, up)
	vecInDelta(t, mgl64.Vec3{math.Sqrt(3) / 2, 0.5, 0}, got, 1e-9)
	assert.InDelta(t, 0, got.Dot(slope), 1e-9)

	assert.Equal(t, mgl64.Vec3{}, ProjectMotionOnGround(mgl64.Vec3{0, -3, 0}, slope, up))
}

func TestProjectMotionOnWall(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}
	wall := mgl64.Vec3{-1, 0, 0}

	vecInDelta(t, mgl64.Vec3{0, -2, 3}, ProjectMotionOnWall(mgl64.Vec3{1, -2, 3}, wall, up), 1e-9)
	vecInDelta(t, mgl64.Vec3{-1, 0, 0}, ProjectMotionOnWall(mgl64.Vec3{-1, 0, 0}, wall, up), 1e-9)

	// A steep overhang still only blocks horizontal motion.
	overhang := mgl64.Vec3{-1, -1, 0}.Normalize()
	got := ProjectMotionOnWall(mgl64.Vec3{1, 1, 0}, overhang, up)
	vecInDelta(t, mgl64.Vec3{0, 1, 0}, got, 1e-9)
}

func TestMotionOnPoint(t *testing.T) {
	previous := Transform{Rotation: mgl64.QuatIdent()}
	current := Transform{
		Translation: mgl64.Vec3{1, 0, 0},
		Rotation:    mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
	}
	got := MotionOnPoint(mgl64.Vec3{1, 0, 0}, current, previous)
	vecInDelta(t, mgl64.Vec3{0, 0, -1}, got, 1e-9)

	still := MotionOnPoint(mgl64.Vec3{3, 4, 5}, previous, previous)
	vecInDelta(t, mgl64.Vec3{}, still, 1e-12)
}

func TestGroundCheck(t *testing.T) {
	w := newFloor()
	tuning := DefaultTuning()
	cfg := DefaultMoveAndSlideConfig()
	up := mgl64.Vec3{0, 1, 0}

	snap, ground, ok := GroundCheck(w, tuning.Shape(), cfg, mgl64.Vec3{0, 0.91, 0}, up, mgl64.QuatIdent(), physics.NewQueryFilter(), tuning.GroundCheckDistance, tuning.WalkableAngle)
	require.True(t, ok)
	assert.True(t, ground.Valid())
	assert.InDelta(t, 0.0499, snap, 1e-5)

	_, _, ok = GroundCheck(w, tuning.Shape(), cfg, mgl64.Vec3{0, 1.5, 0}, up, mgl64.QuatIdent(), physics.NewQueryFilter(), tuning.GroundCheckDistance, tuning.WalkableAngle)
	assert.False(t, ok)
}

func TestTryClimbStep(t *testing.T) {
	w := newFloor()
	w.Add(physics.Collider{
		Shape:    physics.Cuboid(2, 0.1, 5),
		Position: mgl64.Vec3{4, 0.1, 0},
		Layers:   physics.AllLayers,
	})
	shape := DefaultTuning().Shape()
	up := mgl64.Vec3{0, 1, 0}

	pos, hit, ok := TryClimbStep(w, shape, mgl64.Vec3{1.5, 0.86, 0}, mgl64.Vec3{0.6, 0, 0}, mgl64.QuatIdent(), up, 0.35, 1e-4, physics.NewQueryFilter())
	require.True(t, ok)
	assert.InDelta(t, 2.1, pos.X(), 1e-9)
	assert.InDelta(t, 1.05, pos.Y(), 1e-3)
	assert.InDelta(t, 1, hit.Normal1.Y(), 1e-6)

	_, _, ok = TryClimbStep(physics.NewWorld(), shape, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent(), up, 0.35, 1e-4, physics.NewQueryFilter())
	assert.False(t, ok, "nothing to land on")

	_, _, ok = TryClimbStep(w, shape, mgl64.Vec3{-3, 0.86, 0}, mgl64.Vec3{0.5, 0, 0}, mgl64.QuatIdent(), up, 0.35, 1e-4, physics.NewQueryFilter())
	assert.False(t, ok, "flat ground is not a step")
}
