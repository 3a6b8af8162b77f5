package kcc

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tickDt = 1.0 / 60
	restY  = 0.86
)

func newTestController(w *physics.World) Controller {
	tuning := DefaultTuning()
	return Controller{
		Query:  w,
		Shape:  tuning.Shape(),
		Filter: physics.NewQueryFilter(),
		Tuning: tuning,
	}
}

func standing(floor physics.ColliderID) (Character, Transform) {
	ch := NewCharacter()
	ch.Ground = Ground{Collider: floor, Normal: mgl64.Vec3{0, 1, 0}}
	return ch, Transform{Translation: mgl64.Vec3{0, restY, 0}, Rotation: mgl64.QuatIdent()}
}

func run(c Controller, ch *Character, tf *Transform, dir mgl64.Vec3, ticks int) []MoveReport {
	reports := make([]MoveReport, 0, ticks)
	for i := 0; i < ticks; i++ {
		reports = append(reports, c.Move(ch, tf, dir, false, tickDt))
	}
	return reports
}

func TestControllerLandsOnFloor(t *testing.T) {
	w := newFloor()
	c := newTestController(w)
	ch := NewCharacter()
	tf := Transform{Translation: mgl64.Vec3{0, 2, 0}, Rotation: mgl64.QuatIdent()}

	landed := 0
	for _, r := range run(c, &ch, &tf, mgl64.Vec3{}, 60) {
		if r.Landed {
			landed++
		}
	}

	assert.Equal(t, 1, landed)
	assert.True(t, ch.Grounded())
	assert.InDelta(t, restY, tf.Translation.Y(), 5e-3)
	assert.InDelta(t, 0, ch.Velocity.Y(), 1e-9)
}

func TestControllerWalksOnFloor(t *testing.T) {
	w := newFloor()
	var floor physics.ColliderID = 1
	c := newTestController(w)
	ch, tf := standing(floor)

	run(c, &ch, &tf, mgl64.Vec3{1, 0, 0}, 60)

	assert.True(t, ch.Grounded())
	assert.Greater(t, tf.Translation.X(), 4.0)
	assert.InDelta(t, restY, tf.Translation.Y(), 5e-3)
	assert.InDelta(t, c.Tuning.MovementSpeed, ch.Velocity.X(), 1.5)
}

func TestControllerStopsAtWall(t *testing.T) {
	w := newFloor()
	w.Add(physics.Collider{
		Shape:    physics.Cuboid(0.5, 2, 5),
		Position: mgl64.Vec3{2.5, 2, 0},
		Layers:   physics.AllLayers,
	})
	c := newTestController(w)
	ch, tf := standing(1)

	run(c, &ch, &tf, mgl64.Vec3{1, 0, 0}, 60)

	assert.True(t, ch.Grounded())
	assert.LessOrEqual(t, tf.Translation.X(), 2-c.Tuning.Radius+1e-6)
	assert.Greater(t, tf.Translation.X(), 1.6)
	assert.InDelta(t, restY, tf.Translation.Y(), 5e-3)
}

func TestControllerClimbsStep(t *testing.T) {
	w := newFloor()
	step := w.Add(physics.Collider{
		Shape:    physics.Cuboid(10, 0.1, 5),
		Position: mgl64.Vec3{12, 0.1, 0},
		Layers:   physics.AllLayers,
	})
	c := newTestController(w)
	ch, tf := standing(1)

	stepped := false
	for _, r := range run(c, &ch, &tf, mgl64.Vec3{1, 0, 0}, 90) {
		stepped = stepped || r.Stepped
	}

	assert.True(t, stepped)
	require.True(t, ch.Grounded())
	assert.Equal(t, step, ch.Ground.Collider)
	assert.Greater(t, tf.Translation.X(), 3.0)
	assert.InDelta(t, restY+0.2, tf.Translation.Y(), 1e-2)
}

// The climb sweep reaches StepHeight+GroundCheckDistance and the rounded
// bottom can land on ledge edges a little above that.
func TestControllerLedgeHeightLimit(t *testing.T) {
	cases := []struct {
		name   string
		height float64
		climbs bool
	}{
		{"step_height", 0.25, true},
		{"above_step_height", 0.4, true},
		{"too_high", 0.6, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newFloor()
			ledge := w.Add(physics.Collider{
				Shape:    physics.Cuboid(10, tc.height/2, 5),
				Position: mgl64.Vec3{12, tc.height / 2, 0},
				Layers:   physics.AllLayers,
			})
			c := newTestController(w)
			ch, tf := standing(1)

			run(c, &ch, &tf, mgl64.Vec3{1, 0, 0}, 90)

			require.True(t, ch.Grounded())
			if tc.climbs {
				assert.Equal(t, ledge, ch.Ground.Collider)
				assert.Greater(t, tf.Translation.X(), 3.0)
				assert.InDelta(t, restY+tc.height, tf.Translation.Y(), 1e-2)
				return
			}
			assert.Equal(t, physics.ColliderID(1), ch.Ground.Collider)
			assert.LessOrEqual(t, tf.Translation.X(), 2-c.Tuning.Radius+1e-6)
			assert.InDelta(t, restY, tf.Translation.Y(), 5e-3)
		})
	}
}

func TestControllerJumpLeavesGround(t *testing.T) {
	w := newFloor()
	c := newTestController(w)
	ch, tf := standing(1)

	ch.Jump(c.Tuning.JumpImpulse)
	r := c.Move(&ch, &tf, mgl64.Vec3{}, false, tickDt)

	assert.False(t, r.LeftGround, "jumping clears the ground before the move")
	assert.False(t, ch.Grounded())
	assert.Greater(t, tf.Translation.Y(), restY)

	landed := false
	for _, r := range run(c, &ch, &tf, mgl64.Vec3{}, 90) {
		landed = landed || r.Landed
	}
	assert.True(t, landed)
	assert.InDelta(t, restY, tf.Translation.Y(), 5e-3)
}

func TestControllerSensorIgnoresWorld(t *testing.T) {
	w := newFloor()
	w.Add(physics.Collider{
		Shape:    physics.Cuboid(0.5, 2, 5),
		Position: mgl64.Vec3{2.5, 2, 0},
		Layers:   physics.AllLayers,
	})
	c := newTestController(w)
	ch, tf := standing(1)
	ch.Ground = Ground{}

	for i := 0; i < 60; i++ {
		r := c.Move(&ch, &tf, mgl64.Vec3{1, 0, 0}, true, tickDt)
		assert.Zero(t, r.Iterations)
	}
	assert.Greater(t, tf.Translation.X(), 3.0)
	assert.Less(t, tf.Translation.Y(), 0.0)
}

func TestControllerFollowPlatform(t *testing.T) {
	w := newFloor()
	c := newTestController(w)
	ch, tf := standing(1)

	motion := func(id physics.ColliderID, _ mgl64.Vec3) mgl64.Vec3 {
		if id == 1 {
			return mgl64.Vec3{0.5, 0, 0}
		}
		return mgl64.Vec3{}
	}

	c.FollowPlatform(&ch, &tf, motion, tickDt)
	assert.InDelta(t, 0.5, tf.Translation.X(), 1e-9)
	assert.Equal(t, ch.Ground, ch.PreviousGround)

	ch.Ground = Ground{}
	c.FollowPlatform(&ch, &tf, motion, tickDt)
	assert.InDelta(t, 0.5/tickDt, ch.Velocity.X(), 1e-9)
	assert.False(t, ch.PreviousGround.Valid())
	assert.InDelta(t, 0.5, tf.Translation.X(), 1e-9)
}
