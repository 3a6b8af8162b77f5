package main

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/kcc/ecs/entity"
	"github.com/milk9111/kcc/recording"
)

const samplePlan = `
level: proving_ground
steps:
  - ticks: 60
  - ticks: 30
    move: [0, 1]
    jump: true
  - ticks: 2
    reset: true
`

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)
	assert.Equal(t, "proving_ground", p.Level)
	require.Len(t, p.Steps, 3)

	frames := p.Frames()
	require.Len(t, frames, 92)
	assert.False(t, frames[0].JumpPressed)
	assert.True(t, frames[60].JumpPressed)
	assert.True(t, frames[61].Jump)
	assert.False(t, frames[61].JumpPressed)
	assert.Equal(t, 1.0, frames[75].Move.Y())
	assert.True(t, frames[90].Reset)
	assert.False(t, frames[91].Reset)

	_, err = ParsePlan([]byte("steps:\n  - ticks: -1\n"))
	assert.Error(t, err)
	_, err = ParsePlan([]byte("steps: [\n"))
	assert.Error(t, err)
}

func TestLoadPlanFile(t *testing.T) {
	p, err := LoadPlan("testdata/walk_and_jump.yaml")
	require.NoError(t, err)
	assert.Len(t, p.Frames(), 215)

	_, err = LoadPlan("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestSimRunsPlan(t *testing.T) {
	p, err := LoadPlan("testdata/walk_and_jump.yaml")
	require.NoError(t, err)

	sim, err := NewSim(p.Level, 1.0/60, 1.0/30, nil, p.Frames())
	require.NoError(t, err)
	sim.Run(len(p.Frames()))

	sum := sim.Summary(p.Level)
	assert.Equal(t, uint64(215), sum.Ticks)
	assert.Equal(t, 1, sum.Events["jumped"])
	assert.True(t, sum.Grounded)
}

func TestFit(t *testing.T) {
	frames := Plan{Steps: []Step{{Ticks: 2, Move: [2]float64{1, 0}, Jump: true}}}.Frames()

	short := Fit(append(frames[:0:0], frames...), 1)
	assert.Len(t, short, 1)

	long := Fit(append(frames[:0:0], frames...), 5)
	require.Len(t, long, 5)
	assert.Equal(t, 1.0, long[4].Move.X())
	assert.True(t, long[4].Jump)
	assert.False(t, long[4].JumpPressed)

	assert.Len(t, Fit(nil, 3), 3)
}

func TestSimSettlesOnSpawn(t *testing.T) {
	sim, err := NewSim("proving_ground", 1.0/60, 1.0/30, nil, Idle(90).Frames())
	require.NoError(t, err)

	sim.Run(90)
	sum := sim.Summary("proving_ground")

	assert.Equal(t, uint64(90), sum.Ticks)
	assert.True(t, sum.Grounded)
	assert.Equal(t, 1, sum.Events["landed"])
	assert.InDelta(t, 1.5, sum.Elapsed, 1e-9)
}

func TestSimRecordsAndReplays(t *testing.T) {
	store, err := recording.NewFileStore(t.TempDir())
	require.NoError(t, err)

	frames := Plan{Steps: []Step{{Ticks: 60}, {Ticks: 30, Move: [2]float64{0, 1}}}}.Frames()
	frames[0].Record = true
	save := frames[len(frames)-1].Actions()
	save.Save = true
	frames = append(frames, save, save.Actions())

	sim, err := NewSim("proving_ground", 1.0/60, 1.0/30, store, frames)
	require.NoError(t, err)
	sim.Run(len(frames))
	sim.Recorder.Wait()

	names, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, names, 1)

	demo, err := store.Load(context.Background(), names[0])
	require.NoError(t, err)
	assert.NotEmpty(t, demo.Snapshots)
	assert.InDelta(t, 1.0/30, demo.FrameTime, 1e-9)

	replay, err := NewSim("proving_ground", 1.0/60, 1.0/30, store, Idle(30).Frames())
	require.NoError(t, err)
	_, err = entity.NewGhost(replay.World, demo, false)
	require.NoError(t, err)
	replay.Run(30)

	sum := replay.Summary("proving_ground")
	require.Len(t, sum.Ghosts, 1)
	assert.NotEqual(t, demo.Snapshots[0].Position, mgl64.Vec3(sum.Ghosts[0]))
}

func TestNewSimUnknownLevel(t *testing.T) {
	_, err := NewSim("no_such_level", 1.0/60, 1.0/30, nil, nil)
	assert.Error(t, err)
}
