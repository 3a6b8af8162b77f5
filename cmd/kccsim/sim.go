package main

import (
	"fmt"

	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/ecs/entity"
	"github.com/milk9111/kcc/ecs/system"
	"github.com/milk9111/kcc/levels"
	"github.com/milk9111/kcc/physics"
	"github.com/milk9111/kcc/recording"
)

// Sim runs the character schedules without a window. Every frame runs
// exactly one fixed tick.
type Sim struct {
	World  *ecs.World
	Player ecs.Entity

	Input    *system.ScriptedInput
	Recorder *system.RecorderSystem
	Events   *system.EventLogSystem

	pre   *ecs.Scheduler
	fixed *ecs.Scheduler
	frame *ecs.Scheduler
}

// Summary is the state printed at the end of a run.
type Summary struct {
	Level    string         `yaml:"level"`
	Ticks    uint64         `yaml:"ticks"`
	Elapsed  float64        `yaml:"elapsed"`
	Position [3]float64     `yaml:"position"`
	Velocity [3]float64     `yaml:"velocity"`
	Grounded bool           `yaml:"grounded"`
	Events   map[string]int `yaml:"events,omitempty"`
	Ghosts   [][3]float64   `yaml:"ghosts,omitempty"`
}

func NewSim(levelName string, fixedDt, interval float64, store recording.Store, frames []component.Input) (*Sim, error) {
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return nil, fmt.Errorf("load level %q: %w", levelName, err)
	}

	w := ecs.NewWorld()
	w.SetPhysicsWorld(physics.NewWorld())
	if err := entity.LoadLevelToWorld(w, lvl); err != nil {
		return nil, err
	}
	if _, err := entity.NewResources(w, fixedDt, interval); err != nil {
		return nil, err
	}
	player, err := entity.NewCharacterAt(w, lvl.Spawn.Vec())
	if err != nil {
		return nil, err
	}
	if _, err := entity.NewCamera(w); err != nil {
		return nil, err
	}

	movement, err := system.NewMovementSystem()
	if err != nil {
		return nil, err
	}
	sync := system.NewPhysicsSyncSystem()
	clock := system.NewClockSystem()
	clock.FrameDt = fixedDt

	s := &Sim{
		World:    w,
		Player:   player,
		Input:    &system.ScriptedInput{Frames: frames},
		Recorder: system.NewRecorderSystem(store),
		Events:   system.NewEventLogSystem(),
	}
	s.pre = ecs.NewScheduler(
		clock,
		system.NewInputSystem(s.Input),
		system.NewCharacterFilterSystem(),
		system.NewCharacterActionSystem(),
	)
	s.fixed = ecs.NewScheduler(
		system.NewTickSystem(),
		system.NewPlatformScriptSystem(),
		sync,
		movement,
		system.NewPlatformFollowSystem(),
		system.NewRespawnSystem(),
	)
	s.frame = ecs.NewScheduler(
		system.NewCameraSystem(),
		s.Recorder,
		system.NewPlaybackSystem(),
		system.NewTTLSystem(),
		s.Events,
	)
	sync.Update(w)
	return s, nil
}

func (s *Sim) Step() {
	s.pre.Update(s.World)
	s.fixed.Update(s.World)
	s.frame.Update(s.World)
}

func (s *Sim) Run(frames int) {
	for i := 0; i < frames; i++ {
		s.Step()
	}
}

func (s *Sim) Summary(level string) Summary {
	sum := Summary{Level: level, Events: map[string]int{}}
	if e, ok := ecs.First(s.World, component.ClockComponent.Kind()); ok {
		c, _ := ecs.Get(s.World, e, component.ClockComponent.Kind())
		sum.Ticks = c.Ticks
		sum.Elapsed = c.Elapsed
	}
	if tf, ok := ecs.Get(s.World, s.Player, component.TransformComponent.Kind()); ok {
		sum.Position = tf.Translation
	}
	if ch, ok := ecs.Get(s.World, s.Player, component.CharacterComponent.Kind()); ok {
		sum.Velocity = ch.Velocity
		sum.Grounded = ch.Grounded()
	}
	for kind, n := range s.Events.Counts {
		sum.Events[string(kind)] = n
	}
	ecs.ForEach2(s.World, component.GhostTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.GhostTag, tf *component.Transform) {
		sum.Ghosts = append(sum.Ghosts, tf.Translation)
	})
	return sum
}
