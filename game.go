package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog/log"

	"github.com/milk9111/kcc/config"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/ecs/entity"
	"github.com/milk9111/kcc/ecs/system"
	"github.com/milk9111/kcc/levels"
	"github.com/milk9111/kcc/physics"
	"github.com/milk9111/kcc/prefabs"
	"github.com/milk9111/kcc/recording"
)

// maxStepsPerFrame caps how many fixed ticks one slow frame may run.
const maxStepsPerFrame = 5

type Game struct {
	cfg   config.Config
	debug bool

	world *ecs.World
	pre   *ecs.Scheduler
	fixed *ecs.Scheduler
	frame *ecs.Scheduler

	clock    *system.ClockSystem
	recorder *system.RecorderSystem
	input    *system.DeviceInput

	store   recording.Store
	watcher *prefabs.Watcher

	accumulator float64
	paused      bool
	quit        bool

	pauseUI *ebitenui.UI
}

func NewGame(cfg config.Config, debug bool) (*Game, error) {
	g := &Game{
		cfg:   cfg,
		debug: debug,
		input: system.NewDeviceInput(),
	}

	store, err := recording.Open(cfg.Recordings.Backend, cfg.Recordings.Dir, cfg.Recordings.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Str("backend", cfg.Recordings.Backend).Msg("recordings disabled")
	} else {
		g.store = store
	}
	g.recorder = system.NewRecorderSystem(g.store)

	if cfg.Prefabs.HotReload {
		dirs := []string{prefabs.Dir(), filepath.Join(prefabs.Dir(), "scripts")}
		watcher, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			log.Warn().Err(err).Strs("dirs", dirs).Msg("hot reload disabled")
		} else {
			g.watcher = watcher
		}
	}

	if err := g.reset(); err != nil {
		g.Close()
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

// reset rebuilds the world from the configured level.
func (g *Game) reset() error {
	lvl, err := levels.LoadLevelFromFS(g.cfg.Level)
	if err != nil {
		return fmt.Errorf("load level %q: %w", g.cfg.Level, err)
	}

	w := ecs.NewWorld()
	w.SetPhysicsWorld(physics.NewWorld())
	if err := entity.LoadLevelToWorld(w, lvl); err != nil {
		return err
	}
	if _, err := entity.NewResources(w, g.cfg.FixedStep(), g.cfg.SnapshotInterval().Seconds()); err != nil {
		return err
	}
	if _, err := entity.NewCharacterAt(w, lvl.Spawn.Vec()); err != nil {
		return fmt.Errorf("spawn character: %w", err)
	}
	if _, err := entity.NewCamera(w); err != nil {
		return fmt.Errorf("spawn camera: %w", err)
	}

	movement, err := system.NewMovementSystem()
	if err != nil {
		return err
	}
	scripts := system.NewPlatformScriptSystem()
	sync := system.NewPhysicsSyncSystem()
	g.clock = system.NewClockSystem()

	g.pre = ecs.NewScheduler(
		g.clock,
		system.NewInputSystem(g.input),
		system.NewCharacterFilterSystem(),
		system.NewCharacterActionSystem(),
	)
	g.fixed = ecs.NewScheduler(
		system.NewTickSystem(),
		scripts,
		sync,
		movement,
		system.NewPlatformFollowSystem(),
		system.NewRespawnSystem(),
	)
	g.frame = ecs.NewScheduler(
		system.NewCameraSystem(),
		g.recorder,
		system.NewPlaybackSystem(),
		system.NewTTLSystem(),
		system.NewRenderSystem(g.debug),
	)
	if g.watcher != nil {
		g.frame.Add(system.NewHotReloadSystem(g.watcher, scripts, sync))
	}
	g.frame.Add(system.NewEventLogSystem())

	// Colliders need ids before the first filter pass.
	sync.Update(w)

	g.world = w
	g.accumulator = 0
	log.Info().Str("level", lvl.Name).Int("entities", len(ecs.Entities(w))).Msg("level loaded")
	return nil
}

// SpawnGhost replays a stored demo next to the live character.
func (g *Game) SpawnGhost(name string) error {
	if g.store == nil {
		return fmt.Errorf("no recording store")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	demo, err := g.store.Load(ctx, name)
	if err != nil {
		return err
	}
	_, err = entity.NewGhost(g.world, demo, true)
	return err
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if g.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.setPaused(false)
			return nil
		}
		g.pauseUI.Update()
		return nil
	}

	frameDt := 1 / float64(ebiten.TPS())
	g.clock.FrameDt = frameDt
	g.pre.Update(g.world)

	if _, in, ok := playerInput(g.world); ok && in.Pause {
		g.setPaused(true)
		return nil
	}

	fixed := g.cfg.FixedStep()
	g.accumulator += frameDt
	steps := 0
	for g.accumulator >= fixed && steps < maxStepsPerFrame {
		g.fixed.Update(g.world)
		g.accumulator -= fixed
		steps++
	}
	if steps == maxStepsPerFrame {
		g.accumulator = 0
	}

	g.frame.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.frame.Draw(g.world, screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		return
	}
	g.input.Rearm()
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
}

// respawn queues a respawn for every player character.
func (g *Game) respawn() {
	ecs.ForEach(g.world, component.PlayerTagComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag) {
		_ = ecs.Add(g.world, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
	})
}

// Close waits for pending demo saves and releases the store and watcher.
func (g *Game) Close() {
	if g.recorder != nil {
		g.recorder.Wait()
	}
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Warn().Err(err).Msg("close watcher")
		}
	}
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			log.Warn().Err(err).Msg("close recording store")
		}
	}
}

func playerInput(w *ecs.World) (ecs.Entity, *component.Input, bool) {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	return e, in, ok
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
