// Command kccsim runs the character controller headless from a scripted
// input plan and prints the final state as YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/kcc/config"
	"github.com/milk9111/kcc/ecs/entity"
	"github.com/milk9111/kcc/logging"
	"github.com/milk9111/kcc/recording"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (defaults to ./kcc.yaml)")
	planPath := flag.String("plan", "", "YAML input plan; idles when empty")
	levelName := flag.String("level", "", "level name, overrides the plan and config")
	ticks := flag.Int("ticks", 0, "ticks to run; defaults to the plan length")
	record := flag.Bool("record", false, "record the run and save it to the configured store")
	replay := flag.String("replay", "", "demo to replay as a ghost during the run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.LogLevel)

	if err := run(cfg, *planPath, *levelName, *ticks, *record, *replay); err != nil {
		log.Error().Err(err).Msg("kccsim failed")
		os.Exit(1)
	}
}

func run(cfg config.Config, planPath, levelName string, ticks int, record bool, replay string) error {
	plan := Idle(300)
	if planPath != "" {
		p, err := LoadPlan(planPath)
		if err != nil {
			return err
		}
		plan = p
	}

	level := cfg.Level
	if plan.Level != "" {
		level = plan.Level
	}
	if levelName != "" {
		level = levelName
	}

	frames := plan.Frames()
	if ticks > 0 {
		frames = Fit(frames, ticks)
	}
	if record && len(frames) > 0 {
		frames[0].Record = true
		// Save on the frame after the plan, then give the recorder one
		// frame to hand the demos to the store.
		save := frames[len(frames)-1].Actions()
		save.Save = true
		frames = append(frames, save, save.Actions())
	}

	var store recording.Store
	if record || replay != "" {
		s, err := recording.Open(cfg.Recordings.Backend, cfg.Recordings.Dir, cfg.Recordings.SQLitePath)
		if err != nil {
			return fmt.Errorf("open recordings: %w", err)
		}
		defer s.Close()
		store = s
	}

	sim, err := NewSim(level, cfg.FixedStep(), cfg.SnapshotInterval().Seconds(), store, frames)
	if err != nil {
		return err
	}

	if replay != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		demo, err := store.Load(ctx, replay)
		cancel()
		if err != nil {
			return fmt.Errorf("load demo %q: %w", replay, err)
		}
		if _, err := entity.NewGhost(sim.World, demo, false); err != nil {
			return err
		}
	}

	sim.Run(len(frames))
	if record {
		sim.Recorder.Wait()
		sim.Step()
	}

	out, err := yaml.Marshal(sim.Summary(level))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
