package main

import (
	"errors"
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/milk9111/kcc/config"
	"github.com/milk9111/kcc/logging"
	"github.com/milk9111/kcc/prefabs"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (defaults to ./kcc.yaml)")
	debug := flag.Bool("debug", false, "enable debug logging and overlays")
	levelName := flag.String("level", "", "level name in levels/ (basename, .yaml optional)")
	replay := flag.String("replay", "", "name of a recorded demo to replay as a ghost")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *levelName != "" {
		cfg.Level = *levelName
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	logging.Setup(cfg.LogLevel)
	prefabs.SetDir(cfg.Prefabs.Dir)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("3d simple character")
	ebiten.SetTPS(cfg.TickRate)

	game, err := NewGame(cfg, *debug)
	if err != nil {
		log.Fatal().Err(err).Msg("start game")
	}
	defer game.Close()

	if *replay != "" {
		if err := game.SpawnGhost(*replay); err != nil {
			log.Error().Err(err).Str("demo", *replay).Msg("replay failed")
		}
	}

	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("game exited")
	}
}
