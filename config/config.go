// Package config loads application settings with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	LogLevel string       `mapstructure:"logLevel"`
	TickRate int          `mapstructure:"tickRate"`
	Level    string       `mapstructure:"level"`
	Window   WindowConfig `mapstructure:"window"`

	Recordings RecordingsConfig `mapstructure:"recordings"`
	Prefabs    PrefabsConfig    `mapstructure:"prefabs"`
}

type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// RecordingsConfig selects where recorded demos are stored.
type RecordingsConfig struct {
	Backend    string  `mapstructure:"backend"`
	Dir        string  `mapstructure:"dir"`
	SQLitePath string  `mapstructure:"sqlitePath"`
	Interval   float64 `mapstructure:"interval"`
}

type PrefabsConfig struct {
	Dir       string `mapstructure:"dir"`
	HotReload bool   `mapstructure:"hotReload"`
}

// FixedStep is the duration of one fixed simulation tick.
func (c Config) FixedStep() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(c.TickRate)
}

// SnapshotInterval is the recording interval as a duration.
func (c Config) SnapshotInterval() time.Duration {
	return time.Duration(c.Recordings.Interval * float64(time.Second))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("tickRate", 60)
	v.SetDefault("level", "proving_ground")

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)

	v.SetDefault("recordings.backend", "file")
	v.SetDefault("recordings.dir", "./recordings")
	v.SetDefault("recordings.sqlitePath", "./recordings/demos.db")
	v.SetDefault("recordings.interval", 1.0/30)

	v.SetDefault("prefabs.dir", "prefabs")
	v.SetDefault("prefabs.hotReload", true)
}

// Load resolves the configuration from defaults, the optional config file at
// path (or kcc.yaml in the working directory when path is empty) and KCC_
// environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KCC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("kcc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.TickRate <= 0 {
		return Config{}, fmt.Errorf("config: tickRate must be positive, got %d", cfg.TickRate)
	}
	if cfg.Recordings.Interval <= 0 {
		return Config{}, fmt.Errorf("config: recordings.interval must be positive, got %v", cfg.Recordings.Interval)
	}
	return cfg, nil
}
