// Package config loads runtime settings from ORRERY_* environment variables
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/render"
)

// Prefix is prepended to every variable name.
const Prefix = "ORRERY_"

// DefaultEnvFile is read when present; a missing default file is not an error.
const DefaultEnvFile = ".env"

const (
	MinFPS   = 1
	MaxFPS   = 120
	MaxStars = 20000
)

// Config holds runtime settings.
type Config struct {
	FPS        int    `env:"FPS" envDefault:"30"`
	StarCount  int    `env:"STARS" envDefault:"15000"`
	StarSeed   int64  `env:"STAR_SEED" envDefault:"1"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile    string `env:"LOG_FILE"`
	Labels     string `env:"LABELS" envDefault:"all"`
	ShowStars  bool   `env:"SHOW_STARS" envDefault:"true"`
	ShowOrbits bool   `env:"SHOW_ORBITS" envDefault:"true"`
}

// Load reads envFile (if set) and the process environment. Process variables
// override the file.
func Load(envFile string) (Config, error) {
	vars := fromOS()
	if envFile != "" {
		fileVars, err := loadEnvFile(envFile)
		switch {
		case err == nil:
			vars = merge(fileVars, vars)
		case errors.Is(err, fs.ErrNotExist) && envFile == DefaultEnvFile:
		default:
			return Config{}, fmt.Errorf("load env file %q: %w", envFile, err)
		}
	}
	return Parse(vars)
}

// Parse builds a Config from a variable map, applying defaults and clamping.
func Parse(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars, Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Clamp()
	return cfg, nil
}

// Validate rejects values that cannot be clamped into range.
func (c Config) Validate() error {
	if _, ok := render.ParseLabelMode(c.Labels); !ok {
		return fmt.Errorf("invalid %sLABELS %q (want none, focused or all)", Prefix, c.Labels)
	}
	return nil
}

// Clamp forces values into their supported ranges.
func (c *Config) Clamp() {
	if c.FPS < MinFPS {
		c.FPS = MinFPS
	} else if c.FPS > MaxFPS {
		c.FPS = MaxFPS
	}
	if c.StarCount < 0 {
		c.StarCount = 0
	} else if c.StarCount > MaxStars {
		c.StarCount = MaxStars
	}
}

// FrameInterval is the time between frames at the configured rate.
func (c Config) FrameInterval() time.Duration {
	fps := c.FPS
	if fps < MinFPS {
		fps = MinFPS
	}
	return time.Second / time.Duration(fps)
}

// LabelMode returns the parsed label mode.
func (c Config) LabelMode() render.LabelMode {
	m, _ := render.ParseLabelMode(c.Labels)
	return m
}

// Level returns the parsed log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

func fromOS() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

func loadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return godotenv.Parse(f)
}

// merge combines maps, later maps overriding earlier keys.
func merge(sets ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
