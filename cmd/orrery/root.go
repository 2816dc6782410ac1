package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/solar"
	"github.com/litescript/ls-orrery/internal/ui"
	"github.com/litescript/ls-orrery/internal/version"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	envFile  string
	fps      int
	stars    int
	seed     int64
	logLevel string
	logFile  string
	labels   string
	noStars  bool
	noOrbits bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "orrery",
		Short:         "A solar system in your terminal",
		Long:          "orrery renders the sun and nine orbiting bodies in the terminal. Click a body to fly the camera to it, drag to rotate, scroll to zoom.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Path to a .env file with ORRERY_* settings")
	flags.IntVar(&opts.fps, "fps", 30, "Frames per second")
	flags.IntVar(&opts.stars, "stars", 15000, "Number of background stars")
	flags.Int64Var(&opts.seed, "seed", 1, "Starfield seed")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flags.StringVar(&opts.labels, "labels", "all", "Label mode (all, focused, none)")
	flags.BoolVar(&opts.noStars, "no-stars", false, "Hide the starfield")
	flags.BoolVar(&opts.noOrbits, "no-orbits", false, "Hide orbit paths")

	cmd.AddCommand(
		newBodiesCommand(opts),
		newSnapshotCommand(opts),
		newSimulateCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// loadConfig reads the environment and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = opts.fps
	}
	if flags.Changed("stars") {
		cfg.StarCount = opts.stars
	}
	if flags.Changed("seed") {
		cfg.StarSeed = opts.seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("labels") {
		cfg.Labels = opts.labels
	}
	if flags.Changed("no-stars") {
		cfg.ShowStars = !opts.noStars
	}
	if flags.Changed("no-orbits") {
		cfg.ShowOrbits = !opts.noOrbits
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.Clamp()
	return cfg, nil
}

// newLogger opens the configured log destination. Without a log file,
// interactive runs discard logs so they never draw over the alt screen.
func newLogger(cfg config.Config, stderr io.Writer, interactive bool) (*logging.Logger, func(), error) {
	level := cfg.Level()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return logging.NewWithWriter(f, level), func() { _ = f.Close() }, nil
	}
	if interactive {
		return logging.Discard(), func() {}, nil
	}
	return logging.NewWithWriter(stderr, level), func() {}, nil
}

// newContext builds a simulation context from the loaded config.
func newContext(cfg config.Config, logger *logging.Logger) (*sim.Context, error) {
	desc, err := solar.DefaultDescriptions()
	if err != nil {
		return nil, fmt.Errorf("load descriptions: %w", err)
	}
	simCfg := sim.DefaultConfig()
	simCfg.StarCount = cfg.StarCount
	simCfg.StarSeed = cfg.StarSeed
	return sim.New(simCfg, desc, logger), nil
}

func runTUI(parent context.Context, cfg config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use the snapshot or simulate commands for headless output")
	}

	logger, closeLog, err := newLogger(cfg, os.Stderr, true)
	if err != nil {
		return err
	}
	defer closeLog()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	simCtx, err := newContext(cfg, logger)
	if err != nil {
		return err
	}

	model := ui.New(simCtx, ui.Options{
		FrameInterval: cfg.FrameInterval(),
		Labels:        cfg.LabelMode(),
		ShowStars:     cfg.ShowStars,
		ShowOrbits:    cfg.ShowOrbits,
		Logger:        logger,
	})

	logger.Info("starting orrery %s at %d fps", version.String(), cfg.FPS)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	logger.Info("orrery stopped at frame %d", simCtx.Frame())
	return nil
}
