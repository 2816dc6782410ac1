package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/version"
)

const (
	defaultSnapshotWidth  = 100
	defaultSnapshotHeight = 40
	defaultSimulateFrames = 600
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "orrery %s\n", version.String())
		},
	}
}

func newBodiesCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "bodies",
		Short: "List the bodies in the system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			ctx, done, err := headlessContext(cmd, cfg)
			if err != nil {
				return err
			}
			defer done()

			export := ctx.Export()
			if asJSON {
				return export.WriteJSON(cmd.OutOrStdout())
			}
			return sim.WriteBodyTable(cmd.OutOrStdout(), export.Bodies)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

type snapshotOptions struct {
	frames int
	focus  string
	width  int
	height int
	plain  bool
}

func newSnapshotCommand(opts *rootOptions) *cobra.Command {
	sopts := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame to stdout",
		Long:  "Advance the scene by --frames and print the rendered canvas. Width and height default to the terminal size.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sopts.frames < 0 {
				return fmt.Errorf("--frames must not be negative, got %d", sopts.frames)
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			ctx, done, err := headlessContext(cmd, cfg)
			if err != nil {
				return err
			}
			defer done()

			width, height := snapshotSize(sopts.width, sopts.height)
			ctx.Resize(width, 2*height)
			if err := focusByName(ctx, sopts.focus); err != nil {
				return err
			}
			for i := 0; i < sopts.frames; i++ {
				ctx.Step()
			}

			ropts := render.Options{
				Stars:  cfg.ShowStars,
				Orbits: cfg.ShowOrbits,
				Labels: cfg.LabelMode(),
			}
			if b := ctx.Focus().Focused(); b != nil {
				ropts.Focused = b.Mesh.ID()
			}
			sys := ctx.System()
			frame := render.NewRenderer().Render(render.Input{
				Scene:  sys.Scene(),
				Camera: ctx.Camera(),
				Stars:  ctx.Stars(),
				Orbits: sys.Orbits(),
			}, width, 2*height, ropts)

			out := cmd.OutOrStdout()
			if sopts.plain {
				_, err = fmt.Fprintln(out, strings.Join(frame.Text(), "\n"))
				return err
			}
			_, err = fmt.Fprintln(out, frame.String())
			return err
		},
	}
	cmd.Flags().IntVar(&sopts.frames, "frames", 0, "Frames to advance before rendering")
	cmd.Flags().StringVar(&sopts.focus, "focus", "", "Body to focus before advancing")
	cmd.Flags().IntVar(&sopts.width, "width", 0, "Canvas width in cells")
	cmd.Flags().IntVar(&sopts.height, "height", 0, "Canvas height in cells")
	cmd.Flags().BoolVar(&sopts.plain, "plain", false, "Print characters without colors")
	return cmd
}

// snapshotSize fills unset dimensions from the terminal, falling back to
// 100x40 when stdout is not a terminal.
func snapshotSize(width, height int) (int, int) {
	if width > 0 && height > 0 {
		return width, height
	}
	tw, th := defaultSnapshotWidth, defaultSnapshotHeight
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 1 {
		tw, th = w, h-1
	}
	if width <= 0 {
		width = tw
	}
	if height <= 0 {
		height = th
	}
	return width, height
}

type simulateOptions struct {
	frames    int
	focus     string
	dismissAt int
	asJSON    bool
}

func newSimulateCommand(opts *rootOptions) *cobra.Command {
	sopts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the scene without rendering and report its state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sopts.frames < 0 {
				return fmt.Errorf("--frames must not be negative, got %d", sopts.frames)
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			ctx, done, err := headlessContext(cmd, cfg)
			if err != nil {
				return err
			}
			defer done()

			ctx.Resize(defaultSnapshotWidth, 2*defaultSnapshotHeight)
			if err := focusByName(ctx, sopts.focus); err != nil {
				return err
			}
			for i := 0; i < sopts.frames; i++ {
				if sopts.dismissAt > 0 && i == sopts.dismissAt {
					ctx.Dismiss()
				}
				ctx.Step()
			}

			export := ctx.Export()
			if sopts.asJSON {
				return export.WriteJSON(cmd.OutOrStdout())
			}
			return writeSimulateSummary(cmd, export)
		},
	}
	cmd.Flags().IntVar(&sopts.frames, "frames", defaultSimulateFrames, "Frames to advance")
	cmd.Flags().StringVar(&sopts.focus, "focus", "", "Body to focus at frame 0")
	cmd.Flags().IntVar(&sopts.dismissAt, "dismiss-at", 0, "Frame at which to dismiss the focus (0 never)")
	cmd.Flags().BoolVar(&sopts.asJSON, "json", false, "Print JSON")
	return cmd
}

func writeSimulateSummary(cmd *cobra.Command, export *sim.StateExport) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Frame %d (%d ticks), phase %s", export.Frame, export.Ticks, export.Phase)
	if export.Focused != "" {
		fmt.Fprintf(w, ", focused on %s", export.Focused)
	}
	fmt.Fprintln(w)
	p, t := export.Camera.Position, export.Camera.Target
	fmt.Fprintf(w, "Camera (%.2f, %.2f, %.2f) -> (%.2f, %.2f, %.2f)\n\n", p[0], p[1], p[2], t[0], t[1], t[2])

	if err := sim.WriteBodyTable(w, export.Bodies); err != nil {
		return err
	}

	if len(export.Events) > 0 {
		fmt.Fprintln(w, "\nEvents:")
		for _, e := range export.Events {
			line := fmt.Sprintf("  %6d  %s", e.Frame, e.Type)
			if e.Body != "" {
				line += " " + e.Body
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// headlessContext builds a context that logs to stderr.
func headlessContext(cmd *cobra.Command, cfg config.Config) (*sim.Context, func(), error) {
	logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr(), false)
	if err != nil {
		return nil, nil, err
	}
	ctx, err := newContext(cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return ctx, closeLog, nil
}

// focusByName focuses a body, matching its name case-insensitively.
func focusByName(ctx *sim.Context, name string) error {
	if name == "" {
		return nil
	}
	for _, b := range ctx.System().Bodies() {
		if strings.EqualFold(b.Name, name) {
			ctx.FocusBody(b.Name)
			return nil
		}
	}
	return fmt.Errorf("unknown body %q", name)
}
