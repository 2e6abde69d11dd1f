// sector renders a sector/portal world on the CPU.
//
// Commands:
//
//	view    Walk through the map in this terminal
//	serve   Serve the viewer over ssh, with optional Prometheus metrics
//	render  Render frames headlessly to PNG or WebP
//	modes   List display modes
//
// Viewer controls:
//
//	W/S, Up/Down  - Move forward/back
//	A/D           - Strafe
//	Left/Right    - Turn
//	E/C, PgUp/Dn  - Look up/down (Home centers)
//	Tab           - Automap ([ and ] zoom)
//	G             - Cycle gamma
//	F             - Toggle fullscreen
//	P             - Toggle paletted/true color
//	+/-           - Change resolution
//	Space         - Flash
//	R             - Back to start
//	?             - Toggle HUD
//	Esc/Q         - Quit
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/sector/pkg/config"
	"github.com/taigrr/sector/pkg/render"
)

type app struct {
	configPath string
	flags      config.Flags
	cfg        config.Config
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithNotifySignal(os.Interrupt)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "sector",
		Short: "CPU sector/portal renderer",
		Long:  "sector draws a 2.5D sector/portal world column by column on the CPU, in the terminal, over ssh or to image files.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "sector.yaml", "config file (YAML); missing is fine")
	pf.IntVar(&a.flags.Width, "width", 0, "canvas width")
	pf.IntVar(&a.flags.Height, "height", 0, "canvas height")
	pf.BoolVar(&a.flags.Fullscreen, "fullscreen", false, "start fullscreen")
	pf.StringVar(&a.flags.Format, "format", "", "pixel format: truecolor or paletted")
	pf.Float64Var(&a.flags.FOV, "fov", 0, "horizontal field of view in degrees")
	pf.Float64Var(&a.flags.Gamma, "gamma", 0, "gamma correction")
	pf.IntVar(&a.flags.MaxFPS, "fps", 0, "frame rate cap")
	pf.IntVarP(&a.flags.Workers, "workers", "j", 0, "render workers (default: number of CPUs)")
	pf.StringVar(&a.flags.TextureDir, "textures", "", "directory of texture images")
	pf.StringVar(&a.flags.TexturePack, "pack", "", "glTF/GLB texture pack")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(a.viewCmd(), a.serveCmd(), a.renderCmd(), a.modesCmd())
	return root
}

// setup loads the config and installs the logger.
func (a *app) setup() error {
	cfg, err := config.LoadOptional(a.configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(a.flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := cfg.Level()
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
