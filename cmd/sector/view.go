package main

import (
	"context"
	"fmt"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/sector/pkg/present"
	"github.com/taigrr/sector/pkg/viewer"
)

func (a *app) viewCmd() *cobra.Command {
	var fit bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Walk through the map in this terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.view(cmd.Context(), fit)
		},
	}
	cmd.Flags().BoolVar(&fit, "fit", true, "size the canvas to the terminal, ignoring --width and --height")
	return cmd
}

func (a *app) view(ctx context.Context, fit bool) error {
	m, start, set, err := loadWorld(ctx, a.cfg)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer term.Shutdown(context.Background())
	if err := term.Resize(cols, rows); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	settings := a.cfg.Settings()
	if fit {
		settings.Width, settings.Height = present.PixelSize(cols, rows)
	}
	sess, err := viewer.New(present.NewTerminal(term), viewer.Options{
		Map:         m,
		Start:       start,
		Textures:    set,
		Settings:    settings,
		Render:      a.cfg.RenderOptions(),
		FitTerminal: fit,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	events := make(chan uv.Event, 64)
	go func() {
		defer close(events)
		for ev := range term.Events() {
			if ws, ok := ev.(uv.WindowSizeEvent); ok {
				term.Erase()
				_ = term.Resize(ws.Width, ws.Height)
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return sess.Run(ctx, events)
}
