package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/sector/pkg/present"
)

func (a *app) modesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List display modes and the one --width and --height select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			w, h := a.cfg.Width, a.cfg.Height
			for _, m := range present.WinModes {
				mark := " "
				if m.Width == w && m.Height == h {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %v\n", mark, m)
			}
			if m, ok := present.ClosestResolution(present.WinModes, w, h); ok && (m.Width != w || m.Height != h) {
				fmt.Fprintf(out, "%dx%d is not a listed mode; closest is %v\n", w, h, m)
			}
			return nil
		},
	}
}
