package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/sector/pkg/metrics"
	"github.com/taigrr/sector/pkg/server"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the viewer over ssh",
		Long:  "Serve runs one viewer per ssh session, sized to the client's terminal. Connect with: ssh -t -p 2222 localhost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.flags.SSHAddr, "addr", "", "ssh listen address (default :2222)")
	f.StringVar(&a.flags.MetricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	m, start, set, err := loadWorld(ctx, a.cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mets := metrics.New(reg)

	srv, err := server.New(server.Config{
		Addr:     a.cfg.SSHAddr,
		HostKey:  a.cfg.HostKey,
		Map:      m,
		Start:    start,
		Textures: set,
		Settings: a.cfg.Settings(),
		Render:   a.cfg.RenderOptions(),
		Metrics:  mets,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	if a.cfg.MetricsAddr != "" {
		g.Go(func() error { return metrics.Serve(ctx, a.cfg.MetricsAddr, reg) })
	}
	return g.Wait()
}
