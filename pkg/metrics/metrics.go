// Package metrics exports renderer and presentation counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taigrr/sector/pkg/present"
	"github.com/taigrr/sector/pkg/render"
)

const namespace = "sector"

// Metrics holds the frame counters. It is safe for concurrent use, so
// several sessions may share one.
type Metrics struct {
	frames     prometheus.Counter
	frameTime  prometheus.Histogram
	passTime   *prometheus.CounterVec
	primitives *prometheus.CounterVec
	workers    prometheus.Gauge
	sessions   prometheus.Gauge
}

// New registers the frame metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered.",
		}),
		frameTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_seconds",
			Help:      "Wall time to render one frame.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		passTime: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pass_seconds_total",
			Help:      "Time spent per render or presentation pass, summed over workers.",
		}, []string{"pass"}),
		primitives: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "primitives_total",
			Help:      "Primitives drawn, by kind.",
		}, []string{"kind"}),
		workers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Render workers used for the last frame.",
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Open viewer sessions.",
		}),
	}
}

// Observe records one rendered and presented frame.
func (m *Metrics) Observe(s render.Stats, t present.Timing) {
	m.frames.Inc()
	m.frameTime.Observe(s.Frame.Seconds())
	m.workers.Set(float64(s.Workers))

	for pass, d := range map[string]time.Duration{
		"setup":  s.Setup,
		"walls":  s.Walls,
		"planes": s.Planes,
		"masked": s.Masked,
		"blit":   t.Blit,
		"flip":   t.Flip,
	} {
		m.passTime.WithLabelValues(pass).Add(d.Seconds())
	}
	for kind, n := range map[string]int{
		"wall_columns": s.WallColumns,
		"spans":        s.Spans,
		"visplanes":    s.Visplanes,
		"drawsegs":     s.Drawsegs,
		"windows":      s.Windows,
		"sprites":      s.Sprites,
		"particles":    s.Particles,
		"masked_walls": s.MaskedWalls,
	} {
		m.primitives.WithLabelValues(kind).Add(float64(n))
	}
}

// SessionStarted counts an opened viewer session.
func (m *Metrics) SessionStarted() { m.sessions.Inc() }

// SessionEnded counts a closed viewer session.
func (m *Metrics) SessionEnded() { m.sessions.Dec() }

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve serves /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	render.Logger().Info("metrics: listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
