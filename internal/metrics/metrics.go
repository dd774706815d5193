// Package metrics exposes Prometheus metrics for indicator computation.
//
//   - tachart_indicator_compute_seconds{indicator}              – time spent per indicator
//   - tachart_indicator_computations_total{indicator,outcome}   – outcome: ok|error
//   - tachart_bars_processed_total                              – bars fed to the suite
//   - tachart_preset_operations_total{op,outcome}               – preset store traffic
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder owns a private registry so several recorders (tests, embedded
// use) never collide on the global one. A nil *Recorder is a valid no-op.
type Recorder struct {
	registry *prometheus.Registry

	computeDur   *prometheus.HistogramVec
	computations *prometheus.CounterVec
	bars         prometheus.Counter
	presetOps    *prometheus.CounterVec
}

// NewRecorder registers and returns all metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		computeDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tachart_indicator_compute_seconds",
			Help:    "Time spent computing one indicator over a bar series",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}, []string{"indicator"}),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tachart_indicator_computations_total",
			Help: "Indicator computations by outcome",
		}, []string{"indicator", "outcome"}),
		bars: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tachart_bars_processed_total",
			Help: "Bars passed through the indicator suite",
		}),
		presetOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tachart_preset_operations_total",
			Help: "Preset store operations by outcome",
		}, []string{"op", "outcome"}),
	}
	r.registry.MustRegister(r.computeDur, r.computations, r.bars, r.presetOps)
	return r
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveCompute records one indicator run.
func (r *Recorder) ObserveCompute(indicator string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.computeDur.WithLabelValues(indicator).Observe(d.Seconds())
	r.computations.WithLabelValues(indicator, outcome(err)).Inc()
}

// AddBars counts bars processed by one suite run.
func (r *Recorder) AddBars(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.bars.Add(float64(n))
}

// ObservePreset records one preset store operation (save, load, delete, list).
func (r *Recorder) ObservePreset(op string, err error) {
	if r == nil {
		return
	}
	r.presetOps.WithLabelValues(op, outcome(err)).Inc()
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr      string
	srv       *http.Server
	log       *slog.Logger
	startedAt time.Time
}

// NewServer creates a metrics and health server for rec.
func NewServer(addr string, rec *Recorder, log *slog.Logger) *Server {
	s := &Server{addr: addr, log: log, startedAt: time.Now()}
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	mux.HandleFunc("/healthz", s.healthz)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}{
		Status: "ok",
		Uptime: time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// Handler returns the server's mux, for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info("metrics server listening", slog.String("addr", s.addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server error", slog.Any("err", err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
