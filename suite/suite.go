package suite

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator"
	"github.com/evdnx/tachart/internal/logger"
	"github.com/evdnx/tachart/internal/metrics"
)

// Indicator names used for metrics labels, log fields and plot data.
const (
	NameMA        = "ma"
	NameEMA       = "ema"
	NameRSI       = "rsi"
	NameMACD      = "macd"
	NameBollinger = "bollinger"
	NameKDJ       = "kdj"
)

// ---------------------------------------------------------------------
// ChartSuite – computes every chart indicator over one bar series.
// ---------------------------------------------------------------------

type ChartSuite struct {
	cfg config.ChartConfig
	log *slog.Logger
	rec *metrics.Recorder
}

// Option customises a ChartSuite.
type Option func(*ChartSuite)

// WithLogger makes the suite log each run at debug level and failures at
// warn level.
func WithLogger(l *slog.Logger) Option {
	return func(s *ChartSuite) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder records per-indicator timings and outcomes.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *ChartSuite) { s.rec = r }
}

// NewChartSuite creates a suite with the library defaults.
func NewChartSuite(opts ...Option) (*ChartSuite, error) {
	return NewChartSuiteWithConfig(config.DefaultConfig(), opts...)
}

// NewChartSuiteWithConfig builds a suite using a custom configuration. The
// whole configuration is validated up front so Compute never fails on
// parameters.
func NewChartSuiteWithConfig(cfg config.ChartConfig, opts ...Option) (*ChartSuite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create chart suite: %w", err)
	}
	s := &ChartSuite{cfg: cfg, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the configuration the suite was built with.
func (s *ChartSuite) Config() config.ChartConfig { return s.cfg }

// Compute validates bars once and then runs all indicators concurrently.
// Every failing indicator is reported in the joined error.
func (s *ChartSuite) Compute(bars []indicator.Bar) (*Snapshot, error) {
	if err := indicator.ValidateBars(bars); err != nil {
		s.log.Warn("rejected bars", slog.Any("err", err))
		return nil, fmt.Errorf("suite: %w", err)
	}

	snap := &Snapshot{
		Timestamps: make([]int64, len(bars)),
		bars:       bars,
		cfg:        s.cfg,
	}
	for i, b := range bars {
		snap.Timestamps[i] = b.Time
	}

	jobs := []struct {
		name string
		run  func() error
	}{
		{NameMA, func() (err error) {
			snap.MA, err = indicator.MA(bars, s.cfg.MA)
			return err
		}},
		{NameEMA, func() (err error) {
			snap.EMA, err = indicator.EMABars(bars, s.cfg.EMA)
			return err
		}},
		{NameRSI, func() (err error) {
			snap.RSI, err = indicator.RSI(bars, s.cfg.RSI)
			return err
		}},
		{NameMACD, func() (err error) {
			snap.MACD, err = indicator.MACD(bars, s.cfg.MACD)
			return err
		}},
		{NameBollinger, func() (err error) {
			snap.Bollinger, err = indicator.Bollinger(bars, s.cfg.Bollinger)
			return err
		}},
		{NameKDJ, func() (err error) {
			snap.KDJ, err = indicator.KDJ(bars, s.cfg.KDJ)
			return err
		}},
	}

	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, name string, run func() error) {
			defer wg.Done()
			start := time.Now()
			err := run()
			s.rec.ObserveCompute(name, time.Since(start), err)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", name, err)
			}
		}(i, job.name, job.run)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		s.log.Warn("indicator computation failed", slog.Int("bars", len(bars)), slog.Any("err", err))
		return nil, err
	}
	s.rec.AddBars(len(bars))
	s.log.Debug("computed chart indicators", slog.Int("bars", len(bars)))
	return snap, nil
}
