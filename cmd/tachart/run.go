package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator"
	"github.com/evdnx/tachart/internal/barsio"
	"github.com/evdnx/tachart/internal/logger"
	"github.com/evdnx/tachart/internal/marketdata"
	"github.com/evdnx/tachart/internal/metrics"
	"github.com/evdnx/tachart/preset"
	"github.com/evdnx/tachart/store"
	"github.com/evdnx/tachart/store/redis"
	"github.com/evdnx/tachart/store/sqlite"
	"github.com/evdnx/tachart/suite"
	"github.com/google/uuid"
)

const (
	formatJSON   = "json"
	formatCSV    = "csv"
	formatLatest = "latest"

	shutdownTimeout = 2 * time.Second
)

var errNoSource = errors.New("one of -csv or -symbol is required")

type options struct {
	envFiles    []string
	csvPath     string
	symbol      string
	interval    string
	limit       int
	preset      string
	savePreset  string
	listPresets bool
	format      string
	tail        int
	outPath     string
	metricsAddr string
	watch       time.Duration
	from        string
	to          string
}

func (o options) validate() error {
	switch o.format {
	case formatJSON, formatCSV, formatLatest:
	default:
		return fmt.Errorf("unknown -format %q (want json|csv|latest)", o.format)
	}
	if o.listPresets {
		return nil
	}
	if o.csvPath == "" && o.symbol == "" {
		return errNoSource
	}
	if o.csvPath != "" && o.symbol != "" {
		return errors.New("-csv and -symbol are mutually exclusive")
	}
	if o.watch > 0 && o.symbol == "" {
		return errors.New("-watch requires -symbol")
	}
	if o.tail < 0 {
		return fmt.Errorf("-tail must be non-negative, got %d", o.tail)
	}
	if o.from != "" || o.to != "" {
		if o.symbol == "" {
			return errors.New("-from/-to require -symbol")
		}
		if o.watch > 0 {
			return errors.New("-from/-to cannot be combined with -watch")
		}
		if _, _, err := o.timeRange(time.Now()); err != nil {
			return err
		}
	}
	return nil
}

// timeRange resolves -from/-to; an empty -to means now.
func (o options) timeRange(now time.Time) (start, end time.Time, err error) {
	if o.from == "" {
		return start, end, errors.New("-to requires -from")
	}
	ms, err := barsio.ParseTime(o.from)
	if err != nil {
		return start, end, fmt.Errorf("invalid -from: %w", err)
	}
	start = time.UnixMilli(ms)
	end = now
	if o.to != "" {
		if ms, err = barsio.ParseTime(o.to); err != nil {
			return start, end, fmt.Errorf("invalid -to: %w", err)
		}
		end = time.UnixMilli(ms)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("-to %s is before -from %s", end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339))
	}
	return start, end, nil
}

// fetcher is the part of marketdata.Fetcher run needs; tests swap it.
type fetcher interface {
	Bars(ctx context.Context, symbol, interval string, limit int) ([]indicator.Bar, error)
	BarsRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]indicator.Bar, error)
}

var newFetcher = func(s *config.Settings, log *slog.Logger) fetcher {
	return marketdata.New(marketdata.Config{
		APIKey:     s.BinanceAPIKey,
		SecretKey:  s.BinanceSecretKey,
		UseTestnet: s.BinanceTestnet,
		Logger:     log,
	})
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}

	settings, err := config.LoadEnv(opts.envFiles...)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	log := logger.Init("tachart", level)

	rec := metrics.NewRecorder()
	metricsAddr := settings.MetricsAddr
	if opts.metricsAddr != "" {
		metricsAddr = opts.metricsAddr
	}
	if metricsAddr != "" {
		srv := metrics.NewServer(metricsAddr, rec, log)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	st, err := openStore(ctx, settings, log)
	if err != nil {
		return err
	}
	defer st.Close()
	presets := preset.NewService(st, preset.WithLogger(log), preset.WithRecorder(rec))

	if opts.listPresets {
		list, err := presets.List(ctx)
		if err != nil {
			return err
		}
		return writeOutput(opts.outPath, stdout, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		})
	}

	cfg := settings.Chart
	if opts.preset != "" {
		p, err := presets.Load(ctx, opts.preset)
		if err != nil {
			return err
		}
		cfg = p.Config
		log.Info("using preset", slog.String("name", p.Name), slog.String("id", p.ID))
	}
	if opts.savePreset != "" {
		if _, err := presets.Save(ctx, opts.savePreset, cfg); err != nil {
			return err
		}
	}

	cs, err := suite.NewChartSuiteWithConfig(cfg, suite.WithLogger(log), suite.WithRecorder(rec))
	if err != nil {
		return err
	}

	var src fetcher
	if opts.symbol != "" {
		src = newFetcher(settings, log)
	}
	bars, err := loadBars(ctx, opts, src)
	if err != nil {
		return err
	}
	snap, err := cs.Compute(bars)
	if err != nil {
		return err
	}
	if err := writeOutput(opts.outPath, stdout, func(w io.Writer) error {
		return render(w, snap, opts)
	}); err != nil {
		return err
	}

	if opts.watch > 0 {
		return watch(ctx, opts, src, cs, log)
	}
	return nil
}

func openStore(ctx context.Context, s *config.Settings, log *slog.Logger) (store.Store, error) {
	switch s.PresetBackend {
	case config.BackendSQLite:
		return sqlite.Open(ctx, sqlite.Config{Path: s.SQLitePath, Logger: log})
	case config.BackendRedis:
		return redis.New(ctx, redis.Config{Addr: s.RedisAddr, Password: s.RedisPassword, DB: s.RedisDB, Logger: log})
	default:
		return store.NewMemory(), nil
	}
}

func loadBars(ctx context.Context, opts options, src fetcher) ([]indicator.Bar, error) {
	if opts.csvPath != "" {
		return barsio.LoadCSV(opts.csvPath)
	}
	if opts.from != "" {
		start, end, err := opts.timeRange(time.Now())
		if err != nil {
			return nil, err
		}
		return src.BarsRange(ctx, opts.symbol, opts.interval, start, end)
	}
	return src.Bars(ctx, opts.symbol, opts.interval, opts.limit)
}

func render(w io.Writer, snap *suite.Snapshot, opts options) error {
	if opts.format == formatLatest {
		r, _ := snap.Latest()
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	plots, err := snap.PlotData()
	if err != nil {
		return err
	}
	if opts.tail > 0 {
		for i := range plots {
			plots[i] = plots[i].Tail(opts.tail)
		}
	}

	var out string
	if opts.format == formatCSV {
		out, err = indicator.FormatPlotDataCSV(plots)
	} else {
		out, err = indicator.FormatPlotDataJSON(plots)
		out += "\n"
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func writeOutput(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// watch refetches on every tick and logs the latest reading. Fetch errors
// are logged and retried on the next tick. Each tick logs under its own
// trace id.
func watch(ctx context.Context, opts options, src fetcher, cs *suite.ChartSuite, log *slog.Logger) error {
	ticker := time.NewTicker(opts.watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil
		case <-ticker.C:
			tickCtx := logger.WithTraceID(ctx, uuid.NewString())
			tickLog := logger.FromContext(tickCtx, log)

			bars, err := src.Bars(tickCtx, opts.symbol, opts.interval, opts.limit)
			if err != nil {
				tickLog.Warn("fetch failed", slog.String("symbol", opts.symbol), slog.Any("err", err))
				continue
			}
			snap, err := cs.Compute(bars)
			if err != nil {
				tickLog.Warn("compute failed", slog.Any("err", err))
				continue
			}
			r, _ := snap.Latest()
			tickLog.Info("latest reading",
				slog.String("symbol", opts.symbol),
				slog.Int64("time", r.Time),
				slog.Float64("close", r.Close),
				slog.String("rsi_zone", string(r.RSIZone)),
				slog.String("kdj_zone", string(r.KDJZone)))
		}
	}
}
