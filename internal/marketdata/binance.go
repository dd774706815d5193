// Package marketdata fetches OHLCV bars from Binance USDⓈ-M futures.
package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/evdnx/tachart/indicator/core"
	"github.com/evdnx/tachart/internal/logger"
	"github.com/shopspring/decimal"
)

const (
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	// MaxLimit is the largest page the klines endpoint serves.
	MaxLimit     = 1500
	DefaultLimit = 500
)

// Config holds the Binance connection settings. Klines are public, so the
// keys may be empty.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     *slog.Logger
}

// klineSource is the slice of the futures API the fetcher needs.
type klineSource interface {
	Klines(ctx context.Context, symbol, interval string, startTime, endTime int64, limit int) ([]*futures.Kline, error)
}

type futuresSource struct {
	client *futures.Client
}

func (s futuresSource) Klines(ctx context.Context, symbol, interval string, startTime, endTime int64, limit int) ([]*futures.Kline, error) {
	svc := s.client.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit)
	if startTime > 0 {
		svc = svc.StartTime(startTime)
	}
	if endTime > 0 {
		svc = svc.EndTime(endTime)
	}
	return svc.Do(ctx)
}

// Fetcher loads historical bars.
type Fetcher struct {
	src klineSource
	log *slog.Logger
}

// New creates a fetcher against production or testnet.
func New(cfg Config) *Fetcher {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
	} else {
		client.BaseURL = baseURLProduction
	}
	log.Info("binance client configured", slog.String("baseURL", client.BaseURL))
	return &Fetcher{src: futuresSource{client: client}, log: log}
}

// Bars returns the most recent limit bars, oldest first. limit <= 0 selects
// DefaultLimit.
func (f *Fetcher) Bars(ctx context.Context, symbol, interval string, limit int) ([]core.Bar, error) {
	const op = "Bars"
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		return nil, fmt.Errorf("%s failed: %w: limit %d exceeds %d", op, ErrInvalidRequest, limit, MaxLimit)
	}
	klines, err := f.src.Klines(ctx, symbol, interval, 0, 0, limit)
	if err != nil {
		return nil, f.handleError(ctx, err, op)
	}
	bars, err := translateKlines(klines)
	if err != nil {
		return nil, f.handleError(ctx, err, op)
	}
	f.log.DebugContext(ctx, "fetched bars", slog.String("symbol", symbol), slog.String("interval", interval), slog.Int("count", len(bars)))
	return bars, nil
}

// BarsRange pages through every bar opening in [start, end].
func (f *Fetcher) BarsRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]core.Bar, error) {
	const op = "BarsRange"
	if end.Before(start) {
		return nil, fmt.Errorf("%s failed: %w: end before start", op, ErrInvalidRequest)
	}

	var all []core.Bar
	from := start.UnixMilli()
	for {
		klines, err := f.src.Klines(ctx, symbol, interval, from, end.UnixMilli(), MaxLimit)
		if err != nil {
			return nil, f.handleError(ctx, err, op)
		}
		if len(klines) == 0 {
			break
		}
		bars, err := translateKlines(klines)
		if err != nil {
			return nil, f.handleError(ctx, err, op)
		}
		all = append(all, bars...)

		from = klines[len(klines)-1].CloseTime + 1
		if from > end.UnixMilli() || len(klines) < MaxLimit {
			break
		}
	}
	return all, nil
}

func translateKlines(klines []*futures.Kline) ([]core.Bar, error) {
	bars := make([]core.Bar, 0, len(klines))
	for i, k := range klines {
		b, err := TranslateKline(k)
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// TranslateKline converts a Binance kline; prices arrive as decimal strings.
func TranslateKline(k *futures.Kline) (core.Bar, error) {
	if k == nil {
		return core.Bar{}, fmt.Errorf("%w: nil", ErrBadKline)
	}
	bar := core.Bar{Time: k.OpenTime}
	for _, f := range []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"open", k.Open, &bar.Open},
		{"high", k.High, &bar.High},
		{"low", k.Low, &bar.Low},
		{"close", k.Close, &bar.Close},
		{"volume", k.Volume, &bar.Volume},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return core.Bar{}, fmt.Errorf("%w: %s %q: %v", ErrBadKline, f.name, f.raw, err)
		}
		*f.dst = d.InexactFloat64()
	}
	return bar, nil
}
