package suite

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator"
	"github.com/evdnx/tachart/internal/logger"
	"github.com/evdnx/tachart/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBars(n int) []indicator.Bar {
	bars := make([]indicator.Bar, n)
	for i := range bars {
		c := 98.0 + float64(i%10)*0.5 + math.Sin(float64(i)/6)
		bars[i] = indicator.Bar{
			Time:   1_700_000_000_000 + int64(i)*60_000,
			Open:   c - 0.2,
			High:   c + 1.5,
			Low:    c - 1.5,
			Close:  c,
			Volume: 1000 + float64(i%10)*50,
		}
	}
	return bars
}

func TestChartSuite_Compute(t *testing.T) {
	rec := metrics.NewRecorder()
	s, err := NewChartSuite(WithRecorder(rec))
	require.NoError(t, err)

	bars := sampleBars(120)
	snap, err := s.Compute(bars)
	require.NoError(t, err)

	assert.Equal(t, 120, snap.Len())
	for name, series := range map[string]indicator.Series{
		"ma": snap.MA, "ema": snap.EMA, "rsi": snap.RSI,
		"dif": snap.MACD.DIF, "dea": snap.MACD.DEA, "macd": snap.MACD.MACD,
		"boll": snap.Bollinger.Middle, "k": snap.KDJ.K,
	} {
		require.Len(t, series, 120, name)
		_, ok := series.Last()
		assert.True(t, ok, "%s should be defined on the last bar", name)
	}

	// Same numbers as a direct call.
	rsi, err := indicator.RSI(bars, config.DefaultRSIParams())
	require.NoError(t, err)
	assert.Equal(t, rsi[119], snap.RSI[119])

	count, err := testutil.GatherAndCount(rec.Registry(), "tachart_indicator_computations_total")
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	expected := `
# HELP tachart_bars_processed_total Bars passed through the indicator suite
# TYPE tachart_bars_processed_total counter
tachart_bars_processed_total 120
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "tachart_bars_processed_total"))
}

func TestChartSuite_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MA.Period = 0
	cfg.KDJ.Overbought, cfg.KDJ.Oversold = 10, 90

	_, err := NewChartSuiteWithConfig(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, indicator.ErrInvalidPeriod))
	assert.True(t, errors.Is(err, indicator.ErrInvalidParams))
}

func TestChartSuite_RejectsBadBars(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewChartSuite(WithLogger(logger.New(&buf, "test", slog.LevelDebug)))
	require.NoError(t, err)

	_, err = s.Compute(nil)
	assert.True(t, errors.Is(err, indicator.ErrNoBars))

	bars := sampleBars(10)
	bars[4].High = bars[4].Low - 1
	_, err = s.Compute(bars)
	assert.True(t, errors.Is(err, indicator.ErrInvalidBar))
	assert.Contains(t, buf.String(), "rejected bars")
}

func TestChartSuite_ShortHistory(t *testing.T) {
	s, err := NewChartSuite()
	require.NoError(t, err)

	snap, err := s.Compute(sampleBars(5))
	require.NoError(t, err)

	_, ok := snap.MA.Last()
	assert.False(t, ok)
	_, ok = snap.MACD.DEA.Last()
	assert.False(t, ok)
	// KDJ is seeded, so it is always defined.
	assert.Equal(t, 50.0, snap.KDJ.K[4])
}

func TestSnapshot_PlotData(t *testing.T) {
	s, err := NewChartSuite()
	require.NoError(t, err)
	bars := sampleBars(40)
	snap, err := s.Compute(bars)
	require.NoError(t, err)

	plots, err := snap.PlotData()
	require.NoError(t, err)
	require.Len(t, plots, 12)

	byName := map[string]indicator.PlotData{}
	for _, p := range plots {
		require.Len(t, p.Timestamp, 40, p.Name)
		require.Len(t, p.Y, 40, p.Name)
		assert.Equal(t, bars[0].Time, p.Timestamp[0])
		byName[p.Name] = p
	}
	assert.Equal(t, PanePrice, byName["MA(20)"].Pane)
	assert.Equal(t, TypeHistogram, byName["MACD"].Type)
	assert.Equal(t, PaneKDJ, byName["J"].Pane)

	out, err := indicator.FormatPlotDataJSON(plots)
	require.NoError(t, err)
	assert.NotContains(t, out, "NaN")
	assert.Contains(t, out, "null")
}

func TestSnapshot_Latest(t *testing.T) {
	s, err := NewChartSuite()
	require.NoError(t, err)

	// A steady climb: RSI pins at 100 and K heads for the top of the range.
	bars := make([]indicator.Bar, 60)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = indicator.Bar{Time: int64(i), Open: c - 0.5, High: c, Low: c - 1, Close: c}
	}
	snap, err := s.Compute(bars)
	require.NoError(t, err)

	r, ok := snap.Latest()
	require.True(t, ok)
	assert.Equal(t, int64(59), r.Time)
	assert.Equal(t, 159.0, r.Close)
	require.NotNil(t, r.RSI)
	assert.Equal(t, 100.0, *r.RSI)
	assert.Equal(t, indicator.ZoneOverbought, r.RSIZone)
	assert.Equal(t, indicator.ZoneOverbought, r.KDJZone)
	require.NotNil(t, r.MA)
	assert.InDelta(t, 149.5, *r.MA, 1e-9)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"rsi_zone":"overbought"`)
}

func TestSnapshot_LatestUndefinedValuesAreNil(t *testing.T) {
	s, err := NewChartSuite()
	require.NoError(t, err)
	snap, err := s.Compute(sampleBars(3))
	require.NoError(t, err)

	r, ok := snap.Latest()
	require.True(t, ok)
	assert.Nil(t, r.MA)
	assert.Nil(t, r.RSI)
	assert.Empty(t, r.RSIZone)
	assert.Equal(t, indicator.ZoneNeutral, r.KDJZone)
}
