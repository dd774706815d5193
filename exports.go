// Package tachart computes technical-indicator series (MA, EMA, RSI, MACD,
// Bollinger Bands, KDJ) over OHLCV bars for chart dashboards. Every output
// series has the same length as the input; slots without enough history hold
// an undefined value (NaN, marshalled as JSON null).
package tachart

import (
	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator"
	"github.com/evdnx/tachart/suite"
)

// ---- Shared data helpers ----
type (
	Bar      = indicator.Bar
	Series   = indicator.Series
	PlotData = indicator.PlotData
)

var (
	ErrNoBars        = indicator.ErrNoBars
	ErrInvalidPeriod = indicator.ErrInvalidPeriod
	ErrInvalidParams = indicator.ErrInvalidParams
	ErrInvalidBar    = indicator.ErrInvalidBar
	ErrInvalidValue  = indicator.ErrInvalidValue
)

func Undefined() float64         { return indicator.Undefined() }
func IsUndefined(v float64) bool { return indicator.IsUndefined(v) }

func GenerateTimestamps(startTime int64, count int, interval int64) []int64 {
	return indicator.GenerateTimestamps(startTime, count, interval)
}

func FormatPlotDataJSON(data []PlotData) (string, error) {
	return indicator.FormatPlotDataJSON(data)
}

func FormatPlotDataCSV(data []PlotData) (string, error) {
	return indicator.FormatPlotDataCSV(data)
}

// ---- Configuration ----
type (
	ChartConfig     = config.ChartConfig
	SeedPolicy      = config.SeedPolicy
	MAParams        = config.MAParams
	EMAParams       = config.EMAParams
	RSIParams       = config.RSIParams
	MACDParams      = config.MACDParams
	BollingerParams = config.BollingerParams
	KDJParams       = config.KDJParams
)

const (
	SeedSMA        = config.SeedSMA
	SeedFirstValue = config.SeedFirstValue
)

func DefaultConfig() ChartConfig { return config.DefaultConfig() }

// ---- Indicators ----
type (
	Zone            = indicator.Zone
	MACDResult      = indicator.MACDResult
	BollingerResult = indicator.BollingerResult
	KDJResult       = indicator.KDJResult
)

const (
	ZoneOverbought = indicator.ZoneOverbought
	ZoneOversold   = indicator.ZoneOversold
	ZoneNeutral    = indicator.ZoneNeutral
)

func MA(bars []Bar, params MAParams) (Series, error) { return indicator.MA(bars, params) }

func EMA(values []float64, params EMAParams) (Series, error) { return indicator.EMA(values, params) }

func EMABars(bars []Bar, params EMAParams) (Series, error) { return indicator.EMABars(bars, params) }

func EMASmoothingFactor(n int) float64 { return indicator.EMASmoothingFactor(n) }

func RSI(bars []Bar, params RSIParams) (Series, error) { return indicator.RSI(bars, params) }

func RSIZone(value float64, params RSIParams) Zone { return indicator.RSIZone(value, params) }

func MACD(bars []Bar, params MACDParams) (MACDResult, error) { return indicator.MACD(bars, params) }

func Bollinger(bars []Bar, params BollingerParams) (BollingerResult, error) {
	return indicator.Bollinger(bars, params)
}

func KDJ(bars []Bar, params KDJParams) (KDJResult, error) { return indicator.KDJ(bars, params) }

func KDJZone(k float64, params KDJParams) Zone { return indicator.KDJZone(k, params) }

// ---- Chart suite ----
type (
	ChartSuite  = suite.ChartSuite
	SuiteOption = suite.Option
	Snapshot    = suite.Snapshot
	Reading     = suite.Reading
)

func NewChartSuite(opts ...SuiteOption) (*ChartSuite, error) { return suite.NewChartSuite(opts...) }

func NewChartSuiteWithConfig(cfg ChartConfig, opts ...SuiteOption) (*ChartSuite, error) {
	return suite.NewChartSuiteWithConfig(cfg, opts...)
}
