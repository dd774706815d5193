package indicator

import (
	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
	"github.com/evdnx/tachart/indicator/momentum"
	"github.com/evdnx/tachart/indicator/trend"
	"github.com/evdnx/tachart/indicator/volatility"
)

// ---- Shared data helpers ----
type (
	Bar      = core.Bar
	Series   = core.Series
	PlotData = core.PlotData
)

var (
	ErrNoBars        = core.ErrNoBars
	ErrInvalidPeriod = core.ErrInvalidPeriod
	ErrInvalidParams = core.ErrInvalidParams
	ErrInvalidBar    = core.ErrInvalidBar
	ErrInvalidValue  = core.ErrInvalidValue
)

func Undefined() float64         { return core.Undefined() }
func IsUndefined(v float64) bool { return core.IsUndefined(v) }
func NewSeries(n int) Series     { return core.NewSeries(n) }
func ValidateBars(bars []Bar) error {
	return core.ValidateBars(bars)
}

func NewPlotData(name, plotType, pane string, bars []Bar, y Series) (PlotData, error) {
	return core.NewPlotData(name, plotType, pane, bars, y)
}

func GenerateTimestamps(startTime int64, count int, interval int64) []int64 {
	return core.GenerateTimestamps(startTime, count, interval)
}

func FormatPlotDataJSON(data []PlotData) (string, error) {
	return core.FormatPlotDataJSON(data)
}

func FormatPlotDataCSV(data []PlotData) (string, error) {
	return core.FormatPlotDataCSV(data)
}

func KeepLast[T any](s []T, n int) []T { return core.KeepLast(s, n) }

func Clamp(value, min, max float64) float64 { return core.Clamp(value, min, max) }

// ---- Moving averages ----
func MA(bars []Bar, params config.MAParams) (Series, error) { return trend.MA(bars, params) }

func SMAValues(values []float64, period int) (Series, error) {
	return trend.SMAValues(values, period)
}

func EMA(values []float64, params config.EMAParams) (Series, error) {
	return trend.EMA(values, params)
}

func EMABars(bars []Bar, params config.EMAParams) (Series, error) {
	return trend.EMABars(bars, params)
}

func EMASmoothingFactor(n int) float64 { return trend.EMASmoothingFactor(n) }

// ---- Momentum indicators ----
type (
	Zone       = momentum.Zone
	MACDResult = momentum.MACDResult
	KDJResult  = momentum.KDJResult
)

const (
	ZoneOverbought = momentum.ZoneOverbought
	ZoneOversold   = momentum.ZoneOversold
	ZoneNeutral    = momentum.ZoneNeutral
)

func RSI(bars []Bar, params config.RSIParams) (Series, error) { return momentum.RSI(bars, params) }

func RSIZone(value float64, params config.RSIParams) Zone { return momentum.RSIZone(value, params) }

func MACD(bars []Bar, params config.MACDParams) (MACDResult, error) {
	return momentum.MACD(bars, params)
}

func KDJ(bars []Bar, params config.KDJParams) (KDJResult, error) {
	return momentum.KDJ(bars, params)
}

func KDJZone(k float64, params config.KDJParams) Zone { return momentum.KDJZone(k, params) }

// ---- Volatility indicators ----
type BollingerResult = volatility.BollingerResult

func Bollinger(bars []Bar, params config.BollingerParams) (BollingerResult, error) {
	return volatility.Bollinger(bars, params)
}
