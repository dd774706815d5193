package momentum

import (
	"fmt"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
	"github.com/evdnx/tachart/indicator/trend"
)

// MACDResult holds the three MACD lines, each aligned with the input bars.
type MACDResult struct {
	DIF  core.Series `json:"dif"`  // short EMA - long EMA
	DEA  core.Series `json:"dea"`  // signal EMA of DIF
	MACD core.Series `json:"macd"` // 2 * (DIF - DEA)
}

// MACD implements Moving Average Convergence Divergence over close prices.
// DIF is defined once both EMAs are; DEA runs the signal EMA over the defined
// part of DIF, so it starts signal-1 bars after DIF.
func MACD(bars []core.Bar, params config.MACDParams) (MACDResult, error) {
	if err := params.Validate(); err != nil {
		return MACDResult{}, err
	}
	if err := core.ValidateBars(bars); err != nil {
		return MACDResult{}, fmt.Errorf("macd: %w", err)
	}

	closes := core.Closes(bars)
	short, err := trend.EMA(closes, config.EMAParams{Period: params.Short, Seed: params.Seed})
	if err != nil {
		return MACDResult{}, fmt.Errorf("failed to compute short EMA: %w", err)
	}
	long, err := trend.EMA(closes, config.EMAParams{Period: params.Long, Seed: params.Seed})
	if err != nil {
		return MACDResult{}, fmt.Errorf("failed to compute long EMA: %w", err)
	}

	n := len(bars)
	dif := core.NewSeries(n)
	for i := 0; i < n; i++ {
		if short.Defined(i) && long.Defined(i) {
			dif[i] = short[i] - long[i]
		}
	}

	dea, err := trend.EMA(dif, config.EMAParams{Period: params.Signal, Seed: params.Seed})
	if err != nil {
		return MACDResult{}, fmt.Errorf("failed to compute signal EMA: %w", err)
	}

	hist := core.NewSeries(n)
	for i := 0; i < n; i++ {
		if dif.Defined(i) && dea.Defined(i) {
			hist[i] = 2 * (dif[i] - dea[i])
		}
	}
	return MACDResult{DIF: dif, DEA: dea, MACD: hist}, nil
}
