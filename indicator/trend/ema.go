package trend

import (
	"fmt"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
)

// EMASmoothingFactor returns k = 2/(n+1).
func EMASmoothingFactor(n int) float64 {
	return 2.0 / float64(n+1)
}

// EMA computes the exponential moving average of values.
//
// A leading run of undefined values is treated as warm-up: the average
// starts at the first defined value s and slots before s+period-1 stay
// undefined. This lets MACD feed its DIF line straight back in. An undefined
// value after s is rejected.
//
// With config.SeedSMA the slot at s+period-1 holds the mean of the first
// period defined values. With config.SeedFirstValue the accumulator starts
// at values[s] and the recurrence runs from s, matching the numbers the
// dashboard charts have always shown.
func EMA(values []float64, params config.EMAParams) (core.Series, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	out := core.NewSeries(len(values))
	start := core.Series(values).FirstDefined()
	if start < 0 {
		return out, nil
	}
	for i := start; i < len(values); i++ {
		if !core.IsFinite(values[i]) {
			return nil, fmt.Errorf("ema: %w at index %d", core.ErrInvalidValue, i)
		}
	}

	period := params.Period
	k := EMASmoothingFactor(period)
	firstOut := start + period - 1

	switch params.Seed {
	case config.SeedFirstValue:
		ema := values[start]
		for i := start; i < len(values); i++ {
			ema = values[i]*k + ema*(1-k)
			if i >= firstOut {
				out[i] = ema
			}
		}
	default:
		if firstOut >= len(values) {
			return out, nil
		}
		ema := core.Mean(values[start : firstOut+1])
		out[firstOut] = ema
		for i := firstOut + 1; i < len(values); i++ {
			ema = values[i]*k + ema*(1-k)
			out[i] = ema
		}
	}
	return out, nil
}

// EMABars is EMA over the bars' close prices.
func EMABars(bars []core.Bar, params config.EMAParams) (core.Series, error) {
	if err := core.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("ema: %w", err)
	}
	return EMA(core.Closes(bars), params)
}
