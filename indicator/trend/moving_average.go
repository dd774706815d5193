package trend

import (
	"fmt"
	"math"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
)

// MA returns the simple moving average of Close over params.Period bars.
// Slots before the first full window are undefined.
func MA(bars []core.Bar, params config.MAParams) (core.Series, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := core.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("ma: %w", err)
	}
	return smaValues(core.Closes(bars), params.Period), nil
}

// SMAValues is MA over a pre-extracted numeric series. Any undefined value
// inside a window leaves that slot undefined; an infinite value is rejected
// with core.ErrInvalidValue, as EMA does.
func SMAValues(values []float64, period int) (core.Series, error) {
	if err := core.ValidatePeriod("sma period", period); err != nil {
		return nil, err
	}
	for i, v := range values {
		if math.IsInf(v, 0) {
			return nil, fmt.Errorf("sma: %w at index %d", core.ErrInvalidValue, i)
		}
	}
	return smaValues(values, period), nil
}

// smaValues sums each window afresh rather than keeping a running sum, so
// period 1 and constant inputs come back bit-exact.
func smaValues(values []float64, period int) core.Series {
	out := core.NewSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for _, v := range values[i-period+1 : i+1] {
			sum += v
		}
		// NaN propagates through the sum and leaves the slot undefined.
		out[i] = sum / float64(period)
	}
	return out
}
