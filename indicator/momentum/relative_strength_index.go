package momentum

import (
	"fmt"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
)

// RSI computes the Relative Strength Index of the close prices.
//
// Gains and losses of the first period-1 price changes are accumulated and
// the first value is emitted at index period-1. From index period on they are
// updated with Wilder's smoothing using the single most recent change:
//
//	avg = (avg*(period-1) + change) / period
//
// With config.SeedSMA the accumulated sums are turned into averages before
// smoothing starts; config.SeedFirstValue smooths the raw sums, as the
// dashboard always did. Both give the same value at index period-1.
//
// Index 0 is always undefined. A window without losses saturates at 100, a
// window without any movement reads 50.
func RSI(bars []core.Bar, params config.RSIParams) (core.Series, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := core.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}

	period := params.Period
	p := float64(period)
	out := core.NewSeries(len(bars))

	var avgGain, avgLoss float64
	for i := 1; i < len(bars); i++ {
		gain, loss := 0.0, 0.0
		if diff := bars[i].Close - bars[i-1].Close; diff > 0 {
			gain = diff
		} else if diff < 0 {
			loss = -diff
		}

		if i < period {
			avgGain += gain
			avgLoss += loss
			if i == period-1 {
				out[i] = rsiValue(avgGain, avgLoss)
				if params.Seed != config.SeedFirstValue {
					avgGain /= float64(i)
					avgLoss /= float64(i)
				}
			}
			continue
		}

		// Wilder smoothing: incorporate the single most-recent gain/loss.
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50 // no movement
		}
		return 100 // pure upward movement
	}
	rs := avgGain / avgLoss
	return core.Clamp(100-(100/(1+rs)), 0, 100)
}
