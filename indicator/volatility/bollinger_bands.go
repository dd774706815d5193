package volatility

import (
	"fmt"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
	"github.com/evdnx/tachart/indicator/trend"
)

// BollingerResult holds the three bands, each aligned with the input bars.
type BollingerResult struct {
	Middle core.Series `json:"middle"`
	Upper  core.Series `json:"upper"`
	Lower  core.Series `json:"lower"`
}

// Bollinger computes Bollinger Bands over close prices. The middle band is
// the simple moving average; upper and lower sit Multiplier population
// standard deviations away from it.
func Bollinger(bars []core.Bar, params config.BollingerParams) (BollingerResult, error) {
	if err := params.Validate(); err != nil {
		return BollingerResult{}, err
	}
	middle, err := trend.MA(bars, config.MAParams{Period: params.Period})
	if err != nil {
		return BollingerResult{}, fmt.Errorf("bollinger: %w", err)
	}

	n := len(bars)
	res := BollingerResult{
		Middle: middle,
		Upper:  core.NewSeries(n),
		Lower:  core.NewSeries(n),
	}
	closes := core.Closes(bars)
	for i := params.Period - 1; i < n; i++ {
		mid := middle[i]
		sd := core.PopulationStdDev(closes[i-params.Period+1:i+1], mid)
		res.Upper[i] = mid + params.Multiplier*sd
		res.Lower[i] = mid - params.Multiplier*sd
	}
	return res, nil
}

// Bandwidth returns (upper-lower)/middle for every defined slot. A zero
// middle band leaves the slot undefined.
func (r BollingerResult) Bandwidth() core.Series {
	out := core.NewSeries(len(r.Middle))
	for i := range r.Middle {
		if !r.Middle.Defined(i) || r.Middle[i] == 0 {
			continue
		}
		out[i] = (r.Upper[i] - r.Lower[i]) / r.Middle[i]
	}
	return out
}
