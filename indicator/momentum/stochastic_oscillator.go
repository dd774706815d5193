package momentum

import (
	"fmt"
	"math"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
)

// KDJResult holds the raw stochastic value and the K/D/J lines.
type KDJResult struct {
	RSV core.Series `json:"rsv"`
	K   core.Series `json:"k"`
	D   core.Series `json:"d"`
	J   core.Series `json:"j"`
}

// KDJ implements the stochastic oscillator with a J line.
//
// RSV measures the close relative to the high-low range of the last period
// bars and is undefined until a full window exists. K and D are recursive
// averages seeded at 50, so they (and J) are defined at every index:
//
//	K = ((m1-1)*K' + RSV) / m1
//	D = ((m2-1)*D' + K) / m2
//	J = 3K - 2D
//
// A window with no range (high == low), or one too wide to represent, reads
// RSV 50.
func KDJ(bars []core.Bar, params config.KDJParams) (KDJResult, error) {
	if err := params.Validate(); err != nil {
		return KDJResult{}, err
	}
	if err := core.ValidateBars(bars); err != nil {
		return KDJResult{}, fmt.Errorf("kdj: %w", err)
	}

	n := len(bars)
	res := KDJResult{
		RSV: core.NewSeries(n),
		K:   make(core.Series, n),
		D:   make(core.Series, n),
		J:   make(core.Series, n),
	}
	s1, s2 := params.Smoothing()
	m1, m2 := float64(s1), float64(s2)

	k, d := neutralSeed, neutralSeed
	for i := 0; i < n; i++ {
		if i < params.Period-1 {
			res.K[i], res.D[i], res.J[i] = k, d, 3*k-2*d
			continue
		}
		rsv := computeRSV(bars, i-params.Period+1, i)
		res.RSV[i] = rsv

		k = ((m1-1)*k + rsv) / m1
		d = ((m2-1)*d + k) / m2
		res.K[i], res.D[i], res.J[i] = k, d, 3*k-2*d
	}
	return res, nil
}

func computeRSV(bars []core.Bar, start, last int) float64 {
	highest, lowest := core.WindowHighLow(bars, start, last+1)
	rangeHL := highest - lowest
	if rangeHL == 0 || math.IsInf(rangeHL, 0) {
		return neutralSeed
	}
	return (bars[last].Close - lowest) / rangeHL * 100
}
