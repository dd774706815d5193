package momentum

import (
	"math"

	"github.com/evdnx/tachart/indicator/core"
)

func approxEqual(a, b float64) bool {
	const eps = 1e-6
	return math.Abs(a-b) <= eps
}

func closesToBars(closes ...float64) []core.Bar {
	return core.FromCloses(closes, 1_700_000_000_000, 60_000)
}

// noisyBars produces a deterministic random walk with a real high/low range.
func noisyBars(n int) []core.Bar {
	bars := make([]core.Bar, n)
	price := 100.0
	for i := range bars {
		open := price
		price += 0.9*math.Sin(float64(i)/4) + 0.07*float64(i%5) - 0.12
		bars[i] = core.Bar{
			Time:   int64(i) * 60_000,
			Open:   open,
			High:   math.Max(open, price) + 0.3 + 0.1*float64(i%3),
			Low:    math.Min(open, price) - 0.25,
			Close:  price,
			Volume: 1000 + float64(i%11)*10,
		}
	}
	return bars
}
