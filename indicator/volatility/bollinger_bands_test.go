package volatility

import (
	"errors"
	"math"
	"testing"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approxEqual(a, b float64) bool {
	const eps = 1e-6
	return math.Abs(a-b) <= eps
}

func closesToBars(closes ...float64) []core.Bar {
	return core.FromCloses(closes, 1_700_000_000_000, 60_000)
}

func TestBollinger_Calculation(t *testing.T) {
	res, err := Bollinger(closesToBars(10, 12, 14), config.BollingerParams{Period: 3, Multiplier: 2})
	require.NoError(t, err)

	sd := math.Sqrt(8.0 / 3)
	if res.Middle[2] != 12 || !approxEqual(res.Upper[2], 12+2*sd) || !approxEqual(res.Lower[2], 12-2*sd) {
		t.Fatalf("unexpected bands: upper %.4f, mid %.4f, lower %.4f", res.Upper[2], res.Middle[2], res.Lower[2])
	}
	for i := 0; i < 2; i++ {
		assert.False(t, res.Middle.Defined(i))
		assert.False(t, res.Upper.Defined(i))
		assert.False(t, res.Lower.Defined(i))
	}
}

func TestBollinger_ConstantCollapses(t *testing.T) {
	res, err := Bollinger(closesToBars(7, 7, 7, 7, 7, 7), config.BollingerParams{Period: 4, Multiplier: 2})
	require.NoError(t, err)
	for i := 3; i < 6; i++ {
		assert.Equal(t, 7.0, res.Upper[i])
		assert.Equal(t, 7.0, res.Middle[i])
		assert.Equal(t, 7.0, res.Lower[i])
	}
	bw := res.Bandwidth()
	assert.Equal(t, 0.0, bw[5])
	assert.False(t, bw.Defined(2))
}

func TestBollinger_BandOrdering(t *testing.T) {
	closes := make([]float64, 200)
	price := 50.0
	for i := range closes {
		price += math.Sin(float64(i)/5) * 1.3
		closes[i] = price
	}
	res, err := Bollinger(closesToBars(closes...), config.DefaultBollingerParams())
	require.NoError(t, err)
	require.Len(t, res.Upper, 200)

	for i := 19; i < 200; i++ {
		if !(res.Lower[i] <= res.Middle[i] && res.Middle[i] <= res.Upper[i]) {
			t.Fatalf("bands out of order at %d: %v %v %v", i, res.Lower[i], res.Middle[i], res.Upper[i])
		}
	}
}

func TestBollinger_MatchesTALib(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/7) + 0.3*float64(i%4)
	}
	res, err := Bollinger(closesToBars(closes...), config.BollingerParams{Period: 20, Multiplier: 2})
	require.NoError(t, err)
	upper, middle, lower := talib.BBands(closes, 20, 2, 2, talib.SMA)

	for i := 19; i < len(closes); i++ {
		if !approxEqual(res.Middle[i], middle[i]) || !approxEqual(res.Upper[i], upper[i]) || !approxEqual(res.Lower[i], lower[i]) {
			t.Fatalf("index %d: got (%v,%v,%v) talib (%v,%v,%v)", i,
				res.Upper[i], res.Middle[i], res.Lower[i], upper[i], middle[i], lower[i])
		}
	}
}

func TestBollinger_ZeroMultiplier(t *testing.T) {
	res, err := Bollinger(closesToBars(1, 5, 2, 8), config.BollingerParams{Period: 2, Multiplier: 0})
	require.NoError(t, err)
	for i := 1; i < 4; i++ {
		assert.Equal(t, res.Middle[i], res.Upper[i])
		assert.Equal(t, res.Middle[i], res.Lower[i])
	}
}

func TestBollinger_NegativeMultiplierSwapsBands(t *testing.T) {
	bars := closesToBars(10, 12, 14)
	pos, err := Bollinger(bars, config.BollingerParams{Period: 3, Multiplier: 2})
	require.NoError(t, err)
	neg, err := Bollinger(bars, config.BollingerParams{Period: 3, Multiplier: -2})
	require.NoError(t, err)

	if !approxEqual(neg.Upper[2], pos.Lower[2]) || !approxEqual(neg.Lower[2], pos.Upper[2]) {
		t.Fatalf("bands not swapped: pos %v/%v, neg %v/%v", pos.Upper[2], pos.Lower[2], neg.Upper[2], neg.Lower[2])
	}
	assert.Equal(t, pos.Middle[2], neg.Middle[2])
}

func TestBollinger_Errors(t *testing.T) {
	_, err := Bollinger(nil, config.DefaultBollingerParams())
	assert.True(t, errors.Is(err, core.ErrNoBars))

	_, err = Bollinger(closesToBars(1, 2), config.BollingerParams{Period: 2, Multiplier: math.Inf(1)})
	assert.True(t, errors.Is(err, core.ErrInvalidParams))

	_, err = Bollinger(closesToBars(1, 2), config.BollingerParams{Period: 0, Multiplier: 2})
	assert.True(t, errors.Is(err, core.ErrInvalidPeriod))
}

func BenchmarkBollinger_10k(b *testing.B) {
	closes := make([]float64, 10_000)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/9)
	}
	bars := closesToBars(closes...)
	params := config.DefaultBollingerParams()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Bollinger(bars, params); err != nil {
			b.Fatalf("Bollinger failed: %v", err)
		}
	}
}
