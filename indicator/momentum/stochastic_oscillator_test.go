package momentum

import (
	"errors"
	"math"
	"testing"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKDJ_FlatMarketStaysNeutral(t *testing.T) {
	bars := make([]core.Bar, 20)
	for i := range bars {
		bars[i] = core.Bar{Time: int64(i), Open: 50, High: 51, Low: 49, Close: 50}
	}
	res, err := KDJ(bars, config.DefaultKDJParams())
	require.NoError(t, err)

	for i := range bars {
		if !approxEqual(res.K[i], 50) || !approxEqual(res.D[i], 50) || !approxEqual(res.J[i], 50) {
			t.Fatalf("index %d: K=%v D=%v J=%v, want 50", i, res.K[i], res.D[i], res.J[i])
		}
	}
	assert.False(t, res.RSV.Defined(7))
	assert.Equal(t, 50.0, res.RSV[8])
}

func TestKDJ_ZeroRange(t *testing.T) {
	bars := closesToBars(10, 10, 10, 10)
	res, err := KDJ(bars, config.KDJParams{Period: 2, KSmoothing: 3, DSmoothing: 3, Overbought: 80, Oversold: 20})
	require.NoError(t, err)
	for i := 1; i < len(bars); i++ {
		assert.Equal(t, 50.0, res.RSV[i])
	}
}

func TestKDJ_HandComputed(t *testing.T) {
	bars := []core.Bar{
		{High: 10, Low: 5, Close: 7},
		{High: 12, Low: 6, Close: 11},
		{High: 14, Low: 5, Close: 13},
		{High: 15, Low: 9, Close: 10},
	}
	params := config.KDJParams{Period: 3, KSmoothing: 3, DSmoothing: 3, Overbought: 80, Oversold: 20}
	res, err := KDJ(bars, params)
	require.NoError(t, err)

	assert.False(t, res.RSV.Defined(1))
	for i := 0; i < 2; i++ {
		assert.Equal(t, 50.0, res.K[i])
		assert.Equal(t, 50.0, res.D[i])
		assert.Equal(t, 50.0, res.J[i])
	}

	rsv2 := (13.0 - 5) / (14 - 5) * 100
	k2 := (2*50 + rsv2) / 3
	d2 := (2*50 + k2) / 3
	rsv3 := (10.0 - 5) / (15 - 5) * 100
	k3 := (2*k2 + rsv3) / 3
	d3 := (2*d2 + k3) / 3

	checks := []struct {
		name      string
		got, want float64
	}{
		{"RSV[2]", res.RSV[2], rsv2},
		{"K[2]", res.K[2], k2},
		{"D[2]", res.D[2], d2},
		{"J[2]", res.J[2], 3*k2 - 2*d2},
		{"RSV[3]", res.RSV[3], rsv3},
		{"K[3]", res.K[3], k3},
		{"D[3]", res.D[3], d3},
		{"J[3]", res.J[3], 3*k3 - 2*d3},
	}
	for _, c := range checks {
		if !approxEqual(c.got, c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestKDJ_CustomSmoothing(t *testing.T) {
	bars := noisyBars(60)
	fast, err := KDJ(bars, config.KDJParams{Period: 9, KSmoothing: 1, DSmoothing: 1, Overbought: 80, Oversold: 20})
	require.NoError(t, err)

	// With m1 = m2 = 1 the lines collapse onto RSV.
	for i := 8; i < len(bars); i++ {
		if !approxEqual(fast.K[i], fast.RSV[i]) || !approxEqual(fast.D[i], fast.RSV[i]) {
			t.Fatalf("index %d: K=%v D=%v RSV=%v", i, fast.K[i], fast.D[i], fast.RSV[i])
		}
	}
}

func TestKDJ_RSVWithinRange(t *testing.T) {
	res, err := KDJ(noisyBars(300), config.DefaultKDJParams())
	require.NoError(t, err)
	for i := 8; i < len(res.RSV); i++ {
		assert.GreaterOrEqual(t, res.RSV[i], 0.0)
		assert.LessOrEqual(t, res.RSV[i], 100.0)
	}
}

func TestKDJ_Errors(t *testing.T) {
	_, err := KDJ(nil, config.DefaultKDJParams())
	assert.True(t, errors.Is(err, core.ErrNoBars))

	p := config.DefaultKDJParams()
	p.KSmoothing = -1
	_, err = KDJ(closesToBars(1, 2, 3), p)
	assert.True(t, errors.Is(err, core.ErrInvalidPeriod))

	bad := []core.Bar{{High: 1, Low: 2, Close: 1.5}}
	_, err = KDJ(bad, config.DefaultKDJParams())
	assert.True(t, errors.Is(err, core.ErrInvalidBar))
}

func TestKDJ_PeriodOnlyParams(t *testing.T) {
	bars := noisyBars(40)
	got, err := KDJ(bars, config.KDJParams{Period: 9})
	require.NoError(t, err)
	want, err := KDJ(bars, config.DefaultKDJParams())
	require.NoError(t, err)
	for i := range bars {
		if !approxEqual(got.K[i], want.K[i]) || !approxEqual(got.D[i], want.D[i]) || !approxEqual(got.J[i], want.J[i]) {
			t.Fatalf("index %d: got K=%v D=%v J=%v, want K=%v D=%v J=%v",
				i, got.K[i], got.D[i], got.J[i], want.K[i], want.D[i], want.J[i])
		}
	}
	assert.Equal(t, ZoneOverbought, KDJZone(85, config.KDJParams{Period: 9}))
}

func TestKDJ_ExtremeRangeIsNeutral(t *testing.T) {
	bars := []core.Bar{
		{Time: 1, Open: 0, High: math.MaxFloat64, Low: -math.MaxFloat64, Close: 0},
		{Time: 2, Open: 0, High: math.MaxFloat64, Low: -math.MaxFloat64, Close: 0},
	}
	res, err := KDJ(bars, config.KDJParams{Period: 2})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.RSV[1])
	assert.Equal(t, 50.0, res.K[1])
}

func TestKDJZone(t *testing.T) {
	p := config.DefaultKDJParams()
	assert.Equal(t, ZoneOverbought, KDJZone(85, p))
	assert.Equal(t, ZoneOversold, KDJZone(15, p))
	assert.Equal(t, ZoneNeutral, KDJZone(50, p))
}
