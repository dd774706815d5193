package barsio

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evdnx/tachart/indicator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_HeaderDriven(t *testing.T) {
	in := `Timestamp,Close,Open,High,Low,Vol
2024-01-02T00:00:00Z,101,100,102,99,10
2024-01-01T00:00:00Z,100,99,101,98,12
`
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	// Sorted by time.
	assert.Equal(t, int64(1704067200000), bars[0].Time)
	assert.Equal(t, core.Bar{Time: 1704153600000, Open: 100, High: 102, Low: 99, Close: 101, Volume: 10}, bars[1])
}

func TestReadCSV_UnixTimesAndOptionalVolume(t *testing.T) {
	in := "time,open,high,low,close\n1700000000,1,2,0.5,1.5\n1700000060000,1.5,2,1,1.8\n\n"
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, int64(1_700_000_000_000), bars[0].Time)
	assert.Equal(t, int64(1_700_000_060_000), bars[1].Time)
	assert.Zero(t, bars[0].Volume)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.True(t, errors.Is(err, core.ErrNoBars))

	_, err = ReadCSV(strings.NewReader("time,open,high,low,close\n"))
	assert.True(t, errors.Is(err, core.ErrNoBars))

	_, err = ReadCSV(strings.NewReader("time,open,high,close\n1,1,1,1\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = ReadCSV(strings.NewReader("time,open,high,low,close\n1,1,1,x,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "bad low")

	_, err = ReadCSV(strings.NewReader("time,open,high,low,close\nyesterday,1,1,1,1\n"))
	assert.Contains(t, err.Error(), "bad time")
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	bars := []core.Bar{
		{Time: 1_700_000_000_000, Open: 1.25, High: 2, Low: 1, Close: 1.75, Volume: 300},
		{Time: 1_700_000_060_000, Open: 1.75, High: 1.9, Low: 1.5, Close: 1.6},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, bars))
	assert.True(t, strings.HasPrefix(buf.String(), "time,open,high,low,close,volume\n"))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, bars, got)
}

func TestSaveAndLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	bars := core.FromCloses([]float64{10, 11, 12}, 1_700_000_000_000, 60_000)
	require.NoError(t, SaveCSV(path, bars))

	got, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, bars, got)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	cases := map[string]int64{
		"1700000000":           1_700_000_000_000,
		"1700000000123":        1_700_000_000_123,
		"2023-11-14T22:13:20Z": 1_700_000_000_000,
	}
	for in, want := range cases {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
