package core

import (
	"errors"
	"fmt"
	"math"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	ErrNoBars        = errors.New("no bars supplied")
	ErrInvalidPeriod = errors.New("period must be at least 1")
	ErrInvalidParams = errors.New("invalid indicator parameters")
	ErrInvalidBar    = errors.New("invalid bar")
	ErrInvalidValue  = errors.New("invalid value in series")
)

// -----------------------------------------------------------------------------
// Bars
// -----------------------------------------------------------------------------

// Bar is one time step of market data. Time is an opaque sortable key; the
// tooling in this module uses unix milliseconds.
type Bar struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume,omitempty"`
}

// ValidateBars checks that bars is non-empty and every bar carries finite
// prices with High >= Low.
func ValidateBars(bars []Bar) error {
	if len(bars) == 0 {
		return ErrNoBars
	}
	for i, b := range bars {
		if !isFinite(b.Open) || !isFinite(b.High) || !isFinite(b.Low) || !isFinite(b.Close) {
			return fmt.Errorf("%w at index %d: non-finite price", ErrInvalidBar, i)
		}
		if b.High < b.Low {
			return fmt.Errorf("%w at index %d: high %.8g < low %.8g", ErrInvalidBar, i, b.High, b.Low)
		}
		if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
			return fmt.Errorf("%w at index %d: volume %v", ErrInvalidBar, i, b.Volume)
		}
	}
	return nil
}

// ValidatePeriod rejects non-positive periods.
func ValidatePeriod(name string, period int) error {
	if period < 1 {
		return fmt.Errorf("%s: %w, got %d", name, ErrInvalidPeriod, period)
	}
	return nil
}

// Closes extracts the close prices.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Timestamps extracts the bar time keys.
func Timestamps(bars []Bar) []int64 {
	out := make([]int64, len(bars))
	for i, b := range bars {
		out[i] = b.Time
	}
	return out
}

// FromCloses builds bars whose open/high/low equal the close, spaced interval
// apart from startTime. Handy for close-only series.
func FromCloses(closes []float64, startTime, interval int64) []Bar {
	ts := GenerateTimestamps(startTime, len(closes), interval)
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{Time: ts[i], Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

// -----------------------------------------------------------------------------
// Numeric helpers
// -----------------------------------------------------------------------------

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool { return isFinite(v) }

// Clamp restricts value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Mean returns the arithmetic mean of data (0 for an empty slice).
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// PopulationStdDev computes sqrt(sum((x-mean)^2)/n) around the supplied mean.
func PopulationStdDev(data []float64, mean float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range data {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(data)))
}

// WindowHighLow returns the highest High and lowest Low of bars[start:end].
func WindowHighLow(bars []Bar, start, end int) (float64, float64) {
	highest := bars[start].High
	lowest := bars[start].Low
	for i := start + 1; i < end; i++ {
		if bars[i].High > highest {
			highest = bars[i].High
		}
		if bars[i].Low < lowest {
			lowest = bars[i].Low
		}
	}
	return highest, lowest
}

// KeepLast returns the last n elements of a slice (or the whole slice if it is
// shorter).
func KeepLast[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

func copySlice(src []float64) []float64 {
	if src == nil {
		return nil
	}
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
