package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/evdnx/tachart/indicator/core"
)

// -----------------------------------------------------------------------------
// Exported defaults (magic numbers made visible)
// -----------------------------------------------------------------------------
const (
	DefaultMAPeriod = 20

	DefaultEMAPeriod = 20

	DefaultRSIPeriod     = 14
	DefaultRSIOverbought = 70.0
	DefaultRSIOversold   = 30.0

	DefaultMACDShort  = 12
	DefaultMACDLong   = 26
	DefaultMACDSignal = 9

	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0

	DefaultKDJPeriod     = 9
	DefaultKDJSmoothing  = 3
	DefaultKDJOverbought = 80.0
	DefaultKDJOversold   = 20.0

	// maxReasonablePeriod catches values that wrapped around or were typed
	// with too many zeros.
	maxReasonablePeriod = 1_000_000
)

// SeedPolicy selects how a recursive average is initialised.
type SeedPolicy string

const (
	// SeedSMA seeds with the simple average of the first observations.
	SeedSMA SeedPolicy = "sma"
	// SeedFirstValue reproduces the dashboard's legacy numbers: the
	// accumulator starts at the first observation (EMA) or at the raw
	// accumulated sums (RSI).
	SeedFirstValue SeedPolicy = "first_value"
)

// ParseSeedPolicy accepts the policy names case-insensitively; an empty
// string selects SeedSMA.
func ParseSeedPolicy(s string) (SeedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SeedSMA):
		return SeedSMA, nil
	case string(SeedFirstValue), "legacy":
		return SeedFirstValue, nil
	default:
		return "", fmt.Errorf("%w: unknown seed policy %q", core.ErrInvalidParams, s)
	}
}

func (p SeedPolicy) validate(name string) error {
	switch p {
	case SeedSMA, SeedFirstValue, "":
		return nil
	default:
		return fmt.Errorf("%s: %w: unknown seed policy %q", name, core.ErrInvalidParams, string(p))
	}
}

func validatePeriod(name string, period int) error {
	if err := core.ValidatePeriod(name, period); err != nil {
		return err
	}
	if period > maxReasonablePeriod {
		return fmt.Errorf("%s: %w: period %d is unreasonably large (must be <= %d)",
			name, core.ErrInvalidPeriod, period, maxReasonablePeriod)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Per-indicator parameter sets
// -----------------------------------------------------------------------------

// MAParams configures the simple moving average.
type MAParams struct {
	Period int `json:"period"`
}

func (p MAParams) Validate() error { return validatePeriod("ma period", p.Period) }

// EMAParams configures the exponential moving average.
type EMAParams struct {
	Period int        `json:"period"`
	Seed   SeedPolicy `json:"seed,omitempty"`
}

func (p EMAParams) Validate() error {
	if err := validatePeriod("ema period", p.Period); err != nil {
		return err
	}
	return p.Seed.validate("ema")
}

// RSIParams configures the relative strength index. Overbought/Oversold are
// only used to classify values, never to compute them; leaving both at zero
// selects 70/30.
type RSIParams struct {
	Period     int        `json:"period"`
	Seed       SeedPolicy `json:"seed,omitempty"`
	Overbought float64    `json:"overbought"`
	Oversold   float64    `json:"oversold"`
}

func (p RSIParams) Validate() error {
	if err := validatePeriod("rsi period", p.Period); err != nil {
		return err
	}
	return p.Seed.validate("rsi")
}

// Thresholds returns the zone boundaries, falling back to the defaults when
// neither is set.
func (p RSIParams) Thresholds() (overbought, oversold float64) {
	if p.Overbought == 0 && p.Oversold == 0 {
		return DefaultRSIOverbought, DefaultRSIOversold
	}
	return p.Overbought, p.Oversold
}

// ValidateThresholds checks the zone boundaries. It is not part of Validate
// because RSI values do not depend on them.
func (p RSIParams) ValidateThresholds() error {
	hi, lo := p.Thresholds()
	if hi <= lo || hi > 100 || lo < 0 {
		return fmt.Errorf("rsi: %w: thresholds must satisfy 0 <= oversold (%g) < overbought (%g) <= 100",
			core.ErrInvalidParams, lo, hi)
	}
	return nil
}

// MACDParams configures MACD. Short >= Long is accepted; DIF simply changes
// sign.
type MACDParams struct {
	Short  int        `json:"short"`
	Long   int        `json:"long"`
	Signal int        `json:"signal"`
	Seed   SeedPolicy `json:"seed,omitempty"`
}

func (p MACDParams) Validate() error {
	if err := validatePeriod("macd short", p.Short); err != nil {
		return err
	}
	if err := validatePeriod("macd long", p.Long); err != nil {
		return err
	}
	if err := validatePeriod("macd signal", p.Signal); err != nil {
		return err
	}
	return p.Seed.validate("macd")
}

// BollingerParams configures Bollinger Bands. A negative multiplier is
// accepted and swaps the upper and lower band.
type BollingerParams struct {
	Period     int     `json:"period"`
	Multiplier float64 `json:"multiplier"`
}

func (p BollingerParams) Validate() error {
	if err := validatePeriod("bollinger period", p.Period); err != nil {
		return err
	}
	if math.IsNaN(p.Multiplier) || math.IsInf(p.Multiplier, 0) {
		return fmt.Errorf("bollinger: %w: multiplier must be finite, got %v",
			core.ErrInvalidParams, p.Multiplier)
	}
	return nil
}

// KDJParams configures the KDJ stochastic oscillator. KSmoothing and
// DSmoothing are the M1/M2 divisors of the K and D recurrences; zero selects
// DefaultKDJSmoothing. Overbought/Oversold only classify K, zero for both
// selects 80/20.
type KDJParams struct {
	Period     int     `json:"period"`
	KSmoothing int     `json:"k_smoothing"`
	DSmoothing int     `json:"d_smoothing"`
	Overbought float64 `json:"overbought"`
	Oversold   float64 `json:"oversold"`
}

func (p KDJParams) Validate() error {
	if err := validatePeriod("kdj period", p.Period); err != nil {
		return err
	}
	m1, m2 := p.Smoothing()
	if err := validatePeriod("kdj k smoothing", m1); err != nil {
		return err
	}
	return validatePeriod("kdj d smoothing", m2)
}

// Smoothing returns the effective M1/M2 divisors.
func (p KDJParams) Smoothing() (m1, m2 int) {
	m1, m2 = p.KSmoothing, p.DSmoothing
	if m1 == 0 {
		m1 = DefaultKDJSmoothing
	}
	if m2 == 0 {
		m2 = DefaultKDJSmoothing
	}
	return m1, m2
}

// Thresholds returns the K zone boundaries, falling back to the defaults when
// neither is set.
func (p KDJParams) Thresholds() (overbought, oversold float64) {
	if p.Overbought == 0 && p.Oversold == 0 {
		return DefaultKDJOverbought, DefaultKDJOversold
	}
	return p.Overbought, p.Oversold
}

// ValidateThresholds checks the zone boundaries. K can leave [0, 100], so
// only their order is enforced.
func (p KDJParams) ValidateThresholds() error {
	if hi, lo := p.Thresholds(); hi <= lo {
		return fmt.Errorf("kdj: %w: overbought (%g) must be greater than oversold (%g)",
			core.ErrInvalidParams, hi, lo)
	}
	return nil
}

// -----------------------------------------------------------------------------
// ChartConfig – central place for all tunable parameters
// -----------------------------------------------------------------------------

type ChartConfig struct {
	MA        MAParams        `json:"ma"`
	EMA       EMAParams       `json:"ema"`
	RSI       RSIParams       `json:"rsi"`
	MACD      MACDParams      `json:"macd"`
	Bollinger BollingerParams `json:"bollinger"`
	KDJ       KDJParams       `json:"kdj"`
}

func DefaultMAParams() MAParams { return MAParams{Period: DefaultMAPeriod} }

func DefaultEMAParams() EMAParams { return EMAParams{Period: DefaultEMAPeriod, Seed: SeedSMA} }

func DefaultRSIParams() RSIParams {
	return RSIParams{
		Period:     DefaultRSIPeriod,
		Seed:       SeedSMA,
		Overbought: DefaultRSIOverbought,
		Oversold:   DefaultRSIOversold,
	}
}

func DefaultMACDParams() MACDParams {
	return MACDParams{
		Short:  DefaultMACDShort,
		Long:   DefaultMACDLong,
		Signal: DefaultMACDSignal,
		Seed:   SeedSMA,
	}
}

func DefaultBollingerParams() BollingerParams {
	return BollingerParams{Period: DefaultBollingerPeriod, Multiplier: DefaultBollingerMultiplier}
}

func DefaultKDJParams() KDJParams {
	return KDJParams{
		Period:     DefaultKDJPeriod,
		KSmoothing: DefaultKDJSmoothing,
		DSmoothing: DefaultKDJSmoothing,
		Overbought: DefaultKDJOverbought,
		Oversold:   DefaultKDJOversold,
	}
}

// DefaultConfig returns a sensible set of defaults for every indicator.
func DefaultConfig() ChartConfig {
	return ChartConfig{
		MA:        DefaultMAParams(),
		EMA:       DefaultEMAParams(),
		RSI:       DefaultRSIParams(),
		MACD:      DefaultMACDParams(),
		Bollinger: DefaultBollingerParams(),
		KDJ:       DefaultKDJParams(),
	}
}

// Validate checks every parameter set and reports all violations at once.
func (c ChartConfig) Validate() error {
	return errors.Join(
		c.MA.Validate(),
		c.EMA.Validate(),
		c.RSI.Validate(),
		c.RSI.ValidateThresholds(),
		c.MACD.Validate(),
		c.Bollinger.Validate(),
		c.KDJ.Validate(),
		c.KDJ.ValidateThresholds(),
	)
}
