package momentum

import "github.com/evdnx/tachart/config"

// Zone classifies an oscillator reading against its thresholds.
type Zone string

const (
	ZoneOverbought Zone = "overbought"
	ZoneOversold   Zone = "oversold"
	ZoneNeutral    Zone = "neutral"
)

// neutralSeed is the K/D starting value of the KDJ recurrence.
const neutralSeed = 50.0

// RSIZone classifies an RSI reading.
func RSIZone(value float64, params config.RSIParams) Zone {
	hi, lo := params.Thresholds()
	return zoneOf(value, hi, lo)
}

// KDJZone classifies a K reading.
func KDJZone(k float64, params config.KDJParams) Zone {
	hi, lo := params.Thresholds()
	return zoneOf(k, hi, lo)
}

func zoneOf(value, overbought, oversold float64) Zone {
	switch {
	case value > overbought:
		return ZoneOverbought
	case value < oversold:
		return ZoneOversold
	default:
		return ZoneNeutral
	}
}
