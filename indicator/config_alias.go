package indicator

import "github.com/evdnx/tachart/config"

// Re-export config types so chart code only needs one import.
type (
	ChartConfig     = config.ChartConfig
	SeedPolicy      = config.SeedPolicy
	MAParams        = config.MAParams
	EMAParams       = config.EMAParams
	RSIParams       = config.RSIParams
	MACDParams      = config.MACDParams
	BollingerParams = config.BollingerParams
	KDJParams       = config.KDJParams
)

const (
	SeedSMA        = config.SeedSMA
	SeedFirstValue = config.SeedFirstValue
)

func DefaultConfig() ChartConfig {
	return config.DefaultConfig()
}
