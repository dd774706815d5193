package momentum

import (
	"testing"

	"github.com/evdnx/tachart/config"
)

func BenchmarkRSI_10k(b *testing.B) {
	bars := noisyBars(10_000)
	params := config.DefaultRSIParams()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := RSI(bars, params); err != nil {
			b.Fatalf("RSI failed: %v", err)
		}
	}
}

func BenchmarkMACD_10k(b *testing.B) {
	bars := noisyBars(10_000)
	params := config.DefaultMACDParams()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := MACD(bars, params); err != nil {
			b.Fatalf("MACD failed: %v", err)
		}
	}
}

func BenchmarkKDJ_10k(b *testing.B) {
	bars := noisyBars(10_000)
	params := config.DefaultKDJParams()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := KDJ(bars, params); err != nil {
			b.Fatalf("KDJ failed: %v", err)
		}
	}
}
