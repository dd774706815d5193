package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment key read by LoadEnv.
const EnvPrefix = "TACHART_"

// Preset backends understood by the CLI.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Settings is the runtime configuration of the tachart tooling: indicator
// defaults plus the knobs of the surrounding process.
type Settings struct {
	Chart ChartConfig

	LogLevel    string
	MetricsAddr string

	PresetBackend string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BinanceAPIKey    string
	BinanceSecretKey string
	BinanceTestnet   bool
}

// LoadEnv loads settings from the environment. Files are read with godotenv
// first; when none are given a local .env is tried and silently skipped if
// absent. Variables already set in the process win over file values.
func LoadEnv(files ...string) (*Settings, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	s := &Settings{Chart: DefaultConfig()}
	var errs []string
	intVar := func(key string, dst *int) {
		v, err := getEnvAsIntRequired(key, *dst)
		if err != nil {
			errs = append(errs, err.Error())
			return
		}
		*dst = v
	}
	floatVar := func(key string, dst *float64) {
		v, err := getEnvAsFloatRequired(key, *dst)
		if err != nil {
			errs = append(errs, err.Error())
			return
		}
		*dst = v
	}
	seedVar := func(key string, dst *SeedPolicy) {
		raw := getEnv(key, "")
		if raw == "" {
			return
		}
		p, err := ParseSeedPolicy(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s%s: %v", EnvPrefix, key, err))
			return
		}
		*dst = p
	}

	// Indicators
	intVar("MA_PERIOD", &s.Chart.MA.Period)
	intVar("EMA_PERIOD", &s.Chart.EMA.Period)
	seedVar("EMA_SEED", &s.Chart.EMA.Seed)
	intVar("RSI_PERIOD", &s.Chart.RSI.Period)
	seedVar("RSI_SEED", &s.Chart.RSI.Seed)
	floatVar("RSI_OVERBOUGHT", &s.Chart.RSI.Overbought)
	floatVar("RSI_OVERSOLD", &s.Chart.RSI.Oversold)
	intVar("MACD_SHORT", &s.Chart.MACD.Short)
	intVar("MACD_LONG", &s.Chart.MACD.Long)
	intVar("MACD_SIGNAL", &s.Chart.MACD.Signal)
	seedVar("MACD_SEED", &s.Chart.MACD.Seed)
	intVar("BOLL_PERIOD", &s.Chart.Bollinger.Period)
	floatVar("BOLL_MULTIPLIER", &s.Chart.Bollinger.Multiplier)
	intVar("KDJ_PERIOD", &s.Chart.KDJ.Period)
	intVar("KDJ_K_SMOOTHING", &s.Chart.KDJ.KSmoothing)
	intVar("KDJ_D_SMOOTHING", &s.Chart.KDJ.DSmoothing)

	// Process
	s.LogLevel = getEnv("LOG_LEVEL", "INFO")
	s.MetricsAddr = getEnv("METRICS_ADDR", "")

	s.PresetBackend = strings.ToLower(getEnv("PRESET_BACKEND", BackendMemory))
	switch s.PresetBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		errs = append(errs, fmt.Sprintf("%sPRESET_BACKEND must be one of memory|sqlite|redis, got %q", EnvPrefix, s.PresetBackend))
	}
	s.SQLitePath = getEnv("SQLITE_PATH", "./data/tachart.db")
	s.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	s.RedisPassword = getEnv("REDIS_PASSWORD", "")
	intVar("REDIS_DB", &s.RedisDB)

	s.BinanceAPIKey = getEnv("BINANCE_API_KEY", "")
	s.BinanceSecretKey = getEnv("BINANCE_API_SECRET", "")
	s.BinanceTestnet = getEnvAsBool("BINANCE_TESTNET", false)

	if err := s.Chart.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return s, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s%s: %w", valueStr, EnvPrefix, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s%s: %w", valueStr, EnvPrefix, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
