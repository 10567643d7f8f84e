package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SPDE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SPDE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators adjust engine parameters at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Engine ──
	setStr(&cfg.Engine.Symbol, "SPDE_ENGINE_SYMBOL")
	setDuration(&cfg.Engine.Interval, "SPDE_ENGINE_INTERVAL")
	setInt(&cfg.Engine.ReportEvery, "SPDE_ENGINE_REPORT_EVERY")
	setFloat64(&cfg.Engine.MinProfitPct, "SPDE_ENGINE_MIN_PROFIT_PCT")
	setFloat64(&cfg.Engine.MaxCapital, "SPDE_ENGINE_MAX_CAPITAL")
	setFloat64(&cfg.Engine.ZScoreThreshold, "SPDE_ENGINE_ZSCORE_THRESHOLD")
	setFloat64(&cfg.Engine.CorrelationThreshold, "SPDE_ENGINE_CORRELATION_THRESHOLD")
	setFloat64(&cfg.Engine.StressShockPct, "SPDE_ENGINE_STRESS_SHOCK_PCT")

	// ── Synthetic ──
	setFloat64(&cfg.Synthetic.Leverage, "SPDE_SYNTHETIC_LEVERAGE")
	setFloat64(&cfg.Synthetic.FundingRate, "SPDE_SYNTHETIC_FUNDING_RATE")
	setFloat64(&cfg.Synthetic.CostOfCarry, "SPDE_SYNTHETIC_COST_OF_CARRY")
	setFloat64(&cfg.Synthetic.ExpiryDays, "SPDE_SYNTHETIC_EXPIRY_DAYS")
	setFloat64(&cfg.Synthetic.FundingWindowDays, "SPDE_SYNTHETIC_FUNDING_WINDOW_DAYS")

	// ── Risk ──
	setFloat64(&cfg.Risk.MaxCapitalPerTrade, "SPDE_RISK_MAX_CAPITAL_PER_TRADE")
	setFloat64(&cfg.Risk.MinProfitPct, "SPDE_RISK_MIN_PROFIT_PCT")
	setFloat64(&cfg.Risk.StopLoss, "SPDE_RISK_STOP_LOSS")
	setFloat64(&cfg.Risk.TakeProfit, "SPDE_RISK_TAKE_PROFIT")
	setFloat64(&cfg.Risk.RiskPerTrade, "SPDE_RISK_RISK_PER_TRADE")
	setFloat64(&cfg.Risk.ImpactAggressiveness, "SPDE_RISK_IMPACT_AGGRESSIVENESS")

	// ── Venues ──
	setBool(&cfg.Venues.Binance.Enabled, "SPDE_VENUES_BINANCE_ENABLED")
	setStr(&cfg.Venues.Binance.URL, "SPDE_VENUES_BINANCE_URL")
	setStr(&cfg.Venues.Binance.Symbol, "SPDE_VENUES_BINANCE_SYMBOL")
	setBool(&cfg.Venues.BinancePerp.Enabled, "SPDE_VENUES_BINANCE_PERP_ENABLED")
	setStr(&cfg.Venues.BinancePerp.URL, "SPDE_VENUES_BINANCE_PERP_URL")
	setStr(&cfg.Venues.BinancePerp.Symbol, "SPDE_VENUES_BINANCE_PERP_SYMBOL")
	setBool(&cfg.Venues.OKX.Enabled, "SPDE_VENUES_OKX_ENABLED")
	setStr(&cfg.Venues.OKX.URL, "SPDE_VENUES_OKX_URL")
	setStr(&cfg.Venues.OKX.Symbol, "SPDE_VENUES_OKX_SYMBOL")
	setBool(&cfg.Venues.Bybit.Enabled, "SPDE_VENUES_BYBIT_ENABLED")
	setStr(&cfg.Venues.Bybit.URL, "SPDE_VENUES_BYBIT_URL")
	setStr(&cfg.Venues.Bybit.Symbol, "SPDE_VENUES_BYBIT_SYMBOL")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "SPDE_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "SPDE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SPDE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SPDE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SPDE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "SPDE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "SPDE_REDIS_TLS_ENABLED")
	setInt64(&cfg.Redis.StreamMaxLen, "SPDE_REDIS_STREAM_MAX_LEN")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "SPDE_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "SPDE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "SPDE_SERVER_CORS_ORIGINS")

	// ── History ──
	setStr(&cfg.History.CSVPath, "SPDE_HISTORY_CSV_PATH")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "SPDE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
