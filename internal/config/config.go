// Package config defines the top-level configuration for the deviation
// engine and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by SPDE_* environment variables.
type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Synthetic SyntheticConfig `toml:"synthetic"`
	Risk      RiskConfig      `toml:"risk"`
	Venues    VenuesConfig    `toml:"venues"`
	Redis     RedisConfig     `toml:"redis"`
	Server    ServerConfig    `toml:"server"`
	History   HistoryConfig   `toml:"history"`
	LogLevel  string          `toml:"log_level"`
}

// EngineConfig holds decision-loop parameters.
type EngineConfig struct {
	Symbol string `toml:"symbol"`
	// Interval is the pause between decision cycles.
	Interval duration `toml:"interval"`
	// ReportEvery is the number of cycles between periodic risk and
	// performance reports.
	ReportEvery int `toml:"report_every"`
	// MinProfitPct is the evaluation threshold, in percent, below which a
	// priced pair is not considered an opportunity at all.
	MinProfitPct float64 `toml:"min_profit_pct"`
	// MaxCapital caps the capital the leg optimizer binds to any single
	// opportunity. The risk gate applies its own, separate cap.
	MaxCapital           float64 `toml:"max_capital"`
	ZScoreThreshold      float64 `toml:"zscore_threshold"`
	CorrelationThreshold float64 `toml:"correlation_threshold"`
	// StressShockPct is the instantaneous price shock, in percent, applied
	// during periodic stress reports. Negative values model a crash.
	StressShockPct float64 `toml:"stress_shock_pct"`
}

// SyntheticConfig holds the parameters of the synthetic pricing models.
type SyntheticConfig struct {
	Leverage          float64 `toml:"leverage"`
	FundingRate       float64 `toml:"funding_rate"`
	CostOfCarry       float64 `toml:"cost_of_carry"`
	ExpiryDays        float64 `toml:"expiry_days"`
	FundingWindowDays float64 `toml:"funding_window_days"`
}

// RiskConfig holds position sizing and admission limits. StopLoss,
// TakeProfit, and RiskPerTrade are fractions (0.01 = 1%); MinProfitPct is in
// percent.
type RiskConfig struct {
	MaxCapitalPerTrade   float64 `toml:"max_capital_per_trade"`
	MinProfitPct         float64 `toml:"min_profit_pct"`
	StopLoss             float64 `toml:"stop_loss"`
	TakeProfit           float64 `toml:"take_profit"`
	RiskPerTrade         float64 `toml:"risk_per_trade"`
	ImpactAggressiveness float64 `toml:"impact_aggressiveness"`
}

// VenuesConfig holds per-exchange connection parameters.
type VenuesConfig struct {
	Binance     VenueConfig `toml:"binance"`
	BinancePerp VenueConfig `toml:"binance_perp"`
	OKX         VenueConfig `toml:"okx"`
	Bybit       VenueConfig `toml:"bybit"`
}

// VenueConfig holds the connection parameters for one exchange feed.
type VenueConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Symbol  string `toml:"symbol"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled      bool   `toml:"enabled"`
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"pool_size"`
	MaxRetries   int    `toml:"max_retries"`
	TLSEnabled   bool   `toml:"tls_enabled"`
	StreamMaxLen int64  `toml:"stream_max_len"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// HistoryConfig holds trade-history export parameters.
type HistoryConfig struct {
	CSVPath string `toml:"csv_path"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "2s", "500ms").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "2s" or "500ms".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			Symbol:               "BTC/USDT",
			Interval:             duration{2 * time.Second},
			ReportEvery:          10,
			MinProfitPct:         0.1,
			MaxCapital:           10000,
			ZScoreThreshold:      2.0,
			CorrelationThreshold: 0.85,
			StressShockPct:       -20.0,
		},
		Synthetic: SyntheticConfig{
			Leverage:          2.0,
			FundingRate:       0.0005,
			CostOfCarry:       0.05,
			ExpiryDays:        30,
			FundingWindowDays: 7,
		},
		Risk: RiskConfig{
			MaxCapitalPerTrade:   20000,
			MinProfitPct:         0.01,
			StopLoss:             0.01,
			TakeProfit:           0.015,
			RiskPerTrade:         0.01,
			ImpactAggressiveness: 0.2,
		},
		Venues: VenuesConfig{
			Binance: VenueConfig{
				Enabled: true,
				URL:     "wss://stream.binance.com:9443/ws",
				Symbol:  "btcusdt",
			},
			BinancePerp: VenueConfig{
				Enabled: true,
				URL:     "wss://fstream.binance.com/ws",
				Symbol:  "btcusdt",
			},
			OKX: VenueConfig{
				Enabled: true,
				URL:     "wss://ws.okx.com:8443/ws/v5/public",
				Symbol:  "BTC-USDT",
			},
			Bybit: VenueConfig{
				Enabled: true,
				URL:     "wss://stream.bybit.com/v5/public/spot",
				Symbol:  "BTCUSDT",
			},
		},
		Redis: RedisConfig{
			Enabled:      false,
			Addr:         "localhost:6379",
			DB:           0,
			PoolSize:     20,
			MaxRetries:   3,
			TLSEnabled:   false,
			StreamMaxLen: 10000,
		},
		Server: ServerConfig{
			Enabled: true,
			Port:    8080,
		},
		History: HistoryConfig{
			CSVPath: "executed_trades.csv",
		},
		LogLevel: "info",
	}
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Engine
	if c.Engine.Symbol == "" {
		errs = append(errs, "engine: symbol must not be empty")
	}
	if c.Engine.Interval.Duration <= 0 {
		errs = append(errs, "engine: interval must be positive")
	}
	if c.Engine.ReportEvery < 1 {
		errs = append(errs, "engine: report_every must be >= 1")
	}
	if c.Engine.MinProfitPct < 0 {
		errs = append(errs, "engine: min_profit_pct must not be negative")
	}
	if c.Engine.MaxCapital <= 0 {
		errs = append(errs, "engine: max_capital must be positive")
	}
	if c.Engine.ZScoreThreshold <= 0 {
		errs = append(errs, "engine: zscore_threshold must be positive")
	}
	if c.Engine.CorrelationThreshold <= 0 || c.Engine.CorrelationThreshold > 1 {
		errs = append(errs, fmt.Sprintf("engine: correlation_threshold must be in (0, 1], got %g", c.Engine.CorrelationThreshold))
	}

	// Synthetic
	if c.Synthetic.Leverage <= 0 {
		errs = append(errs, "synthetic: leverage must be positive")
	}
	if c.Synthetic.ExpiryDays <= 0 {
		errs = append(errs, "synthetic: expiry_days must be positive")
	}
	if c.Synthetic.FundingWindowDays <= 0 {
		errs = append(errs, "synthetic: funding_window_days must be positive")
	}

	// Risk
	if c.Risk.MaxCapitalPerTrade <= 0 {
		errs = append(errs, "risk: max_capital_per_trade must be positive")
	}
	if c.Risk.MinProfitPct < 0 {
		errs = append(errs, "risk: min_profit_pct must not be negative")
	}
	if c.Risk.StopLoss <= 0 {
		errs = append(errs, "risk: stop_loss must be positive")
	}
	if c.Risk.TakeProfit <= 0 {
		errs = append(errs, "risk: take_profit must be positive")
	}
	if c.Risk.RiskPerTrade <= 0 || c.Risk.RiskPerTrade > 1 {
		errs = append(errs, fmt.Sprintf("risk: risk_per_trade must be in (0, 1], got %g", c.Risk.RiskPerTrade))
	}
	if c.Risk.ImpactAggressiveness <= 0 {
		errs = append(errs, "risk: impact_aggressiveness must be positive")
	}

	// Every enabled feed needs an endpoint and a symbol.
	for _, v := range []struct {
		name string
		cfg  VenueConfig
	}{
		{"binance", c.Venues.Binance},
		{"binance_perp", c.Venues.BinancePerp},
		{"okx", c.Venues.OKX},
		{"bybit", c.Venues.Bybit},
	} {
		if !v.cfg.Enabled {
			continue
		}
		if v.cfg.URL == "" {
			errs = append(errs, fmt.Sprintf("venues.%s: url must not be empty", v.name))
		}
		if v.cfg.Symbol == "" {
			errs = append(errs, fmt.Sprintf("venues.%s: symbol must not be empty", v.name))
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when redis is enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
		if c.Redis.StreamMaxLen < 1 {
			errs = append(errs, "redis: stream_max_len must be >= 1")
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if c.History.CSVPath == "" {
		errs = append(errs, "history: csv_path must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
