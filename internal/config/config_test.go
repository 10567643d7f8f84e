package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
log_level = "debug"

[engine]
symbol = "ETH/USDT"
interval = "500ms"

[risk]
max_capital_per_trade = 5000.0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "ETH/USDT", cfg.Engine.Symbol)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.Interval.Duration)
	assert.Equal(t, 5000.0, cfg.Risk.MaxCapitalPerTrade)

	// Untouched fields keep their defaults.
	assert.Equal(t, 10, cfg.Engine.ReportEvery)
	assert.Equal(t, 0.015, cfg.Risk.TakeProfit)
	assert.Equal(t, "executed_trades.csv", cfg.History.CSVPath)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPDE_ENGINE_SYMBOL", "SOL/USDT")
	t.Setenv("SPDE_ENGINE_INTERVAL", "1s")
	t.Setenv("SPDE_RISK_MIN_PROFIT_PCT", "0.25")
	t.Setenv("SPDE_REDIS_ENABLED", "true")
	t.Setenv("SPDE_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, "SOL/USDT", cfg.Engine.Symbol)
	assert.Equal(t, time.Second, cfg.Engine.Interval.Duration)
	assert.Equal(t, 0.25, cfg.Risk.MinProfitPct)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.Engine.Interval.Duration = 0
	cfg.Risk.StopLoss = 0
	cfg.Venues.OKX.Symbol = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "interval must be positive")
	assert.Contains(t, err.Error(), "stop_loss")
	assert.Contains(t, err.Error(), "venues.okx")
}
