package options

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackScholesKnownValue(t *testing.T) {
	// Classic textbook point: S=100, K=100, T=1, r=5%, sigma=20%.
	call := BlackScholesPrice(Call, 100, 100, 1, 0.05, 0.2)
	put := BlackScholesPrice(Put, 100, 100, 1, 0.05, 0.2)

	assert.InDelta(t, 10.4506, call, 1e-3)
	assert.InDelta(t, 5.5735, put, 1e-3)
}

func TestPutCallParity(t *testing.T) {
	S, K, T, r, sigma := 105.0, 98.0, 0.75, 0.03, 0.4
	call := BlackScholesPrice(Call, S, K, T, r, sigma)
	put := BlackScholesPrice(Put, S, K, T, r, sigma)

	assert.InDelta(t, S-K*math.Exp(-r*T), call-put, 1e-9)
}

func TestCallPriceMonotonicInVol(t *testing.T) {
	prev := 0.0
	for _, sigma := range []float64{0.1, 0.2, 0.4, 0.8, 1.6} {
		p := BlackScholesPrice(Call, 100, 110, 0.5, 0.02, sigma)
		assert.Greater(t, p, prev)
		prev = p
	}
}

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	for _, sigma := range []float64{0.15, 0.4, 0.9} {
		price := BlackScholesPrice(Call, 30000, 31000, 14.0/365.0, 0.03, sigma)
		iv := ImpliedVolatility(Call, price, 30000, 31000, 14.0/365.0, 0.03)
		assert.InDelta(t, sigma, iv, 1e-3)
	}
}

func TestImpliedVolatilityPut(t *testing.T) {
	price := BlackScholesPrice(Put, 100, 95, 0.5, 0.02, 0.35)
	iv := ImpliedVolatility(Put, price, 100, 95, 0.5, 0.02)
	assert.InDelta(t, 0.35, iv, 1e-3)
}

func TestCheckVolArb(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := VolArbConfig{
		StrikeRatio:        1.05,
		DaysToExpiry:       7,
		RiskFreeRate:       0.02,
		AssumedVol:         0.65,
		MarketOptionPrice:  150,
		MispricingAlertPct: 5,
	}

	res := CheckVolArb(30000, cfg, logger)
	require.Greater(t, res.TheoreticalPrice, 0.0)
	assert.InDelta(t, 31500, res.Strike, 1e-9)
	wantMispricing := (150 - res.TheoreticalPrice) / res.TheoreticalPrice * 100
	assert.InDelta(t, wantMispricing, res.MispricingPct, 1e-9)
	assert.Equal(t, math.Abs(res.MispricingPct) > 5, res.Signal)
}

func TestCheckVolArbZeroSpotIsNeutral(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := CheckVolArb(0, VolArbConfig{StrikeRatio: 1.05}, logger)
	assert.False(t, res.Signal)
	assert.Zero(t, res.TheoreticalPrice)
}
