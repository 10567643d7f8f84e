package options

import "log/slog"

// VolArbConfig parameterizes the volatility-arbitrage check. The option
// quote is a stand-in until an options feed is wired; strike and expiry are
// derived from the live spot.
type VolArbConfig struct {
	// StrikeRatio places the strike relative to spot (1.05 = 5% OTM).
	StrikeRatio float64
	// DaysToExpiry of the probe option.
	DaysToExpiry float64
	// RiskFreeRate, annualized.
	RiskFreeRate float64
	// AssumedVol is the volatility used for the theoretical price.
	AssumedVol float64
	// MarketOptionPrice is the quoted option price to compare against.
	MarketOptionPrice float64
	// MispricingAlertPct triggers the alert when |mispricing| exceeds it.
	MispricingAlertPct float64
}

// VolArbResult is the outcome of one volatility-arbitrage check.
type VolArbResult struct {
	SpotPrice        float64
	Strike           float64
	TheoreticalPrice float64
	MarketPrice      float64
	ImpliedVol       float64
	MispricingPct    float64
	Signal           bool
}

// CheckVolArb compares a market option quote against its Black-Scholes
// theoretical price on the given spot and reports the mispricing percentage
// and implied volatility. It is a log-only secondary signal; nothing is
// executed from it.
func CheckVolArb(spotMid float64, cfg VolArbConfig, logger *slog.Logger) VolArbResult {
	res := VolArbResult{SpotPrice: spotMid}
	if spotMid <= 0 {
		return res
	}

	res.Strike = spotMid * cfg.StrikeRatio
	T := cfg.DaysToExpiry / 365.0

	res.TheoreticalPrice = BlackScholesPrice(Call, spotMid, res.Strike, T, cfg.RiskFreeRate, cfg.AssumedVol)
	res.MarketPrice = cfg.MarketOptionPrice
	res.ImpliedVol = ImpliedVolatility(Call, cfg.MarketOptionPrice, spotMid, res.Strike, T, cfg.RiskFreeRate)

	if res.TheoreticalPrice > 0 {
		res.MispricingPct = (res.MarketPrice - res.TheoreticalPrice) / res.TheoreticalPrice * 100
	}
	res.Signal = res.MispricingPct > cfg.MispricingAlertPct || res.MispricingPct < -cfg.MispricingAlertPct

	if res.Signal {
		logger.Info("volatility arbitrage signal",
			slog.Float64("spot", res.SpotPrice),
			slog.Float64("strike", res.Strike),
			slog.Float64("theoretical", res.TheoreticalPrice),
			slog.Float64("market", res.MarketPrice),
			slog.Float64("implied_vol", res.ImpliedVol),
			slog.Float64("mispricing_pct", res.MispricingPct),
		)
	}
	return res
}
