package domain

import (
	"fmt"
	"time"
)

// ArbitrageOpportunity is a fully-priced candidate arbitrage: a long leg on
// the cheaper venue and a short leg on the richer one. An opportunity with an
// empty LongVenue is the canonical "no opportunity found" sentinel.
type ArbitrageOpportunity struct {
	ID         string
	Symbol     string
	Strategy   string
	LongVenue  string
	ShortVenue string
	LongPrice  float64
	ShortPrice float64
	// ProfitPct is always (short-long)/long * 100 with the long leg on the
	// cheaper side.
	ProfitPct float64
	// Capital is the bound computed by the leg optimizer, never above the
	// configured per-trade maximum.
	Capital    float64
	LongBook   OrderBookSnapshot
	ShortBook  OrderBookSnapshot
	DetectedAt time.Time
}

// IsZero reports whether the opportunity is the no-opportunity sentinel.
func (o ArbitrageOpportunity) IsZero() bool {
	return o.LongVenue == ""
}

// Describe renders a one-line human-readable summary for logs and the API.
func (o ArbitrageOpportunity) Describe() string {
	return fmt.Sprintf("[%s] buy %s at %.4f, sell %s at %.4f, profit %.4f%%, capital %.2f (%s)",
		o.Symbol, o.LongVenue, o.LongPrice, o.ShortVenue, o.ShortPrice, o.ProfitPct, o.Capital, o.Strategy)
}

// ExecutedTrade records one simulated fill pair. Trades are append-only and
// immutable once created.
type ExecutedTrade struct {
	ID          string
	Symbol      string
	Strategy    string
	BuyVenue    string
	SellVenue   string
	BuyPrice    float64
	SellPrice   float64
	CapitalUsed float64
	Profit      float64
	ExecutedAt  time.Time
}

// RiskLimits are the read-only risk thresholds for a run.
type RiskLimits struct {
	// MaxCapitalPerTrade caps the capital bound to any single opportunity.
	MaxCapitalPerTrade float64
	// MinProfitPct is the floor on |profit %| for admission.
	MinProfitPct float64
	// StopLossPct and TakeProfitPct are fractional thresholds on signed
	// price change (0.01 = 1%).
	StopLossPct   float64
	TakeProfitPct float64
	// RiskPerTrade is the fraction of capital risked per trade.
	RiskPerTrade float64
}
