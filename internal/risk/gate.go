// Package risk holds the pre-trade risk gate, position sizing, the
// historical-simulation VaR estimator, and the stress-shock helper.
package risk

import (
	"log/slog"
	"math"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// LiquidityChecker reports whether a book can absorb the given capital.
// Implemented by signal.LiquidityAnalyzer.
type LiquidityChecker interface {
	IsSufficient(book domain.OrderBookSnapshot, capital float64) bool
}

// Gate admits or rejects priced opportunities against liquidity, capital-cap,
// and minimum-profit constraints.
type Gate struct {
	liquidity LiquidityChecker
	limits    domain.RiskLimits
	logger    *slog.Logger
}

// NewGate creates a Gate with the given limits.
func NewGate(liquidity LiquidityChecker, limits domain.RiskLimits, logger *slog.Logger) *Gate {
	return &Gate{
		liquidity: liquidity,
		limits:    limits,
		logger:    logger.With(slog.String("component", "risk_gate")),
	}
}

// IsAcceptable runs the admission checks in order, short-circuiting on the
// first failure. Each rejection is terminal for the opportunity in this
// cycle; the outcome is a decision, not an error.
func (g *Gate) IsAcceptable(opp domain.ArbitrageOpportunity, refBook domain.OrderBookSnapshot) bool {
	if !g.liquidity.IsSufficient(refBook, opp.Capital) {
		g.logger.Info("rejected: insufficient liquidity",
			slog.String("opp_id", opp.ID),
			slog.String("symbol", opp.Symbol),
			slog.Float64("capital", opp.Capital),
		)
		return false
	}

	if opp.Capital > g.limits.MaxCapitalPerTrade {
		g.logger.Info("rejected: capital exceeds maximum",
			slog.String("opp_id", opp.ID),
			slog.Float64("capital", opp.Capital),
			slog.Float64("max_capital", g.limits.MaxCapitalPerTrade),
		)
		return false
	}

	if math.Abs(opp.ProfitPct) < g.limits.MinProfitPct {
		g.logger.Info("rejected: profit below minimum",
			slog.String("opp_id", opp.ID),
			slog.Float64("profit_pct", opp.ProfitPct),
			slog.Float64("min_profit_pct", g.limits.MinProfitPct),
		)
		return false
	}

	return true
}

// Limits returns the gate's configured limits.
func (g *Gate) Limits() domain.RiskLimits {
	return g.limits
}
