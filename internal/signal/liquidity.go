package signal

import (
	"log/slog"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// liquidityBand is the fraction of the best price within which resting depth
// counts toward sufficiency (0.5%).
const liquidityBand = 0.005

// LiquidityAnalyzer decides whether a book carries enough resting depth near
// the top to absorb a given capital deployment.
type LiquidityAnalyzer struct {
	logger *slog.Logger
}

// NewLiquidityAnalyzer creates a LiquidityAnalyzer.
func NewLiquidityAnalyzer(logger *slog.Logger) *LiquidityAnalyzer {
	return &LiquidityAnalyzer{logger: logger.With(slog.String("component", "liquidity"))}
}

// IsSufficient reports whether both sides of the book hold at least
// capital/mid units of depth within 0.5% of the best bid/ask. Ladder
// traversal stops at the first level outside the band; ladders are ordered
// best-to-worst.
func (l *LiquidityAnalyzer) IsSufficient(book domain.OrderBookSnapshot, capital float64) bool {
	mid := book.Mid()
	if mid <= 0 {
		return false
	}
	requiredQty := capital / mid

	bidLimit := book.BestBid * (1 - liquidityBand)
	askLimit := book.BestAsk * (1 + liquidityBand)

	var bidDepth, askDepth float64
	for _, lvl := range book.Bids {
		if lvl.Price < bidLimit {
			break
		}
		bidDepth += lvl.Quantity
	}
	for _, lvl := range book.Asks {
		if lvl.Price > askLimit {
			break
		}
		askDepth += lvl.Quantity
	}

	sufficient := bidDepth >= requiredQty && askDepth >= requiredQty
	if !sufficient {
		l.logger.Warn("insufficient liquidity",
			slog.String("venue", book.Venue),
			slog.String("symbol", book.Symbol),
			slog.Float64("required_qty", requiredQty),
			slog.Float64("bid_depth", bidDepth),
			slog.Float64("ask_depth", askDepth),
		)
	}
	return sufficient
}

// EstimateSpreadSlippage is the simple spread-proportional slippage model:
// the quoted spread scaled by min(tradeSizeUSD/10000, 1), in quote units.
func (l *LiquidityAnalyzer) EstimateSpreadSlippage(book domain.OrderBookSnapshot, tradeSizeUSD float64) float64 {
	spread := book.BestAsk - book.BestBid
	impactFactor := tradeSizeUSD / 10000.0
	if impactFactor > 1 {
		impactFactor = 1
	}
	return spread * impactFactor
}
