package signal

import (
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

const (
	// defaultAggressiveness is the impact coefficient applied to the ratio
	// of order size to top-of-book depth.
	defaultAggressiveness = 0.2
	// slippageCapPct hard-caps the estimate at 5%.
	slippageCapPct = 5.0
)

// MarketImpact estimates percentage slippage for an order against a book's
// top-of-book depth.
type MarketImpact struct {
	aggressiveness float64
}

// NewMarketImpact creates an estimator. A non-positive aggressiveness falls
// back to the default of 0.2.
func NewMarketImpact(aggressiveness float64) *MarketImpact {
	if aggressiveness <= 0 {
		aggressiveness = defaultAggressiveness
	}
	return &MarketImpact{aggressiveness: aggressiveness}
}

// EstimateSlippagePct returns min(aggressiveness * orderSizeUSD / depthUSD *
// 100, 5.0) where depthUSD is the combined top-of-book notional on both
// sides. Zero depth yields 0.
func (m *MarketImpact) EstimateSlippagePct(book domain.OrderBookSnapshot, orderSizeUSD float64) float64 {
	depthUSD := book.BestBidQty*book.BestBid + book.BestAskQty*book.BestAsk
	if depthUSD <= 0 {
		return 0
	}
	pct := m.aggressiveness * orderSizeUSD / depthUSD * 100
	if pct > slippageCapPct {
		return slippageCapPct
	}
	return pct
}
