package synth

import (
	"math"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// CapitalLimit bounds the capital deployable across a long/short leg pair.
// It returns 0 when either leg's top of book has a non-positive price or
// quantity. Otherwise the tradable quantity is min(longLeg ask qty,
// shortLeg bid qty) and the bound is the minimum of three independent
// constraints: the cost of buying on the long leg, the proceeds of selling on
// the short leg, and maxCapital. The three-way min is the invariant; do not
// collapse it to two terms.
func CapitalLimit(longLeg, shortLeg domain.OrderBookSnapshot, maxCapital float64) float64 {
	if longLeg.BestAsk <= 0 || longLeg.BestAskQty <= 0 ||
		shortLeg.BestBid <= 0 || shortLeg.BestBidQty <= 0 {
		return 0
	}

	tradeQty := math.Min(longLeg.BestAskQty, shortLeg.BestBidQty)
	longCost := tradeQty * longLeg.BestAsk
	shortReturn := tradeQty * shortLeg.BestBid

	return math.Min(math.Min(longCost, shortReturn), maxCapital)
}
