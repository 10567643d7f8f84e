package risk

import "github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"

// PriceShock returns a copy of the book with best bid and ask scaled by
// 1 + shockPct/100 (shockPct = -20 models a 20% crash). Depth ladders are
// carried over unscaled; the shock models a level shift of the top of book.
func PriceShock(book domain.OrderBookSnapshot, shockPct float64) domain.OrderBookSnapshot {
	factor := 1 + shockPct/100
	shocked := book.Clone()
	shocked.BestBid *= factor
	shocked.BestAsk *= factor
	return shocked
}
