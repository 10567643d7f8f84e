package domain

import "time"

// PriceLevel is a single price+quantity entry in an order-book ladder.
type PriceLevel struct {
	Price    float64
	Quantity float64
}

// OrderBookSnapshot is the normalized top-of-book view delivered by a venue
// connector. Depth ladders are optional and ordered best-to-worst.
type OrderBookSnapshot struct {
	Venue      string
	Symbol     string
	BestBid    float64
	BestAsk    float64
	BestBidQty float64
	BestAskQty float64
	Bids       []PriceLevel
	Asks       []PriceLevel
	Timestamp  time.Time
}

// Mid returns the bid/ask midpoint.
func (b OrderBookSnapshot) Mid() float64 {
	return (b.BestBid + b.BestAsk) / 2
}

// HasValidTop reports whether the top of book carries usable prices and
// quantities. Snapshots failing this check are treated as invalid input and
// downstream math returns a neutral result for them.
func (b OrderBookSnapshot) HasValidTop() bool {
	return b.BestBid > 0 && b.BestAsk > 0 && b.BestBidQty > 0 && b.BestAskQty > 0
}

// Clone returns a deep copy of the snapshot, including depth ladders.
func (b OrderBookSnapshot) Clone() OrderBookSnapshot {
	out := b
	if len(b.Bids) > 0 {
		out.Bids = make([]PriceLevel, len(b.Bids))
		copy(out.Bids, b.Bids)
	}
	if len(b.Asks) > 0 {
		out.Asks = make([]PriceLevel, len(b.Asks))
		copy(out.Asks, b.Asks)
	}
	return out
}

// FundingSnapshot is the latest mark price and funding rate for a venue.
// There is one per venue; updates overwrite it wholesale.
type FundingSnapshot struct {
	Venue       string
	MarkPrice   float64
	FundingRate float64
	Timestamp   time.Time
}

// SyntheticKind identifies which pricing model produced a synthetic
// instrument.
type SyntheticKind string

const (
	SyntheticSpot          SyntheticKind = "synthetic_spot"
	SyntheticFutureCarry   SyntheticKind = "synthetic_future_carry"
	SyntheticFutureFunding SyntheticKind = "synthetic_future_funding"
)

// SyntheticInstrument is a derived instrument: a reference book adjusted by a
// carry/funding model. Instances are created fresh each evaluation cycle; the
// market-state cache may retain the latest copy for display.
type SyntheticInstrument struct {
	Kind   SyntheticKind
	Symbol string
	Price  float64
	LegA   string
	LegB   string
}
