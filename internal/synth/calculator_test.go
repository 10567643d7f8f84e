package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

func testBook(bid, bidQty, ask, askQty float64) domain.OrderBookSnapshot {
	return domain.OrderBookSnapshot{
		Symbol:     "BTCUSDT",
		BestBid:    bid,
		BestAsk:    ask,
		BestBidQty: bidQty,
		BestAskQty: askQty,
	}
}

func TestSyntheticSpot(t *testing.T) {
	book := testBook(100, 1, 102, 1) // mid 101
	inst := SyntheticSpot(book, 2.0, 0.0005)

	assert.Equal(t, domain.SyntheticSpot, inst.Kind)
	assert.InDelta(t, 101*(1+0.0005*2.0), inst.Price, 1e-12)
	assert.Equal(t, "BTCUSDT_PERP", inst.LegA)
}

func TestSyntheticFutureCarry(t *testing.T) {
	book := testBook(100, 1, 102, 1)
	inst := SyntheticFutureCarry(book, 0.05, 0.5)

	assert.Equal(t, domain.SyntheticFutureCarry, inst.Kind)
	assert.InDelta(t, 101*(1+0.05*0.5), inst.Price, 1e-12)
}

func TestSyntheticFutureFunding(t *testing.T) {
	book := testBook(100, 1, 102, 1)
	inst := SyntheticFutureFunding(book, 0.0001, 7.0/365.0)

	assert.Equal(t, domain.SyntheticFutureFunding, inst.Kind)
	assert.InDelta(t, 101*(1+0.0001*7.0/365.0), inst.Price, 1e-12)
}

func TestMispricing(t *testing.T) {
	assert.InDelta(t, 10.0, Mispricing(110, 100), 1e-12)
	assert.InDelta(t, -10.0, Mispricing(90, 100), 1e-12)
	assert.Zero(t, Mispricing(110, 0), "zero synthetic price is guarded")
}

func TestEvaluateArbitrageAssignsLongToCheaperLeg(t *testing.T) {
	bookA := testBook(99, 5, 100, 5)
	bookB := testBook(104, 5, 105, 5)

	opp := EvaluateArbitrage("BTCUSDT", "okx", "binance", 100, 104, 0.1, 500, bookA, bookB)
	require.False(t, opp.IsZero())
	assert.Equal(t, "okx", opp.LongVenue)
	assert.Equal(t, "binance", opp.ShortVenue)
	assert.InDelta(t, 4.0, opp.ProfitPct, 1e-12)

	// Reversed prices flip the legs.
	opp = EvaluateArbitrage("BTCUSDT", "okx", "binance", 104, 100, 0.1, 500, bookA, bookB)
	require.False(t, opp.IsZero())
	assert.Equal(t, "binance", opp.LongVenue)
	assert.Equal(t, "okx", opp.ShortVenue)
	assert.Equal(t, bookB, opp.LongBook)
	assert.Equal(t, bookA, opp.ShortBook)
}

func TestEvaluateArbitrageSentinelBelowThreshold(t *testing.T) {
	bookA := testBook(99, 5, 100, 5)
	bookB := testBook(100, 5, 101, 5)

	opp := EvaluateArbitrage("BTCUSDT", "okx", "binance", 100.0, 100.05, 0.1, 500, bookA, bookB)
	assert.True(t, opp.IsZero())
	assert.Equal(t, "BTCUSDT", opp.Symbol)
}

func TestEvaluateArbitrageSentinelOnEqualPrices(t *testing.T) {
	book := testBook(99, 5, 100, 5)
	opp := EvaluateArbitrage("BTCUSDT", "okx", "binance", 100, 100, 0, 500, book, book)
	assert.True(t, opp.IsZero())
}

func TestCapitalLimitThreeWayMin(t *testing.T) {
	longLeg := testBook(100, 5, 101, 5)
	shortLeg := testBook(103, 5, 104, 5)

	// tradeQty = min(5,5) = 5; longCost = 505, shortReturn = 515.
	assert.InDelta(t, 505.0, CapitalLimit(longLeg, shortLeg, 10000), 1e-12)

	// maxCapital binds.
	assert.InDelta(t, 300.0, CapitalLimit(longLeg, shortLeg, 300), 1e-12)

	// shortReturn binds when the short bid is the cheaper constraint.
	cheapShort := testBook(90, 5, 104, 5)
	assert.InDelta(t, 450.0, CapitalLimit(longLeg, cheapShort, 10000), 1e-12)
}

func TestCapitalLimitNeverExceedsConstraints(t *testing.T) {
	longLeg := testBook(100, 3, 101, 2)
	shortLeg := testBook(103, 7, 104, 1)

	for _, maxCapital := range []float64{1, 100, 250, 10000} {
		got := CapitalLimit(longLeg, shortLeg, maxCapital)
		tradeQty := 2.0 // min(askQty long, bidQty short)
		assert.LessOrEqual(t, got, tradeQty*longLeg.BestAsk)
		assert.LessOrEqual(t, got, tradeQty*shortLeg.BestBid)
		assert.LessOrEqual(t, got, maxCapital)
	}
}

func TestCapitalLimitZeroOnInvalidLegs(t *testing.T) {
	valid := testBook(100, 5, 101, 5)

	cases := []struct {
		name  string
		long  domain.OrderBookSnapshot
		short domain.OrderBookSnapshot
	}{
		{"zero ask", testBook(100, 5, 0, 5), valid},
		{"negative ask", testBook(100, 5, -1, 5), valid},
		{"zero ask qty", testBook(100, 5, 101, 0), valid},
		{"zero bid", valid, testBook(0, 5, 101, 5)},
		{"zero bid qty", valid, testBook(100, 0, 101, 5)},
		{"negative bid qty", valid, testBook(100, -2, 101, 5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Zero(t, CapitalLimit(tc.long, tc.short, 10000))
		})
	}
}
