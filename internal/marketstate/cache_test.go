package marketstate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

func book(symbol string, bid, ask float64) domain.OrderBookSnapshot {
	return domain.OrderBookSnapshot{
		Symbol:     symbol,
		BestBid:    bid,
		BestAsk:    ask,
		BestBidQty: 1,
		BestAskQty: 1,
		Bids:       []domain.PriceLevel{{Price: bid, Quantity: 1}},
		Asks:       []domain.PriceLevel{{Price: ask, Quantity: 1}},
		Timestamp:  time.Now(),
	}
}

func TestUpdateIsLastWriteWins(t *testing.T) {
	c := New()
	c.Update("binance", book("BTCUSDT", 100, 101))
	c.Update("binance", book("BTCUSDT", 200, 201))

	got, ok := c.Get("binance", "BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 200.0, got.BestBid)
	assert.Equal(t, "binance", got.Venue)
}

func TestGetMissing(t *testing.T) {
	c := New()
	_, ok := c.Get("binance", "BTCUSDT")
	assert.False(t, ok)

	c.Update("binance", book("BTCUSDT", 100, 101))
	_, ok = c.Get("binance", "ETHUSDT")
	assert.False(t, ok)
	_, ok = c.Get("okx", "BTCUSDT")
	assert.False(t, ok)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	c := New()
	c.Update("okx", book("BTCUSDT", 100, 101))
	c.UpdateFunding("binance", 30000, 0.0001)
	c.UpdateSynthetic("spot", domain.SyntheticInstrument{Kind: domain.SyntheticSpot, Symbol: "BTCUSDT", Price: 100.5})

	view := c.Snapshot()
	require.Len(t, view.Books, 1)
	require.Len(t, view.Funding, 1)
	require.Len(t, view.Synthetics, 1)

	// Mutating the view must not leak into the cache.
	snap := view.Books["okx"]["BTCUSDT"]
	snap.Bids[0].Price = 9999
	view.Books["okx"]["BTCUSDT"] = domain.OrderBookSnapshot{}

	got, ok := c.Get("okx", "BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 100.0, got.BestBid)
	assert.Equal(t, 100.0, got.Bids[0].Price)
}

func TestGetReturnsCopy(t *testing.T) {
	c := New()
	c.Update("okx", book("BTCUSDT", 100, 101))

	got, ok := c.Get("okx", "BTCUSDT")
	require.True(t, ok)
	got.Asks[0].Price = 1

	again, _ := c.Get("okx", "BTCUSDT")
	assert.Equal(t, 101.0, again.Asks[0].Price)
}

func TestFunding(t *testing.T) {
	c := New()
	_, ok := c.Funding("binance")
	assert.False(t, ok)

	c.UpdateFunding("binance", 30000, 0.0005)
	c.UpdateFunding("binance", 30100, 0.0007)

	f, ok := c.Funding("binance")
	require.True(t, ok)
	assert.Equal(t, 30100.0, f.MarkPrice)
	assert.Equal(t, 0.0007, f.FundingRate)
}

// Concurrent producers and a reader must never observe a torn snapshot: a
// stored book always has ask = bid + 1 in this test.
func TestConcurrentUpdatesAndSnapshots(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(venue string) {
			defer wg.Done()
			for i := 1; i <= 500; i++ {
				c.Update(venue, book("BTCUSDT", float64(i), float64(i+1)))
				c.UpdateFunding(venue, float64(i), 0.0001)
			}
		}([]string{"binance", "okx", "bybit", "kraken"}[w])
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			view := c.Snapshot()
			for _, byVenue := range view.Books {
				for _, snap := range byVenue {
					require.Equal(t, snap.BestBid+1, snap.BestAsk)
				}
			}
		}
	}()

	wg.Wait()
}
