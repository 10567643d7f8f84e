package executor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/risk"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/signal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func limits() domain.RiskLimits {
	return domain.RiskLimits{
		MaxCapitalPerTrade: 20000,
		MinProfitPct:       0.01,
		StopLossPct:        0.01,
		TakeProfitPct:      0.015,
		RiskPerTrade:       0.01,
	}
}

func deepBook(bid, ask float64) domain.OrderBookSnapshot {
	return domain.OrderBookSnapshot{
		BestBid: bid, BestBidQty: 1000,
		BestAsk: ask, BestAskQty: 1000,
	}
}

func newSimulator() (*Simulator, *Ledger, *risk.VaREstimator) {
	ledger := NewLedger()
	varEst := risk.NewVaREstimator()
	sim := NewSimulator(signal.NewMarketImpact(0.2), limits(), ledger, varEst, discardLogger())
	return sim, ledger, varEst
}

func opportunity(longPrice, shortPrice, capital float64) domain.ArbitrageOpportunity {
	return domain.ArbitrageOpportunity{
		ID:         "opp-1",
		Symbol:     "BTCUSDT",
		Strategy:   "cross_venue_spot",
		LongVenue:  "okx",
		ShortVenue: "binance",
		LongPrice:  longPrice,
		ShortPrice: shortPrice,
		ProfitPct:  (shortPrice - longPrice) / longPrice * 100,
		Capital:    capital,
		LongBook:   deepBook(longPrice-0.5, longPrice),
		ShortBook:  deepBook(shortPrice, shortPrice+0.5),
	}
}

func TestExecuteRecordsProfitableTrade(t *testing.T) {
	sim, ledger, varEst := newSimulator()

	trade, ok := sim.Execute(opportunity(100, 101, 505))
	require.True(t, ok)

	assert.Equal(t, "okx", trade.BuyVenue)
	assert.Equal(t, "binance", trade.SellVenue)
	assert.Greater(t, trade.Profit, 0.0, "deep books keep slippage negligible")
	assert.Equal(t, 1, ledger.TradeCount())
	assert.InDelta(t, trade.Profit, ledger.TotalProfit(), 1e-12)
	assert.Equal(t, 1, varEst.SampleCount())
	assert.NotEmpty(t, trade.ID)
}

func TestExecuteRejectsNonPositiveCapital(t *testing.T) {
	sim, ledger, _ := newSimulator()

	_, ok := sim.Execute(opportunity(100, 101, 0))
	assert.False(t, ok)
	_, ok = sim.Execute(opportunity(100, 101, -5))
	assert.False(t, ok)
	assert.Zero(t, ledger.TradeCount())
}

// A mark sitting 1%+ below the long entry aborts before any fill is recorded.
func TestExecuteStopLossAbortsWithoutRecording(t *testing.T) {
	sim, ledger, varEst := newSimulator()

	// long 100, short 97 -> mark 98.5, change -1.5% <= -1%.
	opp := opportunity(100, 97, 505)
	_, ok := sim.Execute(opp)

	assert.False(t, ok)
	assert.Zero(t, ledger.TradeCount())
	assert.Zero(t, varEst.SampleCount())
}

// Take-profit is consulted only after stop-loss and does not block the fill.
func TestExecuteTakeProfitStillRecords(t *testing.T) {
	sim, ledger, _ := newSimulator()

	// long 100, short 104 -> mark 102, change +2% >= +1.5%.
	_, ok := sim.Execute(opportunity(100, 104, 505))
	assert.True(t, ok)
	assert.Equal(t, 1, ledger.TradeCount())
}

func TestExecuteAppliesSlippageToBothLegs(t *testing.T) {
	ledger := NewLedger()
	varEst := risk.NewVaREstimator()
	sim := NewSimulator(signal.NewMarketImpact(0.2), limits(), ledger, varEst, discardLogger())

	// Thin books: depthUSD ~= 2*price, so slippage hits the 5% cap.
	opp := opportunity(100, 101, 505)
	opp.LongBook = domain.OrderBookSnapshot{BestBid: 99.5, BestBidQty: 0.01, BestAsk: 100, BestAskQty: 0.01}
	opp.ShortBook = domain.OrderBookSnapshot{BestBid: 101, BestBidQty: 0.01, BestAsk: 101.5, BestAskQty: 0.01}

	trade, ok := sim.Execute(opp)
	require.True(t, ok)

	quantity := risk.PositionSize(505, 100, 0.01)
	wantProfit := (101*0.95 - 100*1.05) * quantity
	assert.InDelta(t, wantProfit, trade.Profit, 1e-9)
	assert.Less(t, trade.Profit, 0.0, "capped slippage turns the edge negative")

	// Losses flow into VaR history.
	assert.Positive(t, varEst.HistoricalVaR(0.95))
}

func TestExecutePanicsOnCapitalAboveMax(t *testing.T) {
	sim, _, _ := newSimulator()
	opp := opportunity(100, 101, 25000)

	assert.Panics(t, func() { sim.Execute(opp) })
}

func TestLedgerHistoryIsACopy(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(domain.ExecutedTrade{ID: "a", Profit: 2})
	ledger.Append(domain.ExecutedTrade{ID: "b", Profit: -1})

	hist := ledger.History()
	require.Len(t, hist, 2)
	hist[0].ID = "mutated"

	assert.Equal(t, "a", ledger.History()[0].ID)
	assert.InDelta(t, 1.0, ledger.TotalProfit(), 1e-12)
}
