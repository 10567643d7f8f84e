package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/executor"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/history"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/marketstate"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/options"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/risk"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/signal"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/telemetry"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/venue"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingBus captures published payloads in memory.
type recordingBus struct {
	published map[string][][]byte
	streamed  map[string][][]byte
}

func newRecordingBus() *recordingBus {
	return &recordingBus{
		published: make(map[string][][]byte),
		streamed:  make(map[string][][]byte),
	}
}

func (b *recordingBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.published[channel] = append(b.published[channel], payload)
	return nil
}

func (b *recordingBus) StreamAppend(_ context.Context, stream string, payload []byte) error {
	b.streamed[stream] = append(b.streamed[stream], payload)
	return nil
}

func testParams() Params {
	return Params{
		Symbol:             "BTC/USDT",
		Interval:           2 * time.Second,
		ReportEvery:        1,
		MinProfitPct:       0.1,
		MaxCapital:         500,
		ZScoreThreshold:    2.0,
		StressShockPct:     -20.0,
		Leverage:           2.0,
		FundingRate:        0.0005,
		FundingWindowYears: 7.0 / 365.0,
		VolArb: options.VolArbConfig{
			StrikeRatio:        1.05,
			DaysToExpiry:       7,
			RiskFreeRate:       0.02,
			AssumedVol:         0.65,
			MarketOptionPrice:  150,
			MispricingAlertPct: 5,
		},
	}
}

type fixture struct {
	engine *Engine
	cache  *marketstate.Cache
	ledger *executor.Ledger
	varEst *risk.VaREstimator
	bus    *recordingBus
	csv    string
}

func newFixture(t *testing.T, params Params) *fixture {
	t.Helper()
	logger := discardLogger()

	cache := marketstate.New()
	ledger := executor.NewLedger()
	varEst := risk.NewVaREstimator()
	impact := signal.NewMarketImpact(0.2)
	limits := domain.RiskLimits{
		MaxCapitalPerTrade: 20000,
		MinProfitPct:       0.01,
		StopLossPct:        0.01,
		TakeProfitPct:      0.015,
		RiskPerTrade:       0.01,
	}
	bus := newRecordingBus()
	csvPath := filepath.Join(t.TempDir(), "trades.csv")

	eng := New(params, Deps{
		Cache:       cache,
		StatArb:     signal.NewStatArb(logger),
		Correlation: signal.NewCorrelationAnalyzer(0.85, logger),
		Gate:        risk.NewGate(signal.NewLiquidityAnalyzer(logger), limits, logger),
		Simulator:   executor.NewSimulator(impact, limits, ledger, varEst, logger),
		Ledger:      ledger,
		VaR:         varEst,
		Monitor:     telemetry.NewMonitor(logger),
		Exporter:    history.NewCSVExporter(csvPath),
		Bus:         bus,
	}, logger)

	return &fixture{engine: eng, cache: cache, ledger: ledger, varEst: varEst, bus: bus, csv: csvPath}
}

func book(venueName string, bid, bidQty, ask, askQty float64) domain.OrderBookSnapshot {
	return domain.OrderBookSnapshot{
		Venue:      venueName,
		Symbol:     "BTC/USDT",
		BestBid:    bid,
		BestAsk:    ask,
		BestBidQty: bidQty,
		BestAskQty: askQty,
		Bids:       []domain.PriceLevel{{Price: bid, Quantity: bidQty}},
		Asks:       []domain.PriceLevel{{Price: ask, Quantity: askQty}},
		Timestamp:  time.Now(),
	}
}

func TestRunCycleCrossVenueArbitrage(t *testing.T) {
	fx := newFixture(t, testParams())

	// Bybit mid 100.5, Binance mid 103.5: a 2.985% cross-venue edge.
	fx.cache.Update(venue.Bybit, book(venue.Bybit, 100, 100, 101, 100))
	fx.cache.Update(venue.Binance, book(venue.Binance, 103, 100, 104, 100))

	fx.engine.RunCycle(context.Background())

	// Cross-venue spot and synthetic-vs-real both admit; synthetic futures
	// is skipped without an OKX book.
	trades := fx.ledger.History()
	require.Len(t, trades, 2)

	crossVenue := trades[0]
	assert.Equal(t, StrategyCrossVenueSpot, crossVenue.Strategy)
	assert.Equal(t, venue.Bybit, crossVenue.BuyVenue)
	assert.Equal(t, venue.Binance, crossVenue.SellVenue)
	assert.Equal(t, 100.5, crossVenue.BuyPrice)
	assert.Equal(t, 103.5, crossVenue.SellPrice)

	// Capital bound 500, risk fraction 1%: 5 USDT deployed at the long mid.
	assert.InDelta(t, 5.0, crossVenue.CapitalUsed, 1e-9)

	// Slippage: buy leg 0.2*500/20100*100 pct, sell leg over 20700 depth.
	qty := 500.0 * 0.01 / 100.5
	adjBuy := 100.5 * (1 + 0.2*500/20100)
	adjSell := 103.5 * (1 - 0.2*500/20700)
	assert.InDelta(t, (adjSell-adjBuy)*qty, crossVenue.Profit, 1e-9)
	assert.Greater(t, crossVenue.Profit, 0.0)

	assert.Equal(t, StrategySyntheticVsRealSpot, trades[1].Strategy)

	// Each simulated fill lands in the VaR sample window.
	assert.Equal(t, 2, fx.varEst.SampleCount())
}

func TestRunCycleSyntheticFutures(t *testing.T) {
	fx := newFixture(t, testParams())

	fx.cache.Update(venue.Binance, book(venue.Binance, 103, 100, 104, 100))
	fx.cache.Update(venue.Bybit, book(venue.Bybit, 100, 100, 101, 100))
	fx.cache.Update(venue.OKX, book(venue.OKX, 100.4, 100, 100.6, 100))
	fx.cache.UpdateFunding(venue.BinancePerp, 103.5, 0.0001)

	fx.engine.RunCycle(context.Background())

	// Synthetic spot vs OKX real admits; the funding-model future prices
	// within a hair of the real spot and stays below the profit threshold.
	trades := fx.ledger.History()
	require.Len(t, trades, 3)
	assert.Equal(t, StrategySpotVsSyntheticSpot, trades[0].Strategy)
	assert.Equal(t, venue.OKX, trades[0].BuyVenue)
	assert.Equal(t, venue.Binance, trades[0].SellVenue)

	// Both synthetic instruments land in the cache for the API snapshot.
	view := fx.cache.Snapshot()
	spot, ok := view.Synthetics[string(domain.SyntheticSpot)]
	require.True(t, ok)
	assert.InDelta(t, 103.5*(1+0.0005*2.0), spot.Price, 1e-9)

	fut, ok := view.Synthetics[string(domain.SyntheticFutureFunding)]
	require.True(t, ok)
	assert.InDelta(t, 100.5*(1+0.0001*7.0/365.0), fut.Price, 1e-9)
}

func TestRunCyclePublishesAndExports(t *testing.T) {
	fx := newFixture(t, testParams())

	fx.cache.Update(venue.Bybit, book(venue.Bybit, 100, 100, 101, 100))
	fx.cache.Update(venue.Binance, book(venue.Binance, 103, 100, 104, 100))

	fx.engine.RunCycle(context.Background())

	assert.Len(t, fx.bus.published["opportunities"], 2)
	assert.Len(t, fx.bus.published["trades"], 2)
	assert.Len(t, fx.bus.streamed["stream:trades"], 2)

	// ReportEvery=1: the report ran and rewrote the CSV history.
	data, err := os.ReadFile(fx.csv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timestamp,symbol,strategy")
	assert.Contains(t, string(data), "Cross-Venue Spot Arbitrage")
}

func TestRunCycleNoBooksNoTrades(t *testing.T) {
	fx := newFixture(t, testParams())

	fx.engine.RunCycle(context.Background())

	assert.Equal(t, 0, fx.ledger.TradeCount())
	assert.Empty(t, fx.bus.published)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	params := testParams()
	params.Interval = 5 * time.Millisecond
	fx := newFixture(t, params)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := fx.engine.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
