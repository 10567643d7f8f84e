package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/bus"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/config"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/engine"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/executor"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/history"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/marketstate"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/options"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/risk"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/server"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/server/handler"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/signal"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/telemetry"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/venue"
)

// defaultVolArb is the option probe used until a live options feed exists.
// A 5% OTM call, one week out, against a mock market quote.
var defaultVolArb = options.VolArbConfig{
	StrikeRatio:        1.05,
	DaysToExpiry:       7,
	RiskFreeRate:       0.02,
	AssumedVol:         0.65,
	MarketOptionPrice:  150,
	MispricingAlertPct: 5,
}

// Dependencies bundles everything the run loop needs: the market-state
// cache, the decision engine, the venue connectors, and the optional HTTP
// server. It is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	Cache      *marketstate.Cache
	Engine     *engine.Engine
	Connectors []venue.Connector
	Server     *server.Server
}

// Wire constructs all concrete dependencies from the configuration and
// returns them together with a cleanup function to be called on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	cache := marketstate.New()
	ledger := executor.NewLedger()
	varEst := risk.NewVaREstimator()

	limits := domain.RiskLimits{
		MaxCapitalPerTrade: cfg.Risk.MaxCapitalPerTrade,
		MinProfitPct:       cfg.Risk.MinProfitPct,
		StopLossPct:        cfg.Risk.StopLoss,
		TakeProfitPct:      cfg.Risk.TakeProfit,
		RiskPerTrade:       cfg.Risk.RiskPerTrade,
	}
	impact := signal.NewMarketImpact(cfg.Risk.ImpactAggressiveness)
	gate := risk.NewGate(signal.NewLiquidityAnalyzer(logger), limits, logger)
	simulator := executor.NewSimulator(impact, limits, ledger, varEst, logger)

	// --- Redis event bus (optional) ---
	var eventBus domain.EventBus
	if cfg.Redis.Enabled {
		client, err := bus.NewClient(ctx, bus.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		eventBus = bus.NewPublisher(client, cfg.Redis.StreamMaxLen)
	}

	eng := engine.New(engine.Params{
		Symbol:             cfg.Engine.Symbol,
		Interval:           cfg.Engine.Interval.Duration,
		ReportEvery:        cfg.Engine.ReportEvery,
		MinProfitPct:       cfg.Engine.MinProfitPct,
		MaxCapital:         cfg.Engine.MaxCapital,
		ZScoreThreshold:    cfg.Engine.ZScoreThreshold,
		StressShockPct:     cfg.Engine.StressShockPct,
		Leverage:           cfg.Synthetic.Leverage,
		FundingRate:        cfg.Synthetic.FundingRate,
		FundingWindowYears: cfg.Synthetic.FundingWindowDays / 365.0,
		VolArb:             defaultVolArb,
	}, engine.Deps{
		Cache:       cache,
		StatArb:     signal.NewStatArb(logger),
		Correlation: signal.NewCorrelationAnalyzer(cfg.Engine.CorrelationThreshold, logger),
		Gate:        gate,
		Simulator:   simulator,
		Ledger:      ledger,
		VaR:         varEst,
		Monitor:     telemetry.NewMonitor(logger),
		Exporter:    history.NewCSVExporter(cfg.History.CSVPath),
		Bus:         eventBus,
	}, logger)

	deps := &Dependencies{
		Cache:      cache,
		Engine:     eng,
		Connectors: buildConnectors(cfg, cache, logger),
	}

	// --- HTTP server (optional) ---
	if cfg.Server.Enabled {
		deps.Server = server.NewServer(
			server.Config{
				Port:        cfg.Server.Port,
				CORSOrigins: cfg.Server.CORSOrigins,
			},
			server.Handlers{
				Health:   handler.NewHealthHandler(logger),
				Snapshot: handler.NewSnapshotHandler(cache, logger),
				Trades:   handler.NewTradesHandler(ledger, varEst, logger),
			},
			logger,
		)
	}

	return deps, cleanup, nil
}

// buildConnectors creates one connector per enabled venue feed, all pushing
// into the shared cache.
func buildConnectors(cfg *config.Config, cache *marketstate.Cache, logger *slog.Logger) []venue.Connector {
	symbol := cfg.Engine.Symbol

	onBook := func(snap domain.OrderBookSnapshot) {
		cache.Update(snap.Venue, snap)
	}
	onFunding := func(snap domain.FundingSnapshot) {
		cache.UpdateFunding(snap.Venue, snap.MarkPrice, snap.FundingRate)
	}

	var connectors []venue.Connector
	if cfg.Venues.Binance.Enabled {
		connectors = append(connectors, venue.NewBinanceSpot(
			cfg.Venues.Binance.URL, cfg.Venues.Binance.Symbol, symbol, onBook, logger))
	}
	if cfg.Venues.BinancePerp.Enabled {
		connectors = append(connectors, venue.NewBinancePerpFunding(
			cfg.Venues.BinancePerp.URL, cfg.Venues.BinancePerp.Symbol, onFunding, logger))
	}
	if cfg.Venues.OKX.Enabled {
		connectors = append(connectors, venue.NewOKXBooks(
			cfg.Venues.OKX.URL, cfg.Venues.OKX.Symbol, symbol, onBook, logger))
	}
	if cfg.Venues.Bybit.Enabled {
		connectors = append(connectors, venue.NewBybitBooks(
			cfg.Venues.Bybit.URL, cfg.Venues.Bybit.Symbol, symbol, onBook, logger))
	}
	return connectors
}
