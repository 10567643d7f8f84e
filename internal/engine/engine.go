// Package engine runs the periodic decision cycle: it reads a consistent
// market-state snapshot, prices the synthetic instruments, evaluates the
// arbitrage checks, and routes admitted opportunities through the risk gate
// into the execution simulator.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/bus"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/executor"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/marketstate"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/options"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/risk"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/signal"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/synth"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/telemetry"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/venue"
)

// Strategy labels attached to admitted opportunities.
const (
	StrategySpotVsSyntheticSpot   = "Spot vs Synthetic Spot"
	StrategySpotVsSyntheticFuture = "Spot vs Synthetic Future"
	StrategyCrossVenueSpot        = "Cross-Venue Spot Arbitrage"
	StrategySyntheticVsRealSpot   = "Synthetic Spot vs Real Spot"
)

// Params holds the decision-cycle tuning read from configuration once at
// startup. All fields are immutable for the life of the engine.
type Params struct {
	Symbol string
	// Interval between decision cycles.
	Interval time.Duration
	// ReportEvery cycles, the periodic reports run.
	ReportEvery int
	// MinProfitPct is the evaluation threshold in percent.
	MinProfitPct float64
	// MaxCapital caps the capital bound by the leg optimizer per check.
	MaxCapital float64
	// ZScoreThreshold for the mean-reversion signal.
	ZScoreThreshold float64
	// StressShockPct applied during stress reports.
	StressShockPct float64
	// Leverage and FundingRate parameterize the synthetic spot model.
	Leverage    float64
	FundingRate float64
	// FundingWindowYears is the funding-model projection window.
	FundingWindowYears float64
	// VolArb parameterizes the secondary volatility-arbitrage probe.
	VolArb options.VolArbConfig
}

// Deps are the collaborators wired in at startup. Bus and Exporter may be
// nil; the engine degrades to log-only output without them.
type Deps struct {
	Cache       *marketstate.Cache
	StatArb     *signal.StatArb
	Correlation *signal.CorrelationAnalyzer
	Gate        *risk.Gate
	Simulator   *executor.Simulator
	Ledger      *executor.Ledger
	VaR         *risk.VaREstimator
	Monitor     *telemetry.Monitor
	Exporter    domain.TradeExporter
	Bus         domain.EventBus
}

// Engine owns the decision loop. All mutable state it touches outside the
// cache is confined to the loop goroutine.
type Engine struct {
	params Params
	deps   Deps
	logger *slog.Logger
	cycles int
}

// New creates an Engine.
func New(params Params, deps Deps, logger *slog.Logger) *Engine {
	return &Engine{
		params: params,
		deps:   deps,
		logger: logger.With(slog.String("component", "engine")),
	}
}

// Run ticks the decision cycle at the configured interval until the context
// is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.params.Interval)
	defer ticker.Stop()

	e.logger.Info("decision loop started",
		slog.String("symbol", e.params.Symbol),
		slog.Duration("interval", e.params.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("decision loop stopped")
			return ctx.Err()
		case <-ticker.C:
			e.RunCycle(ctx)
		}
	}
}

// RunCycle performs one full evaluation pass against the current market
// snapshot and emits the periodic reports every ReportEvery cycles.
func (e *Engine) RunCycle(ctx context.Context) {
	e.deps.Monitor.CycleStart()

	view := e.deps.Cache.Snapshot()

	e.checkSyntheticFutures(ctx, view)
	e.checkCrossVenueSpot(ctx, view)
	e.checkSyntheticVsRealSpot(ctx, view)
	e.checkVolatilityArb(view)

	e.deps.Monitor.CycleEnd()

	e.cycles++
	if e.cycles%e.params.ReportEvery == 0 {
		e.report(view)
	}
}

// checkSyntheticFutures prices a synthetic spot from the perp-adjacent book
// and a funding-model future from the reference spot, then evaluates both
// against the real spot.
func (e *Engine) checkSyntheticFutures(ctx context.Context, view marketstate.View) {
	binanceBook, ok1 := bookFrom(view, venue.Binance, e.params.Symbol)
	okxBook, ok2 := bookFrom(view, venue.OKX, e.params.Symbol)
	if !ok1 || !ok2 {
		return
	}

	funding, ok := view.Funding[venue.BinancePerp]
	if !ok {
		return
	}

	realSpot := okxBook.Mid()
	syntheticSpot := synth.SyntheticSpot(binanceBook, e.params.Leverage, e.params.FundingRate)
	syntheticFuture := synth.SyntheticFutureFunding(okxBook, funding.FundingRate, e.params.FundingWindowYears)

	e.deps.Cache.UpdateSynthetic(string(syntheticSpot.Kind), syntheticSpot)
	e.deps.Cache.UpdateSynthetic(string(syntheticFuture.Kind), syntheticFuture)

	e.logger.Info("synthetic futures analysis",
		slog.Float64("real_spot", realSpot),
		slog.Float64("synthetic_spot", syntheticSpot.Price),
		slog.Float64("synthetic_spot_mispricing_pct", synth.Mispricing(realSpot, syntheticSpot.Price)),
		slog.Float64("synthetic_future", syntheticFuture.Price),
		slog.Float64("synthetic_future_mispricing_pct", synth.Mispricing(realSpot, syntheticFuture.Price)),
	)

	e.logFundingImpact(funding.FundingRate, e.params.MaxCapital)
	e.logLiquidityAlert(okxBook, 2.0)
	e.logBasisRisk(realSpot, syntheticFuture.Price)

	spread := syntheticSpot.Price - realSpot
	spreadKey := "spot_synth:" + e.params.Symbol
	e.deps.StatArb.UpdateSpread(spreadKey, spread)
	if e.deps.StatArb.IsMeanReversionSignal(spreadKey, spread, e.params.ZScoreThreshold) {
		e.logger.Info("stat-arb spread deviation",
			slog.String("key", spreadKey),
			slog.Float64("spread", spread),
		)
	}

	capital1 := synth.CapitalLimit(okxBook, binanceBook, e.params.MaxCapital)
	capital2 := synth.CapitalLimit(okxBook, okxBook, e.params.MaxCapital)

	arb1 := synth.EvaluateArbitrage(e.params.Symbol, venue.OKX, venue.Binance,
		realSpot, syntheticSpot.Price, e.params.MinProfitPct, capital1, okxBook, binanceBook)
	e.handleOpportunity(ctx, arb1, okxBook, StrategySpotVsSyntheticSpot)

	arb2 := synth.EvaluateArbitrage(e.params.Symbol, venue.OKX, venue.OKX,
		realSpot, syntheticFuture.Price, e.params.MinProfitPct, capital2, okxBook, binanceBook)
	e.handleOpportunity(ctx, arb2, okxBook, StrategySpotVsSyntheticFuture)
}

// checkCrossVenueSpot compares spot mids across venues and tracks their
// correlation.
func (e *Engine) checkCrossVenueSpot(ctx context.Context, view marketstate.View) {
	binanceBook, ok1 := bookFrom(view, venue.Binance, e.params.Symbol)
	bybitBook, ok2 := bookFrom(view, venue.Bybit, e.params.Symbol)
	if !ok1 || !ok2 {
		return
	}

	binanceMid := binanceBook.Mid()
	bybitMid := bybitBook.Mid()

	keyA := e.params.Symbol + "@" + venue.Binance
	keyB := e.params.Symbol + "@" + venue.Bybit
	e.deps.Correlation.UpdatePrice(keyA, binanceMid)
	e.deps.Correlation.UpdatePrice(keyB, bybitMid)
	e.deps.Correlation.CheckDivergence(keyA, keyB)

	e.logger.Info("cross-venue spot",
		slog.Float64("binance_mid", binanceMid),
		slog.Float64("bybit_mid", bybitMid),
		slog.Float64("mispricing_pct", synth.Mispricing(bybitMid, binanceMid)),
	)

	capital := synth.CapitalLimit(bybitBook, binanceBook, e.params.MaxCapital)
	arb := synth.EvaluateArbitrage(e.params.Symbol, venue.Bybit, venue.Binance,
		bybitMid, binanceMid, e.params.MinProfitPct, capital, bybitBook, binanceBook)
	e.handleOpportunity(ctx, arb, bybitBook, StrategyCrossVenueSpot)
}

// checkSyntheticVsRealSpot evaluates the synthetic spot against the real
// spot on a third venue.
func (e *Engine) checkSyntheticVsRealSpot(ctx context.Context, view marketstate.View) {
	binanceBook, ok1 := bookFrom(view, venue.Binance, e.params.Symbol)
	bybitBook, ok2 := bookFrom(view, venue.Bybit, e.params.Symbol)
	if !ok1 || !ok2 {
		return
	}

	e.logLiquidityAlert(bybitBook, 2.0)
	e.logLiquidityAlert(binanceBook, 2.0)

	syntheticSpot := synth.SyntheticSpot(binanceBook, e.params.Leverage, e.params.FundingRate)
	realSpot := bybitBook.Mid()

	e.logger.Info("synthetic vs real spot",
		slog.Float64("real_spot", realSpot),
		slog.Float64("synthetic_spot", syntheticSpot.Price),
		slog.Float64("mispricing_pct", synth.Mispricing(realSpot, syntheticSpot.Price)),
	)

	capital := synth.CapitalLimit(bybitBook, binanceBook, e.params.MaxCapital)
	arb := synth.EvaluateArbitrage(e.params.Symbol, venue.Bybit, venue.Binance,
		realSpot, syntheticSpot.Price, e.params.MinProfitPct, capital, bybitBook, binanceBook)
	e.handleOpportunity(ctx, arb, bybitBook, StrategySyntheticVsRealSpot)
}

// checkVolatilityArb runs the log-only option mispricing probe on the
// reference spot mid.
func (e *Engine) checkVolatilityArb(view marketstate.View) {
	okxBook, ok := bookFrom(view, venue.OKX, e.params.Symbol)
	if !ok {
		return
	}
	options.CheckVolArb(okxBook.Mid(), e.params.VolArb, e.logger)
}

// handleOpportunity attaches the strategy label, runs the risk gate, and
// forwards admitted opportunities to the simulator. The long-leg reference
// book drives the liquidity check.
func (e *Engine) handleOpportunity(ctx context.Context, opp domain.ArbitrageOpportunity, refBook domain.OrderBookSnapshot, strategy string) {
	if opp.IsZero() {
		return
	}

	opp.Strategy = strategy

	if !e.deps.Gate.IsAcceptable(opp, refBook) {
		return
	}

	e.logger.Info("opportunity admitted", slog.String("detail", opp.Describe()))
	e.publishOpportunity(ctx, opp)

	trade, ok := e.deps.Simulator.Execute(opp)
	if !ok {
		return
	}
	e.publishTrade(ctx, trade)
}

// report emits the periodic stress, VaR, performance, and P&L reports, and
// rewrites the CSV trade history.
func (e *Engine) report(view marketstate.View) {
	e.stressReport(view)

	e.logger.Info("historical var report",
		slog.Int("samples", e.deps.VaR.SampleCount()),
		slog.Float64("var_95", e.deps.VaR.HistoricalVaR(0.95)),
		slog.Float64("var_99", e.deps.VaR.HistoricalVaR(0.99)),
	)

	e.deps.Monitor.Report()

	e.logger.Info("pnl summary",
		slog.Int("trades", e.deps.Ledger.TradeCount()),
		slog.Float64("total_profit", e.deps.Ledger.TotalProfit()),
	)

	if e.deps.Exporter != nil {
		if err := e.deps.Exporter.Export(e.deps.Ledger.History()); err != nil {
			e.logger.Error("trade history export failed", slog.Any("error", err))
		}
	}
}

// stressReport shocks the reference book and reprices the synthetic spot
// against it.
func (e *Engine) stressReport(view marketstate.View) {
	binanceBook, ok := bookFrom(view, venue.Binance, e.params.Symbol)
	if !ok {
		return
	}

	shocked := risk.PriceShock(binanceBook, e.params.StressShockPct)
	synthetic := synth.SyntheticSpot(shocked, e.params.Leverage, e.params.FundingRate)

	e.logger.Info("stress test price shock",
		slog.Float64("shock_pct", e.params.StressShockPct),
		slog.Float64("old_bid", binanceBook.BestBid),
		slog.Float64("shocked_bid", shocked.BestBid),
		slog.Float64("shocked_synthetic_spot", synthetic.Price),
	)
}

// logFundingImpact reports the funding cost of holding the given notional.
func (e *Engine) logFundingImpact(fundingRate, capital float64) {
	e.logger.Info("funding rate impact",
		slog.String("symbol", e.params.Symbol),
		slog.Float64("funding_rate", fundingRate),
		slog.Float64("cost", fundingRate*capital),
	)
}

// logLiquidityAlert warns when the top of book cannot absorb requiredQty.
func (e *Engine) logLiquidityAlert(book domain.OrderBookSnapshot, requiredQty float64) {
	if book.BestBidQty < requiredQty || book.BestAskQty < requiredQty {
		e.logger.Warn("liquidity alert: insufficient top-of-book depth",
			slog.String("symbol", e.params.Symbol),
			slog.String("venue", book.Venue),
			slog.Float64("required_qty", requiredQty),
			slog.Float64("bid_qty", book.BestBidQty),
			slog.Float64("ask_qty", book.BestAskQty),
		)
	}
}

// logBasisRisk reports the synthetic/real basis in absolute and percent terms.
func (e *Engine) logBasisRisk(realPrice, syntheticPrice float64) {
	basis := syntheticPrice - realPrice
	basisPct := 0.0
	if realPrice != 0 {
		basisPct = basis / realPrice * 100
	}
	e.logger.Info("basis risk",
		slog.String("symbol", e.params.Symbol),
		slog.Float64("basis", basis),
		slog.Float64("basis_pct", basisPct),
	)
}

func bookFrom(view marketstate.View, venueName, symbol string) (domain.OrderBookSnapshot, bool) {
	books, ok := view.Books[venueName]
	if !ok {
		return domain.OrderBookSnapshot{}, false
	}
	book, ok := books[symbol]
	return book, ok
}

// opportunityEvent is the wire form of an admitted opportunity.
type opportunityEvent struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Strategy   string    `json:"strategy"`
	LongVenue  string    `json:"long_venue"`
	ShortVenue string    `json:"short_venue"`
	LongPrice  float64   `json:"long_price"`
	ShortPrice float64   `json:"short_price"`
	ProfitPct  float64   `json:"profit_pct"`
	Capital    float64   `json:"capital"`
	DetectedAt time.Time `json:"detected_at"`
}

// tradeEvent is the wire form of an executed trade.
type tradeEvent struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Strategy    string    `json:"strategy"`
	BuyVenue    string    `json:"buy_venue"`
	SellVenue   string    `json:"sell_venue"`
	BuyPrice    float64   `json:"buy_price"`
	SellPrice   float64   `json:"sell_price"`
	CapitalUsed float64   `json:"capital_used"`
	Profit      float64   `json:"profit"`
	ExecutedAt  time.Time `json:"executed_at"`
}

func (e *Engine) publishOpportunity(ctx context.Context, opp domain.ArbitrageOpportunity) {
	if e.deps.Bus == nil {
		return
	}

	payload, err := json.Marshal(opportunityEvent{
		ID:         opp.ID,
		Symbol:     opp.Symbol,
		Strategy:   opp.Strategy,
		LongVenue:  opp.LongVenue,
		ShortVenue: opp.ShortVenue,
		LongPrice:  opp.LongPrice,
		ShortPrice: opp.ShortPrice,
		ProfitPct:  opp.ProfitPct,
		Capital:    opp.Capital,
		DetectedAt: opp.DetectedAt,
	})
	if err != nil {
		e.logger.Error("marshal opportunity event", slog.Any("error", err))
		return
	}

	if err := e.deps.Bus.Publish(ctx, bus.ChannelOpportunities, payload); err != nil {
		e.logger.Warn("publish opportunity failed", slog.Any("error", err))
	}
}

func (e *Engine) publishTrade(ctx context.Context, trade domain.ExecutedTrade) {
	if e.deps.Bus == nil {
		return
	}

	payload, err := json.Marshal(tradeEvent{
		ID:          trade.ID,
		Symbol:      trade.Symbol,
		Strategy:    trade.Strategy,
		BuyVenue:    trade.BuyVenue,
		SellVenue:   trade.SellVenue,
		BuyPrice:    trade.BuyPrice,
		SellPrice:   trade.SellPrice,
		CapitalUsed: trade.CapitalUsed,
		Profit:      trade.Profit,
		ExecutedAt:  trade.ExecutedAt,
	})
	if err != nil {
		e.logger.Error("marshal trade event", slog.Any("error", err))
		return
	}

	if err := e.deps.Bus.Publish(ctx, bus.ChannelTrades, payload); err != nil {
		e.logger.Warn("publish trade failed", slog.Any("error", err))
	}
	if err := e.deps.Bus.StreamAppend(ctx, bus.StreamTrades, payload); err != nil {
		e.logger.Warn("stream trade failed", slog.Any("error", err))
	}
}
