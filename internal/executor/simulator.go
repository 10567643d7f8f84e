// Package executor simulates execution of admitted arbitrage opportunities:
// it sizes the position, applies stop-loss/take-profit checks against a
// simulated mark, adjusts both legs for estimated slippage, and records the
// realized result in the ledger and the VaR history.
package executor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/risk"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/signal"
)

// Simulator executes admitted opportunities against a slippage model and
// writes the results to the ledger and the VaR estimator.
type Simulator struct {
	impact *signal.MarketImpact
	limits domain.RiskLimits
	ledger *Ledger
	varEst *risk.VaREstimator
	logger *slog.Logger
}

// NewSimulator creates a Simulator.
func NewSimulator(impact *signal.MarketImpact, limits domain.RiskLimits, ledger *Ledger, varEst *risk.VaREstimator, logger *slog.Logger) *Simulator {
	return &Simulator{
		impact: impact,
		limits: limits,
		ledger: ledger,
		varEst: varEst,
		logger: logger.With(slog.String("component", "executor")),
	}
}

// Execute simulates the fill of an admitted opportunity. It returns the
// recorded trade and true on success; a zero trade and false when the
// opportunity was rejected (non-positive capital) or aborted (stop-loss).
func (s *Simulator) Execute(opp domain.ArbitrageOpportunity) (domain.ExecutedTrade, bool) {
	if opp.Capital <= 0 {
		s.logger.Warn("trade rejected: non-positive capital",
			slog.String("opp_id", opp.ID),
			slog.Float64("capital", opp.Capital),
		)
		return domain.ExecutedTrade{}, false
	}

	// The gate admits only capital within the configured maximum; a larger
	// bound reaching execution is a programming defect, not a market
	// condition.
	if s.limits.MaxCapitalPerTrade > 0 && opp.Capital > s.limits.MaxCapitalPerTrade {
		panic(fmt.Sprintf("executor: capital bound %.2f exceeds max %.2f for %s",
			opp.Capital, s.limits.MaxCapitalPerTrade, opp.ID))
	}

	entryBuy := opp.LongPrice
	entrySell := opp.ShortPrice

	quantity := risk.PositionSize(opp.Capital, entryBuy, s.limits.RiskPerTrade)
	capitalUsed := quantity * entryBuy

	// Simulated mark between the two legs stands in for a live feed.
	markPrice := (entryBuy + entrySell) / 2

	if risk.ShouldStopLoss(entryBuy, markPrice, s.limits.StopLossPct) {
		s.logger.Warn("stop-loss triggered, trade aborted",
			slog.String("opp_id", opp.ID),
			slog.Float64("entry", entryBuy),
			slog.Float64("mark", markPrice),
		)
		return domain.ExecutedTrade{}, false
	}
	if risk.ShouldTakeProfit(entryBuy, markPrice, s.limits.TakeProfitPct) {
		s.logger.Info("take-profit threshold reached",
			slog.String("opp_id", opp.ID),
			slog.Float64("entry", entryBuy),
			slog.Float64("mark", markPrice),
		)
	}

	slippageBuyPct := s.impact.EstimateSlippagePct(opp.LongBook, opp.Capital)
	slippageSellPct := s.impact.EstimateSlippagePct(opp.ShortBook, opp.Capital)

	adjustedBuy := entryBuy * (1 + slippageBuyPct/100)
	adjustedSell := entrySell * (1 - slippageSellPct/100)
	profit := (adjustedSell - adjustedBuy) * quantity

	trade := domain.ExecutedTrade{
		ID:          uuid.New().String(),
		Symbol:      opp.Symbol,
		Strategy:    opp.Strategy,
		BuyVenue:    opp.LongVenue,
		SellVenue:   opp.ShortVenue,
		BuyPrice:    entryBuy,
		SellPrice:   entrySell,
		CapitalUsed: capitalUsed,
		Profit:      profit,
		ExecutedAt:  time.Now().UTC(),
	}

	s.ledger.Append(trade)
	s.varEst.AddPnL(profit)

	s.logger.Info("trade executed",
		slog.String("trade_id", trade.ID),
		slog.String("symbol", trade.Symbol),
		slog.String("buy_venue", trade.BuyVenue),
		slog.String("sell_venue", trade.SellVenue),
		slog.Float64("buy_price", entryBuy),
		slog.Float64("sell_price", entrySell),
		slog.Float64("adjusted_buy", adjustedBuy),
		slog.Float64("adjusted_sell", adjustedSell),
		slog.Float64("capital_used", capitalUsed),
		slog.Float64("profit", profit),
	)

	return trade, true
}
