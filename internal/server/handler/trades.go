package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/executor"
	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/risk"
)

// TradesHandler serves the executed-trade ledger and derived summaries.
type TradesHandler struct {
	ledger *executor.Ledger
	varEst *risk.VaREstimator
	logger *slog.Logger
}

// NewTradesHandler creates a TradesHandler over the ledger and VaR estimator.
func NewTradesHandler(ledger *executor.Ledger, varEst *risk.VaREstimator, logger *slog.Logger) *TradesHandler {
	return &TradesHandler{ledger: ledger, varEst: varEst, logger: logger}
}

type tradeJSON struct {
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

// ListTrades returns the most recent executed trades, newest last.
// GET /api/trades?limit=N
func (h *TradesHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	trades := h.ledger.History()
	if len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}

	out := make([]tradeJSON, 0, len(trades))
	for _, t := range trades {
		out = append(out, tradeJSON{
			ID:          t.ID,
			Symbol:      t.Symbol,
			Strategy:    t.Strategy,
			BuyVenue:    t.BuyVenue,
			SellVenue:   t.SellVenue,
			BuyPrice:    t.BuyPrice,
			SellPrice:   t.SellPrice,
			CapitalUsed: t.CapitalUsed,
			Profit:      t.Profit,
			ExecutedAt:  t.ExecutedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trades": out,
		"count":  len(out),
	})
}

// GetPnL returns the running profit summary.
// GET /api/pnl
func (h *TradesHandler) GetPnL(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"trades":       h.ledger.TradeCount(),
		"total_profit": h.ledger.TotalProfit(),
	})
}

// GetVaR returns the historical-simulation VaR at the standard confidence
// levels.
// GET /api/var
func (h *TradesHandler) GetVaR(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"samples": h.varEst.SampleCount(),
		"var_95":  h.varEst.HistoricalVaR(0.95),
		"var_99":  h.varEst.HistoricalVaR(0.99),
	})
}
