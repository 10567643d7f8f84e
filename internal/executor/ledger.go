package executor

import (
	"sync"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// Ledger is the append-only record of simulated executions and the running
// total of realized profit. The decision goroutine writes; the HTTP API
// reads concurrently.
type Ledger struct {
	mu          sync.Mutex
	trades      []domain.ExecutedTrade
	totalProfit float64
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records a trade and accumulates its profit. Trades are immutable
// once recorded.
func (l *Ledger) Append(trade domain.ExecutedTrade) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades = append(l.trades, trade)
	l.totalProfit += trade.Profit
}

// TotalProfit returns the accumulated realized profit.
func (l *Ledger) TotalProfit() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalProfit
}

// TradeCount returns the number of recorded trades.
func (l *Ledger) TradeCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.trades)
}

// History returns a copy of the trade history, oldest first.
func (l *Ledger) History() []domain.ExecutedTrade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.ExecutedTrade, len(l.trades))
	copy(out, l.trades)
	return out
}
