// Package history exports the executed-trade ledger to CSV. The export is
// idempotent and side-effect-free on core state: each call rewrites the full
// file from the current history.
package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

var header = []string{
	"timestamp", "symbol", "strategy", "buy_venue", "sell_venue",
	"buy_price", "sell_price", "capital_used", "profit",
}

// CSVExporter writes trade history to a file path.
type CSVExporter struct {
	path string
}

// NewCSVExporter creates an exporter targeting path.
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Export writes the full trade history to the configured path, header first.
func (e *CSVExporter) Export(trades []domain.ExecutedTrade) error {
	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("history: create %s: %w", e.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("history: write header: %w", err)
	}
	for _, t := range trades {
		row := []string{
			t.ExecutedAt.UTC().Format(time.RFC3339),
			t.Symbol,
			t.Strategy,
			t.BuyVenue,
			t.SellVenue,
			strconv.FormatFloat(t.BuyPrice, 'f', -1, 64),
			strconv.FormatFloat(t.SellPrice, 'f', -1, 64),
			strconv.FormatFloat(t.CapitalUsed, 'f', -1, 64),
			strconv.FormatFloat(t.Profit, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("history: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("history: flush: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.TradeExporter = (*CSVExporter)(nil)
