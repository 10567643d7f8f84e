package signal

import (
	"log/slog"
	"math"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/stats"
)

// correlationWindow is the rolling window capacity per symbol.
const correlationWindow = 100

// CorrelationAnalyzer tracks per-symbol price history and flags pairs whose
// correlation drops below a threshold, a sign that a normally co-moving pair
// is diverging.
type CorrelationAnalyzer struct {
	prices    map[string]*stats.Series
	threshold float64
	logger    *slog.Logger
}

// NewCorrelationAnalyzer creates an analyzer that alerts when |correlation|
// falls below threshold (e.g. 0.85).
func NewCorrelationAnalyzer(threshold float64, logger *slog.Logger) *CorrelationAnalyzer {
	return &CorrelationAnalyzer{
		prices:    make(map[string]*stats.Series),
		threshold: threshold,
		logger:    logger.With(slog.String("component", "correlation")),
	}
}

// UpdatePrice appends a price sample to the symbol's rolling window.
func (c *CorrelationAnalyzer) UpdatePrice(symbol string, price float64) {
	sr, ok := c.prices[symbol]
	if !ok {
		sr = stats.NewSeries(correlationWindow)
		c.prices[symbol] = sr
	}
	sr.Append(price)
}

// Correlation returns the Pearson correlation between two symbols' windows,
// or 0 when either window is missing, the lengths differ, or fewer than two
// samples exist.
func (c *CorrelationAnalyzer) Correlation(symbolA, symbolB string) float64 {
	a, okA := c.prices[symbolA]
	b, okB := c.prices[symbolB]
	if !okA || !okB {
		return 0
	}
	return stats.Correlation(a, b)
}

// CheckDivergence reports whether the pair's correlation has dropped below
// the configured threshold, logging an alert when it has.
func (c *CorrelationAnalyzer) CheckDivergence(symbolA, symbolB string) bool {
	corr := c.Correlation(symbolA, symbolB)
	if math.Abs(corr) >= c.threshold {
		return false
	}
	c.logger.Warn("correlation divergence",
		slog.String("symbol_a", symbolA),
		slog.String("symbol_b", symbolB),
		slog.Float64("correlation", corr),
		slog.Float64("threshold", c.threshold),
	)
	return true
}
