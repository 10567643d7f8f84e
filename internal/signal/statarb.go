// Package signal contains the statistical signal generators that run inside
// the decision cycle: z-score mean reversion on spread history, Pearson
// correlation divergence between venue price series, and the liquidity and
// market-impact estimators that gate execution.
package signal

import (
	"log/slog"
	"math"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/stats"
)

const (
	// spreadWindow is the rolling window capacity per spread key.
	spreadWindow = 100
	// minSpreadSamples is the minimum history before a z-score is emitted.
	minSpreadSamples = 20
)

// StatArb detects mean-reversion signals from rolling per-key spread
// history. It is confined to the decision goroutine and needs no locking.
type StatArb struct {
	spreads map[string]*stats.Series
	logger  *slog.Logger
}

// NewStatArb creates a StatArb engine.
func NewStatArb(logger *slog.Logger) *StatArb {
	return &StatArb{
		spreads: make(map[string]*stats.Series),
		logger:  logger.With(slog.String("component", "stat_arb")),
	}
}

// UpdateSpread appends a spread sample to the key's rolling window.
func (s *StatArb) UpdateSpread(key string, spread float64) {
	s.series(key).Append(spread)
}

// ZScore standardizes the current spread against the key's window. It is
// neutral (0) below minSpreadSamples samples and on flat history.
func (s *StatArb) ZScore(key string, currentSpread float64) float64 {
	return s.series(key).ZScore(currentSpread, minSpreadSamples)
}

// IsMeanReversionSignal appends the current spread to the key's history and
// then reports whether |z| meets the threshold.
func (s *StatArb) IsMeanReversionSignal(key string, currentSpread, thresholdZ float64) bool {
	s.UpdateSpread(key, currentSpread)
	z := s.ZScore(key, currentSpread)
	if math.Abs(z) >= thresholdZ {
		s.logger.Info("mean reversion signal",
			slog.String("key", key),
			slog.Float64("spread", currentSpread),
			slog.Float64("zscore", z),
		)
		return true
	}
	return false
}

func (s *StatArb) series(key string) *stats.Series {
	sr, ok := s.spreads[key]
	if !ok {
		sr = stats.NewSeries(spreadWindow)
		s.spreads[key] = sr
	}
	return sr
}
