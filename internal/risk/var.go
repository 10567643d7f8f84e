package risk

import (
	"sort"
	"sync"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/stats"
)

// varWindow caps the P&L history used for VaR.
const varWindow = 1000

// VaREstimator computes historical-simulation Value-at-Risk over the last
// varWindow realized P&L samples. The decision goroutine writes; the HTTP
// API reads concurrently.
type VaREstimator struct {
	mu  sync.Mutex
	pnl *stats.Series
}

// NewVaREstimator creates an empty estimator.
func NewVaREstimator() *VaREstimator {
	return &VaREstimator{pnl: stats.NewSeries(varWindow)}
}

// AddPnL records a signed realized-profit sample, evicting the oldest sample
// once the window is full.
func (v *VaREstimator) AddPnL(pnl float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pnl.Append(pnl)
}

// SampleCount returns the number of recorded P&L samples.
func (v *VaREstimator) SampleCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pnl.Len()
}

// HistoricalVaR returns the loss at the given confidence level computed
// directly from observed history: negative samples are flipped to positive
// losses, sorted ascending, and the element at floor((1-confidence)*n) is
// returned. No distribution is assumed. With no losses recorded it returns 0.
func (v *VaREstimator) HistoricalVaR(confidence float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	var losses []float64
	for _, pnl := range v.pnl.Values() {
		if pnl < 0 {
			losses = append(losses, -pnl)
		}
	}
	if len(losses) == 0 {
		return 0
	}

	sort.Float64s(losses)
	idx := int((1 - confidence) * float64(len(losses)))
	if idx >= len(losses) {
		idx = len(losses) - 1
	}
	return losses[idx]
}
