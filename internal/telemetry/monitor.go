// Package telemetry tracks decision-cycle latency and processed-update
// counts, reported and reset once per report window.
package telemetry

import (
	"log/slog"
	"time"
)

// Monitor accumulates per-cycle latency and update counts. It is owned by
// the decision goroutine and needs no locking.
type Monitor struct {
	cycleStart   time.Time
	totalLatency time.Duration
	cycles       int
	logger       *slog.Logger
}

// NewMonitor creates a Monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	return &Monitor{logger: logger.With(slog.String("component", "telemetry"))}
}

// CycleStart marks the beginning of a decision cycle.
func (m *Monitor) CycleStart() {
	m.cycleStart = time.Now()
}

// CycleEnd accumulates the elapsed cycle latency and bumps the cycle count.
func (m *Monitor) CycleEnd() {
	if m.cycleStart.IsZero() {
		return
	}
	m.totalLatency += time.Since(m.cycleStart)
	m.cycles++
	m.cycleStart = time.Time{}
}

// AvgLatency returns the mean cycle latency for the current window.
func (m *Monitor) AvgLatency() time.Duration {
	if m.cycles == 0 {
		return 0
	}
	return m.totalLatency / time.Duration(m.cycles)
}

// Cycles returns the number of completed cycles in the current window.
func (m *Monitor) Cycles() int {
	return m.cycles
}

// Report logs the window's metrics and resets the counters.
func (m *Monitor) Report() {
	m.logger.Info("performance metrics",
		slog.Int("cycles", m.cycles),
		slog.Duration("avg_cycle_latency", m.AvgLatency()),
	)
	m.totalLatency = 0
	m.cycles = 0
}
