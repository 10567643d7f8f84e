// Package stats provides the fixed-capacity rolling sample windows and the
// statistical helpers (mean, stddev, z-score, Pearson correlation) that the
// signal generators and the VaR estimator are built on.
package stats

import "math"

// Series is a bounded FIFO of float64 samples. When full, appending evicts
// the oldest sample first; the window never exceeds its capacity.
type Series struct {
	samples []float64
	cap     int
}

// NewSeries creates a Series holding at most capacity samples. Capacity must
// be positive.
func NewSeries(capacity int) *Series {
	if capacity <= 0 {
		capacity = 1
	}
	return &Series{
		samples: make([]float64, 0, capacity),
		cap:     capacity,
	}
}

// Append adds a sample, evicting the oldest one when the window is full.
func (s *Series) Append(v float64) {
	if len(s.samples) == s.cap {
		copy(s.samples, s.samples[1:])
		s.samples[len(s.samples)-1] = v
		return
	}
	s.samples = append(s.samples, v)
}

// Len returns the current number of samples.
func (s *Series) Len() int {
	return len(s.samples)
}

// Cap returns the window capacity.
func (s *Series) Cap() int {
	return s.cap
}

// Values returns a copy of the window, oldest first.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// Mean returns the arithmetic mean of the window, or 0 when empty.
func (s *Series) Mean() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.samples {
		sum += v
	}
	return sum / float64(len(s.samples))
}

// StdDev returns the population standard deviation of the window, or 0 when
// the window is empty.
func (s *Series) StdDev() float64 {
	n := len(s.samples)
	if n == 0 {
		return 0
	}
	mean := s.Mean()
	var sq float64
	for _, v := range s.samples {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n))
}

// ZScore standardizes v against the window. It returns 0 when the window
// holds fewer than minSamples samples or when the window is perfectly flat
// (stddev exactly 0). The flat-history case is a deliberate neutral-signal
// policy, not just a divide-by-zero guard: a constant history never emits a
// signal no matter how far v diverges.
func (s *Series) ZScore(v float64, minSamples int) float64 {
	if len(s.samples) < minSamples {
		return 0
	}
	sd := s.StdDev()
	if sd == 0 {
		return 0
	}
	return (v - s.Mean()) / sd
}

// Correlation computes the Pearson correlation coefficient over two equal
// windows. It returns 0 when the windows differ in length, hold fewer than
// two samples, or when either series is constant (zero denominator).
func Correlation(a, b *Series) float64 {
	x := a.samples
	y := b.samples
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	n := float64(len(x))
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	num := n*sumXY - sumX*sumY
	den := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if den == 0 {
		return 0
	}
	return num / den
}
