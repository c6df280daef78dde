// Package cost implements the load-aware link-cost calculator: a
// composite-cost function, registered as a pluggable hook with a
// LinkCostManager, that adjusts a baseline RTT-derived cost by latency
// class, load (RTT variance), and stability (timeouts, recency of last
// success) before the shortest-path calculator consumes it.
package cost

import (
	"math"
	"sync"
	"time"

	"github.com/encodeous/nlsrcore/state"
)

// LinkMetrics is an immutable per-query snapshot handed to a Strategy; the
// calculator never mutates it.
type LinkMetrics struct {
	Neighbor        state.RouterName
	OriginalCost    float64
	CurrentRtt      *time.Duration
	TimeoutCount    *uint32
	LastSuccessTime *time.Time
}

// Strategy is the pluggable cost-adjustment function shape. LoadAwareCalculator
// is the only implementation in this core; the interface exists so a second
// strategy (e.g. a learned/ML cost model) could be swapped in behind the
// same LinkCostManager hook without touching the Hello engine.
type Strategy interface {
	AdjustedCost(rttBasedCost float64, metrics LinkMetrics) float64
}

// Weights are the composite-cost blend coefficients (default 0.3/0.4/0.3).
type Weights struct {
	Rtt       float64
	Load      float64
	Stability float64
}

// LoadAwareCalculator computes a composite cost by blending latency class,
// RTT variance, and stability into a baseline RTT-derived cost. It owns its
// RTT history exclusively: no other component reads or writes it.
type LoadAwareCalculator struct {
	mu      sync.Mutex
	weights Weights
	history map[string][]float64 // milliseconds, oldest first, per neighbour

	// Clock is overridable for tests; defaults to time.Now.
	Clock func() time.Time
}

// NewLoadAwareCalculator builds a calculator with the given blend weights.
func NewLoadAwareCalculator(weights Weights) *LoadAwareCalculator {
	return &LoadAwareCalculator{
		weights: weights,
		history: make(map[string][]float64),
		Clock:   time.Now,
	}
}

// AdjustedCost implements Strategy: blend the latency-class, load, and
// stability factors into rttBasedCost, then clamp to [0.5x, 3.0x] the
// original cost.
func (c *LoadAwareCalculator) AdjustedCost(rttBasedCost float64, metrics LinkMetrics) float64 {
	if rttBasedCost <= 0 || metrics.OriginalCost <= 0 {
		return rttBasedCost
	}

	rF := rttFactor(metrics.CurrentRtt)
	lF := c.loadFactor(metrics.Neighbor, metrics.CurrentRtt)
	sF := stabilityFactor(metrics.TimeoutCount, metrics.LastSuccessTime, c.Clock())

	adjustment := c.weights.Rtt*rF + c.weights.Load*lF + c.weights.Stability*sF
	adjusted := rttBasedCost * (1 + adjustment)

	lo := 0.5 * metrics.OriginalCost
	hi := 3.0 * metrics.OriginalCost
	return clamp(adjusted, lo, hi)
}

// rttFactor is f_R: the stepwise latency-class factor. A nil currentRtt (no
// sample this query) returns 0.0 unconditionally, even with existing
// history -- deliberate, not an oversight.
func rttFactor(currentRtt *time.Duration) float64 {
	if currentRtt == nil {
		return 0.0
	}
	ms := float64(*currentRtt) / float64(time.Millisecond)
	switch {
	case ms <= 10:
		return 0.0
	case ms <= 50:
		return 0.2
	case ms <= 100:
		return 0.5
	case ms <= 200:
		return 1.0
	default:
		return 2.0
	}
}

// loadFactor is f_L. It appends currentRtt (if present) to the neighbour's
// history before computing the coefficient of variation. When currentRtt is
// absent but a history already exists, this still only inspects that
// history (it does not add a sample) and returns based on whatever is
// already there. Deliberate, not a bug -- do not change it to require a
// fresh sample.
func (c *LoadAwareCalculator) loadFactor(neighbor state.RouterName, currentRtt *time.Duration) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := neighbor.String()
	hist := c.history[key]
	if currentRtt != nil {
		ms := float64(*currentRtt) / float64(time.Millisecond)
		hist = append(hist, ms)
		if len(hist) > state.MaxRttHistory {
			hist = hist[len(hist)-state.MaxRttHistory:]
		}
		c.history[key] = hist
	}

	if len(hist) < 3 {
		return 0.0
	}

	mean, stddev := populationMeanStdDev(hist)
	v := 0.0
	if mean > 0 {
		v = stddev / mean
	}
	switch {
	case v <= 0.1:
		return 0.0
	case v <= 0.2:
		return 0.3
	case v <= 0.5:
		return 0.7
	default:
		return 1.5
	}
}

// stabilityFactor is f_S: timeout count and staleness of last success.
func stabilityFactor(timeoutCount *uint32, lastSuccessTime *time.Time, now time.Time) float64 {
	factor := 0.0
	if timeoutCount != nil {
		factor += 0.2 * float64(*timeoutCount)
	}
	if lastSuccessTime != nil {
		since := now.Sub(*lastSuccessTime)
		if since > 60*time.Second {
			factor += math.Min(2.0, since.Seconds()/60*0.1)
		}
	}
	return factor
}

// populationMeanStdDev computes the mean and population standard deviation
// (divisor n, not n-1) over samples. Deliberate; do not switch to sample
// stddev.
func populationMeanStdDev(samples []float64) (mean, stddev float64) {
	n := float64(len(samples))
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	mean = sum / n

	var sqDiffSum float64
	for _, s := range samples {
		d := s - mean
		sqDiffSum += d * d
	}
	stddev = math.Sqrt(sqDiffSum / n)
	return
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
