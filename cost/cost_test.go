package cost

import (
	"testing"
	"time"

	"github.com/encodeous/nlsrcore/state"
	"github.com/stretchr/testify/require"
)

func ms(v int) *time.Duration {
	d := time.Duration(v) * time.Millisecond
	return &d
}

func msf(v float64) *time.Duration {
	d := time.Duration(v * float64(time.Millisecond))
	return &d
}

func u32(v uint32) *uint32 { return &v }

func TestNonPositiveInputsPassThrough(t *testing.T) {
	c := NewLoadAwareCalculator(Weights{Rtt: 0.3, Load: 0.4, Stability: 0.3})
	require.Equal(t, 0.0, c.AdjustedCost(0, LinkMetrics{OriginalCost: 100}))
	require.Equal(t, -5.0, c.AdjustedCost(-5, LinkMetrics{OriginalCost: 100}))
	require.Equal(t, 10.0, c.AdjustedCost(10, LinkMetrics{OriginalCost: 0}))
}

func TestFewSamplesZeroTimeoutsRecentSuccess(t *testing.T) {
	// |history|<3, zero timeouts, recent success ->
	// rttBasedCost * (1 + w_R * f_R) exactly.
	c := NewLoadAwareCalculator(Weights{Rtt: 0.3, Load: 0.4, Stability: 0.3})
	now := time.Now()
	c.Clock = func() time.Time { return now }

	metrics := LinkMetrics{
		Neighbor:        state.ParseRouterName("/router/n"),
		OriginalCost:    100,
		CurrentRtt:      ms(60),
		TimeoutCount:    u32(0),
		LastSuccessTime: &now,
	}
	got := c.AdjustedCost(100, metrics)
	want := 100 * (1 + 0.3*0.5) // f_R(60ms) = 0.5
	require.InDelta(t, want, got, 1e-9)
}

func TestScenarioS4CompositeAdjustment(t *testing.T) {
	c := NewLoadAwareCalculator(Weights{Rtt: 0.3, Load: 0.4, Stability: 0.3})
	now := time.Now()
	c.Clock = func() time.Time { return now }
	last := now.Add(-120 * time.Second)
	neighbor := state.ParseRouterName("/router/n")

	// seed history with mean=60, population stddev=18; appending the
	// current 60ms sample keeps the mean at 60 (v stays in the (0.2,0.5]
	// bucket, f_L=0.7).
	c.history[neighbor.String()] = []float64{78, 78, 42, 42}

	metrics := LinkMetrics{
		Neighbor:        neighbor,
		OriginalCost:    100,
		CurrentRtt:      ms(60),
		TimeoutCount:    u32(2),
		LastSuccessTime: &last,
	}
	got := c.AdjustedCost(100, metrics)
	require.InDelta(t, 161.0, got, 0.5)
}

func TestScenarioS5ClampLow(t *testing.T) {
	c := NewLoadAwareCalculator(Weights{Rtt: 0.3, Load: 0.4, Stability: 0.3})
	now := time.Now()
	c.Clock = func() time.Time { return now }
	got := c.AdjustedCost(10, LinkMetrics{
		Neighbor:        state.ParseRouterName("/router/n"),
		OriginalCost:    100,
		LastSuccessTime: &now,
	})
	require.Equal(t, 50.0, got)
}

func TestScenarioS6ClampHigh(t *testing.T) {
	c := NewLoadAwareCalculator(Weights{Rtt: 0.3, Load: 0.4, Stability: 0.3})
	now := time.Now()
	c.Clock = func() time.Time { return now }
	neighbor := state.ParseRouterName("/router/n")

	// force f_R=2.0 (rtt > 200ms), f_L=1.5 (v>0.5), f_S=2.0 (staleness
	// term saturates its min(2.0, ...) cap).
	c.history[neighbor.String()] = []float64{1, 1000, 1, 1000, 1}
	stale := now.Add(-2 * time.Hour)
	got := c.AdjustedCost(200, LinkMetrics{
		Neighbor:        neighbor,
		OriginalCost:    100,
		CurrentRtt:      ms(250),
		LastSuccessTime: &stale,
	})
	require.Equal(t, 300.0, got)
}

func TestRttFactorBoundary(t *testing.T) {
	require.Equal(t, 0.0, rttFactor(ms(10)))
	require.Equal(t, 0.2, rttFactor(msf(10.0001)))
	require.Equal(t, 0.0, rttFactor(nil))
}

func TestLoadFactorBoundary(t *testing.T) {
	c := NewLoadAwareCalculator(Weights{})

	// low, comfortably within v <= 0.1 -> 0.0
	neighbor := state.ParseRouterName("/router/n")
	c.history[neighbor.String()] = []float64{99, 100, 101}
	require.Equal(t, 0.0, c.loadFactor(neighbor, nil))

	// v > 0.1 -> 0.3
	neighbor2 := state.ParseRouterName("/router/m")
	c.history[neighbor2.String()] = []float64{80, 100, 120}
	require.Equal(t, 0.3, c.loadFactor(neighbor2, nil))
}

func TestLoadFactorFewerThanThreeSamples(t *testing.T) {
	c := NewLoadAwareCalculator(Weights{})
	require.Equal(t, 0.0, c.loadFactor(state.ParseRouterName("/router/n"), ms(50)))
}

func TestStabilityFactorBoundary(t *testing.T) {
	now := time.Now()
	require.Equal(t, 0.0, stabilityFactor(u32(0), &now, now))
}

func TestStabilityFactorTimeoutsOnly(t *testing.T) {
	require.InDelta(t, 0.6, stabilityFactor(u32(3), nil, time.Now()), 1e-9)
}

func TestLoadFactorHistoryCapped(t *testing.T) {
	c := NewLoadAwareCalculator(Weights{})
	neighbor := state.ParseRouterName("/router/n")
	for i := 0; i < state.MaxRttHistory+5; i++ {
		c.loadFactor(neighbor, ms(50))
	}
	require.Len(t, c.history[neighbor.String()], state.MaxRttHistory)
}

func TestRegisterAndUnregisterRestoresDefault(t *testing.T) {
	m := &recordingManager{}
	calc := NewLoadAwareCalculator(Weights{Rtt: 0.3, Load: 0.4, Stability: 0.3})
	reg := Register(m, calc)
	require.NotNil(t, m.fn)

	reg.Unregister()
	require.True(t, m.cleared)
	reg.Unregister() // idempotent
}

type recordingManager struct {
	fn      CostFunc
	cleared bool
}

func (r *recordingManager) SetLoadAwareCostCalculator(fn CostFunc) { r.fn = fn }
func (r *recordingManager) ClearLoadAwareCostCalculator()          { r.cleared = true; r.fn = nil }
