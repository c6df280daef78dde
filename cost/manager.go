package cost

import (
	"log/slog"

	"github.com/encodeous/nlsrcore/state"
)

// CostFunc is the pluggable per-neighbour cost-override signature the
// LinkCostManager holds.
type CostFunc func(neighbor state.RouterName, rttBasedCost float64, metrics LinkMetrics) float64

// LinkCostManager is the external, consumed collaborator that owns the
// single cost-override callback slot used by the shortest-path calculator.
// Setting a new callback replaces the prior one; clearing restores default
// (unadjusted) behavior. This core never implements LinkCostManager itself.
type LinkCostManager interface {
	SetLoadAwareCostCalculator(fn CostFunc)
	ClearLoadAwareCostCalculator()
}

// Registration is the explicit handle returned by Register, a scoped
// acquisition/guaranteed-release pattern: hold the handle, call Unregister
// on every exit path.
type Registration struct {
	manager LinkCostManager
}

// Register installs strategy as manager's cost-override callback and
// returns a handle to later remove it.
func Register(manager LinkCostManager, strategy Strategy) *Registration {
	manager.SetLoadAwareCostCalculator(func(_ state.RouterName, rttBasedCost float64, metrics LinkMetrics) float64 {
		return strategy.AdjustedCost(rttBasedCost, metrics)
	})
	return &Registration{manager: manager}
}

// Unregister clears the callback slot, restoring the manager's default
// (unadjusted) behavior. Safe to call more than once.
func (r *Registration) Unregister() {
	if r.manager == nil {
		return
	}
	r.manager.ClearLoadAwareCostCalculator()
	r.manager = nil
}

// Module wires a LoadAwareCalculator into a LinkCostManager for the
// lifetime of a state.State, implementing state.NyModule so core.Bootstrap
// can start/stop it alongside the Hello engine.
type Module struct {
	*LoadAwareCalculator
	manager LinkCostManager
	reg     *Registration
}

// NewModule builds a cost Module that will register itself with manager on
// Init and unregister on Cleanup.
func NewModule(manager LinkCostManager, weights Weights) *Module {
	return &Module{
		LoadAwareCalculator: NewLoadAwareCalculator(weights),
		manager:             manager,
	}
}

func (m *Module) Init(s *state.State) error {
	var strategy Strategy = m.LoadAwareCalculator
	if state.DebugLogCost {
		strategy = loggingStrategy{inner: m.LoadAwareCalculator, log: s.Log}
	}
	m.reg = Register(m.manager, strategy)
	s.Log.Debug("registered load-aware cost calculator")
	return nil
}

// loggingStrategy wraps a Strategy with a per-call debug log line, enabled
// by state.DebugLogCost.
type loggingStrategy struct {
	inner Strategy
	log   *slog.Logger
}

func (l loggingStrategy) AdjustedCost(rttBasedCost float64, metrics LinkMetrics) float64 {
	adjusted := l.inner.AdjustedCost(rttBasedCost, metrics)
	l.log.Debug("cost adjustment", "neighbor", metrics.Neighbor.String(), "base", rttBasedCost, "adjusted", adjusted)
	return adjusted
}

func (m *Module) Cleanup(s *state.State) error {
	m.reg.Unregister()
	s.Log.Debug("unregistered load-aware cost calculator")
	return nil
}
