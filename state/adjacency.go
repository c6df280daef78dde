package state

import (
	"sync"
	"time"
)

// Status is the liveness state of a configured neighbour.
type Status int

const (
	// StatusInactive is the initial status of every configured neighbour,
	// and the status after a neighbour fails to respond retryLimit times.
	StatusInactive Status = iota
	// StatusActive means at least one probe response has been validated
	// since the most recent transition to Inactive.
	StatusActive
)

func (s Status) String() string {
	if s == StatusActive {
		return "ACTIVE"
	}
	return "INACTIVE"
}

// Adjacency is a configured neighbour router and its liveness state.
type Adjacency struct {
	Name RouterName
	// FaceId is non-negative; 0 means "no face bound yet; do not probe".
	FaceId uint64
	Status Status
	// TimedOutCount is monotonically non-decreasing between status
	// transitions, and reset to 0 on any validated response.
	TimedOutCount uint32

	LastSuccess time.Time
	LastRtt     time.Duration
	hasSuccess  bool
	hasRtt      bool
}

// LastSuccessTime returns the last validated-response instant, and whether
// one has ever been recorded.
func (a *Adjacency) LastSuccessTime() (time.Time, bool) {
	return a.LastSuccess, a.hasSuccess
}

// LastObservedRtt returns the most recently observed RTT, and whether one
// has ever been recorded.
func (a *Adjacency) LastObservedRtt() (time.Duration, bool) {
	return a.LastRtt, a.hasRtt
}

// AdjacencyList is the mutable registry of configured neighbours. It is
// populated once from configuration at init; there is no runtime add/remove
// within this core. All mutating methods must only be called from the
// single logical executor (see Env); the internal mutex exists only to let
// read-only accessors (e.g. the inspect CLI command) observe state safely
// from another goroutine.
type AdjacencyList struct {
	mu   sync.RWMutex
	byID map[string]*Adjacency
}

// NewAdjacencyList builds an adjacency list from a configured neighbour set.
// Every neighbour starts INACTIVE with TimedOutCount 0, per the data model.
func NewAdjacencyList(neighbours []AdjacencyCfg) *AdjacencyList {
	al := &AdjacencyList{byID: make(map[string]*Adjacency, len(neighbours))}
	for _, n := range neighbours {
		name := ParseRouterName(n.Name)
		al.byID[name.String()] = &Adjacency{
			Name:   name,
			FaceId: n.FaceId,
			Status: StatusInactive,
		}
	}
	return al
}

// Find returns the adjacency record for name, or nil if unconfigured.
func (l *AdjacencyList) Find(name RouterName) *Adjacency {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byID[name.String()]
}

// IsNeighbor reports whether name is a configured neighbour.
func (l *AdjacencyList) IsNeighbor(name RouterName) bool {
	return l.Find(name) != nil
}

// StatusOf returns the neighbour's status, defaulting to INACTIVE for an
// unconfigured name.
func (l *AdjacencyList) StatusOf(name RouterName) Status {
	if a := l.Find(name); a != nil {
		return a.Status
	}
	return StatusInactive
}

// SetStatus mutates a neighbour's status. A transition to ACTIVE resets
// TimedOutCount to 0, per the invariant in the data model.
func (l *AdjacencyList) SetStatus(name RouterName, status Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.byID[name.String()]
	if !ok {
		return
	}
	a.Status = status
	if status == StatusActive {
		a.TimedOutCount = 0
	}
}

// IncrementTimeouts increments a neighbour's TimedOutCount by one.
func (l *AdjacencyList) IncrementTimeouts(name RouterName) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.byID[name.String()]; ok {
		a.TimedOutCount++
	}
}

// SetTimeouts overwrites a neighbour's TimedOutCount.
func (l *AdjacencyList) SetTimeouts(name RouterName, n uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.byID[name.String()]; ok {
		a.TimedOutCount = n
	}
}

// RecordSuccess stamps the telemetry fields touched by a validated response.
func (l *AdjacencyList) RecordSuccess(name RouterName, at time.Time, rtt time.Duration, hasRtt bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.byID[name.String()]
	if !ok {
		return
	}
	a.LastSuccess = at
	a.hasSuccess = true
	if hasRtt {
		a.LastRtt = rtt
		a.hasRtt = true
	}
}

// All returns a snapshot slice of all configured adjacencies, sorted by
// nothing in particular; used by the inspect CLI command and tests.
func (l *AdjacencyList) All() []Adjacency {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Adjacency, 0, len(l.byID))
	for _, a := range l.byID {
		out = append(out, *a)
	}
	return out
}
