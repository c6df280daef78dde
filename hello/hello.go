// Package hello implements the Hello Protocol: a neighbor-liveness state
// machine that probes each configured adjacent router and tracks its
// up/down status via request/response exchanges over a pluggable Face,
// triggering re-convergence of routing when adjacency status changes.
package hello

import (
	"fmt"
	"time"

	"github.com/encodeous/nlsrcore/state"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// Interest is a Hello probe: named "<neighbor>/NLSR/INFO/<self, wire
// encoded>" with a bounded lifetime.
type Interest struct {
	ID          uuid.UUID
	Name        state.RouterName
	Lifetime    time.Duration
	MustBeFresh bool
	CanBePrefix bool
}

// Data is a Hello response: the probe name with a version component
// appended, zero freshness, and the literal content "INFO".
type Data struct {
	Name            state.RouterName
	FreshnessPeriod time.Duration
	Content         []byte
	Signature       []byte
}

// Nack is a negative acknowledgment from the packet layer.
type Nack struct {
	Interest Interest
	Reason   string
}

// OnInterest is the inbound-probe callback registered via Face.SetFilter.
type OnInterest func(name state.RouterName, interest Interest)

// Face is the pluggable packet-transport collaborator; the full NDN
// face/transport layer lives outside this package.
type Face interface {
	// Express dispatches interest and arranges for exactly one of onData,
	// onNack, or onTimeout to be invoked with the outcome.
	Express(interest Interest, onData func(Interest, Data), onNack func(Interest, Nack), onTimeout func(Interest))
	// SetFilter registers an inbound-probe handler for prefix.
	SetFilter(prefix state.RouterName, onInterest OnInterest, onRegisterOk func(state.RouterName), onRegisterFail func(state.RouterName, string)) error
	// Put transmits a Data packet that was not solicited by a matching
	// Express call on this Face (i.e. a response to somebody else's
	// Interest).
	Put(data Data)
}

// Signer populates a Data's signature fields in place.
type Signer interface {
	Sign(data *Data) error
}

// Validator asynchronously validates a received Data packet, delivering
// the outcome on the same executor that called Validate.
type Validator interface {
	Validate(data Data, onValid func(Data), onInvalid func(Data, string))
}

// LSDB is the external Link-State Database collaborator.
type LSDB interface {
	ScheduleAdjLsaBuild()
}

// RoutingTable is the external shortest-path calculator collaborator.
type RoutingTable interface {
	ScheduleRecalculation()
}

// Config carries the Hello engine's tunables, resolved from state.LocalCfg.
type Config struct {
	SelfName     state.RouterName
	InfoInterval time.Duration
	ResendTime   time.Duration
	RetryLimit   int
	Mode         state.RoutingMode
	// ReactiveProbeSuppression, when positive, is the window during which
	// at most one reactive probe is issued toward a given neighbor; this
	// bounds probe bursts when many inbound Hello Interests from the same
	// still-inactive neighbor arrive in quick succession. Zero disables
	// suppression.
	ReactiveProbeSuppression time.Duration
}

// Engine is the Hello Protocol state machine: the outbound probe loop,
// inbound probe handler, response handler, timeout handler, and event
// emitter that together track each neighbor's liveness.
type Engine struct {
	face         Face
	signer       Signer
	validator    Validator
	lsdb         LSDB
	routingTable RoutingTable
	adjacencies  *state.AdjacencyList

	cfg          Config
	filterPrefix state.RouterName

	reactiveDedup *ttlcache.Cache[string, struct{}]
}

// NewEngine builds a Hello engine over the given collaborators and
// adjacency list. Init must be called (typically by core.Bootstrap via the
// state.NyModule contract) before probes are issued.
func NewEngine(face Face, signer Signer, validator Validator, lsdb LSDB, routingTable RoutingTable, adjacencies *state.AdjacencyList, cfg Config) *Engine {
	e := &Engine{
		face:         face,
		signer:       signer,
		validator:    validator,
		lsdb:         lsdb,
		routingTable: routingTable,
		adjacencies:  adjacencies,
		cfg:          cfg,
	}
	if cfg.ReactiveProbeSuppression > 0 {
		e.reactiveDedup = ttlcache.New[string, struct{}](
			ttlcache.WithTTL[string, struct{}](cfg.ReactiveProbeSuppression),
			ttlcache.WithDisableTouchOnHit[string, struct{}](),
		)
		go e.reactiveDedup.Start()
	}
	return e
}

// Init implements state.NyModule: it registers the inbound Hello filter and
// schedules an initial probe toward every configured neighbor at t=0.
func (e *Engine) Init(s *state.State) error {
	e.filterPrefix = e.cfg.SelfName.Append(state.NlsrComponent, state.InfoComponent)

	err := e.face.SetFilter(e.filterPrefix,
		func(name state.RouterName, interest Interest) {
			s.Dispatch(func(s *state.State) error {
				return e.onInboundProbe(s, name, interest)
			})
		},
		func(name state.RouterName) {
			s.Log.Debug("registered hello interest filter", "prefix", name.String())
		},
		func(name state.RouterName, reason string) {
			s.Cancel(fmt.Errorf("failed to register hello prefix %s: %s", name.String(), reason))
		},
	)
	if err != nil {
		return fmt.Errorf("hello: set interest filter: %w", err)
	}

	for _, adj := range e.adjacencies.All() {
		neighbor := adj.Name
		s.Schedule(func(s *state.State) error {
			return e.sendProbe(s, neighbor)
		}, 0)
	}
	return nil
}

// Cleanup implements state.NyModule.
func (e *Engine) Cleanup(s *state.State) error {
	if e.reactiveDedup != nil {
		e.reactiveDedup.Stop()
	}
	return nil
}

// FilterPrefix returns the name prefix this engine registered its inbound
// Hello filter under (<self>/NLSR/INFO). It is empty until Init has run;
// core.BuildSnapshot reads it.
func (e *Engine) FilterPrefix() state.RouterName {
	return e.filterPrefix
}

// sendProbe is the outbound probe loop: resolve the adjacency, probe it if
// bound to a face, and unconditionally reschedule.
func (e *Engine) sendProbe(s *state.State, neighbor state.RouterName) error {
	adj := e.adjacencies.Find(neighbor)
	if adj == nil {
		return nil
	}
	if adj.FaceId != 0 {
		e.issueProbe(s, neighbor)
	}
	s.Schedule(func(s *state.State) error {
		return e.sendProbe(s, neighbor)
	}, e.cfg.InfoInterval)
	return nil
}

// issueProbe unconditionally builds, logs, counts, and dispatches a fresh
// probe toward neighbor. Callers are responsible for checking FaceId != 0.
func (e *Engine) issueProbe(s *state.State, neighbor state.RouterName) {
	interest := Interest{
		ID:          uuid.New(),
		Name:        ProbeName(e.cfg.SelfName, neighbor),
		Lifetime:    e.cfg.ResendTime,
		MustBeFresh: true,
		CanBePrefix: true,
	}
	s.Events.InterestSent.Emit(state.InterestSentEvent{Neighbor: neighbor})
	s.Counters.Increment(state.SentHelloInterest)
	s.Log.Debug("sending hello interest", "neighbor", neighbor.String(), "probe_id", interest.ID)
	if state.DebugLogHello {
		s.Log.Debug("hello interest detail", "name", interest.Name.String(), "lifetime", interest.Lifetime)
	}
	e.dispatchInterest(s, neighbor, interest)
}

// dispatchInterest expresses interest on the Face, re-entering the executor
// for every callback: Face delivery is a suspension point that may resume
// on another goroutine.
func (e *Engine) dispatchInterest(s *state.State, neighbor state.RouterName, interest Interest) {
	e.face.Express(interest,
		func(_ Interest, data Data) {
			s.Dispatch(func(s *state.State) error {
				return e.onResponse(s, interest, data)
			})
		},
		func(nacked Interest, nack Nack) {
			s.Dispatch(func(s *state.State) error {
				return e.onNack(s, nacked, nack)
			})
		},
		func(_ Interest) {
			s.Dispatch(func(s *state.State) error {
				return e.onTimeout(s, interest)
			})
		},
	)
}

// onInboundProbe handles an incoming Hello probe.
func (e *Engine) onInboundProbe(s *state.State, name state.RouterName, interest Interest) error {
	s.Counters.Increment(state.RcvHelloInterest)

	if name.At(-2) != state.InfoComponent {
		return nil
	}
	neighbor := state.DecodeRouterName(state.DecodeComponent(name.At(-1)))
	if !e.adjacencies.IsNeighbor(neighbor) {
		return nil
	}

	respName := name.Append(VersionComponent(s.Now()))
	data := Data{
		Name:            respName,
		FreshnessPeriod: 0,
		Content:         []byte("INFO"),
	}
	if err := e.signer.Sign(&data); err != nil {
		s.Log.Error("failed to sign hello response", "neighbor", neighbor.String(), "err", err)
		return nil
	}
	e.face.Put(data)
	s.Counters.Increment(state.SentHelloData)

	adj := e.adjacencies.Find(neighbor)
	if adj != nil && adj.Status == state.StatusInactive && adj.FaceId != 0 {
		e.issueReactiveProbe(s, neighbor)
	}
	return nil
}

// issueReactiveProbe issues an immediate probe toward neighbor in response
// to hearing from it while still marked INACTIVE. It does not cancel or
// perturb the periodic loop. ReactiveProbeSuppression bounds how often this
// fires for the same neighbor.
func (e *Engine) issueReactiveProbe(s *state.State, neighbor state.RouterName) {
	if e.reactiveDedup != nil {
		key := neighbor.String()
		if e.reactiveDedup.Has(key) {
			return
		}
		e.reactiveDedup.Set(key, struct{}{}, ttlcache.DefaultTTL)
	}
	e.issueProbe(s, neighbor)
}

// onResponse handles a Face callback for data received against a probe we
// sent: validate asynchronously before touching any state.
func (e *Engine) onResponse(s *state.State, probe Interest, data Data) error {
	e.validator.Validate(data,
		func(data Data) {
			s.Dispatch(func(s *state.State) error {
				return e.onValidResponse(s, data)
			})
		},
		func(data Data, reason string) {
			s.Log.Debug("dropping invalid hello data", "name", data.Name.String(), "reason", reason)
		},
	)
	return nil
}

func (e *Engine) onValidResponse(s *state.State, data Data) error {
	if data.Name.At(-3) != state.InfoComponent {
		return nil
	}
	neighbor := data.Name.Prefix(-4)

	oldStatus := e.adjacencies.StatusOf(neighbor)
	e.adjacencies.SetStatus(neighbor, state.StatusActive)
	e.adjacencies.SetTimeouts(neighbor, 0)
	e.adjacencies.RecordSuccess(neighbor, s.Now(), 0, false)

	s.Events.DataReceived.Emit(state.DataReceivedEvent{Neighbor: neighbor})

	if oldStatus != state.StatusActive {
		s.Events.NeighborStatusChanged.Emit(state.NeighborStatusChangedEvent{Neighbor: neighbor, Status: state.StatusActive})
		e.reconverge(s)
		s.Events.InitialHelloDataValidated.Emit(state.InitialHelloDataValidatedEvent{Neighbor: neighbor})
	}

	s.Counters.Increment(state.RcvHelloData)
	return nil
}

// onNack treats a NACK as a deferred timeout, scheduled at
// now + 2*lifetime, giving the remote a grace window before escalation.
func (e *Engine) onNack(s *state.State, probe Interest, nack Nack) error {
	delay := 2 * probe.Lifetime
	s.Schedule(func(s *state.State) error {
		return e.onTimeout(s, probe)
	}, delay)
	return nil
}

// onTimeout handles a probe timeout, real or a NACK's deferred one.
func (e *Engine) onTimeout(s *state.State, probe Interest) error {
	if probe.Name.At(-2) != state.InfoComponent {
		return nil
	}
	neighbor := probe.Name.Prefix(-3)

	e.adjacencies.IncrementTimeouts(neighbor)
	adj := e.adjacencies.Find(neighbor)
	if adj == nil {
		return nil
	}
	n := adj.TimedOutCount
	status := adj.Status

	s.Events.Timeout.Emit(state.TimeoutEvent{Neighbor: neighbor, Count: n})

	if int(n) < e.cfg.RetryLimit {
		e.issueProbe(s, neighbor)
		return nil
	}
	if status == state.StatusActive {
		e.adjacencies.SetStatus(neighbor, state.StatusInactive)
		s.Events.NeighborStatusChanged.Emit(state.NeighborStatusChangedEvent{Neighbor: neighbor, Status: state.StatusInactive})
		e.reconverge(s)
	}
	return nil
}

// reconverge invokes the reconvergence hook selected by the configured
// routing mode; both targets are idempotent and coalescing.
func (e *Engine) reconverge(s *state.State) {
	if e.cfg.Mode == state.HyperbolicOn {
		e.routingTable.ScheduleRecalculation()
	} else {
		e.lsdb.ScheduleAdjLsaBuild()
	}
}
