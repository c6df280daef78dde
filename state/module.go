package state

import (
	"context"
	"log/slog"
	"reflect"
)

// NyModule is the lifecycle contract every long-lived component (the Hello
// engine, the cost calculator) implements.
type NyModule interface {
	Init(s *State) error
	Cleanup(s *State) error
}

// State is the mutable root, touched only from the single logical executor.
// Env is embedded so callbacks that only hold an *Env (e.g. ones dispatched
// from Face goroutines) can still reach the scheduler and logger without
// the full State.
type State struct {
	*Env
	Modules     map[string]NyModule
	Adjacencies *AdjacencyList
}

// Env is the portion of State safe to read from any goroutine: the
// dispatch channel, cancellation, logger, and resolved configuration.
type Env struct {
	DispatchChannel chan<- func(*State) error
	LocalCfg
	CentralCfg
	Context  context.Context
	Cancel   context.CancelCauseFunc
	Log      *slog.Logger
	Counters *Counters
	Events   *Events
}

// Get fetches a registered module by its static type.
func Get[T NyModule](s *State) T {
	t := reflect.TypeFor[T]()
	return s.Modules[t.String()].(T)
}

// RegisterModule installs and initializes a module under its static type
// key, in Bootstrap/Start order.
func RegisterModule[T NyModule](s *State, module T) error {
	t := reflect.TypeFor[T]()
	s.Modules[t.String()] = module
	return module.Init(s)
}
