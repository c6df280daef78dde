// Package core bootstraps a router: it loads and validates configuration,
// sets up logging, wires the Hello engine and cost calculator into a
// state.State, and runs the single logical executor until shutdown.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/encodeous/nlsrcore/cost"
	"github.com/encodeous/nlsrcore/hello"
	"github.com/encodeous/nlsrcore/state"
	"github.com/encodeous/tint"
	"github.com/goccy/go-yaml"
	slogmulti "github.com/samber/slog-multi"
)

// Collaborators bundles the pluggable external dependencies this core does
// not implement: the Face/transport layer, the signing/validation
// pipeline, the routing-table/LSDB reconvergence targets, and the
// LinkCostManager hook slot. A real deployment supplies these through a
// thin adapter over its own NDN stack; the full face/transport layer, LSDB
// sync protocol, and routing-table algorithm live outside this core.
type Collaborators struct {
	Face         hello.Face
	Signer       hello.Signer
	Validator    hello.Validator
	LSDB         hello.LSDB
	RoutingTable hello.RoutingTable
	CostManager  cost.LinkCostManager
}

func (d Collaborators) validate() error {
	switch {
	case d.Face == nil:
		return errors.New("no Face adapter wired")
	case d.Signer == nil:
		return errors.New("no Signer wired")
	case d.Validator == nil:
		return errors.New("no Validator wired")
	case d.LSDB == nil:
		return errors.New("no LSDB wired")
	case d.RoutingTable == nil:
		return errors.New("no RoutingTable wired")
	case d.CostManager == nil:
		return errors.New("no LinkCostManager wired")
	}
	return nil
}

func readLocalConfig(path string) (*state.LocalCfg, error) {
	var cfg state.LocalCfg
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read node config: %w", err)
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("parse node config: %w", err)
	}
	return &cfg, nil
}

func readCentralConfig(path string) (*state.CentralCfg, error) {
	var cfg state.CentralCfg
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read central config: %w", err)
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("parse central config: %w", err)
	}
	return &cfg, nil
}

func newLogger(ncfg *state.LocalCfg, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			CustomPrefix: ncfg.RouterPrefix,
		}),
	}

	if ncfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(ncfg.LogPath), 0700); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(ncfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// Bootstrap loads and validates both config files, then calls Start. It is
// the entry point cmd/run.go drives.
func Bootstrap(nodePath, centralPath, logPath string, verbose bool, deps Collaborators) (*state.State, func() error, error) {
	ncfg, err := readLocalConfig(nodePath)
	if err != nil {
		return nil, nil, err
	}
	if logPath != "" {
		ncfg.LogPath = logPath
	}
	if err := state.NodeConfigValidator(ncfg); err != nil {
		return nil, nil, fmt.Errorf("invalid node config: %w", err)
	}

	ccfg, err := readCentralConfig(centralPath)
	if err != nil {
		return nil, nil, err
	}

	return Start(*ncfg, *ccfg, verbose, deps)
}

// Start builds a state.State, registers the Hello engine and cost module,
// and installs SIGINT/SIGTERM handling. It returns a run function the
// caller invokes to block on the executor's main loop.
func Start(ncfg state.LocalCfg, ccfg state.CentralCfg, verbose bool, deps Collaborators) (*state.State, func() error, error) {
	if err := deps.validate(); err != nil {
		return nil, nil, fmt.Errorf("core.Start: %w", err)
	}

	logger, err := newLogger(&ncfg, verbose)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	dispatch := make(chan func(*state.State) error, 128)
	adjacencies := state.NewAdjacencyList(ncfg.AdjacencyList)

	s := &state.State{
		Modules:     make(map[string]state.NyModule),
		Adjacencies: adjacencies,
		Env: &state.Env{
			DispatchChannel: dispatch,
			LocalCfg:        ncfg,
			CentralCfg:      ccfg,
			Context:         ctx,
			Cancel:          cancel,
			Log:             logger,
			Counters:        state.NewCounters(),
			Events:          &state.Events{},
		},
	}

	engine := hello.NewEngine(deps.Face, deps.Signer, deps.Validator, deps.LSDB, deps.RoutingTable, adjacencies, hello.Config{
		SelfName:     state.ParseRouterName(ncfg.RouterPrefix),
		InfoInterval: ncfg.InfoIntervalDuration(),
		ResendTime:   ncfg.ResendDuration(),
		RetryLimit:   ncfg.RetryLimit(),
		Mode:         ncfg.RoutingMode(),
	})

	wR, wL, wS := ncfg.ResolvedWeights()
	costModule := cost.NewModule(deps.CostManager, cost.Weights{Rtt: wR, Load: wL, Stability: wS})

	if err := state.RegisterModule[*hello.Engine](s, engine); err != nil {
		return nil, nil, fmt.Errorf("init hello engine: %w", err)
	}
	if err := state.RegisterModule[*cost.Module](s, costModule); err != nil {
		return nil, nil, fmt.Errorf("init cost module: %w", err)
	}

	s.Log.Info("router initialized", "router", ncfg.RouterPrefix, "neighbors", len(ncfg.AdjacencyList))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sig:
			s.Cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
		}
	}()

	return s, func() error { return mainLoop(s, dispatch) }, nil
}

// mainLoop drains the dispatch channel until the state's context is
// cancelled.
func mainLoop(s *state.State, dispatch <-chan func(*state.State) error) error {
	s.Log.Debug("started main loop")
	for {
		select {
		case fun := <-dispatch:
			if fun == nil {
				goto endLoop
			}
			if err := fun(s); err != nil {
				s.Log.Error("error occurred during dispatch", "error", err)
				s.Cancel(err)
			}
		case <-s.Context.Done():
			goto endLoop
		}
	}
endLoop:
	s.Log.Info("stopped main loop", "reason", context.Cause(s.Context))
	stop(s)
	return nil
}

// stop runs every registered module's Cleanup.
func stop(s *state.State) {
	s.Log.Info("cleaning up modules")
	for name, m := range s.Modules {
		if err := m.Cleanup(s); err != nil {
			s.Log.Error("error occurred during cleanup", "module", name, "error", err)
		}
	}
	s.Log.Info("stopped")
}
