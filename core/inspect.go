package core

import (
	"github.com/encodeous/nlsrcore/hello"
	"github.com/encodeous/nlsrcore/state"
)

// NeighborSnapshot is one adjacency's point-in-time liveness state, the
// per-neighbour row of a Snapshot.
type NeighborSnapshot struct {
	Name          string `yaml:"name" json:"name"`
	FaceId        uint64 `yaml:"face_id" json:"face_id"`
	Status        string `yaml:"status" json:"status"`
	TimedOutCount uint32 `yaml:"timed_out_count" json:"timed_out_count"`
}

// Snapshot is the operational dump the inspect CLI command prints: the
// configured adjacency table plus packet counters. There is no IPC channel
// to a separately-running daemon process, so Snapshot instead reflects
// either a live in-process state.State or, from the CLI, a freshly loaded
// configuration.
type Snapshot struct {
	Router    string             `yaml:"router" json:"router"`
	Neighbors []NeighborSnapshot `yaml:"neighbors" json:"neighbors"`
	Counters  map[string]uint64  `yaml:"counters" json:"counters"`
}

// BuildSnapshot reads a live state.State's adjacency table and counters. The
// router name is read back from the registered Hello engine's filter prefix
// (with its NLSR/INFO suffix removed) rather than the raw config string, so
// the snapshot reflects what the engine actually registered its inbound
// filter under.
func BuildSnapshot(s *state.State) Snapshot {
	engine := state.Get[*hello.Engine](s)
	out := Snapshot{
		Router:   engine.FilterPrefix().Prefix(-2).String(),
		Counters: s.Counters.Snapshot(),
	}
	for _, a := range s.Adjacencies.All() {
		out.Neighbors = append(out.Neighbors, NeighborSnapshot{
			Name:          a.Name.String(),
			FaceId:        a.FaceId,
			Status:        a.Status.String(),
			TimedOutCount: a.TimedOutCount,
		})
	}
	return out
}

// SnapshotFromConfig builds a Snapshot straight from a LocalCfg, with every
// counter at zero and every neighbour at its initial INACTIVE status --
// used by the CLI when no live daemon process is available to query.
func SnapshotFromConfig(cfg *state.LocalCfg) Snapshot {
	adjacencies := state.NewAdjacencyList(cfg.AdjacencyList)
	out := Snapshot{
		Router:   cfg.RouterPrefix,
		Counters: state.NewCounters().Snapshot(),
	}
	for _, a := range adjacencies.All() {
		out.Neighbors = append(out.Neighbors, NeighborSnapshot{
			Name:          a.Name.String(),
			FaceId:        a.FaceId,
			Status:        a.Status.String(),
			TimedOutCount: a.TimedOutCount,
		})
	}
	return out
}
