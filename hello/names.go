package hello

import (
	"fmt"
	"time"

	"github.com/encodeous/nlsrcore/state"
)

// ProbeName builds "<neighbor>/NLSR/INFO/<self, wire-encoded>": addressed
// into the neighbour's namespace, so forwarding delivers it there, carrying
// the sender's identity as an opaque final component. Exported so a Face
// adapter (or a test) can recognize or reconstruct a probe name without
// reaching into Engine internals.
func ProbeName(self, neighbor state.RouterName) state.RouterName {
	selfBlob := state.EncodeComponent(state.EncodeRouterName(self))
	return neighbor.Append(state.NlsrComponent, state.InfoComponent, selfBlob)
}

// VersionComponent renders a monotonically increasing version component for
// a Hello response name, derived from now so two responses to the same
// probe never collide.
func VersionComponent(now time.Time) string {
	return fmt.Sprintf("v=%d", now.UnixNano())
}
