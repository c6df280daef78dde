package state

import "time"

// Debug switches, toggled by cmd flags, that gate extra per-subsystem
// logging beyond the global verbose level.
var (
	DebugLogHello = false
	DebugLogCost  = false
)

const (
	// NlsrComponent and InfoComponent are the literal UTF-8 byte strings
	// used in every Hello probe/response name.
	NlsrComponent = "NLSR"
	InfoComponent = "INFO"

	// MaxRttHistory bounds the per-neighbour RTT sample window kept by the
	// cost calculator; oldest sample dropped on overflow.
	MaxRttHistory = 16

	// Default cost-adjustment weights.
	DefaultRttWeight       = 0.3
	DefaultLoadWeight      = 0.4
	DefaultStabilityWeight = 0.3

	// Default Hello protocol tunables, used when config omits them.
	DefaultInfoInterestInterval = 60 * time.Second
	DefaultInterestResendTime   = 15 * time.Second
	DefaultInterestRetryNumber  = 3
)

// RoutingMode selects which reconvergence hook a status transition invokes.
type RoutingMode int

const (
	HyperbolicOff RoutingMode = iota
	HyperbolicOn
)
