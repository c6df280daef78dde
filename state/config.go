package state

import (
	"fmt"
	"regexp"
	"time"
)

// AdjacencyCfg is one entry of the configured adjacency_list: a neighbour
// router name and the face it is reachable over.
type AdjacencyCfg struct {
	Name   string `yaml:"name"`
	FaceId uint64 `yaml:"face_id,omitempty"`
}

// SigningInfoCfg selects which signer identity to use for Hello responses.
// The actual signing implementation is pluggable (Signer interface); this
// struct only carries the selector, not the key material itself.
type SigningInfoCfg struct {
	Identity string `yaml:"identity,omitempty"`
}

// LocalCfg is this router's node-level configuration: identity and Hello /
// cost-calculator tunables.
type LocalCfg struct {
	// RouterPrefix is this router's own name.
	RouterPrefix string `yaml:"router_prefix"`

	// InfoInterestInterval is the periodic probe interval, in seconds.
	InfoInterestInterval int `yaml:"info_interest_interval,omitempty"`
	// InterestResendTime is the per-probe lifetime, in seconds.
	InterestResendTime int `yaml:"interest_resend_time,omitempty"`
	// InterestRetryNumber is the number of consecutive timeouts before a
	// neighbour is declared INACTIVE.
	InterestRetryNumber int `yaml:"interest_retry_number,omitempty"`

	// HyperbolicState selects the reconvergence hook target: "on" or "ON" routes
	// status changes to RoutingTable.ScheduleRecalculation, anything else
	// (including omitted) routes to LSDB.ScheduleAdjLsaBuild.
	HyperbolicState string `yaml:"hyperbolic_state,omitempty"`

	SigningInfo SigningInfoCfg `yaml:"signing_info,omitempty"`

	AdjacencyList []AdjacencyCfg `yaml:"adjacency_list,omitempty"`

	// Cost weights; nil means "use the default" (see ResolvedWeights).
	CostWeightRtt       *float64 `yaml:"w_r,omitempty"`
	CostWeightLoad      *float64 `yaml:"w_l,omitempty"`
	CostWeightStability *float64 `yaml:"w_s,omitempty"`

	// LogPath, if set, additionally writes a plain-text log there.
	LogPath string `yaml:"log_path,omitempty"`
}

// RoutingMode resolves the configured hyperbolic_state into a RoutingMode.
func (c *LocalCfg) RoutingMode() RoutingMode {
	if c.HyperbolicState == "on" || c.HyperbolicState == "ON" {
		return HyperbolicOn
	}
	return HyperbolicOff
}

// ResolvedWeights returns the effective cost weights, substituting
// defaults for any that were left unset.
func (c *LocalCfg) ResolvedWeights() (wR, wL, wS float64) {
	wR, wL, wS = DefaultRttWeight, DefaultLoadWeight, DefaultStabilityWeight
	if c.CostWeightRtt != nil {
		wR = *c.CostWeightRtt
	}
	if c.CostWeightLoad != nil {
		wL = *c.CostWeightLoad
	}
	if c.CostWeightStability != nil {
		wS = *c.CostWeightStability
	}
	return
}

// InfoIntervalDuration returns the configured probe interval, or the
// default when unset.
func (c *LocalCfg) InfoIntervalDuration() time.Duration {
	if c.InfoInterestInterval <= 0 {
		return DefaultInfoInterestInterval
	}
	return time.Duration(c.InfoInterestInterval) * time.Second
}

// ResendDuration returns the configured probe lifetime, or the default
// when unset.
func (c *LocalCfg) ResendDuration() time.Duration {
	if c.InterestResendTime <= 0 {
		return DefaultInterestResendTime
	}
	return time.Duration(c.InterestResendTime) * time.Second
}

// RetryLimit returns the configured retry count, or the default when
// unset.
func (c *LocalCfg) RetryLimit() int {
	if c.InterestRetryNumber <= 0 {
		return DefaultInterestRetryNumber
	}
	return c.InterestRetryNumber
}

// CentralCfg is the network-wide configuration: a list of router names.
// The adjacency set this core uses is read from LocalCfg.AdjacencyList;
// nothing in this core reads Routers.
type CentralCfg struct {
	Routers []string `yaml:"routers,omitempty"`
}

var routerNamePattern = regexp.MustCompile(`^/[0-9a-zA-Z._/-]*$`)

// NodeConfigValidator runs fatal, init-time checks against a LocalCfg.
func NodeConfigValidator(cfg *LocalCfg) error {
	if !routerNamePattern.MatchString(cfg.RouterPrefix) {
		return fmt.Errorf("router_prefix %q is not a valid router name", cfg.RouterPrefix)
	}
	if cfg.InterestRetryNumber < 0 {
		return fmt.Errorf("interest_retry_number must be >= 1, got %d", cfg.InterestRetryNumber)
	}
	seen := make(map[string]bool, len(cfg.AdjacencyList))
	for _, n := range cfg.AdjacencyList {
		if !routerNamePattern.MatchString(n.Name) {
			return fmt.Errorf("adjacency_list entry %q is not a valid router name", n.Name)
		}
		if seen[n.Name] {
			return fmt.Errorf("adjacency_list has duplicate neighbour %q", n.Name)
		}
		seen[n.Name] = true
	}
	return nil
}
