package state

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
)

func TestLocalCfgYamlRoundTrip(t *testing.T) {
	src := `
router_prefix: /router/a
info_interest_interval: 60
interest_resend_time: 15
interest_retry_number: 3
hyperbolic_state: "on"
adjacency_list:
  - name: /router/b
    face_id: 7
`
	var cfg LocalCfg
	require.NoError(t, yaml.Unmarshal([]byte(src), &cfg))
	require.Equal(t, "/router/a", cfg.RouterPrefix)
	require.Equal(t, HyperbolicOn, cfg.RoutingMode())
	require.Equal(t, 3, cfg.RetryLimit())
	require.Len(t, cfg.AdjacencyList, 1)
	require.Equal(t, "/router/b", cfg.AdjacencyList[0].Name)
	require.EqualValues(t, 7, cfg.AdjacencyList[0].FaceId)
}

func TestLocalCfgDefaultsWhenUnset(t *testing.T) {
	cfg := LocalCfg{RouterPrefix: "/router/a"}
	require.Equal(t, DefaultInfoInterestInterval, cfg.InfoIntervalDuration())
	require.Equal(t, DefaultInterestResendTime, cfg.ResendDuration())
	require.Equal(t, DefaultInterestRetryNumber, cfg.RetryLimit())
	require.Equal(t, HyperbolicOff, cfg.RoutingMode())

	wR, wL, wS := cfg.ResolvedWeights()
	require.Equal(t, DefaultRttWeight, wR)
	require.Equal(t, DefaultLoadWeight, wL)
	require.Equal(t, DefaultStabilityWeight, wS)
}

func TestLocalCfgResolvedWeightsOverride(t *testing.T) {
	wR, wL, wS := 0.1, 0.2, 0.7
	cfg := LocalCfg{RouterPrefix: "/router/a", CostWeightRtt: &wR, CostWeightLoad: &wL, CostWeightStability: &wS}
	gotR, gotL, gotS := cfg.ResolvedWeights()
	require.Equal(t, wR, gotR)
	require.Equal(t, wL, gotL)
	require.Equal(t, wS, gotS)
}

func TestNodeConfigValidatorRejectsBadName(t *testing.T) {
	cfg := &LocalCfg{RouterPrefix: "not-a-name"}
	require.Error(t, NodeConfigValidator(cfg))
}

func TestNodeConfigValidatorRejectsDuplicateAdjacency(t *testing.T) {
	cfg := &LocalCfg{
		RouterPrefix: "/router/a",
		AdjacencyList: []AdjacencyCfg{
			{Name: "/router/b"},
			{Name: "/router/b"},
		},
	}
	require.Error(t, NodeConfigValidator(cfg))
}

func TestNodeConfigValidatorAccepts(t *testing.T) {
	cfg := &LocalCfg{
		RouterPrefix: "/router/a",
		AdjacencyList: []AdjacencyCfg{
			{Name: "/router/b", FaceId: 1},
			{Name: "/router/c", FaceId: 2},
		},
	}
	require.NoError(t, NodeConfigValidator(cfg))
}
