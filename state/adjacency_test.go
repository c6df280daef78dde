package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAdjacencyListDefaultsToInactive(t *testing.T) {
	al := NewAdjacencyList([]AdjacencyCfg{
		{Name: "/router/b", FaceId: 7},
	})
	name := ParseRouterName("/router/b")
	require.True(t, al.IsNeighbor(name))
	require.Equal(t, StatusInactive, al.StatusOf(name))
	a := al.Find(name)
	require.NotNil(t, a)
	require.EqualValues(t, 7, a.FaceId)
	require.Zero(t, a.TimedOutCount)
}

func TestUnknownNeighborDefaultsInactiveAndNil(t *testing.T) {
	al := NewAdjacencyList(nil)
	unknown := ParseRouterName("/router/ghost")
	require.False(t, al.IsNeighbor(unknown))
	require.Equal(t, StatusInactive, al.StatusOf(unknown))
	require.Nil(t, al.Find(unknown))
}

func TestSetStatusActiveResetsTimeouts(t *testing.T) {
	al := NewAdjacencyList([]AdjacencyCfg{{Name: "/router/b", FaceId: 1}})
	name := ParseRouterName("/router/b")
	al.SetTimeouts(name, 2)
	al.SetStatus(name, StatusActive)
	a := al.Find(name)
	require.Equal(t, StatusActive, a.Status)
	require.Zero(t, a.TimedOutCount)
}

func TestIncrementTimeouts(t *testing.T) {
	al := NewAdjacencyList([]AdjacencyCfg{{Name: "/router/b", FaceId: 1}})
	name := ParseRouterName("/router/b")
	al.IncrementTimeouts(name)
	al.IncrementTimeouts(name)
	require.EqualValues(t, 2, al.Find(name).TimedOutCount)
}

func TestMutatingUnknownNeighborIsNoop(t *testing.T) {
	al := NewAdjacencyList(nil)
	name := ParseRouterName("/router/ghost")
	require.NotPanics(t, func() {
		al.SetStatus(name, StatusActive)
		al.IncrementTimeouts(name)
		al.SetTimeouts(name, 5)
	})
}

func TestRouterNamePrefixAndAppend(t *testing.T) {
	n := ParseRouterName("/router/a/NLSR/INFO/blob")
	require.Equal(t, "/router/a", n.Prefix(-3).String())
	require.Equal(t, "INFO", n.At(-2))
	require.Equal(t, "blob", n.At(-1))

	base := ParseRouterName("/router/a")
	appended := base.Append("NLSR", "INFO")
	require.Equal(t, "/router/a/NLSR/INFO", appended.String())
	require.Equal(t, "/router/a", base.String(), "Append must not mutate the receiver")
}

func TestRouterNameEqual(t *testing.T) {
	a := ParseRouterName("/router/a")
	b := ParseRouterName("/router/a")
	c := ParseRouterName("/router/b")
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestEncodeDecodeRouterName(t *testing.T) {
	n := ParseRouterName("/router/a")
	blob := EncodeRouterName(n)
	require.True(t, n.Equal(DecodeRouterName(blob)))
}
