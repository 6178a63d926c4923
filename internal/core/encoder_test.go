package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgresolve/internal/types"
)

func TestBuildEncodingMutualExclusionAndRequirement(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	ctx := context.Background()
	ms, err := ParseMatchSpec("numpy")
	require.NoError(t, err)
	closure, err := c.GetDists(ctx, []types.MatchSpec{ms}, false)
	require.NoError(t, err)

	enc, err := c.BuildEncoding(ctx, closure, []types.MatchSpec{ms}, map[string]struct{}{})
	require.NoError(t, err)
	require.Equal(t, 4, enc.NumVars)

	numpy27 := enc.VarID["numpy-1.7.1-py27_0.tar.bz2"]
	numpy33 := enc.VarID["numpy-1.7.1-py33_0.tar.bz2"]
	foundMutex := false
	for _, cl := range enc.Clauses {
		if len(cl) == 2 && ((cl[0] == -numpy27 && cl[1] == -numpy33) || (cl[0] == -numpy33 && cl[1] == -numpy27)) {
			foundMutex = true
		}
	}
	require.True(t, foundMutex, "expected mutual exclusion clause between numpy builds")

	foundTopLevel := false
	for _, cl := range enc.Clauses {
		allPositive := true
		for _, lit := range cl {
			if lit < 0 {
				allPositive = false
			}
		}
		if allPositive && len(cl) == 2 {
			contains := func(v int) bool {
				for _, lit := range cl {
					if lit == v {
						return true
					}
				}
				return false
			}
			if contains(numpy27) && contains(numpy33) {
				foundTopLevel = true
			}
		}
	}
	require.True(t, foundTopLevel, "expected top-level requirement clause over both numpy builds")
}

func TestSatisfiableAndUnsat(t *testing.T) {
	ctx := context.Background()
	ok, err := Satisfiable(ctx, 2, [][]int{{1, 2}, {-1}, {-2}})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = Satisfiable(ctx, 2, [][]int{{1, 2}, {-1}})
	require.NoError(t, err)
	require.True(t, ok)
}
