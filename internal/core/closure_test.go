package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgresolve/internal/types"
)

func TestGetDistsIncludesTransitiveDeps(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	ms, err := ParseMatchSpec("numpy")
	require.NoError(t, err)
	closure, err := c.GetDists(context.Background(), []types.MatchSpec{ms}, false)
	require.NoError(t, err)
	_, hasNumpy27 := closure.Packages["numpy-1.7.1-py27_0.tar.bz2"]
	_, hasNumpy33 := closure.Packages["numpy-1.7.1-py33_0.tar.bz2"]
	_, hasPy27 := closure.Packages["python-2.7.5-0.tar.bz2"]
	_, hasPy33 := closure.Packages["python-3.3.2-0.tar.bz2"]
	require.True(t, hasNumpy27)
	require.True(t, hasNumpy33)
	require.True(t, hasPy27)
	require.True(t, hasPy33)
}

func TestGetDistsNoPackagesFound(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	ms, err := ParseMatchSpec("ghostpkg")
	require.NoError(t, err)
	_, err = c.GetDists(context.Background(), []types.MatchSpec{ms}, false)
	require.Error(t, err)
	require.True(t, isNoPackagesFound(err))
}
