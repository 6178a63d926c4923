package core

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"pkgresolve/internal/types"
)

func TestParseMatchSpecStrictness(t *testing.T) {
	ms, err := ParseMatchSpec("numpy")
	require.NoError(t, err)
	require.Equal(t, 1, ms.Strictness)
	require.Equal(t, "numpy", ms.Name)

	ms, err = ParseMatchSpec("numpy >=1.8,<2.0|1.9.*")
	require.NoError(t, err)
	require.Equal(t, 2, ms.Strictness)
	require.Len(t, ms.Alternatives, 2)
	require.Len(t, ms.Alternatives[0], 2)

	ms, err = ParseMatchSpec("numpy 1.9.2 py27_0")
	require.NoError(t, err)
	require.Equal(t, 3, ms.Strictness)
	require.Equal(t, "1.9.2", ms.Version)
	require.Equal(t, "py27_0", ms.Build)
}

func TestParseMatchSpecMalformed(t *testing.T) {
	_, err := ParseMatchSpec("")
	require.Error(t, err)

	_, err = ParseMatchSpec("a b c d")
	require.Error(t, err)

	_, err = ParseMatchSpec("numpy >=")
	require.Error(t, err)
}

func newTestCore(t *testing.T) *Core {
	t.Helper()
	raw := types.RawIndex{
		"numpy-1.9.2-py27_0.tar.bz2": {
			Name: "numpy", Version: "1.9.2", Build: "py27_0", BuildNumber: 0,
			Depends: []string{"python 2.7*"},
		},
		"numpy-1.8.0-py27_0.tar.bz2": {
			Name: "numpy", Version: "1.8.0", Build: "py27_0", BuildNumber: 0,
			Depends: []string{"python 2.7*"},
		},
		"python-2.7.9-0.tar.bz2": {
			Name: "python", Version: "2.7.9", Build: "0", BuildNumber: 0,
			Depends: []string{},
		},
	}
	idx, err := NewIndex(raw)
	require.NoError(t, err)
	return NewCore(idx)
}

func TestMatchGlobAndRelational(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	ms, err := ParseMatchSpec("numpy >=1.9")
	require.NoError(t, err)
	a, ok := c.index.Artifact("numpy-1.9.2-py27_0.tar.bz2")
	require.True(t, ok)
	ok, err = c.Match(ctx, ms, a)
	require.NoError(t, err)
	require.True(t, ok)

	a2, _ := c.index.Artifact("numpy-1.8.0-py27_0.tar.bz2")
	ok, err = c.Match(ctx, ms, a2)
	require.NoError(t, err)
	require.False(t, ok)

	globSpec, err := ParseMatchSpec("python 2.7*")
	require.NoError(t, err)
	py, _ := c.index.Artifact("python-2.7.9-0.tar.bz2")
	ok, err = c.Match(ctx, globSpec, py)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFindMatchesSortedDeterministic(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()
	ms, err := ParseMatchSpec("numpy")
	require.NoError(t, err)
	matches, err := c.FindMatches(ctx, ms)
	require.NoError(t, err)
	want := []string{"numpy-1.8.0-py27_0.tar.bz2", "numpy-1.9.2-py27_0.tar.bz2"}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("FindMatches mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPkgsMaxOnly(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()
	ms, err := ParseMatchSpec("numpy")
	require.NoError(t, err)
	matches, err := c.GetPkgs(ctx, ms, true)
	require.NoError(t, err)
	want := []string{"numpy-1.9.2-py27_0.tar.bz2"}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("GetPkgs max_only mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPkgsNoPackagesFound(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()
	ms, err := ParseMatchSpec("scipy")
	require.NoError(t, err)
	_, err = c.GetPkgs(ctx, ms, false)
	require.Error(t, err)
	require.True(t, isNoPackagesFound(err))
}
