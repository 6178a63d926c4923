package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgresolve/internal/types"
)

func fixtureIndex(t *testing.T) *Index {
	t.Helper()
	raw := types.RawIndex{
		"numpy-1.7.1-py27_0.tar.bz2": {
			Name: "numpy", Version: "1.7.1", Build: "py27_0", BuildNumber: 0,
			Depends: []string{"python 2.7*"},
		},
		"numpy-1.7.1-py33_0.tar.bz2": {
			Name: "numpy", Version: "1.7.1", Build: "py33_0", BuildNumber: 0,
			Depends: []string{"python 3.3*"},
		},
		"python-2.7.5-0.tar.bz2": {
			Name: "python", Version: "2.7.5", Build: "0", BuildNumber: 0,
			Depends: []string{},
		},
		"python-3.3.2-0.tar.bz2": {
			Name: "python", Version: "3.3.2", Build: "0", BuildNumber: 0,
			Depends: []string{},
		},
	}
	idx, err := NewIndex(raw)
	require.NoError(t, err)
	return idx
}

func TestResolveScenario1PreferNewestPython(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	res, err := c.Resolve(context.Background(), Request{Specs: []string{"numpy"}})
	require.NoError(t, err)
	require.Equal(t, []string{"numpy-1.7.1-py33_0.tar.bz2", "python-3.3.2-0.tar.bz2"}, res.Filenames)
}

func TestResolveScenario2PinnedPython33(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	res, err := c.Resolve(context.Background(), Request{Specs: []string{"numpy", "python 3.3*"}})
	require.NoError(t, err)
	require.Equal(t, []string{"numpy-1.7.1-py33_0.tar.bz2", "python-3.3.2-0.tar.bz2"}, res.Filenames)
}

func TestResolveScenario3Unsatisfiable(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	_, err := c.Resolve(context.Background(), Request{Specs: []string{"python >=2.7,<2.8", "python 3.3*"}})
	require.Error(t, err)
	require.True(t, IsUnsatisfiable(err))
}

func TestResolveScenario4NoPackagesFound(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	_, err := c.Resolve(context.Background(), Request{Specs: []string{"ghostpkg"}})
	require.Error(t, err)
	require.True(t, isNoPackagesFound(err))
}

func featureFixtureIndex(t *testing.T) *Index {
	t.Helper()
	raw := types.RawIndex{
		"numpy-1.7.1-py27_0.tar.bz2": {
			Name: "numpy", Version: "1.7.1", Build: "py27_0", BuildNumber: 0,
			Depends: []string{"python 2.7*"},
		},
		"numpy-1.7.1-py27_1mkl.tar.bz2": {
			Name: "numpy", Version: "1.7.1", Build: "py27_1mkl", BuildNumber: 0,
			Depends: []string{"python 2.7*"}, Features: "mkl",
		},
		"python-2.7.5-0.tar.bz2": {
			Name: "python", Version: "2.7.5", Build: "0", BuildNumber: 0,
			Depends: []string{},
		},
	}
	idx, err := NewIndex(raw)
	require.NoError(t, err)
	return idx
}

func TestResolveScenario5FeaturePreference(t *testing.T) {
	c := NewCore(featureFixtureIndex(t))
	res, err := c.Resolve(context.Background(), Request{
		Specs:    []string{"numpy"},
		Features: map[string]struct{}{"mkl": {}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"numpy-1.7.1-py27_1mkl.tar.bz2", "python-2.7.5-0.tar.bz2"}, res.Filenames)
}

func TestResolveScenario6ExplicitPin(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	res, err := c.Resolve(context.Background(), Request{Specs: []string{"numpy 1.7.1 py27_0"}})
	require.NoError(t, err)
	require.Equal(t, []string{"numpy-1.7.1-py27_0.tar.bz2", "python-2.7.5-0.tar.bz2"}, res.Filenames)
}

func TestApplyDirectiveForceAndBlock(t *testing.T) {
	ms, err := ParseMatchSpec("numpy")
	require.NoError(t, err)

	forced, keep, err := ApplyDirective(ms, types.Directive{Name: "numpy", Action: types.DirectiveForce, Value: "1.7.1"})
	require.NoError(t, err)
	require.True(t, keep)
	require.Equal(t, 2, forced.Strictness)

	_, keep, err = ApplyDirective(ms, types.Directive{Name: "numpy", Action: types.DirectiveBlock})
	require.NoError(t, err)
	require.False(t, keep)
}

func TestGraphSortDependeesFirst(t *testing.T) {
	c := NewCore(fixtureIndex(t))
	order, err := c.GraphSort(context.Background(), []string{"numpy-1.7.1-py27_0.tar.bz2", "python-2.7.5-0.tar.bz2"})
	require.NoError(t, err)
	require.Equal(t, []string{"python-2.7.5-0.tar.bz2", "numpy-1.7.1-py27_0.tar.bz2"}, order)
}
