package core

import (
	"context"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgresolve/internal/types"
)

// Closure is the overapproximating set of artifacts that could
// participate in any solution to a set of top-level requirements, per
// spec.md §4.D.
type Closure struct {
	Packages map[string]types.Artifact
	Missing  []string
}

// GetDists computes the dependency closure for specs. For each
// requirement it enumerates candidates via GetPkgs, expands each
// candidate's transitive dependencies via allDeps into a scratch map
// scoped to that candidate, and merges the scratch map in only if the
// whole expansion succeeded; otherwise the candidate (and everything
// reached only through it) is discarded, matching resolve.py's
// get_dists/all_deps split between a fresh local "res" per root and
// the outer "dists" accumulator.
func (c *Core) GetDists(ctx context.Context, specs []types.MatchSpec, maxOnly bool) (*Closure, error) {
	closure := &Closure{Packages: make(map[string]types.Artifact)}
	anySurvived := false
	missingSet := make(map[string]struct{})

	for _, spec := range specs {
		found := false
		candidates, err := c.GetPkgs(ctx, spec, maxOnly)
		if err != nil {
			if isNoPackagesFound(err) {
				missingSet[spec.Raw] = struct{}{}
				continue
			}
			return nil, err
		}
		for _, fn := range candidates {
			if _, already := closure.Packages[fn]; already {
				found = true
				continue
			}
			scratch := make(map[string]types.Artifact)
			if err := c.allDeps(ctx, fn, scratch, maxOnly); err != nil {
				if isNoPackagesFound(err) {
					missingSet[err.(interface{ Spec() string }).Spec()] = struct{}{}
					continue
				}
				return nil, err
			}
			for k, v := range scratch {
				closure.Packages[k] = v
			}
			a, _ := c.index.Artifact(fn)
			closure.Packages[fn] = a
			found = true
		}
		if found {
			anySurvived = true
		}
	}

	if !anySurvived {
		names := make([]string, 0, len(missingSet))
		for n := range missingSet {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, noPackagesFound(names...)
	}

	closure.Missing = sortedKeys(missingSet)
	return closure, nil
}

// allDeps recursively expands root's dependency MatchSpecs into dst
// (root itself is not added). A dependency spec with no matching
// candidate in the index fails the whole call. A dependency spec whose
// candidates exist but whose own recursive expansion fails has that
// one candidate rolled back; the call only fails outright if every
// candidate for that spec failed.
func (c *Core) allDeps(ctx context.Context, root string, dst map[string]types.Artifact, maxOnly bool) error {
	deps, err := c.MsDepends(root)
	if err != nil {
		return err
	}
	for _, ms := range deps {
		candidates, err := c.GetPkgs(ctx, ms, maxOnly)
		if err != nil {
			if isNoPackagesFound(err) {
				return missingDepsErr(ms.Raw)
			}
			return err
		}
		found := false
		var lastErr error
		for _, fn := range candidates {
			if _, already := dst[fn]; already {
				found = true
				continue
			}
			a, _ := c.index.Artifact(fn)
			dst[fn] = a
			if ms.Strictness < 3 {
				if err := c.allDeps(ctx, fn, dst, maxOnly); err != nil {
					lastErr = err
					delete(dst, fn)
					continue
				}
			}
			found = true
		}
		if !found {
			if lastErr != nil {
				return lastErr
			}
			return missingDepsErr(ms.Raw)
		}
	}
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isNoPackagesFound(err error) bool {
	return errbuilder.CodeOf(err) == errbuilder.CodeNotFound
}

type missingDepsError struct {
	spec string
	err  error
}

func (e *missingDepsError) Error() string { return e.err.Error() }
func (e *missingDepsError) Unwrap() error { return e.err }
func (e *missingDepsError) Spec() string  { return e.spec }

func missingDepsErr(spec string) error {
	return &missingDepsError{spec: spec, err: noPackagesFound(spec)}
}
