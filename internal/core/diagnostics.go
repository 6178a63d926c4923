package core

import (
	"context"
	"sort"
	"strings"

	"pkgresolve/internal/types"
)

// MUSResult holds a minimal unsatisfiable core, either at the clause
// level or the spec level, plus its pretty-printed rendering.
type MUSResult struct {
	ClauseLevel bool
	Clauses     [][]int
	Specs       []types.MatchSpec
	Pretty      []string
}

// ClauseLevelMUS computes a minimal unsatisfiable subset of clauses
// via the deletion-based algorithm of spec.md §4.H: for each clause in
// turn, remove it and re-test; if still UNSAT, the removal is kept,
// else it is restored.
func ClauseLevelMUS(ctx context.Context, numVars int, clauses [][]int) ([][]int, error) {
	remaining := append([][]int{}, clauses...)
	for i := 0; i < len(remaining); {
		trial := append(append([][]int{}, remaining[:i]...), remaining[i+1:]...)
		sat, err := Satisfiable(ctx, numVars, trial)
		if err != nil {
			return nil, err
		}
		if !sat {
			remaining = trial
			continue
		}
		i++
	}
	return remaining, nil
}

// SpecLevelMUS computes a minimal unsatisfiable subset over the
// top-level requirements themselves: the "satisfiability test" for a
// candidate subset re-runs the full solver (closure + encoding) on it.
func (c *Core) SpecLevelMUS(ctx context.Context, specs []types.MatchSpec, activeFeatures map[string]struct{}) ([]types.MatchSpec, error) {
	remaining := append([]types.MatchSpec{}, specs...)
	for i := 0; i < len(remaining); {
		trial := append(append([]types.MatchSpec{}, remaining[:i]...), remaining[i+1:]...)
		sat, err := c.specsSatisfiable(ctx, trial, activeFeatures)
		if err != nil {
			return nil, err
		}
		if !sat {
			remaining = trial
			continue
		}
		i++
	}
	return remaining, nil
}

func (c *Core) specsSatisfiable(ctx context.Context, specs []types.MatchSpec, activeFeatures map[string]struct{}) (bool, error) {
	if len(specs) == 0 {
		return true, nil
	}
	closure, err := c.GetDists(ctx, specs, false)
	if err != nil {
		if isNoPackagesFound(err) {
			return false, nil
		}
		return false, err
	}
	enc, err := c.BuildEncoding(ctx, closure, specs, activeFeatures)
	if err != nil {
		if isNoPackagesFound(err) {
			return false, nil
		}
		return false, err
	}
	return Satisfiable(ctx, enc.NumVars, enc.Clauses)
}

// PrettyClause renders a single clause per spec.md §4.H's printing
// rules, given the variable-id-to-filename map from an Encoding. The
// trailing ".tar.bz2" suffix is dropped from every filename.
func PrettyClause(clause []int, filename map[int]string) string {
	var neg, pos []string
	for _, lit := range clause {
		id := lit
		name := ""
		if id < 0 {
			id = -id
		}
		if fn, ok := filename[id]; ok {
			name = stripExt(fn)
		}
		if lit < 0 {
			neg = append(neg, name)
		} else {
			pos = append(pos, name)
		}
	}
	sort.Strings(neg)
	sort.Strings(pos)

	switch {
	case len(neg) == 1 && len(pos) == 0:
		return neg[0]
	case len(neg) >= 1 && len(pos) >= 1:
		return neg[0] + " => " + strings.Join(pos, " or ")
	case len(pos) > 0:
		return strings.Join(pos, " or ")
	default:
		// Multiple negative literals and no positives (e.g. a mutual
		// exclusion clause): no single antecedent to single out, so
		// render the whole disjunction by name.
		return strings.Join(neg, " or ")
	}
}

func stripExt(filename string) string {
	return strings.TrimSuffix(filename, ".tar.bz2")
}
