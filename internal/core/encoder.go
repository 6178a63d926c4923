package core

import (
	"context"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgresolve/internal/types"
)

// Encoding is the CNF translation of a closure plus top-level
// requirements plus an active feature set, per spec.md §4.E. Variable
// ids are 1-based positive integers as gophersat's solver package
// expects; a negative id negates the literal.
type Encoding struct {
	VarID     map[string]int
	Filename  map[int]string
	NumVars   int
	Clauses   [][]int
	Filenames []string // sorted, stable iteration order for variable assignment
}

// BuildEncoding assigns one variable per artifact in the closure (in
// sorted filename order, for determinism) and emits the five clause
// families described in spec.md §4.E.
func (c *Core) BuildEncoding(ctx context.Context, closure *Closure, requirements []types.MatchSpec, activeFeatures map[string]struct{}) (*Encoding, error) {
	enc := &Encoding{
		VarID:    make(map[string]int),
		Filename: make(map[int]string),
	}
	enc.Filenames = make([]string, 0, len(closure.Packages))
	for fn := range closure.Packages {
		enc.Filenames = append(enc.Filenames, fn)
	}
	sort.Strings(enc.Filenames)

	for i, fn := range enc.Filenames {
		id := i + 1
		enc.VarID[fn] = id
		enc.Filename[id] = fn
	}
	enc.NumVars = len(enc.Filenames)

	byName := make(map[string][]string)
	for _, fn := range enc.Filenames {
		a := closure.Packages[fn]
		byName[a.Name] = append(byName[a.Name], fn)
	}
	for name := range byName {
		sort.Strings(byName[name])
	}

	var clauses [][]int

	// 1. Mutual exclusion per name.
	for _, fns := range byName {
		for i := 0; i < len(fns); i++ {
			for j := i + 1; j < len(fns); j++ {
				clauses = append(clauses, []int{-enc.VarID[fns[i]], -enc.VarID[fns[j]]})
			}
		}
	}

	// 2. Dependency implication.
	for _, fn := range enc.Filenames {
		deps, err := c.MsDepends(fn)
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			candidates, err := c.matchWithinClosure(ctx, dep, closure, enc)
			if err != nil {
				return nil, err
			}
			if len(candidates) == 0 {
				// No candidate in the closure can satisfy this
				// dependency: the artifact itself can never be
				// selected. Encode as a unit clause rather than an
				// empty one, preserving the encoder's two-literal
				// invariant for ordinary implication clauses.
				clauses = append(clauses, []int{-enc.VarID[fn]})
				continue
			}
			clause := append([]int{-enc.VarID[fn]}, candidates...)
			if len(clause) < 2 {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("dependency implication clause has fewer than two literals")
			}
			clauses = append(clauses, clause)
		}
	}

	// 3. Feature propagation: for every dependency of every artifact in
	// the closure, require that selecting the artifact selects some
	// candidate providing the active feature; for every top-level
	// requirement, require such a candidate unconditionally.
	for feature := range activeFeatures {
		for _, fn := range enc.Filenames {
			deps, err := c.MsDepends(fn)
			if err != nil {
				return nil, err
			}
			for _, dep := range deps {
				candidates := c.matchProvidingFeature(ctx, dep, closure, enc, feature)
				if len(candidates) == 0 {
					continue
				}
				clause := append([]int{-enc.VarID[fn]}, candidates...)
				clauses = append(clauses, clause)
			}
		}
		for _, req := range requirements {
			candidates := c.matchProvidingFeature(ctx, req, closure, enc, feature)
			if len(candidates) == 0 {
				continue
			}
			clauses = append(clauses, candidates)
		}
	}

	// 4. Feature exclusion.
	for _, fn := range enc.Filenames {
		provided := c.Features(fn)
		for f := range provided {
			if _, active := activeFeatures[f]; !active {
				clauses = append(clauses, []int{-enc.VarID[fn]})
				break
			}
		}
	}

	// 5. Top-level requirements.
	for _, req := range requirements {
		candidates, err := c.matchWithinClosure(ctx, req, closure, enc)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, noPackagesFound(req.Raw)
		}
		clauses = append(clauses, candidates)
	}

	enc.Clauses = clauses
	return enc, nil
}

// matchWithinClosure returns the sorted variable ids of every artifact
// in closure matching ms.
func (c *Core) matchWithinClosure(ctx context.Context, ms types.MatchSpec, closure *Closure, enc *Encoding) ([]int, error) {
	var ids []int
	for _, fn := range enc.Filenames {
		a := closure.Packages[fn]
		ok, err := c.Match(ctx, ms, a)
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, enc.VarID[fn])
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (c *Core) matchProvidingFeature(ctx context.Context, ms types.MatchSpec, closure *Closure, enc *Encoding, feature string) []int {
	var ids []int
	for _, fn := range enc.Filenames {
		a := closure.Packages[fn]
		if a.Name != ms.Name {
			continue
		}
		if _, ok := c.Features(fn)[feature]; !ok {
			continue
		}
		ok, err := c.Match(ctx, ms, a)
		if err != nil || !ok {
			continue
		}
		ids = append(ids, enc.VarID[fn])
	}
	sort.Ints(ids)
	return ids
}
