package core

import (
	"context"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/crillab/gophersat/solver"

	"pkgresolve/internal/types"
)

// DefaultMaxIterations bounds the blocking-clause enumeration loop of
// §4.G; once it is reached, enumeration stops with the optima found.
const DefaultMaxIterations = 10000

// Solution is one satisfying, cost-optimal assignment: the selected
// filenames in sorted order, and the pseudo-Boolean cost attained.
type Solution struct {
	Filenames []string
	Cost      int
}

// SolveResult is the outcome of a full solve: the chosen optimum plus
// any alternative optima discovered during enumeration, for user
// visibility into the literals that differed.
type SolveResult struct {
	Best         Solution
	FastPath     bool
	Alternatives []Solution
}

// rawSolve invokes gophersat on clauses with the given pseudo-Boolean
// cost function and returns the selected variable ids (1-based) and
// the attained cost, or false if unsatisfiable. This is the sole point
// of contact with the solver library, mirroring the teacher's
// solveSAT invocation of ParseSliceNb/SetCostFunc/New/Minimize/Model.
func rawSolve(ctx context.Context, numVars int, clauses [][]int, lits []int, weights []int) (selected map[int]bool, cost int, ok bool, err error) {
	if ctx.Err() != nil {
		return nil, 0, false, ctx.Err()
	}
	problem := solver.ParseSliceNb(clauses, numVars)
	costLits := make([]solver.Lit, 0, len(lits))
	for _, id := range lits {
		costLits = append(costLits, solver.IntToLit(int32(id)))
	}
	problem.SetCostFunc(costLits, weights)
	sat := solver.New(problem)
	c := sat.Minimize()
	if c < 0 {
		return nil, 0, false, nil
	}
	model := sat.Model()
	sel := make(map[int]bool, numVars)
	for id := 1; id <= numVars; id++ {
		if id-1 < len(model) && model[id-1] {
			sel[id] = true
		}
	}
	return sel, c, true, nil
}

// zeroWeights builds an all-zero cost function covering every variable,
// turning Minimize() into a plain satisfiability oracle. This reuses
// the one gophersat entry point the driver needs rather than depending
// on a second, unconfirmed plain-SAT API surface.
func zeroWeights(numVars int) ([]int, []int) {
	lits := make([]int, numVars)
	weights := make([]int, numVars)
	for i := 0; i < numVars; i++ {
		lits[i] = i + 1
	}
	return lits, weights
}

// Satisfiable reports whether clauses over numVars variables has a
// model, without attempting optimization.
func Satisfiable(ctx context.Context, numVars int, clauses [][]int) (bool, error) {
	lits, weights := zeroWeights(numVars)
	_, _, ok, err := rawSolve(ctx, numVars, clauses, lits, weights)
	return ok, err
}

// Solve runs the full SAT Solver Driver of spec.md §4.G: a fast path
// over the max_only-restricted closure, falling back to the general
// path, which minimizes the objective with a single gophersat
// Minimize() call (no explicit bisection over the bound), followed by
// blocking-clause enumeration of alternative optima.
func (c *Core) Solve(ctx context.Context, requirements []types.MatchSpec, maxOnlyClosure, fullClosure *Closure, activeFeatures map[string]struct{}, maxIterations int) (*SolveResult, error) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	if maxOnlyClosure != nil {
		result, unique, err := c.tryFastPath(ctx, requirements, maxOnlyClosure, activeFeatures)
		if err != nil {
			return nil, err
		}
		if unique {
			return result, nil
		}
	}

	enc, err := c.BuildEncoding(ctx, fullClosure, requirements, activeFeatures)
	if err != nil {
		return nil, err
	}
	sat, err := Satisfiable(ctx, enc.NumVars, enc.Clauses)
	if err != nil {
		return nil, err
	}
	if !sat {
		return nil, unsatisfiable()
	}

	obj, err := c.BuildObjective(ctx, fullClosure, enc)
	if err != nil {
		return nil, err
	}

	sel, cost, ok, err := rawSolve(ctx, enc.NumVars, enc.Clauses, obj.Lits, obj.Weights)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, unsatisfiable()
	}
	best := solutionFromSelection(enc, sel, cost)

	alts, err := c.enumerateOptima(ctx, enc, obj, best, maxIterations)
	if err != nil && errbuilder.CodeOf(err) != errbuilder.CodeFailedPrecondition {
		return nil, err
	}

	return &SolveResult{Best: best, Alternatives: alts}, nil
}

// tryFastPath restricts the closure to max_only candidates, solves it
// as a plain satisfiability problem, and returns ok==true only if the
// model is unique (a second blocking-clause solve is UNSAT).
func (c *Core) tryFastPath(ctx context.Context, requirements []types.MatchSpec, closure *Closure, activeFeatures map[string]struct{}) (*SolveResult, bool, error) {
	enc, err := c.BuildEncoding(ctx, closure, requirements, activeFeatures)
	if err != nil {
		return nil, false, err
	}
	lits, weights := zeroWeights(enc.NumVars)
	sel, _, ok, err := rawSolve(ctx, enc.NumVars, enc.Clauses, lits, weights)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	blocking := blockingClause(sel)
	clausesWithBlock := append(append([][]int{}, enc.Clauses...), blocking)
	_, _, second, err := rawSolve(ctx, enc.NumVars, clausesWithBlock, lits, weights)
	if err != nil {
		return nil, false, err
	}
	if second {
		return nil, false, nil
	}

	best := solutionFromSelection(enc, sel, 0)
	return &SolveResult{Best: best, FastPath: true}, true, nil
}

// enumerateOptima repeatedly blocks the previous assignment and
// re-solves; any new solution whose cost still equals best.Cost is
// recorded as an alternative optimum. Stops once the cap is reached or
// once a re-solve returns a strictly higher cost (meaning no further
// optima remain at the original bound). When the cap is hit it returns
// the optima found so far together with a max-iterations error; no
// other encoding is tried.
func (c *Core) enumerateOptima(ctx context.Context, enc *Encoding, obj *Objective, best Solution, maxIterations int) ([]Solution, error) {
	var alternatives []Solution
	clauses := append([][]int{}, enc.Clauses...)
	seen := map[string]bool{solutionKey(best): true}

	exhausted := true
	for i := 0; i < maxIterations; i++ {
		prevIDs := make(map[int]bool, len(best.Filenames))
		for _, fn := range best.Filenames {
			prevIDs[enc.VarID[fn]] = true
		}
		clauses = append(clauses, blockingClause(prevIDs))

		sel, cost, ok, err := rawSolve(ctx, enc.NumVars, clauses, obj.Lits, obj.Weights)
		if err != nil {
			return alternatives, err
		}
		if !ok || cost > best.Cost {
			exhausted = false
			break
		}
		sol := solutionFromSelection(enc, sel, cost)
		key := solutionKey(sol)
		if !seen[key] {
			alternatives = append(alternatives, sol)
			seen[key] = true
		}
		best = sol
	}
	if exhausted {
		// The cap was reached without the search naturally closing off
		// (every iteration up to the limit still produced a tied
		// optimum). Enumeration stops here and returns the optima
		// already found, which remain valid solutions.
		return alternatives, maxIterationsErr()
	}
	return alternatives, nil
}

func blockingClause(selected map[int]bool) []int {
	ids := make([]int, 0, len(selected))
	for id := range selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	clause := make([]int, 0, len(ids))
	for _, id := range ids {
		clause = append(clause, -id)
	}
	return clause
}

func solutionFromSelection(enc *Encoding, sel map[int]bool, cost int) Solution {
	var filenames []string
	for id := range sel {
		filenames = append(filenames, enc.Filename[id])
	}
	sort.Strings(filenames)
	return Solution{Filenames: filenames, Cost: cost}
}

func solutionKey(s Solution) string {
	key := ""
	for _, fn := range s.Filenames {
		key += fn + "\x00"
	}
	return key
}

func unsatisfiable() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("no satisfying assignment exists")
}

func maxIterationsErr() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("enumeration reached the iteration cap; returning the optima found so far")
}
