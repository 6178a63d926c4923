package core

import (
	"context"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgresolve/internal/types"
)

// Request bundles the inputs to a single top-level resolve, mirroring
// the consumer API of spec.md §6: `solve(specs, installed, features,
// max_only, minimal_hint)`.
type Request struct {
	Specs         []string
	Installed     []string
	Features      map[string]struct{}
	MaxOnly       bool
	MinimalHint   bool
	Directives    []types.Directive
	MaxIterations int
}

// Result is what Solve returns to the consumer: the chosen filenames,
// any discovered alternative optima.
type Result struct {
	Filenames    []string
	Cost         int
	Alternatives []Solution
	FastPath     bool
}

// Resolve is the library's single entry point, composing every
// component in order: directive application, explicit() fast path,
// feature inheritance from installed packages, with_features_depends
// overrides, closure construction, encoding, and solving. It does not
// compute MUS diagnostics; an unsatisfiable request is returned as an
// error for the caller to pass to Diagnose. Grounded on resolve.py's
// solve()/explicit().
func (c *Core) Resolve(ctx context.Context, req Request) (*Result, error) {
	specs := make([]types.MatchSpec, 0, len(req.Specs))
	for _, raw := range req.Specs {
		ms, err := ParseMatchSpec(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, ms)
	}

	if len(req.Directives) > 0 {
		applied, err := ApplyDirectives(specs, req.Directives)
		if err != nil {
			return nil, err
		}
		specs = applied
	}

	if explicit := c.tryExplicit(ctx, req.Specs, specs); explicit != nil {
		return &Result{Filenames: explicit}, nil
	}

	features := make(map[string]struct{})
	for f := range req.Features {
		features[f] = struct{}{}
	}
	for f := range c.installedFeatures(req.Installed) {
		features[f] = struct{}{}
	}
	for _, spec := range specs {
		pkgs, err := c.GetPkgs(ctx, spec, req.MaxOnly)
		if err != nil && !isNoPackagesFound(err) {
			return nil, err
		}
		for _, fn := range pkgs {
			for f := range c.TrackFeatures(fn) {
				features[f] = struct{}{}
			}
		}
	}

	for _, spec := range specs {
		pkgs, err := c.GetPkgs(ctx, spec, req.MaxOnly)
		if err != nil && !isNoPackagesFound(err) {
			return nil, err
		}
		for _, fn := range pkgs {
			c.applyFeatureOverride(fn, features)
		}
	}

	maxIterations := req.MaxIterations
	fullClosure, err := c.GetDists(ctx, specs, false)
	if err != nil {
		return nil, err
	}

	var maxOnlyClosure *Closure
	if !req.MaxOnly {
		maxOnlyClosure, err = c.GetDists(ctx, specs, true)
		if err != nil {
			maxOnlyClosure = nil
		}
	} else {
		maxOnlyClosure = fullClosure
	}

	solveResult, err := c.Solve(ctx, specs, maxOnlyClosure, fullClosure, features, maxIterations)
	if err != nil {
		return nil, err
	}

	filenames := solveResult.Best.Filenames
	if req.MinimalHint {
		sorted, sErr := c.GraphSort(ctx, filenames)
		if sErr == nil {
			filenames = sorted
		}
	}

	return &Result{
		Filenames:    filenames,
		Cost:         solveResult.Best.Cost,
		Alternatives: solveResult.Alternatives,
		FastPath:     solveResult.FastPath,
	}, nil
}

// tryExplicit implements resolve.py's explicit(): when every spec
// (and, for the single-spec case, every one of its dependencies) names
// an exact strictness==3 pin, the closure/SAT machinery is skipped
// entirely. Only a single top-level pin is checked against the index;
// dependency pins and the pins of a multi-spec request are not.
func (c *Core) tryExplicit(ctx context.Context, raw []string, specs []types.MatchSpec) []string {
	if len(specs) == 0 {
		return nil
	}
	var filenames []string
	if len(specs) == 1 {
		ms := specs[0]
		if ms.Strictness != 3 {
			return nil
		}
		fn := toFilename(ms)
		if fn == "" {
			return nil
		}
		if _, ok := c.index.Artifact(fn); !ok {
			return nil
		}
		deps, err := c.MsDepends(fn)
		if err != nil {
			return nil
		}
		filenames = append(filenames, fn)
		for _, dep := range deps {
			if dep.Strictness != 3 {
				return nil
			}
			depFn := toFilename(dep)
			if depFn == "" {
				return nil
			}
			filenames = append(filenames, depFn)
		}
	} else {
		for _, ms := range specs {
			// The resolver's own meta-package name is never part of the
			// explicit filename list even when named as a spec.
			if ms.Name == "pkgresolve" {
				continue
			}
			if ms.Strictness != 3 {
				return nil
			}
			fn := toFilename(ms)
			if fn == "" {
				return nil
			}
			filenames = append(filenames, fn)
		}
	}
	sort.Strings(filenames)
	return filenames
}

func toFilename(ms types.MatchSpec) string {
	if ms.Strictness != 3 {
		return ""
	}
	return ms.Name + "-" + ms.Version + "-" + ms.Build + ".tar.bz2"
}

// installedFeatures returns the union of TrackFeatures across every
// installed filename, ignoring unknown entries.
func (c *Core) installedFeatures(installed []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, fn := range installed {
		if _, ok := c.index.Artifact(fn); !ok {
			continue
		}
		for f := range c.TrackFeatures(fn) {
			out[f] = struct{}{}
		}
	}
	return out
}

// applyFeatureOverride mutates the ms_depends cache entry for fn per
// resolve.py's update_with_features: among the artifact's
// with_features_depends keys that are subsets of the active feature
// set, pick the one with the most matched features; ties broken by
// lexicographically smallest key (the Open Question resolved in
// DESIGN.md). Its extra deps override same-named existing deps.
func (c *Core) applyFeatureOverride(fn string, features map[string]struct{}) {
	a, ok := c.index.Artifact(fn)
	if !ok || len(a.WithFeaturesDepends) == 0 {
		return
	}

	bestKey := ""
	bestSize := -1
	keys := make([]string, 0, len(a.WithFeaturesDepends))
	for k := range a.WithFeaturesDepends {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fs := strings.Fields(key)
		if !isSubset(fs, features) {
			continue
		}
		if len(fs) > bestSize || (len(fs) == bestSize && key < bestKey) {
			bestSize = len(fs)
			bestKey = key
		}
	}
	if bestKey == "" {
		return
	}

	existing, err := c.MsDepends(fn)
	if err != nil {
		return
	}
	byName := make(map[string]types.MatchSpec, len(existing))
	order := make([]string, 0, len(existing))
	for _, ms := range existing {
		if _, seen := byName[ms.Name]; !seen {
			order = append(order, ms.Name)
		}
		byName[ms.Name] = ms
	}
	for _, raw := range a.WithFeaturesDepends[bestKey] {
		ms, err := ParseMatchSpec(raw)
		if err != nil {
			continue
		}
		if _, seen := byName[ms.Name]; !seen {
			order = append(order, ms.Name)
		}
		byName[ms.Name] = ms
	}
	merged := make([]types.MatchSpec, 0, len(order))
	for _, name := range order {
		merged = append(merged, byName[name])
	}
	c.msDependsCache[fn] = merged
}

func isSubset(fields []string, features map[string]struct{}) bool {
	for _, f := range fields {
		if _, ok := features[f]; !ok {
			return false
		}
	}
	return true
}

// FindSubstitute finds a replacement for fn (given the installed set)
// that does not carry any of features, preferring the candidate whose
// dependencies best match what's already installed. Grounded on
// resolve.py's find_substitute.
func (c *Core) FindSubstitute(ctx context.Context, installed []string, features map[string]struct{}, fn string, maxOnly bool) (string, error) {
	a, ok := c.index.Artifact(fn)
	if !ok {
		return "", badMetadata(fn, "unknown artifact")
	}
	ms, err := ParseMatchSpec(a.Name + " ==" + a.Version)
	if err != nil {
		return "", err
	}
	candidates, err := c.GetPkgs(ctx, ms, maxOnly)
	if err != nil {
		if isNoPackagesFound(err) {
			return "", nil
		}
		return "", err
	}

	bestFn := ""
	bestKey := -1
	for _, candFn := range candidates {
		if hasAny(c.Features(candFn), features) {
			continue
		}
		key := 0
		deps, err := c.MsDepends(candFn)
		if err != nil {
			return "", err
		}
		for _, installedFn := range installed {
			for _, dep := range deps {
				ok, err := c.matchFilename(ctx, dep, installedFn)
				if err == nil && ok {
					key++
				}
			}
		}
		if key > bestKey {
			bestKey = key
			bestFn = candFn
		}
	}
	return bestFn, nil
}

func (c *Core) matchFilename(ctx context.Context, ms types.MatchSpec, filename string) (bool, error) {
	a, ok := c.index.Artifact(filename)
	if !ok {
		return false, nil
	}
	return c.Match(ctx, ms, a)
}

func hasAny(set map[string]struct{}, other map[string]struct{}) bool {
	for f := range other {
		if _, ok := set[f]; ok {
			return true
		}
	}
	return false
}

// Diagnose re-derives the closure and feature set for req and computes
// a minimal unsatisfiable subset. Intended to be called by a consumer
// after Resolve has failed with an unsatisfiable error, per spec.md
// §4.H; kept separate from Resolve so a satisfiable result never pays
// for MUS computation.
func (c *Core) Diagnose(ctx context.Context, req Request) (*MUSResult, error) {
	specs := make([]types.MatchSpec, 0, len(req.Specs))
	for _, raw := range req.Specs {
		ms, err := ParseMatchSpec(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, ms)
	}
	if len(req.Directives) > 0 {
		applied, err := ApplyDirectives(specs, req.Directives)
		if err != nil {
			return nil, err
		}
		specs = applied
	}

	features := make(map[string]struct{})
	for f := range req.Features {
		features[f] = struct{}{}
	}
	for f := range c.installedFeatures(req.Installed) {
		features[f] = struct{}{}
	}

	closure, err := c.GetDists(ctx, specs, false)
	if err != nil {
		if isNoPackagesFound(err) {
			specLevel, sErr := c.SpecLevelMUS(ctx, specs, features)
			if sErr != nil {
				return nil, sErr
			}
			return &MUSResult{Specs: specLevel}, nil
		}
		return nil, err
	}
	return c.diagnose(ctx, specs, closure, features)
}

// diagnose computes a clause-level MUS for an unsatisfiable request,
// per spec.md §4.H. It falls back to a spec-level MUS only when the
// encoding itself fails because a requirement has no candidate.
func (c *Core) diagnose(ctx context.Context, specs []types.MatchSpec, closure *Closure, features map[string]struct{}) (*MUSResult, error) {
	enc, err := c.BuildEncoding(ctx, closure, specs, features)
	if err != nil {
		if isNoPackagesFound(err) {
			specLevel, sErr := c.SpecLevelMUS(ctx, specs, features)
			if sErr != nil {
				return nil, sErr
			}
			return &MUSResult{Specs: specLevel}, nil
		}
		return nil, err
	}

	clauseMUS, err := ClauseLevelMUS(ctx, enc.NumVars, enc.Clauses)
	if err != nil {
		return nil, err
	}
	pretty := make([]string, 0, len(clauseMUS))
	for _, clause := range clauseMUS {
		pretty = append(pretty, PrettyClause(clause, enc.Filename))
	}

	return &MUSResult{ClauseLevel: true, Clauses: clauseMUS, Pretty: pretty}, nil
}

// IsUnsatisfiable reports whether err carries the FailedPrecondition
// code used for the "no satisfying assignment" condition a consumer
// should respond to by calling Diagnose. Bad-metadata errors carry the
// same code and also report true.
func IsUnsatisfiable(err error) bool {
	return errbuilder.CodeOf(err) == errbuilder.CodeFailedPrecondition
}
