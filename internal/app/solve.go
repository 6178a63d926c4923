package app

import (
	"context"

	"pkgresolve/internal/core"
)

// Solve loads the artifact index, resolves req against it, and writes
// the resulting filename set to a lock file under the service's output
// directory. Grounded on the teacher's Service.Resolve orchestration
// shape (load inputs, run the core, write outputs), trimmed to this
// domain's single lock-file output.
func (s Service) Solve(ctx context.Context, req SolveRequest) (SolveResult, error) {
	c, err := s.loadCore()
	if err != nil {
		return SolveResult{}, err
	}

	coreReq := core.Request{
		Specs:         req.Specs,
		Installed:     req.Installed,
		Features:      featureSet(req.Features),
		MaxOnly:       req.MaxOnly,
		MinimalHint:   req.MinimalHint,
		Directives:    req.Directives,
		MaxIterations: req.MaxIterations,
	}

	result, err := c.Resolve(ctx, coreReq)
	if err != nil {
		return SolveResult{}, err
	}

	lockFile := req.LockFile
	if lockFile == "" {
		lockFile = "pkg.lock"
	}
	if err := s.LockWriter.WriteLock(lockFile, result.Filenames, result.Cost); err != nil {
		return SolveResult{}, err
	}

	return SolveResult{
		Filenames:    result.Filenames,
		Cost:         result.Cost,
		Alternatives: len(result.Alternatives),
		FastPath:     result.FastPath,
		LockPath:     lockFile,
	}, nil
}

// Diagnose re-runs req's solve up through closure/encoding and reports
// a minimal unsatisfiable subset. Intended for a caller that has
// already observed core.IsUnsatisfiable on a prior Solve call.
func (s Service) Diagnose(ctx context.Context, req DiagnoseRequest) (*core.MUSResult, error) {
	c, err := s.loadCore()
	if err != nil {
		return nil, err
	}
	return c.Diagnose(ctx, core.Request{
		Specs:      req.Specs,
		Installed:  req.Installed,
		Features:   featureSet(req.Features),
		Directives: req.Directives,
	})
}

// loadCore reads the index through the configured loader and builds a
// fresh core.Core over it. Called once per invocation; the service
// itself holds no long-lived core.Core since the index loader already
// caches the raw bytes.
func (s Service) loadCore() (*core.Core, error) {
	raw, err := s.IndexLoader.Load()
	if err != nil {
		return nil, err
	}
	idx, err := core.NewIndex(raw)
	if err != nil {
		return nil, err
	}
	return core.NewCore(idx), nil
}

func featureSet(features []string) map[string]struct{} {
	set := make(map[string]struct{}, len(features))
	for _, f := range features {
		set[f] = struct{}{}
	}
	return set
}
