package app

import (
	"context"

	"pkgresolve/internal/core"
)

// MatchResult is the filename list a single MatchSpec resolves to,
// the app-layer shape backing the `match` CLI command (find_matches).
type MatchResult struct {
	Filenames []string
}

// Match loads the index and returns every filename the given spec
// string matches, in sorted order. Unlike Show/GetPkgs, an empty
// result is not an error here: find_matches reports absence as a
// zero-length list, per spec.md §4.C.
func (s Service) Match(ctx context.Context, spec string) (MatchResult, error) {
	c, err := s.loadCore()
	if err != nil {
		return MatchResult{}, err
	}
	ms, err := core.ParseMatchSpec(spec)
	if err != nil {
		return MatchResult{}, err
	}
	filenames, err := c.FindMatches(ctx, ms)
	if err != nil {
		return MatchResult{}, err
	}
	return MatchResult{Filenames: filenames}, nil
}
