package app

import (
	"context"
	"sort"

	"pkgresolve/internal/core"
)

// ShowResult is the filename list and feature/dependency detail for a
// single spec, the app-layer shape backing the `show` CLI command
// (get_pkgs plus artifact metadata for display).
type ShowResult struct {
	Filenames []string
	Depends   map[string][]string
	Features  map[string][]string
}

// Show loads the index and returns the candidate set for spec via
// get_pkgs, along with each candidate's dependency and feature
// metadata for display. maxOnly restricts to the newest admissible
// (version, build_number) tier.
func (s Service) Show(ctx context.Context, spec string, maxOnly bool) (ShowResult, error) {
	c, err := s.loadCore()
	if err != nil {
		return ShowResult{}, err
	}
	ms, err := core.ParseMatchSpec(spec)
	if err != nil {
		return ShowResult{}, err
	}
	filenames, err := c.GetPkgs(ctx, ms, maxOnly)
	if err != nil {
		return ShowResult{}, err
	}

	depends := make(map[string][]string, len(filenames))
	features := make(map[string][]string, len(filenames))
	for _, fn := range filenames {
		deps, err := c.MsDepends(fn)
		if err != nil {
			return ShowResult{}, err
		}
		raw := make([]string, 0, len(deps))
		for _, d := range deps {
			raw = append(raw, d.Raw)
		}
		depends[fn] = raw

		var tags []string
		for f := range c.Features(fn) {
			tags = append(tags, f)
		}
		sort.Strings(tags)
		features[fn] = tags
	}

	return ShowResult{Filenames: filenames, Depends: depends, Features: features}, nil
}
