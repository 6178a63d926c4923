package core

import (
	"context"
	"sort"
)

// GraphSort topologically sorts filenames by dependency relation
// (dependees before dependents), using Kahn's algorithm for
// determinism under ties. Filenames whose position cannot be
// determined (cycles, or dependencies missing from the input set) are
// appended at the end in stable sorted order, per spec.md §4.H.
func (c *Core) GraphSort(ctx context.Context, filenames []string) ([]string, error) {
	inSet := make(map[string]bool, len(filenames))
	for _, fn := range filenames {
		inSet[fn] = true
	}

	// dependents[b] = every a that depends on b (a is a dependent, b a
	// dependee), indegree[a] = number of such b; a dependee must
	// precede its dependents.
	indegree := make(map[string]int, len(filenames))
	dependents := make(map[string][]string)
	for _, fn := range filenames {
		indegree[fn] = 0
	}

	for _, fn := range filenames {
		deps, err := c.MsDepends(fn)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		for _, dep := range deps {
			matches, err := c.FindMatches(ctx, dep)
			if err != nil {
				return nil, err
			}
			for _, depFn := range matches {
				if !inSet[depFn] || depFn == fn || seen[depFn] {
					continue
				}
				seen[depFn] = true
				dependents[depFn] = append(dependents[depFn], fn)
				indegree[fn]++
			}
		}
	}

	var ready []string
	for _, fn := range filenames {
		if indegree[fn] == 0 {
			ready = append(ready, fn)
		}
	}
	sort.Strings(ready)

	var ordered []string
	visited := make(map[string]bool)
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		ordered = append(ordered, next)

		newlyReady := make([]string, 0)
		for _, dependent := range dependents[next] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				newlyReady = append(newlyReady, dependent)
			}
		}
		sort.Strings(newlyReady)
		ready = append(ready, newlyReady...)
	}

	var residue []string
	for _, fn := range filenames {
		if !visited[fn] {
			residue = append(residue, fn)
		}
	}
	sort.Strings(residue)
	ordered = append(ordered, residue...)

	return ordered, nil
}
