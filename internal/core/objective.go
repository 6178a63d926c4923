package core

import (
	"context"
	"sort"
)

// Objective is the pseudo-Boolean sum Σ cᵢ·v[fnᵢ] whose minimization
// prefers newer versions, per spec.md §4.F.
type Objective struct {
	Lits    []int // variable ids, parallel to Weights
	Weights []int
}

// BuildObjective sorts each package name's artifacts in the closure
// descending by (parsed_version, build_number), assigns coefficient 0
// to the best and increments on every change.
func (c *Core) BuildObjective(ctx context.Context, closure *Closure, enc *Encoding) (*Objective, error) {
	byName := make(map[string][]string)
	for _, fn := range enc.Filenames {
		a := closure.Packages[fn]
		byName[a.Name] = append(byName[a.Name], fn)
	}

	obj := &Objective{}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fns := byName[name]
		type rankedArtifact struct {
			filename string
			version  VersionOrder
			build    int
		}
		ranked := make([]rankedArtifact, 0, len(fns))
		for _, fn := range fns {
			a := closure.Packages[fn]
			v, err := NewVersionOrder(ctx, a.Version)
			if err != nil {
				return nil, err
			}
			ranked = append(ranked, rankedArtifact{filename: fn, version: v, build: a.BuildNumber})
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			vi, vj := ranked[i], ranked[j]
			if !vi.version.Equal(vj.version) {
				return vj.version.Less(vi.version)
			}
			if vi.build != vj.build {
				return vi.build > vj.build
			}
			return vi.filename < vj.filename
		})

		coeff := 0
		for i, r := range ranked {
			if i > 0 {
				prev := ranked[i-1]
				if !r.version.Equal(prev.version) || r.build != prev.build {
					coeff++
				}
			}
			obj.Lits = append(obj.Lits, enc.VarID[r.filename])
			obj.Weights = append(obj.Weights, coeff)
		}
	}

	return obj, nil
}
