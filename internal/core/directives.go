package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgresolve/internal/types"
)

// ApplyDirective overrides a single top-level requirement spec before
// closure construction, per SPEC_FULL.md §D.4. Unlike the dependency
// composer this is repurposed from, a requirement here is a bare
// MatchSpec string, not a structured Dependency with its own
// constraint list.
//
//   - force: pins the requirement's name to an exact version, dropping
//     any existing version expression.
//   - block: removes the requirement entirely; the caller must treat a
//     blocked requirement as absent, not as an error, unless it was the
//     only requirement naming that package.
//   - replace: substitutes a different package name for the same
//     position, with no version expression carried over.
func ApplyDirective(spec types.MatchSpec, directive types.Directive) (types.MatchSpec, bool, error) {
	switch directive.Action {
	case types.DirectiveForce:
		if directive.Value == "" {
			return types.MatchSpec{}, false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("force directive requires a value")
		}
		raw := spec.Name + " ==" + directive.Value
		forced, err := ParseMatchSpec(raw)
		if err != nil {
			return types.MatchSpec{}, false, err
		}
		return forced, true, nil
	case types.DirectiveBlock:
		return types.MatchSpec{}, false, nil
	case types.DirectiveReplace:
		if directive.Value == "" {
			return types.MatchSpec{}, false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("replace directive requires a value")
		}
		replaced, err := ParseMatchSpec(directive.Value)
		if err != nil {
			return types.MatchSpec{}, false, err
		}
		return replaced, true, nil
	default:
		return types.MatchSpec{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown resolution directive: %s", directive.Action))
	}
}

// ApplyDirectives maps ApplyDirective over requirements, matching
// directives by spec name. A directive naming no requirement is a
// no-op, consistent with the teacher's override-if-present semantics.
func ApplyDirectives(specs []types.MatchSpec, directives []types.Directive) ([]types.MatchSpec, error) {
	byName := make(map[string]types.Directive, len(directives))
	for _, d := range directives {
		byName[strings.ToLower(d.Name)] = d
	}

	out := make([]types.MatchSpec, 0, len(specs))
	for _, spec := range specs {
		directive, ok := byName[strings.ToLower(spec.Name)]
		if !ok {
			out = append(out, spec)
			continue
		}
		applied, keep, err := ApplyDirective(spec, directive)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, applied)
		}
	}
	return out, nil
}
