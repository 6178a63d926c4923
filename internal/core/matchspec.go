package core

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgresolve/internal/types"
)

// relOpTokens is the ordered list of relational operator tokens tried
// during atom parsing. Longer tokens must precede shorter ones so
// ">=" isn't misread as ">" followed by a stray "=". Grounded on the
// teacher's opTokens ordering discipline in constraint.go.
var relOpTokens = []types.ConstraintOp{
	types.ConstraintOpEq,
	types.ConstraintOpNe,
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

// ParseMatchSpec parses a whitespace-tokenized dependency/requirement
// string into a MatchSpec, per spec.md §3/§4.B.
func ParseMatchSpec(raw string) (types.MatchSpec, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return types.MatchSpec{}, malformedSpec(raw, "empty match spec")
	}
	tokens := strings.Fields(trimmed)
	if len(tokens) == 0 || len(tokens) > 3 {
		return types.MatchSpec{}, malformedSpec(raw, "expected 1-3 whitespace-separated tokens")
	}

	ms := types.MatchSpec{Raw: raw, Name: tokens[0], Strictness: len(tokens)}
	if ms.Name == "" {
		return types.MatchSpec{}, malformedSpec(raw, "empty package name")
	}

	switch len(tokens) {
	case 1:
		return ms, nil
	case 2:
		alts, err := parseVersionExpr(raw, tokens[1])
		if err != nil {
			return types.MatchSpec{}, err
		}
		ms.Alternatives = alts
		return ms, nil
	case 3:
		if tokens[1] == "" || tokens[2] == "" {
			return types.MatchSpec{}, malformedSpec(raw, "empty version or build token")
		}
		ms.Version = tokens[1]
		ms.Build = tokens[2]
		return ms, nil
	}
	return types.MatchSpec{}, malformedSpec(raw, "unreachable token count")
}

// parseVersionExpr parses the `|`-separated alternatives, each a
// comma-separated conjunction of atoms.
func parseVersionExpr(raw, expr string) ([][]types.VersionAtom, error) {
	altStrs := strings.Split(expr, "|")
	alts := make([][]types.VersionAtom, 0, len(altStrs))
	for _, altStr := range altStrs {
		altStr = strings.TrimSpace(altStr)
		if altStr == "" {
			return nil, malformedSpec(raw, "empty alternative in version expression")
		}
		atomStrs := strings.Split(altStr, ",")
		atoms := make([]types.VersionAtom, 0, len(atomStrs))
		for _, atomStr := range atomStrs {
			atom, err := parseAtom(raw, strings.TrimSpace(atomStr))
			if err != nil {
				return nil, err
			}
			atoms = append(atoms, atom)
		}
		alts = append(alts, atoms)
	}
	return alts, nil
}

// parseAtom parses a single atom: relational (leading =, <, >, !) or a
// glob pattern otherwise.
func parseAtom(raw, atomStr string) (types.VersionAtom, error) {
	if atomStr == "" {
		return types.VersionAtom{}, malformedSpec(raw, "empty atom")
	}
	switch atomStr[0] {
	case '=', '<', '>', '!':
		for _, op := range relOpTokens {
			if strings.HasPrefix(atomStr, string(op)) {
				version := strings.TrimSpace(strings.TrimPrefix(atomStr, string(op)))
				if version == "" {
					return types.VersionAtom{}, malformedSpec(raw, "relational atom missing version")
				}
				return types.VersionAtom{Op: op, Version: version}, nil
			}
		}
		return types.VersionAtom{}, malformedSpec(raw, "unrecognized relational operator in atom '"+atomStr+"'")
	default:
		return types.VersionAtom{Glob: atomStr}, nil
	}
}

// Match reports whether the MatchSpec predicate holds against an
// artifact's parsed filename components, per spec.md §4.B.
func (c *Core) Match(ctx context.Context, ms types.MatchSpec, a types.Artifact) (bool, error) {
	if ms.Name != a.Name {
		return false, nil
	}
	switch ms.Strictness {
	case 1:
		return true, nil
	case 2:
		return c.matchAlternatives(ctx, ms, a)
	case 3:
		return ms.Version == a.Version && ms.Build == a.Build, nil
	default:
		return false, malformedSpec(ms.Raw, "invalid strictness")
	}
}

func (c *Core) matchAlternatives(ctx context.Context, ms types.MatchSpec, a types.Artifact) (bool, error) {
	for _, atoms := range ms.Alternatives {
		all := true
		for _, atom := range atoms {
			ok, err := c.matchAtom(ctx, atom, a)
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}

func (c *Core) matchAtom(ctx context.Context, atom types.VersionAtom, a types.Artifact) (bool, error) {
	if atom.Glob != "" {
		return matchGlob(atom.Glob, a.Version), nil
	}
	return c.compareRelational(ctx, atom.Op, atom.Version, a)
}

func (c *Core) compareRelational(ctx context.Context, op types.ConstraintOp, atomVersion string, a types.Artifact) (bool, error) {
	if a.Ecosystem == types.EcosystemPip {
		ok, err := c.ecosystems.pep440Satisfies(a.Version, toPep440Expr(op, atomVersion))
		if err != nil {
			return false, err
		}
		return ok, nil
	}
	var cmp int
	var err error
	if a.Ecosystem == types.EcosystemDeb {
		cmp, err = c.ecosystems.compare(types.EcosystemDeb, a.Version, atomVersion)
	} else {
		cmp, err = c.compareNative(ctx, a.Version, atomVersion)
	}
	if err != nil {
		return false, err
	}
	switch op {
	case types.ConstraintOpEq:
		return cmp == 0, nil
	case types.ConstraintOpNe:
		return cmp != 0, nil
	case types.ConstraintOpGte:
		return cmp >= 0, nil
	case types.ConstraintOpLte:
		return cmp <= 0, nil
	case types.ConstraintOpGt:
		return cmp > 0, nil
	case types.ConstraintOpLt:
		return cmp < 0, nil
	default:
		return false, malformedSpec(atomVersion, "unknown relational operator")
	}
}

func (c *Core) compareNative(ctx context.Context, a, b string) (int, error) {
	va, err := NewVersionOrder(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := NewVersionOrder(ctx, b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// matchGlob matches s against a glob where `.` is literal and `*`
// means any run of characters, anchored to the full string.
func matchGlob(pattern, s string) bool {
	return matchGlobAt(pattern, s, 0, 0)
}

func matchGlobAt(pattern, s string, pi, si int) bool {
	for pi < len(pattern) {
		switch pattern[pi] {
		case '*':
			for pi < len(pattern) && pattern[pi] == '*' {
				pi++
			}
			if pi == len(pattern) {
				return true
			}
			for k := si; k <= len(s); k++ {
				if matchGlobAt(pattern, s, pi, k) {
					return true
				}
			}
			return false
		default:
			if si >= len(s) || pattern[pi] != s[si] {
				return false
			}
			pi++
			si++
		}
	}
	return si == len(s)
}

func malformedSpec(raw string, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("malformed match spec '" + raw + "': " + reason)
}
