package core

import (
	"context"
	"sort"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
)

// tokenKind tags a single parsed subcomponent of a version string.
// This is the tagged-variant re-architecture of the dynamically-typed
// int/string mix used by the original conda implementation, per
// spec.md §9 "Dynamic typing of version subcomponents".
type tokenKind int

const (
	tokenInt tokenKind = iota
	tokenStr
	tokenDev
	tokenPost
	tokenFill
)

// versionToken is one subcomponent: either an integer, a lowercased
// string, or one of the reserved dev/post/fill sentinels.
type versionToken struct {
	kind tokenKind
	i    int
	s    string
}

var (
	fillToken = versionToken{kind: tokenFill}
)

// VersionOrder parses a version string into tokenized components and
// supports total-order comparison per spec.md §3.
type VersionOrder struct {
	raw        string
	components [][]versionToken
}

// isAllowedVersionChar reports whether r is valid anywhere in a raw
// version string: [*._0-9A-Za-z!].
func isAllowedVersionChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r == '*' || r == '.' || r == '_' || r == '!':
		return true
	default:
		return false
	}
}

// NewVersionOrder parses a version string into comparable tokenized
// form, per spec.md §3/§4.A.
func NewVersionOrder(ctx context.Context, version string) (VersionOrder, error) {
	assert.NotEmpty(ctx, version, "version string must not be empty")
	if version == "" {
		return VersionOrder{}, malformedVersion(version, "empty version string")
	}
	for _, r := range version {
		if !isAllowedVersionChar(r) {
			return VersionOrder{}, malformedVersion(version, "invalid character(s)")
		}
	}

	lowered := strings.ToLower(strings.TrimSpace(version))

	epochPart := "0"
	rest := lowered
	if idx := strings.Index(lowered, "!"); idx >= 0 {
		epochPart = lowered[:idx]
		rest = lowered[idx+1:]
		if strings.Contains(rest, "!") {
			return VersionOrder{}, malformedVersion(version, "duplicated epoch separator '!'")
		}
		if !isDigits(epochPart) {
			return VersionOrder{}, malformedVersion(version, "epoch must be an integer")
		}
	}

	dotParts := append([]string{epochPart}, strings.Split(rest, ".")...)

	components := make([][]versionToken, 0, len(dotParts))
	for _, part := range dotParts {
		if part == "" {
			return VersionOrder{}, malformedVersion(version, "empty version component")
		}
		subparts := splitRuns(part)
		if len(subparts) == 0 {
			return VersionOrder{}, malformedVersion(version, "empty version component")
		}
		tokens := make([]versionToken, 0, len(subparts)+1)
		for _, sp := range subparts {
			tokens = append(tokens, tokenizeSubcomponent(sp))
		}
		startsWithDigit := part[0] >= '0' && part[0] <= '9'
		if !startsWithDigit {
			tokens = append([]versionToken{{kind: tokenInt, i: -1}}, tokens...)
		}
		components = append(components, tokens)
	}

	return VersionOrder{raw: version, components: components}, nil
}

// splitRuns splits a string into maximal runs of digits and non-digits,
// mirroring the Python regex `([0-9]+|[^0-9]+)`.
func splitRuns(s string) []string {
	var out []string
	var cur strings.Builder
	var curIsDigit bool
	for i, r := range s {
		isDigit := r >= '0' && r <= '9'
		if i == 0 {
			curIsDigit = isDigit
			cur.WriteRune(r)
			continue
		}
		if isDigit == curIsDigit {
			cur.WriteRune(r)
			continue
		}
		out = append(out, cur.String())
		cur.Reset()
		cur.WriteRune(r)
		curIsDigit = isDigit
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func tokenizeSubcomponent(s string) versionToken {
	if isDigits(s) {
		n := 0
		for _, r := range s {
			n = n*10 + int(r-'0')
		}
		return versionToken{kind: tokenInt, i: n}
	}
	switch s {
	case "post":
		return versionToken{kind: tokenPost}
	case "dev":
		return versionToken{kind: tokenDev}
	default:
		return versionToken{kind: tokenStr, s: s}
	}
}

// typeRank orders the token kinds for cross-type comparison:
// dev < str < int < post, at a given slot.
func typeRank(k tokenKind) int {
	switch k {
	case tokenDev:
		return 0
	case tokenStr:
		return 1
	case tokenFill:
		return 1 // a bare -1 fill is compared as the integer -1 below
	case tokenInt:
		return 2
	case tokenPost:
		return 3
	default:
		return 2
	}
}

// compareTokens implements the subcomponent ordering rules of spec.md §3.
func compareTokens(a, b versionToken) int {
	// fillToken behaves as the integer -1 for ordering purposes, so it
	// sorts above a dev sentinel and below a post sentinel in the other slot.
	an, bn := normalizeFill(a), normalizeFill(b)
	ra, rb := typeRank(an.kind), typeRank(bn.kind)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch an.kind {
	case tokenDev, tokenPost:
		return 0
	case tokenStr:
		return strings.Compare(an.s, bn.s)
	default: // tokenInt (including normalized fill)
		if an.i < bn.i {
			return -1
		}
		if an.i > bn.i {
			return 1
		}
		return 0
	}
}

func normalizeFill(t versionToken) versionToken {
	if t.kind == tokenFill {
		return versionToken{kind: tokenInt, i: -1}
	}
	return t
}

// Compare returns -1, 0, or 1 comparing v to other, implementing the
// total order of spec.md §3: pad missing components with [-1], pad
// missing subcomponents with -1.
func (v VersionOrder) Compare(other VersionOrder) int {
	maxLen := len(v.components)
	if len(other.components) > maxLen {
		maxLen = len(other.components)
	}
	for i := 0; i < maxLen; i++ {
		c1 := componentAt(v.components, i)
		c2 := componentAt(other.components, i)
		if c := compareComponents(c1, c2); c != 0 {
			return c
		}
	}
	return 0
}

func componentAt(components [][]versionToken, i int) []versionToken {
	if i < len(components) {
		return components[i]
	}
	return []versionToken{fillToken}
}

func compareComponents(c1, c2 []versionToken) int {
	maxLen := len(c1)
	if len(c2) > maxLen {
		maxLen = len(c2)
	}
	for i := 0; i < maxLen; i++ {
		t1 := fillToken
		if i < len(c1) {
			t1 = c1[i]
		}
		t2 := fillToken
		if i < len(c2) {
			t2 = c2[i]
		}
		if c := compareTokens(t1, t2); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether v and other compare as equal.
func (v VersionOrder) Equal(other VersionOrder) bool { return v.Compare(other) == 0 }

// Less reports whether v sorts strictly before other.
func (v VersionOrder) Less(other VersionOrder) bool { return v.Compare(other) < 0 }

// String returns the raw version string this VersionOrder was parsed from.
func (v VersionOrder) String() string { return v.raw }

func malformedVersion(version string, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("malformed version '" + version + "': " + reason)
}

// SortVersions returns a copy of versions sorted ascending using native
// VersionOrder semantics. Unparseable strings sort lexicographically
// after all parseable ones, rather than aborting the whole sort.
func SortVersions(ctx context.Context, versions []string) []string {
	out := append([]string(nil), versions...)
	parsed := make(map[string]VersionOrder, len(versions))
	ok := make(map[string]bool, len(versions))
	for _, raw := range versions {
		v, err := NewVersionOrder(ctx, raw)
		ok[raw] = err == nil
		if err == nil {
			parsed[raw] = v
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i], out[j]
		if ok[vi] && ok[vj] {
			return parsed[vi].Less(parsed[vj])
		}
		if ok[vi] != ok[vj] {
			return ok[vi]
		}
		return vi < vj
	})
	return out
}
