package types

// VersionAtom is a single parsed element of a MatchSpec version
// alternative: either a relational constraint (Op set) against a raw
// version string, or a glob pattern matched against the raw version
// string directly (Op empty, Glob set).
type VersionAtom struct {
	Op      ConstraintOp
	Version string
	Glob    string
}

// MatchSpec is a parsed dependency/requirement specification, per
// spec.md §3 "MatchSpec".
type MatchSpec struct {
	Raw        string
	Name       string
	Strictness int

	// Alternatives holds, for strictness==2, the `|`-separated list of
	// conjunctions; a MatchSpec matches if any alternative's atoms all
	// match.
	Alternatives [][]VersionAtom

	// Version/Build hold the exact pin for strictness==3.
	Version string
	Build   string
}

// Directive overrides a single top-level requirement before closure
// construction. See SPEC_FULL.md §D.4.
type Directive struct {
	Name   string
	Action DirectiveAction
	Value  string
}
