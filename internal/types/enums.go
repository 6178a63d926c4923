package types

// Ecosystem selects which version-ordering backend an Artifact's version
// string is interpreted with. The empty value is the native conda-style
// VersionOrder described by the package's own parsing rules.
type Ecosystem string

const (
	EcosystemNative Ecosystem = ""
	EcosystemPip    Ecosystem = "pip"
	EcosystemDeb    Ecosystem = "deb"
)

// ConstraintOp is a relational operator usable in a MatchSpec atom.
type ConstraintOp string

const (
	ConstraintOpEq  ConstraintOp = "=="
	ConstraintOpNe  ConstraintOp = "!="
	ConstraintOpGte ConstraintOp = ">="
	ConstraintOpLte ConstraintOp = "<="
	ConstraintOpGt  ConstraintOp = ">"
	ConstraintOpLt  ConstraintOp = "<"
)

// DirectiveAction is the kind of override a resolution directive applies
// to a single requirement before closure construction.
type DirectiveAction string

const (
	DirectiveForce   DirectiveAction = "force"
	DirectiveBlock   DirectiveAction = "block"
	DirectiveReplace DirectiveAction = "replace"
)
