package app

import "pkgresolve/internal/types"

// SolveRequest bundles a single top-level solve invocation's inputs,
// the CLI/consumer-facing shape that maps onto core.Request.
type SolveRequest struct {
	Specs         []string
	Installed     []string
	Features      []string
	MaxOnly       bool
	MinimalHint   bool
	Directives    []types.Directive
	MaxIterations int
	LockFile      string
}

// SolveResult is what Service.Solve returns to a CLI command.
type SolveResult struct {
	Filenames    []string
	Cost         int
	Alternatives int
	FastPath     bool
	LockPath     string
}

// DiagnoseRequest mirrors SolveRequest for a standalone diagnostics
// invocation (used by the `solve` command after an unsatisfiable result).
type DiagnoseRequest struct {
	Specs      []string
	Installed  []string
	Features   []string
	Directives []types.Directive
}
