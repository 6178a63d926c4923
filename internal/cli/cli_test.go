package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"solve", "match", "show"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestSolveCommandFlags(t *testing.T) {
	cmd := newSolveCommand()
	for _, name := range []string{
		"installed", "feature", "max-only", "topo-sort",
		"max-iterations", "lock-file", "force", "block", "replace",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestShowCommandFlags(t *testing.T) {
	cmd := newShowCommand()
	assert.NotNil(t, cmd.Flags().Lookup("max-only"))
}

func TestBuildDirectivesForceBlockReplace(t *testing.T) {
	directives, err := buildDirectives(solveOptions{
		Force:   []string{"numpy=1.7.1"},
		Block:   []string{"scipy"},
		Replace: []string{"python=python3"},
	})
	assert.NoError(t, err)
	assert.Len(t, directives, 3)
}

func TestBuildDirectivesInvalidForce(t *testing.T) {
	_, err := buildDirectives(solveOptions{Force: []string{"numpy"}})
	assert.Error(t, err)
}
