package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgresolve/internal/types"
)

func TestDirectivesFileAdapterLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pins.yaml")
	contents := "force:\n  numpy: 1.7.1\nblock:\n  - scipy\nreplace:\n  python: \"python 3.3*\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	directives, err := NewDirectivesFileAdapter().Load(path)
	require.NoError(t, err)
	require.Equal(t, []types.Directive{
		{Name: "numpy", Action: types.DirectiveForce, Value: "1.7.1"},
		{Name: "scipy", Action: types.DirectiveBlock},
		{Name: "python", Action: types.DirectiveReplace, Value: "python 3.3*"},
	}, directives)
}

func TestDirectivesFileAdapterMissingFile(t *testing.T) {
	_, err := NewDirectivesFileAdapter().Load("/nonexistent/pins.yaml")
	require.Error(t, err)
}
