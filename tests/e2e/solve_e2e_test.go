package e2e

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgresolve/tests/testutil"
)

func TestSolveCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", ".",
		"--index", filepath.Join(root, "fixtures", "index.json"),
		"--output", outDir,
		"solve", "numpy",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	lockPath := filepath.Join(outDir, "pkg.lock")
	require.FileExists(t, lockPath)

	data, err := os.ReadFile(lockPath)
	require.NoError(t, err)
	var lock struct {
		Filenames []string `json:"filenames"`
		Cost      int      `json:"cost"`
	}
	require.NoError(t, json.Unmarshal(data, &lock))
	require.Equal(t, []string{"numpy-1.7.1-py33_0.tar.bz2", "python-3.3.2-0.tar.bz2"}, lock.Filenames)
}

func TestMatchCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", ".",
		"--index", filepath.Join(root, "fixtures", "index.json"),
		"match", "python 2.7*",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.Contains(t, string(out), "python-2.7.5-0.tar.bz2")
}
