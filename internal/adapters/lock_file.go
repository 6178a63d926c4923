package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgresolve/internal/ports"
)

// lockFile is the on-disk shape of a written lock file: sorted
// filenames plus the pseudo-Boolean cost the solver attained for
// them, the on-disk analogue of conda's explicit lock format extended
// with the objective value for later diff/audit.
type lockFile struct {
	Filenames []string `json:"filenames"`
	Cost      int      `json:"cost"`
}

// LockFileAdapter writes a resolved filename set to a deterministic
// JSON lock file. Grounded on the teacher's OutputFileAdapter
// write-and-sort pattern.
type LockFileAdapter struct {
	Dir string
}

func NewLockFileAdapter(dir string) LockFileAdapter {
	return LockFileAdapter{Dir: dir}
}

func (a LockFileAdapter) WriteLock(path string, filenames []string, cost int) error {
	if a.Dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	ordered := append([]string(nil), filenames...)
	sort.Strings(ordered)
	data, err := json.MarshalIndent(lockFile{Filenames: ordered, Cost: cost}, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal lock file").
			WithCause(err)
	}
	full := filepath.Join(a.Dir, path)
	return os.WriteFile(full, append(data, '\n'), 0644)
}

var _ ports.LockWriterPort = LockFileAdapter{}
