package adapters

import (
	"encoding/json"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgresolve/internal/types"
)

// IndexFileAdapter loads the §6 JSON index format from a local path,
// caching on first successful load. Grounded on the teacher's
// load-once-cache pattern in its YAML repo index adapter, adapted to
// encoding/json since the index format here is JSON, not YAML.
type IndexFileAdapter struct {
	Path   string
	cached types.RawIndex
	loaded bool
}

func NewIndexFileAdapter(path string) *IndexFileAdapter {
	return &IndexFileAdapter{Path: path}
}

func (a *IndexFileAdapter) Load() (types.RawIndex, error) {
	if a.loaded {
		return a.cached, nil
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("index file not found").
			WithCause(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid index file format").
			WithCause(err)
	}

	idx := make(types.RawIndex, len(raw))
	for filename, msg := range raw {
		var artifact types.Artifact
		if err := json.Unmarshal(msg, &artifact); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid artifact metadata for " + filename).
				WithCause(err)
		}
		idx[filename] = artifact
	}

	a.cached = idx
	a.loaded = true
	return idx, nil
}
