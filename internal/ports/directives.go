package ports

import "pkgresolve/internal/types"

// DirectivesLoaderPort loads a set of resolution directives (force,
// block, replace) from wherever they are pinned on disk.
type DirectivesLoaderPort interface {
	Load(path string) ([]types.Directive, error)
}
