package app

import (
	"pkgresolve/internal/adapters"
	"pkgresolve/internal/ports"
)

// Service wires the library's ports to concrete adapters, the
// application's single long-lived entry point, per the teacher's
// Service shape.
type Service struct {
	IndexLoader ports.IndexLoaderPort
	LockWriter  ports.LockWriterPort
}

// NewService constructs a Service that reads the artifact index from
// indexPath and writes lock files under outputDir.
func NewService(indexPath, outputDir string) Service {
	return Service{
		IndexLoader: adapters.NewIndexFileAdapter(indexPath),
		LockWriter:  adapters.NewLockFileAdapter(outputDir),
	}
}
