package ports

// LockWriterPort writes a resolved set of filenames and the attained
// objective cost out as a deterministic lock file at path.
type LockWriterPort interface {
	WriteLock(path string, filenames []string, cost int) error
}
