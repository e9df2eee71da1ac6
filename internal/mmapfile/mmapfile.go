// Package mmapfile loads a seed file the way the original tool did: mapped
// read-only into the process's address space rather than copied, so a large
// corpus doesn't have to fit twice in memory. The mapping strategy is
// platform-specific (see mmap_unix.go, mmap_windows.go, mmap_other.go),
// mirroring the build-tag split the rest of this codebase's platform-facing
// packages use.
package mmapfile

// File is a memory-mapped (or, on unsupported platforms, ordinary)
// read-only view of a seed's contents.
type File struct {
	Bytes []byte
	close func() error
}

// Close releases the mapping. It is safe to call more than once.
func (f *File) Close() error {
	if f.close == nil {
		return nil
	}

	err := f.close()
	f.close = nil

	return err
}
