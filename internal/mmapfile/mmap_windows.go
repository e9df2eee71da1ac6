//go:build windows

package mmapfile

import "os"

// Open reads path into memory directly. Windows file mapping requires a
// different syscall surface (CreateFileMapping/MapViewOfFile) than the unix
// path; until that's wired, a plain read keeps behavior correct at the cost
// of the memory-sharing benefit mmap gives on unix.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &File{Bytes: data}, nil
}
