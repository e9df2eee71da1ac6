//go:build !unix && !windows

package mmapfile

import "os"

// Open reads path into memory directly, for platforms with neither unix nor
// Windows mapping support wired.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &File{Bytes: data}, nil
}
