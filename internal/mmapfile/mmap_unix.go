//go:build unix

package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/orizon-lang/orizon-mutate/internal/xerrors"
)

// Open maps path read-only. An empty file is read directly: unix.Mmap
// rejects a zero-length mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if info.Size() == 0 {
		return &File{Bytes: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, xerrors.MmapFailed(path, int(info.Size()), err)
	}

	return &File{
		Bytes: data,
		close: func() error { return unix.Munmap(data) },
	}, nil
}
