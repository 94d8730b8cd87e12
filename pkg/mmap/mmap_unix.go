//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int64) ([]byte, bool, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false, err
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return data, true, nil
}

func unmap(b []byte) error { return unix.Munmap(b) }

func adviseWillNeed(b []byte) error { return unix.Madvise(b, unix.MADV_WILLNEED) }
