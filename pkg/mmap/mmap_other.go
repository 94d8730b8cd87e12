//go:build !unix

package mmap

import (
	"io"
	"os"
)

func mapFile(f *os.File, size int64) ([]byte, bool, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, false, err
	}
	return data, false, nil
}

func unmap([]byte) error { return nil }

func adviseWillNeed([]byte) error { return nil }
