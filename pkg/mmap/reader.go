// Package mmap maps encoded chunk files into memory for reading.
package mmap

import (
	"bytes"
	"os"
	"sync"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Reader exposes the contents of a read-only file. On unix systems the
// file is memory mapped; elsewhere it is read into the heap.
type Reader struct {
	file     *os.File
	data     []byte
	mapped   bool
	fileSize int64
	pageSize int

	bytesRead int64
	pagesRead int64

	mu sync.RWMutex
}

// NewReader opens filename. Empty files are rejected.
func NewReader(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file")
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat file")
	}
	fileSize := stat.Size()
	if fileSize == 0 {
		file.Close()
		return nil, errors.Newf(errors.ErrorTypeFile, "file %s is empty", filename)
	}

	data, mapped, err := mapFile(file, fileSize)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to map file")
	}

	return &Reader{
		file:     file,
		data:     data,
		mapped:   mapped,
		fileSize: fileSize,
		pageSize: os.Getpagesize(),
	}, nil
}

// Size is the file length in bytes.
func (r *Reader) Size() int64 { return r.fileSize }

// Mapped reports whether the data is backed by a memory mapping.
func (r *Reader) Mapped() bool { return r.mapped }

// ReadAll returns the whole file. The slice is only valid until Close.
func (r *Reader) ReadAll() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefetchRange(0, r.fileSize)
	r.bytesRead += r.fileSize
	r.pagesRead += r.pages(r.fileSize)
	return r.data
}

// ReadRange returns up to length bytes starting at offset.
func (r *Reader) ReadRange(offset, length int64) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data == nil {
		return nil, errors.New(errors.ErrorTypeFile, "reader is closed")
	}
	if offset < 0 || offset >= r.fileSize {
		return nil, errors.Newf(errors.ErrorTypeFile, "offset %d out of range [0, %d)", offset, r.fileSize)
	}
	end := offset + length
	if end > r.fileSize {
		end = r.fileSize
	}

	r.prefetchRange(offset, end)
	r.bytesRead += end - offset
	r.pagesRead += r.pages(end - offset)
	return r.data[offset:end], nil
}

// NewSectionReader returns an io.Reader over the whole file.
func (r *Reader) NewSectionReader() *bytes.Reader {
	return bytes.NewReader(r.ReadAll())
}

func (r *Reader) pages(n int64) int64 {
	return (n + int64(r.pageSize) - 1) / int64(r.pageSize)
}

// prefetchRange asks the kernel to read ahead the pages covering
// [start, end).
func (r *Reader) prefetchRange(start, end int64) {
	if !r.mapped || r.data == nil {
		return
	}
	startPage := (start / int64(r.pageSize)) * int64(r.pageSize)
	endPage := r.pages(end) * int64(r.pageSize)
	if endPage > r.fileSize {
		endPage = r.fileSize
	}
	if endPage <= startPage {
		return
	}
	_ = adviseWillNeed(r.data[startPage:endPage])
}

// Close releases the mapping and the file.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.data != nil && r.mapped {
		err = unmap(r.data)
	}
	r.data = nil
	if r.file != nil {
		if closeErr := r.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.file = nil
	}
	return err
}

// Stats returns the bytes and pages handed out so far.
func (r *Reader) Stats() (bytesRead, pagesRead int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bytesRead, r.pagesRead
}
