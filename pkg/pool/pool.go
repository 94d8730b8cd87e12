// Package pool provides the object pools behind column scratch memory.
//
// Columns are mutated in place and keep their capacity across resets, so
// the only short-lived allocations on the hot path are snapshot buffers
// (taken before destructive rewrites) and the encode/decode buffers of the
// chunk codec. Both come from the pools in this package.
//
// Example usage:
//
//	buf := pool.GetBytes(len(value))
//	defer pool.PutBytes(buf)
//	*buf = append(*buf, value...)
package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with an optional reset hook and hit/miss statistics.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		gets      int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The reset function, when non-nil, runs before an object re-enters the pool.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, allocating one when it is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	atomic.AddInt64(&p.stats.gets, 1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats reports pool usage.
//
// Returns:
//   - allocated: objects created by the pool
//   - inUse: objects currently checked out
//   - hits: Get calls served by a recycled object
//   - misses: Get calls that had to allocate
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	allocated = atomic.LoadInt64(&p.stats.allocated)
	gets := atomic.LoadInt64(&p.stats.gets)
	misses = allocated
	if misses > gets {
		misses = gets
	}
	return allocated, atomic.LoadInt64(&p.stats.inUse), gets - misses, misses
}

const (
	defaultByteCapacity = 256
	// Slices that grew beyond this are dropped instead of pooled so one
	// oversized value does not pin memory forever.
	maxPooledByteCapacity = 1 << 20
	defaultBufferCapacity = 64 * 1024
	maxPooledBufferSize   = 16 << 20
)

var (
	// BytePool holds scratch byte slices used to snapshot element values.
	BytePool = New(
		func() *[]byte {
			b := make([]byte, 0, defaultByteCapacity)
			return &b
		},
		func(b *[]byte) { *b = (*b)[:0] },
	)

	// BufferPool holds buffers for column page encoding.
	BufferPool = New(
		func() *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, defaultBufferCapacity))
		},
		func(b *bytes.Buffer) { b.Reset() },
	)
)

// GetBytes returns an empty byte slice with at least size capacity.
func GetBytes(size int) *[]byte {
	b := BytePool.Get()
	if cap(*b) < size {
		*b = make([]byte, 0, size)
	}
	return b
}

// PutBytes returns a slice obtained from GetBytes. Nil is ignored.
func PutBytes(b *[]byte) {
	if b == nil {
		return
	}
	if cap(*b) > maxPooledByteCapacity {
		// Balance inUse without keeping the memory.
		*b = make([]byte, 0, defaultByteCapacity)
	}
	BytePool.Put(b)
}

// GetBuffer returns an empty buffer.
func GetBuffer() *bytes.Buffer {
	return BufferPool.Get()
}

// PutBuffer returns a buffer obtained from GetBuffer. Nil is ignored.
func PutBuffer(b *bytes.Buffer) {
	if b == nil {
		return
	}
	if b.Cap() > maxPooledBufferSize {
		*b = *bytes.NewBuffer(make([]byte, 0, defaultBufferCapacity))
	}
	BufferPool.Put(b)
}
