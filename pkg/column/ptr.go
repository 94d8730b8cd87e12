package column

import (
	"sync/atomic"

	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"go.uber.org/zap"
)

// Ownership tells whether a Ptr is the only handle to its column.
type Ownership uint8

const (
	// Exclusive means no other handle refers to the column.
	Exclusive Ownership = iota
	// Shared means at least one other handle refers to the column.
	Shared
)

func (o Ownership) String() string {
	if o == Shared {
		return "shared"
	}
	return "exclusive"
}

// Ptr is a reference-counted handle to a column. Handles created by Share
// observe the same column; while more than one exists the column is read
// only and Mutable fails.
//
// A single Ptr value is not safe for concurrent use, but distinct handles
// to the same column may be used from different goroutines.
type Ptr struct {
	col  Column
	refs *atomic.Int32
}

// NewPtr takes ownership of c and returns its only handle. The view cache
// of binary data is built up front so later readers never write to c.
func NewPtr(c Column) *Ptr {
	warm(c)
	refs := new(atomic.Int32)
	refs.Store(1)
	return &Ptr{col: c, refs: refs}
}

func warm(c Column) {
	if w, ok := c.(interface{ warm() }); ok {
		w.warm()
	}
}

// Get returns the column for reading. It is nil after Release.
func (p *Ptr) Get() Column { return p.col }

// RefCount returns the number of live handles.
func (p *Ptr) RefCount() int {
	if p.refs == nil {
		return 0
	}
	return int(p.refs.Load())
}

// Unique reports whether p is the only handle.
func (p *Ptr) Unique() bool { return p.RefCount() == 1 }

func (p *Ptr) Ownership() Ownership {
	if p.Unique() {
		return Exclusive
	}
	return Shared
}

// Share returns another handle to the same column. The view cache is
// rebuilt first if writes through Mutable invalidated it, so the handles
// can read concurrently. Sharing a released handle returns another
// released handle.
func (p *Ptr) Share() *Ptr {
	if p.refs == nil {
		return &Ptr{}
	}
	warm(p.col)
	p.refs.Add(1)
	return &Ptr{col: p.col, refs: p.refs}
}

// Release drops this handle. Releasing twice is a no-op.
func (p *Ptr) Release() {
	if p.refs == nil {
		return
	}
	p.refs.Add(-1)
	p.col = nil
	p.refs = nil
}

// Mutable returns the column for writing if no other handle exists, and
// ErrShared otherwise.
func (p *Ptr) Mutable() (Column, error) {
	if !p.Unique() {
		return nil, ErrShared
	}
	return p.col, nil
}

// MutableCopy returns a column that is safe to write. A shared handle is
// detached first: it releases its reference and re-points to a private deep
// copy, leaving the other handles untouched.
func (p *Ptr) MutableCopy() Column {
	if p.Unique() {
		return p.col
	}
	shared := p.col
	p.col = shared.Clone()
	p.refs.Add(-1)
	p.refs = new(atomic.Int32)
	p.refs.Store(1)

	metrics.CopyOnWrite.Inc()
	logger.Debug("detached shared column",
		zap.Stringer("type", shared.Type()),
		zap.Int("rows", shared.Size()))
	return p.col
}
