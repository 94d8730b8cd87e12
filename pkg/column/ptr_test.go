package column

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPtrUniqueMutable(t *testing.T) {
	c := NewBinary()
	c.AppendString("abc")

	p := c.CloneShared()
	assert.True(t, p.Unique())
	assert.Equal(t, 1, p.RefCount())

	m, err := p.Mutable()
	require.NoError(t, err)
	m.(*BinaryColumn).AppendString("def")
	assert.Equal(t, 2, p.Get().Size())
	assert.Equal(t, 1, c.Size())
}

func TestPtrShareBlocksMutation(t *testing.T) {
	p := NewPtr(NewBinary())
	q := p.Share()

	assert.Equal(t, 2, p.RefCount())
	assert.Equal(t, Shared, p.Ownership())
	assert.Equal(t, Shared, q.Ownership())
	assert.Same(t, p.Get(), q.Get())

	_, err := p.Mutable()
	assert.True(t, stderrors.Is(err, ErrShared))

	q.Release()
	q.Release()
	assert.Nil(t, q.Get())
	assert.Equal(t, 0, q.RefCount())
	assert.True(t, p.Unique())

	_, err = p.Mutable()
	assert.NoError(t, err)
}

func TestPtrMutableCopy(t *testing.T) {
	c := NewBinary()
	c.AppendString("shared")
	p := NewPtr(c)
	q := p.Share()

	before := testutil.ToFloat64(metrics.CopyOnWrite)
	m := q.MutableCopy().(*BinaryColumn)
	m.AppendString("private")

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CopyOnWrite))
	assert.True(t, p.Unique())
	assert.True(t, q.Unique())
	assert.Equal(t, []string{"shared"}, rows(p.Get().(*BinaryColumn)))
	assert.Equal(t, []string{"shared", "private"}, rows(m))

	// already unique, no copy
	assert.Same(t, m, q.MutableCopy())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CopyOnWrite))
}

func TestPtrSharedReadersDoNotWrite(t *testing.T) {
	c := NewNullable(NewBinary(), NewNullColumn())
	for i := 0; i < 1000; i++ {
		require.NoError(t, c.AppendDatum("row"))
	}
	p := NewPtr(c)
	data := c.DataColumn().(*BinaryColumn)
	assert.True(t, data.CacheValid())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		h := p.Share()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer h.Release()
			col := h.Get().(*NullableColumn).DataColumn().(*BinaryColumn)
			for _, v := range col.Data() {
				if string(v) != "row" {
					t.Errorf("unexpected %q", v)
				}
			}
		}()
	}
	wg.Wait()
	assert.True(t, p.Unique())
}

func TestPtrShareAfterMutation(t *testing.T) {
	c := NewBinary()
	c.AppendString("seed")
	p := c.CloneShared()

	m, err := p.Mutable()
	require.NoError(t, err)
	data := m.(*BinaryColumn)
	for i := 0; i < 1000; i++ {
		data.AppendString("row")
	}
	assert.False(t, data.CacheValid())

	handles := make([]*Ptr, 8)
	for i := range handles {
		handles[i] = p.Share()
	}
	assert.True(t, data.CacheValid())

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *Ptr) {
			defer wg.Done()
			defer h.Release()
			values := h.Get().(*BinaryColumn).Data()
			if len(values) != 1001 {
				t.Errorf("got %d rows", len(values))
			}
		}(h)
	}
	wg.Wait()
	assert.True(t, p.Unique())
}

func TestPtrShareReleased(t *testing.T) {
	p := NewPtr(NewBinary())
	p.Release()

	q := p.Share()
	assert.Nil(t, q.Get())
	assert.Equal(t, 0, q.RefCount())
	q.Release()
}
