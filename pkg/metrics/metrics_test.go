package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RowsAppended.WithLabelValues("row"))
	RowsAppended.WithLabelValues("row").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(RowsAppended.WithLabelValues("row")))

	cow := testutil.ToFloat64(CopyOnWrite)
	CopyOnWrite.Inc()
	assert.Equal(t, cow+1, testutil.ToFloat64(CopyOnWrite))
}

func TestTimerObserves(t *testing.T) {
	timer := NewTimer("encode")
	d := timer.ObserveDuration()
	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(CodecLatency), 1)
}

func TestWriteText(t *testing.T) {
	RowsFiltered.WithLabelValues("kept").Add(1)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))
	assert.Contains(t, buf.String(), "columnar_rows_filtered_total")
	assert.Contains(t, buf.String(), `result="kept"`)
}
