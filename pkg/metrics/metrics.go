// Package metrics exposes Prometheus metrics for batch-level column work.
//
// Metrics are registered on a package Registry rather than the default one so
// embedding programs decide whether and where to expose them. The column
// packages record at chunk granularity; per-element operations are never
// instrumented.
//
// # Basic Usage
//
//	metrics.RowsAppended.WithLabelValues("row").Add(float64(n))
//
//	timer := metrics.NewTimer("encode")
//	encode(chunk)
//	timer.ObserveDuration()
//
//	metrics.WriteText(os.Stdout)
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every metric defined in this package.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// RowsAppended counts rows appended to chunks.
	// Labels: path (row, range, selective)
	RowsAppended = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "columnar_rows_appended_total",
			Help: "Total number of rows appended to chunks",
		},
		[]string{"path"},
	)

	// RowsFiltered counts rows visited by chunk filters.
	// Labels: result (kept, dropped)
	RowsFiltered = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "columnar_rows_filtered_total",
			Help: "Total number of rows visited by chunk filters",
		},
		[]string{"result"},
	)

	// CodecBytes counts encoded bytes.
	// Labels: direction (encode, decode), algorithm
	CodecBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "columnar_codec_bytes_total",
			Help: "Compressed bytes produced or consumed by the chunk codec",
		},
		[]string{"direction", "algorithm"},
	)

	// CodecLatency tracks codec latency in nanoseconds.
	// Labels: op (encode, decode)
	CodecLatency = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "columnar_codec_latency_nanoseconds",
			Help: "Chunk codec latency in nanoseconds",
			Buckets: []float64{
				1e3, // 1μs
				1e4, // 10μs
				1e5, // 100μs
				1e6, // 1ms
				1e7, // 10ms
				1e8, // 100ms
				1e9, // 1s
			},
		},
		[]string{"op"},
	)

	// CopyOnWrite counts deep copies made to detach a shared column.
	CopyOnWrite = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "columnar_copy_on_write_total",
			Help: "Deep copies made before mutating a shared column",
		},
	)

	// ChunkBytes reports the payload size of the last chunk built by a
	// producer. Labels: chunk
	ChunkBytes = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "columnar_chunk_bytes",
			Help: "Payload and index bytes held by a chunk",
		},
		[]string{"chunk"},
	)
)

// RegisterRuntime adds the Go runtime and process collectors to Registry.
// Command line tools call it once; libraries should not.
func RegisterRuntime() error {
	if err := Registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	return Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// WriteText writes every metric in Registry in the Prometheus text format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// Timer measures one codec operation.
type Timer struct {
	start time.Time
	op    string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(op string) *Timer {
	return &Timer{start: time.Now(), op: op}
}

// Stop returns the elapsed duration since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time in CodecLatency and returns it.
func (t *Timer) ObserveDuration() time.Duration {
	d := t.Stop()
	CodecLatency.WithLabelValues(t.op).Observe(float64(d.Nanoseconds()))
	return d
}
