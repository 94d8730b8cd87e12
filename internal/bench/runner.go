package bench

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/chunk"
	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/config"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/observability"
)

// Report summarizes one benchmark run. Encode and Decode are the best
// times over all iterations.
type Report struct {
	Rows         int
	Kept         int
	Algorithm    compression.Algorithm
	Iterations   int
	ChunkBytes   int
	EncodedBytes int64
	Generate     time.Duration
	Filter       time.Duration
	Encode       time.Duration
	Decode       time.Duration
	Arrow        time.Duration
	// FileBytes and File are only set when the chunk went through a file.
	FileBytes int64
	File      time.Duration
	Resources ResourceUsage
}

// Ratio is the encoded size relative to the in-memory size.
func (r *Report) Ratio() float64 {
	if r.ChunkBytes == 0 {
		return 0
	}
	return float64(r.EncodedBytes) / float64(r.ChunkBytes)
}

func (r *Report) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("rows", r.Rows),
		zap.Int("kept", r.Kept),
		zap.String("algorithm", string(r.Algorithm)),
		zap.Int("chunk_bytes", r.ChunkBytes),
		zap.Int64("encoded_bytes", r.EncodedBytes),
		zap.Float64("ratio", r.Ratio()),
		zap.Duration("generate", r.Generate),
		zap.Duration("filter", r.Filter),
		zap.Duration("encode", r.Encode),
		zap.Duration("decode", r.Decode),
		zap.Duration("arrow", r.Arrow),
		zap.Int64("file_bytes", r.FileBytes),
		zap.Uint64("rss", r.Resources.MemoryRSS),
	}
}

// Print writes the report as an aligned table.
func (r *Report) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"rows generated", fmt.Sprint(r.Rows)},
		{"rows kept", fmt.Sprint(r.Kept)},
		{"algorithm", string(r.Algorithm)},
		{"chunk bytes", fmt.Sprint(r.ChunkBytes)},
		{"encoded bytes", fmt.Sprintf("%d (%.2f)", r.EncodedBytes, r.Ratio())},
		{"generate", r.Generate.String()},
		{"filter", r.Filter.String()},
		{"encode", r.Encode.String()},
		{"decode", r.Decode.String()},
		{"arrow round trip", r.Arrow.String()},
		{"rss", fmt.Sprintf("%.1f MiB", float64(r.Resources.MemoryRSS)/(1<<20))},
		{"heap", fmt.Sprintf("%.1f MiB", float64(r.Resources.HeapAlloc)/(1<<20))},
		{"cpu", fmt.Sprintf("%.0f%% of %d cpus", r.Resources.CPUPercent, r.Resources.LogicalCPUs)},
	}
	if r.FileBytes > 0 {
		rows = append(rows,
			[2]string{"file bytes", fmt.Sprint(r.FileBytes)},
			[2]string{"file round trip", r.File.String()})
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Run generates a chunk from cfg.Bench, filters it and round trips it
// through the codec and the arrow bridge, verifying both.
func Run(ctx context.Context, cfg *config.Config) (report *Report, err error) {
	ctx, span := observability.StartSpan(ctx, "bench.Run",
		attribute.Int("rows", cfg.Bench.Rows),
		attribute.String("algorithm", string(cfg.Codec.Algorithm)))
	defer func() { observability.EndSpan(span, err) }()

	mon := NewResourceMonitor()
	gen := NewGenerator(cfg.Bench)
	codec, err := chunk.NewCodec(&cfg.Codec)
	if err != nil {
		return nil, err
	}
	report = &Report{
		Rows:       cfg.Bench.Rows,
		Algorithm:  codec.Algorithm(),
		Iterations: cfg.Bench.Iterations,
	}

	start := time.Now()
	ch, err := gen.Chunk(cfg.Bench.Rows, cfg.Column)
	if err != nil {
		return nil, err
	}
	report.Generate = time.Since(start)

	start = time.Now()
	report.Kept, err = ch.Filter(gen.Selection(ch.NumRows()))
	if err != nil {
		return nil, err
	}
	report.Filter = time.Since(start)
	report.ChunkBytes = ch.ByteSize()
	metrics.ChunkBytes.WithLabelValues("bench").Set(float64(report.ChunkBytes))

	var buf bytes.Buffer
	for i := 0; i < cfg.Bench.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf.Reset()
		start = time.Now()
		n, err := codec.Encode(ctx, &buf, ch)
		if err != nil {
			return nil, err
		}
		report.Encode = best(report.Encode, time.Since(start))
		report.EncodedBytes = n

		start = time.Now()
		back, err := codec.Decode(ctx, bytes.NewReader(buf.Bytes()))
		if err != nil {
			return nil, err
		}
		report.Decode = best(report.Decode, time.Since(start))
		if !chunk.Equal(ch, back) {
			return nil, errors.New(errors.ErrorTypeInternal, "decoded chunk differs from the original")
		}
	}

	start = time.Now()
	rec, err := ch.ToArrow(memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	back, err := chunk.FromArrow(rec)
	rec.Release()
	if err != nil {
		return nil, err
	}
	report.Arrow = time.Since(start)
	if !chunk.Equal(ch, back) {
		return nil, errors.New(errors.ErrorTypeInternal, "arrow round trip differs from the original")
	}

	if cfg.Bench.Output != "" {
		start = time.Now()
		if report.FileBytes, err = codec.WriteFile(ctx, cfg.Bench.Output, ch); err != nil {
			return nil, err
		}
		back, err := codec.ReadFile(ctx, cfg.Bench.Output)
		if err != nil {
			return nil, err
		}
		report.File = time.Since(start)
		if !chunk.Equal(ch, back) {
			return nil, errors.New(errors.ErrorTypeInternal, "chunk read from file differs from the original")
		}
	}

	report.Resources = mon.Usage()
	logger.WithContext(ctx).Info("benchmark finished", report.Fields()...)
	return report, nil
}

func best(current, d time.Duration) time.Duration {
	if current == 0 || d < current {
		return d
	}
	return current
}
