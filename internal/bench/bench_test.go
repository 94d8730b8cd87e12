package bench

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/chunk"
	"github.com/ajitpratap0/columnar/pkg/column"
	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/config"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Bench.Rows = 300
	cfg.Bench.Iterations = 2
	cfg.Column.ReserveRows = 64
	return cfg
}

func TestGeneratorDeterministic(t *testing.T) {
	cfg := smallConfig()
	a, err := NewGenerator(cfg.Bench).Chunk(100, cfg.Column)
	require.NoError(t, err)
	b, err := NewGenerator(cfg.Bench).Chunk(100, cfg.Column)
	require.NoError(t, err)
	assert.Equal(t, 100, a.NumRows())
	assert.True(t, chunk.Equal(a, b))

	cfg.Bench.Seed++
	c, err := NewGenerator(cfg.Bench).Chunk(100, cfg.Column)
	require.NoError(t, err)
	assert.False(t, chunk.Equal(a, c))
}

func TestGeneratorRespectsLimits(t *testing.T) {
	cfg := smallConfig()
	cfg.Bench.NullRatio = 0
	cfg.Bench.MaxStringLen = 5

	ch, err := NewGenerator(cfg.Bench).Chunk(200, cfg.Column)
	require.NoError(t, err)

	name, ok := ch.ColumnByName("name")
	require.True(t, ok)
	nc := name.(*column.NullableColumn)
	assert.False(t, nc.HasNull())
	values := nc.DataColumn().(*column.BinaryColumn)
	for i := 0; i < values.Size(); i++ {
		assert.LessOrEqual(t, len(values.Slice(i)), 5)
	}
}

func TestSelection(t *testing.T) {
	cfg := smallConfig()

	cfg.Bench.KeepRatio = 1
	for _, f := range NewGenerator(cfg.Bench).Selection(50) {
		assert.Equal(t, uint8(1), f)
	}
	cfg.Bench.KeepRatio = 0
	for _, f := range NewGenerator(cfg.Bench).Selection(50) {
		assert.Equal(t, uint8(0), f)
	}
}

func TestRun(t *testing.T) {
	for _, algo := range []compression.Algorithm{compression.None, compression.LZ4, compression.Zstd} {
		t.Run(string(algo), func(t *testing.T) {
			cfg := smallConfig()
			cfg.Codec.Algorithm = algo

			report, err := Run(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, 300, report.Rows)
			assert.Equal(t, algo, report.Algorithm)
			assert.LessOrEqual(t, report.Kept, 300)
			assert.Positive(t, report.Kept)
			assert.Positive(t, report.EncodedBytes)
			assert.Positive(t, report.ChunkBytes)
			assert.Positive(t, report.Encode)
			assert.Positive(t, report.Resources.HeapAlloc)

			var out bytes.Buffer
			require.NoError(t, report.Print(&out))
			assert.Contains(t, out.String(), "rows kept")
			assert.Contains(t, out.String(), string(algo))
		})
	}
}

func TestRunWritesFile(t *testing.T) {
	cfg := smallConfig()
	cfg.Bench.Output = filepath.Join(t.TempDir(), "bench.cck")

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	info, err := os.Stat(cfg.Bench.Output)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), report.FileBytes)
	assert.Equal(t, report.EncodedBytes, report.FileBytes)

	var out bytes.Buffer
	require.NoError(t, report.Print(&out))
	assert.Contains(t, out.String(), "file round trip")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, smallConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
