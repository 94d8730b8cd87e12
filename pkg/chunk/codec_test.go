package chunk

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/column"
	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/observability"
	"github.com/ajitpratap0/columnar/pkg/types"
)

func newCodec(t *testing.T, algo compression.Algorithm) *Codec {
	t.Helper()
	codec, err := NewCodec(&compression.Config{Algorithm: algo, Level: compression.Default, Concurrency: 4})
	require.NoError(t, err)
	return codec
}

func encode(t *testing.T, codec *Codec, ch *Chunk) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := codec.Encode(context.Background(), &buf, ch)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.Bytes()
}

func TestCodecRoundTrip(t *testing.T) {
	for _, algo := range compression.Algorithms() {
		t.Run(string(algo), func(t *testing.T) {
			codec := newCodec(t, algo)
			ch := sampleChunk(t, 500)
			ch.SetDeleteState(column.DelPartialSatisfied)

			data := encode(t, codec, ch)
			back, err := codec.Decode(context.Background(), bytes.NewReader(data))
			require.NoError(t, err)

			assert.True(t, Equal(ch, back))
			for i := 0; i < back.NumColumns(); i++ {
				assert.Equal(t, column.DelPartialSatisfied, back.Column(i).DeleteState())
			}
		})
	}
}

func TestCodecEmptyChunk(t *testing.T) {
	for _, algo := range compression.Algorithms() {
		t.Run(string(algo), func(t *testing.T) {
			codec := newCodec(t, algo)
			ch := sampleChunk(t, 0)

			back, err := codec.Decode(context.Background(), bytes.NewReader(encode(t, codec, ch)))
			require.NoError(t, err)
			assert.Equal(t, 0, back.NumRows())
			assert.True(t, back.Schema().Equal(ch.Schema()))
		})
	}
}

func TestCodecDecodesAnyAlgorithm(t *testing.T) {
	ch := sampleChunk(t, 50)
	data := encode(t, newCodec(t, compression.Zstd), ch)

	back, err := newCodec(t, compression.Snappy).Decode(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, Equal(ch, back))
}

func TestCodecCompresses(t *testing.T) {
	ch, err := NewChunk(NewSchema(Field{Name: "s", Type: types.TypeVarchar}))
	require.NoError(t, err)
	for i := 0; i < 2000; i++ {
		require.NoError(t, ch.AppendRow("the same string over and over"))
	}

	plain := encode(t, newCodec(t, compression.None), ch)
	packed := encode(t, newCodec(t, compression.LZ4), ch)
	assert.Less(t, len(packed), len(plain)/2)
}

func TestCodecMetrics(t *testing.T) {
	codec := newCodec(t, compression.S2)
	counter := metrics.CodecBytes.WithLabelValues("encode", string(compression.S2))
	before := testutil.ToFloat64(counter)

	data := encode(t, codec, sampleChunk(t, 10))
	assert.Equal(t, before+float64(len(data)), testutil.ToFloat64(counter))
}

func TestCodecCorruptInput(t *testing.T) {
	codec := newCodec(t, compression.Snappy)
	data := encode(t, codec, sampleChunk(t, 5))

	decode := func(in []byte) error {
		_, err := codec.Decode(context.Background(), bytes.NewReader(in))
		return err
	}

	t.Run("prefixes", func(t *testing.T) {
		for n := 0; n < len(data); n++ {
			err := decode(data[:n])
			require.Error(t, err, "prefix of %d bytes", n)
			assert.True(t, errors.IsType(err, errors.ErrorTypeData), "prefix of %d bytes: %v", n, err)
		}
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] = 'X'
		assert.True(t, errors.IsType(decode(bad), errors.ErrorTypeData))
	})

	// first column header follows magic, order, algorithm and counts
	headerLen := len(magic) + 1 + 1 + len(compression.Snappy) + 2 + 4
	firstType := headerLen + 2 + len("id")

	t.Run("invalid logical type", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[firstType] = 250
		assert.True(t, errors.IsType(decode(bad), errors.ErrorTypeData))
	})

	t.Run("array type", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[firstType] = uint8(types.TypeArray)
		assert.True(t, errors.IsType(decode(bad), errors.ErrorTypeData))
	})

	t.Run("invalid delete state", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[firstType+2] = 9
		assert.True(t, errors.IsType(decode(bad), errors.ErrorTypeData))
	})

	t.Run("raw length mismatch", func(t *testing.T) {
		bad := bytes.Clone(data)
		raw := binary.LittleEndian.Uint32(bad[firstType+3:])
		binary.LittleEndian.PutUint32(bad[firstType+3:], raw+8)
		assert.True(t, errors.IsType(decode(bad), errors.ErrorTypeData))
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		bad := bytes.Clone(data)
		copy(bad[len(magic)+2:], "zzzzzz")
		assert.True(t, errors.IsType(decode(bad), errors.ErrorTypeData))
	})

	t.Run("garbage page", func(t *testing.T) {
		bad := bytes.Clone(data)
		page := firstType + 3 + 8
		for i := page; i < page+4; i++ {
			bad[i] = 0xff
		}
		assert.True(t, errors.IsType(decode(bad), errors.ErrorTypeData))
	})
}

func TestCodecCancelled(t *testing.T) {
	codec := newCodec(t, compression.Gzip)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := codec.Encode(ctx, &bytes.Buffer{}, sampleChunk(t, 10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCodecTracing(t *testing.T) {
	var out bytes.Buffer
	cfg := observability.DefaultConfig()
	cfg.Exporter = "stdout"
	require.NoError(t, observability.Init(cfg, &out))

	codec := newCodec(t, compression.LZ4)
	data := encode(t, codec, sampleChunk(t, 3))
	_, err := codec.Decode(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	require.NoError(t, observability.Shutdown(context.Background()))
	assert.Contains(t, out.String(), "chunk.Encode")
	assert.Contains(t, out.String(), "chunk.Decode")
}
