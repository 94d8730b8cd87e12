package compression

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() []byte {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "row-%04d|varchar value %d|", i, i%7)
	}
	return []byte(b.String())
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	original := samplePage()

	for _, algo := range Algorithms() {
		for _, level := range []Level{Fastest, Default, Better, Best} {
			t.Run(fmt.Sprintf("%s/%d", algo, level), func(t *testing.T) {
				comp, err := NewCompressor(&Config{Algorithm: algo, Level: level})
				require.NoError(t, err)
				assert.Equal(t, algo, comp.Algorithm())
				assert.Equal(t, level, comp.Level())

				packed, err := comp.Compress(original)
				require.NoError(t, err)
				if algo != None {
					assert.Less(t, len(packed), len(original))
				}

				unpacked, err := comp.Decompress(packed)
				require.NoError(t, err)
				assert.Equal(t, original, unpacked)
			})
		}
	}
}

func TestStreamRoundTrip(t *testing.T) {
	original := samplePage()

	for _, algo := range Algorithms() {
		t.Run(string(algo), func(t *testing.T) {
			comp, err := NewCompressor(&Config{Algorithm: algo, Level: Default})
			require.NoError(t, err)

			var packed bytes.Buffer
			require.NoError(t, comp.CompressStream(&packed, bytes.NewReader(original)))

			var unpacked bytes.Buffer
			require.NoError(t, comp.DecompressStream(&unpacked, &packed))
			assert.Equal(t, original, unpacked.Bytes())
		})
	}
}

func TestEmptyInput(t *testing.T) {
	for _, algo := range []Algorithm{None, Gzip, Snappy, LZ4, S2, Deflate} {
		comp, err := NewCompressor(&Config{Algorithm: algo})
		require.NoError(t, err)

		packed, err := comp.Compress(nil)
		require.NoError(t, err, algo)
		unpacked, err := comp.Decompress(packed)
		require.NoError(t, err, algo)
		assert.Empty(t, unpacked, algo)
	}
}

func TestCorruptInput(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0xfd, 0xfc, 0x00, 0x01, 0x02}

	for _, algo := range []Algorithm{Gzip, Snappy, Zstd, S2} {
		comp, err := NewCompressor(&Config{Algorithm: algo})
		require.NoError(t, err)

		_, err = comp.Decompress(garbage)
		require.Error(t, err, algo)
		assert.True(t, errors.IsType(err, errors.ErrorTypeData), algo)
	}
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, Zstd, a)

	a, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, a)

	_, err = ParseAlgorithm("brotli")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = NewCompressor(&Config{Algorithm: "brotli"})
	assert.Error(t, err)
}

func TestCompressorPool(t *testing.T) {
	cp, err := NewCompressorPool(&Config{Algorithm: S2, Level: Better})
	require.NoError(t, err)

	original := samplePage()
	packed, err := cp.Compress(original)
	require.NoError(t, err)
	unpacked, err := cp.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, original, unpacked)

	_, err = NewCompressorPool(&Config{Algorithm: "brotli"})
	assert.Error(t, err)
}

func TestCompressAll(t *testing.T) {
	comp, err := NewCompressor(&Config{Algorithm: LZ4})
	require.NoError(t, err)

	pages := make([][]byte, 16)
	for i := range pages {
		pages[i] = bytes.Repeat([]byte{byte('a' + i)}, 1000+i)
	}

	packed, err := CompressAll(context.Background(), comp, pages, 4)
	require.NoError(t, err)
	require.Len(t, packed, len(pages))

	unpacked, err := DecompressAll(context.Background(), comp, packed, 0)
	require.NoError(t, err)
	assert.Equal(t, pages, unpacked)
}

func TestCompressAllCancelled(t *testing.T) {
	comp, err := NewCompressor(&Config{Algorithm: None})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CompressAll(ctx, comp, [][]byte{{1}, {2}, {3}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecompressAllPropagatesErrors(t *testing.T) {
	comp, err := NewCompressor(&Config{Algorithm: Zstd})
	require.NoError(t, err)

	_, err = DecompressAll(context.Background(), comp, [][]byte{{1, 2, 3}, {4, 5, 6}}, 2)
	assert.Error(t, err)
}
