package compression

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"testing"
)

// fixedPage mimics a page of BIGINT values with a narrow range.
func fixedPage(rows int) []byte {
	r := rand.New(rand.NewSource(1))
	out := make([]byte, rows*8)
	for i := 0; i < rows; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], uint64(r.Intn(1000)))
	}
	return out
}

// varcharPage mimics the bytes buffer of a binary column.
func varcharPage(rows int) []byte {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	r := rand.New(rand.NewSource(2))
	out := make([]byte, 0, rows*8)
	for i := 0; i < rows; i++ {
		out = append(out, words[r.Intn(len(words))]...)
	}
	return out
}

func BenchmarkCompress(b *testing.B) {
	pages := map[string][]byte{
		"bigint":  fixedPage(64 * 1024),
		"varchar": varcharPage(64 * 1024),
	}
	for _, algo := range Algorithms() {
		for name, page := range pages {
			comp, err := NewCompressor(&Config{Algorithm: algo, Level: Default})
			if err != nil {
				b.Fatal(err)
			}
			b.Run(fmt.Sprintf("%s/%s", algo, name), func(b *testing.B) {
				b.SetBytes(int64(len(page)))
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := comp.Compress(page); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkDecompress(b *testing.B) {
	page := varcharPage(64 * 1024)
	for _, algo := range Algorithms() {
		comp, err := NewCompressor(&Config{Algorithm: algo, Level: Default})
		if err != nil {
			b.Fatal(err)
		}
		packed, err := comp.Compress(page)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(string(algo), func(b *testing.B) {
			b.SetBytes(int64(len(page)))
			for i := 0; i < b.N; i++ {
				if _, err := comp.Decompress(packed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRatio(b *testing.B) {
	page := fixedPage(64 * 1024)
	for _, algo := range Algorithms() {
		for _, level := range []Level{Fastest, Default, Best} {
			comp, err := NewCompressor(&Config{Algorithm: algo, Level: level})
			if err != nil {
				b.Fatal(err)
			}
			b.Run(fmt.Sprintf("%s/%d", algo, level), func(b *testing.B) {
				var packed []byte
				for i := 0; i < b.N; i++ {
					packed, _ = comp.Compress(page)
				}
				b.ReportMetric(float64(len(page))/float64(len(packed)), "ratio")
			})
		}
	}
}
