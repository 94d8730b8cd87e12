package strings

import (
	"fmt"
	"testing"
)

func generateTestStrings(count int) []string {
	strs := make([]string, count)
	for i := 0; i < count; i++ {
		strs[i] = fmt.Sprintf("test_string_%d", i)
	}
	return strs
}

func BenchmarkViews(b *testing.B) {
	strs := generateTestStrings(4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Views(strs)
	}
}

func BenchmarkViewsCopy(b *testing.B) {
	strs := generateTestStrings(4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out := make([][]byte, len(strs))
		for j, s := range strs {
			out[j] = []byte(s)
		}
		_ = out
	}
}
