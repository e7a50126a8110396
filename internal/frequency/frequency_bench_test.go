package frequency

import (
	"strconv"
	"testing"
)

func benchTokens(n, distinct int) []string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = "词" + strconv.Itoa(i%distinct)
	}
	return tokens
}

func BenchmarkCount(b *testing.B) {
	tokens := benchTokens(50_000, 2_000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Count(tokens)
	}
}

func BenchmarkFilter(b *testing.B) {
	m := Count(benchTokens(50_000, 2_000))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Filter(10, 40)
	}
}
