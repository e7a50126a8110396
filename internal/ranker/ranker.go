// Package ranker selects the most frequent tokens of a frequency map.
package ranker

import (
	"cmp"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/frequency"
)

// TopN returns at most n entries of m sorted by count, highest first. Equal
// counts keep the order in which their tokens first appeared in the source
// text. n <= 0 yields an empty list.
func TopN(m *frequency.Map, n int) []frequency.Entry {
	if n <= 0 || m.Len() == 0 {
		return []frequency.Entry{}
	}
	entries := m.Entries()
	slices.SortStableFunc(entries, func(a, b frequency.Entry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(entries) > n {
		entries = entries[:n:n]
	}
	return entries
}
