// Package frequency counts tokens and narrows the resulting counts to an
// inclusive frequency range.
//
// A Map remembers the order in which tokens were first seen. Nothing about
// counting depends on that order, but ranking uses it to break ties
// deterministically.
package frequency

import (
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
)

// Entry is one token and its occurrence count.
type Entry struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %d", e.Token, e.Count)
}

// Map is an immutable token → count mapping. The zero value is an empty map.
type Map struct {
	counts map[string]int
	order  []string
	total  int
}

// Count builds a Map in a single pass over tokens. Tokens are compared by
// exact string equality.
func Count(tokens []string) *Map {
	m := &Map{counts: make(map[string]int, len(tokens)/2+1)}
	for _, tok := range tokens {
		if _, seen := m.counts[tok]; !seen {
			m.order = append(m.order, tok)
		}
		m.counts[tok]++
	}
	m.total = len(tokens)
	return m
}

// Get returns the count for token, or 0.
func (m *Map) Get(token string) int {
	if m == nil {
		return 0
	}
	return m.counts[token]
}

// Len is the number of distinct tokens.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Total is the sum of all counts.
func (m *Map) Total() int {
	if m == nil {
		return 0
	}
	return m.total
}

// Entries returns a fresh slice of all entries in first-seen order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.order))
	for i, tok := range m.order {
		out[i] = Entry{Token: tok, Count: m.counts[tok]}
	}
	return out
}

// Bounds reports the smallest and largest count in the map. ok is false for
// an empty map.
func (m *Map) Bounds() (lo, hi int, ok bool) {
	if m.Len() == 0 {
		return 0, 0, false
	}
	lo, hi = m.counts[m.order[0]], m.counts[m.order[0]]
	for _, tok := range m.order[1:] {
		c := m.counts[tok]
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return lo, hi, true
}

// Filter returns a new Map holding the entries with lo <= count <= hi, in
// first-seen order. Bounds are not clamped to the observed range; a range
// that matches nothing yields an empty map. The receiver is unchanged.
func (m *Map) Filter(lo, hi int) *Map {
	out := &Map{counts: make(map[string]int)}
	if m == nil {
		return out
	}
	for _, tok := range m.order {
		c := m.counts[tok]
		if c < lo || c > hi {
			continue
		}
		out.order = append(out.order, tok)
		out.counts[tok] = c
		out.total += c
	}
	return out
}

// ValidateRange rejects lo > hi.
func ValidateRange(lo, hi int) error {
	if lo > hi {
		return fmt.Errorf("%w: min %d is greater than max %d", apperrors.ErrInvalidRange, lo, hi)
	}
	return nil
}
