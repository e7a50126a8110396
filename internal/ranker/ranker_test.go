package ranker

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/frequency"
)

func fruit() *frequency.Map {
	return frequency.Count(strings.Fields("apple apple apple apple apple banana banana banana cherry cherry cherry date"))
}

func TestTopNScenario(t *testing.T) {
	top := TopN(fruit().Filter(2, 5), 2)
	require.Equal(t, []frequency.Entry{
		{Token: "apple", Count: 5},
		{Token: "banana", Count: 3},
	}, top)
}

func TestTopNTiesKeepFirstSeenOrder(t *testing.T) {
	m := frequency.Count([]string{"c", "b", "a", "b", "a", "c", "z"})
	require.Equal(t, []frequency.Entry{
		{Token: "c", Count: 2},
		{Token: "b", Count: 2},
		{Token: "a", Count: 2},
		{Token: "z", Count: 1},
	}, TopN(m, m.Len()))
}

func TestTopNSizes(t *testing.T) {
	m := fruit()
	tests := []struct {
		n    int
		want int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{4, 4},
		{100, 4},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.n), func(t *testing.T) {
			got := TopN(m, tt.n)
			require.NotNil(t, got)
			require.Len(t, got, tt.want)
		})
	}
}

func TestTopNEmptyMap(t *testing.T) {
	require.Empty(t, TopN(frequency.Count(nil), 10))
	require.Empty(t, TopN(nil, 10))
}

func TestTopNProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		tokens := make([]string, rng.Intn(500))
		for j := range tokens {
			tokens[j] = strconv.Itoa(rng.Intn(60))
		}
		m := frequency.Count(tokens)
		n := rng.Intn(80)

		top := TopN(m, n)
		require.Len(t, top, min(n, m.Len()))
		for j := 1; j < len(top); j++ {
			require.LessOrEqual(t, top[j].Count, top[j-1].Count)
		}
		for _, e := range top {
			require.Equal(t, m.Get(e.Token), e.Count)
		}
	}
}

func TestTopNDeterministic(t *testing.T) {
	m := frequency.Count([]string{"x", "y", "z", "y", "x", "w"})
	first := TopN(m, 3)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, TopN(m, 3))
	}
}

func TestTopNDoesNotAliasMap(t *testing.T) {
	m := fruit()
	top := TopN(m, 2)
	top[0].Count = 99
	require.Equal(t, 5, m.Get("apple"))
}
