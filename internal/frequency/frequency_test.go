package frequency

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
)

func TestCountExactMatch(t *testing.T) {
	m := Count([]string{"Go", "go", "词频", "go", "词频", "go"})

	require.Equal(t, 3, m.Len())
	require.Equal(t, 6, m.Total())
	require.Equal(t, 1, m.Get("Go"))
	require.Equal(t, 3, m.Get("go"))
	require.Equal(t, 2, m.Get("词频"))
	require.Zero(t, m.Get("missing"))
	require.Equal(t, []Entry{{"Go", 1}, {"go", 3}, {"词频", 2}}, m.Entries())
}

func TestCountEmpty(t *testing.T) {
	m := Count(nil)
	require.Zero(t, m.Len())
	require.Zero(t, m.Total())
	require.Empty(t, m.Entries())

	_, _, ok := m.Bounds()
	require.False(t, ok)
	require.Zero(t, m.Filter(1, 100).Len())
}

func TestCountTotalMatchesStreamLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		tokens := make([]string, rng.Intn(300))
		for j := range tokens {
			tokens[j] = strconv.Itoa(rng.Intn(40))
		}
		m := Count(tokens)

		sum := 0
		for _, e := range m.Entries() {
			require.Positive(t, e.Count)
			sum += e.Count
		}
		require.Equal(t, len(tokens), sum)
		require.Equal(t, len(tokens), m.Total())
	}
}

func fruit() *Map {
	return Count(strings.Fields("apple apple apple apple apple banana banana banana cherry cherry cherry date"))
}

func TestFilterScenario(t *testing.T) {
	got := fruit().Filter(2, 5)
	require.Equal(t, []Entry{{"apple", 5}, {"banana", 3}, {"cherry", 3}}, got.Entries())
	require.Equal(t, 11, got.Total())
}

func TestFilterDoesNotMutate(t *testing.T) {
	m := fruit()
	_ = m.Filter(4, 4)
	require.Equal(t, 4, m.Len())
	require.Equal(t, 12, m.Total())
}

func TestFilterBounds(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int
		want   []string
	}{
		{"inclusive both ends", 1, 5, []string{"apple", "banana", "cherry", "date"}},
		{"single value", 3, 3, []string{"banana", "cherry"}},
		{"degenerate gap", 2, 2, nil},
		{"above max", 6, 10, nil},
		{"below min", -5, 0, nil},
		{"wider than observed", 0, 1000, []string{"apple", "banana", "cherry", "date"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range fruit().Filter(tt.lo, tt.hi).Entries() {
				got = append(got, e.Token)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSoundAndComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		tokens := make([]string, 200)
		for j := range tokens {
			tokens[j] = strconv.Itoa(rng.Intn(30))
		}
		m := Count(tokens)
		lo := rng.Intn(10)
		hi := lo + rng.Intn(10)
		f := m.Filter(lo, hi)

		for _, e := range f.Entries() {
			require.GreaterOrEqual(t, e.Count, lo)
			require.LessOrEqual(t, e.Count, hi)
		}
		for _, e := range m.Entries() {
			if e.Count >= lo && e.Count <= hi {
				require.Equal(t, e.Count, f.Get(e.Token), "token %q missing from filtered map", e.Token)
			}
		}
	}
}

func TestBounds(t *testing.T) {
	lo, hi, ok := fruit().Bounds()
	require.True(t, ok)
	require.Equal(t, 1, lo)
	require.Equal(t, 5, hi)
}

func TestValidateRange(t *testing.T) {
	require.NoError(t, ValidateRange(1, 1))
	require.NoError(t, ValidateRange(1, 9))
	require.ErrorIs(t, ValidateRange(5, 2), apperrors.ErrInvalidRange)
}

func TestNilMap(t *testing.T) {
	var m *Map
	require.Zero(t, m.Len())
	require.Zero(t, m.Total())
	require.Zero(t, m.Get("x"))
	require.Nil(t, m.Entries())
	require.Zero(t, m.Filter(0, 10).Len())
}
