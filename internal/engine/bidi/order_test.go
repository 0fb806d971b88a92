package bidi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coverage checks that runs cover [0, n) exactly once.
func coverage(t *testing.T, runs []Run, n int) {
	t.Helper()
	seen := make([]int, n)
	for _, r := range runs {
		require.LessOrEqual(t, r.From, r.To)
		for i := r.From; i < r.To; i++ {
			seen[i]++
		}
	}
	for i, c := range seen {
		require.Equalf(t, 1, c, "byte %d covered %d times", i, c)
	}
}

func TestOrderFastPath(t *testing.T) {
	assert.Nil(t, Order("", LTR))
	assert.Nil(t, Order("", RTL))
	assert.Nil(t, Order("hello", LTR))
	assert.Nil(t, Order("1 + 2 = 3", LTR))
}

func TestOrderMixedLTR(t *testing.T) {
	text := "abc עברית def"
	runs := Order(text, LTR)

	require.GreaterOrEqual(t, len(runs), 3)
	coverage(t, runs, len(text))
	assert.Equal(t, []Run{
		{From: 0, To: 4, Level: 0},
		{From: 4, To: 14, Level: 1},
		{From: 14, To: 18, Level: 0},
	}, runs)
}

func TestOrderRTLReversesRuns(t *testing.T) {
	text := "abc עברית"
	runs := Order(text, RTL)

	coverage(t, runs, len(text))
	require.Len(t, runs, 2)
	assert.Equal(t, 0, runs[len(runs)-1].Level, "left-to-right text ends up last in rtl order")
	assert.Equal(t, 1, runs[0].Level)
}

func TestOrderNumbersInsideRTL(t *testing.T) {
	text := "אב 12 גד"
	runs := Order(text, LTR)
	coverage(t, runs, len(text))

	// Visual order for an rtl stretch inside an ltr paragraph: last word,
	// number, first word.
	require.Len(t, runs, 3)
	assert.True(t, runs[1].Numeric)
	assert.Equal(t, 1, runs[1].Level)
	assert.Equal(t, "12", text[runs[1].From:runs[1].To])
	assert.Greater(t, runs[0].From, runs[2].From)
	assert.True(t, runs[0].RTL())
	assert.False(t, runs[1].RTL())
}

func TestOrderArabicDigitsAfterArabicLetter(t *testing.T) {
	text := "عدد 123"
	runs := Order(text, RTL)
	coverage(t, runs, len(text))
	require.Len(t, runs, 2)
	assert.True(t, runs[0].Numeric, "numbers come first visually in rtl")
}

func TestOrderNonSpacingMarkFollowsBase(t *testing.T) {
	// Hebrew letter followed by a point (NSM) stays in one rtl run.
	text := "x שָׁ y"
	runs := Order(text, LTR)
	coverage(t, runs, len(text))
	require.Len(t, runs, 3)
	assert.Equal(t, 1, runs[1].Level)
}

func TestPartAt(t *testing.T) {
	order := []Run{{From: 0, To: 4}, {From: 4, To: 14, Level: 1}, {From: 14, To: 18}}

	found, other := PartAt(order, 2, false)
	assert.Equal(t, 0, found)
	assert.Equal(t, -1, other)

	found, other = PartAt(order, 4, true)
	assert.Equal(t, 0, found)
	assert.Equal(t, 1, other)

	found, other = PartAt(order, 4, false)
	assert.Equal(t, 1, found)
	assert.Equal(t, 0, other)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("RTL")
	require.NoError(t, err)
	assert.Equal(t, RTL, d)

	_, err = ParseDirection("up")
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	c := NewCache(2)
	first := c.Order("abc עברית def", LTR)
	second := c.Order("abc עברית def", LTR)
	assert.Equal(t, first, second)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	c.Order("a", LTR)
	c.Order("b", LTR) // exceeds capacity, cache is emptied first
	c.Reset()
	hits, misses = c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
