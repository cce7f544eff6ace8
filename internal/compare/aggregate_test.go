package compare

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryabkov82/rate-comparer/internal/period"
)

type fileReadings struct {
	period   period.Period
	readings []Reading
}

func pattern(label string) period.Period {
	return period.Period{Label: label, Index: -1}
}

func sampleFiles() []fileReadings {
	return []fileReadings{
		{pattern("Jan-2024"), []Reading{
			{Key: RateKey{"99213", "", ""}, Value: 10},
			{Key: RateKey{"99214", "25", ""}, Value: 20},
		}},
		{pattern("Feb-2024"), []Reading{
			{Key: RateKey{"99213", "", ""}, Value: 10.5},
			{Key: RateKey{"99215", "", ""}, Value: 30},
		}},
		{pattern("Dec-2023"), []Reading{
			{Key: RateKey{"99214", "25", ""}, Value: 19},
		}},
	}
}

func fold(files []fileReadings) *Aggregator {
	agg := NewAggregator(period.NewPatternExtractor())
	for _, f := range files {
		agg.Fold(f.period, slices.Values(f.readings))
	}
	return agg
}

func TestAggregatorFold(t *testing.T) {
	agg := fold(sampleFiles())

	assert.Equal(t, 3, agg.Len())

	v, ok := agg.Value(RateKey{"99213", "", ""}, pattern("Feb-2024"))
	assert.True(t, ok)
	assert.Equal(t, 10.5, v)

	_, ok = agg.Value(RateKey{"99215", "", ""}, pattern("Jan-2024"))
	assert.False(t, ok, "отсутствующее остаётся отсутствующим")

	table := agg.Table()
	assert.Equal(t, []RateKey{{"99213", "", ""}, {"99214", "25", ""}, {"99215", "", ""}}, table.Keys, "first-seen order")
	assert.Equal(t, []period.Period{pattern("Dec-2023"), pattern("Feb-2024"), pattern("Jan-2024")}, table.Periods)
}

func TestAggregatorPermutationInvariance(t *testing.T) {
	files := sampleFiles()
	want := fold(files).Table()

	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range perms {
		shuffled := make([]fileReadings, len(files))
		for i, j := range perm {
			shuffled[i] = files[j]
		}
		got := fold(shuffled).Table()

		assert.Equal(t, want.Values, got.Values, "perm %v", perm)
		assert.Equal(t, want.Periods, got.Periods, "perm %v", perm)
		assert.ElementsMatch(t, want.Keys, got.Keys, "perm %v", perm)
	}
}

func TestAggregatorLastReadingWins(t *testing.T) {
	agg := NewAggregator(period.NewPatternExtractor())
	n := agg.Fold(pattern("Jan-2024"), slices.Values([]Reading{
		{Key: RateKey{"99213", "", ""}, Value: 10, Row: 2},
		{Key: RateKey{"99213", "", ""}, Value: 12, Row: 9},
	}))

	assert.Equal(t, 2, n)
	assert.Equal(t, 1, agg.Len())
	v, _ := agg.Value(RateKey{"99213", "", ""}, pattern("Jan-2024"))
	assert.Equal(t, 12.0, v)
}

func TestAggregatorPeriodsOnlyWithData(t *testing.T) {
	agg := NewAggregator(period.NewPatternExtractor())
	agg.Fold(pattern("Jan-2024"), slices.Values([]Reading{{Key: RateKey{ProcCode: "1"}, Value: 1}}))
	agg.Fold(pattern("Feb-2024"), slices.Values([]Reading(nil)))

	assert.Equal(t, []period.Period{pattern("Jan-2024")}, agg.Periods())
}

func TestAggregatorKeywordPeriods(t *testing.T) {
	agg := NewAggregator(period.KeywordExtractor{})
	agg.Fold(period.Month(2), slices.Values([]Reading{{Key: RateKey{ProcCode: "1"}, Value: 1}}))

	got := agg.Periods()
	require.Len(t, got, 12)
	assert.Equal(t, "Jan", got[0].Label)
	assert.Equal(t, "Dec", got[11].Label)
}

func TestAggregatorTableIsSnapshot(t *testing.T) {
	agg := fold(sampleFiles())
	table := agg.Table()

	agg.Fold(pattern("Mar-2024"), slices.Values([]Reading{{Key: RateKey{ProcCode: "new"}, Value: 1}}))
	assert.Len(t, table.Keys, 3)
	assert.Len(t, table.Periods, 3)
}

func TestParseAbsentPolicy(t *testing.T) {
	p, err := ParseAbsentPolicy("", period.StrategyPattern)
	require.NoError(t, err)
	assert.Equal(t, AbsentBlank, p)

	p, err = ParseAbsentPolicy("", period.StrategyKeyword)
	require.NoError(t, err)
	assert.Equal(t, AbsentZero, p)

	p, err = ParseAbsentPolicy("BLANK", period.StrategyKeyword)
	require.NoError(t, err)
	assert.Equal(t, AbsentBlank, p)

	_, err = ParseAbsentPolicy("nan", period.StrategyPattern)
	assert.Error(t, err)
}
