package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternExtract(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    string
		wantErr bool
	}{
		{name: "dash", file: "Jan-2024.xlsx", want: "Jan-2024"},
		{name: "no separator", file: "Feb2024.xlsx", want: "Feb-2024"},
		{name: "underscore", file: "rates_Mar_2023.xlsx", want: "Mar-2023"},
		{name: "full path", file: "/data/in/Dec-2023.xlsx", want: "Dec-2023"},
		{name: "first match only", file: "Apr-2022 vs May-2022.xlsx", want: "Apr-2022"},
		{name: "no year", file: "January.xlsx", wantErr: true},
		{name: "digits only", file: "2024.xlsx", wantErr: true},
	}

	e := NewPatternExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := e.Extract(tt.file)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoPeriodMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Label)
			assert.Equal(t, -1, p.Index)
		})
	}
}

func TestKeywordExtract(t *testing.T) {
	tests := []struct {
		file  string
		index int
		found bool
	}{
		{"rates_jan.xlsx", 0, true},
		{"FEBRUARY rates.xlsx", 1, true},
		{"2024-Sep.xls", 8, true},
		{"december.xlsx", 11, true},
		{"rates.xlsx", 0, false},
	}

	k := KeywordExtractor{}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			i, ok := k.Lookup(tt.file)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.index, i)

			p, err := k.Extract(tt.file)
			require.NoError(t, err)
			assert.Equal(t, Month(tt.index), p)
		})
	}
}

func TestOrder(t *testing.T) {
	observed := []Period{
		{Label: "Jan-2024", Index: -1},
		{Label: "Feb-2024", Index: -1},
		{Label: "Dec-2023", Index: -1},
		{Label: "Jan-2024", Index: -1},
	}

	got := NewPatternExtractor().Order(observed)
	labels := make([]string, len(got))
	for i, p := range got {
		labels[i] = p.Label
	}
	assert.Equal(t, []string{"Dec-2023", "Feb-2024", "Jan-2024"}, labels)

	months := KeywordExtractor{}.Order([]Period{Month(5), Month(2)})
	require.Len(t, months, 12)
	for i, p := range months {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, Months[i], p.Label)
	}
}

func TestNew(t *testing.T) {
	e, err := New(StrategyKeyword)
	require.NoError(t, err)
	assert.Equal(t, StrategyKeyword, e.Strategy())

	e, err = New("")
	require.NoError(t, err)
	assert.Equal(t, StrategyPattern, e.Strategy())

	_, err = New("weekly")
	assert.Error(t, err)
}

func TestMonthLookupImplementations(t *testing.T) {
	for _, e := range []Extractor{KeywordExtractor{}, &KeywordExtractor{}} {
		lk, ok := e.(MonthLookup)
		require.True(t, ok, "%T", e)
		_, found := lk.Lookup("rates.xlsx")
		assert.False(t, found)
	}

	_, ok := Extractor(NewPatternExtractor()).(MonthLookup)
	assert.False(t, ok)
}
