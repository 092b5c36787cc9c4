package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestSeriesValidate(t *testing.T) {
	t.Parallel()

	s := &Series{Instrument: "600000", Bars: []Bar{
		{Date: day(0), Close: 10},
		{Date: day(1), Close: 11},
		{Date: day(2), Close: 12},
	}}
	assert.NoError(t, s.Validate())
}

func TestSeriesValidateOutOfOrder(t *testing.T) {
	t.Parallel()

	s := &Series{Instrument: "600000", Bars: []Bar{
		{Date: day(1)},
		{Date: day(0)},
	}}
	assert.ErrorIs(t, s.Validate(), ErrNotSorted)
}

func TestSeriesValidateDuplicate(t *testing.T) {
	t.Parallel()

	s := &Series{Instrument: "600000", Bars: []Bar{
		{Date: day(0)},
		{Date: day(0)},
	}}
	assert.ErrorIs(t, s.Validate(), ErrDuplicateDate)
}

func TestSeriesSort(t *testing.T) {
	t.Parallel()

	s := &Series{Bars: []Bar{
		{Date: day(2), Close: 3},
		{Date: day(0), Close: 1},
		{Date: day(1), Close: 2},
	}}
	s.Sort()
	assert.NoError(t, s.Validate())
	assert.Equal(t, []float64{1, 2, 3}, s.Closes())
}

func TestBarBodyAndRange(t *testing.T) {
	t.Parallel()

	b := Bar{Open: 10, High: 12, Low: 9, Close: 11}
	assert.True(t, b.Bullish())
	assert.InDelta(t, 1.0, b.Body(), 1e-12)
	assert.InDelta(t, 3.0, b.Range(), 1e-12)
	assert.InDelta(t, 11.0, b.BodyHigh(), 1e-12)
	assert.InDelta(t, 10.0, b.BodyLow(), 1e-12)
}

func TestUniverseFilter(t *testing.T) {
	t.Parallel()

	f := UniverseFilter{
		MinClose:        5,
		MaxClose:        20,
		ExcludeST:       true,
		ExcludePrefixes: []string{"30", "688", "8"},
		AllowPrefixes:   []string{"6", "0"},
	}

	mk := func(code, name string, close float64) *Series {
		return &Series{Instrument: code, Name: name, Bars: []Bar{{Date: day(0), Close: close}}}
	}

	tests := []struct {
		name   string
		series *Series
		want   SkipReason
	}{
		{"ok_shanghai", mk("600519", "浦发银行", 12), SkipNone},
		{"ok_shenzhen", mk("000001", "平安银行", 10), SkipNone},
		{"too_cheap", mk("600000", "x", 4.5), SkipPriceRange},
		{"too_expensive", mk("600000", "x", 30), SkipPriceRange},
		{"st_name", mk("600000", "*ST海润", 10), SkipSTName},
		{"chinext", mk("300750", "x", 10), SkipVenue},
		{"star", mk("688981", "x", 10), SkipVenue},
		{"beijing", mk("830799", "x", 10), SkipVenue},
		{"empty", &Series{Instrument: "600000"}, SkipEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Check(tt.series))
		})
	}
}
