package market

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotSorted is returned by Validate when bars are out of date order.
	ErrNotSorted = errors.New("market: bars not in ascending date order")

	// ErrDuplicateDate is returned by Validate when two bars share a date.
	ErrDuplicateDate = errors.New("market: duplicate bar date")

	// ErrInsufficientData is returned when a series is shorter than the
	// longest window a computation requires.
	ErrInsufficientData = errors.New("market: insufficient history")
)

// Series is the full daily bar history for one instrument. Bars must be
// unique by date and sorted ascending before any windowed computation;
// Validate enforces that rather than sorting silently.
type Series struct {
	Instrument string
	Name       string // display name, may be empty
	Bars       []Bar
}

func (s *Series) Len() int { return len(s.Bars) }

// Last returns the most recent bar. It panics on an empty series;
// callers check Len first.
func (s *Series) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Validate checks the ordering invariant. A series that fails Validate
// must not be fed to the indicator engine.
func (s *Series) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		prev, cur := s.Bars[i-1].Date, s.Bars[i].Date
		if cur.Before(prev) {
			return fmt.Errorf("%w: %s at index %d", ErrNotSorted, s.Instrument, i)
		}
		if cur.Equal(prev) {
			return fmt.Errorf("%w: %s %s", ErrDuplicateDate, s.Instrument, cur.Format("2006-01-02"))
		}
	}
	return nil
}

// Sort orders bars ascending by date. Loaders call it once at the I/O
// boundary; the engine itself never reorders input.
func (s *Series) Sort() {
	sort.Slice(s.Bars, func(i, j int) bool {
		return s.Bars[i].Date.Before(s.Bars[j].Date)
	})
}

// Closes returns the close column. The slice aliases no Series state and
// is safe for the caller to keep.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Truncate returns a shallow copy holding only bars[0..i]. Used by the
// look-ahead tests: indicator values at i must be identical on the
// truncated series.
func (s *Series) Truncate(i int) *Series {
	if i >= len(s.Bars) {
		i = len(s.Bars) - 1
	}
	return &Series{Instrument: s.Instrument, Name: s.Name, Bars: s.Bars[:i+1]}
}
