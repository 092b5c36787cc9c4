package market

import "strings"

// UniverseFilter holds the eligibility rules applied before an instrument
// enters the pipeline: last-close price band, ST exclusion, and venue
// code prefixes. Zero values disable a rule.
type UniverseFilter struct {
	MinClose        float64
	MaxClose        float64
	ExcludeST       bool
	ExcludePrefixes []string // e.g. 30 (ChiNext), 688 (STAR), 8 (Beijing)
	AllowPrefixes   []string // e.g. 6, 0 (main-board A shares); empty allows all
}

// SkipReason classifies why an instrument was excluded from a run.
type SkipReason string

const (
	SkipNone         SkipReason = ""
	SkipPriceRange   SkipReason = "price-range"
	SkipSTName       SkipReason = "st-name"
	SkipVenue        SkipReason = "venue"
	SkipEmpty        SkipReason = "empty-series"
	SkipShortHistory SkipReason = "short-history"
	SkipBadData      SkipReason = "bad-data"
)

// Check applies the filter to one instrument. It reads only the code,
// the display name and the latest close, so it is safe to share one
// filter across parallel workers.
func (f UniverseFilter) Check(s *Series) SkipReason {
	if s.Len() == 0 {
		return SkipEmpty
	}

	last := s.Last().Close
	if f.MinClose > 0 && last < f.MinClose {
		return SkipPriceRange
	}
	if f.MaxClose > 0 && last > f.MaxClose {
		return SkipPriceRange
	}

	if f.ExcludeST && strings.Contains(strings.ToUpper(s.Name), "ST") {
		return SkipSTName
	}

	for _, p := range f.ExcludePrefixes {
		if strings.HasPrefix(s.Instrument, p) {
			return SkipVenue
		}
	}
	if len(f.AllowPrefixes) > 0 {
		allowed := false
		for _, p := range f.AllowPrefixes {
			if strings.HasPrefix(s.Instrument, p) {
				allowed = true
				break
			}
		}
		if !allowed {
			return SkipVenue
		}
	}
	return SkipNone
}
