// Package timerange resolves the query window from either a lookback
// day count or an explicit start/end timestamp pair.
package timerange

import (
	"fmt"
	"time"
)

// Accepted timestamp layouts for explicit start/end values.
const (
	// LayoutES matches the store's range-filter format,
	// e.g. "2024-03-12T22:32:26.383Z".
	LayoutES = "2006-01-02T15:04:05.000Z"
	// LayoutBasic is compact ISO 8601, e.g. "20240312T223226Z".
	LayoutBasic = "20060102T150405Z"
)

// Range is a resolved UTC query window.
type Range struct {
	Start time.Time
	End   time.Time
	// DurationDays is the window length in fractional days.
	DurationDays float64
}

// Resolve builds the window: daysBack > 0 counts back from now;
// otherwise both start and end must parse in one of the accepted
// layouts. Returns an error when neither form is usable.
func Resolve(daysBack int, start, end string, now time.Time) (Range, error) {
	var r Range

	switch {
	case daysBack > 0:
		r.End = now.UTC()
		r.Start = r.End.AddDate(0, 0, -daysBack)
	case start != "" && end != "":
		var err error
		if r.Start, err = parseTimestamp(start); err != nil {
			return Range{}, err
		}
		if r.End, err = parseTimestamp(end); err != nil {
			return Range{}, err
		}
	default:
		return Range{}, fmt.Errorf(`either "days_back" or both "time_start" and "time_end" must be provided`)
	}

	r.DurationDays = r.End.Sub(r.Start).Hours() / 24
	return r, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(LayoutES, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(LayoutBasic, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, err)
	}
	return t.UTC(), nil
}
