// Package dateutil provides datetime parsing and range utilities.
package dateutil

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Parsing errors.
var (
	ErrInvalidDateTime = errors.New("datetime must be in YYYY-MM-DD[ HH:MM[:SS]] or RFC 3339 format")
	ErrInvalidInterval = errors.New("interval must be a positive duration (e.g. 60m, 1h) or a number of minutes")
)

// Layouts are the datetime formats tried, in order, when no explicit layout matches.
var Layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseDateTime parses s using the given layouts first, then the defaults in Layouts.
// Values without a zone are read as UTC.
func ParseDateTime(s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDateTime
	}
	for _, layout := range layouts {
		if layout == "" {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// ParseInterval parses an expected sampling interval.
// A bare integer is read as minutes; anything else must be a Go duration string.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidInterval
	}

	var d time.Duration
	if n, err := strconv.Atoi(s); err == nil {
		d = time.Duration(n) * time.Minute
	} else {
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, ErrInvalidInterval
		}
	}

	if d <= 0 {
		return 0, ErrInvalidInterval
	}
	return d, nil
}

// TimeRange is an inclusive datetime range. A nil bound leaves that side open.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

// NewTimeRange parses optional start and end strings into a TimeRange.
// Empty strings leave the corresponding side unbounded.
// Ordering is not checked here; callers decide how to report it.
func NewTimeRange(start, end string, layouts ...string) (TimeRange, error) {
	var r TimeRange
	if start != "" {
		t, err := ParseDateTime(start, layouts...)
		if err != nil {
			return TimeRange{}, err
		}
		r.Start = &t
	}
	if end != "" {
		t, err := ParseDateTime(end, layouts...)
		if err != nil {
			return TimeRange{}, err
		}
		r.End = &t
	}
	return r, nil
}

// IsBounded returns true if either side of the range is set.
func (r TimeRange) IsBounded() bool {
	return r.Start != nil || r.End != nil
}

// Contains returns true if t lies within the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Bounds returns the minimum and maximum of ts.
// ok is false when ts is empty.
func Bounds(ts []time.Time) (lo, hi time.Time, ok bool) {
	if len(ts) == 0 {
		return time.Time{}, time.Time{}, false
	}
	lo, hi = ts[0], ts[0]
	for _, t := range ts[1:] {
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	return lo, hi, true
}
