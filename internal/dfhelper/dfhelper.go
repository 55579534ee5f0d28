// Package dfhelper validates and filters timeseries tables.
//
// The helpers are stateless: they inspect a table and either return it (or a
// subset of it) or fail with one of the package errors. They never log, retry
// or modify the table they are given.
package dfhelper

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/hydutils/internal/dateutil"
	"github.com/javiermolinar/hydutils/internal/hydro"
)

// Validation errors.
var (
	ErrColumnsNotFound      = errors.New("columns not found in table")
	ErrColumnsWithEmptyData = errors.New("columns with empty data")
	ErrInvalidInterval      = errors.New("interval must be positive")
	ErrInconsistentInterval = errors.New("intervals between datetimes are not consistent")
	ErrStartOutOfRange      = errors.New("the 'start' parameter is out of the table's time range")
	ErrEndOutOfRange        = errors.New("the 'end' parameter is out of the table's time range")
	ErrEndBeforeStart       = errors.New("the 'end' parameter cannot be earlier than the 'start' parameter")
)

// Table is the tabular data the helpers work on. T is the concrete table type,
// so that Subset and Copy hand back the caller's own type.
type Table[T any] interface {
	// Names returns the column names in table order.
	Names() []string
	// IsNA reports, per row, whether column holds a missing value.
	IsNA(column string) ([]bool, error)
	// Times returns column as timestamps, one per row.
	Times(column string) ([]time.Time, error)
	// Label returns the row index label of the row at position row.
	Label(row int) int
	// Subset returns the rows where mask is true, keeping their labels.
	Subset(mask []bool) T
	// Copy returns an independent duplicate of the table.
	Copy() T
}

type options struct {
	timeColumn string
}

// Option configures the interval and range helpers.
type Option func(*options)

// WithTimeColumn overrides the timestamp column (hydro.TimeseriesColumn by default).
func WithTimeColumn(name string) Option {
	return func(o *options) {
		if name != "" {
			o.timeColumn = name
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{timeColumn: hydro.TimeseriesColumn}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// requireColumns fails with ErrColumnsNotFound naming every absent column, in the order given.
func requireColumns(names []string, columns ...string) error {
	var missing []string
	for _, c := range columns {
		if !slices.Contains(names, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrColumnsNotFound, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateColumnsForNulls checks that none of columns holds a missing value.
// With no columns every column of the table is checked.
// Returns the table unchanged on success.
func ValidateColumnsForNulls[T Table[T]](t T, columns ...string) (T, error) {
	var zero T

	names := t.Names()
	if len(columns) == 0 {
		columns = names
	} else if err := requireColumns(names, columns...); err != nil {
		return zero, err
	}

	var empty []string
	for _, c := range columns {
		na, err := t.IsNA(c)
		if err != nil {
			return zero, err
		}
		if slices.Contains(na, true) {
			empty = append(empty, c)
		}
	}
	if len(empty) > 0 {
		return zero, fmt.Errorf("%w: %s", ErrColumnsWithEmptyData, strings.Join(empty, ", "))
	}
	return t, nil
}

// ValidateInterval checks that consecutive timestamps are exactly interval apart.
// The timestamp column must already be sorted. The first offending row is reported
// by its index label. With copyTable set the check runs on, and returns, a duplicate.
func ValidateInterval[T Table[T]](t T, interval time.Duration, copyTable bool, opts ...Option) (T, error) {
	var zero T
	o := buildOptions(opts)

	if interval <= 0 {
		return zero, fmt.Errorf("%w: got %v", ErrInvalidInterval, interval)
	}
	if copyTable {
		t = t.Copy()
	}
	if err := requireColumns(t.Names(), o.timeColumn); err != nil {
		return zero, err
	}

	ts, err := t.Times(o.timeColumn)
	if err != nil {
		return zero, err
	}
	for i := 1; i < len(ts); i++ {
		if ts[i].Sub(ts[i-1]) != interval {
			return zero, fmt.Errorf("%w starting from row %d", ErrInconsistentInterval, t.Label(i))
		}
	}
	return t, nil
}

// FilterTimeseries returns the rows whose timestamp lies within [start, end].
// A nil bound leaves that side open; with both nil the table is returned as is.
//
// start must not precede the earliest timestamp, end must not exceed the latest,
// and end must not precede start. The checks run in that order.
func FilterTimeseries[T Table[T]](t T, start, end *time.Time, opts ...Option) (T, error) {
	var zero T
	o := buildOptions(opts)

	if start == nil && end == nil {
		return t, nil
	}
	if err := requireColumns(t.Names(), o.timeColumn); err != nil {
		return zero, err
	}

	ts, err := t.Times(o.timeColumn)
	if err != nil {
		return zero, err
	}
	lo, hi, ok := dateutil.Bounds(ts)

	if start != nil && (!ok || start.Before(lo)) {
		return zero, ErrStartOutOfRange
	}
	if end != nil && (!ok || end.After(hi)) {
		return zero, ErrEndOutOfRange
	}
	if start != nil && end != nil && end.Before(*start) {
		return zero, ErrEndBeforeStart
	}

	r := dateutil.TimeRange{Start: start, End: end}
	mask := make([]bool, len(ts))
	for i, at := range ts {
		mask[i] = r.Contains(at)
	}
	return t.Subset(mask), nil
}
