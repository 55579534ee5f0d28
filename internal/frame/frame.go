// Package frame provides Frame, a row-labelled table backed by a gota dataframe.
package frame

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/javiermolinar/hydutils/internal/dateutil"
)

// DefaultTimeLayout is the layout used to format and parse timestamp columns.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// Frame errors.
var (
	ErrColumnNotFound   = errors.New("column not found")
	ErrNoColumns        = errors.New("frame must have at least one column")
	ErrIndexLength      = errors.New("index length does not match row count")
	ErrMissingTimestamp = errors.New("missing timestamp")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Frame is an in-memory table whose rows carry integer index labels.
// Labels start as 0..n-1 and survive Subset, so they may be non-contiguous.
type Frame struct {
	df     dataframe.DataFrame
	index  []int
	layout string
}

// New creates a Frame from columns with a default range index.
func New(columns ...series.Series) (*Frame, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	return FromDataFrame(dataframe.New(columns...))
}

// FromDataFrame wraps an existing dataframe with a default range index.
func FromDataFrame(df dataframe.DataFrame) (*Frame, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("building frame: %w", df.Err)
	}
	if df.Ncol() == 0 {
		return nil, ErrNoColumns
	}
	return &Frame{
		df:     df,
		index:  rangeIndex(df.Nrow()),
		layout: DefaultTimeLayout,
	}, nil
}

// WithIndex returns a copy of f that uses labels as its row index.
func (f *Frame) WithIndex(labels []int) (*Frame, error) {
	if len(labels) != f.Nrow() {
		return nil, fmt.Errorf("%w: %d labels for %d rows", ErrIndexLength, len(labels), f.Nrow())
	}
	return &Frame{
		df:     f.df.Copy(),
		index:  slices.Clone(labels),
		layout: f.layout,
	}, nil
}

// WithLayout sets the layout tried first when parsing timestamp columns.
func (f *Frame) WithLayout(layout string) *Frame {
	if layout != "" {
		f.layout = layout
	}
	return f
}

// TimeColumn builds a string series holding ts formatted with layout.
func TimeColumn(name string, ts []time.Time, layout string) series.Series {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	values := make([]string, len(ts))
	for i, t := range ts {
		values[i] = t.Format(layout)
	}
	return series.New(values, series.String, name)
}

// DataFrame returns the underlying dataframe.
func (f *Frame) DataFrame() dataframe.DataFrame {
	return f.df
}

// Layout returns the timestamp layout of the frame.
func (f *Frame) Layout() string {
	return f.layout
}

// Names returns the column names in table order.
func (f *Frame) Names() []string {
	return f.df.Names()
}

// Nrow returns the number of rows.
func (f *Frame) Nrow() int {
	return len(f.index)
}

// Ncol returns the number of columns.
func (f *Frame) Ncol() int {
	return f.df.Ncol()
}

// Index returns a copy of the row labels.
func (f *Frame) Index() []int {
	return slices.Clone(f.index)
}

// Label returns the index label of the row at position row.
func (f *Frame) Label(row int) int {
	return f.index[row]
}

// HasColumn returns true if the frame has a column called name.
func (f *Frame) HasColumn(name string) bool {
	return slices.Contains(f.df.Names(), name)
}

func (f *Frame) column(name string) (series.Series, error) {
	if !f.HasColumn(name) {
		return series.Series{}, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return f.df.Col(name), nil
}

// IsNA reports, per row, whether column holds a missing value.
func (f *Frame) IsNA(column string) ([]bool, error) {
	s, err := f.column(column)
	if err != nil {
		return nil, err
	}

	na := make([]bool, s.Len())
	for i := range na {
		el := s.Elem(i)
		na[i] = el.IsNA()
		if !na[i] && s.Type() == series.Float {
			na[i] = math.IsNaN(el.Float())
		}
	}
	return na, nil
}

// Times parses column as timestamps.
// Int columns are read as Unix seconds; other columns are parsed with the
// frame layout, falling back to dateutil.Layouts.
func (f *Frame) Times(column string) ([]time.Time, error) {
	s, err := f.column(column)
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, s.Len())
	for i := range out {
		el := s.Elem(i)
		if el.IsNA() {
			return nil, fmt.Errorf("%w: column %s, row %d", ErrMissingTimestamp, column, f.index[i])
		}

		if s.Type() == series.Int {
			secs, err := el.Int()
			if err != nil {
				return nil, fmt.Errorf("%w: column %s, row %d: %v", ErrInvalidTimestamp, column, f.index[i], err)
			}
			out[i] = time.Unix(int64(secs), 0).UTC()
			continue
		}

		t, err := dateutil.ParseDateTime(el.String(), f.layout)
		if err != nil {
			return nil, fmt.Errorf("%w: column %s, row %d: %q", ErrInvalidTimestamp, column, f.index[i], el.String())
		}
		out[i] = t
	}
	return out, nil
}

// Subset returns a new frame holding the rows where mask is true, in order.
// Rows past the end of mask are dropped. Index labels are preserved.
func (f *Frame) Subset(mask []bool) *Frame {
	rows := make([]int, 0, len(mask))
	labels := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep && i < len(f.index) {
			rows = append(rows, i)
			labels = append(labels, f.index[i])
		}
	}

	df := f.emptyDataFrame()
	if len(rows) > 0 {
		df = f.df.Subset(rows)
	}
	return &Frame{df: df, index: labels, layout: f.layout}
}

// emptyDataFrame returns a zero-row dataframe with the same columns and types.
func (f *Frame) emptyDataFrame() dataframe.DataFrame {
	cols := make([]series.Series, 0, f.df.Ncol())
	for _, name := range f.df.Names() {
		cols = append(cols, series.New([]string{}, f.df.Col(name).Type(), name))
	}
	return dataframe.New(cols...)
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	return &Frame{
		df:     f.df.Copy(),
		index:  slices.Clone(f.index),
		layout: f.layout,
	}
}

// Records returns the header followed by every row rendered as strings.
// Missing values render as "NaN".
func (f *Frame) Records() [][]string {
	if f.Nrow() == 0 {
		return [][]string{f.Names()}
	}
	return f.df.Records()
}

// Equal returns true if both frames have the same columns, labels and values.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if !slices.Equal(f.Names(), other.Names()) || !slices.Equal(f.index, other.index) {
		return false
	}
	return slices.EqualFunc(f.Records(), other.Records(), func(a, b []string) bool {
		return slices.Equal(a, b)
	})
}

func rangeIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
