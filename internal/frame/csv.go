package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/javiermolinar/hydutils/internal/hydro"
)

// LoadOptions controls how tables are loaded from CSV files and SQL queries.
type LoadOptions struct {
	TimeColumn  string   // Column kept as text so any layout survives type detection
	TimeLayout  string   // Layout tried first when parsing TimeColumn
	IndexColumn string   // Optional column holding integer row labels (removed from the data)
	NAValues    []string // Cell values read as missing
}

// DefaultLoadOptions returns default options for loading tables.
func DefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		TimeColumn: hydro.TimeseriesColumn,
		TimeLayout: DefaultTimeLayout,
		NAValues:   []string{"", "NA", "NaN", "null", "<nil>"},
	}
}

func (o *LoadOptions) gotaOptions() []dataframe.LoadOption {
	types := map[string]series.Type{}
	if o.TimeColumn != "" {
		types[o.TimeColumn] = series.String
	}
	if o.IndexColumn != "" {
		types[o.IndexColumn] = series.Int
	}
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(o.NAValues),
		dataframe.WithTypes(types),
	}
}

// LoadCSV loads a table from a CSV file.
func LoadCSV(filename string, opts *LoadOptions) (*Frame, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// ReadCSV loads a table from CSV data with a header row.
func ReadCSV(r io.Reader, opts *LoadOptions) (*Frame, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return loadRecords(records, opts)
}

// loadRecords builds a frame from a header row followed by data rows.
// A header without rows yields an empty frame, which gota cannot load.
func loadRecords(records [][]string, opts *LoadOptions) (*Frame, error) {
	if len(records) == 0 {
		return nil, ErrNoColumns
	}
	if len(records) == 1 {
		return emptyFrame(records[0], opts)
	}

	df := dataframe.LoadRecords(records, opts.gotaOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("loading records: %w", df.Err)
	}
	return fromLoaded(df, opts)
}

// emptyFrame returns a zero-row frame with text columns named by header.
func emptyFrame(header []string, opts *LoadOptions) (*Frame, error) {
	if opts.IndexColumn != "" && !slices.Contains(header, opts.IndexColumn) {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, opts.IndexColumn)
	}

	cols := make([]series.Series, 0, len(header))
	for _, name := range header {
		if name != opts.IndexColumn {
			cols = append(cols, series.New([]string{}, series.String, name))
		}
	}
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("building frame: %w", df.Err)
	}
	f := &Frame{df: df, index: []int{}, layout: DefaultTimeLayout}
	return f.WithLayout(opts.TimeLayout), nil
}

// fromLoaded wraps a freshly loaded dataframe, lifting the index column if configured.
func fromLoaded(df dataframe.DataFrame, opts *LoadOptions) (*Frame, error) {
	if opts.IndexColumn == "" {
		f, err := FromDataFrame(df)
		if err != nil {
			return nil, err
		}
		return f.WithLayout(opts.TimeLayout), nil
	}

	idx := df.Col(opts.IndexColumn)
	if idx.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, opts.IndexColumn)
	}
	labels, err := idx.Int()
	if err != nil {
		return nil, fmt.Errorf("reading index column %s: %w", opts.IndexColumn, err)
	}

	f, err := FromDataFrame(df.Drop(opts.IndexColumn))
	if err != nil {
		return nil, err
	}
	f.index = labels
	return f.WithLayout(opts.TimeLayout), nil
}

// WriteCSV writes the table as CSV. When indexColumn is set the row labels are
// written first under that header.
func (f *Frame) WriteCSV(w io.Writer, indexColumn string) error {
	df := f.df
	if f.Nrow() == 0 {
		cw := csv.NewWriter(w)
		if err := cw.Write(f.header(indexColumn)); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}

	if indexColumn != "" {
		cols := []series.Series{series.New(f.index, series.Int, indexColumn)}
		for _, name := range f.Names() {
			cols = append(cols, f.df.Col(name))
		}
		df = dataframe.New(cols...)
		if df.Err != nil {
			return fmt.Errorf("adding index column: %w", df.Err)
		}
	}
	return df.WriteCSV(w)
}

// SaveCSV writes the table to a CSV file.
func SaveCSV(f *Frame, filename, indexColumn string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := f.WriteCSV(file, indexColumn); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func (f *Frame) header(indexColumn string) []string {
	if indexColumn == "" {
		return f.Names()
	}
	return append([]string{indexColumn}, f.Names()...)
}
