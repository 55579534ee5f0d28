package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/hydutils/internal/dateutil"
	"github.com/javiermolinar/hydutils/internal/dfhelper"
	"github.com/javiermolinar/hydutils/internal/frame"
)

func (a *App) nullsCmd() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "nulls <source>",
		Short: "Check columns for missing values",
		Long: `Fail if any of the given columns holds a missing value.

Without --columns the columns from the config are checked, or every
column when the config lists none.`,
		Example: `  hydutils nulls flow.csv
  hydutils nulls flow.csv --columns flow,stage`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("columns") {
				columns = a.config.Checks.Columns
			}
			if err := a.checkNulls(f, columns); err != nil {
				return err
			}

			printPass(cmd.OutOrStdout(), "nulls", "no missing values in "+describeColumns(columns))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to check (comma-separated, default all)")
	return cmd
}

func (a *App) intervalCmd() *cobra.Command {
	var interval string

	cmd := &cobra.Command{
		Use:   "interval <source>",
		Short: "Check that timestamps are evenly spaced",
		Long: `Fail if consecutive timestamps are not exactly --interval apart.

The interval is a duration such as 15m or 1h; a bare number is read as
minutes. The table must already be sorted by time.`,
		Example: `  hydutils interval flow.csv
  hydutils interval flow.csv --interval 15m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.intervalOrDefault(interval)
			if err != nil {
				return err
			}

			f, err := a.loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.checkInterval(f, d); err != nil {
				return err
			}

			printPass(cmd.OutOrStdout(), "interval", fmt.Sprintf("%v spacing over %d rows", d, f.Nrow()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&interval, "interval", "i", "", "Expected spacing, e.g. 15m, 1h or minutes (default from config)")
	return cmd
}

func (a *App) filterCmd() *cobra.Command {
	var (
		start string
		end   string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "filter <source>",
		Short: "Keep rows within an inclusive datetime range",
		Long: `Write the rows whose timestamp lies between --start and --end, both
included. Either bound may be omitted. The result is written as CSV to
--out, or to stdout.

start must not precede the first timestamp, end must not exceed the last,
and end must not be earlier than start.`,
		Example: `  hydutils filter flow.csv --start "2023-01-01 01:00" --end "2023-01-01 03:00"
  hydutils filter flow.csv --start 2023-01-01 --out january.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("start") {
				start = a.config.Checks.Start
			}
			if !cmd.Flags().Changed("end") {
				end = a.config.Checks.End
			}
			r, err := dateutil.NewTimeRange(start, end, a.config.Table.TimeLayout)
			if err != nil {
				return err
			}

			f, err := a.loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			filtered, err := a.filterRange(f, r)
			if err != nil {
				return err
			}

			return a.writeTable(cmd.OutOrStdout(), filtered, out)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Earliest timestamp to keep (default from config)")
	cmd.Flags().StringVar(&end, "end", "", "Latest timestamp to keep (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the result to this CSV file instead of stdout")
	return cmd
}

// checkNulls runs the null gate and logs its outcome.
func (a *App) checkNulls(f *frame.Frame, columns []string) error {
	_, err := dfhelper.ValidateColumnsForNulls(f, columns...)
	a.log.Check("nulls", err)
	return err
}

// checkInterval runs the interval gate and logs its outcome.
func (a *App) checkInterval(f *frame.Frame, d time.Duration) error {
	_, err := dfhelper.ValidateInterval(f, d, false, dfhelper.WithTimeColumn(a.config.Table.TimestampColumn))
	a.log.Check("interval", err)
	return err
}

// filterRange runs the range filter and logs its outcome.
func (a *App) filterRange(f *frame.Frame, r dateutil.TimeRange) (*frame.Frame, error) {
	filtered, err := dfhelper.FilterTimeseries(f, r.Start, r.End, dfhelper.WithTimeColumn(a.config.Table.TimestampColumn))
	a.log.Check("filter", err)
	if err != nil {
		return nil, err
	}
	a.log.Filtered(f.Nrow(), filtered.Nrow())
	return filtered, nil
}

// writeTable writes f as CSV to path, or to w when path is empty.
func (a *App) writeTable(w io.Writer, f *frame.Frame, path string) error {
	if path == "" {
		return f.WriteCSV(w, a.config.Table.IndexColumn)
	}
	if err := frame.SaveCSV(f, path, a.config.Table.IndexColumn); err != nil {
		return err
	}
	a.log.Written(path, f.Nrow())
	fmt.Fprintf(w, "Wrote %d rows to %s\n", f.Nrow(), path)
	return nil
}

// intervalOrDefault parses s, falling back to the configured interval when empty.
func (a *App) intervalOrDefault(s string) (time.Duration, error) {
	if s == "" {
		return a.config.Interval(), nil
	}
	return dateutil.ParseInterval(s)
}

func describeColumns(columns []string) string {
	if len(columns) == 0 {
		return "all columns"
	}
	return strings.Join(columns, ", ")
}

// printPass prints a passed check line.
func printPass(w io.Writer, check, detail string) {
	fmt.Fprintf(w, "%s %-9s %s\n", formatOK("✓"), check, detail)
}

// printFail prints a failed check line.
func printFail(w io.Writer, check string, err error) {
	fmt.Fprintf(w, "%s %-9s %s\n", formatFail("✗"), check, err)
}
