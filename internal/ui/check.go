package ui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/hydutils/internal/dateutil"
	"github.com/javiermolinar/hydutils/internal/frame"
	"github.com/javiermolinar/hydutils/internal/hydro"
)

// ErrChecksFailed is returned by the check command when any step fails.
var ErrChecksFailed = errors.New("validation failed")

func (a *App) checkCmd() *cobra.Command {
	var (
		interval string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "check <source>",
		Short: "Run the null, interval and range checks in sequence",
		Long: `Run every check on a table, in order:

  1. nulls     the configured columns (or all) hold no missing values
  2. interval  timestamps are exactly the configured interval apart
  3. filter    rows are cut to the configured start/end range

The first failing step stops the run. With --out the filtered table is
written as CSV.`,
		Example: `  hydutils check flow.csv
  hydutils check flow.csv --interval 15m --out clean.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.intervalOrDefault(interval)
			if err != nil {
				return err
			}
			r, err := a.config.Range()
			if err != nil {
				return err
			}

			f, err := a.loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			columns := a.config.Checks.Columns

			if err := a.checkNulls(f, columns); err != nil {
				printFail(w, "nulls", err)
				return fmt.Errorf("%w: nulls", ErrChecksFailed)
			}
			printPass(w, "nulls", "no missing values in "+describeColumns(columns))

			if err := a.checkInterval(f, d); err != nil {
				printFail(w, "interval", err)
				return fmt.Errorf("%w: interval", ErrChecksFailed)
			}
			printPass(w, "interval", fmt.Sprintf("%v spacing over %d rows", d, f.Nrow()))

			filtered, err := a.filterRange(f, r)
			if err != nil {
				printFail(w, "filter", err)
				return fmt.Errorf("%w: filter", ErrChecksFailed)
			}
			printPass(w, "filter", fmt.Sprintf("%d of %d rows kept", filtered.Nrow(), f.Nrow()))

			summary, err := a.summary(filtered, d)
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, summary)

			if out != "" {
				return a.writeTable(w, filtered, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&interval, "interval", "i", "", "Expected spacing, e.g. 15m, 1h or minutes (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the filtered table to this CSV file")
	return cmd
}

// summary renders the time span, interval and row count of f.
func (a *App) summary(f *frame.Frame, d time.Duration) (string, error) {
	column := a.config.Table.TimestampColumn
	ts, err := f.Times(column)
	if err != nil {
		return "", err
	}

	span := formatMuted("empty")
	if lo, hi, ok := dateutil.Bounds(ts); ok {
		layout := a.config.Table.TimeLayout
		span = lo.Format(layout) + " → " + hi.Format(layout)
	}

	rows := [][]string{
		{column, span},
		{hydro.IntervalColumn, d.String()},
		{"Rows", strconv.Itoa(f.Nrow())},
	}
	return renderTable(nil, rows, 0), nil
}
