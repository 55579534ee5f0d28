package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/hydutils/internal/frame"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Faint(true)
)

func (a *App) showCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "show <source>",
		Short: "Preview the first rows of a table",
		Long: `Display the first rows of a table along with its row labels.

Missing values are shown as NaN.`,
		Example: `  hydutils show flow.csv
  hydutils show flow.csv --rows 25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rows") {
				rows = a.config.Output.PreviewRows
			}

			f, err := a.loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", formatHeader(args[0]),
				formatMuted(fmt.Sprintf("(%d rows × %d columns)", f.Nrow(), f.Ncol())))
			fmt.Fprintln(w, previewTable(f, rows, termWidth()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "Number of rows to show (default from config)")
	return cmd
}

// previewTable renders the first n rows of f, prefixed by their index labels.
func previewTable(f *frame.Frame, n, width int) string {
	records := f.Records()
	headers := append([]string{""}, records[0]...)

	data := records[1:]
	if n >= 0 && n < len(data) {
		data = data[:n]
	}

	rows := make([][]string, len(data))
	for i, rec := range data {
		rows[i] = append([]string{strconv.Itoa(f.Label(i))}, rec...)
	}
	return renderTable(headers, rows, width)
}

// renderTable draws rows with lipgloss, truncating cells so the table fits width.
// A width of zero or less disables truncation.
func renderTable(headers []string, rows [][]string, width int) string {
	cols := len(headers)
	if cols == 0 && len(rows) > 0 {
		cols = len(rows[0])
	}
	maxCell := 40
	switch {
	case width <= 0:
		maxCell = -1
	case cols > 0:
		// Three characters per column go to padding and borders.
		maxCell = max(4, min(maxCell, width/cols-3))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if len(headers) > 0 {
		t = t.Headers(truncateAll(headers, maxCell)...)
	}
	for _, r := range rows {
		t = t.Row(truncateAll(r, maxCell)...)
	}
	return t.String()
}

// truncateAll shortens each cell to n terminal cells, marking cuts with an
// ellipsis. A negative n leaves cells untouched.
func truncateAll(cells []string, n int) []string {
	if n < 0 {
		return cells
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = ansi.Truncate(c, n, "…")
	}
	return out
}
