package integration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/hydutils/internal/dfhelper"
	"github.com/javiermolinar/hydutils/internal/frame"
)

// openDB creates a fresh gauge database for each test with automatic cleanup.
func openDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gauges.db")
	db, err := frame.OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(`CREATE TABLE readings (
		gauge      TEXT NOT NULL,
		Timeseries TEXT NOT NULL,
		flow       REAL,
		stage      REAL
	)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return path
}

// insertHourly inserts n hourly readings for gauge starting at start.
func insertHourly(t *testing.T, path, gauge string, start time.Time, n int) {
	t.Helper()
	db, err := frame.OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Hour).Format(frame.DefaultTimeLayout)
		if _, err := db.Exec(`INSERT INTO readings VALUES (?, ?, ?, ?)`,
			gauge, ts, float64(i)+0.5, float64(i)/10); err != nil {
			t.Fatalf("failed to insert reading: %v", err)
		}
	}
}

// exec runs a statement against the database at path or fails the test.
func exec(t *testing.T, path, stmt string) {
	t.Helper()
	db, err := frame.OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.Exec(stmt); err != nil {
		t.Fatalf("failed to exec %q: %v", stmt, err)
	}
}

func mustParse(t *testing.T, s string) *time.Time {
	t.Helper()
	ts, err := time.Parse(frame.DefaultTimeLayout, s)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", s, err)
	}
	return &ts
}

func loadGauge(t *testing.T, path, gauge string) *frame.Frame {
	t.Helper()
	query := fmt.Sprintf(`SELECT Timeseries, flow, stage FROM readings WHERE gauge = '%s' ORDER BY Timeseries`, gauge)
	f, err := frame.LoadSQLite(context.Background(), path, query, nil)
	if err != nil {
		t.Fatalf("failed to load gauge %s: %v", gauge, err)
	}
	return f
}

func TestFullPipeline(t *testing.T) {
	path := openDB(t)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	insertHourly(t, path, "A", start, 6)
	insertHourly(t, path, "B", start, 3)

	f := loadGauge(t, path, "A")
	if f.Nrow() != 6 {
		t.Fatalf("expected 6 rows, got %d", f.Nrow())
	}

	f, err := dfhelper.ValidateColumnsForNulls(f)
	if err != nil {
		t.Fatalf("nulls check failed: %v", err)
	}
	f, err = dfhelper.ValidateInterval(f, time.Hour, true)
	if err != nil {
		t.Fatalf("interval check failed: %v", err)
	}
	filtered, err := dfhelper.FilterTimeseries(f,
		mustParse(t, "2023-01-01 02:00:00"), mustParse(t, "2023-01-01 04:00:00"))
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if got, want := filtered.Index(), []int{2, 3, 4}; !slices.Equal(got, want) {
		t.Fatalf("Index() = %v, want %v", got, want)
	}

	// The filtered table must survive a CSV round trip with its labels.
	out := filepath.Join(t.TempDir(), "filtered.csv")
	if err := frame.SaveCSV(filtered, out, "row"); err != nil {
		t.Fatalf("failed to save csv: %v", err)
	}
	opts := frame.DefaultLoadOptions()
	opts.IndexColumn = "row"
	reloaded, err := frame.LoadCSV(out, opts)
	if err != nil {
		t.Fatalf("failed to reload csv: %v", err)
	}
	if !reloaded.Equal(filtered) {
		t.Errorf("reloaded table differs:\n got %v\nwant %v", reloaded.Records(), filtered.Records())
	}

	// A filtered table keeps its spacing.
	if _, err := dfhelper.ValidateInterval(reloaded, time.Hour, false); err != nil {
		t.Errorf("interval check on reloaded table failed: %v", err)
	}
}

func TestPipeline_MissingReading(t *testing.T) {
	path := openDB(t)
	insertHourly(t, path, "A", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 4)
	exec(t, path, `UPDATE readings SET stage = NULL WHERE Timeseries = '2023-01-01 02:00:00'`)

	f := loadGauge(t, path, "A")

	_, err := dfhelper.ValidateColumnsForNulls(f)
	if !errors.Is(err, dfhelper.ErrColumnsWithEmptyData) {
		t.Fatalf("error = %v, want ErrColumnsWithEmptyData", err)
	}
	if got, want := err.Error(), "columns with empty data: stage"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}

	if _, err := dfhelper.ValidateColumnsForNulls(f, "flow"); err != nil {
		t.Errorf("flow has no gaps, got %v", err)
	}
}

func TestPipeline_DroppedReading(t *testing.T) {
	path := openDB(t)
	insertHourly(t, path, "A", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 5)
	exec(t, path, `DELETE FROM readings WHERE Timeseries = '2023-01-01 03:00:00'`)

	f := loadGauge(t, path, "A")

	_, err := dfhelper.ValidateInterval(f, time.Hour, false)
	if !errors.Is(err, dfhelper.ErrInconsistentInterval) {
		t.Fatalf("error = %v, want ErrInconsistentInterval", err)
	}
	if got, want := err.Error(), "intervals between datetimes are not consistent starting from row 3"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}

	// Cutting the table before the gap makes it regular again.
	head, err := dfhelper.FilterTimeseries(f, nil, mustParse(t, "2023-01-01 02:00:00"))
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if _, err := dfhelper.ValidateInterval(head, time.Hour, false); err != nil {
		t.Errorf("interval check on head failed: %v", err)
	}
}

func TestPipeline_RangeErrors(t *testing.T) {
	path := openDB(t)
	insertHourly(t, path, "A", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 3)
	f := loadGauge(t, path, "A")

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{"start before data", "2022-12-31 23:00:00", "", dfhelper.ErrStartOutOfRange},
		{"end after data", "", "2023-01-01 03:00:00", dfhelper.ErrEndOutOfRange},
		{"end before start", "2023-01-01 02:00:00", "2023-01-01 01:00:00", dfhelper.ErrEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var start, end *time.Time
			if tt.start != "" {
				start = mustParse(t, tt.start)
			}
			if tt.end != "" {
				end = mustParse(t, tt.end)
			}
			if _, err := dfhelper.FilterTimeseries(f, start, end); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
