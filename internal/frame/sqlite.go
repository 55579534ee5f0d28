package frame

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// OpenSQLite opens a SQLite database to load tables from.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// ReadSQL loads the result set of query as a table.
// NULL cells become missing values. A query without rows yields an empty table.
func ReadSQL(ctx context.Context, db *sql.DB, query string, opts *LoadOptions, args ...any) (*Frame, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying table: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	records := [][]string{columns}
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = cellString(v, opts.TimeLayout)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return loadRecords(records, opts)
}

// LoadSQLite opens the database at path, runs query and closes the database.
func LoadSQLite(ctx context.Context, path, query string, opts *LoadOptions) (*Frame, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	return ReadSQL(ctx, db, query, opts)
}

// cellString renders a scanned SQLite value as CSV-style text.
func cellString(v any, layout string) string {
	switch val := v.(type) {
	case nil:
		return "NaN"
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if layout == "" {
			layout = time.RFC3339Nano
		}
		return val.Format(layout)
	default:
		return fmt.Sprint(val)
	}
}
