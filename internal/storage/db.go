package storage

import (
	"database/sql"
	"fmt"

	// Registers the pure-Go "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/aanand-mishra/roster-api/internal/types"
)

// DriverName is the database/sql driver every connection in this module
// uses, including the one gorm opens.
const DriverName = "sqlite"

// DSN turns a file path into a data source name. busy_timeout lets
// concurrent writers wait for the file lock instead of failing at once.
func DSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)"
}

// OpenDB opens the SQLite file at path. Like sql.Open, it does not connect;
// the file is created on first use.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("storage.OpenDB: %w", err)
	}
	return db, nil
}

// ScanRows reads every remaining row into a types.Row keyed by column name
// and returns the column names in result order. Text returned as []byte is
// converted to string so rows encode cleanly as JSON.
func ScanRows(rows *sql.Rows) ([]string, []types.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("ScanRows: columns: %w", err)
	}

	// Pre-allocate an empty (non-nil) slice so callers encode [] not null.
	out := make([]types.Row, 0)

	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("ScanRows: scan row: %w", err)
		}

		row := make(types.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("ScanRows: rows iteration: %w", err)
	}

	return cols, out, nil
}
