package storage

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/roster-api/internal/types"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "students.db?_pragma=busy_timeout(5000)", DSN("students.db"))
}

func TestScanRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "major", "gpa"}).
			AddRow(int64(1), []byte("Alice"), "CS", 3.8).
			AddRow(int64(2), "Dan", nil, nil),
	)

	rows, err := db.Query("SELECT id, name, major, gpa FROM Students")
	require.NoError(t, err)
	defer rows.Close()

	cols, got, err := ScanRows(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "major", "gpa"}, cols)
	assert.Equal(t, []types.Row{
		{"id": int64(1), "name": "Alice", "major": "CS", "gpa": 3.8},
		{"id": int64(2), "name": "Dan", "major": nil, "gpa": nil},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanRows_EmptyIsNotNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := db.Query("SELECT id FROM Students")
	require.NoError(t, err)
	defer rows.Close()

	_, got, err := ScanRows(rows)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanRows_IterationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).
			AddRow(int64(1)).
			RowError(0, errors.New("database disk image is malformed")),
	)

	rows, err := db.Query("SELECT id FROM Students")
	require.NoError(t, err)
	defer rows.Close()

	_, _, err = ScanRows(rows)
	assert.ErrorContains(t, err, "rows iteration")
}
