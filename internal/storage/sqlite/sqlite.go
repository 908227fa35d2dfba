// Package sqlite implements storage.Storage with hand-built SQL over
// database/sql, and hosts the safe/unsafe query pair used to demonstrate
// SQL injection.
//
// SQL text is built with sqlb: named parameters (:name) in a template are
// rewritten to ordinal placeholders ($1, $2...) and the values travel to the
// driver separately. The driver never splices values into the text, so the
// database treats them as data, never as SQL syntax.
//
// Every operation runs in its own session: the store is opened, one
// connection is taken from it, and both are closed before returning.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mitranim/sqlb"
	"github.com/rs/zerolog"

	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/types"
)

// Opener opens the database for one session.
type Opener func() (*sql.DB, error)

// Options configures a SQLite store.
type Options struct {
	StoragePath string
	Logger      zerolog.Logger

	// Open overrides how sessions reach the database. Tests use it to
	// substitute sqlmock; nil means storage.OpenDB(StoragePath).
	Open Opener
}

// SQLite is the hand-written SQL implementation of storage.Storage.
type SQLite struct {
	open Opener
	log  zerolog.Logger
}

var _ storage.Storage = (*SQLite)(nil)

// New returns a store for the database file in opts. It does not connect;
// the first operation does.
func New(opts Options) *SQLite {
	open := opts.Open
	if open == nil {
		path := opts.StoragePath
		open = func() (*sql.DB, error) { return storage.OpenDB(path) }
	}
	return &SQLite{open: open, log: opts.Logger}
}

// session runs fn on a dedicated connection and releases the connection
// and the store on every exit path.
func (s *SQLite) session(ctx context.Context, fn func(conn *sql.Conn) error) error {
	db, err := s.open()
	if err != nil {
		return fmt.Errorf("session: open: %w", err)
	}
	defer db.Close()

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("session: connect: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// insertStatement builds one INSERT for a record:
//
//	insert into "Students" ("name", "major", "gpa") values ($1, $2, $3)
func insertStatement(st types.NewStudent) (string, []any) {
	return sqlb.Reify(sqlb.DictQ(`insert into "Students" :values`, map[string]any{
		`values`: sqlb.StructInsert{st},
	}))
}

// AddStudents validates the batch, then inserts it inside one transaction.
func (s *SQLite) AddStudents(ctx context.Context, students []types.NewStudent) error {
	if err := types.ValidateStudents(students); err != nil {
		return err
	}
	if len(students) == 0 {
		return nil
	}

	return s.session(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("AddStudents: begin: %w", err)
		}
		// Rollback after Commit is a no-op returning sql.ErrTxDone.
		defer tx.Rollback()

		for i, st := range students {
			query, args := insertStatement(st)
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("AddStudents: insert %d: %w", i, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("AddStudents: commit: %w", err)
		}

		s.log.Debug().Int("count", len(students)).Msg("students inserted")
		return nil
	})
}

// minGPAStatement builds the bound-parameter filter shared by
// StudentsWithMinGPA and Querier.Safe:
//
//	select "id", "name", "major", "gpa" from "Students" where gpa >= $1 order by gpa desc, id
func minGPAStatement(gpaMin any) (string, []any) {
	return sqlb.Reify(sqlb.DictQ(
		`select :cols from "Students" where gpa >= :gpa_min order by gpa desc, id`,
		map[string]any{
			`cols`:    sqlb.Cols{(*types.Student)(nil)},
			`gpa_min`: gpaMin,
		},
	))
}

// StudentsWithMinGPA returns students with gpa >= gpaMin, highest first.
func (s *SQLite) StudentsWithMinGPA(ctx context.Context, gpaMin float64) ([]types.Student, error) {
	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	err := s.session(ctx, func(conn *sql.Conn) error {
		query, args := minGPAStatement(gpaMin)

		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("StudentsWithMinGPA: query: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var st types.Student
			if err := rows.Scan(&st.ID, &st.Name, &st.Major, &st.GPA); err != nil {
				return fmt.Errorf("StudentsWithMinGPA: scan row: %w", err)
			}
			students = append(students, st)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("StudentsWithMinGPA: rows iteration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return students, nil
}

// Close is a no-op: sessions release everything they open.
func (s *SQLite) Close() error { return nil }
