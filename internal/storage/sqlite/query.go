package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/types"
)

// unsafeTemplate is the concatenated form of the minimum-gpa filter. The
// input lands in the middle of the statement text, so anything after it,
// including a second statement, is executed.
const unsafeTemplate = "SELECT id, name, major, gpa FROM Students WHERE gpa >= %s ORDER BY gpa DESC, id;"

// Querier runs the same minimum-gpa filter two ways: with the threshold
// bound as a parameter (Safe) and with it pasted into the SQL text
// (Unsafe). Both return raw rows keyed by column name.
type Querier struct {
	store *SQLite
}

// NewQuerier returns a Querier over the database in opts.
func NewQuerier(opts Options) *Querier {
	return &Querier{store: New(opts)}
}

// SafeStatement returns the text and arguments Safe executes. gpaMin
// reaches the driver only as an argument.
func SafeStatement(gpaMin string) (string, []any) {
	return minGPAStatement(gpaMin)
}

// UnsafeStatement returns the text Unsafe executes: gpaMin pasted verbatim.
func UnsafeStatement(gpaMin string) string {
	return fmt.Sprintf(unsafeTemplate, gpaMin)
}

// Safe runs the parameterized filter. Any input is data: numeric text is
// compared as a number through the column's REAL affinity, anything else
// matches nothing.
func (q *Querier) Safe(ctx context.Context, gpaMin string) ([]types.Row, error) {
	query, args := SafeStatement(gpaMin)
	return q.rows(ctx, query, args...)
}

// Unsafe runs the concatenated filter. Stacked statements are executed and
// their errors returned unmodified.
//
// Do not copy this pattern: it exists to show what goes wrong.
func (q *Querier) Unsafe(ctx context.Context, gpaMin string) ([]types.Row, error) {
	query := UnsafeStatement(gpaMin)

	stmts, err := SplitStatements(query)
	if err != nil {
		q.store.log.Warn().Err(err).Str("sql", query).Msg("unsafe query does not tokenize")
	} else if suspicious(stmts) {
		q.store.log.Warn().
			Str("sql", query).
			Int("statements", len(stmts)).
			Strs("kinds", kinds(stmts)).
			Msg("unsafe query carries injected statements")
	}

	return q.rows(ctx, query)
}

func (q *Querier) rows(ctx context.Context, query string, args ...any) ([]types.Row, error) {
	var out []types.Row

	err := q.store.session(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		_, out, err = storage.ScanRows(rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	logQuery(q.store.log, query, args, len(out))
	return out, nil
}

func logQuery(log zerolog.Logger, query string, args []any, n int) {
	log.Debug().Str("sql", query).Interface("args", args).Int("rows", n).Msg("raw query")
}

func suspicious(stmts []Statement) bool {
	if len(stmts) > 1 {
		return true
	}
	for _, st := range stmts {
		if st.Destructive {
			return true
		}
	}
	return false
}

func kinds(stmts []Statement) []string {
	out := make([]string, 0, len(stmts))
	for _, st := range stmts {
		out = append(out, st.Kind)
	}
	return out
}
