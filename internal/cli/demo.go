package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/storage/orm"
	"github.com/aanand-mishra/roster-api/internal/storage/schema"
	"github.com/aanand-mishra/roster-api/internal/storage/sqlite"
	"github.com/aanand-mishra/roster-api/internal/types"
	"github.com/aanand-mishra/roster-api/internal/viewer"
)

// Inputs used by demo sql.
const (
	BenignInput    = "3.6"
	MaliciousInput = "0; DROP TABLE Students; --"
)

var rowColumns = []string{"id", "name", "major", "gpa"}

func (c *CLI) newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through the SQL safety and ORM examples",
	}
	cmd.AddCommand(c.newDemoSQLCmd())
	cmd.AddCommand(c.newDemoORMCmd())
	return cmd
}

func (c *CLI) newDemoSQLCmd() *cobra.Command {
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Run the same filter as parameterized and as concatenated SQL",
		Long: `Run "gpa >= X" three ways and print what each one executed:

  1. parameterized, X = 3.6
  2. concatenated,  X = 3.6
  3. concatenated,  X = 0; DROP TABLE Students; --

Step 3 really runs the injected statement. Unless --in-place is given it
runs against a scratch database seeded with a sample roster.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := c.cfg.StoragePath
			if !inPlace {
				dir, err := os.MkdirTemp("", "roster-demo-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(dir)
				path = filepath.Join(dir, "students.db")
			}

			if err := c.prepareDemoDB(ctx, path, !inPlace); err != nil {
				return err
			}

			opts := c.sqliteOptions()
			opts.StoragePath = path
			return RunSQLDemo(ctx, c.out, sqlite.NewQuerier(opts), path)
		},
	}

	cmd.Flags().BoolVar(&inPlace, "in-place", false, "run against the configured database instead of a scratch copy")
	return cmd
}

// prepareDemoDB creates the database when missing and, for scratch
// databases, fills it with the sample roster.
func (c *CLI) prepareDemoDB(ctx context.Context, path string, seed bool) error {
	res, err := schema.Init(ctx, schema.Options{StoragePath: path, ScriptPath: c.cfg.SchemaPath})
	if err != nil {
		return err
	}
	if !res.Created || !seed {
		return nil
	}

	opts := c.sqliteOptions()
	opts.StoragePath = path
	return sqlite.New(opts).AddStudents(ctx, SampleRoster())
}

// RunSQLDemo prints the three runs of the filter to w.
func RunSQLDemo(ctx context.Context, w io.Writer, q *sqlite.Querier, path string) error {
	query, args := sqlite.SafeStatement(BenignInput)
	fmt.Fprintf(w, "== Parameterized, gpa_min = %q\nSQL:  %s\nargs: %v\n", BenignInput, query, args)
	rows, err := q.Safe(ctx, BenignInput)
	if err := printRows(w, rows, err); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n== Concatenated, gpa_min = %q\nSQL:  %s\n", BenignInput, sqlite.UnsafeStatement(BenignInput))
	rows, err = q.Unsafe(ctx, BenignInput)
	if err := printRows(w, rows, err); err != nil {
		return err
	}

	text := sqlite.UnsafeStatement(MaliciousInput)
	fmt.Fprintf(w, "\n== Concatenated, gpa_min = %q\nSQL:  %s\n", MaliciousInput, text)
	if stmts, err := sqlite.SplitStatements(text); err == nil {
		for i, st := range stmts {
			mark := ""
			if st.Destructive {
				mark = "  <- destructive"
			}
			fmt.Fprintf(w, "  statement %d: %-6s %s%s\n", i+1, st.Kind, st.SQL, mark)
		}
	}
	rows, err = q.Unsafe(ctx, MaliciousInput)
	if err := printRows(w, rows, err); err != nil {
		return err
	}

	exists, err := studentsTableExists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintln(w, "Students table: still present")
	} else {
		fmt.Fprintln(w, "Students table: DROPPED")
	}
	return nil
}

// printRows writes a query outcome. A query error is part of the demo
// output, not a failure of the command.
func printRows(w io.Writer, rows []types.Row, queryErr error) error {
	if queryErr != nil {
		_, err := fmt.Fprintf(w, "error: %v\n", queryErr)
		return err
	}
	fmt.Fprintf(w, "%d row(s)\n", len(rows))
	t := &viewer.Table{Columns: rowColumns, Rows: rows}
	return t.WriteText(w)
}

func studentsTableExists(ctx context.Context, path string) (bool, error) {
	db, err := storage.OpenDB(path)
	if err != nil {
		return false, err
	}
	defer db.Close()

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, types.StudentsTable,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check Students table: %w", err)
	}
	return n == 1, nil
}

func (c *CLI) newDemoORMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orm",
		Short: "Insert a demo student through the ORM and list gpa >= 3.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, err := orm.New(ctx, orm.Options{StoragePath: c.cfg.StoragePath, Logger: c.log})
			if err != nil {
				return err
			}
			defer repo.Close()

			return RunORMDemo(ctx, c.out, repo)
		},
	}
}

// RunORMDemo adds one student and prints every student with gpa >= 3.0.
func RunORMDemo(ctx context.Context, w io.Writer, s storage.Storage) error {
	demo := types.NewStudent{Name: "Demo One", Major: strPtr("Demo"), GPA: floatPtr(3.2)}
	if err := s.AddStudents(ctx, []types.NewStudent{demo}); err != nil {
		return err
	}

	students, err := s.StudentsWithMinGPA(ctx, 3.0)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Students with gpa >= 3.0: %d\n", len(students))
	for _, st := range students {
		fmt.Fprintf(w, "  %d  %-20s %-18s %s\n", st.ID, st.Name, orNull(st.Major), gpaString(st.GPA))
	}
	return nil
}

func orNull(s *string) string {
	if s == nil {
		return "NULL"
	}
	return *s
}

func gpaString(f *float64) string {
	if f == nil {
		return "NULL"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
