package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/roster-api/internal/storage/orm"
	"github.com/aanand-mishra/roster-api/internal/storage/sqlite"
	"github.com/aanand-mishra/roster-api/internal/storage/storagetest"
	"github.com/aanand-mishra/roster-api/internal/viewer"
)

// run executes the CLI against a clean environment and returns stdout and
// stderr.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV", "dev")

	var out, errOut bytes.Buffer
	code := New(&out, &errOut).Run(args)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "roster "+Version+" (commit "+GitCommit+")\n", out)
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := run(t, "frobnicate")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "unknown command")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")

	code, _, errOut := run(t, "init", "--db", path)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, errOut, "database initialized")

	code, _, errOut = run(t, "init", "--db", path)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, errOut, "database already exists")

	code, out, errOut := run(t, "view", "--db", path)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Equal(t, viewer.EmptyMessage+"\n", out)
}

func TestInitSeedThenView(t *testing.T) {
	for _, backend := range []string{"orm", "sql"} {
		t.Run(backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "students.db")
			t.Setenv("STORAGE_BACKEND", backend)

			code, _, stderr := run(t, "init", "--seed", "--db", path)
			require.Equal(t, ExitSuccess, code, stderr)
			assert.Equal(t, len(SampleRoster()), storagetest.CountStudents(t, path))

			code, js, stderr := run(t, "view", "--db", path, "-f", "json")
			require.Equal(t, ExitSuccess, code, stderr)

			var rows []map[string]any
			require.NoError(t, json.Unmarshal([]byte(js), &rows))
			require.Len(t, rows, len(SampleRoster()))
			assert.Equal(t, "Alice Johnson", rows[0]["name"])
			assert.True(t, strings.HasPrefix(js, "[\n  {\n    \"id\""), "columns keep table order")
		})
	}
}

func TestViewWithoutDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	code, _, errOut := run(t, "view", "--db", path)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "run init first")
}

func TestViewRejectsUnknownFormat(t *testing.T) {
	path := storagetest.NewDB(t)

	code, _, errOut := run(t, "view", "--db", path, "-f", "csv")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, `unknown format "csv"`)
}

func TestRunSQLDemo(t *testing.T) {
	path := storagetest.NewDB(t)
	opts := sqlite.Options{StoragePath: path, Logger: zerolog.Nop()}
	require.NoError(t, sqlite.New(opts).AddStudents(context.Background(), SampleRoster()))

	var out bytes.Buffer
	require.NoError(t, RunSQLDemo(context.Background(), &out, sqlite.NewQuerier(opts), path))

	text := out.String()
	assert.Contains(t, text, "== Parameterized")
	assert.Contains(t, text, "gpa >= $1")
	assert.Contains(t, text, "gpa >= 3.6 ORDER BY")
	assert.Contains(t, text, "Emma Brown")
	assert.Contains(t, text, "<- destructive")

	// The injected DROP either fails on the open cursor or succeeds.
	dropped := strings.Contains(text, "Students table: DROPPED")
	failed := strings.Contains(text, "error:")
	assert.True(t, dropped || failed, text)
}

func TestDemoSQLUsesScratchDatabase(t *testing.T) {
	path := storagetest.NewDB(t)

	code, out, errOut := run(t, "demo", "sql", "--db", path)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Alice Johnson")

	// The configured database is never touched without --in-place.
	assert.Equal(t, 0, storagetest.CountStudents(t, path))
}

func TestRunORMDemo(t *testing.T) {
	path := storagetest.NewDB(t)
	repo, err := orm.New(context.Background(), orm.Options{StoragePath: path, Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.AddStudents(context.Background(), SampleRoster()))

	var out bytes.Buffer
	require.NoError(t, RunORMDemo(context.Background(), &out, repo))

	text := out.String()
	// 3.8, 3.2, 3.6, 3.95 from the sample roster plus the demo student.
	assert.Contains(t, text, "Students with gpa >= 3.0: 5")
	assert.Contains(t, text, "Demo One")
	assert.NotContains(t, text, "Deepak Rao")
	assert.Less(t, strings.Index(text, "Emma Brown"), strings.Index(text, "Alice Johnson"))
}
