// Package storagetest holds the behaviour every storage.Storage must show.
// Each implementation runs the whole suite against a fresh database.
package storagetest

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/storage/schema"
	"github.com/aanand-mishra/roster-api/internal/types"
)

// Factory opens the implementation under test on the database at path.
type Factory func(t *testing.T, path string) storage.Storage

// NewDB creates an initialized database in a temp dir and returns its path.
func NewDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "students.db")
	res, err := schema.Init(context.Background(), schema.Options{StoragePath: path})
	require.NoError(t, err)
	require.True(t, res.Created)
	return path
}

// CountStudents reads the row count directly, bypassing both implementations.
func CountStudents(t *testing.T, path string) int {
	t.Helper()

	db, err := storage.OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM Students`).Scan(&n))
	return n
}

func ptr[T any](v T) *T { return &v }

// Roster is a small sample with a gpa tie, a student without a gpa and a
// student without a major.
func Roster() []types.NewStudent {
	return []types.NewStudent{
		{Name: "Alice", Major: ptr("CS"), GPA: ptr(3.8)},
		{Name: "Bob", Major: ptr("Math"), GPA: ptr(3.2)},
		{Name: "Cara", Major: ptr("Biology"), GPA: ptr(3.6)},
		{Name: "Dan", GPA: ptr(3.6)},
		{Name: "Eve", Major: ptr("Art")},
	}
}

// Run executes the suite.
func Run(t *testing.T, open Factory) {
	t.Run("insert then list returns every gpa holder once", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, NewDB(t))

		require.NoError(t, s.AddStudents(ctx, Roster()))

		got, err := s.StudentsWithMinGPA(ctx, 0)
		require.NoError(t, err)
		require.Len(t, got, 4, "Eve has no gpa and never matches")

		ids := map[int64]bool{}
		for _, st := range got {
			assert.NotZero(t, st.ID)
			assert.False(t, ids[st.ID], "duplicate id %d", st.ID)
			ids[st.ID] = true
		}
	})

	t.Run("threshold filter sorted descending with id tie break", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, NewDB(t))
		require.NoError(t, s.AddStudents(ctx, Roster()))

		got, err := s.StudentsWithMinGPA(ctx, 3.5)
		require.NoError(t, err)

		names := make([]string, 0, len(got))
		for _, st := range got {
			require.NotNil(t, st.GPA)
			assert.GreaterOrEqual(t, *st.GPA, 3.5)
			names = append(names, st.Name)
		}
		assert.Equal(t, []string{"Alice", "Cara", "Dan"}, names)
		assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return *got[i].GPA > *got[j].GPA }))
		assert.Less(t, got[1].ID, got[2].ID)
	})

	t.Run("optional fields round trip as nil", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, NewDB(t))
		require.NoError(t, s.AddStudents(ctx, []types.NewStudent{{Name: "Ada", GPA: ptr(0.0)}}))

		got, err := s.StudentsWithMinGPA(ctx, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ada", got[0].Name)
		assert.Nil(t, got[0].Major)
		require.NotNil(t, got[0].GPA)
		assert.Equal(t, 0.0, *got[0].GPA)
	})

	t.Run("no match is an empty slice", func(t *testing.T) {
		ctx := context.Background()
		s := open(t, NewDB(t))
		require.NoError(t, s.AddStudents(ctx, Roster()))

		got, err := s.StudentsWithMinGPA(ctx, 4.5)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		path := NewDB(t)
		s := open(t, path)

		require.NoError(t, s.AddStudents(context.Background(), nil))
		assert.Equal(t, 0, CountStudents(t, path))
	})

	t.Run("invalid record persists nothing", func(t *testing.T) {
		path := NewDB(t)
		s := open(t, path)

		batch := append(Roster(), types.NewStudent{Major: ptr("Ghost")})
		err := s.AddStudents(context.Background(), batch)

		var verr *types.ValidationError
		require.True(t, errors.As(err, &verr), "got %v", err)
		assert.Equal(t, len(batch)-1, verr.Index)
		assert.Equal(t, 0, CountStudents(t, path))
	})

	t.Run("batches accumulate with fresh ids", func(t *testing.T) {
		ctx := context.Background()
		path := NewDB(t)
		s := open(t, path)

		require.NoError(t, s.AddStudents(ctx, Roster()[:2]))
		require.NoError(t, s.AddStudents(ctx, Roster()[2:]))
		assert.Equal(t, 5, CountStudents(t, path))
	})
}
