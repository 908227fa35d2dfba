package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/roster-api/internal/http/handlers/home"
	"github.com/aanand-mishra/roster-api/internal/http/middleware"
	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/storage/orm"
	"github.com/aanand-mishra/roster-api/internal/storage/sqlite"
	"github.com/aanand-mishra/roster-api/internal/storage/storagetest"
	"github.com/aanand-mishra/roster-api/internal/types"
)

type backend struct {
	name string
	open func(t *testing.T, path string) storage.Storage
}

var backends = []backend{
	{"orm", func(t *testing.T, path string) storage.Storage {
		r, err := orm.New(context.Background(), orm.Options{StoragePath: path, Logger: zerolog.Nop()})
		require.NoError(t, err)
		t.Cleanup(func() { r.Close() })
		return r
	}},
	{"sql", func(t *testing.T, path string) storage.Storage {
		return sqlite.New(sqlite.Options{StoragePath: path, Logger: zerolog.Nop()})
	}},
}

func newServer(t *testing.T, b backend) (http.Handler, string) {
	t.Helper()

	path := storagetest.NewDB(t)
	h := New(Deps{
		Storage: b.open(t, path),
		Querier: sqlite.NewQuerier(sqlite.Options{StoragePath: path, Logger: zerolog.Nop()}),
		Logger:  zerolog.Nop(),
	})
	return h, path
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	h, _ := newServer(t, backends[1])

	rec := do(h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var body home.Welcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, home.Endpoints, body.Endpoints)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/nope", "").Code)
}

func TestStudents(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			t.Run("create with defaults then list", func(t *testing.T) {
				h, _ := newServer(t, b)

				rec := do(h, http.MethodPost, "/students", `{"name":"Ada"}`)
				require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
				assert.JSONEq(t, `{"status":"created"}`, rec.Body.String())

				rec = do(h, http.MethodGet, "/students?gpa_min=0", "")
				require.Equal(t, http.StatusOK, rec.Code)

				var got []types.Student
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Len(t, got, 1)
				assert.Equal(t, "Ada", got[0].Name)
				assert.Nil(t, got[0].Major)
				require.NotNil(t, got[0].GPA)
				assert.Equal(t, 0.0, *got[0].GPA)
				assert.Contains(t, rec.Body.String(), `"major":null`)
			})

			t.Run("list filters and sorts", func(t *testing.T) {
				h, _ := newServer(t, b)
				for _, body := range []string{
					`{"name":"Low","major":"Art","gpa":2.1}`,
					`{"name":"High","major":"CS","gpa":3.9}`,
					`{"name":"Mid","gpa":3.5}`,
				} {
					require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/students", body).Code)
				}

				rec := do(h, http.MethodGet, "/students?gpa_min=3", "")
				require.Equal(t, http.StatusOK, rec.Code)

				var got []types.Student
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Len(t, got, 2)
				assert.Equal(t, "High", got[0].Name)
				assert.Equal(t, "Mid", got[1].Name)

				rec = do(h, http.MethodGet, "/students?gpa_min=4.5", "")
				assert.Equal(t, "[]\n", rec.Body.String())
			})

			t.Run("missing name is rejected and nothing is stored", func(t *testing.T) {
				h, path := newServer(t, b)

				for _, body := range []string{`{"major":"Math","gpa":3.0}`, `{"name":""}`} {
					rec := do(h, http.MethodPost, "/students", body)
					assert.Equal(t, http.StatusBadRequest, rec.Code)
					assert.Contains(t, rec.Body.String(), "field name is required")
				}
				assert.Equal(t, 0, storagetest.CountStudents(t, path))
			})

			t.Run("bad bodies and parameters", func(t *testing.T) {
				h, _ := newServer(t, b)

				rec := do(h, http.MethodPost, "/students", "")
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), "request body is empty")

				assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/students", `{"name":`).Code)
				assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/students", `{"name":"Ada","gpa":"high"}`).Code)
				assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/students?gpa_min=abc", "").Code)
			})
		})
	}
}

func TestRawQuery(t *testing.T) {
	h, _ := newServer(t, backends[1])
	for _, body := range []string{
		`{"name":"Alice","major":"CS","gpa":3.8}`,
		`{"name":"Bob","major":"Math","gpa":3.2}`,
		`{"name":"Cara","gpa":3.6}`,
	} {
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/students", body).Code)
	}

	var safe, unsafe []map[string]any

	rec := do(h, http.MethodGet, "/raw-query?gpa_min=3.6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &safe))

	rec = do(h, http.MethodGet, "/raw-query?gpa_min=3.6&unsafe=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unsafe))

	require.Len(t, safe, 2)
	assert.Equal(t, safe, unsafe)
	assert.Equal(t, "Alice", safe[0]["name"])
	assert.Nil(t, safe[1]["major"])
	assert.Contains(t, safe[1], "major")
}
