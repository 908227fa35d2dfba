package student

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/roster-api/internal/types"
)

type fakeStorage struct {
	added  []types.NewStudent
	gpaMin float64
	err    error
}

func (f *fakeStorage) AddStudents(_ context.Context, students []types.NewStudent) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, students...)
	return nil
}

func (f *fakeStorage) StudentsWithMinGPA(_ context.Context, gpaMin float64) ([]types.Student, error) {
	f.gpaMin = gpaMin
	if f.err != nil {
		return nil, f.err
	}
	return []types.Student{}, nil
}

func (f *fakeStorage) Close() error { return nil }

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body)))
	return rec
}

func TestNew_DefaultsGPA(t *testing.T) {
	s := &fakeStorage{}

	rec := post(New(s), `{"name":"Ada","major":"Math"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, s.added, 1)
	require.NotNil(t, s.added[0].GPA)
	assert.Equal(t, 0.0, *s.added[0].GPA)
	assert.Equal(t, "Math", *s.added[0].Major)
}

func TestNew_KeepsGivenGPA(t *testing.T) {
	s := &fakeStorage{}

	rec := post(New(s), `{"name":"Ada","gpa":3.9}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3.9, *s.added[0].GPA)
	assert.Nil(t, s.added[0].Major)
}

func TestNew_ValidationNeverReachesStorage(t *testing.T) {
	s := &fakeStorage{}

	rec := post(New(s), `{"major":"Math"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"status":"error","error":"field name is required","errors":[{"field":"name","error":"is required"}]}`,
		rec.Body.String())
	assert.Empty(t, s.added)
}

func TestNew_StorageErrors(t *testing.T) {
	verr := &types.ValidationError{Index: 0, Fields: []types.FieldError{{Field: "name", Error: "is required"}}}

	rec := post(New(&fakeStorage{err: verr}), `{"name":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(New(&fakeStorage{err: errors.New("disk I/O error")}), `{"name":"Ada"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk I/O error")
}

func TestGetList(t *testing.T) {
	s := &fakeStorage{}
	rec := httptest.NewRecorder()

	GetList(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students?gpa_min=3.25", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
	assert.Equal(t, 3.25, s.gpaMin)

	rec = httptest.NewRecorder()
	GetList(&fakeStorage{err: errors.New("no such table: Students")}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParseGPAMin(t *testing.T) {
	tests := []struct {
		query   string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"?gpa_min=3.5", 3.5, false},
		{"?gpa_min=-1", -1, false},
		{"?gpa_min=abc", 0, true},
		{"?gpa_min=Inf", 0, true},
		{"?gpa_min=NaN", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got, err := ParseGPAMin(httptest.NewRequest(http.MethodGet, "/students"+tc.query, nil))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
