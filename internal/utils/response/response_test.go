package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/roster-api/internal/types"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusCreated, map[string]string{"status": StatusCreated}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"created"}`, rec.Body.String())
}

func TestGeneralError(t *testing.T) {
	got := GeneralError(errors.New("database table is locked"))
	assert.Equal(t, Response{Status: StatusError, Error: "database table is locked"}, got)
}

func TestValidationError(t *testing.T) {
	err := types.Validator().Struct(types.NewStudent{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	got := ValidationError(verrs)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "field name is required", got.Error)
	assert.Equal(t, []types.FieldError{{Field: "name", Error: "is required"}}, got.Errors)
}
