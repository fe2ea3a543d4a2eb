// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dest))
}

func TestPaginatedMaxPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		maxPage  int
	}{
		{"exact fit", 20, 10, 2},
		{"partial last page", 21, 10, 3},
		{"single item", 1, 10, 1},
		{"empty", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Paginated(rec, []string{}, 1, tt.pageSize, tt.total)

			var resp PaginatedResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.maxPage, resp.Pagination.MaxPage)
			assert.Equal(t, tt.total, resp.Pagination.Total)
			assert.Equal(t, tt.pageSize, resp.Pagination.PageSize)
		})
	}
}

func TestConflictUses400(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "already exists")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "already exists", resp.Error)
	assert.Equal(t, "CONFLICT", resp.Code)
}

func TestJSONErrorMapsAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, NotFoundError("book"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "book not found", resp.Error)
}

func TestJSONErrorFallsBackTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDuplicateErrorIs400(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, DuplicateError("email"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
