package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathInt(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.raw})
			got, err := pathInt(req, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?age_min=5&age_max=x", nil)

	v, err := queryInt(req, "age_min")
	require.NoError(t, err)
	assert.Equal(t, 5, *v)

	v, err = queryInt(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = queryInt(req, "age_max")
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	p := pagination(httptest.NewRequest(http.MethodGet, "/?page=0&limit=500", nil))
	assert.Equal(t, entity.Pagination{Page: 1, Limit: maxPageLimit}, p)

	p = pagination(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, entity.Pagination{Page: 1, Limit: defaultPageLimit}, p)
}

func TestWriteDeletionBlocked(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("delete: %w", &usecase.DeletionBlockedError{Check: &entity.DeletionCheck{
		Kind:    entity.EntityKindPatient,
		ID:      3,
		Allowed: false,
		Reason:  "patient has 2 active expedientes",
		Counts:  entity.DependentCounts{ActiveExpedientes: 2},
	}})

	require.True(t, writeDeletionBlocked(rec, err))
	assert.Equal(t, http.StatusConflict, rec.Code)

	resp := decode(t, rec)
	assert.Equal(t, "patient has 2 active expedientes", resp.Message)
	assert.Contains(t, rec.Body.String(), `"active_expedientes":2`)

	assert.False(t, writeDeletionBlocked(httptest.NewRecorder(), usecase.ErrPatientNotFound))
}

func TestWriteDownload_Stream(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/files/1", nil)

	writeDownload(rec, req, &dto.FileDownload{
		Name:        "report.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Body:        io.NopCloser(strings.NewReader("%PDF")),
	}, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF", rec.Body.String())
}

func TestWriteDownload_Redirect(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/files/1", nil)

	writeDownload(rec, req, &dto.FileDownload{RedirectURL: "https://bucket.example.com/doc?sig=1"}, true)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://bucket.example.com/doc?sig=1", rec.Header().Get("Location"))
}
