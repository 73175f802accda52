package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int
	}{
		{"exact", 1, 10, 20, 2},
		{"remainder", 2, 10, 21, 3},
		{"empty", 1, 10, 0, 0},
		{"zero limit", 1, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}

func TestConflictCarriesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "Cannot delete", map[string]int{"active_history": 1})

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Cannot delete", body.Message)
	assert.Equal(t, map[string]interface{}{"active_history": float64(1)}, body.Error)
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "application/pdf", "report.pdf", []byte("%PDF"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report.pdf")
	assert.Equal(t, "%PDF", rec.Body.String())
}
