package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportUsecase struct {
	usecase.ReportUsecase
	patientsFunc func(ctx context.Context, q *dto.ReportQuery) (*dto.PatientReportResponse, error)
	exportFunc   func(ctx context.Context, format string, req *dto.ExportRequest) (*dto.ExportFile, error)
}

func (f *fakeReportUsecase) Patients(ctx context.Context, q *dto.ReportQuery) (*dto.PatientReportResponse, error) {
	return f.patientsFunc(ctx, q)
}

func (f *fakeReportUsecase) Export(ctx context.Context, format string, req *dto.ExportRequest) (*dto.ExportFile, error) {
	return f.exportFunc(ctx, format, req)
}

func TestReportQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/reports/appointments?page=2&limit=10&month=3&year=2024&transport=true&age_min=4&clinic_id=9&direction=sent", nil)

	q, err := reportQuery(req)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 3, q.Month)
	assert.Equal(t, 2024, q.Year)
	require.NotNil(t, q.Transport)
	assert.True(t, *q.Transport)
	assert.Equal(t, 4, *q.AgeMin)
	assert.Nil(t, q.AgeMax)
	assert.Equal(t, 9, *q.ClinicID)
	assert.Equal(t, "sent", q.Direction)
}

func TestReportQuery_Invalid(t *testing.T) {
	for _, target := range []string{"/r?month=abc", "/r?transport=maybe", "/r?patient_id=1.5"} {
		_, err := reportQuery(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Error(t, err, target)
	}
}

func TestPatientsReport(t *testing.T) {
	h := NewReportHandler(&fakeReportUsecase{
		patientsFunc: func(ctx context.Context, q *dto.ReportQuery) (*dto.PatientReportResponse, error) {
			if q.From > q.To {
				return nil, usecase.ErrInvalidDateRange
			}
			return &dto.PatientReportResponse{Total: 0}, nil
		},
	}, validator.NewValidator())

	rec := serve(t, http.MethodGet, "/reports/patients", "/reports/patients?from=2024-01-01&to=2024-02-01", nil, h.Patients)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, http.MethodGet, "/reports/patients", "/reports/patients?from=2024-03-01&to=2024-02-01", nil, h.Patients)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Validator rejects the gender before the usecase is reached.
	rec = serve(t, http.MethodGet, "/reports/patients", "/reports/patients?gender=X", nil, h.Patients)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decode(t, rec).Message)
}

func TestExport(t *testing.T) {
	var gotFormat string
	h := NewReportHandler(&fakeReportUsecase{
		exportFunc: func(ctx context.Context, format string, req *dto.ExportRequest) (*dto.ExportFile, error) {
			gotFormat = format
			if format != usecase.ExportFormatPDF && format != usecase.ExportFormatExcel {
				return nil, usecase.ErrInvalidExportFormat
			}
			return &dto.ExportFile{
				Filename:    "patients-report.pdf",
				ContentType: "application/pdf",
				Body:        []byte("%PDF-1.3"),
			}, nil
		},
	}, validator.NewValidator())

	body := jsonBody(t, dto.ExportRequest{Type: "patients", Title: "Monthly"})
	rec := serve(t, http.MethodPost, "/reports/export/{format}", "/reports/export/pdf", body, h.Export)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pdf", gotFormat)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "patients-report.pdf")
	assert.Equal(t, "%PDF-1.3", rec.Body.String())

	body = jsonBody(t, dto.ExportRequest{Type: "patients"})
	rec = serve(t, http.MethodPost, "/reports/export/{format}", "/reports/export/csv", body, h.Export)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = jsonBody(t, dto.ExportRequest{Type: "inventory"})
	rec = serve(t, http.MethodPost, "/reports/export/{format}", "/reports/export/pdf", body, h.Export)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
