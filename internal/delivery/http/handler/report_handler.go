package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"
	"clinic-management-api/pkg/validator"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
	validator     *validator.CustomValidator
}

func NewReportHandler(reportUsecase usecase.ReportUsecase, validator *validator.CustomValidator) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
		validator:     validator,
	}
}

// reportQuery reads the report filters from the query string.
func reportQuery(r *http.Request) (*dto.ReportQuery, error) {
	q := r.URL.Query()
	rq := &dto.ReportQuery{
		From:           q.Get("from"),
		To:             q.Get("to"),
		Gender:         q.Get("gender"),
		Municipality:   q.Get("municipality"),
		DisabilityType: q.Get("disability_type"),
		UserID:         q.Get("user_id"),
		Diagnosis:      q.Get("diagnosis"),
		Direction:      q.Get("direction"),
		State:          q.Get("state"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"page", &rq.Page},
		{"limit", &rq.Limit},
		{"month", &rq.Month},
		{"year", &rq.Year},
	}
	for _, f := range ints {
		v, err := queryInt(r, f.name)
		if err != nil {
			return nil, err
		}
		if v != nil {
			*f.dst = *v
		}
	}

	var err error
	if rq.AgeMin, err = queryInt(r, "age_min"); err != nil {
		return nil, err
	}
	if rq.AgeMax, err = queryInt(r, "age_max"); err != nil {
		return nil, err
	}
	if rq.PatientID, err = queryInt(r, "patient_id"); err != nil {
		return nil, err
	}
	if rq.ClinicID, err = queryInt(r, "clinic_id"); err != nil {
		return nil, err
	}
	if raw := q.Get("transport"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("invalid transport")
		}
		rq.Transport = &b
	}

	return rq, nil
}

func (h *ReportHandler) parseQuery(w http.ResponseWriter, r *http.Request) (*dto.ReportQuery, bool) {
	q, err := reportQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return nil, false
	}
	if err := h.validator.Validate(q); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}
	return q, true
}

func writeReportError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrInvalidMonth),
		errors.Is(err, usecase.ErrInvalidYear),
		errors.Is(err, usecase.ErrInvalidAgeRange),
		errors.Is(err, usecase.ErrInvalidTherapist),
		errors.Is(err, usecase.ErrInvalidReportType),
		errors.Is(err, usecase.ErrInvalidExportFormat):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportUsecase.Dashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", summary)
}

func (h *ReportHandler) Patients(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	report, err := h.reportUsecase.Patients(r.Context(), q)
	if err != nil {
		writeReportError(w, err, "Failed to get patient report")
		return
	}

	response.Success(w, http.StatusOK, "Patient report retrieved successfully", report)
}

func (h *ReportHandler) AgeGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.reportUsecase.AgeGroups(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get age groups")
		return
	}

	response.Success(w, http.StatusOK, "Age groups retrieved successfully", groups)
}

func (h *ReportHandler) Consultations(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	report, err := h.reportUsecase.Consultations(r.Context(), q)
	if err != nil {
		writeReportError(w, err, "Failed to get consultation report")
		return
	}

	response.Success(w, http.StatusOK, "Consultation report retrieved successfully", report)
}

func (h *ReportHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	report, err := h.reportUsecase.Appointments(r.Context(), q)
	if err != nil {
		writeReportError(w, err, "Failed to get appointment report")
		return
	}

	response.Success(w, http.StatusOK, "Appointment report retrieved successfully", report)
}

func (h *ReportHandler) Referrals(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	report, err := h.reportUsecase.Referrals(r.Context(), q)
	if err != nil {
		writeReportError(w, err, "Failed to get referral report")
		return
	}

	response.Success(w, http.StatusOK, "Referral report retrieved successfully", report)
}

// Export renders a report as an xlsx or pdf attachment. The format comes
// from the path, the report type and filters from the body.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req dto.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	file, err := h.reportUsecase.Export(r.Context(), mux.Vars(r)["format"], &req)
	if err != nil {
		writeReportError(w, err, "Failed to export report")
		return
	}

	response.Attachment(w, file.ContentType, file.Filename, file.Body)
}
