package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"
	"clinic-management-api/pkg/validator"

	"github.com/gorilla/mux"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	filter := entity.PatientFilter{
		Pagination: pagination(r),
		Search:     r.URL.Query().Get("search"),
	}

	patients, err := h.patientUsecase.GetAllPatients(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients.Patients,
		response.NewMeta(filter.Page, filter.Limit, patients.Total))
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPatientNotFound) {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalServerError(w, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), &req)
	if err != nil {
		h.writePatientError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), id, &req)
	if err != nil {
		h.writePatientError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) writePatientError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrCUIAlreadyExists):
		response.Conflict(w, err.Error(), nil)
	case errors.Is(err, usecase.ErrInvalidDateFormat):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), id); err != nil {
		if writeDeletionBlocked(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrPatientNotFound) {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalServerError(w, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

func (h *PatientHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.patientUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get patient stats")
		return
	}

	response.Success(w, http.StatusOK, "Patient stats retrieved successfully", stats)
}

// GetAvailable lists active patients that have no active expediente.
func (h *PatientHandler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.GetAvailable(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get available patients")
		return
	}

	response.Success(w, http.StatusOK, "Available patients retrieved successfully", patients)
}

func (h *PatientHandler) GetByGender(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.GetByGender(r.Context(), mux.Vars(r)["gender"])
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidGender) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *PatientHandler) GetByAge(w http.ResponseWriter, r *http.Request) {
	ageMin, err := queryInt(r, "age_min")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	ageMax, err := queryInt(r, "age_max")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	patients, err := h.patientUsecase.GetByAge(r.Context(), ageMin, ageMax)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidAgeRange) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}
