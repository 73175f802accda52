package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"
	"clinic-management-api/pkg/validator"
)

type ClinicalSessionHandler struct {
	sessionUsecase usecase.ClinicalSessionUsecase
	validator      *validator.CustomValidator
}

func NewClinicalSessionHandler(sessionUsecase usecase.ClinicalSessionUsecase, validator *validator.CustomValidator) *ClinicalSessionHandler {
	return &ClinicalSessionHandler{
		sessionUsecase: sessionUsecase,
		validator:      validator,
	}
}

// GetHistory returns the patient with all of its sessions, newest first.
func (h *ClinicalSessionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	history, err := h.sessionUsecase.GetHistory(r.Context(), patientID)
	if err != nil {
		if errors.Is(err, usecase.ErrPatientNotFound) {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalServerError(w, "Failed to get clinical history")
		return
	}

	response.Success(w, http.StatusOK, "Clinical history retrieved successfully", history)
}

func (h *ClinicalSessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	session, err := h.sessionUsecase.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			response.NotFound(w, "Clinical session not found")
			return
		}
		response.InternalServerError(w, "Failed to get clinical session")
		return
	}

	response.Success(w, http.StatusOK, "Clinical session retrieved successfully", session)
}

func (h *ClinicalSessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req dto.ClinicalSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.sessionUsecase.CreateSession(r.Context(), &req)
	if err != nil {
		writeSessionError(w, err, "Failed to create clinical session")
		return
	}

	response.Success(w, http.StatusCreated, "Clinical session created successfully", session)
}

func (h *ClinicalSessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	var req dto.ClinicalSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.sessionUsecase.UpdateSession(r.Context(), id, &req)
	if err != nil {
		writeSessionError(w, err, "Failed to update clinical session")
		return
	}

	response.Success(w, http.StatusOK, "Clinical session updated successfully", session)
}

func writeSessionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		response.NotFound(w, "Clinical session not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found or inactive")
	case errors.Is(err, usecase.ErrAttendingNotFound):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidDateFormat):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *ClinicalSessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	if err := h.sessionUsecase.DeleteSession(r.Context(), id); err != nil {
		if writeDeletionBlocked(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrSessionNotFound) {
			response.NotFound(w, "Clinical session not found")
			return
		}
		response.InternalServerError(w, "Failed to delete clinical session")
		return
	}

	response.Success(w, http.StatusOK, "Clinical session deleted successfully", nil)
}
