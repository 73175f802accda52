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
)

type ExpedienteHandler struct {
	expedienteUsecase usecase.ExpedienteUsecase
	validator         *validator.CustomValidator
}

func NewExpedienteHandler(expedienteUsecase usecase.ExpedienteUsecase, validator *validator.CustomValidator) *ExpedienteHandler {
	return &ExpedienteHandler{
		expedienteUsecase: expedienteUsecase,
		validator:         validator,
	}
}

func (h *ExpedienteHandler) GetAllExpedientes(w http.ResponseWriter, r *http.Request) {
	filter := entity.ExpedienteFilter{
		Pagination: pagination(r),
		Search:     r.URL.Query().Get("search"),
	}

	expedientes, err := h.expedienteUsecase.GetAllExpedientes(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get expedientes")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Expedientes retrieved successfully", expedientes.Expedientes,
		response.NewMeta(filter.Page, filter.Limit, expedientes.Total))
}

func (h *ExpedienteHandler) GetExpediente(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid expediente ID", nil)
		return
	}

	expediente, err := h.expedienteUsecase.GetExpediente(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrExpedienteNotFound) {
			response.NotFound(w, "Expediente not found")
			return
		}
		response.InternalServerError(w, "Failed to get expediente")
		return
	}

	response.Success(w, http.StatusOK, "Expediente retrieved successfully", expediente)
}

func (h *ExpedienteHandler) CreateExpediente(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpedienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	expediente, err := h.expedienteUsecase.CreateExpediente(r.Context(), &req)
	if err != nil {
		writeExpedienteError(w, err, "Failed to create expediente")
		return
	}

	response.Success(w, http.StatusCreated, "Expediente created successfully", expediente)
}

func (h *ExpedienteHandler) UpdateExpediente(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid expediente ID", nil)
		return
	}

	var req dto.ExpedienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	expediente, err := h.expedienteUsecase.UpdateExpediente(r.Context(), id, &req)
	if err != nil {
		writeExpedienteError(w, err, "Failed to update expediente")
		return
	}

	response.Success(w, http.StatusOK, "Expediente updated successfully", expediente)
}

func writeExpedienteError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrExpedienteNotFound):
		response.NotFound(w, "Expediente not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found or inactive")
	case errors.Is(err, usecase.ErrDuplicateExpedienteNumber):
		response.Conflict(w, err.Error(), nil)
	case errors.Is(err, usecase.ErrInvalidDateFormat):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *ExpedienteHandler) DeleteExpediente(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid expediente ID", nil)
		return
	}

	if err := h.expedienteUsecase.DeleteExpediente(r.Context(), id); err != nil {
		if writeDeletionBlocked(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrExpedienteNotFound) {
			response.NotFound(w, "Expediente not found")
			return
		}
		response.InternalServerError(w, "Failed to delete expediente")
		return
	}

	response.Success(w, http.StatusOK, "Expediente deleted successfully", nil)
}

func (h *ExpedienteHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.expedienteUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get expediente stats")
		return
	}

	response.Success(w, http.StatusOK, "Expediente stats retrieved successfully", stats)
}

// GetAvailable lists active expedientes with no linked patient.
func (h *ExpedienteHandler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	expedientes, err := h.expedienteUsecase.GetAvailable(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get available expedientes")
		return
	}

	response.Success(w, http.StatusOK, "Available expedientes retrieved successfully", expedientes)
}

func (h *ExpedienteHandler) GenerateNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.expedienteUsecase.GenerateNumber(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to generate expediente number")
		return
	}

	response.Success(w, http.StatusOK, "Expediente number generated successfully", number)
}
