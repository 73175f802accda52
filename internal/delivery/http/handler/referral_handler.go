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

type ReferralHandler struct {
	referralUsecase usecase.ReferralUsecase
	validator       *validator.CustomValidator
}

func NewReferralHandler(referralUsecase usecase.ReferralUsecase, validator *validator.CustomValidator) *ReferralHandler {
	return &ReferralHandler{
		referralUsecase: referralUsecase,
		validator:       validator,
	}
}

func (h *ReferralHandler) GetClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.referralUsecase.GetClinics(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get clinics")
		return
	}

	response.Success(w, http.StatusOK, "Clinics retrieved successfully", clinics)
}

func (h *ReferralHandler) GetByExpediente(w http.ResponseWriter, r *http.Request) {
	expedienteID, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid expediente ID", nil)
		return
	}

	referrals, err := h.referralUsecase.GetByExpediente(r.Context(), expedienteID)
	if err != nil {
		writeReferralError(w, err, "Failed to get referrals")
		return
	}

	response.Success(w, http.StatusOK, "Referrals retrieved successfully", referrals)
}

func (h *ReferralHandler) GetReferral(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid referral ID", nil)
		return
	}

	referral, err := h.referralUsecase.GetReferral(r.Context(), id)
	if err != nil {
		writeReferralError(w, err, "Failed to get referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral retrieved successfully", referral)
}

func (h *ReferralHandler) CreateReferral(w http.ResponseWriter, r *http.Request) {
	var req dto.ReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	referral, err := h.referralUsecase.CreateReferral(r.Context(), &req)
	if err != nil {
		writeReferralError(w, err, "Failed to create referral")
		return
	}

	response.Success(w, http.StatusCreated, "Referral created successfully", referral)
}

func (h *ReferralHandler) CompleteReferral(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid referral ID", nil)
		return
	}

	if err := h.referralUsecase.CompleteReferral(r.Context(), id); err != nil {
		writeReferralError(w, err, "Failed to complete referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral completed successfully", nil)
}

func (h *ReferralHandler) CancelReferral(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid referral ID", nil)
		return
	}

	if err := h.referralUsecase.CancelReferral(r.Context(), id); err != nil {
		writeReferralError(w, err, "Failed to cancel referral")
		return
	}

	response.Success(w, http.StatusOK, "Referral cancelled successfully", nil)
}

func writeReferralError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrReferralNotFound):
		response.NotFound(w, "Referral not found")
	case errors.Is(err, usecase.ErrExpedienteNotFound):
		response.NotFound(w, "Expediente not found or inactive")
	case errors.Is(err, usecase.ErrClinicNotFound):
		response.NotFound(w, "Clinic not found")
	case errors.Is(err, usecase.ErrTargetUserNotFound):
		response.NotFound(w, "Target user not found or inactive")
	case errors.Is(err, usecase.ErrUserNotFound):
		response.Unauthorized(w, "User not found")
	case errors.Is(err, usecase.ErrExpedienteHasNoPatient):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrReferralNotPending):
		response.Conflict(w, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
