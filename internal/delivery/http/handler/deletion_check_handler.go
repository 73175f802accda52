package handler

import (
	"errors"
	"net/http"

	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"

	"github.com/gorilla/mux"
)

type DeletionCheckHandler struct {
	checkUsecase usecase.DeletionCheckUsecase
}

func NewDeletionCheckHandler(checkUsecase usecase.DeletionCheckUsecase) *DeletionCheckHandler {
	return &DeletionCheckHandler{checkUsecase: checkUsecase}
}

// Check reports whether the patient or expediente can be deleted and what
// still references it. It never modifies anything.
func (h *DeletionCheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ID", nil)
		return
	}

	check, err := h.checkUsecase.Check(r.Context(), mux.Vars(r)["kind"], id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownEntityKind):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		case errors.Is(err, usecase.ErrExpedienteNotFound):
			response.NotFound(w, "Expediente not found")
		default:
			response.InternalServerError(w, "Failed to check deletion")
		}
		return
	}

	response.Success(w, http.StatusOK, "Deletion check completed", check)
}
