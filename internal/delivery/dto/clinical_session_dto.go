package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type ClinicalSessionRequest struct {
	PatientID          int        `json:"patient_id" validate:"required,gte=1"`
	UserID             *uuid.UUID `json:"user_id"` // defaults to the caller
	SessionDate        string     `json:"session_date" validate:"omitempty"`
	Reminder           string     `json:"reminder" validate:"omitempty,max=2000"`
	ConsultationNote   string     `json:"consultation_note" validate:"omitempty,max=10000"`
	ChiefComplaint     string     `json:"chief_complaint" validate:"omitempty,max=5000"`
	Evolution          string     `json:"evolution" validate:"omitempty,max=10000"`
	DiagnosisTreatment string     `json:"diagnosis_treatment" validate:"omitempty,max=10000"`
}

// Response DTOs

type ClinicalSessionResponse struct {
	ID                 int                   `json:"id"`
	PatientID          int                   `json:"patient_id"`
	UserID             uuid.UUID             `json:"user_id"`
	Therapist          string                `json:"therapist,omitempty"`
	SessionDate        time.Time             `json:"session_date"`
	Reminder           string                `json:"reminder,omitempty"`
	ConsultationNote   string                `json:"consultation_note,omitempty"`
	ChiefComplaint     string                `json:"chief_complaint,omitempty"`
	Evolution          string                `json:"evolution,omitempty"`
	DiagnosisTreatment string                `json:"diagnosis_treatment,omitempty"`
	Files              []PatientFileResponse `json:"files"`
	CreatedBy          string                `json:"created_by,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// ClinicalHistoryResponse is the patient summary together with every active session.
type ClinicalHistoryResponse struct {
	Patient     PatientResponse           `json:"patient"`
	Sessions    []ClinicalSessionResponse `json:"sessions"`
	Total       int                       `json:"total"`
	LastSession *time.Time                `json:"last_session,omitempty"`
}
