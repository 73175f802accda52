package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type ReferralRequest struct {
	ExpedienteID int        `json:"expediente_id" validate:"required,gte=1"`
	ClinicID     int        `json:"clinic_id" validate:"required,gte=1"`
	TargetUserID *uuid.UUID `json:"target_user_id"`
	Comment      string     `json:"comment" validate:"omitempty,max=2000"`
}

// Response DTOs

type ClinicResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ReferralResponse struct {
	ID           int             `json:"id"`
	ExpedienteID int             `json:"expediente_id"`
	PatientID    int             `json:"patient_id"`
	Clinic       *ClinicResponse `json:"clinic,omitempty"`
	UserID       uuid.UUID       `json:"user_id"`
	FromUser     string          `json:"from_user,omitempty"`
	TargetUserID *uuid.UUID      `json:"target_user_id,omitempty"`
	ToUser       string          `json:"to_user,omitempty"`
	Comment      string          `json:"comment,omitempty"`
	Completed    bool            `json:"completed"`
	CreatedAt    time.Time       `json:"created_at"`
}
