package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// AppointmentRequest takes Date as YYYY-MM-DD or RFC3339 and Time as HH:mm
// or HH:mm:ss.
type AppointmentRequest struct {
	UserID        *uuid.UUID `json:"user_id"` // defaults to the caller
	PatientID     int        `json:"patient_id" validate:"required,gte=1"`
	Date          string     `json:"date" validate:"required"`
	Time          string     `json:"time" validate:"required,clock"`
	Comment       string     `json:"comment" validate:"omitempty,max=2000"`
	Transport     bool       `json:"transport"`
	TransportDate string     `json:"transport_date" validate:"required_if=Transport true"`
	TransportTime string     `json:"transport_time" validate:"required_if=Transport true,omitempty,clock"`
	Address       string     `json:"address" validate:"omitempty,max=500"`
}

// Response DTOs

type AppointmentResponse struct {
	ID            int            `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	Therapist     string         `json:"therapist,omitempty"`
	PatientID     int            `json:"patient_id"`
	Patient       *PatientOption `json:"patient,omitempty"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	Comment       string         `json:"comment,omitempty"`
	Transport     bool           `json:"transport"`
	TransportDate string         `json:"transport_date,omitempty"`
	TransportTime string         `json:"transport_time,omitempty"`
	Address       string         `json:"address,omitempty"`
	CreatedBy     string         `json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
