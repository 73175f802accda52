package dto

import "time"

// Request DTOs

type PatientRequest struct {
	FirstNames           string `json:"first_names" validate:"required,max=100,personname"`
	LastNames            string `json:"last_names" validate:"required,max=100,personname"`
	CUI                  string `json:"cui" validate:"required,cui"`
	BirthDate            string `json:"birth_date" validate:"required,date"` // Format: YYYY-MM-DD
	Gender               string `json:"gender" validate:"required,oneof=M F"`
	ConsultationType     string `json:"consultation_type" validate:"omitempty,max=100"`
	DisabilityType       string `json:"disability_type" validate:"omitempty,max=100"`
	PersonalPhone        string `json:"personal_phone" validate:"omitempty,phone"`
	EmergencyContactName string `json:"emergency_contact_name" validate:"omitempty,max=150"`
	EmergencyPhone       string `json:"emergency_phone" validate:"omitempty,phone"`
	GuardianName         string `json:"guardian_name" validate:"omitempty,max=150"`
	GuardianDPI          string `json:"guardian_dpi" validate:"omitempty,cui"`
	GuardianPhone        string `json:"guardian_phone" validate:"omitempty,phone"`
	Municipality         string `json:"municipality" validate:"omitempty,max=100"`
	Village              string `json:"village" validate:"omitempty,max=100"`
	Address              string `json:"address" validate:"omitempty,max=500"`
}

// Response DTOs

type PatientResponse struct {
	ID                   int                  `json:"id"`
	FirstNames           string               `json:"first_names"`
	LastNames            string               `json:"last_names"`
	FullName             string               `json:"full_name"`
	CUI                  string               `json:"cui"`
	BirthDate            string               `json:"birth_date"`
	Age                  int                  `json:"age"`
	Gender               string               `json:"gender"`
	ConsultationType     string               `json:"consultation_type,omitempty"`
	DisabilityType       string               `json:"disability_type,omitempty"`
	PersonalPhone        string               `json:"personal_phone,omitempty"`
	EmergencyContactName string               `json:"emergency_contact_name,omitempty"`
	EmergencyPhone       string               `json:"emergency_phone,omitempty"`
	GuardianName         string               `json:"guardian_name,omitempty"`
	GuardianDPI          string               `json:"guardian_dpi,omitempty"`
	GuardianPhone        string               `json:"guardian_phone,omitempty"`
	Municipality         string               `json:"municipality,omitempty"`
	Village              string               `json:"village,omitempty"`
	Address              string               `json:"address,omitempty"`
	HasPhoto             bool                 `json:"has_photo"`
	Expedientes          []ExpedienteSummary  `json:"expedientes"`
	CreatedBy            string               `json:"created_by,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// PatientOption is the short form used by pickers.
type PatientOption struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	CUI      string `json:"cui"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
}
