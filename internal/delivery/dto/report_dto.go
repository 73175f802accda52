package dto

import "clinic-management-api/internal/domain/entity"

// ReportQuery is the union of every report's filters. Dates are YYYY-MM-DD;
// Month and Year narrow From/To when both are set.
type ReportQuery struct {
	Page           int    `json:"page"`
	Limit          int    `json:"limit"`
	From           string `json:"from" validate:"omitempty,date"`
	To             string `json:"to" validate:"omitempty,date"`
	Month          int    `json:"month" validate:"omitempty,gte=1,lte=12"`
	Year           int    `json:"year" validate:"omitempty,gte=2000"`
	Gender         string `json:"gender" validate:"omitempty,oneof=M F"`
	Municipality   string `json:"municipality" validate:"omitempty,max=100"`
	DisabilityType string `json:"disability_type" validate:"omitempty,max=100"`
	AgeMin         *int   `json:"age_min" validate:"omitempty,gte=0,lte=130"`
	AgeMax         *int   `json:"age_max" validate:"omitempty,gte=0,lte=130"`
	UserID         string `json:"user_id" validate:"omitempty,uuid"`
	PatientID      *int   `json:"patient_id" validate:"omitempty,gte=1"`
	Diagnosis      string `json:"diagnosis" validate:"omitempty,max=200"`
	Transport      *bool  `json:"transport"`
	ClinicID       *int   `json:"clinic_id" validate:"omitempty,gte=1"`
	Direction      string `json:"direction" validate:"omitempty,oneof=sent received"`
	State          string `json:"state" validate:"omitempty,oneof=pending completed"`
}

type ExportRequest struct {
	Type    string      `json:"type" validate:"required,oneof=patients consultations appointments referrals"`
	Title   string      `json:"title" validate:"omitempty,max=150"`
	Filters ReportQuery `json:"filters"`
}

type PatientReportResponse struct {
	Rows    []entity.PatientReportRow    `json:"rows"`
	Total   int64                        `json:"total"`
	Summary *entity.PatientReportSummary `json:"summary"`
}

type ConsultationReportResponse struct {
	Rows  []entity.ConsultationReportRow `json:"rows"`
	Total int64                          `json:"total"`
}

type AppointmentReportResponse struct {
	Rows    []entity.AppointmentReportRow `json:"rows"`
	Total   int64                         `json:"total"`
	Summary *entity.TransportSummary      `json:"summary"`
}

type ReferralReportResponse struct {
	Rows  []entity.ReferralReportRow `json:"rows"`
	Total int64                      `json:"total"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
