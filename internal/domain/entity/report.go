package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportPatients      ReportType = "patients"
	ReportConsultations ReportType = "consultations"
	ReportAppointments  ReportType = "appointments"
	ReportReferrals     ReportType = "referrals"
)

// MaxExportRows caps how many rows a single export renders.
const MaxExportRows = 10000

type PatientCounts struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Inactive     int64 `json:"inactive"`
	NewThisMonth int64 `json:"new_this_month"`
}

type ReferralCounts struct {
	Total     int64 `json:"total"`
	Sent      int64 `json:"sent"`
	Received  int64 `json:"received"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

type DashboardSummary struct {
	Patients               PatientCounts  `json:"patients"`
	ConsultationsThisMonth int64          `json:"consultations_this_month"`
	AppointmentsThisMonth  int64          `json:"appointments_this_month"`
	Referrals              ReferralCounts `json:"referrals"`
}

type PatientReportRow struct {
	ID             int       `json:"id"`
	FirstNames     string    `json:"first_names"`
	LastNames      string    `json:"last_names"`
	CUI            string    `gorm:"column:cui" json:"cui"`
	Gender         string    `json:"gender"`
	BirthDate      time.Time `json:"birth_date"`
	Age            int       `gorm:"-" json:"age"`
	Municipality   string    `json:"municipality"`
	DisabilityType string    `json:"disability_type"`
	Expedientes    int64     `json:"expedientes"`
	CreatedAt      time.Time `json:"created_at"`
}

type PatientReportSummary struct {
	Total             int64         `json:"total"`
	ByGender          []GenderCount `json:"by_gender"`
	WithExpediente    int64         `json:"with_expediente"`
	WithoutExpediente int64         `json:"without_expediente"`
}

type ConsultationReportRow struct {
	ID                 int       `json:"id"`
	SessionDate        time.Time `json:"session_date"`
	PatientID          int       `json:"patient_id"`
	PatientName        string    `json:"patient_name"`
	PatientCUI         string    `gorm:"column:patient_cui" json:"patient_cui"`
	Therapist          string    `json:"therapist"`
	ChiefComplaint     string    `json:"chief_complaint"`
	DiagnosisTreatment string    `json:"diagnosis_treatment"`
}

type AppointmentReportRow struct {
	ID            int        `json:"id"`
	Date          time.Time  `json:"date"`
	Time          string     `json:"time"`
	PatientName   string     `json:"patient_name"`
	Therapist     string     `json:"therapist"`
	Transport     bool       `json:"transport"`
	TransportDate *time.Time `json:"transport_date,omitempty"`
	TransportTime *string    `json:"transport_time,omitempty"`
	Address       string     `json:"address"`
	Comment       string     `json:"comment"`
}

type TransportSummary struct {
	Total         int64 `json:"total"`
	WithTransport int64 `json:"with_transport"`
}

type ReferralReportRow struct {
	ID               int        `json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	PatientName      string     `json:"patient_name"`
	ExpedienteNumber string     `json:"expediente_number"`
	ClinicName       string     `json:"clinic_name"`
	UserID           uuid.UUID  `json:"user_id"`
	FromUser         string     `json:"from_user"`
	TargetUserID     *uuid.UUID `json:"target_user_id,omitempty"`
	ToUser           string     `json:"to_user"`
	Completed        bool       `json:"completed"`
}
