package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

// ExpedienteRequest is used for create and update. Number is optional on
// create: when empty or AutoGenerate is set the next sequential number is used.
type ExpedienteRequest struct {
	Number       string `json:"number" validate:"omitempty,expediente_number"`
	AutoGenerate bool   `json:"auto_generate"`
	PatientID    *int   `json:"patient_id" validate:"omitempty,gte=1"`
	ExpedienteFields
}

// ExpedienteFields are the clinical chart fields shared by request and response.
type ExpedienteFields struct {
	IllnessHistory string `json:"illness_history" validate:"omitempty,max=5000"`

	MedicalHistory    string `json:"medical_history" validate:"omitempty,max=5000"`
	MedicationHistory string `json:"medication_history" validate:"omitempty,max=5000"`
	TraumaticHistory  string `json:"traumatic_history" validate:"omitempty,max=5000"`
	FamilyHistory     string `json:"family_history" validate:"omitempty,max=5000"`
	AllergyHistory    string `json:"allergy_history" validate:"omitempty,max=5000"`
	SubstanceHistory  string `json:"substance_history" validate:"omitempty,max=5000"`
	LactoseIntolerant *bool  `json:"lactose_intolerant"`

	Immunization string `json:"immunization" validate:"omitempty,max=5000"`
	Growth       string `json:"growth" validate:"omitempty,max=5000"`
	Habits       string `json:"habits" validate:"omitempty,max=5000"`
	Diet         string `json:"diet" validate:"omitempty,max=5000"`

	Prenatal            string  `json:"prenatal" validate:"omitempty,max=5000"`
	Natal               string  `json:"natal" validate:"omitempty,max=5000"`
	Postnatal           string  `json:"postnatal" validate:"omitempty,max=5000"`
	Pregnancies         *int    `json:"pregnancies" validate:"omitempty,gte=0,lte=30"`
	Births              *int    `json:"births" validate:"omitempty,gte=0,lte=30"`
	Abortions           *int    `json:"abortions" validate:"omitempty,gte=0,lte=30"`
	Cesareans           *int    `json:"cesareans" validate:"omitempty,gte=0,lte=30"`
	LiveChildren        *int    `json:"live_children" validate:"omitempty,gte=0,lte=30"`
	DeadChildren        *int    `json:"dead_children" validate:"omitempty,gte=0,lte=30"`
	LastMenstrualPeriod *string `json:"last_menstrual_period" validate:"omitempty,date"`
	MenstrualCycles     string  `json:"menstrual_cycles" validate:"omitempty,max=100"`
	MenarcheAge         *int    `json:"menarche_age" validate:"omitempty,gte=5,lte=25"`

	Temperature      decimal.NullDecimal `json:"temperature"`
	BloodPressure    string              `json:"blood_pressure" validate:"omitempty,max=20"`
	HeartRate        *int                `json:"heart_rate" validate:"omitempty,gte=20,lte=300"`
	RespiratoryRate  *int                `json:"respiratory_rate" validate:"omitempty,gte=5,lte=80"`
	OxygenSaturation decimal.NullDecimal `json:"oxygen_saturation"`
	WeightKg         decimal.NullDecimal `json:"weight_kg"`
	HeightM          decimal.NullDecimal `json:"height_m"`
	BMI              decimal.NullDecimal `json:"bmi"`
	BloodGlucose     decimal.NullDecimal `json:"blood_glucose"`
}

// Response DTOs

type ExpedienteSummary struct {
	ID     int    `json:"id"`
	Number string `json:"number"`
}

type ExpedienteResponse struct {
	ID        int    `json:"id"`
	Number    string `json:"number"`
	PatientID *int   `json:"patient_id,omitempty"`
	ExpedienteFields

	Patient   *PatientOption     `json:"patient,omitempty"`
	Referrals []ReferralResponse `json:"referrals"`
	CreatedBy string             `json:"created_by,omitempty"`
	UpdatedBy string             `json:"updated_by,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	// NumberSource tells how the number was obtained on create.
	NumberSource string `json:"number_source,omitempty"`
}

type ExpedienteListResponse struct {
	Expedientes []ExpedienteResponse `json:"expedientes"`
	Total       int64                `json:"total"`
}

type GeneratedNumberResponse struct {
	Number string `json:"number"`
	Source string `json:"source"`
}
