package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expediente is a patient's medical chart. Number is unique across every
// expediente ever created, including inactive ones, and an expediente may
// exist without a linked patient.
type Expediente struct {
	ID        int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    string `gorm:"type:varchar(50);uniqueIndex:uq_expedientes_number;not null" json:"number"`
	PatientID *int   `gorm:"index" json:"patient_id,omitempty"`

	IllnessHistory string `gorm:"type:text" json:"illness_history,omitempty"`

	// Personal history
	MedicalHistory    string `gorm:"type:text" json:"medical_history,omitempty"`
	MedicationHistory string `gorm:"type:text" json:"medication_history,omitempty"`
	TraumaticHistory  string `gorm:"type:text" json:"traumatic_history,omitempty"`
	FamilyHistory     string `gorm:"type:text" json:"family_history,omitempty"`
	AllergyHistory    string `gorm:"type:text" json:"allergy_history,omitempty"`
	SubstanceHistory  string `gorm:"type:text" json:"substance_history,omitempty"`
	LactoseIntolerant *bool  `json:"lactose_intolerant,omitempty"`

	// Physiological history
	Immunization string `gorm:"type:text" json:"immunization,omitempty"`
	Growth       string `gorm:"type:text" json:"growth,omitempty"`
	Habits       string `gorm:"type:text" json:"habits,omitempty"`
	Diet         string `gorm:"type:text" json:"diet,omitempty"`

	// Gyneco-obstetric history
	Prenatal            string     `gorm:"type:text" json:"prenatal,omitempty"`
	Natal               string     `gorm:"type:text" json:"natal,omitempty"`
	Postnatal           string     `gorm:"type:text" json:"postnatal,omitempty"`
	Pregnancies         *int       `json:"pregnancies,omitempty"`
	Births              *int       `json:"births,omitempty"`
	Abortions           *int       `json:"abortions,omitempty"`
	Cesareans           *int       `json:"cesareans,omitempty"`
	LiveChildren        *int       `json:"live_children,omitempty"`
	DeadChildren        *int       `json:"dead_children,omitempty"`
	LastMenstrualPeriod *time.Time `gorm:"type:date" json:"last_menstrual_period,omitempty"`
	MenstrualCycles     string     `gorm:"type:varchar(100)" json:"menstrual_cycles,omitempty"`
	MenarcheAge         *int       `json:"menarche_age,omitempty"`

	// Physical exam
	Temperature      decimal.NullDecimal `gorm:"type:numeric(4,1)" json:"temperature"`
	BloodPressure    string              `gorm:"type:varchar(20)" json:"blood_pressure,omitempty"`
	HeartRate        *int                `json:"heart_rate,omitempty"`
	RespiratoryRate  *int                `json:"respiratory_rate,omitempty"`
	OxygenSaturation decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"oxygen_saturation"`
	WeightKg         decimal.NullDecimal `gorm:"type:numeric(6,2)" json:"weight_kg"`
	HeightM          decimal.NullDecimal `gorm:"type:numeric(4,2)" json:"height_m"`
	BMI              decimal.NullDecimal `gorm:"column:bmi;type:numeric(5,2)" json:"bmi"`
	BloodGlucose     decimal.NullDecimal `gorm:"type:numeric(6,2)" json:"blood_glucose"`

	Status    int       `gorm:"type:smallint;not null;default:1;index" json:"status"`
	CreatedBy string    `gorm:"type:varchar(50)" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"type:varchar(50)" json:"updated_by,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient   *Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Referrals []Referral `gorm:"foreignKey:ExpedienteID" json:"referrals,omitempty"`
}

func (Expediente) TableName() string {
	return "expedientes"
}

// ComputeBMI returns weight / height², rounded to two decimals. It reports
// false when either input is missing or height is not positive.
func ComputeBMI(weightKg, heightM decimal.NullDecimal) (decimal.Decimal, bool) {
	if !weightKg.Valid || !heightM.Valid || !heightM.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return weightKg.Decimal.Div(heightM.Decimal.Mul(heightM.Decimal)).Round(2), true
}

// FillBMI sets BMI from weight and height when it was not supplied.
func (e *Expediente) FillBMI() {
	if e.BMI.Valid {
		return
	}
	if bmi, ok := ComputeBMI(e.WeightKg, e.HeightM); ok {
		e.BMI = decimal.NewNullDecimal(bmi)
	}
}
