package entity

import (
	"time"
)

// Patient is the person being treated. CUI is the 13-digit national ID and is
// unique across all patients, active or not.
type Patient struct {
	ID                   int       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstNames           string    `gorm:"type:varchar(100);not null" json:"first_names"`
	LastNames            string    `gorm:"type:varchar(100);not null" json:"last_names"`
	CUI                  string    `gorm:"column:cui;type:varchar(13);uniqueIndex:uq_patients_cui;not null" json:"cui"`
	BirthDate            time.Time `gorm:"type:date;not null" json:"birth_date"`
	Gender               string    `gorm:"type:char(1);not null;index" json:"gender"`
	ConsultationType     string    `gorm:"type:varchar(100)" json:"consultation_type,omitempty"`
	DisabilityType       string    `gorm:"type:varchar(100)" json:"disability_type,omitempty"`
	PersonalPhone        string    `gorm:"type:varchar(20)" json:"personal_phone,omitempty"`
	EmergencyContactName string    `gorm:"type:varchar(150)" json:"emergency_contact_name,omitempty"`
	EmergencyPhone       string    `gorm:"type:varchar(20)" json:"emergency_phone,omitempty"`
	GuardianName         string    `gorm:"type:varchar(150)" json:"guardian_name,omitempty"`
	GuardianDPI          string    `gorm:"column:guardian_dpi;type:varchar(13)" json:"guardian_dpi,omitempty"`
	GuardianPhone        string    `gorm:"type:varchar(20)" json:"guardian_phone,omitempty"`
	Municipality         string    `gorm:"type:varchar(100);index" json:"municipality,omitempty"`
	Village              string    `gorm:"type:varchar(100)" json:"village,omitempty"`
	Address              string    `gorm:"type:text" json:"address,omitempty"`
	PhotoKey             *string   `gorm:"type:varchar(255)" json:"photo_key,omitempty"`
	Status               int       `gorm:"type:smallint;not null;default:1;index" json:"status"`
	CreatedBy            string    `gorm:"type:varchar(50)" json:"created_by,omitempty"`
	UpdatedBy            string    `gorm:"type:varchar(50)" json:"updated_by,omitempty"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Expedientes []Expediente `gorm:"foreignKey:PatientID" json:"expedientes,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) FullName() string {
	return p.FirstNames + " " + p.LastNames
}

// AgeAt returns the completed years between BirthDate and t.
func (p *Patient) AgeAt(t time.Time) int {
	return AgeAt(p.BirthDate, t)
}

// AgeAt returns the completed years between birth and t.
func AgeAt(birth, t time.Time) int {
	age := t.Year() - birth.Year()
	if t.Month() < birth.Month() || (t.Month() == birth.Month() && t.Day() < birth.Day()) {
		age--
	}
	return age
}

// AdultAge is the age from which a patient is reported as an adult.
const AdultAge = 18
