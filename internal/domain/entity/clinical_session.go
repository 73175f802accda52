package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalSession is one entry of a patient's clinical history.
type ClinicalSession struct {
	ID                 int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID          int       `gorm:"not null;index" json:"patient_id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionDate        time.Time `gorm:"not null;index" json:"session_date"`
	Reminder           string    `gorm:"type:text" json:"reminder,omitempty"`
	ConsultationNote   string    `gorm:"type:text" json:"consultation_note,omitempty"`
	ChiefComplaint     string    `gorm:"type:text" json:"chief_complaint,omitempty"`
	Evolution          string    `gorm:"type:text" json:"evolution,omitempty"`
	DiagnosisTreatment string    `gorm:"type:text" json:"diagnosis_treatment,omitempty"`
	Status             int       `gorm:"type:smallint;not null;default:1;index" json:"status"`
	CreatedBy          string    `gorm:"type:varchar(50)" json:"created_by,omitempty"`
	UpdatedBy          string    `gorm:"type:varchar(50)" json:"updated_by,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *Patient      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	User    *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Files   []PatientFile `gorm:"foreignKey:SessionID" json:"files,omitempty"`
}

func (ClinicalSession) TableName() string {
	return "clinical_sessions"
}
