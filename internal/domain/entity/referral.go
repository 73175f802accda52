package entity

import (
	"time"

	"github.com/google/uuid"
)

// Referral sends a patient's expediente to another clinic or therapist.
// While active it blocks the expediente from being deactivated.
type Referral struct {
	ID           int        `gorm:"primaryKey;autoIncrement" json:"id"`
	ExpedienteID int        `gorm:"not null;index" json:"expediente_id"`
	PatientID    int        `gorm:"not null;index" json:"patient_id"`
	ClinicID     int        `gorm:"not null;index" json:"clinic_id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TargetUserID *uuid.UUID `gorm:"type:uuid;index" json:"target_user_id,omitempty"`
	Comment      string     `gorm:"type:text" json:"comment,omitempty"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	Status       int        `gorm:"type:smallint;not null;default:1;index" json:"status"`
	CreatedBy    string     `gorm:"type:varchar(50)" json:"created_by,omitempty"`
	UpdatedBy    string     `gorm:"type:varchar(50)" json:"updated_by,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Expediente *Expediente `gorm:"foreignKey:ExpedienteID" json:"expediente,omitempty"`
	Patient    *Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Clinic     *Clinic     `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TargetUser *User       `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`
}

func (Referral) TableName() string {
	return "referrals"
}
