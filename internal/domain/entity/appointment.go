package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Appointment is an agenda entry for a therapist and a patient, optionally
// with transport arranged by the clinic.
type Appointment struct {
	ID            int             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	PatientID     int             `gorm:"not null;index" json:"patient_id"`
	Date          datatypes.Date  `gorm:"not null;index" json:"date"`
	Time          datatypes.Time  `gorm:"not null" json:"time"`
	Comment       string          `gorm:"type:text" json:"comment,omitempty"`
	Transport     bool            `gorm:"not null;default:false" json:"transport"`
	TransportDate *datatypes.Date `json:"transport_date,omitempty"`
	TransportTime *datatypes.Time `json:"transport_time,omitempty"`
	Address       string          `gorm:"type:text" json:"address,omitempty"`
	Status        int             `gorm:"type:smallint;not null;default:1;index" json:"status"`
	CreatedBy     string          `gorm:"type:varchar(50)" json:"created_by,omitempty"`
	UpdatedBy     string          `gorm:"type:varchar(50)" json:"updated_by,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}
