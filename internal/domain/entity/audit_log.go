package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserLogin         = "user.login"
	AuditActionUserLogout        = "user.logout"
	AuditActionUserCreate        = "user.create"
	AuditActionUserUpdate        = "user.update"
	AuditActionUserDelete        = "user.delete"
	AuditActionPasswordChange    = "user.password_change"
	AuditActionPasswordReset     = "user.password_reset"
	AuditActionPatientCreate     = "patient.create"
	AuditActionPatientUpdate     = "patient.update"
	AuditActionPatientDelete     = "patient.delete"
	AuditActionExpedienteCreate  = "expediente.create"
	AuditActionExpedienteUpdate  = "expediente.update"
	AuditActionExpedienteDelete  = "expediente.delete"
	AuditActionSessionCreate     = "session.create"
	AuditActionSessionUpdate     = "session.update"
	AuditActionSessionDelete     = "session.delete"
	AuditActionAppointmentCreate = "appointment.create"
	AuditActionAppointmentUpdate = "appointment.update"
	AuditActionAppointmentCancel = "appointment.cancel"
	AuditActionReferralCreate    = "referral.create"
	AuditActionReferralComplete  = "referral.complete"
	AuditActionReferralCancel    = "referral.cancel"
	AuditActionPatientFileUpload = "patient_file.upload"
	AuditActionPatientFileDelete = "patient_file.delete"
)
