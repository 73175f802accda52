package entity

import (
	"time"

	"github.com/google/uuid"
)

type FileKind string

const (
	FileKindPhoto    FileKind = "photo"
	FileKindDocument FileKind = "document"
)

// PatientFile is an uploaded object owned by a patient, optionally attached
// to a clinical session. StorageKey addresses the blob in the file store.
type PatientFile struct {
	ID           int        `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    int        `gorm:"not null;index" json:"patient_id"`
	SessionID    *int       `gorm:"index" json:"session_id,omitempty"`
	Kind         FileKind   `gorm:"type:varchar(20);not null" json:"kind"`
	StorageKey   string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"storage_key"`
	OriginalName string     `gorm:"type:varchar(255)" json:"original_name"`
	ContentType  string     `gorm:"type:varchar(100);not null" json:"content_type"`
	SizeBytes    int64      `gorm:"not null" json:"size_bytes"`
	UploadedBy   *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	Status       int        `gorm:"type:smallint;not null;default:1;index" json:"status"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (PatientFile) TableName() string {
	return "patient_files"
}
