package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ClinicalSessionRepository interface {
	Create(ctx context.Context, db *gorm.DB, session *entity.ClinicalSession) error
	Update(ctx context.Context, db *gorm.DB, session *entity.ClinicalSession) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.ClinicalSession, error)
	FindByPatient(ctx context.Context, db *gorm.DB, patientID int) ([]entity.ClinicalSession, error)
	CountActiveByPatient(ctx context.Context, db *gorm.DB, patientID int) (int64, error)
	Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
}
