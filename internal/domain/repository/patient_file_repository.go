package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientFileRepository interface {
	Create(ctx context.Context, db *gorm.DB, file *entity.PatientFile) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.PatientFile, error)
	FindByKey(ctx context.Context, db *gorm.DB, key string) (*entity.PatientFile, error)
	FindByPatient(ctx context.Context, db *gorm.DB, patientID int) ([]entity.PatientFile, error)
	Deactivate(ctx context.Context, db *gorm.DB, id int) (int64, error)
}
