package repository

import (
	"context"
	"errors"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"gorm.io/gorm"
)

type patientFileRepository struct{}

func NewPatientFileRepository() domainRepo.PatientFileRepository {
	return &patientFileRepository{}
}

func (r *patientFileRepository) Create(ctx context.Context, db *gorm.DB, file *entity.PatientFile) error {
	return db.WithContext(ctx).Create(file).Error
}

func (r *patientFileRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.PatientFile, error) {
	return r.first(ctx, db, "id = ? AND status = ?", id, entity.StatusActive)
}

func (r *patientFileRepository) FindByKey(ctx context.Context, db *gorm.DB, key string) (*entity.PatientFile, error) {
	return r.first(ctx, db, "storage_key = ? AND status = ?", key, entity.StatusActive)
}

func (r *patientFileRepository) first(ctx context.Context, db *gorm.DB, query string, args ...interface{}) (*entity.PatientFile, error) {
	var file entity.PatientFile
	err := db.WithContext(ctx).Where(query, args...).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

func (r *patientFileRepository) FindByPatient(ctx context.Context, db *gorm.DB, patientID int) ([]entity.PatientFile, error) {
	var files []entity.PatientFile
	err := db.WithContext(ctx).
		Where("patient_id = ? AND status = ?", patientID, entity.StatusActive).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *patientFileRepository) Deactivate(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.PatientFile{}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		Update("status", entity.StatusInactive)
	return result.RowsAffected, result.Error
}
