package repository

import (
	"context"
	"errors"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type clinicalSessionRepository struct{}

func NewClinicalSessionRepository() domainRepo.ClinicalSessionRepository {
	return &clinicalSessionRepository{}
}

func (r *clinicalSessionRepository) Create(ctx context.Context, db *gorm.DB, session *entity.ClinicalSession) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

func (r *clinicalSessionRepository) Update(ctx context.Context, db *gorm.DB, session *entity.ClinicalSession) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(session).Error
}

func (r *clinicalSessionRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.ClinicalSession, error) {
	var session entity.ClinicalSession
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Files", "status = ?", entity.StatusActive).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// FindByPatient returns the active history of a patient, newest first.
func (r *clinicalSessionRepository) FindByPatient(ctx context.Context, db *gorm.DB, patientID int) ([]entity.ClinicalSession, error) {
	var sessions []entity.ClinicalSession
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Files", "status = ?", entity.StatusActive).
		Where("patient_id = ? AND status = ?", patientID, entity.StatusActive).
		Order("session_date DESC, id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *clinicalSessionRepository) CountActiveByPatient(ctx context.Context, db *gorm.DB, patientID int) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.ClinicalSession{}).
		Where("patient_id = ? AND status = ?", patientID, entity.StatusActive).
		Count(&count).Error
	return count, err
}

func (r *clinicalSessionRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.ClinicalSession{}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		Updates(map[string]interface{}{
			"status":     entity.StatusInactive,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}
