package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type expedienteRepository struct{}

func NewExpedienteRepository() domainRepo.ExpedienteRepository {
	return &expedienteRepository{}
}

func (r *expedienteRepository) Create(ctx context.Context, db *gorm.DB, expediente *entity.Expediente) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(expediente).Error
}

func (r *expedienteRepository) Update(ctx context.Context, db *gorm.DB, expediente *entity.Expediente) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(expediente).Error
}

func (r *expedienteRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Expediente, error) {
	var expediente entity.Expediente
	err := db.WithContext(ctx).
		Preload("Patient").
		Preload("Referrals", "status = ?", entity.StatusActive).
		Preload("Referrals.Clinic").
		Where("id = ? AND status = ?", id, entity.StatusActive).
		First(&expediente).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expediente, nil
}

func (r *expedienteRepository) LockByID(ctx context.Context, db *gorm.DB, id int, strength string) (*entity.Expediente, error) {
	var expediente entity.Expediente
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		First(&expediente).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expediente, nil
}

func (r *expedienteRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.ExpedienteFilter) ([]entity.Expediente, int64, error) {
	var expedientes []entity.Expediente
	var total int64

	query := db.WithContext(ctx).Model(&entity.Expediente{}).Where("status = ?", entity.StatusActive)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("number ILIKE ? OR illness_history ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Patient").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&expedientes).Error
	if err != nil {
		return nil, 0, err
	}

	return expedientes, total, nil
}

// FindAvailable lists active expedientes not yet linked to a patient.
func (r *expedienteRepository) FindAvailable(ctx context.Context, db *gorm.DB) ([]entity.Expediente, error) {
	var expedientes []entity.Expediente
	err := db.WithContext(ctx).
		Where("patient_id IS NULL AND status = ?", entity.StatusActive).
		Order("number ASC").
		Find(&expedientes).Error
	if err != nil {
		return nil, err
	}
	return expedientes, nil
}

func (r *expedienteRepository) FindLatest(ctx context.Context, db *gorm.DB) (*entity.Expediente, error) {
	var expediente entity.Expediente
	err := db.WithContext(ctx).
		Select("id", "number").
		Order("id DESC").
		Limit(1).
		Take(&expediente).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expediente, nil
}

func (r *expedienteRepository) ExistsByNumber(ctx context.Context, db *gorm.DB, number string, excludeID int) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(&entity.Expediente{}).Where("number = ?", number)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *expedienteRepository) CountByPatient(ctx context.Context, db *gorm.DB, patientID int, status int) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Expediente{}).
		Where("patient_id = ? AND status = ?", patientID, status).
		Count(&count).Error
	return count, err
}

func (r *expedienteRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Expediente{}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		Updates(map[string]interface{}{
			"status":     entity.StatusInactive,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}

func (r *expedienteRepository) Stats(ctx context.Context, db *gorm.DB, since time.Time) (*entity.ExpedienteStats, error) {
	stats := &entity.ExpedienteStats{}
	active := db.WithContext(ctx).Model(&entity.Expediente{}).Where("status = ?", entity.StatusActive)

	if err := active.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).Where("created_at >= ?", since).Count(&stats.NewLast7Days).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).Where("patient_id IS NOT NULL").Count(&stats.WithPatient).Error; err != nil {
		return nil, err
	}
	stats.WithoutPatient = stats.Total - stats.WithPatient

	return stats, nil
}
