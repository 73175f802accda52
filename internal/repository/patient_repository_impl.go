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

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(patient).Error
}

func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).
		Preload("Expedientes", "status = ?", entity.StatusActive).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) LockByID(ctx context.Context, db *gorm.DB, id int, strength string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	query := db.WithContext(ctx).Model(&entity.Patient{}).Where("status = ?", entity.StatusActive)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_names ILIKE ? OR last_names ILIKE ? OR cui LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Expedientes", "status = ?", entity.StatusActive).
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}

// FindAvailable lists active patients for selection lists, sorted by name.
func (r *patientRepository) FindAvailable(ctx context.Context, db *gorm.DB) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).
		Select("id", "first_names", "last_names", "cui").
		Where("status = ?", entity.StatusActive).
		Order("last_names ASC, first_names ASC").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) FindByGender(ctx context.Context, db *gorm.DB, gender string) ([]entity.Patient, error) {
	var patients []entity.Patient
	query := db.WithContext(ctx).Where("status = ?", entity.StatusActive)
	if gender != "" {
		query = query.Where("gender = ?", gender)
	}
	err := query.Order("last_names ASC, first_names ASC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// FindByBirthDate filters active patients born on or before bornBefore
// and/or strictly after bornAfter.
func (r *patientRepository) FindByBirthDate(ctx context.Context, db *gorm.DB, bornBefore, bornAfter *time.Time) ([]entity.Patient, error) {
	var patients []entity.Patient
	query := db.WithContext(ctx).Where("status = ?", entity.StatusActive)
	if bornBefore != nil {
		query = query.Where("birth_date <= ?", *bornBefore)
	}
	if bornAfter != nil {
		query = query.Where("birth_date > ?", *bornAfter)
	}
	err := query.Order("birth_date ASC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) ExistsByCUI(ctx context.Context, db *gorm.DB, cui string, excludeID int) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(&entity.Patient{}).Where("cui = ?", cui)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *patientRepository) UpdatePhoto(ctx context.Context, db *gorm.DB, id int, key *string) error {
	return db.WithContext(ctx).Model(&entity.Patient{}).
		Where("id = ?", id).
		Update("photo_key", key).Error
}

// Deactivate flips an active patient to inactive. 0 rows affected means the
// patient is missing or already inactive.
func (r *patientRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Patient{}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		Updates(map[string]interface{}{
			"status":     entity.StatusInactive,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}

func (r *patientRepository) Stats(ctx context.Context, db *gorm.DB, since time.Time) (*entity.PatientStats, error) {
	stats := &entity.PatientStats{}
	active := db.WithContext(ctx).Model(&entity.Patient{}).Where("status = ?", entity.StatusActive)

	if err := active.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	err := active.Session(&gorm.Session{}).
		Select("gender, COUNT(*) AS total").
		Group("gender").
		Order("gender").
		Scan(&stats.ByGender).Error
	if err != nil {
		return nil, err
	}

	if err := active.Session(&gorm.Session{}).Where("created_at >= ?", since).Count(&stats.NewLast7Days).Error; err != nil {
		return nil, err
	}

	err = active.Session(&gorm.Session{}).
		Where("EXISTS (SELECT 1 FROM expedientes e WHERE e.patient_id = patients.id AND e.status = ?)", entity.StatusActive).
		Count(&stats.WithExpedientes).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
