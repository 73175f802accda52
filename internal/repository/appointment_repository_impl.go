package repository

import (
	"context"
	"errors"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Patient").
		Where("id = ? AND status = ?", id, entity.StatusActive).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// Find lists active appointments ordered by date and time. From and To are
// inclusive day bounds.
func (r *appointmentRepository) Find(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment

	query := db.WithContext(ctx).
		Preload("User").
		Preload("Patient").
		Where("status = ?", entity.StatusActive)

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		query = query.Where("date <= ?", filter.To.Format("2006-01-02"))
	}
	if filter.Transport != nil {
		query = query.Where("transport = ?", *filter.Transport)
	}

	if err := query.Order("date ASC, time ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		Updates(map[string]interface{}{
			"status":     entity.StatusInactive,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}
