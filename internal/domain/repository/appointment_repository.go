package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Appointment, error)
	Find(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
}
