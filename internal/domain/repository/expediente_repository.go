package repository

import (
	"context"
	"time"

	"clinic-management-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ExpedienteRepository interface {
	Create(ctx context.Context, db *gorm.DB, expediente *entity.Expediente) error
	Update(ctx context.Context, db *gorm.DB, expediente *entity.Expediente) error
	// FindByID returns the active expediente with that id, or nil.
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Expediente, error)
	LockByID(ctx context.Context, db *gorm.DB, id int, strength string) (*entity.Expediente, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.ExpedienteFilter) ([]entity.Expediente, int64, error)
	FindAvailable(ctx context.Context, db *gorm.DB) ([]entity.Expediente, error)
	// FindLatest returns the most recently inserted expediente of any status.
	FindLatest(ctx context.Context, db *gorm.DB) (*entity.Expediente, error)
	// ExistsByNumber checks every expediente regardless of status, ignoring excludeID.
	ExistsByNumber(ctx context.Context, db *gorm.DB, number string, excludeID int) (bool, error)
	CountByPatient(ctx context.Context, db *gorm.DB, patientID int, status int) (int64, error)
	Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
	Stats(ctx context.Context, db *gorm.DB, since time.Time) (*entity.ExpedienteStats, error)
}
