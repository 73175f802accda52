package repository

import (
	"context"
	"time"

	"clinic-management-api/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	// FindByID returns the active patient with that id, or nil.
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Patient, error)
	// LockByID is FindByID taking a row lock of the given strength.
	LockByID(ctx context.Context, db *gorm.DB, id int, strength string) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.Patient, int64, error)
	FindAvailable(ctx context.Context, db *gorm.DB) ([]entity.Patient, error)
	FindByGender(ctx context.Context, db *gorm.DB, gender string) ([]entity.Patient, error)
	FindByBirthDate(ctx context.Context, db *gorm.DB, bornBefore, bornAfter *time.Time) ([]entity.Patient, error)
	// ExistsByCUI checks every patient regardless of status, ignoring excludeID.
	ExistsByCUI(ctx context.Context, db *gorm.DB, cui string, excludeID int) (bool, error)
	UpdatePhoto(ctx context.Context, db *gorm.DB, id int, key *string) error
	Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
	Stats(ctx context.Context, db *gorm.DB, since time.Time) (*entity.PatientStats, error)
}

// Row lock strengths accepted by LockByID.
const (
	LockForUpdate = clause.LockingStrengthUpdate
	LockForShare  = clause.LockingStrengthShare
)
