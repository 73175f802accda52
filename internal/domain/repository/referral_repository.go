package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ClinicRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Clinic, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Clinic, error)
}

type ReferralRepository interface {
	Create(ctx context.Context, db *gorm.DB, referral *entity.Referral) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Referral, error)
	FindByExpediente(ctx context.Context, db *gorm.DB, expedienteID int) ([]entity.Referral, error)
	CountActiveByExpediente(ctx context.Context, db *gorm.DB, expedienteID int) (int64, error)
	// Complete marks an active, not yet completed referral as completed.
	Complete(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
	Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
}
