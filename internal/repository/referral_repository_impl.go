package repository

import (
	"context"
	"errors"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type clinicRepository struct{}

func NewClinicRepository() domainRepo.ClinicRepository {
	return &clinicRepository{}
}

func (r *clinicRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	err := db.WithContext(ctx).
		Where("status = ?", entity.StatusActive).
		Order("name ASC").
		Find(&clinics).Error
	if err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *clinicRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := db.WithContext(ctx).Where("id = ? AND status = ?", id, entity.StatusActive).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

type referralRepository struct{}

func NewReferralRepository() domainRepo.ReferralRepository {
	return &referralRepository{}
}

func (r *referralRepository) Create(ctx context.Context, db *gorm.DB, referral *entity.Referral) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(referral).Error
}

func (r *referralRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Referral, error) {
	var referral entity.Referral
	err := db.WithContext(ctx).
		Preload("Clinic").
		Preload("User").
		Preload("TargetUser").
		Where("id = ? AND status = ?", id, entity.StatusActive).
		First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) FindByExpediente(ctx context.Context, db *gorm.DB, expedienteID int) ([]entity.Referral, error) {
	var referrals []entity.Referral
	err := db.WithContext(ctx).
		Preload("Clinic").
		Preload("User").
		Preload("TargetUser").
		Where("expediente_id = ? AND status = ?", expedienteID, entity.StatusActive).
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

func (r *referralRepository) CountActiveByExpediente(ctx context.Context, db *gorm.DB, expedienteID int) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Referral{}).
		Where("expediente_id = ? AND status = ?", expedienteID, entity.StatusActive).
		Count(&count).Error
	return count, err
}

func (r *referralRepository) Complete(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Referral{}).
		Where("id = ? AND status = ? AND completed = ?", id, entity.StatusActive, false).
		Updates(map[string]interface{}{
			"completed":  true,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}

func (r *referralRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Referral{}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		Updates(map[string]interface{}{
			"status":     entity.StatusInactive,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}
