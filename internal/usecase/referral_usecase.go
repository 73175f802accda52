package usecase

import (
	"context"
	"errors"
	"strconv"

	"clinic-management-api/internal/converter"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/infrastructure/database"
	"clinic-management-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrReferralNotFound       = errors.New("referral not found")
	ErrClinicNotFound         = errors.New("clinic not found")
	ErrTargetUserNotFound     = errors.New("target user not found or inactive")
	ErrExpedienteHasNoPatient = errors.New("expediente has no linked patient")
	ErrReferralNotPending     = errors.New("referral is already completed or cancelled")
)

type ReferralUsecase interface {
	GetClinics(ctx context.Context) ([]dto.ClinicResponse, error)
	GetByExpediente(ctx context.Context, expedienteID int) ([]dto.ReferralResponse, error)
	GetReferral(ctx context.Context, id int) (*dto.ReferralResponse, error)
	CreateReferral(ctx context.Context, req *dto.ReferralRequest) (*dto.ReferralResponse, error)
	CompleteReferral(ctx context.Context, id int) error
	CancelReferral(ctx context.Context, id int) error
}

type referralUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	transactor     database.Transactor
	referralRepo   repository.ReferralRepository
	clinicRepo     repository.ClinicRepository
	expedienteRepo repository.ExpedienteRepository
	userRepo       repository.UserRepository
	auditService   service.AuditService
}

func NewReferralUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor database.Transactor,
	referralRepo repository.ReferralRepository,
	clinicRepo repository.ClinicRepository,
	expedienteRepo repository.ExpedienteRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) ReferralUsecase {
	return &referralUsecase{
		db:             db,
		log:            log,
		transactor:     transactor,
		referralRepo:   referralRepo,
		clinicRepo:     clinicRepo,
		expedienteRepo: expedienteRepo,
		userRepo:       userRepo,
		auditService:   auditService,
	}
}

func (u *referralUsecase) GetClinics(ctx context.Context) ([]dto.ClinicResponse, error) {
	clinics, err := u.clinicRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find clinics: %+v", err)
		return nil, err
	}
	return converter.ClinicsToResponses(clinics), nil
}

func (u *referralUsecase) GetByExpediente(ctx context.Context, expedienteID int) ([]dto.ReferralResponse, error) {
	expediente, err := u.expedienteRepo.FindByID(ctx, u.db, expedienteID)
	if err != nil {
		u.log.Warnf("Failed to find expediente: %+v", err)
		return nil, err
	}
	if expediente == nil {
		return nil, ErrExpedienteNotFound
	}

	referrals, err := u.referralRepo.FindByExpediente(ctx, u.db, expedienteID)
	if err != nil {
		u.log.Warnf("Failed to find referrals: %+v", err)
		return nil, err
	}
	return converter.ReferralsToResponses(referrals), nil
}

func (u *referralUsecase) GetReferral(ctx context.Context, id int) (*dto.ReferralResponse, error) {
	referral, err := u.referralRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find referral: %+v", err)
		return nil, err
	}
	if referral == nil {
		return nil, ErrReferralNotFound
	}
	return converter.ReferralToResponse(referral), nil
}

func (u *referralUsecase) CreateReferral(ctx context.Context, req *dto.ReferralRequest) (*dto.ReferralResponse, error) {
	actorID, actor := middleware.Actor(ctx)
	if actorID == nil {
		return nil, ErrUserNotFound
	}

	referral := &entity.Referral{
		ExpedienteID: req.ExpedienteID,
		ClinicID:     req.ClinicID,
		UserID:       *actorID,
		TargetUserID: req.TargetUserID,
		Comment:      req.Comment,
		Status:       entity.StatusActive,
		CreatedBy:    actor,
	}

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		// FOR SHARE keeps the expediente active until the referral is committed.
		expediente, err := u.expedienteRepo.LockByID(ctx, tx, req.ExpedienteID, repository.LockForShare)
		if err != nil {
			u.log.Warnf("Failed to lock expediente: %+v", err)
			return err
		}
		if expediente == nil {
			return ErrExpedienteNotFound
		}
		if expediente.PatientID == nil {
			return ErrExpedienteHasNoPatient
		}
		referral.PatientID = *expediente.PatientID

		clinic, err := u.clinicRepo.FindByID(ctx, tx, req.ClinicID)
		if err != nil {
			u.log.Warnf("Failed to find clinic: %+v", err)
			return err
		}
		if clinic == nil {
			return ErrClinicNotFound
		}
		referral.Clinic = clinic

		if req.TargetUserID != nil {
			target, err := u.userRepo.FindByID(ctx, tx, *req.TargetUserID)
			if err != nil {
				u.log.Warnf("Failed to find target user: %+v", err)
				return err
			}
			if target == nil || !target.Active() {
				return ErrTargetUserNotFound
			}
			referral.TargetUser = target
		}

		if err := u.referralRepo.Create(ctx, tx, referral); err != nil {
			u.log.Warnf("Failed to create referral: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionReferralCreate, "referral", strconv.Itoa(referral.ID), converter.ReferralToResponse(referral))
	})
	if err != nil {
		return nil, err
	}

	return converter.ReferralToResponse(referral), nil
}

// CompleteReferral marks a pending referral as attended.
func (u *referralUsecase) CompleteReferral(ctx context.Context, id int) error {
	actorID, actor := middleware.Actor(ctx)

	return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.referralRepo.Complete(ctx, tx, id, actor)
		if err != nil {
			u.log.Warnf("Failed to complete referral: %+v", err)
			return err
		}
		if rows == 0 {
			return u.missingOrSettled(ctx, tx, id)
		}

		return u.auditService.LogEvent(ctx, tx, actorID, entity.AuditActionReferralComplete, map[string]interface{}{
			"entity":    "referral",
			"entity_id": strconv.Itoa(id),
		})
	})
}

func (u *referralUsecase) CancelReferral(ctx context.Context, id int) error {
	actorID, actor := middleware.Actor(ctx)

	return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		referral, err := u.referralRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find referral: %+v", err)
			return err
		}
		if referral == nil {
			return ErrReferralNotFound
		}

		rows, err := u.referralRepo.Deactivate(ctx, tx, id, actor)
		if err != nil {
			u.log.Warnf("Failed to cancel referral: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrReferralNotFound
		}

		return u.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionReferralCancel, "referral", strconv.Itoa(id), converter.ReferralToResponse(referral))
	})
}

func (u *referralUsecase) missingOrSettled(ctx context.Context, tx *gorm.DB, id int) error {
	referral, err := u.referralRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find referral: %+v", err)
		return err
	}
	if referral == nil {
		return ErrReferralNotFound
	}
	return ErrReferralNotPending
}
