package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"clinic-management-api/internal/converter"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/infrastructure/database"
	"clinic-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ExpedienteUsecase interface {
	GetAllExpedientes(ctx context.Context, filter entity.ExpedienteFilter) (*dto.ExpedienteListResponse, error)
	GetExpediente(ctx context.Context, id int) (*dto.ExpedienteResponse, error)
	CreateExpediente(ctx context.Context, req *dto.ExpedienteRequest) (*dto.ExpedienteResponse, error)
	UpdateExpediente(ctx context.Context, id int, req *dto.ExpedienteRequest) (*dto.ExpedienteResponse, error)
	DeleteExpediente(ctx context.Context, id int) error
	GetStats(ctx context.Context) (*entity.ExpedienteStats, error)
	GetAvailable(ctx context.Context) ([]dto.ExpedienteSummary, error)
	GenerateNumber(ctx context.Context) (*dto.GeneratedNumberResponse, error)
}

type expedienteUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	transactor        database.Transactor
	expedienteRepo    repository.ExpedienteRepository
	patientRepo       repository.PatientRepository
	allocator         service.ExpedienteNumberAllocator
	guard             service.ReferentialGuard
	auditService      service.AuditService
	maxInsertAttempts int
	now               func() time.Time
}

func NewExpedienteUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor database.Transactor,
	expedienteRepo repository.ExpedienteRepository,
	patientRepo repository.PatientRepository,
	allocator service.ExpedienteNumberAllocator,
	guard service.ReferentialGuard,
	auditService service.AuditService,
	maxInsertAttempts int,
) ExpedienteUsecase {
	if maxInsertAttempts < 1 {
		maxInsertAttempts = 1
	}
	return &expedienteUsecase{
		db:                db,
		log:               log,
		transactor:        transactor,
		expedienteRepo:    expedienteRepo,
		patientRepo:       patientRepo,
		allocator:         allocator,
		guard:             guard,
		auditService:      auditService,
		maxInsertAttempts: maxInsertAttempts,
		now:               time.Now,
	}
}

func (u *expedienteUsecase) GetAllExpedientes(ctx context.Context, filter entity.ExpedienteFilter) (*dto.ExpedienteListResponse, error) {
	expedientes, total, err := u.expedienteRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find all expedientes: %+v", err)
		return nil, err
	}

	return &dto.ExpedienteListResponse{
		Expedientes: converter.ExpedientesToResponses(expedientes),
		Total:       total,
	}, nil
}

func (u *expedienteUsecase) GetExpediente(ctx context.Context, id int) (*dto.ExpedienteResponse, error) {
	expediente, err := u.expedienteRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find expediente: %+v", err)
		return nil, err
	}
	if expediente == nil {
		return nil, ErrExpedienteNotFound
	}

	return converter.ExpedienteToResponse(expediente), nil
}

// CreateExpediente allocates a number and inserts the expediente. The unique
// index on number has the final say: when a derived number loses a race the
// insert is retried with a fresh derivation, and the last attempt uses a
// timestamp number. A taken manual number is reported to the caller.
func (u *expedienteUsecase) CreateExpediente(ctx context.Context, req *dto.ExpedienteRequest) (*dto.ExpedienteResponse, error) {
	lmp, err := parseOptionalDate(derefString(req.LastMenstrualPeriod))
	if err != nil {
		return nil, err
	}

	alloc, err := u.allocator.Allocate(ctx, u.db, req.Number, req.AutoGenerate)
	if err != nil {
		return nil, err
	}

	actorID, actor := middleware.Actor(ctx)

	for attempt := 1; ; attempt++ {
		expediente := &entity.Expediente{
			Number:    alloc.Number,
			Status:    entity.StatusActive,
			CreatedBy: actor,
		}
		converter.ExpedienteFromRequest(req, lmp, expediente)

		err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
			return u.insertExpediente(ctx, tx, expediente, actorID)
		})
		if err == nil {
			resp := converter.ExpedienteToResponse(expediente)
			resp.NumberSource = string(alloc.Source)
			return resp, nil
		}

		if !isDuplicateKeyError(err, "number") {
			return nil, err
		}
		if !alloc.Generated() || attempt >= u.maxInsertAttempts {
			return nil, ErrDuplicateExpedienteNumber
		}

		u.log.WithFields(logrus.Fields{
			"number":  alloc.Number,
			"attempt": attempt,
		}).Info("Expediente number taken at insert, allocating again")

		if attempt+1 == u.maxInsertAttempts {
			alloc = u.allocator.Fallback(service.SourceCollisionFallback)
		} else {
			alloc = u.allocator.Generate(ctx, u.db)
		}
	}
}

func (u *expedienteUsecase) insertExpediente(ctx context.Context, tx *gorm.DB, expediente *entity.Expediente, actorID *uuid.UUID) error {
	if err := u.lockPatient(ctx, tx, expediente.PatientID); err != nil {
		return err
	}

	if err := u.expedienteRepo.Create(ctx, tx, expediente); err != nil {
		if !isDuplicateKeyError(err, "number") {
			u.log.Warnf("Failed to create expediente: %+v", err)
		}
		return err
	}

	return u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionExpedienteCreate, "expediente", strconv.Itoa(expediente.ID), converter.ExpedienteToResponse(expediente))
}

// lockPatient takes a shared lock on the linked patient so it cannot be
// deactivated until this transaction ends.
func (u *expedienteUsecase) lockPatient(ctx context.Context, tx *gorm.DB, patientID *int) error {
	if patientID == nil {
		return nil
	}
	patient, err := u.patientRepo.LockByID(ctx, tx, *patientID, repository.LockForShare)
	if err != nil {
		u.log.Warnf("Failed to lock patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	return nil
}

func (u *expedienteUsecase) UpdateExpediente(ctx context.Context, id int, req *dto.ExpedienteRequest) (*dto.ExpedienteResponse, error) {
	lmp, err := parseOptionalDate(derefString(req.LastMenstrualPeriod))
	if err != nil {
		return nil, err
	}

	actorID, actor := middleware.Actor(ctx)
	var expediente *entity.Expediente

	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		expediente, err = u.expedienteRepo.LockByID(ctx, tx, id, repository.LockForUpdate)
		if err != nil {
			u.log.Warnf("Failed to find expediente: %+v", err)
			return err
		}
		if expediente == nil {
			return ErrExpedienteNotFound
		}
		oldValue := converter.ExpedienteToResponse(expediente)
		oldPatientID := expediente.PatientID

		if number := strings.TrimSpace(req.Number); number != "" && number != expediente.Number {
			exists, err := u.expedienteRepo.ExistsByNumber(ctx, tx, number, id)
			if err != nil {
				u.log.Warnf("Failed to check expediente number: %+v", err)
				return err
			}
			if exists {
				return ErrDuplicateExpedienteNumber
			}
			expediente.Number = number
		}

		converter.ExpedienteFromRequest(req, lmp, expediente)
		expediente.UpdatedBy = actor

		if !sameIntPtr(oldPatientID, expediente.PatientID) {
			if err := u.lockPatient(ctx, tx, expediente.PatientID); err != nil {
				return err
			}
		}

		if err := u.expedienteRepo.Update(ctx, tx, expediente); err != nil {
			if isDuplicateKeyError(err, "number") {
				return ErrDuplicateExpedienteNumber
			}
			u.log.Warnf("Failed to update expediente: %+v", err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionExpedienteUpdate, "expediente", strconv.Itoa(id), oldValue, converter.ExpedienteToResponse(expediente))
	})
	if err != nil {
		return nil, err
	}

	return converter.ExpedienteToResponse(expediente), nil
}

// DeleteExpediente soft-deletes under a row lock after the guard confirms no
// active referral points at the expediente.
func (u *expedienteUsecase) DeleteExpediente(ctx context.Context, id int) error {
	actorID, actor := middleware.Actor(ctx)

	return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		expediente, err := u.expedienteRepo.LockByID(ctx, tx, id, repository.LockForUpdate)
		if err != nil {
			u.log.Warnf("Failed to lock expediente: %+v", err)
			return err
		}
		if expediente == nil {
			return ErrExpedienteNotFound
		}

		check, err := u.guard.CheckExpediente(ctx, tx, id)
		if err != nil {
			return err
		}
		if !check.Allowed {
			return &DeletionBlockedError{Check: check}
		}

		rows, err := u.expedienteRepo.Deactivate(ctx, tx, id, actor)
		if err != nil {
			u.log.Warnf("Failed to deactivate expediente: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrExpedienteNotFound
		}

		return u.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionExpedienteDelete, "expediente", strconv.Itoa(id), converter.ExpedienteToResponse(expediente))
	})
}

func (u *expedienteUsecase) GetStats(ctx context.Context) (*entity.ExpedienteStats, error) {
	stats, err := u.expedienteRepo.Stats(ctx, u.db, u.now().Add(-statsWindow))
	if err != nil {
		u.log.Warnf("Failed to get expediente stats: %+v", err)
		return nil, err
	}
	return stats, nil
}

func (u *expedienteUsecase) GetAvailable(ctx context.Context) ([]dto.ExpedienteSummary, error) {
	expedientes, err := u.expedienteRepo.FindAvailable(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find available expedientes: %+v", err)
		return nil, err
	}
	return converter.ExpedientesToSummaries(expedientes), nil
}

// GenerateNumber previews the next number. It is not reserved.
func (u *expedienteUsecase) GenerateNumber(ctx context.Context) (*dto.GeneratedNumberResponse, error) {
	alloc := u.allocator.Generate(ctx, u.db)
	return &dto.GeneratedNumberResponse{
		Number: alloc.Number,
		Source: string(alloc.Source),
	}, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
