package usecase

import (
	"context"
	"errors"
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
	"clinic-management-api/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCUIAlreadyExists = errors.New("a patient with this CUI already exists")
	ErrInvalidAgeRange  = errors.New("age_min cannot be greater than age_max")
	ErrInvalidGender    = errors.New("gender must be M or F")
)

// statsWindow is how far back "new" patients and expedientes are counted.
const statsWindow = 7 * 24 * time.Hour

type PatientUsecase interface {
	GetAllPatients(ctx context.Context, filter entity.PatientFilter) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, id int) (*dto.PatientResponse, error)
	CreatePatient(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, id int, req *dto.PatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, id int) error
	GetStats(ctx context.Context) (*entity.PatientStats, error)
	GetAvailable(ctx context.Context) ([]dto.PatientOption, error)
	GetByGender(ctx context.Context, gender string) ([]dto.PatientResponse, error)
	GetByAge(ctx context.Context, ageMin, ageMax *int) ([]dto.PatientResponse, error)
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	transactor   database.Transactor
	patientRepo  repository.PatientRepository
	guard        service.ReferentialGuard
	auditService service.AuditService
	now          func() time.Time
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor database.Transactor,
	patientRepo repository.PatientRepository,
	guard service.ReferentialGuard,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		transactor:   transactor,
		patientRepo:  patientRepo,
		guard:        guard,
		auditService: auditService,
		now:          time.Now,
	}
}

func (u *patientUsecase) GetAllPatients(ctx context.Context, filter entity.PatientFilter) (*dto.PatientListResponse, error) {
	patients, total, err := u.patientRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find all patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients, u.now()),
		Total:    total,
	}, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id int) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient, u.now()), nil
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	actorID, actor := middleware.Actor(ctx)
	patient := &entity.Patient{Status: entity.StatusActive, CreatedBy: actor}
	converter.PatientFromRequest(normalizePatientRequest(req), birthDate, patient)

	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		exists, err := u.patientRepo.ExistsByCUI(ctx, tx, patient.CUI, 0)
		if err != nil {
			u.log.Warnf("Failed to check patient CUI: %+v", err)
			return err
		}
		if exists {
			return ErrCUIAlreadyExists
		}

		if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
			if isDuplicateKeyError(err, "cui") {
				return ErrCUIAlreadyExists
			}
			u.log.Warnf("Failed to create patient: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionPatientCreate, "patient", strconv.Itoa(patient.ID), converter.PatientToResponse(patient, u.now()))
	})
	if err != nil {
		return nil, err
	}

	return converter.PatientToResponse(patient, u.now()), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, id int, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	actorID, actor := middleware.Actor(ctx)
	var patient *entity.Patient

	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err = u.patientRepo.LockByID(ctx, tx, id, repository.LockForUpdate)
		if err != nil {
			u.log.Warnf("Failed to find patient: %+v", err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		oldValue := converter.PatientToResponse(patient, u.now())

		converter.PatientFromRequest(normalizePatientRequest(req), birthDate, patient)
		patient.UpdatedBy = actor

		exists, err := u.patientRepo.ExistsByCUI(ctx, tx, patient.CUI, id)
		if err != nil {
			u.log.Warnf("Failed to check patient CUI: %+v", err)
			return err
		}
		if exists {
			return ErrCUIAlreadyExists
		}

		if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
			if isDuplicateKeyError(err, "cui") {
				return ErrCUIAlreadyExists
			}
			u.log.Warnf("Failed to update patient: %+v", err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionPatientUpdate, "patient", strconv.Itoa(id), oldValue, converter.PatientToResponse(patient, u.now()))
	})
	if err != nil {
		return nil, err
	}

	return converter.PatientToResponse(patient, u.now()), nil
}

// DeletePatient soft-deletes the patient. The row lock is held while the
// dependents are counted, so a new session or expediente cannot be attached
// between the check and the status flip.
func (u *patientUsecase) DeletePatient(ctx context.Context, id int) error {
	actorID, actor := middleware.Actor(ctx)

	return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.LockByID(ctx, tx, id, repository.LockForUpdate)
		if err != nil {
			u.log.Warnf("Failed to lock patient: %+v", err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}

		check, err := u.guard.CheckPatient(ctx, tx, id)
		if err != nil {
			return err
		}
		if !check.Allowed {
			return &DeletionBlockedError{Check: check}
		}

		rows, err := u.patientRepo.Deactivate(ctx, tx, id, actor)
		if err != nil {
			u.log.Warnf("Failed to deactivate patient: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrPatientNotFound
		}

		return u.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionPatientDelete, "patient", strconv.Itoa(id), converter.PatientToResponse(patient, u.now()))
	})
}

func (u *patientUsecase) GetStats(ctx context.Context) (*entity.PatientStats, error) {
	stats, err := u.patientRepo.Stats(ctx, u.db, u.now().Add(-statsWindow))
	if err != nil {
		u.log.Warnf("Failed to get patient stats: %+v", err)
		return nil, err
	}
	return stats, nil
}

func (u *patientUsecase) GetAvailable(ctx context.Context) ([]dto.PatientOption, error) {
	patients, err := u.patientRepo.FindAvailable(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find available patients: %+v", err)
		return nil, err
	}
	return converter.PatientsToOptions(patients), nil
}

func (u *patientUsecase) GetByGender(ctx context.Context, gender string) ([]dto.PatientResponse, error) {
	gender = strings.ToUpper(strings.TrimSpace(gender))
	if gender != "M" && gender != "F" {
		return nil, ErrInvalidGender
	}

	patients, err := u.patientRepo.FindByGender(ctx, u.db, gender)
	if err != nil {
		u.log.Warnf("Failed to find patients by gender: %+v", err)
		return nil, err
	}
	return converter.PatientsToResponses(patients, u.now()), nil
}

// GetByAge returns patients whose age in completed years lies in
// [ageMin, ageMax]. Either bound may be omitted.
func (u *patientUsecase) GetByAge(ctx context.Context, ageMin, ageMax *int) ([]dto.PatientResponse, error) {
	if ageMin != nil && ageMax != nil && *ageMin > *ageMax {
		return nil, ErrInvalidAgeRange
	}

	bornBefore, bornAfter := birthDateBounds(u.now(), ageMin, ageMax)
	patients, err := u.patientRepo.FindByBirthDate(ctx, u.db, bornBefore, bornAfter)
	if err != nil {
		u.log.Warnf("Failed to find patients by age: %+v", err)
		return nil, err
	}
	return converter.PatientsToResponses(patients, u.now()), nil
}

// birthDateBounds converts an age range into birth_date <= bornBefore and
// birth_date > bornAfter.
func birthDateBounds(now time.Time, ageMin, ageMax *int) (bornBefore, bornAfter *time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if ageMin != nil {
		t := today.AddDate(-*ageMin, 0, 0)
		bornBefore = &t
	}
	if ageMax != nil {
		t := today.AddDate(-(*ageMax + 1), 0, 0)
		bornAfter = &t
	}
	return bornBefore, bornAfter
}

func normalizePatientRequest(req *dto.PatientRequest) *dto.PatientRequest {
	out := *req
	out.FirstNames = strings.TrimSpace(req.FirstNames)
	out.LastNames = strings.TrimSpace(req.LastNames)
	out.CUI = strings.TrimSpace(req.CUI)
	out.Gender = strings.ToUpper(req.Gender)
	out.PersonalPhone = validator.NormalizePhone(req.PersonalPhone)
	out.EmergencyPhone = validator.NormalizePhone(req.EmergencyPhone)
	out.GuardianPhone = validator.NormalizePhone(req.GuardianPhone)
	return &out
}
