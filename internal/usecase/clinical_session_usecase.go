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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound   = errors.New("clinical session not found")
	ErrAttendingNotFound = errors.New("attending user not found or inactive")
)

type ClinicalSessionUsecase interface {
	GetHistory(ctx context.Context, patientID int) (*dto.ClinicalHistoryResponse, error)
	GetSession(ctx context.Context, id int) (*dto.ClinicalSessionResponse, error)
	CreateSession(ctx context.Context, req *dto.ClinicalSessionRequest) (*dto.ClinicalSessionResponse, error)
	UpdateSession(ctx context.Context, id int, req *dto.ClinicalSessionRequest) (*dto.ClinicalSessionResponse, error)
	DeleteSession(ctx context.Context, id int) error
}

type clinicalSessionUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	transactor   database.Transactor
	sessionRepo  repository.ClinicalSessionRepository
	patientRepo  repository.PatientRepository
	userRepo     repository.UserRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewClinicalSessionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor database.Transactor,
	sessionRepo repository.ClinicalSessionRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) ClinicalSessionUsecase {
	return &clinicalSessionUsecase{
		db:           db,
		log:          log,
		transactor:   transactor,
		sessionRepo:  sessionRepo,
		patientRepo:  patientRepo,
		userRepo:     userRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

func (u *clinicalSessionUsecase) GetHistory(ctx context.Context, patientID int) (*dto.ClinicalHistoryResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	sessions, err := u.sessionRepo.FindByPatient(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find clinical sessions: %+v", err)
		return nil, err
	}

	history := &dto.ClinicalHistoryResponse{
		Patient:  *converter.PatientToResponse(patient, u.now()),
		Sessions: converter.ClinicalSessionsToResponses(sessions),
		Total:    len(sessions),
	}
	// sessions are ordered newest first
	if len(sessions) > 0 {
		last := sessions[0].SessionDate
		history.LastSession = &last
	}
	return history, nil
}

func (u *clinicalSessionUsecase) GetSession(ctx context.Context, id int) (*dto.ClinicalSessionResponse, error) {
	session, err := u.sessionRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find clinical session: %+v", err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return converter.ClinicalSessionToResponse(session), nil
}

func (u *clinicalSessionUsecase) CreateSession(ctx context.Context, req *dto.ClinicalSessionRequest) (*dto.ClinicalSessionResponse, error) {
	sessionDate, err := u.parseSessionDate(req.SessionDate)
	if err != nil {
		return nil, err
	}

	actorID, actor := middleware.Actor(ctx)
	attendingID := req.UserID
	if attendingID == nil {
		attendingID = actorID
	}
	if attendingID == nil {
		return nil, ErrAttendingNotFound
	}

	session := &entity.ClinicalSession{
		PatientID:          req.PatientID,
		UserID:             *attendingID,
		SessionDate:        sessionDate,
		Reminder:           req.Reminder,
		ConsultationNote:   req.ConsultationNote,
		ChiefComplaint:     req.ChiefComplaint,
		Evolution:          req.Evolution,
		DiagnosisTreatment: req.DiagnosisTreatment,
		Status:             entity.StatusActive,
		CreatedBy:          actor,
	}

	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		// FOR SHARE keeps the patient active until this session is committed.
		patient, err := u.patientRepo.LockByID(ctx, tx, req.PatientID, repository.LockForShare)
		if err != nil {
			u.log.Warnf("Failed to lock patient: %+v", err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}

		attending, err := u.findAttending(ctx, tx, *attendingID)
		if err != nil {
			return err
		}
		session.User = attending

		if err := u.sessionRepo.Create(ctx, tx, session); err != nil {
			u.log.Warnf("Failed to create clinical session: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionSessionCreate, "clinical_session", strconv.Itoa(session.ID), converter.ClinicalSessionToResponse(session))
	})
	if err != nil {
		return nil, err
	}

	return converter.ClinicalSessionToResponse(session), nil
}

func (u *clinicalSessionUsecase) UpdateSession(ctx context.Context, id int, req *dto.ClinicalSessionRequest) (*dto.ClinicalSessionResponse, error) {
	actorID, actor := middleware.Actor(ctx)
	var session *entity.ClinicalSession

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		session, err = u.sessionRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find clinical session: %+v", err)
			return err
		}
		if session == nil {
			return ErrSessionNotFound
		}
		if req.PatientID != 0 && req.PatientID != session.PatientID {
			return ErrSessionNotFound
		}
		oldValue := converter.ClinicalSessionToResponse(session)

		if strings.TrimSpace(req.SessionDate) != "" {
			if session.SessionDate, err = u.parseSessionDate(req.SessionDate); err != nil {
				return err
			}
		}
		if req.UserID != nil && *req.UserID != session.UserID {
			attending, err := u.findAttending(ctx, tx, *req.UserID)
			if err != nil {
				return err
			}
			session.UserID = attending.ID
			session.User = attending
		}
		session.Reminder = req.Reminder
		session.ConsultationNote = req.ConsultationNote
		session.ChiefComplaint = req.ChiefComplaint
		session.Evolution = req.Evolution
		session.DiagnosisTreatment = req.DiagnosisTreatment
		session.UpdatedBy = actor

		if err := u.sessionRepo.Update(ctx, tx, session); err != nil {
			u.log.Warnf("Failed to update clinical session: %+v", err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionSessionUpdate, "clinical_session", strconv.Itoa(id), oldValue, converter.ClinicalSessionToResponse(session))
	})
	if err != nil {
		return nil, err
	}

	return converter.ClinicalSessionToResponse(session), nil
}

func (u *clinicalSessionUsecase) DeleteSession(ctx context.Context, id int) error {
	actorID, actor := middleware.Actor(ctx)

	return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		session, err := u.sessionRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find clinical session: %+v", err)
			return err
		}
		if session == nil {
			return ErrSessionNotFound
		}

		rows, err := u.sessionRepo.Deactivate(ctx, tx, id, actor)
		if err != nil {
			u.log.Warnf("Failed to deactivate clinical session: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrSessionNotFound
		}

		return u.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionSessionDelete, "clinical_session", strconv.Itoa(id), converter.ClinicalSessionToResponse(session))
	})
}

func (u *clinicalSessionUsecase) findAttending(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find attending user: %+v", err)
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, ErrAttendingNotFound
	}
	return user, nil
}

// parseSessionDate keeps the time of day when an RFC3339 value is given and
// defaults to now when empty.
func (u *clinicalSessionUsecase) parseSessionDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return u.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return parseDate(s)
}
