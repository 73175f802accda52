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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrTherapistNotFound   = errors.New("therapist not found or inactive")
	ErrInvalidTherapist    = errors.New("therapist must be a user id or T for all")
	ErrInvalidMonth        = errors.New("month must be between 1 and 12")
	ErrInvalidYear         = errors.New("year must be 2000 or later")
	ErrTransportIncomplete = errors.New("transport requires transport_date and transport_time")
)

// AllTherapists selects every therapist in GetByTherapistAndDay.
const AllTherapists = "T"

type AppointmentUsecase interface {
	GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetWithTransport(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, id int) (*dto.AppointmentResponse, error)
	GetByTherapistAndDay(ctx context.Context, therapist, date string) (*dto.AppointmentListResponse, error)
	GetByPatientAndMonth(ctx context.Context, patientID, month, year int) (*dto.AppointmentListResponse, error)
	CreateAppointment(ctx context.Context, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, id int, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id int) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	transactor      database.Transactor
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor database.Transactor,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		transactor:      transactor,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		userRepo:        userRepo,
		auditService:    auditService,
	}
}

func (u *appointmentUsecase) find(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.Find(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return u.find(ctx, entity.AppointmentFilter{})
}

func (u *appointmentUsecase) GetWithTransport(ctx context.Context) (*dto.AppointmentListResponse, error) {
	transport := true
	return u.find(ctx, entity.AppointmentFilter{Transport: &transport})
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id int) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

// GetByTherapistAndDay lists one day of the agenda. therapist is a user id,
// or empty or T for every therapist.
func (u *appointmentUsecase) GetByTherapistAndDay(ctx context.Context, therapist, date string) (*dto.AppointmentListResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	filter := entity.AppointmentFilter{From: &day, To: &day}
	therapist = strings.TrimSpace(therapist)
	if therapist != "" && !strings.EqualFold(therapist, AllTherapists) {
		userID, err := uuid.Parse(therapist)
		if err != nil {
			return nil, ErrInvalidTherapist
		}
		filter.UserID = &userID
	}
	return u.find(ctx, filter)
}

func (u *appointmentUsecase) GetByPatientAndMonth(ctx context.Context, patientID, month, year int) (*dto.AppointmentListResponse, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if year < 2000 {
		return nil, ErrInvalidYear
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return u.find(ctx, entity.AppointmentFilter{PatientID: &patientID, From: &from, To: &to})
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error) {
	actorID, actor := middleware.Actor(ctx)
	appointment := &entity.Appointment{Status: entity.StatusActive, CreatedBy: actor}
	if err := applyAppointmentRequest(req, actorID, appointment); err != nil {
		return nil, err
	}

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		if err := u.loadParties(ctx, tx, appointment); err != nil {
			return err
		}

		if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionAppointmentCreate, "appointment", strconv.Itoa(appointment.ID), converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id int, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error) {
	actorID, actor := middleware.Actor(ctx)
	var appointment *entity.Appointment

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.appointmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		oldValue := converter.AppointmentToResponse(appointment)

		attending := &appointment.UserID
		if err := applyAppointmentRequest(req, attending, appointment); err != nil {
			return err
		}
		appointment.UpdatedBy = actor

		if err := u.loadParties(ctx, tx, appointment); err != nil {
			return err
		}

		if err := u.appointmentRepo.Update(ctx, tx, appointment); err != nil {
			u.log.Warnf("Failed to update appointment: %+v", err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionAppointmentUpdate, "appointment", strconv.Itoa(id), oldValue, converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id int) error {
	actorID, actor := middleware.Actor(ctx)

	return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		appointment, err := u.appointmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}

		rows, err := u.appointmentRepo.Deactivate(ctx, tx, id, actor)
		if err != nil {
			u.log.Warnf("Failed to cancel appointment: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrAppointmentNotFound
		}

		return u.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionAppointmentCancel, "appointment", strconv.Itoa(id), converter.AppointmentToResponse(appointment))
	})
}

// loadParties checks that the patient is active and the therapist is an
// active user, attaching both for the response.
func (u *appointmentUsecase) loadParties(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error {
	patient, err := u.patientRepo.FindByID(ctx, tx, appointment.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	user, err := u.userRepo.FindByID(ctx, tx, appointment.UserID)
	if err != nil {
		u.log.Warnf("Failed to find therapist: %+v", err)
		return err
	}
	if user == nil || !user.Active() {
		return ErrTherapistNotFound
	}

	appointment.Patient = patient
	appointment.User = user
	return nil
}

// applyAppointmentRequest copies the request onto a. defaultUser is used when
// the request names no therapist.
func applyAppointmentRequest(req *dto.AppointmentRequest, defaultUser *uuid.UUID, a *entity.Appointment) error {
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}
	clock, err := parseClock(req.Time)
	if err != nil {
		return err
	}

	switch {
	case req.UserID != nil:
		a.UserID = *req.UserID
	case defaultUser != nil:
		a.UserID = *defaultUser
	default:
		return ErrTherapistNotFound
	}

	a.PatientID = req.PatientID
	a.Date = datatypes.Date(date)
	a.Time = clock
	a.Comment = strings.TrimSpace(req.Comment)
	a.Address = strings.TrimSpace(req.Address)
	a.Transport = req.Transport
	a.TransportDate = nil
	a.TransportTime = nil

	if req.Transport {
		if strings.TrimSpace(req.TransportDate) == "" || strings.TrimSpace(req.TransportTime) == "" {
			return ErrTransportIncomplete
		}
		td, err := parseDate(req.TransportDate)
		if err != nil {
			return err
		}
		tt, err := parseClock(req.TransportTime)
		if err != nil {
			return err
		}
		d := datatypes.Date(td)
		a.TransportDate = &d
		a.TransportTime = &tt
	}
	return nil
}

// parseClock accepts HH:mm or HH:mm:ss; HH:mm is stored as HH:mm:00.
func parseClock(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") == 1 {
		s += ":00"
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
}
