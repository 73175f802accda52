package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAppointmentUsecase(appointments *mocks.AppointmentRepository, users *mocks.UserRepository) (AppointmentUsecase, *mocks.AuditLogRepository) {
	patients := &mocks.PatientRepository{
		FindByIDFunc: func(_ context.Context, _ *gorm.DB, id int) (*entity.Patient, error) {
			return activePatient(id), nil
		},
	}
	audit, audits := newAudit()
	return NewAppointmentUsecase(nil, quietLogger(), &mocks.Transactor{}, appointments, patients, users, audit), audits
}

func activeUsers() *mocks.UserRepository {
	return &mocks.UserRepository{
		FindByIDFunc: func(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, Username: "therapist", IsActive: boolPtr(true)}, nil
		},
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"14:30", "14:30:00", false},
		{" 08:05 ", "08:05:00", false},
		{"08:05:59", "08:05:59", false},
		{"24:00", "", true},
		{"8am", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	got, err := parseDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = parseDate("2024-03-09T22:15:00-06:00")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = parseDate("09/03/2024")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestApplyAppointmentRequest(t *testing.T) {
	caller := uuid.New()

	t.Run("defaults therapist to caller", func(t *testing.T) {
		var a entity.Appointment
		err := applyAppointmentRequest(&dto.AppointmentRequest{PatientID: 3, Date: "2024-05-02", Time: "09:00"}, &caller, &a)
		require.NoError(t, err)
		assert.Equal(t, caller, a.UserID)
		assert.Equal(t, "09:00:00", a.Time.String())
		assert.Nil(t, a.TransportDate)
	})

	t.Run("transport needs date and time", func(t *testing.T) {
		var a entity.Appointment
		err := applyAppointmentRequest(&dto.AppointmentRequest{
			PatientID: 3, Date: "2024-05-02", Time: "09:00", Transport: true, TransportDate: "2024-05-02",
		}, &caller, &a)
		assert.ErrorIs(t, err, ErrTransportIncomplete)
	})

	t.Run("transport pickup", func(t *testing.T) {
		var a entity.Appointment
		err := applyAppointmentRequest(&dto.AppointmentRequest{
			PatientID: 3, Date: "2024-05-02", Time: "09:00",
			Transport: true, TransportDate: "2024-05-02", TransportTime: "07:15",
		}, &caller, &a)
		require.NoError(t, err)
		require.NotNil(t, a.TransportTime)
		assert.Equal(t, "07:15:00", a.TransportTime.String())
	})

	t.Run("dropping transport clears pickup", func(t *testing.T) {
		tt, _ := parseClock("07:15")
		a := entity.Appointment{Transport: true, TransportTime: &tt}
		err := applyAppointmentRequest(&dto.AppointmentRequest{PatientID: 3, Date: "2024-05-02", Time: "09:00"}, &caller, &a)
		require.NoError(t, err)
		assert.False(t, a.Transport)
		assert.Nil(t, a.TransportTime)
	})
}

func TestGetByTherapistAndDay(t *testing.T) {
	therapist := uuid.New()
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		arg      string
		wantUser *uuid.UUID
		wantErr  error
	}{
		{"all with T", "T", nil, nil},
		{"all with lowercase t", "t", nil, nil},
		{"all when empty", "", nil, nil},
		{"one therapist", therapist.String(), &therapist, nil},
		{"garbage", "bob", nil, ErrInvalidTherapist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got entity.AppointmentFilter
			repo := &mocks.AppointmentRepository{
				FindFunc: func(_ context.Context, _ *gorm.DB, f entity.AppointmentFilter) ([]entity.Appointment, error) {
					got = f
					return nil, nil
				},
			}
			uc, _ := newAppointmentUsecase(repo, activeUsers())

			_, err := uc.GetByTherapistAndDay(context.Background(), tt.arg, "2024-05-02")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, got.UserID)
			assert.Equal(t, day, *got.From)
			assert.Equal(t, day, *got.To)
		})
	}
}

func TestGetByPatientAndMonth(t *testing.T) {
	var got entity.AppointmentFilter
	repo := &mocks.AppointmentRepository{
		FindFunc: func(_ context.Context, _ *gorm.DB, f entity.AppointmentFilter) ([]entity.Appointment, error) {
			got = f
			return nil, nil
		},
	}
	uc, _ := newAppointmentUsecase(repo, activeUsers())

	_, err := uc.GetByPatientAndMonth(context.Background(), 4, 2, 2024)
	require.NoError(t, err)
	assert.Equal(t, 4, *got.PatientID)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *got.From)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *got.To)

	_, err = uc.GetByPatientAndMonth(context.Background(), 4, 13, 2024)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = uc.GetByPatientAndMonth(context.Background(), 4, 1, 1999)
	assert.ErrorIs(t, err, ErrInvalidYear)
}

func TestCreateAppointment_InactiveTherapist(t *testing.T) {
	users := &mocks.UserRepository{
		FindByIDFunc: func(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, IsActive: boolPtr(false)}, nil
		},
	}
	appointments := &mocks.AppointmentRepository{}
	uc, audits := newAppointmentUsecase(appointments, users)

	_, err := uc.CreateAppointment(actorCtx(entity.RoleIDTherapist), &dto.AppointmentRequest{PatientID: 3, Date: "2024-05-02", Time: "09:00"})
	assert.ErrorIs(t, err, ErrTherapistNotFound)
	assert.Empty(t, audits.Created)
}

func TestCreateAppointment(t *testing.T) {
	appointments := &mocks.AppointmentRepository{
		CreateFunc: func(_ context.Context, _ *gorm.DB, a *entity.Appointment) error {
			a.ID = 21
			return nil
		},
	}
	uc, audits := newAppointmentUsecase(appointments, activeUsers())

	resp, err := uc.CreateAppointment(actorCtx(entity.RoleIDTherapist), &dto.AppointmentRequest{PatientID: 3, Date: "2024-05-02", Time: "09:30"})
	require.NoError(t, err)
	assert.Equal(t, 21, resp.ID)
	assert.Equal(t, testActorID, resp.UserID)
	assert.Equal(t, "2024-05-02", resp.Date)
	assert.Equal(t, "09:30:00", resp.Time)
	require.Len(t, audits.Created, 1)
	assert.Equal(t, entity.AuditActionAppointmentCreate, audits.Created[0].Action)
}
