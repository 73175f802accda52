package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/domain/repository/mocks"
	"clinic-management-api/internal/infrastructure/metrics"
	"clinic-management-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type patientFixture struct {
	patients    *mocks.PatientRepository
	expedientes *mocks.ExpedienteRepository
	sessions    *mocks.ClinicalSessionRepository
	audits      *mocks.AuditLogRepository
	transactor  *mocks.Transactor
	usecase     *patientUsecase
}

func newPatientFixture(history, activeExp int64) *patientFixture {
	f := &patientFixture{
		patients: &mocks.PatientRepository{
			FindByIDFunc: func(_ context.Context, _ *gorm.DB, id int) (*entity.Patient, error) {
				return activePatient(id), nil
			},
			LockByIDFunc: func(_ context.Context, _ *gorm.DB, id int, _ string) (*entity.Patient, error) {
				return activePatient(id), nil
			},
			DeactivateFunc: func(context.Context, *gorm.DB, int, string) (int64, error) { return 1, nil },
		},
		expedientes: &mocks.ExpedienteRepository{
			CountByPatientFunc: func(_ context.Context, _ *gorm.DB, _ int, status int) (int64, error) {
				if status == entity.StatusActive {
					return activeExp, nil
				}
				return 0, nil
			},
		},
		sessions: &mocks.ClinicalSessionRepository{
			CountActiveByPatientFunc: func(context.Context, *gorm.DB, int) (int64, error) { return history, nil },
		},
		transactor: &mocks.Transactor{},
	}

	guard := service.NewReferentialGuard(quietLogger(), f.patients, f.expedientes, f.sessions, &mocks.ReferralRepository{}, metrics.New())
	audit, audits := newAudit()
	f.audits = audits
	f.usecase = NewPatientUsecase(nil, quietLogger(), f.transactor, f.patients, guard, audit).(*patientUsecase)
	f.usecase.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	return f
}

func TestDeletePatient_Allowed(t *testing.T) {
	f := newPatientFixture(0, 0)

	var lockStrength string
	f.patients.LockByIDFunc = func(_ context.Context, _ *gorm.DB, id int, strength string) (*entity.Patient, error) {
		lockStrength = strength
		return activePatient(id), nil
	}

	err := f.usecase.DeletePatient(actorCtx(entity.RoleIDAdmin), 7)
	require.NoError(t, err)

	assert.Equal(t, repository.LockForUpdate, lockStrength)
	assert.EqualValues(t, 1, f.patients.DeactivateCalls)
	require.Len(t, f.audits.Created, 1)
	assert.Equal(t, entity.AuditActionPatientDelete, f.audits.Created[0].Action)
	assert.Equal(t, testActorID, *f.audits.Created[0].UserID)
}

func TestDeletePatient_Blocked(t *testing.T) {
	f := newPatientFixture(2, 1)

	err := f.usecase.DeletePatient(actorCtx(entity.RoleIDAdmin), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeletionBlocked)

	var blocked *DeletionBlockedError
	require.True(t, errors.As(err, &blocked))
	assert.EqualValues(t, 2, blocked.Check.Counts.ActiveHistory)
	assert.EqualValues(t, 1, blocked.Check.Counts.ActiveExpedientes)
	assert.Contains(t, err.Error(), "2 active clinical history records")

	assert.Zero(t, f.patients.DeactivateCalls)
	assert.Empty(t, f.audits.Created)
}

func TestDeletePatient_NotFound(t *testing.T) {
	f := newPatientFixture(0, 0)
	f.patients.LockByIDFunc = func(context.Context, *gorm.DB, int, string) (*entity.Patient, error) { return nil, nil }

	err := f.usecase.DeletePatient(actorCtx(entity.RoleIDAdmin), 7)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestDeletePatient_LostRace(t *testing.T) {
	f := newPatientFixture(0, 0)
	f.patients.DeactivateFunc = func(context.Context, *gorm.DB, int, string) (int64, error) { return 0, nil }

	err := f.usecase.DeletePatient(actorCtx(entity.RoleIDAdmin), 7)
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Empty(t, f.audits.Created)
}

func TestDeletePatient_AuditFailureAbortsTransaction(t *testing.T) {
	f := newPatientFixture(0, 0)
	f.audits.CreateFunc = func(context.Context, *gorm.DB, *entity.AuditLog) error { return errors.New("audit down") }

	err := f.usecase.DeletePatient(actorCtx(entity.RoleIDAdmin), 7)
	assert.EqualError(t, err, "audit down")
}

func TestCreatePatient(t *testing.T) {
	f := newPatientFixture(0, 0)
	f.patients.ExistsByCUIFunc = func(context.Context, *gorm.DB, string, int) (bool, error) { return false, nil }
	f.patients.CreateFunc = func(_ context.Context, _ *gorm.DB, p *entity.Patient) error {
		p.ID = 11
		return nil
	}

	resp, err := f.usecase.CreatePatient(actorCtx(entity.RoleIDReceptionist), &dto.PatientRequest{
		FirstNames:    "  Ana ",
		LastNames:     "López",
		CUI:           "1234567890123",
		BirthDate:     "2010-06-16",
		Gender:        "f",
		PersonalPhone: "5512-3456",
	})
	require.NoError(t, err)

	assert.Equal(t, 11, resp.ID)
	assert.Equal(t, "Ana", resp.FirstNames)
	assert.Equal(t, "F", resp.Gender)
	assert.Equal(t, 13, resp.Age)
	assert.Equal(t, "+50255123456", resp.PersonalPhone)
	require.Len(t, f.audits.Created, 1)
	assert.Equal(t, entity.AuditActionPatientCreate, f.audits.Created[0].Action)
}

func TestCreatePatient_DuplicateCUI(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
		insert error
	}{
		{"found by lookup", true, nil},
		{"unique index", false, uniqueViolation("idx_patients_cui")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPatientFixture(0, 0)
			f.patients.ExistsByCUIFunc = func(context.Context, *gorm.DB, string, int) (bool, error) { return tt.exists, nil }
			f.patients.CreateFunc = func(context.Context, *gorm.DB, *entity.Patient) error { return tt.insert }

			_, err := f.usecase.CreatePatient(actorCtx(entity.RoleIDAdmin), &dto.PatientRequest{
				FirstNames: "Ana", LastNames: "López", CUI: "1234567890123", BirthDate: "2010-01-01", Gender: "F",
			})
			assert.ErrorIs(t, err, ErrCUIAlreadyExists)
		})
	}
}

func TestCreatePatient_InvalidBirthDate(t *testing.T) {
	f := newPatientFixture(0, 0)

	_, err := f.usecase.CreatePatient(actorCtx(entity.RoleIDAdmin), &dto.PatientRequest{BirthDate: "15/06/2010"})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
	assert.Zero(t, f.transactor.Calls)
}

func TestBirthDateBounds(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)

	before, after := birthDateBounds(now, intPtr(18), intPtr(30))
	require.NotNil(t, before)
	require.NotNil(t, after)
	assert.Equal(t, time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC), *before)
	assert.Equal(t, time.Date(1993, 6, 15, 0, 0, 0, 0, time.UTC), *after)

	before, after = birthDateBounds(now, nil, intPtr(17))
	assert.Nil(t, before)
	assert.Equal(t, time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC), *after)
}

func TestGetByAge_InvalidRange(t *testing.T) {
	f := newPatientFixture(0, 0)

	_, err := f.usecase.GetByAge(context.Background(), intPtr(40), intPtr(20))
	assert.ErrorIs(t, err, ErrInvalidAgeRange)
}

func TestGetByGender(t *testing.T) {
	f := newPatientFixture(0, 0)
	var got string
	f.patients.FindByGenderFunc = func(_ context.Context, _ *gorm.DB, gender string) ([]entity.Patient, error) {
		got = gender
		return []entity.Patient{*activePatient(1)}, nil
	}

	resp, err := f.usecase.GetByGender(context.Background(), " f ")
	require.NoError(t, err)
	assert.Equal(t, "F", got)
	assert.Len(t, resp, 1)

	_, err = f.usecase.GetByGender(context.Background(), "X")
	assert.ErrorIs(t, err, ErrInvalidGender)
}
