package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"

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

var timestampNumber = regexp.MustCompile(`^EXP-\d{13}$`)

type expedienteFixture struct {
	expedientes *mocks.ExpedienteRepository
	patients    *mocks.PatientRepository
	referrals   *mocks.ReferralRepository
	audits      *mocks.AuditLogRepository
	inserted    []string
}

func newExpedienteFixture() *expedienteFixture {
	f := &expedienteFixture{
		patients: &mocks.PatientRepository{
			LockByIDFunc: func(_ context.Context, _ *gorm.DB, id int, _ string) (*entity.Patient, error) {
				return activePatient(id), nil
			},
		},
		referrals: &mocks.ReferralRepository{
			CountActiveByExpedienteFunc: func(context.Context, *gorm.DB, int) (int64, error) { return 0, nil },
		},
	}
	f.expedientes = &mocks.ExpedienteRepository{
		FindLatestFunc: func(context.Context, *gorm.DB) (*entity.Expediente, error) {
			return &entity.Expediente{ID: 41, Number: "EXP-000041"}, nil
		},
		ExistsByNumberFunc: func(context.Context, *gorm.DB, string, int) (bool, error) { return false, nil },
		FindByIDFunc: func(_ context.Context, _ *gorm.DB, id int) (*entity.Expediente, error) {
			return &entity.Expediente{ID: id, Number: "EXP-000001", Status: entity.StatusActive}, nil
		},
		LockByIDFunc: func(_ context.Context, _ *gorm.DB, id int, _ string) (*entity.Expediente, error) {
			return &entity.Expediente{ID: id, Number: "EXP-000001", Status: entity.StatusActive}, nil
		},
		DeactivateFunc: func(context.Context, *gorm.DB, int, string) (int64, error) { return 1, nil },
	}
	return f
}

// failInserts makes the first n inserts lose a unique race on number.
func (f *expedienteFixture) failInserts(n int) {
	f.expedientes.CreateFunc = func(_ context.Context, _ *gorm.DB, e *entity.Expediente) error {
		f.inserted = append(f.inserted, e.Number)
		if len(f.inserted) <= n {
			return uniqueViolation("idx_expedientes_number")
		}
		e.ID = 100
		return nil
	}
}

func (f *expedienteFixture) usecase(maxAttempts int) ExpedienteUsecase {
	m := metrics.New()
	allocator := service.NewExpedienteNumberAllocator(quietLogger(), f.expedientes, m)
	guard := service.NewReferentialGuard(quietLogger(), f.patients, f.expedientes, &mocks.ClinicalSessionRepository{}, f.referrals, m)
	audit, audits := newAudit()
	f.audits = audits
	return NewExpedienteUsecase(nil, quietLogger(), &mocks.Transactor{}, f.expedientes, f.patients, allocator, guard, audit, maxAttempts)
}

func TestCreateExpediente_Sequential(t *testing.T) {
	f := newExpedienteFixture()
	f.failInserts(0)

	resp, err := f.usecase(3).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{AutoGenerate: true})
	require.NoError(t, err)

	assert.Equal(t, "EXP-000042", resp.Number)
	assert.Equal(t, string(service.SourceSequential), resp.NumberSource)
	assert.Equal(t, []string{"EXP-000042"}, f.inserted)
	require.Len(t, f.audits.Created, 1)
	assert.Equal(t, entity.AuditActionExpedienteCreate, f.audits.Created[0].Action)
}

func TestCreateExpediente_RetriesThenFallsBack(t *testing.T) {
	f := newExpedienteFixture()
	f.failInserts(2)

	resp, err := f.usecase(3).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{})
	require.NoError(t, err)

	require.Len(t, f.inserted, 3)
	assert.Equal(t, "EXP-000042", f.inserted[0])
	assert.Equal(t, "EXP-000042", f.inserted[1])
	assert.Regexp(t, timestampNumber, f.inserted[2])
	assert.Equal(t, f.inserted[2], resp.Number)
	assert.Equal(t, string(service.SourceCollisionFallback), resp.NumberSource)
}

func TestCreateExpediente_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newExpedienteFixture()
	f.failInserts(10)

	_, err := f.usecase(2).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{AutoGenerate: true})
	assert.ErrorIs(t, err, ErrDuplicateExpedienteNumber)
	assert.EqualValues(t, 2, f.expedientes.CreateCalls)
}

func TestCreateExpediente_ZeroAttemptsStillInsertsOnce(t *testing.T) {
	f := newExpedienteFixture()
	f.failInserts(10)

	_, err := f.usecase(0).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{AutoGenerate: true})
	assert.ErrorIs(t, err, ErrDuplicateExpedienteNumber)
	assert.EqualValues(t, 1, f.expedientes.CreateCalls)
}

func TestCreateExpediente_ManualNumberIsNeverRetried(t *testing.T) {
	f := newExpedienteFixture()
	f.failInserts(1)

	_, err := f.usecase(3).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{Number: "CLIN-7"})
	assert.ErrorIs(t, err, ErrDuplicateExpedienteNumber)
	assert.Equal(t, []string{"CLIN-7"}, f.inserted)
}

func TestCreateExpediente_ManualNumberTaken(t *testing.T) {
	f := newExpedienteFixture()
	f.expedientes.ExistsByNumberFunc = func(context.Context, *gorm.DB, string, int) (bool, error) { return true, nil }

	_, err := f.usecase(3).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{Number: "CLIN-7"})
	assert.ErrorIs(t, err, ErrDuplicateExpedienteNumber)
	assert.Zero(t, f.expedientes.CreateCalls)
}

func TestCreateExpediente_OtherInsertErrorIsReturned(t *testing.T) {
	f := newExpedienteFixture()
	boom := errors.New("connection reset")
	f.expedientes.CreateFunc = func(context.Context, *gorm.DB, *entity.Expediente) error { return boom }

	_, err := f.usecase(3).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{AutoGenerate: true})
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, f.expedientes.CreateCalls)
}

func TestCreateExpediente_LocksLinkedPatient(t *testing.T) {
	f := newExpedienteFixture()
	f.failInserts(0)

	var strength string
	f.patients.LockByIDFunc = func(_ context.Context, _ *gorm.DB, id int, s string) (*entity.Patient, error) {
		strength = s
		return activePatient(id), nil
	}

	resp, err := f.usecase(3).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{PatientID: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, repository.LockForShare, strength)
	assert.Equal(t, 5, *resp.PatientID)
}

func TestCreateExpediente_InactivePatient(t *testing.T) {
	f := newExpedienteFixture()
	f.failInserts(0)
	f.patients.LockByIDFunc = func(context.Context, *gorm.DB, int, string) (*entity.Patient, error) { return nil, nil }

	_, err := f.usecase(3).CreateExpediente(actorCtx(entity.RoleIDTherapist), &dto.ExpedienteRequest{PatientID: intPtr(5)})
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Zero(t, f.expedientes.CreateCalls)
}

func TestDeleteExpediente_BlockedByReferrals(t *testing.T) {
	f := newExpedienteFixture()
	f.referrals.CountActiveByExpedienteFunc = func(context.Context, *gorm.DB, int) (int64, error) { return 2, nil }

	err := f.usecase(3).DeleteExpediente(actorCtx(entity.RoleIDAdmin), 9)

	var blocked *DeletionBlockedError
	require.True(t, errors.As(err, &blocked))
	assert.EqualValues(t, 2, blocked.Check.Counts.ActiveReferrals)
	assert.Zero(t, f.expedientes.DeactivateCalls)
}

func TestDeleteExpediente_Allowed(t *testing.T) {
	f := newExpedienteFixture()

	require.NoError(t, f.usecase(3).DeleteExpediente(actorCtx(entity.RoleIDAdmin), 9))
	assert.EqualValues(t, 1, f.expedientes.DeactivateCalls)
	require.Len(t, f.audits.Created, 1)
	assert.Equal(t, entity.AuditActionExpedienteDelete, f.audits.Created[0].Action)
}
