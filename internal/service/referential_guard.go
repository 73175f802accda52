package service

import (
	"context"
	"fmt"
	"strings"

	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReferentialGuard decides whether a record may be soft-deleted given the
// active rows that still reference it. It only reads; callers that act on
// the decision run it inside the transaction holding the parent row lock.
type ReferentialGuard interface {
	CheckPatient(ctx context.Context, db *gorm.DB, patientID int) (*entity.DeletionCheck, error)
	CheckExpediente(ctx context.Context, db *gorm.DB, expedienteID int) (*entity.DeletionCheck, error)
	Check(ctx context.Context, db *gorm.DB, kind entity.EntityKind, id int) (*entity.DeletionCheck, error)
}

type referentialGuard struct {
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	expedienteRepo repository.ExpedienteRepository
	sessionRepo    repository.ClinicalSessionRepository
	referralRepo   repository.ReferralRepository
	metrics        DeletionCheckRecorder
}

func NewReferentialGuard(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	expedienteRepo repository.ExpedienteRepository,
	sessionRepo repository.ClinicalSessionRepository,
	referralRepo repository.ReferralRepository,
	metrics DeletionCheckRecorder,
) ReferentialGuard {
	return &referentialGuard{
		log:            log,
		patientRepo:    patientRepo,
		expedienteRepo: expedienteRepo,
		sessionRepo:    sessionRepo,
		referralRepo:   referralRepo,
		metrics:        metrics,
	}
}

func (g *referentialGuard) Check(ctx context.Context, db *gorm.DB, kind entity.EntityKind, id int) (*entity.DeletionCheck, error) {
	switch kind {
	case entity.EntityKindPatient:
		return g.CheckPatient(ctx, db, id)
	case entity.EntityKindExpediente:
		return g.CheckExpediente(ctx, db, id)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
}

// CheckPatient blocks while the patient has active clinical history or active
// expedientes. Inactive expedientes stay linked and never block.
func (g *referentialGuard) CheckPatient(ctx context.Context, db *gorm.DB, patientID int) (*entity.DeletionCheck, error) {
	check, err := g.checkPatient(ctx, db, patientID)
	g.record(entity.EntityKindPatient, check, err)
	return check, err
}

func (g *referentialGuard) checkPatient(ctx context.Context, db *gorm.DB, patientID int) (*entity.DeletionCheck, error) {
	patient, err := g.patientRepo.FindByID(ctx, db, patientID)
	if err != nil {
		g.log.Warnf("Failed to find patient %d: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	var counts entity.DependentCounts
	if counts.ActiveHistory, err = g.sessionRepo.CountActiveByPatient(ctx, db, patientID); err != nil {
		g.log.Warnf("Failed to count clinical history of patient %d: %+v", patientID, err)
		return nil, err
	}
	if counts.ActiveExpedientes, err = g.expedienteRepo.CountByPatient(ctx, db, patientID, entity.StatusActive); err != nil {
		g.log.Warnf("Failed to count active expedientes of patient %d: %+v", patientID, err)
		return nil, err
	}
	if counts.InactiveExpedientes, err = g.expedienteRepo.CountByPatient(ctx, db, patientID, entity.StatusInactive); err != nil {
		g.log.Warnf("Failed to count inactive expedientes of patient %d: %+v", patientID, err)
		return nil, err
	}

	check := &entity.DeletionCheck{
		Kind:   entity.EntityKindPatient,
		ID:     patientID,
		Counts: counts,
	}

	var blockers []string
	if counts.ActiveHistory > 0 {
		blockers = append(blockers, plural(counts.ActiveHistory, "active clinical history record", "active clinical history records"))
	}
	if counts.ActiveExpedientes > 0 {
		blockers = append(blockers, plural(counts.ActiveExpedientes, "active expediente", "active expedientes"))
	}

	if len(blockers) > 0 {
		check.Reason = "Patient cannot be deleted: it has " + strings.Join(blockers, " and ")
		return check, nil
	}

	check.Allowed = true
	check.Reason = "Patient can be deleted"
	if counts.InactiveExpedientes > 0 {
		check.Reason += fmt.Sprintf("; %s will remain attached",
			plural(counts.InactiveExpedientes, "archived expediente", "archived expedientes"))
	}
	return check, nil
}

// CheckExpediente blocks while any active referral points at the expediente.
func (g *referentialGuard) CheckExpediente(ctx context.Context, db *gorm.DB, expedienteID int) (*entity.DeletionCheck, error) {
	check, err := g.checkExpediente(ctx, db, expedienteID)
	g.record(entity.EntityKindExpediente, check, err)
	return check, err
}

func (g *referentialGuard) checkExpediente(ctx context.Context, db *gorm.DB, expedienteID int) (*entity.DeletionCheck, error) {
	expediente, err := g.expedienteRepo.FindByID(ctx, db, expedienteID)
	if err != nil {
		g.log.Warnf("Failed to find expediente %d: %+v", expedienteID, err)
		return nil, err
	}
	if expediente == nil {
		return nil, ErrExpedienteNotFound
	}

	referrals, err := g.referralRepo.CountActiveByExpediente(ctx, db, expedienteID)
	if err != nil {
		g.log.Warnf("Failed to count referrals of expediente %d: %+v", expedienteID, err)
		return nil, err
	}

	check := &entity.DeletionCheck{
		Kind:   entity.EntityKindExpediente,
		ID:     expedienteID,
		Counts: entity.DependentCounts{ActiveReferrals: referrals},
	}
	if referrals > 0 {
		check.Reason = "Expediente cannot be deleted: it has " +
			plural(referrals, "active referral", "active referrals")
		return check, nil
	}

	check.Allowed = true
	check.Reason = "Expediente can be deleted"
	return check, nil
}

func (g *referentialGuard) record(kind entity.EntityKind, check *entity.DeletionCheck, err error) {
	if g.metrics == nil {
		return
	}
	outcome := "error"
	switch {
	case err != nil:
	case check.Allowed:
		outcome = "allowed"
	default:
		outcome = "blocked"
	}
	g.metrics.RecordDeletionCheck(string(kind), outcome)
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// BlockedError wraps ErrDeletionBlocked with the check's reason.
func BlockedError(check *entity.DeletionCheck) error {
	return fmt.Errorf("%w: %s", ErrDeletionBlocked, check.Reason)
}
