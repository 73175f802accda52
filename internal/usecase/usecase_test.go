package usecase

import (
	"context"
	"io"

	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository/mocks"
	"clinic-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

var testActorID = uuid.MustParse("6a0f1e59-3c7e-4e1a-9b44-2f0d8c1d9a10")

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func actorCtx(roleID int) context.Context {
	return middleware.WithUser(context.Background(), testActorID, "tester", roleID)
}

func newAudit() (service.AuditService, *mocks.AuditLogRepository) {
	repo := &mocks.AuditLogRepository{}
	return service.NewAuditService(quietLogger(), repo), repo
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func activePatient(id int) *entity.Patient {
	return &entity.Patient{ID: id, FirstNames: "Ana", LastNames: "López", CUI: "1234567890123", Gender: "F", Status: entity.StatusActive}
}
