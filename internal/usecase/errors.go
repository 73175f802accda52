package usecase

import (
	"errors"
	"strings"
	"time"

	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
)

// Errors raised by the domain services, re-exported so handlers only depend
// on this package.
var (
	ErrPatientNotFound           = service.ErrPatientNotFound
	ErrExpedienteNotFound        = service.ErrExpedienteNotFound
	ErrDuplicateExpedienteNumber = service.ErrDuplicateExpedienteNumber
	ErrDeletionBlocked           = service.ErrDeletionBlocked
	ErrUnknownEntityKind         = service.ErrUnknownEntityKind
	ErrRateLimited               = service.ErrRateLimited
	ErrFileTooLarge              = service.ErrFileTooLarge
	ErrFileTypeNotAllowed        = service.ErrFileTypeNotAllowed
	ErrEmptyFile                 = service.ErrEmptyFile
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:mm")
)

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD or a full RFC3339 timestamp and returns the
// calendar date at midnight UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseOptionalDate is parseDate for optional query values.
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// DeletionBlockedError carries the guard result that refused a soft delete so
// handlers can report the blocking counts.
type DeletionBlockedError struct {
	Check *entity.DeletionCheck
}

func (e *DeletionBlockedError) Error() string {
	return service.BlockedError(e.Check).Error()
}

func (e *DeletionBlockedError) Unwrap() error {
	return ErrDeletionBlocked
}
