package repository

import (
	"context"
	"time"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportRepository runs the read-only aggregate queries behind reporting.
// A non-nil viewer restricts results to rows that user authored or received.
type ReportRepository interface {
	Dashboard(ctx context.Context, db *gorm.DB, viewer *uuid.UUID, monthStart time.Time) (*entity.DashboardSummary, error)
	Patients(ctx context.Context, db *gorm.DB, filter entity.PatientReportFilter, now time.Time) ([]entity.PatientReportRow, int64, error)
	PatientSummary(ctx context.Context, db *gorm.DB, filter entity.PatientReportFilter, now time.Time) (*entity.PatientReportSummary, error)
	AgeGroups(ctx context.Context, db *gorm.DB, now time.Time) (*entity.AgeGroupCount, error)
	Consultations(ctx context.Context, db *gorm.DB, filter entity.ConsultationReportFilter, viewer *uuid.UUID) ([]entity.ConsultationReportRow, int64, error)
	Appointments(ctx context.Context, db *gorm.DB, filter entity.AppointmentReportFilter, viewer *uuid.UUID) ([]entity.AppointmentReportRow, int64, *entity.TransportSummary, error)
	Referrals(ctx context.Context, db *gorm.DB, filter entity.ReferralReportFilter, viewer *uuid.UUID) ([]entity.ReferralReportRow, int64, error)
}
