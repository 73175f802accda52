package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/infrastructure/export"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidReportType   = errors.New("invalid report type")
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrInvalidDateRange    = errors.New("from must not be after to")
)

const (
	ExportFormatExcel = "excel"
	ExportFormatPDF   = "pdf"

	reportDefaultLimit = 20
	reportMaxLimit     = 100
)

type ReportUsecase interface {
	Dashboard(ctx context.Context) (*entity.DashboardSummary, error)
	Patients(ctx context.Context, q *dto.ReportQuery) (*dto.PatientReportResponse, error)
	AgeGroups(ctx context.Context) (*entity.AgeGroupCount, error)
	Consultations(ctx context.Context, q *dto.ReportQuery) (*dto.ConsultationReportResponse, error)
	Appointments(ctx context.Context, q *dto.ReportQuery) (*dto.AppointmentReportResponse, error)
	Referrals(ctx context.Context, q *dto.ReportQuery) (*dto.ReferralReportResponse, error)
	Export(ctx context.Context, format string, req *dto.ExportRequest) (*dto.ExportFile, error)
}

type reportUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	reportRepo repository.ReportRepository
	now        func() time.Time
}

func NewReportUsecase(db *gorm.DB, log *logrus.Logger, reportRepo repository.ReportRepository) ReportUsecase {
	return &reportUsecase{
		db:         db,
		log:        log,
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// Dashboard scopes consultations, appointments and referrals to the caller
// unless the caller is an admin.
func (u *reportUsecase) Dashboard(ctx context.Context) (*entity.DashboardSummary, error) {
	now := u.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary, err := u.reportRepo.Dashboard(ctx, u.db, viewer(ctx), monthStart)
	if err != nil {
		u.log.Warnf("Failed to build dashboard: %+v", err)
		return nil, err
	}
	return summary, nil
}

func (u *reportUsecase) Patients(ctx context.Context, q *dto.ReportQuery) (*dto.PatientReportResponse, error) {
	filter, err := patientReportFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Pagination = pageOf(q)
	now := u.now()

	rows, total, err := u.reportRepo.Patients(ctx, u.db, filter, now)
	if err != nil {
		u.log.Warnf("Failed to run patient report: %+v", err)
		return nil, err
	}
	summary, err := u.reportRepo.PatientSummary(ctx, u.db, filter, now)
	if err != nil {
		u.log.Warnf("Failed to summarise patient report: %+v", err)
		return nil, err
	}

	return &dto.PatientReportResponse{Rows: rows, Total: total, Summary: summary}, nil
}

func (u *reportUsecase) AgeGroups(ctx context.Context) (*entity.AgeGroupCount, error) {
	groups, err := u.reportRepo.AgeGroups(ctx, u.db, u.now())
	if err != nil {
		u.log.Warnf("Failed to count age groups: %+v", err)
		return nil, err
	}
	return groups, nil
}

func (u *reportUsecase) Consultations(ctx context.Context, q *dto.ReportQuery) (*dto.ConsultationReportResponse, error) {
	filter, err := consultationReportFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Pagination = pageOf(q)

	rows, total, err := u.reportRepo.Consultations(ctx, u.db, filter, viewer(ctx))
	if err != nil {
		u.log.Warnf("Failed to run consultation report: %+v", err)
		return nil, err
	}
	return &dto.ConsultationReportResponse{Rows: rows, Total: total}, nil
}

func (u *reportUsecase) Appointments(ctx context.Context, q *dto.ReportQuery) (*dto.AppointmentReportResponse, error) {
	filter, err := appointmentReportFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Pagination = pageOf(q)

	rows, total, summary, err := u.reportRepo.Appointments(ctx, u.db, filter, viewer(ctx))
	if err != nil {
		u.log.Warnf("Failed to run appointment report: %+v", err)
		return nil, err
	}
	return &dto.AppointmentReportResponse{Rows: rows, Total: total, Summary: summary}, nil
}

func (u *reportUsecase) Referrals(ctx context.Context, q *dto.ReportQuery) (*dto.ReferralReportResponse, error) {
	filter, err := referralReportFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Pagination = pageOf(q)

	rows, total, err := u.reportRepo.Referrals(ctx, u.db, filter, viewer(ctx))
	if err != nil {
		u.log.Warnf("Failed to run referral report: %+v", err)
		return nil, err
	}
	return &dto.ReferralReportResponse{Rows: rows, Total: total}, nil
}

// Export renders every matching row, up to entity.MaxExportRows, as an xlsx
// workbook or a PDF document.
func (u *reportUsecase) Export(ctx context.Context, format string, req *dto.ExportRequest) (*dto.ExportFile, error) {
	var render func(export.Table) ([]byte, error)
	var contentType, ext string
	switch format {
	case ExportFormatExcel:
		render, contentType, ext = export.Excel, export.ContentTypeExcel, "xlsx"
	case ExportFormatPDF:
		render, contentType, ext = export.PDF, export.ContentTypePDF, "pdf"
	default:
		return nil, ErrInvalidExportFormat
	}

	table, err := u.exportTable(ctx, entity.ReportType(req.Type), &req.Filters)
	if err != nil {
		return nil, err
	}
	table.GeneratedAt = u.now()
	if title := strings.TrimSpace(req.Title); title != "" {
		table.Title = title
	}

	body, err := render(table)
	if err != nil {
		u.log.Warnf("Failed to render %s export: %+v", format, err)
		return nil, err
	}

	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s-report-%s.%s", req.Type, table.GeneratedAt.Format("20060102-150405"), ext),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (u *reportUsecase) exportTable(ctx context.Context, kind entity.ReportType, q *dto.ReportQuery) (export.Table, error) {
	all := entity.Pagination{Page: 1, Limit: entity.MaxExportRows}
	v := viewer(ctx)

	switch kind {
	case entity.ReportPatients:
		filter, err := patientReportFilter(q)
		if err != nil {
			return export.Table{}, err
		}
		filter.Pagination = all
		rows, _, err := u.reportRepo.Patients(ctx, u.db, filter, u.now())
		if err != nil {
			u.log.Warnf("Failed to run patient report: %+v", err)
			return export.Table{}, err
		}
		t := export.Table{
			Title:   "Patients",
			Headers: []string{"ID", "Last names", "First names", "CUI", "Gender", "Birth date", "Age", "Municipality", "Disability", "Expedientes"},
		}
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{
				strconv.Itoa(r.ID), r.LastNames, r.FirstNames, r.CUI, r.Gender,
				r.BirthDate.Format(dateLayout), strconv.Itoa(r.Age), r.Municipality, r.DisabilityType,
				strconv.FormatInt(r.Expedientes, 10),
			})
		}
		return t, nil

	case entity.ReportConsultations:
		filter, err := consultationReportFilter(q)
		if err != nil {
			return export.Table{}, err
		}
		filter.Pagination = all
		rows, _, err := u.reportRepo.Consultations(ctx, u.db, filter, v)
		if err != nil {
			u.log.Warnf("Failed to run consultation report: %+v", err)
			return export.Table{}, err
		}
		t := export.Table{
			Title:   "Consultations",
			Headers: []string{"ID", "Date", "Patient", "CUI", "Therapist", "Chief complaint", "Diagnosis / treatment"},
		}
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{
				strconv.Itoa(r.ID), r.SessionDate.Format(dateLayout), r.PatientName, r.PatientCUI,
				r.Therapist, r.ChiefComplaint, r.DiagnosisTreatment,
			})
		}
		return t, nil

	case entity.ReportAppointments:
		filter, err := appointmentReportFilter(q)
		if err != nil {
			return export.Table{}, err
		}
		filter.Pagination = all
		rows, _, _, err := u.reportRepo.Appointments(ctx, u.db, filter, v)
		if err != nil {
			u.log.Warnf("Failed to run appointment report: %+v", err)
			return export.Table{}, err
		}
		t := export.Table{
			Title:   "Appointments",
			Headers: []string{"ID", "Date", "Time", "Patient", "Therapist", "Transport", "Pickup", "Address", "Comment"},
		}
		for _, r := range rows {
			pickup := ""
			if r.TransportDate != nil {
				pickup = r.TransportDate.Format(dateLayout)
				if r.TransportTime != nil {
					pickup += " " + *r.TransportTime
				}
			}
			t.Rows = append(t.Rows, []string{
				strconv.Itoa(r.ID), r.Date.Format(dateLayout), r.Time, r.PatientName, r.Therapist,
				yesNo(r.Transport), pickup, r.Address, r.Comment,
			})
		}
		return t, nil

	case entity.ReportReferrals:
		filter, err := referralReportFilter(q)
		if err != nil {
			return export.Table{}, err
		}
		filter.Pagination = all
		rows, _, err := u.reportRepo.Referrals(ctx, u.db, filter, v)
		if err != nil {
			u.log.Warnf("Failed to run referral report: %+v", err)
			return export.Table{}, err
		}
		t := export.Table{
			Title:   "Referrals",
			Headers: []string{"ID", "Date", "Patient", "Expediente", "Clinic", "From", "To", "Completed"},
		}
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{
				strconv.Itoa(r.ID), r.CreatedAt.Format(dateLayout), r.PatientName, r.ExpedienteNumber,
				r.ClinicName, r.FromUser, r.ToUser, yesNo(r.Completed),
			})
		}
		return t, nil
	}

	return export.Table{}, ErrInvalidReportType
}

// viewer is nil for admins, who see every row.
func viewer(ctx context.Context) *uuid.UUID {
	if roleID, ok := middleware.GetRoleIDFromContext(ctx); ok && roleID == entity.RoleIDAdmin {
		return nil
	}
	id, _ := middleware.Actor(ctx)
	if id == nil {
		none := uuid.Nil
		return &none
	}
	return id
}

func pageOf(q *dto.ReportQuery) entity.Pagination {
	return entity.Pagination{Page: q.Page, Limit: q.Limit}.Normalize(reportDefaultLimit, reportMaxLimit)
}

// dateRange resolves from/to, letting month+year override both.
func dateRange(q *dto.ReportQuery) (*time.Time, *time.Time, error) {
	if q.Month != 0 || q.Year != 0 {
		if q.Month < 1 || q.Month > 12 {
			return nil, nil, ErrInvalidMonth
		}
		if q.Year < 2000 {
			return nil, nil, ErrInvalidYear
		}
		from := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, -1)
		return &from, &to, nil
	}

	from, err := parseOptionalDate(q.From)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseOptionalDate(q.To)
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, ErrInvalidDateRange
	}
	return from, to, nil
}

func optionalUser(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, ErrInvalidTherapist
	}
	return &id, nil
}

func patientReportFilter(q *dto.ReportQuery) (entity.PatientReportFilter, error) {
	from, to, err := dateRange(q)
	if err != nil {
		return entity.PatientReportFilter{}, err
	}
	if q.AgeMin != nil && q.AgeMax != nil && *q.AgeMin > *q.AgeMax {
		return entity.PatientReportFilter{}, ErrInvalidAgeRange
	}
	return entity.PatientReportFilter{
		From:           from,
		To:             to,
		Gender:         q.Gender,
		Municipality:   q.Municipality,
		DisabilityType: q.DisabilityType,
		AgeMin:         q.AgeMin,
		AgeMax:         q.AgeMax,
	}, nil
}

func consultationReportFilter(q *dto.ReportQuery) (entity.ConsultationReportFilter, error) {
	from, to, err := dateRange(q)
	if err != nil {
		return entity.ConsultationReportFilter{}, err
	}
	userID, err := optionalUser(q.UserID)
	if err != nil {
		return entity.ConsultationReportFilter{}, err
	}
	return entity.ConsultationReportFilter{
		From:      from,
		To:        to,
		UserID:    userID,
		PatientID: q.PatientID,
		Diagnosis: strings.TrimSpace(q.Diagnosis),
	}, nil
}

func appointmentReportFilter(q *dto.ReportQuery) (entity.AppointmentReportFilter, error) {
	from, to, err := dateRange(q)
	if err != nil {
		return entity.AppointmentReportFilter{}, err
	}
	userID, err := optionalUser(q.UserID)
	if err != nil {
		return entity.AppointmentReportFilter{}, err
	}
	return entity.AppointmentReportFilter{
		From:      from,
		To:        to,
		UserID:    userID,
		Transport: q.Transport,
	}, nil
}

func referralReportFilter(q *dto.ReportQuery) (entity.ReferralReportFilter, error) {
	from, to, err := dateRange(q)
	if err != nil {
		return entity.ReferralReportFilter{}, err
	}
	userID, err := optionalUser(q.UserID)
	if err != nil {
		return entity.ReferralReportFilter{}, err
	}
	return entity.ReferralReportFilter{
		From:      from,
		To:        to,
		ClinicID:  q.ClinicID,
		UserID:    userID,
		Direction: q.Direction,
		State:     q.State,
	}, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
