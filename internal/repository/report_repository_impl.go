package repository

import (
	"context"
	"strings"
	"time"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reportRepository struct{}

func NewReportRepository() domainRepo.ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) Dashboard(ctx context.Context, db *gorm.DB, viewer *uuid.UUID, monthStart time.Time) (*entity.DashboardSummary, error) {
	summary := &entity.DashboardSummary{}
	db = db.WithContext(ctx)

	patients := db.Model(&entity.Patient{})
	if err := patients.Session(&gorm.Session{}).Count(&summary.Patients.Total).Error; err != nil {
		return nil, err
	}
	if err := patients.Session(&gorm.Session{}).Where("status = ?", entity.StatusActive).Count(&summary.Patients.Active).Error; err != nil {
		return nil, err
	}
	summary.Patients.Inactive = summary.Patients.Total - summary.Patients.Active
	err := patients.Session(&gorm.Session{}).
		Where("status = ? AND created_at >= ?", entity.StatusActive, monthStart).
		Count(&summary.Patients.NewThisMonth).Error
	if err != nil {
		return nil, err
	}

	sessions := db.Model(&entity.ClinicalSession{}).
		Where("status = ? AND session_date >= ?", entity.StatusActive, monthStart)
	if viewer != nil {
		sessions = sessions.Where("user_id = ?", *viewer)
	}
	if err := sessions.Count(&summary.ConsultationsThisMonth).Error; err != nil {
		return nil, err
	}

	appointments := db.Model(&entity.Appointment{}).
		Where("status = ? AND date >= ?", entity.StatusActive, monthStart.Format("2006-01-02"))
	if viewer != nil {
		appointments = appointments.Where("user_id = ?", *viewer)
	}
	if err := appointments.Count(&summary.AppointmentsThisMonth).Error; err != nil {
		return nil, err
	}

	referrals := db.Model(&entity.Referral{}).Where("status = ?", entity.StatusActive)
	if viewer != nil {
		referrals = referrals.Where("user_id = ? OR target_user_id = ?", *viewer, *viewer)
	}
	counts := &summary.Referrals
	err = referrals.Select(
		"COUNT(*) AS total, " +
			"COUNT(*) FILTER (WHERE completed) AS completed, " +
			"COUNT(*) FILTER (WHERE NOT completed) AS pending",
	).Scan(counts).Error
	if err != nil {
		return nil, err
	}
	if viewer != nil {
		var direction struct {
			Sent     int64
			Received int64
		}
		err = db.Model(&entity.Referral{}).
			Where("status = ?", entity.StatusActive).
			Select("COUNT(*) FILTER (WHERE user_id = ?) AS sent, COUNT(*) FILTER (WHERE target_user_id = ?) AS received", *viewer, *viewer).
			Scan(&direction).Error
		if err != nil {
			return nil, err
		}
		counts.Sent = direction.Sent
		counts.Received = direction.Received
	}

	return summary, nil
}

// patientReportQuery applies the report filter to active patients. Age
// bounds are turned into birth date bounds relative to now.
func (r *reportRepository) patientReportQuery(db *gorm.DB, filter entity.PatientReportFilter, now time.Time) *gorm.DB {
	query := db.Model(&entity.Patient{}).Where("patients.status = ?", entity.StatusActive)

	if filter.From != nil {
		query = query.Where("patients.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("patients.created_at < ?", filter.To.AddDate(0, 0, 1))
	}
	if filter.Gender != "" {
		query = query.Where("patients.gender = ?", filter.Gender)
	}
	if m := strings.TrimSpace(filter.Municipality); m != "" {
		query = query.Where("patients.municipality ILIKE ?", "%"+m+"%")
	}
	if d := strings.TrimSpace(filter.DisabilityType); d != "" {
		query = query.Where("patients.disability_type ILIKE ?", "%"+d+"%")
	}
	if filter.AgeMin != nil {
		query = query.Where("patients.birth_date <= ?", now.AddDate(-*filter.AgeMin, 0, 0))
	}
	if filter.AgeMax != nil {
		query = query.Where("patients.birth_date > ?", now.AddDate(-(*filter.AgeMax + 1), 0, 0))
	}
	return query
}

func (r *reportRepository) Patients(ctx context.Context, db *gorm.DB, filter entity.PatientReportFilter, now time.Time) ([]entity.PatientReportRow, int64, error) {
	var rows []entity.PatientReportRow
	var total int64

	query := r.patientReportQuery(db.WithContext(ctx), filter, now)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select("patients.id, patients.first_names, patients.last_names, patients.cui, patients.gender, " +
			"patients.birth_date, patients.municipality, patients.disability_type, patients.created_at, " +
			"(SELECT COUNT(*) FROM expedientes e WHERE e.patient_id = patients.id AND e.status = 1) AS expedientes").
		Order("patients.last_names ASC, patients.first_names ASC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range rows {
		rows[i].Age = entity.AgeAt(rows[i].BirthDate, now)
	}
	return rows, total, nil
}

func (r *reportRepository) PatientSummary(ctx context.Context, db *gorm.DB, filter entity.PatientReportFilter, now time.Time) (*entity.PatientReportSummary, error) {
	summary := &entity.PatientReportSummary{}
	query := r.patientReportQuery(db.WithContext(ctx), filter, now)

	if err := query.Session(&gorm.Session{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}

	err := query.Session(&gorm.Session{}).
		Select("patients.gender, COUNT(*) AS total").
		Group("patients.gender").
		Order("patients.gender").
		Scan(&summary.ByGender).Error
	if err != nil {
		return nil, err
	}

	err = query.Session(&gorm.Session{}).
		Where("EXISTS (SELECT 1 FROM expedientes e WHERE e.patient_id = patients.id AND e.status = ?)", entity.StatusActive).
		Count(&summary.WithExpediente).Error
	if err != nil {
		return nil, err
	}
	summary.WithoutExpediente = summary.Total - summary.WithExpediente

	return summary, nil
}

func (r *reportRepository) AgeGroups(ctx context.Context, db *gorm.DB, now time.Time) (*entity.AgeGroupCount, error) {
	groups := &entity.AgeGroupCount{}
	adultBorn := now.AddDate(-entity.AdultAge, 0, 0)

	err := db.WithContext(ctx).Model(&entity.Patient{}).
		Where("status = ?", entity.StatusActive).
		Select("COUNT(*) FILTER (WHERE birth_date <= ?) AS adults, COUNT(*) FILTER (WHERE birth_date > ?) AS minors", adultBorn, adultBorn).
		Scan(groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *reportRepository) Consultations(ctx context.Context, db *gorm.DB, filter entity.ConsultationReportFilter, viewer *uuid.UUID) ([]entity.ConsultationReportRow, int64, error) {
	var rows []entity.ConsultationReportRow
	var total int64

	query := db.WithContext(ctx).Table("clinical_sessions cs").
		Joins("JOIN patients p ON p.id = cs.patient_id").
		Joins("JOIN users u ON u.id = cs.user_id").
		Where("cs.status = ?", entity.StatusActive)

	if filter.From != nil {
		query = query.Where("cs.session_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("cs.session_date < ?", filter.To.AddDate(0, 0, 1))
	}
	if viewer != nil {
		query = query.Where("cs.user_id = ?", *viewer)
	} else if filter.UserID != nil {
		query = query.Where("cs.user_id = ?", *filter.UserID)
	}
	if filter.PatientID != nil {
		query = query.Where("cs.patient_id = ?", *filter.PatientID)
	}
	if d := strings.TrimSpace(filter.Diagnosis); d != "" {
		query = query.Where("cs.diagnosis_treatment ILIKE ?", "%"+d+"%")
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select("cs.id, cs.session_date, cs.patient_id, " +
			"p.first_names || ' ' || p.last_names AS patient_name, p.cui AS patient_cui, " +
			"u.first_name || ' ' || u.last_name AS therapist, " +
			"cs.chief_complaint, cs.diagnosis_treatment").
		Order("cs.session_date DESC, cs.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *reportRepository) Appointments(ctx context.Context, db *gorm.DB, filter entity.AppointmentReportFilter, viewer *uuid.UUID) ([]entity.AppointmentReportRow, int64, *entity.TransportSummary, error) {
	var rows []entity.AppointmentReportRow
	var total int64

	query := db.WithContext(ctx).Table("appointments a").
		Joins("JOIN patients p ON p.id = a.patient_id").
		Joins("JOIN users u ON u.id = a.user_id").
		Where("a.status = ?", entity.StatusActive)

	if filter.From != nil {
		query = query.Where("a.date >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		query = query.Where("a.date <= ?", filter.To.Format("2006-01-02"))
	}
	if viewer != nil {
		query = query.Where("a.user_id = ?", *viewer)
	} else if filter.UserID != nil {
		query = query.Where("a.user_id = ?", *filter.UserID)
	}

	// The transport summary ignores the transport filter so both totals stay comparable.
	transport := &entity.TransportSummary{}
	err := query.Session(&gorm.Session{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE a.transport) AS with_transport").
		Scan(transport).Error
	if err != nil {
		return nil, 0, nil, err
	}

	if filter.Transport != nil {
		query = query.Where("a.transport = ?", *filter.Transport)
	}
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, nil, err
	}

	err = query.
		Select("a.id, a.date, to_char(a.time, 'HH24:MI') AS time, " +
			"p.first_names || ' ' || p.last_names AS patient_name, " +
			"u.first_name || ' ' || u.last_name AS therapist, " +
			"a.transport, a.transport_date, to_char(a.transport_time, 'HH24:MI') AS transport_time, " +
			"a.address, a.comment").
		Order("a.date ASC, a.time ASC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, nil, err
	}
	return rows, total, transport, nil
}

func (r *reportRepository) Referrals(ctx context.Context, db *gorm.DB, filter entity.ReferralReportFilter, viewer *uuid.UUID) ([]entity.ReferralReportRow, int64, error) {
	var rows []entity.ReferralReportRow
	var total int64

	query := db.WithContext(ctx).Table("referrals r").
		Joins("JOIN patients p ON p.id = r.patient_id").
		Joins("JOIN expedientes e ON e.id = r.expediente_id").
		Joins("JOIN clinics c ON c.id = r.clinic_id").
		Joins("JOIN users fu ON fu.id = r.user_id").
		Joins("LEFT JOIN users tu ON tu.id = r.target_user_id").
		Where("r.status = ?", entity.StatusActive)

	if filter.From != nil {
		query = query.Where("r.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("r.created_at < ?", filter.To.AddDate(0, 0, 1))
	}
	if filter.ClinicID != nil {
		query = query.Where("r.clinic_id = ?", *filter.ClinicID)
	}

	subject := filter.UserID
	if viewer != nil {
		subject = viewer
	}
	if subject != nil {
		switch filter.Direction {
		case "sent":
			query = query.Where("r.user_id = ?", *subject)
		case "received":
			query = query.Where("r.target_user_id = ?", *subject)
		default:
			query = query.Where("r.user_id = ? OR r.target_user_id = ?", *subject, *subject)
		}
	}

	switch filter.State {
	case "pending":
		query = query.Where("r.completed = ?", false)
	case "completed":
		query = query.Where("r.completed = ?", true)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select("r.id, r.created_at, p.first_names || ' ' || p.last_names AS patient_name, " +
			"e.number AS expediente_number, c.name AS clinic_name, " +
			"r.user_id, fu.first_name || ' ' || fu.last_name AS from_user, " +
			"r.target_user_id, COALESCE(tu.first_name || ' ' || tu.last_name, '') AS to_user, r.completed").
		Order("r.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
