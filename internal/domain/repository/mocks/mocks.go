// Package mocks holds func-field fakes of the repository contracts for unit
// tests. A nil func makes reads fail with ErrNotMocked and writes succeed.
package mocks

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotMocked = errors.New("not mocked")

// --- PatientRepository ---
var _ repository.PatientRepository = (*PatientRepository)(nil)

type PatientRepository struct {
	CreateFunc          func(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	UpdateFunc          func(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByIDFunc        func(ctx context.Context, db *gorm.DB, id int) (*entity.Patient, error)
	LockByIDFunc        func(ctx context.Context, db *gorm.DB, id int, strength string) (*entity.Patient, error)
	FindAllFunc         func(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.Patient, int64, error)
	FindAvailableFunc   func(ctx context.Context, db *gorm.DB) ([]entity.Patient, error)
	FindByGenderFunc    func(ctx context.Context, db *gorm.DB, gender string) ([]entity.Patient, error)
	FindByBirthDateFunc func(ctx context.Context, db *gorm.DB, bornBefore, bornAfter *time.Time) ([]entity.Patient, error)
	ExistsByCUIFunc     func(ctx context.Context, db *gorm.DB, cui string, excludeID int) (bool, error)
	UpdatePhotoFunc     func(ctx context.Context, db *gorm.DB, id int, key *string) error
	DeactivateFunc      func(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
	StatsFunc           func(ctx context.Context, db *gorm.DB, since time.Time) (*entity.PatientStats, error)

	CreateCalls     int32
	DeactivateCalls int32
}

func (m *PatientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	atomic.AddInt32(&m.CreateCalls, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, db, patient)
	}
	return nil
}

func (m *PatientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, db, patient)
	}
	return nil
}

func (m *PatientRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Patient, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

func (m *PatientRepository) LockByID(ctx context.Context, db *gorm.DB, id int, strength string) (*entity.Patient, error) {
	if m.LockByIDFunc != nil {
		return m.LockByIDFunc(ctx, db, id, strength)
	}
	return nil, ErrNotMocked
}

func (m *PatientRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.Patient, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, db, filter)
	}
	return nil, 0, ErrNotMocked
}

func (m *PatientRepository) FindAvailable(ctx context.Context, db *gorm.DB) ([]entity.Patient, error) {
	if m.FindAvailableFunc != nil {
		return m.FindAvailableFunc(ctx, db)
	}
	return nil, ErrNotMocked
}

func (m *PatientRepository) FindByGender(ctx context.Context, db *gorm.DB, gender string) ([]entity.Patient, error) {
	if m.FindByGenderFunc != nil {
		return m.FindByGenderFunc(ctx, db, gender)
	}
	return nil, ErrNotMocked
}

func (m *PatientRepository) FindByBirthDate(ctx context.Context, db *gorm.DB, bornBefore, bornAfter *time.Time) ([]entity.Patient, error) {
	if m.FindByBirthDateFunc != nil {
		return m.FindByBirthDateFunc(ctx, db, bornBefore, bornAfter)
	}
	return nil, ErrNotMocked
}

func (m *PatientRepository) ExistsByCUI(ctx context.Context, db *gorm.DB, cui string, excludeID int) (bool, error) {
	if m.ExistsByCUIFunc != nil {
		return m.ExistsByCUIFunc(ctx, db, cui, excludeID)
	}
	return false, nil
}

func (m *PatientRepository) UpdatePhoto(ctx context.Context, db *gorm.DB, id int, key *string) error {
	if m.UpdatePhotoFunc != nil {
		return m.UpdatePhotoFunc(ctx, db, id, key)
	}
	return nil
}

func (m *PatientRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	atomic.AddInt32(&m.DeactivateCalls, 1)
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, db, id, updatedBy)
	}
	return 1, nil
}

func (m *PatientRepository) Stats(ctx context.Context, db *gorm.DB, since time.Time) (*entity.PatientStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, db, since)
	}
	return nil, ErrNotMocked
}

// --- ExpedienteRepository ---
var _ repository.ExpedienteRepository = (*ExpedienteRepository)(nil)

type ExpedienteRepository struct {
	CreateFunc         func(ctx context.Context, db *gorm.DB, expediente *entity.Expediente) error
	UpdateFunc         func(ctx context.Context, db *gorm.DB, expediente *entity.Expediente) error
	FindByIDFunc       func(ctx context.Context, db *gorm.DB, id int) (*entity.Expediente, error)
	LockByIDFunc       func(ctx context.Context, db *gorm.DB, id int, strength string) (*entity.Expediente, error)
	FindAllFunc        func(ctx context.Context, db *gorm.DB, filter entity.ExpedienteFilter) ([]entity.Expediente, int64, error)
	FindAvailableFunc  func(ctx context.Context, db *gorm.DB) ([]entity.Expediente, error)
	FindLatestFunc     func(ctx context.Context, db *gorm.DB) (*entity.Expediente, error)
	ExistsByNumberFunc func(ctx context.Context, db *gorm.DB, number string, excludeID int) (bool, error)
	CountByPatientFunc func(ctx context.Context, db *gorm.DB, patientID int, status int) (int64, error)
	DeactivateFunc     func(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
	StatsFunc          func(ctx context.Context, db *gorm.DB, since time.Time) (*entity.ExpedienteStats, error)

	CreateCalls     int32
	DeactivateCalls int32
}

func (m *ExpedienteRepository) Create(ctx context.Context, db *gorm.DB, expediente *entity.Expediente) error {
	atomic.AddInt32(&m.CreateCalls, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, db, expediente)
	}
	return nil
}

func (m *ExpedienteRepository) Update(ctx context.Context, db *gorm.DB, expediente *entity.Expediente) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, db, expediente)
	}
	return nil
}

func (m *ExpedienteRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Expediente, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

func (m *ExpedienteRepository) LockByID(ctx context.Context, db *gorm.DB, id int, strength string) (*entity.Expediente, error) {
	if m.LockByIDFunc != nil {
		return m.LockByIDFunc(ctx, db, id, strength)
	}
	return nil, ErrNotMocked
}

func (m *ExpedienteRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.ExpedienteFilter) ([]entity.Expediente, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, db, filter)
	}
	return nil, 0, ErrNotMocked
}

func (m *ExpedienteRepository) FindAvailable(ctx context.Context, db *gorm.DB) ([]entity.Expediente, error) {
	if m.FindAvailableFunc != nil {
		return m.FindAvailableFunc(ctx, db)
	}
	return nil, ErrNotMocked
}

func (m *ExpedienteRepository) FindLatest(ctx context.Context, db *gorm.DB) (*entity.Expediente, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx, db)
	}
	return nil, ErrNotMocked
}

func (m *ExpedienteRepository) ExistsByNumber(ctx context.Context, db *gorm.DB, number string, excludeID int) (bool, error) {
	if m.ExistsByNumberFunc != nil {
		return m.ExistsByNumberFunc(ctx, db, number, excludeID)
	}
	return false, nil
}

func (m *ExpedienteRepository) CountByPatient(ctx context.Context, db *gorm.DB, patientID int, status int) (int64, error) {
	if m.CountByPatientFunc != nil {
		return m.CountByPatientFunc(ctx, db, patientID, status)
	}
	return 0, nil
}

func (m *ExpedienteRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	atomic.AddInt32(&m.DeactivateCalls, 1)
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, db, id, updatedBy)
	}
	return 1, nil
}

func (m *ExpedienteRepository) Stats(ctx context.Context, db *gorm.DB, since time.Time) (*entity.ExpedienteStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, db, since)
	}
	return nil, ErrNotMocked
}

// --- ClinicalSessionRepository ---
var _ repository.ClinicalSessionRepository = (*ClinicalSessionRepository)(nil)

type ClinicalSessionRepository struct {
	CreateFunc               func(ctx context.Context, db *gorm.DB, session *entity.ClinicalSession) error
	UpdateFunc               func(ctx context.Context, db *gorm.DB, session *entity.ClinicalSession) error
	FindByIDFunc             func(ctx context.Context, db *gorm.DB, id int) (*entity.ClinicalSession, error)
	FindByPatientFunc        func(ctx context.Context, db *gorm.DB, patientID int) ([]entity.ClinicalSession, error)
	CountActiveByPatientFunc func(ctx context.Context, db *gorm.DB, patientID int) (int64, error)
	DeactivateFunc           func(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)

	CreateCalls int32
}

func (m *ClinicalSessionRepository) Create(ctx context.Context, db *gorm.DB, session *entity.ClinicalSession) error {
	atomic.AddInt32(&m.CreateCalls, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, db, session)
	}
	return nil
}

func (m *ClinicalSessionRepository) Update(ctx context.Context, db *gorm.DB, session *entity.ClinicalSession) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, db, session)
	}
	return nil
}

func (m *ClinicalSessionRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.ClinicalSession, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

func (m *ClinicalSessionRepository) FindByPatient(ctx context.Context, db *gorm.DB, patientID int) ([]entity.ClinicalSession, error) {
	if m.FindByPatientFunc != nil {
		return m.FindByPatientFunc(ctx, db, patientID)
	}
	return nil, ErrNotMocked
}

func (m *ClinicalSessionRepository) CountActiveByPatient(ctx context.Context, db *gorm.DB, patientID int) (int64, error) {
	if m.CountActiveByPatientFunc != nil {
		return m.CountActiveByPatientFunc(ctx, db, patientID)
	}
	return 0, nil
}

func (m *ClinicalSessionRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, db, id, updatedBy)
	}
	return 1, nil
}

// --- AppointmentRepository ---
var _ repository.AppointmentRepository = (*AppointmentRepository)(nil)

type AppointmentRepository struct {
	CreateFunc     func(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	UpdateFunc     func(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByIDFunc   func(ctx context.Context, db *gorm.DB, id int) (*entity.Appointment, error)
	FindFunc       func(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	DeactivateFunc func(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
}

func (m *AppointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, db, appointment)
	}
	return nil
}

func (m *AppointmentRepository) Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, db, appointment)
	}
	return nil
}

func (m *AppointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Appointment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

func (m *AppointmentRepository) Find(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, db, filter)
	}
	return nil, ErrNotMocked
}

func (m *AppointmentRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, db, id, updatedBy)
	}
	return 1, nil
}

// --- ClinicRepository ---
var _ repository.ClinicRepository = (*ClinicRepository)(nil)

type ClinicRepository struct {
	FindAllFunc  func(ctx context.Context, db *gorm.DB) ([]entity.Clinic, error)
	FindByIDFunc func(ctx context.Context, db *gorm.DB, id int) (*entity.Clinic, error)
}

func (m *ClinicRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Clinic, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, db)
	}
	return nil, ErrNotMocked
}

func (m *ClinicRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Clinic, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

// --- ReferralRepository ---
var _ repository.ReferralRepository = (*ReferralRepository)(nil)

type ReferralRepository struct {
	CreateFunc                  func(ctx context.Context, db *gorm.DB, referral *entity.Referral) error
	FindByIDFunc                func(ctx context.Context, db *gorm.DB, id int) (*entity.Referral, error)
	FindByExpedienteFunc        func(ctx context.Context, db *gorm.DB, expedienteID int) ([]entity.Referral, error)
	CountActiveByExpedienteFunc func(ctx context.Context, db *gorm.DB, expedienteID int) (int64, error)
	CompleteFunc                func(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
	DeactivateFunc              func(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error)
}

func (m *ReferralRepository) Create(ctx context.Context, db *gorm.DB, referral *entity.Referral) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, db, referral)
	}
	return nil
}

func (m *ReferralRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Referral, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

func (m *ReferralRepository) FindByExpediente(ctx context.Context, db *gorm.DB, expedienteID int) ([]entity.Referral, error) {
	if m.FindByExpedienteFunc != nil {
		return m.FindByExpedienteFunc(ctx, db, expedienteID)
	}
	return nil, ErrNotMocked
}

func (m *ReferralRepository) CountActiveByExpediente(ctx context.Context, db *gorm.DB, expedienteID int) (int64, error) {
	if m.CountActiveByExpedienteFunc != nil {
		return m.CountActiveByExpedienteFunc(ctx, db, expedienteID)
	}
	return 0, nil
}

func (m *ReferralRepository) Complete(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, db, id, updatedBy)
	}
	return 1, nil
}

func (m *ReferralRepository) Deactivate(ctx context.Context, db *gorm.DB, id int, updatedBy string) (int64, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, db, id, updatedBy)
	}
	return 1, nil
}

// --- PatientFileRepository ---
var _ repository.PatientFileRepository = (*PatientFileRepository)(nil)

type PatientFileRepository struct {
	CreateFunc        func(ctx context.Context, db *gorm.DB, file *entity.PatientFile) error
	FindByIDFunc      func(ctx context.Context, db *gorm.DB, id int) (*entity.PatientFile, error)
	FindByKeyFunc     func(ctx context.Context, db *gorm.DB, key string) (*entity.PatientFile, error)
	FindByPatientFunc func(ctx context.Context, db *gorm.DB, patientID int) ([]entity.PatientFile, error)
	DeactivateFunc    func(ctx context.Context, db *gorm.DB, id int) (int64, error)

	CreateCalls int32
}

func (m *PatientFileRepository) Create(ctx context.Context, db *gorm.DB, file *entity.PatientFile) error {
	atomic.AddInt32(&m.CreateCalls, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, db, file)
	}
	return nil
}

func (m *PatientFileRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.PatientFile, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

func (m *PatientFileRepository) FindByKey(ctx context.Context, db *gorm.DB, key string) (*entity.PatientFile, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, db, key)
	}
	return nil, ErrNotMocked
}

func (m *PatientFileRepository) FindByPatient(ctx context.Context, db *gorm.DB, patientID int) ([]entity.PatientFile, error) {
	if m.FindByPatientFunc != nil {
		return m.FindByPatientFunc(ctx, db, patientID)
	}
	return nil, ErrNotMocked
}

func (m *PatientFileRepository) Deactivate(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, db, id)
	}
	return 1, nil
}

// --- UserRepository ---
var _ repository.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	CreateFunc         func(ctx context.Context, db *gorm.DB, user *entity.User) error
	UpdateFunc         func(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByIDFunc       func(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmailFunc    func(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByLoginFunc    func(ctx context.Context, db *gorm.DB, login string) (*entity.User, error)
	FindAllFunc        func(ctx context.Context, db *gorm.DB, search string, page entity.Pagination) ([]entity.User, int64, error)
	DeactivateFunc     func(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	UpdatePasswordFunc func(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string, mustChange bool) error
	CountByRoleFunc    func(ctx context.Context, db *gorm.DB, roleID int) (int64, error)
}

func (m *UserRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, db, user)
	}
	return nil
}

func (m *UserRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, db, user)
	}
	return nil
}

func (m *UserRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

func (m *UserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, db, email)
	}
	return nil, ErrNotMocked
}

func (m *UserRepository) FindByLogin(ctx context.Context, db *gorm.DB, login string) (*entity.User, error) {
	if m.FindByLoginFunc != nil {
		return m.FindByLoginFunc(ctx, db, login)
	}
	return nil, ErrNotMocked
}

func (m *UserRepository) FindAll(ctx context.Context, db *gorm.DB, search string, page entity.Pagination) ([]entity.User, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, db, search, page)
	}
	return nil, 0, ErrNotMocked
}

func (m *UserRepository) Deactivate(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, db, id)
	}
	return 1, nil
}

func (m *UserRepository) UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string, mustChange bool) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, db, id, hash, mustChange)
	}
	return nil
}

func (m *UserRepository) CountByRole(ctx context.Context, db *gorm.DB, roleID int) (int64, error) {
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx, db, roleID)
	}
	return 0, nil
}

// --- RoleRepository ---
var _ repository.RoleRepository = (*RoleRepository)(nil)

type RoleRepository struct {
	FindAllFunc    func(ctx context.Context, db *gorm.DB) ([]entity.Role, error)
	FindByIDFunc   func(ctx context.Context, db *gorm.DB, id int) (*entity.Role, error)
	FindByNameFunc func(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
}

func (m *RoleRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Role, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, db)
	}
	return nil, ErrNotMocked
}

func (m *RoleRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Role, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

func (m *RoleRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, db, name)
	}
	return nil, ErrNotMocked
}

// --- AuditLogRepository ---
var _ repository.AuditLogRepository = (*AuditLogRepository)(nil)

type AuditLogRepository struct {
	CreateFunc   func(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindAllFunc  func(ctx context.Context, db *gorm.DB, action string, page entity.Pagination) ([]entity.AuditLog, int64, error)
	FindByIDFunc func(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error)

	// Created collects every entry passed to Create.
	Created []*entity.AuditLog
}

func (m *AuditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	m.Created = append(m.Created, log)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, db, log)
	}
	return nil
}

func (m *AuditLogRepository) FindAll(ctx context.Context, db *gorm.DB, action string, page entity.Pagination) ([]entity.AuditLog, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, db, action, page)
	}
	return nil, 0, ErrNotMocked
}

func (m *AuditLogRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, db, id)
	}
	return nil, ErrNotMocked
}

// --- ReportRepository ---
var _ repository.ReportRepository = (*ReportRepository)(nil)

type ReportRepository struct {
	DashboardFunc      func(ctx context.Context, db *gorm.DB, viewer *uuid.UUID, monthStart time.Time) (*entity.DashboardSummary, error)
	PatientsFunc       func(ctx context.Context, db *gorm.DB, filter entity.PatientReportFilter, now time.Time) ([]entity.PatientReportRow, int64, error)
	PatientSummaryFunc func(ctx context.Context, db *gorm.DB, filter entity.PatientReportFilter, now time.Time) (*entity.PatientReportSummary, error)
	AgeGroupsFunc      func(ctx context.Context, db *gorm.DB, now time.Time) (*entity.AgeGroupCount, error)
	ConsultationsFunc  func(ctx context.Context, db *gorm.DB, filter entity.ConsultationReportFilter, viewer *uuid.UUID) ([]entity.ConsultationReportRow, int64, error)
	AppointmentsFunc   func(ctx context.Context, db *gorm.DB, filter entity.AppointmentReportFilter, viewer *uuid.UUID) ([]entity.AppointmentReportRow, int64, *entity.TransportSummary, error)
	ReferralsFunc      func(ctx context.Context, db *gorm.DB, filter entity.ReferralReportFilter, viewer *uuid.UUID) ([]entity.ReferralReportRow, int64, error)
}

func (m *ReportRepository) Dashboard(ctx context.Context, db *gorm.DB, viewer *uuid.UUID, monthStart time.Time) (*entity.DashboardSummary, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx, db, viewer, monthStart)
	}
	return nil, ErrNotMocked
}

func (m *ReportRepository) Patients(ctx context.Context, db *gorm.DB, filter entity.PatientReportFilter, now time.Time) ([]entity.PatientReportRow, int64, error) {
	if m.PatientsFunc != nil {
		return m.PatientsFunc(ctx, db, filter, now)
	}
	return nil, 0, ErrNotMocked
}

func (m *ReportRepository) PatientSummary(ctx context.Context, db *gorm.DB, filter entity.PatientReportFilter, now time.Time) (*entity.PatientReportSummary, error) {
	if m.PatientSummaryFunc != nil {
		return m.PatientSummaryFunc(ctx, db, filter, now)
	}
	return nil, ErrNotMocked
}

func (m *ReportRepository) AgeGroups(ctx context.Context, db *gorm.DB, now time.Time) (*entity.AgeGroupCount, error) {
	if m.AgeGroupsFunc != nil {
		return m.AgeGroupsFunc(ctx, db, now)
	}
	return nil, ErrNotMocked
}

func (m *ReportRepository) Consultations(ctx context.Context, db *gorm.DB, filter entity.ConsultationReportFilter, viewer *uuid.UUID) ([]entity.ConsultationReportRow, int64, error) {
	if m.ConsultationsFunc != nil {
		return m.ConsultationsFunc(ctx, db, filter, viewer)
	}
	return nil, 0, ErrNotMocked
}

func (m *ReportRepository) Appointments(ctx context.Context, db *gorm.DB, filter entity.AppointmentReportFilter, viewer *uuid.UUID) ([]entity.AppointmentReportRow, int64, *entity.TransportSummary, error) {
	if m.AppointmentsFunc != nil {
		return m.AppointmentsFunc(ctx, db, filter, viewer)
	}
	return nil, 0, nil, ErrNotMocked
}

func (m *ReportRepository) Referrals(ctx context.Context, db *gorm.DB, filter entity.ReferralReportFilter, viewer *uuid.UUID) ([]entity.ReferralReportRow, int64, error) {
	if m.ReferralsFunc != nil {
		return m.ReferralsFunc(ctx, db, filter, viewer)
	}
	return nil, 0, ErrNotMocked
}
