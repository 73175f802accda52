package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"clinic-management-api/internal/converter"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/infrastructure/database"
	"clinic-management-api/internal/infrastructure/storage"
	"clinic-management-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrNoPhoto         = errors.New("patient has no photo")
	ErrNoFiles         = errors.New("no files were uploaded")
	ErrTooManyFiles    = errors.New("too many files in one request")
	ErrSessionMismatch = errors.New("clinical session does not belong to the patient")
)

const (
	photoKeyPrefix    = "photos"
	documentKeyPrefix = "documents"
)

type PatientFileUsecase interface {
	UploadPhoto(ctx context.Context, patientID int, file dto.UploadedFile) (*dto.PatientFileResponse, error)
	GetPhoto(ctx context.Context, patientID int) (*dto.FileDownload, error)
	DeletePhoto(ctx context.Context, patientID int) error
	UploadDocuments(ctx context.Context, patientID int, sessionID *int, files []dto.UploadedFile) ([]dto.PatientFileResponse, error)
	GetPatientFiles(ctx context.Context, patientID int) ([]dto.PatientFileResponse, error)
	GetFile(ctx context.Context, id int) (*dto.FileDownload, error)
	DeleteFile(ctx context.Context, id int) error
}

type patientFileUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	transactor   database.Transactor
	fileRepo     repository.PatientFileRepository
	patientRepo  repository.PatientRepository
	sessionRepo  repository.ClinicalSessionRepository
	auditService service.AuditService
	store        storage.Storage
	policy       service.UploadPolicy
	maxFiles     int
}

func NewPatientFileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor database.Transactor,
	fileRepo repository.PatientFileRepository,
	patientRepo repository.PatientRepository,
	sessionRepo repository.ClinicalSessionRepository,
	auditService service.AuditService,
	store storage.Storage,
	policy service.UploadPolicy,
	maxFiles int,
) PatientFileUsecase {
	return &patientFileUsecase{
		db:           db,
		log:          log,
		transactor:   transactor,
		fileRepo:     fileRepo,
		patientRepo:  patientRepo,
		sessionRepo:  sessionRepo,
		auditService: auditService,
		store:        store,
		policy:       policy,
		maxFiles:     maxFiles,
	}
}

// UploadPhoto stores a new profile photo and retires the previous one. The
// old blob is removed only after the database points at the new key.
func (u *patientFileUsecase) UploadPhoto(ctx context.Context, patientID int, file dto.UploadedFile) (*dto.PatientFileResponse, error) {
	sniffed, err := u.policy.CheckImage(file.Body, file.Size)
	if err != nil {
		return nil, err
	}

	actorID, _ := middleware.Actor(ctx)
	record := &entity.PatientFile{
		PatientID:    patientID,
		Kind:         entity.FileKindPhoto,
		StorageKey:   storage.NewKey(photoKeyPrefix, patientID, sniffed.Extension),
		OriginalName: filepath.Base(file.Name),
		ContentType:  sniffed.ContentType,
		SizeBytes:    sniffed.Size,
		UploadedBy:   actorID,
		Status:       entity.StatusActive,
	}

	if err := u.store.Put(ctx, record.StorageKey, record.ContentType, file.Body, file.Size); err != nil {
		u.log.Warnf("Failed to store photo: %+v", err)
		return nil, err
	}

	var oldKey *string
	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.LockByID(ctx, tx, patientID, repository.LockForUpdate)
		if err != nil {
			u.log.Warnf("Failed to lock patient: %+v", err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		oldKey = patient.PhotoKey

		if oldKey != nil {
			if err := u.retireByKey(ctx, tx, *oldKey); err != nil {
				return err
			}
		}

		if err := u.fileRepo.Create(ctx, tx, record); err != nil {
			u.log.Warnf("Failed to create file record: %+v", err)
			return err
		}
		if err := u.patientRepo.UpdatePhoto(ctx, tx, patientID, &record.StorageKey); err != nil {
			u.log.Warnf("Failed to update patient photo: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionPatientFileUpload, "patient_file", strconv.Itoa(record.ID), converter.PatientFileToResponse(record))
	})
	if err != nil {
		u.removeBlob(ctx, record.StorageKey)
		return nil, err
	}

	if oldKey != nil {
		u.removeBlob(ctx, *oldKey)
	}
	return converter.PatientFileToResponse(record), nil
}

func (u *patientFileUsecase) GetPhoto(ctx context.Context, patientID int) (*dto.FileDownload, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if patient.PhotoKey == nil {
		return nil, ErrNoPhoto
	}

	name := fmt.Sprintf("patient-%d%s", patientID, filepath.Ext(*patient.PhotoKey))
	return u.open(ctx, *patient.PhotoKey, name)
}

func (u *patientFileUsecase) DeletePhoto(ctx context.Context, patientID int) error {
	actorID, _ := middleware.Actor(ctx)
	var key string

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.LockByID(ctx, tx, patientID, repository.LockForUpdate)
		if err != nil {
			u.log.Warnf("Failed to lock patient: %+v", err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		if patient.PhotoKey == nil {
			return ErrNoPhoto
		}
		key = *patient.PhotoKey

		if err := u.retireByKey(ctx, tx, key); err != nil {
			return err
		}
		if err := u.patientRepo.UpdatePhoto(ctx, tx, patientID, nil); err != nil {
			u.log.Warnf("Failed to clear patient photo: %+v", err)
			return err
		}

		return u.auditService.LogEvent(ctx, tx, actorID, entity.AuditActionPatientFileDelete, map[string]interface{}{
			"entity":    "patient",
			"entity_id": strconv.Itoa(patientID),
			"key":       key,
		})
	})
	if err != nil {
		return err
	}

	u.removeBlob(ctx, key)
	return nil
}

// UploadDocuments stores up to maxFiles documents in one request. Either all
// records are committed or every stored blob is removed again.
func (u *patientFileUsecase) UploadDocuments(ctx context.Context, patientID int, sessionID *int, files []dto.UploadedFile) ([]dto.PatientFileResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if u.maxFiles > 0 && len(files) > u.maxFiles {
		return nil, fmt.Errorf("%w (max %d)", ErrTooManyFiles, u.maxFiles)
	}

	actorID, _ := middleware.Actor(ctx)
	records := make([]*entity.PatientFile, 0, len(files))
	for _, f := range files {
		sniffed, err := u.policy.CheckDocument(f.Body, f.Size)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(f.Name), err)
		}
		records = append(records, &entity.PatientFile{
			PatientID:    patientID,
			SessionID:    sessionID,
			Kind:         entity.FileKindDocument,
			StorageKey:   storage.NewKey(documentKeyPrefix, patientID, sniffed.Extension),
			OriginalName: filepath.Base(f.Name),
			ContentType:  sniffed.ContentType,
			SizeBytes:    sniffed.Size,
			UploadedBy:   actorID,
			Status:       entity.StatusActive,
		})
	}

	var stored []string
	cleanup := func() {
		for _, key := range stored {
			u.removeBlob(ctx, key)
		}
	}

	for i, record := range records {
		if err := u.store.Put(ctx, record.StorageKey, record.ContentType, files[i].Body, files[i].Size); err != nil {
			u.log.Warnf("Failed to store document: %+v", err)
			cleanup()
			return nil, err
		}
		stored = append(stored, record.StorageKey)
	}

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.LockByID(ctx, tx, patientID, repository.LockForShare)
		if err != nil {
			u.log.Warnf("Failed to lock patient: %+v", err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}

		if sessionID != nil {
			session, err := u.sessionRepo.FindByID(ctx, tx, *sessionID)
			if err != nil {
				u.log.Warnf("Failed to find clinical session: %+v", err)
				return err
			}
			if session == nil {
				return ErrSessionNotFound
			}
			if session.PatientID != patientID {
				return ErrSessionMismatch
			}
		}

		for _, record := range records {
			if err := u.fileRepo.Create(ctx, tx, record); err != nil {
				u.log.Warnf("Failed to create file record: %+v", err)
				return err
			}
			if err := u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionPatientFileUpload, "patient_file", strconv.Itoa(record.ID), converter.PatientFileToResponse(record)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	responses := make([]dto.PatientFileResponse, len(records))
	for i, record := range records {
		responses[i] = *converter.PatientFileToResponse(record)
	}
	return responses, nil
}

func (u *patientFileUsecase) GetPatientFiles(ctx context.Context, patientID int) ([]dto.PatientFileResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	files, err := u.fileRepo.FindByPatient(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient files: %+v", err)
		return nil, err
	}
	return converter.PatientFilesToResponses(files), nil
}

func (u *patientFileUsecase) GetFile(ctx context.Context, id int) (*dto.FileDownload, error) {
	file, err := u.fileRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find file: %+v", err)
		return nil, err
	}
	if file == nil {
		return nil, ErrFileNotFound
	}
	return u.open(ctx, file.StorageKey, file.OriginalName)
}

func (u *patientFileUsecase) DeleteFile(ctx context.Context, id int) error {
	actorID, _ := middleware.Actor(ctx)
	var key string

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		file, err := u.fileRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find file: %+v", err)
			return err
		}
		if file == nil {
			return ErrFileNotFound
		}
		key = file.StorageKey

		rows, err := u.fileRepo.Deactivate(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to deactivate file: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrFileNotFound
		}

		if file.Kind == entity.FileKindPhoto {
			patient, err := u.patientRepo.LockByID(ctx, tx, file.PatientID, repository.LockForUpdate)
			if err != nil {
				u.log.Warnf("Failed to lock patient: %+v", err)
				return err
			}
			if patient != nil && patient.PhotoKey != nil && *patient.PhotoKey == key {
				if err := u.patientRepo.UpdatePhoto(ctx, tx, file.PatientID, nil); err != nil {
					u.log.Warnf("Failed to clear patient photo: %+v", err)
					return err
				}
			}
		}

		return u.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionPatientFileDelete, "patient_file", strconv.Itoa(id), converter.PatientFileToResponse(file))
	})
	if err != nil {
		return err
	}

	u.removeBlob(ctx, key)
	return nil
}

func (u *patientFileUsecase) retireByKey(ctx context.Context, tx *gorm.DB, key string) error {
	old, err := u.fileRepo.FindByKey(ctx, tx, key)
	if err != nil {
		u.log.Warnf("Failed to find file by key: %+v", err)
		return err
	}
	if old == nil {
		return nil
	}
	if _, err := u.fileRepo.Deactivate(ctx, tx, old.ID); err != nil {
		u.log.Warnf("Failed to deactivate file: %+v", err)
		return err
	}
	return nil
}

func (u *patientFileUsecase) open(ctx context.Context, key, name string) (*dto.FileDownload, error) {
	obj, url, err := u.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		u.log.Warnf("Failed to open stored file: %+v", err)
		return nil, err
	}
	if url != "" {
		return &dto.FileDownload{Name: name, RedirectURL: url}, nil
	}
	return &dto.FileDownload{
		Name:        name,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		Body:        obj.Body,
	}, nil
}

// removeBlob is best effort; an orphaned blob is logged and left behind.
func (u *patientFileUsecase) removeBlob(ctx context.Context, key string) {
	if err := u.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		u.log.WithField("key", key).Warnf("Failed to delete stored file: %+v", err)
	}
}
