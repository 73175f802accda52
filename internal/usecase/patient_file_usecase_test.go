package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository/mocks"
	"clinic-management-api/internal/infrastructure/storage"
	"clinic-management-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pdfBytes = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
)

type fileFixture struct {
	store      *storage.LocalStorage
	files      *mocks.PatientFileRepository
	patients   *mocks.PatientRepository
	sessions   *mocks.ClinicalSessionRepository
	transactor *mocks.Transactor
	audits     *mocks.AuditLogRepository
	photoKey   *string
	records    map[int]*entity.PatientFile
}

func newFileFixture(t *testing.T) *fileFixture {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	f := &fileFixture{
		store:      store,
		transactor: &mocks.Transactor{},
		records:    map[int]*entity.PatientFile{},
		sessions:   &mocks.ClinicalSessionRepository{},
	}
	f.patients = &mocks.PatientRepository{
		FindByIDFunc: func(_ context.Context, _ *gorm.DB, id int) (*entity.Patient, error) {
			p := activePatient(id)
			p.PhotoKey = f.photoKey
			return p, nil
		},
		LockByIDFunc: func(_ context.Context, _ *gorm.DB, id int, _ string) (*entity.Patient, error) {
			p := activePatient(id)
			p.PhotoKey = f.photoKey
			return p, nil
		},
		UpdatePhotoFunc: func(_ context.Context, _ *gorm.DB, _ int, key *string) error {
			f.photoKey = key
			return nil
		},
	}
	f.files = &mocks.PatientFileRepository{
		CreateFunc: func(_ context.Context, _ *gorm.DB, file *entity.PatientFile) error {
			file.ID = len(f.records) + 1
			f.records[file.ID] = file
			return nil
		},
		FindByIDFunc: func(_ context.Context, _ *gorm.DB, id int) (*entity.PatientFile, error) {
			if r, ok := f.records[id]; ok && r.Status == entity.StatusActive {
				return r, nil
			}
			return nil, nil
		},
		FindByKeyFunc: func(_ context.Context, _ *gorm.DB, key string) (*entity.PatientFile, error) {
			for _, r := range f.records {
				if r.StorageKey == key && r.Status == entity.StatusActive {
					return r, nil
				}
			}
			return nil, nil
		},
		DeactivateFunc: func(_ context.Context, _ *gorm.DB, id int) (int64, error) {
			if r, ok := f.records[id]; ok && r.Status == entity.StatusActive {
				r.Status = entity.StatusInactive
				return 1, nil
			}
			return 0, nil
		},
	}
	return f
}

func (f *fileFixture) usecase() PatientFileUsecase {
	audit, audits := newAudit()
	f.audits = audits
	return NewPatientFileUsecase(nil, quietLogger(), f.transactor, f.files, f.patients, f.sessions, audit, f.store, service.UploadPolicy{MaxBytes: 1 << 10}, 2)
}

func upload(name string, body []byte) dto.UploadedFile {
	return dto.UploadedFile{Name: name, Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func (f *fileFixture) exists(t *testing.T, key string) bool {
	obj, _, err := f.store.Open(context.Background(), key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return false
	}
	require.NoError(t, err)
	obj.Body.Close()
	return true
}

func TestUploadPhoto_ReplacesPrevious(t *testing.T) {
	f := newFileFixture(t)
	uc := f.usecase()
	ctx := actorCtx(entity.RoleIDReceptionist)

	first, err := uc.UploadPhoto(ctx, 4, upload("me.png", pngBytes))
	require.NoError(t, err)
	firstKey := *f.photoKey
	assert.True(t, strings.HasPrefix(firstKey, "photos/4/"))
	assert.True(t, strings.HasSuffix(firstKey, ".png"))
	assert.Equal(t, "image/png", first.ContentType)

	_, err = uc.UploadPhoto(ctx, 4, upload("me2.png", pngBytes))
	require.NoError(t, err)

	assert.NotEqual(t, firstKey, *f.photoKey)
	assert.False(t, f.exists(t, firstKey))
	assert.True(t, f.exists(t, *f.photoKey))
	assert.Equal(t, entity.StatusInactive, f.records[first.ID].Status)
	assert.Len(t, f.audits.Created, 2)
}

func TestUploadPhoto_RejectsDocument(t *testing.T) {
	f := newFileFixture(t)

	_, err := f.usecase().UploadPhoto(actorCtx(entity.RoleIDReceptionist), 4, upload("scan.pdf", pdfBytes))
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
	assert.Zero(t, f.transactor.Calls)
}

func TestUploadPhoto_UnknownPatient(t *testing.T) {
	f := newFileFixture(t)
	f.patients.LockByIDFunc = func(context.Context, *gorm.DB, int, string) (*entity.Patient, error) { return nil, nil }

	var putKey string
	f.files.CreateFunc = func(_ context.Context, _ *gorm.DB, file *entity.PatientFile) error {
		putKey = file.StorageKey
		return nil
	}

	_, err := f.usecase().UploadPhoto(actorCtx(entity.RoleIDReceptionist), 4, upload("me.png", pngBytes))
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Empty(t, putKey)
	assert.Nil(t, f.photoKey)
}

func TestGetPhoto(t *testing.T) {
	f := newFileFixture(t)
	uc := f.usecase()

	_, err := uc.GetPhoto(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNoPhoto)

	_, err = uc.UploadPhoto(actorCtx(entity.RoleIDReceptionist), 4, upload("me.png", pngBytes))
	require.NoError(t, err)

	dl, err := uc.GetPhoto(context.Background(), 4)
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, "patient-4.png", dl.Name)
	body, _ := io.ReadAll(dl.Body)
	assert.Equal(t, pngBytes, body)
}

func TestDeletePhoto(t *testing.T) {
	f := newFileFixture(t)
	uc := f.usecase()
	ctx := actorCtx(entity.RoleIDReceptionist)

	_, err := uc.UploadPhoto(ctx, 4, upload("me.png", pngBytes))
	require.NoError(t, err)
	key := *f.photoKey

	require.NoError(t, uc.DeletePhoto(ctx, 4))
	assert.Nil(t, f.photoKey)
	assert.False(t, f.exists(t, key))

	assert.ErrorIs(t, uc.DeletePhoto(ctx, 4), ErrNoPhoto)
}

func TestUploadDocuments(t *testing.T) {
	f := newFileFixture(t)
	uc := f.usecase()
	ctx := actorCtx(entity.RoleIDTherapist)

	resp, err := uc.UploadDocuments(ctx, 4, nil, []dto.UploadedFile{
		upload("lab.pdf", pdfBytes),
		upload("x-ray.png", pngBytes),
	})
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "application/pdf", resp[0].ContentType)
	assert.Equal(t, "/api/v1/files/1", resp[0].URL)
	for _, r := range f.records {
		assert.True(t, f.exists(t, r.StorageKey))
		assert.Equal(t, entity.FileKindDocument, r.Kind)
	}
}

func TestUploadDocuments_Limits(t *testing.T) {
	f := newFileFixture(t)
	uc := f.usecase()
	ctx := actorCtx(entity.RoleIDTherapist)

	_, err := uc.UploadDocuments(ctx, 4, nil, nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = uc.UploadDocuments(ctx, 4, nil, []dto.UploadedFile{
		upload("a.pdf", pdfBytes), upload("b.pdf", pdfBytes), upload("c.pdf", pdfBytes),
	})
	assert.ErrorIs(t, err, ErrTooManyFiles)

	_, err = uc.UploadDocuments(ctx, 4, nil, []dto.UploadedFile{
		upload("a.pdf", pdfBytes), upload("notes.txt", []byte("plain text")),
	})
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
	assert.Contains(t, err.Error(), "notes.txt")
	assert.Zero(t, f.transactor.Calls)
}

func TestUploadDocuments_SessionOfOtherPatientRollsBack(t *testing.T) {
	f := newFileFixture(t)
	f.sessions.FindByIDFunc = func(_ context.Context, _ *gorm.DB, id int) (*entity.ClinicalSession, error) {
		return &entity.ClinicalSession{ID: id, PatientID: 99}, nil
	}

	var stored []string
	f.files.CreateFunc = func(_ context.Context, _ *gorm.DB, file *entity.PatientFile) error {
		stored = append(stored, file.StorageKey)
		return nil
	}

	_, err := f.usecase().UploadDocuments(actorCtx(entity.RoleIDTherapist), 4, intPtr(8), []dto.UploadedFile{upload("lab.pdf", pdfBytes)})
	assert.ErrorIs(t, err, ErrSessionMismatch)
	assert.Empty(t, stored)
}

func TestDeleteFile(t *testing.T) {
	f := newFileFixture(t)
	uc := f.usecase()
	ctx := actorCtx(entity.RoleIDAdmin)

	resp, err := uc.UploadDocuments(ctx, 4, nil, []dto.UploadedFile{upload("lab.pdf", pdfBytes)})
	require.NoError(t, err)
	key := f.records[resp[0].ID].StorageKey

	require.NoError(t, uc.DeleteFile(ctx, resp[0].ID))
	assert.False(t, f.exists(t, key))

	_, err = uc.GetFile(ctx, resp[0].ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, uc.DeleteFile(ctx, resp[0].ID), ErrFileNotFound)
}

func TestDeleteFile_PhotoClearsPatient(t *testing.T) {
	f := newFileFixture(t)
	uc := f.usecase()
	ctx := actorCtx(entity.RoleIDAdmin)

	photo, err := uc.UploadPhoto(ctx, 4, upload("me.png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, uc.DeleteFile(ctx, photo.ID))
	assert.Nil(t, f.photoKey)
}
