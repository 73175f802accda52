package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFileUsecase struct {
	usecase.PatientFileUsecase
	uploadPhotoFunc     func(ctx context.Context, patientID int, file dto.UploadedFile) (*dto.PatientFileResponse, error)
	uploadDocumentsFunc func(ctx context.Context, patientID int, sessionID *int, files []dto.UploadedFile) ([]dto.PatientFileResponse, error)
}

func (f *fakeFileUsecase) UploadPhoto(ctx context.Context, patientID int, file dto.UploadedFile) (*dto.PatientFileResponse, error) {
	return f.uploadPhotoFunc(ctx, patientID, file)
}

func (f *fakeFileUsecase) UploadDocuments(ctx context.Context, patientID int, sessionID *int, files []dto.UploadedFile) ([]dto.PatientFileResponse, error) {
	return f.uploadDocumentsFunc(ctx, patientID, sessionID, files)
}

type part struct {
	field, name, content string
}

func multipartRequest(t *testing.T, target string, fields map[string]string, parts ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func route(pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc(pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUploadPhoto(t *testing.T) {
	var got []byte
	h := NewPatientFileHandler(&fakeFileUsecase{
		uploadPhotoFunc: func(ctx context.Context, patientID int, file dto.UploadedFile) (*dto.PatientFileResponse, error) {
			assert.Equal(t, 4, patientID)
			assert.Equal(t, "me.png", file.Name)
			got, _ = io.ReadAll(file.Body)
			return &dto.PatientFileResponse{ID: 1, PatientID: patientID, Kind: "photo"}, nil
		},
	}, 1<<20)

	req := multipartRequest(t, "/patients/4/photo", nil, part{photoField, "me.png", "pngbytes"})
	rec := route("/patients/{id}/photo", h.UploadPhoto, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "pngbytes", string(got))
}

func TestUploadPhoto_RequiresOnePart(t *testing.T) {
	h := NewPatientFileHandler(&fakeFileUsecase{}, 1<<20)

	req := multipartRequest(t, "/patients/4/photo", nil,
		part{photoField, "a.png", "a"}, part{photoField, "b.png", "b"})
	rec := route("/patients/{id}/photo", h.UploadPhoto, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadPhoto_BodyTooLarge(t *testing.T) {
	h := NewPatientFileHandler(&fakeFileUsecase{}, 64)

	req := multipartRequest(t, "/patients/4/photo", nil, part{photoField, "me.png", string(make([]byte, 1024))})
	rec := route("/patients/{id}/photo", h.UploadPhoto, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadDocuments(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		err        error
		wantStatus int
	}{
		{"with session", map[string]string{sessionField: "12"}, nil, http.StatusCreated},
		{"bad session", map[string]string{sessionField: "x"}, nil, http.StatusBadRequest},
		{"rejected type", nil, usecase.ErrFileTypeNotAllowed, http.StatusUnsupportedMediaType},
		{"too large", nil, usecase.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"too many", nil, usecase.ErrTooManyFiles, http.StatusBadRequest},
		{"session mismatch", map[string]string{sessionField: "12"}, usecase.ErrSessionMismatch, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPatientFileHandler(&fakeFileUsecase{
				uploadDocumentsFunc: func(ctx context.Context, patientID int, sessionID *int, files []dto.UploadedFile) ([]dto.PatientFileResponse, error) {
					assert.Len(t, files, 2)
					if tt.fields[sessionField] == "12" {
						require.NotNil(t, sessionID)
						assert.Equal(t, 12, *sessionID)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return []dto.PatientFileResponse{{ID: 1}, {ID: 2}}, nil
				},
			}, 1<<20)

			req := multipartRequest(t, "/patients/4/files", tt.fields,
				part{documentsField, "a.pdf", "%PDF-a"}, part{documentsField, "b.pdf", "%PDF-b"})
			rec := route("/patients/{id}/files", h.UploadDocuments, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
