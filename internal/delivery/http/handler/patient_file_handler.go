package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"
)

const (
	photoField     = "photo"
	documentsField = "files"
	sessionField   = "session_id"

	multipartMemory = 8 << 20
)

type PatientFileHandler struct {
	fileUsecase usecase.PatientFileUsecase
	// maxRequestBytes caps the whole multipart body.
	maxRequestBytes int64
}

func NewPatientFileHandler(fileUsecase usecase.PatientFileUsecase, maxRequestBytes int64) *PatientFileHandler {
	return &PatientFileHandler{
		fileUsecase:     fileUsecase,
		maxRequestBytes: maxRequestBytes,
	}
}

func (h *PatientFileHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if h.maxRequestBytes > 0 {
		if r.ContentLength > h.maxRequestBytes {
			response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
			return false
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
			return false
		}
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return false
	}
	return true
}

// openParts opens every part under field. The caller closes the returned files.
func openParts(headers []*multipart.FileHeader) ([]dto.UploadedFile, []multipart.File, error) {
	files := make([]dto.UploadedFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll(opened)
			return nil, nil, err
		}
		opened = append(opened, f)
		files = append(files, dto.UploadedFile{Name: fh.Filename, Size: fh.Size, Body: f})
	}
	return files, opened, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

func (h *PatientFileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[photoField]
	if len(headers) != 1 {
		response.BadRequest(w, "Exactly one photo is required")
		return
	}
	files, opened, err := openParts(headers)
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded photo")
		return
	}
	defer closeAll(opened)

	photo, err := h.fileUsecase.UploadPhoto(r.Context(), patientID, files[0])
	if err != nil {
		writeFileError(w, err, "Failed to upload photo")
		return
	}

	response.Success(w, http.StatusCreated, "Photo uploaded successfully", photo)
}

func (h *PatientFileHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	dl, err := h.fileUsecase.GetPhoto(r.Context(), patientID)
	if err != nil {
		writeFileError(w, err, "Failed to get photo")
		return
	}

	writeDownload(w, r, dl, true)
}

func (h *PatientFileHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	if err := h.fileUsecase.DeletePhoto(r.Context(), patientID); err != nil {
		writeFileError(w, err, "Failed to delete photo")
		return
	}

	response.Success(w, http.StatusOK, "Photo deleted successfully", nil)
}

// UploadDocuments stores every part under "files", optionally attached to
// the clinical session named by "session_id".
func (h *PatientFileHandler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	var sessionID *int
	if raw := r.FormValue(sessionField); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			response.BadRequest(w, "Invalid session ID")
			return
		}
		sessionID = &id
	}

	files, opened, err := openParts(r.MultipartForm.File[documentsField])
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded files")
		return
	}
	defer closeAll(opened)

	uploaded, err := h.fileUsecase.UploadDocuments(r.Context(), patientID, sessionID, files)
	if err != nil {
		writeFileError(w, err, "Failed to upload files")
		return
	}

	response.Success(w, http.StatusCreated, "Files uploaded successfully", uploaded)
}

func (h *PatientFileHandler) GetPatientFiles(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	files, err := h.fileUsecase.GetPatientFiles(r.Context(), patientID)
	if err != nil {
		writeFileError(w, err, "Failed to get files")
		return
	}

	response.Success(w, http.StatusOK, "Files retrieved successfully", files)
}

func (h *PatientFileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid file ID", nil)
		return
	}

	dl, err := h.fileUsecase.GetFile(r.Context(), id)
	if err != nil {
		writeFileError(w, err, "Failed to get file")
		return
	}

	writeDownload(w, r, dl, r.URL.Query().Get("inline") == "true")
}

func (h *PatientFileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid file ID", nil)
		return
	}

	if err := h.fileUsecase.DeleteFile(r.Context(), id); err != nil {
		writeFileError(w, err, "Failed to delete file")
		return
	}

	response.Success(w, http.StatusOK, "File deleted successfully", nil)
}

func writeFileError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrFileNotFound):
		response.NotFound(w, "File not found")
	case errors.Is(err, usecase.ErrNoPhoto):
		response.NotFound(w, "Patient has no photo")
	case errors.Is(err, usecase.ErrSessionNotFound):
		response.NotFound(w, "Clinical session not found")
	case errors.Is(err, usecase.ErrFileTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
	case errors.Is(err, usecase.ErrFileTypeNotAllowed):
		response.Error(w, http.StatusUnsupportedMediaType, err.Error(), nil)
	case errors.Is(err, usecase.ErrNoFiles),
		errors.Is(err, usecase.ErrTooManyFiles),
		errors.Is(err, usecase.ErrEmptyFile),
		errors.Is(err, usecase.ErrSessionMismatch):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
