package dto

import (
	"io"
	"time"
)

type PatientFileResponse struct {
	ID           int       `json:"id"`
	PatientID    int       `json:"patient_id"`
	SessionID    *int      `json:"session_id,omitempty"`
	Kind         string    `json:"kind"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
}

// UploadedFile is a multipart part handed to the file usecase.
type UploadedFile struct {
	Name string
	Size int64
	Body io.ReadSeeker
}

// FileDownload is either a stream or a redirect URL.
type FileDownload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
	RedirectURL string
}
