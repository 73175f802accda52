package converter

import (
	"fmt"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
)

// FileURL is the API path that serves a stored patient file.
func FileURL(id int) string {
	return fmt.Sprintf("/api/v1/files/%d", id)
}

func PatientFileToResponse(f *entity.PatientFile) *dto.PatientFileResponse {
	if f == nil {
		return nil
	}
	return &dto.PatientFileResponse{
		ID:           f.ID,
		PatientID:    f.PatientID,
		SessionID:    f.SessionID,
		Kind:         string(f.Kind),
		OriginalName: f.OriginalName,
		ContentType:  f.ContentType,
		SizeBytes:    f.SizeBytes,
		URL:          FileURL(f.ID),
		CreatedAt:    f.CreatedAt,
	}
}

func PatientFilesToResponses(files []entity.PatientFile) []dto.PatientFileResponse {
	responses := make([]dto.PatientFileResponse, len(files))
	for i := range files {
		responses[i] = *PatientFileToResponse(&files[i])
	}
	return responses
}
