package converter

import (
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
)

func ClinicalSessionToResponse(s *entity.ClinicalSession) *dto.ClinicalSessionResponse {
	if s == nil {
		return nil
	}

	resp := &dto.ClinicalSessionResponse{
		ID:                 s.ID,
		PatientID:          s.PatientID,
		UserID:             s.UserID,
		SessionDate:        s.SessionDate,
		Reminder:           s.Reminder,
		ConsultationNote:   s.ConsultationNote,
		ChiefComplaint:     s.ChiefComplaint,
		Evolution:          s.Evolution,
		DiagnosisTreatment: s.DiagnosisTreatment,
		Files:              PatientFilesToResponses(s.Files),
		CreatedBy:          s.CreatedBy,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	if s.User != nil {
		resp.Therapist = s.User.FullName()
	}
	return resp
}

func ClinicalSessionsToResponses(sessions []entity.ClinicalSession) []dto.ClinicalSessionResponse {
	responses := make([]dto.ClinicalSessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = *ClinicalSessionToResponse(&sessions[i])
	}
	return responses
}
