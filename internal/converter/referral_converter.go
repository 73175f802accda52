package converter

import (
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
)

func ClinicToResponse(c *entity.Clinic) *dto.ClinicResponse {
	if c == nil {
		return nil
	}
	return &dto.ClinicResponse{ID: c.ID, Name: c.Name}
}

func ClinicsToResponses(clinics []entity.Clinic) []dto.ClinicResponse {
	responses := make([]dto.ClinicResponse, len(clinics))
	for i := range clinics {
		responses[i] = *ClinicToResponse(&clinics[i])
	}
	return responses
}

func ReferralToResponse(r *entity.Referral) *dto.ReferralResponse {
	if r == nil {
		return nil
	}

	resp := &dto.ReferralResponse{
		ID:           r.ID,
		ExpedienteID: r.ExpedienteID,
		PatientID:    r.PatientID,
		Clinic:       ClinicToResponse(r.Clinic),
		UserID:       r.UserID,
		TargetUserID: r.TargetUserID,
		Comment:      r.Comment,
		Completed:    r.Completed,
		CreatedAt:    r.CreatedAt,
	}
	if r.User != nil {
		resp.FromUser = r.User.FullName()
	}
	if r.TargetUser != nil {
		resp.ToUser = r.TargetUser.FullName()
	}
	return resp
}

func ReferralsToResponses(referrals []entity.Referral) []dto.ReferralResponse {
	responses := make([]dto.ReferralResponse, len(referrals))
	for i := range referrals {
		responses[i] = *ReferralToResponse(&referrals[i])
	}
	return responses
}
