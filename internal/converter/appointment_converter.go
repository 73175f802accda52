package converter

import (
	"time"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
)

func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &dto.AppointmentResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		PatientID: a.PatientID,
		Patient:   PatientToOption(a.Patient),
		Date:      time.Time(a.Date).Format(dateLayout),
		Time:      a.Time.String(),
		Comment:   a.Comment,
		Transport: a.Transport,
		Address:   a.Address,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
	if a.TransportDate != nil {
		resp.TransportDate = time.Time(*a.TransportDate).Format(dateLayout)
	}
	if a.TransportTime != nil {
		resp.TransportTime = a.TransportTime.String()
	}
	if a.User != nil {
		resp.Therapist = a.User.FullName()
	}
	return resp
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
