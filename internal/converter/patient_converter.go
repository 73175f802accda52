package converter

import (
	"time"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// PatientToResponse converts a Patient entity to PatientResponse DTO. Age is
// computed against now.
func PatientToResponse(patient *entity.Patient, now time.Time) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	expedientes := make([]dto.ExpedienteSummary, 0, len(patient.Expedientes))
	for _, e := range patient.Expedientes {
		expedientes = append(expedientes, dto.ExpedienteSummary{ID: e.ID, Number: e.Number})
	}

	return &dto.PatientResponse{
		ID:                   patient.ID,
		FirstNames:           patient.FirstNames,
		LastNames:            patient.LastNames,
		FullName:             patient.FullName(),
		CUI:                  patient.CUI,
		BirthDate:            patient.BirthDate.Format(dateLayout),
		Age:                  patient.AgeAt(now),
		Gender:               patient.Gender,
		ConsultationType:     patient.ConsultationType,
		DisabilityType:       patient.DisabilityType,
		PersonalPhone:        patient.PersonalPhone,
		EmergencyContactName: patient.EmergencyContactName,
		EmergencyPhone:       patient.EmergencyPhone,
		GuardianName:         patient.GuardianName,
		GuardianDPI:          patient.GuardianDPI,
		GuardianPhone:        patient.GuardianPhone,
		Municipality:         patient.Municipality,
		Village:              patient.Village,
		Address:              patient.Address,
		HasPhoto:             patient.PhotoKey != nil,
		Expedientes:          expedientes,
		CreatedBy:            patient.CreatedBy,
		CreatedAt:            patient.CreatedAt,
		UpdatedAt:            patient.UpdatedAt,
	}
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient, now time.Time) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i], now)
	}
	return responses
}

func PatientToOption(patient *entity.Patient) *dto.PatientOption {
	if patient == nil {
		return nil
	}
	return &dto.PatientOption{
		ID:       patient.ID,
		FullName: patient.FullName(),
		CUI:      patient.CUI,
	}
}

func PatientsToOptions(patients []entity.Patient) []dto.PatientOption {
	options := make([]dto.PatientOption, len(patients))
	for i := range patients {
		options[i] = *PatientToOption(&patients[i])
	}
	return options
}

// PatientFromRequest copies the request onto patient. birthDate is parsed by
// the caller so the error can be reported as a validation failure.
func PatientFromRequest(req *dto.PatientRequest, birthDate time.Time, patient *entity.Patient) {
	patient.FirstNames = req.FirstNames
	patient.LastNames = req.LastNames
	patient.CUI = req.CUI
	patient.BirthDate = birthDate
	patient.Gender = req.Gender
	patient.ConsultationType = req.ConsultationType
	patient.DisabilityType = req.DisabilityType
	patient.PersonalPhone = req.PersonalPhone
	patient.EmergencyContactName = req.EmergencyContactName
	patient.EmergencyPhone = req.EmergencyPhone
	patient.GuardianName = req.GuardianName
	patient.GuardianDPI = req.GuardianDPI
	patient.GuardianPhone = req.GuardianPhone
	patient.Municipality = req.Municipality
	patient.Village = req.Village
	patient.Address = req.Address
}
