package converter

import (
	"time"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
)

func ExpedienteToResponse(e *entity.Expediente) *dto.ExpedienteResponse {
	if e == nil {
		return nil
	}

	var lmp *string
	if e.LastMenstrualPeriod != nil {
		s := e.LastMenstrualPeriod.Format(dateLayout)
		lmp = &s
	}

	return &dto.ExpedienteResponse{
		ID:        e.ID,
		Number:    e.Number,
		PatientID: e.PatientID,
		ExpedienteFields: dto.ExpedienteFields{
			IllnessHistory:      e.IllnessHistory,
			MedicalHistory:      e.MedicalHistory,
			MedicationHistory:   e.MedicationHistory,
			TraumaticHistory:    e.TraumaticHistory,
			FamilyHistory:       e.FamilyHistory,
			AllergyHistory:      e.AllergyHistory,
			SubstanceHistory:    e.SubstanceHistory,
			LactoseIntolerant:   e.LactoseIntolerant,
			Immunization:        e.Immunization,
			Growth:              e.Growth,
			Habits:              e.Habits,
			Diet:                e.Diet,
			Prenatal:            e.Prenatal,
			Natal:               e.Natal,
			Postnatal:           e.Postnatal,
			Pregnancies:         e.Pregnancies,
			Births:              e.Births,
			Abortions:           e.Abortions,
			Cesareans:           e.Cesareans,
			LiveChildren:        e.LiveChildren,
			DeadChildren:        e.DeadChildren,
			LastMenstrualPeriod: lmp,
			MenstrualCycles:     e.MenstrualCycles,
			MenarcheAge:         e.MenarcheAge,
			Temperature:         e.Temperature,
			BloodPressure:       e.BloodPressure,
			HeartRate:           e.HeartRate,
			RespiratoryRate:     e.RespiratoryRate,
			OxygenSaturation:    e.OxygenSaturation,
			WeightKg:            e.WeightKg,
			HeightM:             e.HeightM,
			BMI:                 e.BMI,
			BloodGlucose:        e.BloodGlucose,
		},
		Patient:   PatientToOption(e.Patient),
		Referrals: ReferralsToResponses(e.Referrals),
		CreatedBy: e.CreatedBy,
		UpdatedBy: e.UpdatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ExpedientesToResponses(expedientes []entity.Expediente) []dto.ExpedienteResponse {
	responses := make([]dto.ExpedienteResponse, len(expedientes))
	for i := range expedientes {
		responses[i] = *ExpedienteToResponse(&expedientes[i])
	}
	return responses
}

func ExpedientesToSummaries(expedientes []entity.Expediente) []dto.ExpedienteSummary {
	summaries := make([]dto.ExpedienteSummary, len(expedientes))
	for i, e := range expedientes {
		summaries[i] = dto.ExpedienteSummary{ID: e.ID, Number: e.Number}
	}
	return summaries
}

// ExpedienteFromRequest copies the chart fields onto e. Number and patient
// are handled by the usecase. lmp is the parsed last menstrual period.
func ExpedienteFromRequest(req *dto.ExpedienteRequest, lmp *time.Time, e *entity.Expediente) {
	f := req.ExpedienteFields
	e.PatientID = req.PatientID
	e.IllnessHistory = f.IllnessHistory
	e.MedicalHistory = f.MedicalHistory
	e.MedicationHistory = f.MedicationHistory
	e.TraumaticHistory = f.TraumaticHistory
	e.FamilyHistory = f.FamilyHistory
	e.AllergyHistory = f.AllergyHistory
	e.SubstanceHistory = f.SubstanceHistory
	e.LactoseIntolerant = f.LactoseIntolerant
	e.Immunization = f.Immunization
	e.Growth = f.Growth
	e.Habits = f.Habits
	e.Diet = f.Diet
	e.Prenatal = f.Prenatal
	e.Natal = f.Natal
	e.Postnatal = f.Postnatal
	e.Pregnancies = f.Pregnancies
	e.Births = f.Births
	e.Abortions = f.Abortions
	e.Cesareans = f.Cesareans
	e.LiveChildren = f.LiveChildren
	e.DeadChildren = f.DeadChildren
	e.LastMenstrualPeriod = lmp
	e.MenstrualCycles = f.MenstrualCycles
	e.MenarcheAge = f.MenarcheAge
	e.Temperature = f.Temperature
	e.BloodPressure = f.BloodPressure
	e.HeartRate = f.HeartRate
	e.RespiratoryRate = f.RespiratoryRate
	e.OxygenSaturation = f.OxygenSaturation
	e.WeightKg = f.WeightKg
	e.HeightM = f.HeightM
	e.BMI = f.BMI
	e.BloodGlucose = f.BloodGlucose
	e.FillBMI()
}
