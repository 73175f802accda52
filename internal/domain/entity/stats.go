package entity

type GenderCount struct {
	Gender string `json:"gender"`
	Total  int64  `json:"total"`
}

type PatientStats struct {
	Total           int64         `json:"total"`
	ByGender        []GenderCount `json:"by_gender"`
	NewLast7Days    int64         `json:"new_last_7_days"`
	WithExpedientes int64         `json:"with_expedientes"`
}

type ExpedienteStats struct {
	Total          int64 `json:"total"`
	NewLast7Days   int64 `json:"new_last_7_days"`
	WithPatient    int64 `json:"with_patient"`
	WithoutPatient int64 `json:"without_patient"`
}

type AgeGroupCount struct {
	Adults int64 `json:"adults"`
	Minors int64 `json:"minors"`
}
