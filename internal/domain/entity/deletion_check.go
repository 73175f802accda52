package entity

type EntityKind string

const (
	EntityKindPatient    EntityKind = "patient"
	EntityKindExpediente EntityKind = "expediente"
)

// DependentCounts are the rows still referencing a record that is about to
// be deactivated. Only the counts relevant to the checked kind are filled.
type DependentCounts struct {
	ActiveHistory       int64 `json:"active_history"`
	ActiveExpedientes   int64 `json:"active_expedientes"`
	InactiveExpedientes int64 `json:"inactive_expedientes"`
	ActiveReferrals     int64 `json:"active_referrals"`
}

// DeletionCheck is the outcome of a soft-delete precondition check.
type DeletionCheck struct {
	Kind    EntityKind      `json:"kind"`
	ID      int             `json:"id"`
	Allowed bool            `json:"allowed"`
	Reason  string          `json:"reason"`
	Counts  DependentCounts `json:"counts"`
}
