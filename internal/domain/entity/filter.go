package entity

import (
	"time"

	"github.com/google/uuid"
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Normalize clamps page to >= 1 and limit to [1, max], defaulting limit to def.
func (p Pagination) Normalize(def, max int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = def
	}
	if max > 0 && p.Limit > max {
		p.Limit = max
	}
	return p
}

type PatientFilter struct {
	Pagination
	Search string
}

type ExpedienteFilter struct {
	Pagination
	Search string
}

// AppointmentFilter selects active appointments. A nil UserID matches every
// therapist.
type AppointmentFilter struct {
	UserID    *uuid.UUID
	PatientID *int
	From      *time.Time
	To        *time.Time
	Transport *bool
}

type PatientReportFilter struct {
	Pagination
	From           *time.Time
	To             *time.Time
	Gender         string
	Municipality   string
	DisabilityType string
	AgeMin         *int
	AgeMax         *int
}

type ConsultationReportFilter struct {
	Pagination
	From      *time.Time
	To        *time.Time
	UserID    *uuid.UUID
	PatientID *int
	Diagnosis string
}

type AppointmentReportFilter struct {
	Pagination
	From      *time.Time
	To        *time.Time
	UserID    *uuid.UUID
	Transport *bool
}

type ReferralReportFilter struct {
	Pagination
	From      *time.Time
	To        *time.Time
	ClinicID  *int
	UserID    *uuid.UUID
	Direction string // sent | received | "" (both)
	State     string // pending | completed | "" (any)
}
