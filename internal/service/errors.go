package service

import "errors"

var (
	ErrDuplicateExpedienteNumber = errors.New("expediente number already exists")
	ErrPatientNotFound           = errors.New("patient not found")
	ErrExpedienteNotFound        = errors.New("expediente not found")
	ErrDeletionBlocked           = errors.New("deletion blocked by dependent records")
	ErrUnknownEntityKind         = errors.New("unknown entity kind")
)

// AllocationRecorder counts expediente number allocations by source.
type AllocationRecorder interface {
	RecordAllocation(source string)
}

// DeletionCheckRecorder counts guard decisions by entity kind and outcome.
type DeletionCheckRecorder interface {
	RecordDeletionCheck(kind, outcome string)
}
