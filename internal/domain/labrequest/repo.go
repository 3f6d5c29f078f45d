package labrequest

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no lab request matches the lookup.
	ErrNotFound = errors.New("lab request not found")
	// ErrNotAssigned is returned when a doctor other than the assigned
	// one tries to submit a result.
	ErrNotAssigned = errors.New("lab request is assigned to a different doctor")
)

type Repository interface {
	Create(ctx context.Context, lr *LabRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabRequest, error)
	Update(ctx context.Context, lr *LabRequest) error
	// List returns lab requests joined with patient, nurse and doctor
	// names, newest first. A non-nil patientID narrows the query.
	List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithNames, int, error)
	Stats(ctx context.Context) (*Stats, error)
}
