package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no appointment matches the lookup.
var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns appointments joined with patient demographics, newest
	// first. A non-nil patientID narrows the query server-side.
	List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithPatient, int, error)
}
