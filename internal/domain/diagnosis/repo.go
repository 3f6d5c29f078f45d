package diagnosis

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no medical description matches the lookup.
var ErrNotFound = errors.New("medical description not found")

type Repository interface {
	Create(ctx context.Context, md *MedicalDescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalDescription, error)
	List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithNames, int, error)
	Stats(ctx context.Context) (*Stats, error)
}
