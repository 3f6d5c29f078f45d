package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinichq/clinic/internal/domain/patient"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusDiagnosed: true,
}

// PatientDirectory is the slice of the patient repository the appointment
// service needs to verify referenced patients exist.
type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type Service struct {
	appointments Repository
	patients     PatientDirectory
}

func NewService(appointments Repository, patients PatientDirectory) *Service {
	return &Service{appointments: appointments, patients: patients}
}

// Create opens a new appointment for an existing patient. It always
// starts pending with both workflow flags cleared.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, patient.ErrNotFound
		}
		return nil, err
	}
	a := &Appointment{
		PatientID:      in.PatientID,
		Status:         StatusPending,
		IsReferred:     false,
		IsLabRequested: false,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithPatient, int, error) {
	return s.appointments.List(ctx, patientID, limit, offset)
}

// Update applies a partial update. Absent fields keep their stored value;
// last write wins on concurrent updates.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	if in.Status != nil && !validStatuses[*in.Status] {
		return nil, fmt.Errorf("status must be pending or diagnosed")
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.IsReferred != nil {
		a.IsReferred = *in.IsReferred
	}
	if in.IsLabRequested != nil {
		a.IsLabRequested = *in.IsLabRequested
	}
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}
