package labrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic/internal/domain/appointment"
)

// AppointmentDirectory is the slice of the appointment repository the
// lab request service needs to resolve the patient behind a request.
type AppointmentDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

type Service struct {
	requests     Repository
	appointments AppointmentDirectory
}

func NewService(requests Repository, appointments AppointmentDirectory) *Service {
	return &Service{requests: requests, appointments: appointments}
}

// Create files a lab request against an appointment. The patient is
// derived from the appointment row; the requesting nurse and the
// assigned doctor are recorded for the assignment check at submission.
func (s *Service) Create(ctx context.Context, in CreateInput, nurseID uuid.UUID) (*LabRequest, error) {
	if in.AppointmentID == uuid.Nil {
		return nil, fmt.Errorf("appointment_id is required")
	}
	if in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required")
	}
	if strings.TrimSpace(in.TestType) == "" {
		return nil, fmt.Errorf("test_type is required")
	}

	appt, err := s.appointments.GetByID(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return nil, appointment.ErrNotFound
		}
		return nil, err
	}

	lr := &LabRequest{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		NurseID:       nurseID,
		DoctorID:      in.DoctorID,
		TestType:      strings.TrimSpace(in.TestType),
		Reason:        in.Reason,
		Status:        StatusPending,
	}
	if err := s.requests.Create(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*LabRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithNames, int, error) {
	return s.requests.List(ctx, patientID, limit, offset)
}

// SubmitResult records a result on behalf of the assigned doctor.
// Submitting against an already completed request overwrites the stored
// result; the request stays completed.
func (s *Service) SubmitResult(ctx context.Context, id uuid.UUID, in ResultInput, doctorID uuid.UUID) (*LabRequest, error) {
	// Assignment is checked before the payload so a non-assigned doctor
	// always sees forbidden, never a validation error.
	lr, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lr.DoctorID != doctorID {
		return nil, ErrNotAssigned
	}

	if strings.TrimSpace(in.Result) == "" {
		return nil, fmt.Errorf("result is required")
	}
	if in.Status != StatusCompleted {
		return nil, fmt.Errorf("status must be completed")
	}

	result := strings.TrimSpace(in.Result)
	now := time.Now()
	lr.Result = &result
	lr.Status = StatusCompleted
	lr.CompletedAt = &now
	if err := s.requests.Update(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.requests.Stats(ctx)
}
