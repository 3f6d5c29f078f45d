package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinichq/clinic/internal/domain/appointment"
)

// AppointmentDirectory resolves appointments so a description filed
// against one can derive its patient.
type AppointmentDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

type Service struct {
	descriptions Repository
	appointments AppointmentDirectory
}

func NewService(descriptions Repository, appointments AppointmentDirectory) *Service {
	return &Service{descriptions: descriptions, appointments: appointments}
}

// Create writes an immutable medical description. Prescriptions keep
// their submitted order and are stored as given; there is no update or
// delete path.
func (s *Service) Create(ctx context.Context, in CreateInput, doctorID uuid.UUID) (*MedicalDescription, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("description is required")
	}

	patientID := in.PatientID
	if patientID == uuid.Nil {
		if in.AppointmentID == nil {
			return nil, fmt.Errorf("patient_id or appointment_id is required")
		}
		appt, err := s.appointments.GetByID(ctx, *in.AppointmentID)
		if err != nil {
			if errors.Is(err, appointment.ErrNotFound) {
				return nil, appointment.ErrNotFound
			}
			return nil, err
		}
		patientID = appt.PatientID
	}

	for i, p := range in.Prescriptions {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("prescription %d: name is required", i+1)
		}
	}

	md := &MedicalDescription{
		PatientID:     patientID,
		AppointmentID: in.AppointmentID,
		DoctorID:      doctorID,
		Description:   strings.TrimSpace(in.Description),
		Notes:         in.Notes,
		Prescriptions: in.Prescriptions,
	}
	if md.Prescriptions == nil {
		md.Prescriptions = []Prescription{}
	}
	if err := s.descriptions.Create(ctx, md); err != nil {
		return nil, err
	}
	return md, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MedicalDescription, error) {
	return s.descriptions.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithNames, int, error) {
	return s.descriptions.List(ctx, patientID, limit, offset)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.descriptions.Stats(ctx)
}
