package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic/internal/domain/appointment"
	"github.com/clinichq/clinic/internal/domain/diagnosis"
	"github.com/clinichq/clinic/internal/domain/labrequest"
	"github.com/clinichq/clinic/internal/platform/auth"
)

// Continuation actions.
const (
	ActionLabRequest  = "lab-request"
	ActionReferDoctor = "refer-doctor"
	ActionDiagnose    = "diagnose"
)

// ErrRoleNotAllowed is returned when the caller's role cannot perform the
// requested action.
var ErrRoleNotAllowed = errors.New("role not allowed for this action")

// ContinueInput is the payload for POST /appointments/:id/continue. One
// action per call; the remaining fields feed whichever action was chosen.
type ContinueInput struct {
	Action string `json:"action"`

	// lab-request
	DoctorID uuid.UUID `json:"doctor_id"`
	TestType string    `json:"test_type"`
	Reason   *string   `json:"reason"`

	// diagnose
	Description   string                   `json:"description"`
	Notes         *string                  `json:"notes"`
	Prescriptions []diagnosis.Prescription `json:"prescriptions"`
}

// ContinueResult reports what the continuation produced. Only the fields
// relevant to the chosen action are set.
type ContinueResult struct {
	Appointment        *appointment.Appointment      `json:"appointment"`
	LabRequest         *labrequest.LabRequest        `json:"labRequest,omitempty"`
	NextAppointment    *appointment.Appointment      `json:"nextAppointment,omitempty"`
	MedicalDescription *diagnosis.MedicalDescription `json:"medicalDescription,omitempty"`
}

// Service drives the appointment continuation workflow. Each action is a
// sequence of independent writes: there is no transaction spanning the
// steps and no rollback. If a later step fails, the earlier writes stand
// and the error is surfaced to the caller.
type Service struct {
	appointments *appointment.Service
	labRequests  *labrequest.Service
	diagnoses    *diagnosis.Service
	logger       zerolog.Logger
}

func NewService(appointments *appointment.Service, labRequests *labrequest.Service, diagnoses *diagnosis.Service, logger zerolog.Logger) *Service {
	return &Service{
		appointments: appointments,
		labRequests:  labRequests,
		diagnoses:    diagnoses,
		logger:       logger,
	}
}

// Continue performs one workflow action on an appointment on behalf of
// the calling staff member.
func (s *Service) Continue(ctx context.Context, apptID uuid.UUID, in ContinueInput, callerID uuid.UUID, callerRole string) (*ContinueResult, error) {
	switch in.Action {
	case ActionLabRequest:
		if callerRole != auth.RoleNurse {
			return nil, ErrRoleNotAllowed
		}
		return s.continueLabRequest(ctx, apptID, in, callerID)
	case ActionReferDoctor:
		if callerRole != auth.RoleNurse && callerRole != auth.RoleDoctor {
			return nil, ErrRoleNotAllowed
		}
		return s.continueRefer(ctx, apptID)
	case ActionDiagnose:
		if callerRole != auth.RoleDoctor {
			return nil, ErrRoleNotAllowed
		}
		return s.continueDiagnose(ctx, apptID, in, callerID)
	default:
		return nil, fmt.Errorf("action must be lab-request, refer-doctor or diagnose")
	}
}

// continueLabRequest flags the appointment for lab work, then files the
// request. Status is left as-is; a later diagnose call closes it out.
func (s *Service) continueLabRequest(ctx context.Context, apptID uuid.UUID, in ContinueInput, nurseID uuid.UUID) (*ContinueResult, error) {
	f, tr := false, true
	appt, err := s.appointments.Update(ctx, apptID, appointment.UpdateInput{
		IsReferred:     &f,
		IsLabRequested: &tr,
	})
	if err != nil {
		return nil, err
	}

	lr, err := s.labRequests.Create(ctx, labrequest.CreateInput{
		AppointmentID: apptID,
		DoctorID:      in.DoctorID,
		TestType:      in.TestType,
		Reason:        in.Reason,
	}, nurseID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("appointment_id", apptID.String()).
			Msg("appointment flagged for lab but request creation failed")
		return nil, err
	}

	return &ContinueResult{Appointment: appt, LabRequest: lr}, nil
}

// continueRefer marks the current appointment referred, then opens a
// fresh pending appointment for the same patient.
func (s *Service) continueRefer(ctx context.Context, apptID uuid.UUID) (*ContinueResult, error) {
	tr := true
	appt, err := s.appointments.Update(ctx, apptID, appointment.UpdateInput{
		IsReferred: &tr,
	})
	if err != nil {
		return nil, err
	}

	next, err := s.appointments.Create(ctx, appointment.CreateInput{PatientID: appt.PatientID})
	if err != nil {
		s.logger.Error().Err(err).
			Str("appointment_id", apptID.String()).
			Msg("appointment referred but follow-up creation failed")
		return nil, err
	}

	return &ContinueResult{Appointment: appt, NextAppointment: next}, nil
}

// continueDiagnose records the medical description first so clinical
// findings are never lost, then closes the appointment.
func (s *Service) continueDiagnose(ctx context.Context, apptID uuid.UUID, in ContinueInput, doctorID uuid.UUID) (*ContinueResult, error) {
	// Resolve the appointment up front so a bad id fails before any write.
	if _, err := s.appointments.Get(ctx, apptID); err != nil {
		return nil, err
	}

	md, err := s.diagnoses.Create(ctx, diagnosis.CreateInput{
		AppointmentID: &apptID,
		Description:   in.Description,
		Notes:         in.Notes,
		Prescriptions: in.Prescriptions,
	}, doctorID)
	if err != nil {
		return nil, err
	}

	diagnosed := appointment.StatusDiagnosed
	appt, err := s.appointments.Update(ctx, apptID, appointment.UpdateInput{
		Status: &diagnosed,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("appointment_id", apptID.String()).
			Str("medical_description_id", md.ID.String()).
			Msg("description recorded but appointment status update failed")
		return nil, err
	}

	return &ContinueResult{Appointment: appt, MedicalDescription: md}, nil
}
