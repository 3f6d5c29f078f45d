package diagnosis

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is one entry in a medical description's prescription
// list. Entries are free text; drug identity is not validated.
type Prescription struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Notes     string `json:"notes,omitempty"`
	NDC       string `json:"ndc,omitempty"`
}

// MedicalDescription maps to the medical_descriptions table.
// Prescriptions are stored as an ordered JSONB array. Records are
// immutable once written.
type MedicalDescription struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	PatientID     uuid.UUID      `db:"patient_id" json:"patient_id"`
	AppointmentID *uuid.UUID     `db:"appointment_id" json:"appointment_id,omitempty"`
	DoctorID      uuid.UUID      `db:"doctor_id" json:"doctor_id"`
	Description   string         `db:"description" json:"description"`
	Notes         *string        `db:"notes" json:"notes,omitempty"`
	Prescriptions []Prescription `db:"prescriptions" json:"prescriptions"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// WithNames is a description joined with patient and doctor names.
type WithNames struct {
	MedicalDescription
	PatientName string `db:"patient_name" json:"patient_name"`
	DoctorName  string `db:"doctor_name" json:"doctor_name"`
}

// CreateInput is the payload for POST /medical-descriptions. Either
// patient_id or appointment_id must be present; with only the latter,
// the patient is derived from the appointment.
type CreateInput struct {
	PatientID     uuid.UUID      `json:"patient_id"`
	AppointmentID *uuid.UUID     `json:"appointment_id"`
	Description   string         `json:"description"`
	Notes         *string        `json:"notes"`
	Prescriptions []Prescription `json:"prescriptions"`
}

// Stats summarizes description volume.
type Stats struct {
	Total    int `json:"total"`
	ThisWeek int `json:"thisWeek"`
}
