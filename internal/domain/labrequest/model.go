package labrequest

import (
	"time"

	"github.com/google/uuid"
)

// Lab request statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// LabRequest maps to the lab_requests table.
type LabRequest struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AppointmentID uuid.UUID  `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	NurseID       uuid.UUID  `db:"nurse_id" json:"nurse_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	TestType      string     `db:"test_type" json:"test_type"`
	Reason        *string    `db:"reason" json:"reason,omitempty"`
	Status        string     `db:"status" json:"status"`
	Result        *string    `db:"result" json:"result,omitempty"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// WithNames is a lab request joined with the people involved, for list
// views.
type WithNames struct {
	LabRequest
	PatientName string `db:"patient_name" json:"patient_name"`
	NurseName   string `db:"nurse_name" json:"nurse_name"`
	DoctorName  string `db:"doctor_name" json:"doctor_name"`
}

// CreateInput is the payload for POST /lab-requests. The patient is
// derived from the appointment; the nurse from the caller's identity.
type CreateInput struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	TestType      string    `json:"test_type"`
	Reason        *string   `json:"reason"`
}

// ResultInput is the payload for PATCH /lab-requests/:id.
type ResultInput struct {
	Result string `json:"result"`
	Status string `json:"status"`
}

// Stats summarizes lab request volume.
type Stats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Completed      int `json:"completed"`
	CompletedToday int `json:"completedToday"`
}
