package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Flags are tracked independently of status:
// a diagnosed appointment keeps whatever referral or lab flags it
// accumulated along the way.
const (
	StatusPending   = "pending"
	StatusDiagnosed = "diagnosed"
)

// Appointment maps to the appointments table.
type Appointment struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	Status         string    `db:"status" json:"status"`
	IsReferred     bool      `db:"is_referred" json:"is_referred"`
	IsLabRequested bool      `db:"is_lab_requested" json:"is_lab_requested"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// WithPatient is an appointment joined with its patient's demographics
// for list views.
type WithPatient struct {
	Appointment
	PatientName   string `db:"patient_name" json:"patient_name"`
	PatientAge    int    `db:"patient_age" json:"patient_age"`
	PatientGender string `db:"patient_gender" json:"patient_gender"`
}

// CreateInput is the payload for POST /appointments.
type CreateInput struct {
	PatientID uuid.UUID `json:"patient_id"`
}

// UpdateInput is a partial update: nil fields are left untouched.
type UpdateInput struct {
	Status         *string `json:"status"`
	IsReferred     *bool   `json:"is_referred"`
	IsLabRequested *bool   `json:"is_lab_requested"`
}
