package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table.
type Patient struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Age          int       `db:"age" json:"age"`
	Gender       string    `db:"gender" json:"gender"`
	Address      *string   `db:"address" json:"address,omitempty"`
	Contact      *string   `db:"contact" json:"contact,omitempty"`
	RegisteredBy uuid.UUID `db:"registered_by" json:"registered_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Input is the payload for creating or replacing a patient record.
type Input struct {
	FullName string  `json:"full_name"`
	Age      *int    `json:"age"`
	Gender   string  `json:"gender"`
	Address  *string `json:"address"`
	Contact  *string `json:"contact"`
}
