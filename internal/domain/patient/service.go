package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true,
}

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func validate(in Input) error {
	if strings.TrimSpace(in.FullName) == "" {
		return fmt.Errorf("full_name is required")
	}
	if in.Age == nil {
		return fmt.Errorf("age is required")
	}
	if *in.Age < 0 || *in.Age > 150 {
		return fmt.Errorf("age out of range")
	}
	if in.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if !validGenders[in.Gender] {
		return fmt.Errorf("gender must be male, female or other")
	}
	return nil
}

// Register creates a patient record owned by the registering staff member.
func (s *Service) Register(ctx context.Context, in Input, registeredBy uuid.UUID) (*Patient, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p := &Patient{
		FullName:     strings.TrimSpace(in.FullName),
		Age:          *in.Age,
		Gender:       in.Gender,
		Address:      in.Address,
		Contact:      in.Contact,
		RegisteredBy: registeredBy,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// Replace overwrites the full patient record. The same validation as
// registration applies; registered_by never changes.
func (s *Service) Replace(ctx context.Context, id uuid.UUID, in Input) (*Patient, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	existing, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.FullName = strings.TrimSpace(in.FullName)
	existing.Age = *in.Age
	existing.Gender = in.Gender
	existing.Address = in.Address
	existing.Contact = in.Contact
	if err := s.patients.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Remove deletes a patient. Dependent appointments, lab requests and
// medical descriptions go with it via FK cascade.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}
