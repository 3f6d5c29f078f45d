package appointment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic/internal/domain/patient"
)

// -- Mocks --

type mockRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *a
	return &copy, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appts[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.appts[id]; !ok {
		return ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithPatient, int, error) {
	var result []*WithPatient
	for _, a := range m.appts {
		if patientID != nil && a.PatientID != *patientID {
			continue
		}
		result = append(result, &WithPatient{Appointment: *a, PatientName: "Test Patient"})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, len(result), nil
}

type mockPatients struct {
	known map[uuid.UUID]bool
}

func (m *mockPatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	if !m.known[id] {
		return nil, patient.ErrNotFound
	}
	return &patient.Patient{ID: id, FullName: "Test Patient", Age: 30, Gender: "other"}, nil
}

func newTestService() (*Service, *mockRepo, uuid.UUID) {
	repo := newMockRepo()
	pid := uuid.New()
	patients := &mockPatients{known: map[uuid.UUID]bool{pid: true}}
	return NewService(repo, patients), repo, pid
}

// -- Tests --

func TestCreate_Defaults(t *testing.T) {
	svc, _, pid := newTestService()

	a, err := svc.Create(context.Background(), CreateInput{PatientID: pid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("status = %q, want pending", a.Status)
	}
	if a.IsReferred || a.IsLabRequested {
		t.Error("new appointment must start with both flags cleared")
	}

	// It must be fetchable in the same state.
	got, err := svc.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusPending || got.IsReferred || got.IsLabRequested {
		t.Errorf("fetched state diverged: %+v", got)
	}
}

func TestCreate_MissingPatient(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Create(context.Background(), CreateInput{}); err == nil {
		t.Error("expected error for missing patient_id")
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{PatientID: uuid.New()})
	if !errors.Is(err, patient.ErrNotFound) {
		t.Fatalf("expected patient.ErrNotFound, got %v", err)
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc, _, pid := newTestService()
	a, err := svc.Create(context.Background(), CreateInput{PatientID: pid})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tr := true
	updated, err := svc.Update(context.Background(), a.ID, UpdateInput{IsLabRequested: &tr})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsLabRequested {
		t.Error("is_lab_requested not set")
	}
	if updated.Status != StatusPending {
		t.Error("status must be untouched by a flags-only update")
	}

	diagnosed := StatusDiagnosed
	updated, err = svc.Update(context.Background(), a.ID, UpdateInput{Status: &diagnosed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusDiagnosed {
		t.Error("status not updated")
	}
	if !updated.IsLabRequested {
		t.Error("flags must survive a status-only update")
	}
}

func TestUpdate_InvalidStatus(t *testing.T) {
	svc, _, pid := newTestService()
	a, err := svc.Create(context.Background(), CreateInput{PatientID: pid})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := "cancelled"
	if _, err := svc.Update(context.Background(), a.ID, UpdateInput{Status: &bad}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	tr := true
	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{IsReferred: &tr})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_PatientFilter(t *testing.T) {
	svc, repo, pid := newTestService()
	if _, err := svc.Create(context.Background(), CreateInput{PatientID: pid}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Seed an appointment for another patient directly.
	other := &Appointment{PatientID: uuid.New(), Status: StatusPending}
	if err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, total, err := svc.List(context.Background(), &pid, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected 1 filtered appointment, got %d (total %d)", len(items), total)
	}

	items, total, err = svc.List(context.Background(), nil, 20, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 appointments, got %d (total %d)", len(items), total)
	}
}

func TestRemove(t *testing.T) {
	svc, _, pid := newTestService()
	a, err := svc.Create(context.Background(), CreateInput{PatientID: pid})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Remove(context.Background(), a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svc.Get(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Error("appointment should be gone")
	}
}
