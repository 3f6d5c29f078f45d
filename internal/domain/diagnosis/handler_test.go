package diagnosis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic/internal/platform/auth"
)

func doRequestAs(h echo.HandlerFunc, method, path, body string, callerID uuid.UUID) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, callerID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, auth.RoleDoctor)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func TestHandler_Create(t *testing.T) {
	svc, _, patientID := newTestService()
	h := NewHandler(svc)
	doctor := uuid.New()

	rec, err := doRequestAs(h.Create, http.MethodPost, "/api/v1/medical-descriptions",
		`{"patient_id":"`+patientID.String()+`","description":"Bronchitis","prescriptions":[{"name":"Amoxicillin","dosage":"500mg"}]}`,
		doctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		MedicalDescription MedicalDescription `json:"medicalDescription"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if body.MedicalDescription.DoctorID != doctor {
		t.Error("doctor_id not taken from caller")
	}
	if len(body.MedicalDescription.Prescriptions) != 1 {
		t.Error("prescription missing")
	}
}

func TestHandler_Create_MissingDescription(t *testing.T) {
	svc, _, patientID := newTestService()
	h := NewHandler(svc)

	_, err := doRequestAs(h.Create, http.MethodPost, "/api/v1/medical-descriptions",
		`{"patient_id":"`+patientID.String()+`"}`, uuid.New())
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Create_UnknownAppointment(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	_, err := doRequestAs(h.Create, http.MethodPost, "/api/v1/medical-descriptions",
		`{"appointment_id":"`+uuid.New().String()+`","description":"x"}`, uuid.New())
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_List(t *testing.T) {
	svc, _, patientID := newTestService()
	h := NewHandler(svc)
	if _, err := svc.Create(context.Background(), CreateInput{PatientID: patientID, Description: "a"}, uuid.New()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := doRequestAs(h.List, http.MethodGet, "/api/v1/medical-descriptions", "", uuid.New())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var body struct {
		MedicalDescriptions []WithNames `json:"medicalDescriptions"`
		Total               int         `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if body.Total != 1 {
		t.Errorf("total = %d", body.Total)
	}
}

func TestHandler_Stats(t *testing.T) {
	svc, _, patientID := newTestService()
	h := NewHandler(svc)
	if _, err := svc.Create(context.Background(), CreateInput{PatientID: patientID, Description: "a"}, uuid.New()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := doRequestAs(h.Stats, http.MethodGet, "/api/v1/medical-descriptions/stats", "", uuid.New())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("unexpected stats body: %s", rec.Body.String())
	}
}
