package labrequest

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

func doRequestAs(h echo.HandlerFunc, method, path, body string, callerID uuid.UUID, role string, pathParams map[string]string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, callerID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range pathParams {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return rec, h(c)
}

func TestHandler_Create(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	rec, err := doRequestAs(h.Create, http.MethodPost, "/api/v1/lab-requests",
		`{"appointment_id":"`+f.apptID.String()+`","doctor_id":"`+f.doctor.String()+`","test_type":"blood"}`,
		f.nurse, auth.RoleNurse, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		LabRequest LabRequest `json:"labRequest"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if body.LabRequest.NurseID != f.nurse {
		t.Error("nurse_id not taken from caller")
	}
	if body.LabRequest.PatientID != f.patient {
		t.Error("patient_id not derived from appointment")
	}
}

func TestHandler_Create_UnknownAppointment(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	_, err := doRequestAs(h.Create, http.MethodPost, "/api/v1/lab-requests",
		`{"appointment_id":"`+uuid.New().String()+`","doctor_id":"`+f.doctor.String()+`","test_type":"blood"}`,
		f.nurse, auth.RoleNurse, nil)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_SubmitResult_WrongDoctorForbidden(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	lr, err := f.svc.Create(context.Background(), CreateInput{
		AppointmentID: f.apptID, DoctorID: f.doctor, TestType: "blood",
	}, f.nurse)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = doRequestAs(h.SubmitResult, http.MethodPatch, "/api/v1/lab-requests/"+lr.ID.String(),
		`{"result":"stolen","status":"completed"}`,
		uuid.New(), auth.RoleDoctor, map[string]string{"id": lr.ID.String()})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestHandler_SubmitResult(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	lr, err := f.svc.Create(context.Background(), CreateInput{
		AppointmentID: f.apptID, DoctorID: f.doctor, TestType: "blood",
	}, f.nurse)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec, err := doRequestAs(h.SubmitResult, http.MethodPatch, "/api/v1/lab-requests/"+lr.ID.String(),
		`{"result":"all clear","status":"completed"}`,
		f.doctor, auth.RoleDoctor, map[string]string{"id": lr.ID.String()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "all clear") {
		t.Error("result missing from response")
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	_, err := doRequestAs(h.Get, http.MethodGet, "/api/v1/lab-requests/x", "",
		f.nurse, auth.RoleNurse, map[string]string{"id": uuid.New().String()})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_List_FilterByPatient(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	if _, err := f.svc.Create(context.Background(), CreateInput{
		AppointmentID: f.apptID, DoctorID: f.doctor, TestType: "blood",
	}, f.nurse); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec, err := doRequestAs(h.List, http.MethodGet, "/api/v1/lab-requests?patient_id="+f.patient.String(), "",
		f.doctor, auth.RoleDoctor, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var body struct {
		LabRequests []WithNames `json:"labRequests"`
		Total       int         `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if body.Total != 1 {
		t.Errorf("total = %d", body.Total)
	}

	rec, err = doRequestAs(h.List, http.MethodGet, "/api/v1/lab-requests?patient_id="+uuid.New().String(), "",
		f.doctor, auth.RoleDoctor, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"labRequests":[]`) {
		t.Errorf("expected empty list, got %s", rec.Body.String())
	}
}
