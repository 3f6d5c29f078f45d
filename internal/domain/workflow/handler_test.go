package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic/internal/platform/auth"
)

func doContinue(h *Handler, apptID, callerID uuid.UUID, role, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/"+apptID.String()+"/continue", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, callerID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(apptID.String())
	return rec, h.Continue(c)
}

func TestHandler_Continue_LabRequest(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	a := f.newAppointment(t)

	rec, err := doContinue(h, a.ID, f.nurse, auth.RoleNurse,
		`{"action":"lab-request","doctor_id":"`+f.doctor.String()+`","test_type":"blood"}`)
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"is_lab_requested":true`) {
		t.Errorf("flag missing from response: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"labRequest"`) {
		t.Error("lab request missing from response")
	}
}

func TestHandler_Continue_WrongRole(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	a := f.newAppointment(t)

	_, err := doContinue(h, a.ID, f.doctor, auth.RoleDoctor,
		`{"action":"lab-request","doctor_id":"`+f.doctor.String()+`","test_type":"blood"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestHandler_Continue_UnknownAppointment(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)

	_, err := doContinue(h, uuid.New(), f.nurse, auth.RoleNurse, `{"action":"refer-doctor"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_Continue_BadAction(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	a := f.newAppointment(t)

	_, err := doContinue(h, a.ID, f.nurse, auth.RoleNurse, `{"action":"discharge"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
