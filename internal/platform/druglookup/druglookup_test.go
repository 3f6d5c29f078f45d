package druglookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "amoxicillin") {
			t.Errorf("query missing search term: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"product_ndc":"0781-1506","brand_name":"Amoxicillin","generic_name":"amoxicillin","dosage_form":"CAPSULE"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	drugs, err := client.Search(context.Background(), "amoxicillin", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drugs) != 1 {
		t.Fatalf("expected 1 drug, got %d", len(drugs))
	}
	if drugs[0].BrandName != "Amoxicillin" {
		t.Errorf("brand_name = %q", drugs[0].BrandName)
	}
}

func TestClient_Search_EmptyResultIs404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"NOT_FOUND"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	drugs, err := client.Search(context.Background(), "nosuchdrug", 10)
	if err != nil {
		t.Fatalf("404 should map to empty result, got error: %v", err)
	}
	if len(drugs) != 0 {
		t.Fatalf("expected empty result, got %d", len(drugs))
	}
}

func TestClient_Search_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Search(context.Background(), "aspirin", 10); err == nil {
		t.Fatal("expected error on upstream 500")
	}
}

func TestHandler_Search_DegradesOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := NewHandler(NewClient(srv.URL), zerolog.New(os.Stderr))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/drugs/search?q=aspirin", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("lookup failure should degrade, got error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"drugs":[]`) {
		t.Errorf("expected empty drugs list, got %s", rec.Body.String())
	}
}

func TestHandler_Search_RequiresQuery(t *testing.T) {
	h := NewHandler(NewClient("http://unused.invalid"), zerolog.New(os.Stderr))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/drugs/search", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Search(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing query, got %v", err)
	}
}

func TestHandler_Search_ProxiesUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"product_ndc":"1","brand_name":"Tylenol","generic_name":"acetaminophen","dosage_form":"TABLET"}]}`))
	}))
	defer srv.Close()

	h := NewHandler(NewClient(srv.URL), zerolog.New(os.Stderr))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/drugs/search?q=tylenol", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Tylenol") {
		t.Errorf("body missing drug: %s", rec.Body.String())
	}
}
