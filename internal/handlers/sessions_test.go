package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/speedernet/storefront/internal/services"
)

func newSessionRouter(t *testing.T, details services.DetailService) (chi.Router, services.SessionService) {
	t.Helper()
	sessions, err := services.NewSessionService(services.SessionServiceDeps{
		TTL:         time.Minute,
		MaxSessions: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error constructing session service: %v", err)
	}
	h := NewSessionHandlers(sessions, details)
	return NewRouter(WithSessionRoutes(h.Routes)), sessions
}

func createSessionID(t *testing.T, router chi.Router) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var body sessionPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.ID == "" {
		t.Fatalf("expected a session id")
	}
	return body.ID
}

func postJSON(t *testing.T, router chi.Router, method, path, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSessionHandlersLifecycle(t *testing.T) {
	router, _ := newSessionRouter(t, nil)
	id := createSessionID(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+id, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "session_not_found" {
		t.Fatalf("unexpected error code: %v", body["error"])
	}
}

func TestSessionHandlersFilterSelection(t *testing.T) {
	router, _ := newSessionRouter(t, nil)
	id := createSessionID(t, router)
	base := "/api/v1/sessions/" + id

	rr := postJSON(t, router, http.MethodPost, base+"/filters/category", `{"category":"printers"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp filterStateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Changed || resp.State.Category != "printers" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	rr = postJSON(t, router, http.MethodPost, base+"/filters/subcategory", `{"subcategory":"laser"}`)
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.State.Subcategory != "laser" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// Link reflects only navigation facets: the query stays local.
	postJSON(t, router, http.MethodPost, base+"/filters/query", `{"query":"jet"}`)
	req := httptest.NewRequest(http.MethodGet, base+"/link", nil)
	linkRec := httptest.NewRecorder()
	router.ServeHTTP(linkRec, req)
	var link linkPayload
	if err := json.Unmarshal(linkRec.Body.Bytes(), &link); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if link.Params != "category=printers&subcategory=laser" {
		t.Fatalf("unexpected link params: %q", link.Params)
	}

	// Toggle the active category off: both facets clear, link empties.
	rr = postJSON(t, router, http.MethodPost, base+"/filters/category", `{"category":"printers"}`)
	resp = filterStateResponse{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.State.Category != "" || resp.State.Subcategory != "" {
		t.Fatalf("expected cleared facets, got %+v", resp.State)
	}
	linkRec = httptest.NewRecorder()
	router.ServeHTTP(linkRec, httptest.NewRequest(http.MethodGet, base+"/link", nil))
	if err := json.Unmarshal(linkRec.Body.Bytes(), &link); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if link.Params != "" {
		t.Fatalf("expected empty params, got %q", link.Params)
	}
}

func TestSessionHandlersApplyFilters(t *testing.T) {
	router, _ := newSessionRouter(t, nil)
	id := createSessionID(t, router)
	base := "/api/v1/sessions/" + id

	rr := postJSON(t, router, http.MethodPut, base+"/filters", `{"category":"printers","subcategory":"laser"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp filterStateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Changed || resp.State.Category != "printers" || resp.State.Subcategory != "laser" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// Re-applying identical parameters is inert.
	rr = postJSON(t, router, http.MethodPut, base+"/filters", `{"category":"printers","subcategory":"laser"}`)
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Changed {
		t.Fatalf("identical inbound application must not register a change")
	}
}

func TestSessionHandlersGallery(t *testing.T) {
	detail := detailFixture()
	detail.Images = []string{"img/a.png", "img/b.png", "img/c.png"}
	router, _ := newSessionRouter(t, &stubDetailService{detail: detail})
	id := createSessionID(t, router)
	base := "/api/v1/sessions/" + id

	rr := postJSON(t, router, http.MethodPut, base+"/gallery", `{"productId":"hp-1000","index":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var gallery galleryPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &gallery); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if gallery.ProductID != "hp-1000" || gallery.Index != 2 || gallery.ImageCount != 3 {
		t.Fatalf("unexpected gallery state: %+v", gallery)
	}

	// An out-of-range index is ignored.
	rr = postJSON(t, router, http.MethodPut, base+"/gallery", `{"productId":"hp-1000","index":9}`)
	if err := json.Unmarshal(rr.Body.Bytes(), &gallery); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if gallery.Index != 2 {
		t.Fatalf("out-of-range selection moved the index: %+v", gallery)
	}
}

func TestSessionHandlersPanel(t *testing.T) {
	router, _ := newSessionRouter(t, nil)
	id := createSessionID(t, router)
	base := "/api/v1/sessions/" + id

	rr := postJSON(t, router, http.MethodPost, base+"/panel/open", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var panel panelPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &panel); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !panel.Open {
		t.Fatalf("expected panel to be open")
	}

	rr = postJSON(t, router, http.MethodPost, base+"/panel/close", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &panel); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if panel.Open {
		t.Fatalf("expected panel to be closed")
	}
}

func TestSessionHandlersInvalidBody(t *testing.T) {
	router, _ := newSessionRouter(t, nil)
	id := createSessionID(t, router)

	rr := postJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/filters/category", "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	rr = postJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/filters/category", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty body, got %d", rr.Code)
	}
}
