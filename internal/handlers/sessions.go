package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/speedernet/storefront/internal/platform/httpx"
	"github.com/speedernet/storefront/internal/services"
)

const maxSessionBodySize = 8 * 1024

// SessionHandlers exposes the browsing session endpoints: session lifecycle,
// filter selection, shareable links, gallery state, and the filter panel lock.
type SessionHandlers struct {
	sessions services.SessionService
	details  services.DetailService
}

// NewSessionHandlers constructs a new SessionHandlers instance.
func NewSessionHandlers(sessions services.SessionService, details services.DetailService) *SessionHandlers {
	return &SessionHandlers{
		sessions: sessions,
		details:  details,
	}
}

// Routes registers the /sessions endpoints.
func (h *SessionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.createSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Delete("/", h.deleteSession)
		r.Put("/filters", h.applyFilters)
		r.Delete("/filters", h.clearFilters)
		r.Post("/filters/category", h.selectCategory)
		r.Post("/filters/subcategory", h.selectSubcategory)
		r.Post("/filters/query", h.setQuery)
		r.Get("/link", h.getLink)
		r.Put("/gallery", h.updateGallery)
		r.Post("/panel/open", h.openPanel)
		r.Post("/panel/close", h.closePanel)
	})
}

func (h *SessionHandlers) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sessions == nil {
		httpx.WriteError(ctx, w, httpx.NewError("session_service_unavailable", "session service unavailable", http.StatusServiceUnavailable))
		return
	}

	session, err := h.sessions.Create(ctx)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildSessionPayload(session))
}

func (h *SessionHandlers) getSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}
	writeJSONResponse(w, http.StatusOK, buildSessionPayload(session))
}

func (h *SessionHandlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sessions == nil {
		httpx.WriteError(ctx, w, httpx.NewError("session_service_unavailable", "session service unavailable", http.StatusServiceUnavailable))
		return
	}

	if err := h.sessions.Delete(ctx, chi.URLParam(r, "sessionID")); err != nil {
		writeSessionError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyFilters adopts an inbound parameter change, as when a shared link is
// opened inside an existing session. Empty fields clear their facet.
func (h *SessionHandlers) applyFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}

	var req filterParamsRequest
	if !decodeSessionBody(ctx, w, r, &req) {
		return
	}

	params := url.Values{}
	if req.Category != "" {
		params.Set("category", req.Category)
	}
	if req.Subcategory != "" {
		params.Set("subcategory", req.Subcategory)
	}
	changed := session.Navigation().ApplyParams(params)

	writeJSONResponse(w, http.StatusOK, filterStateResponse{
		Changed: changed,
		State:   buildFilterStatePayload(session.Navigation().State()),
	})
}

func (h *SessionHandlers) clearFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}

	changed := session.Navigation().ClearAll()
	writeJSONResponse(w, http.StatusOK, filterStateResponse{
		Changed: changed,
		State:   buildFilterStatePayload(session.Navigation().State()),
	})
}

func (h *SessionHandlers) selectCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}

	var req selectFacetRequest
	if !decodeSessionBody(ctx, w, r, &req) {
		return
	}

	changed := session.Navigation().SetCategory(req.Category)
	writeJSONResponse(w, http.StatusOK, filterStateResponse{
		Changed: changed,
		State:   buildFilterStatePayload(session.Navigation().State()),
	})
}

func (h *SessionHandlers) selectSubcategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}

	var req selectFacetRequest
	if !decodeSessionBody(ctx, w, r, &req) {
		return
	}

	changed := session.Navigation().SetSubcategory(req.Subcategory)
	writeJSONResponse(w, http.StatusOK, filterStateResponse{
		Changed: changed,
		State:   buildFilterStatePayload(session.Navigation().State()),
	})
}

func (h *SessionHandlers) setQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}

	var req selectFacetRequest
	if !decodeSessionBody(ctx, w, r, &req) {
		return
	}

	changed := session.Navigation().SetQuery(req.Query)
	writeJSONResponse(w, http.StatusOK, filterStateResponse{
		Changed: changed,
		State:   buildFilterStatePayload(session.Navigation().State()),
	})
}

// getLink returns the shareable parameter string for the session's selection.
func (h *SessionHandlers) getLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}

	params := session.Navigation().Params()
	writeJSONResponse(w, http.StatusOK, linkPayload{Params: params.Encode()})
}

// updateGallery points the session's gallery at a product and optionally
// selects an image. The index is resolved against the product's image
// sequence; out-of-range selections leave the index unchanged.
func (h *SessionHandlers) updateGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}
	if h.details == nil {
		httpx.WriteError(ctx, w, httpx.NewError("detail_service_unavailable", "detail service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req galleryRequest
	if !decodeSessionBody(ctx, w, r, &req) {
		return
	}

	detail, err := h.details.Resolve(ctx, req.ProductID)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	gallery := session.Gallery()
	gallery.Reset(detail.Product.ID, len(detail.Images))
	if req.Index != nil {
		gallery.Select(*req.Index)
	}

	writeJSONResponse(w, http.StatusOK, galleryPayload{
		ProductID:  gallery.ProductID(),
		Index:      gallery.Index(),
		ImageCount: len(detail.Images),
	})
}

func (h *SessionHandlers) openPanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}
	session.OpenFilterPanel()
	writeJSONResponse(w, http.StatusOK, panelPayload{Open: session.PanelOpen()})
}

func (h *SessionHandlers) closePanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.loadSession(ctx, w, r)
	if !ok {
		return
	}
	session.CloseFilterPanel()
	writeJSONResponse(w, http.StatusOK, panelPayload{Open: session.PanelOpen()})
}

func (h *SessionHandlers) loadSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (*services.BrowsingSession, bool) {
	if h.sessions == nil {
		httpx.WriteError(ctx, w, httpx.NewError("session_service_unavailable", "session service unavailable", http.StatusServiceUnavailable))
		return nil, false
	}
	session, err := h.sessions.Get(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		writeSessionError(ctx, w, err)
		return nil, false
	}
	return session, true
}

func decodeSessionBody(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := readLimitedBody(r, maxSessionBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errEmptyBody):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return false
	}
	return true
}

func writeSessionError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("session_not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrSessionLimit):
		httpx.WriteError(ctx, w, httpx.NewError("session_limit_reached", err.Error(), http.StatusTooManyRequests))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal server error", http.StatusInternalServerError))
	}
}

type filterParamsRequest struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

type selectFacetRequest struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Query       string `json:"query"`
}

type galleryRequest struct {
	ProductID string `json:"productId"`
	Index     *int   `json:"index"`
}

type filterStatePayload struct {
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Query       string `json:"query,omitempty"`
}

type filterStateResponse struct {
	Changed bool               `json:"changed"`
	State   filterStatePayload `json:"state"`
}

type linkPayload struct {
	Params string `json:"params"`
}

type galleryPayload struct {
	ProductID  string `json:"productId"`
	Index      int    `json:"index"`
	ImageCount int    `json:"imageCount"`
}

type panelPayload struct {
	Open bool `json:"open"`
}

type sessionPayload struct {
	ID        string              `json:"id"`
	CreatedAt string              `json:"createdAt"`
	ExpiresAt string              `json:"expiresAt"`
	Filters   filterStatePayload  `json:"filters"`
	PanelOpen bool                `json:"panelOpen"`
	Gallery   galleryStatePayload `json:"gallery"`
}

type galleryStatePayload struct {
	ProductID string `json:"productId,omitempty"`
	Index     int    `json:"index"`
}

func buildFilterStatePayload(state services.FilterState) filterStatePayload {
	return filterStatePayload{
		Category:    state.Category,
		Subcategory: state.Subcategory,
		Query:       state.Query,
	}
}

func buildSessionPayload(session *services.BrowsingSession) sessionPayload {
	return sessionPayload{
		ID:        session.ID(),
		CreatedAt: session.CreatedAt().UTC().Format(time.RFC3339),
		ExpiresAt: session.ExpiresAt().UTC().Format(time.RFC3339),
		Filters:   buildFilterStatePayload(session.Navigation().State()),
		PanelOpen: session.PanelOpen(),
		Gallery: galleryStatePayload{
			ProductID: session.Gallery().ProductID(),
			Index:     session.Gallery().Index(),
		},
	}
}
