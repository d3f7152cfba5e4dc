// Package handler exposes the listing inventory over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
	"cadastre/pkg/platform/httputil"
	"cadastre/pkg/requestcontext"
)

// Service defines the inventory operations the handler depends on.
type Service interface {
	Add(ctx context.Context, location id.Location) error
	Remove(ctx context.Context, location id.Location) error
	List(ctx context.Context) ([]id.Location, error)
}

// Handler wires inventory endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts inventory endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/inventory", h.HandleAdd)
	r.Delete("/inventory/{location}", h.HandleRemove)
	r.Get("/inventory", h.HandleList)
}

// AddRequest is the HTTP request body for POST /inventory.
type AddRequest struct {
	Location string `json:"location"`

	parsed id.Location
}

func (r *AddRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	location, err := id.ParseLocation(strings.TrimSpace(r.Location))
	if err != nil {
		return err
	}
	r.parsed = location
	return nil
}

// HandleAdd handles POST /inventory requests.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Add(ctx, req.parsed); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// HandleRemove handles DELETE /inventory/{location} requests. Removing an
// absent location still returns 204; the operation is a no-op by contract.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := chi.URLParam(r, "location")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed location"))
		return
	}
	location, err := id.ParseLocation(decoded)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Remove(ctx, location); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /inventory requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]string, len(locations))
	for i, l := range locations {
		out[i] = l.String()
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"locations": out})
}
