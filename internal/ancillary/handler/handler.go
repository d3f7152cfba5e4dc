// Package handler exposes the ancillary side tables over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
	"cadastre/pkg/platform/httputil"
	"cadastre/pkg/requestcontext"
)

// Service defines the side-table operations the handler depends on.
type Service interface {
	SetFinancing(ctx context.Context, location id.Location, details string) error
	GetFinancing(ctx context.Context, location id.Location) (string, error)
	SetRegulations(ctx context.Context, text string) error
	GetRegulations(ctx context.Context) (string, error)
	SetProviders(ctx context.Context, location id.Location, providers []id.Principal) error
	GetProviders(ctx context.Context, location id.Location) ([]id.Principal, error)
}

// Handler wires ancillary endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts ancillary endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/ancillary/financing/{location}", h.HandleSetFinancing)
	r.Get("/ancillary/financing/{location}", h.HandleGetFinancing)
	r.Put("/ancillary/regulations", h.HandleSetRegulations)
	r.Get("/ancillary/regulations", h.HandleGetRegulations)
	r.Put("/ancillary/verification-providers/{location}", h.HandleSetProviders)
	r.Get("/ancillary/verification-providers/{location}", h.HandleGetProviders)
}

// TextRequest is the HTTP request body for the financing and regulations
// endpoints. An empty string is a valid value and clears the entry.
type TextRequest struct {
	Text string `json:"text"`
}

// ProvidersRequest is the HTTP request body for
// PUT /ancillary/verification-providers/{location}.
type ProvidersRequest struct {
	Providers []string `json:"providers"`

	parsed []id.Principal
}

func (r *ProvidersRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.parsed = make([]id.Principal, len(r.Providers))
	for i, raw := range r.Providers {
		principal, err := id.ParsePrincipal(raw)
		if err != nil {
			return err
		}
		r.parsed[i] = principal
	}
	return nil
}

func locationParam(r *http.Request) (id.Location, error) {
	decoded, err := url.PathUnescape(chi.URLParam(r, "location"))
	if err != nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "malformed location")
	}
	return id.ParseLocation(decoded)
}

// HandleSetFinancing handles PUT /ancillary/financing/{location} requests.
func (h *Handler) HandleSetFinancing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TextRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := h.service.SetFinancing(ctx, location, req.Text); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetFinancing handles GET /ancillary/financing/{location} requests.
func (h *Handler) HandleGetFinancing(w http.ResponseWriter, r *http.Request) {
	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	details, err := h.service.GetFinancing(r.Context(), location)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"text": details})
}

// HandleSetRegulations handles PUT /ancillary/regulations requests.
func (h *Handler) HandleSetRegulations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[TextRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := h.service.SetRegulations(ctx, req.Text); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetRegulations handles GET /ancillary/regulations requests.
func (h *Handler) HandleGetRegulations(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.GetRegulations(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"text": text})
}

// HandleSetProviders handles PUT /ancillary/verification-providers/{location} requests.
func (h *Handler) HandleSetProviders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProvidersRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := h.service.SetProviders(ctx, location, req.parsed); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetProviders handles GET /ancillary/verification-providers/{location} requests.
func (h *Handler) HandleGetProviders(w http.ResponseWriter, r *http.Request) {
	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	providers, err := h.service.GetProviders(r.Context(), location)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]string, len(providers))
	for i, p := range providers {
		out[i] = p.String()
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"providers": out})
}
