// Package handler exposes access control list administration over HTTP. The
// routes are mounted under /admin and additionally sit behind the admin API
// token middleware; the service still verifies the caller principal itself.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"cadastre/internal/accesscontrol/models"
	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
	"cadastre/pkg/platform/httputil"
	"cadastre/pkg/requestcontext"
)

// Service defines the access control operations the handler depends on.
type Service interface {
	Authorize(ctx context.Context, principal id.Principal) error
	Revoke(ctx context.Context, principal id.Principal) error
	IsAuthorized(ctx context.Context, principal id.Principal) (bool, error)
	List(ctx context.Context) ([]models.Entry, error)
}

// Handler wires access control endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts access control endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/access-control/grants", h.HandleAuthorize)
	r.Delete("/admin/access-control/grants/{principal}", h.HandleRevoke)
	r.Get("/admin/access-control/grants", h.HandleList)
	r.Get("/admin/access-control/grants/{principal}", h.HandleCheck)
}

// GrantRequest is the HTTP request body for POST /admin/access-control/grants.
type GrantRequest struct {
	Principal string `json:"principal"`

	parsed id.Principal
}

func (r *GrantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	principal, err := id.ParsePrincipal(strings.TrimSpace(r.Principal))
	if err != nil {
		return err
	}
	r.parsed = principal
	return nil
}

// GrantEntryResponse is one access control list entry.
type GrantEntryResponse struct {
	Principal string    `json:"principal"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

// HandleAuthorize handles POST /admin/access-control/grants requests.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GrantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Authorize(ctx, req.parsed); err != nil {
		h.logger.ErrorContext(ctx, "authorization grant failed",
			"request_id", requestID,
			"principal", req.Principal,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "principal authorized",
		"request_id", requestID,
		"principal", req.Principal,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevoke handles DELETE /admin/access-control/grants/{principal} requests.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, err := id.ParsePrincipal(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Revoke(ctx, principal); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "principal revoked",
		"request_id", requestID,
		"principal", principal.String(),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /admin/access-control/grants requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]GrantEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = GrantEntryResponse{
			Principal: e.Principal.String(),
			GrantedBy: e.GrantedBy.String(),
			GrantedAt: e.GrantedAt,
		}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleCheck handles GET /admin/access-control/grants/{principal} requests.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	principal, err := id.ParsePrincipal(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	authorized, err := h.service.IsAuthorized(r.Context(), principal)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"authorized": authorized})
}
