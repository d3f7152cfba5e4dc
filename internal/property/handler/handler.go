// Package handler exposes the property registry over HTTP. All routes sit
// behind the authentication middleware; the caller principal is read from the
// request context, never from the body.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"cadastre/internal/property/models"
	"cadastre/internal/property/service"
	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
	"cadastre/pkg/platform/httputil"
	"cadastre/pkg/requestcontext"
)

// Service defines the registry operations the handler depends on.
type Service interface {
	Register(ctx context.Context, input service.RegisterInput) (*models.PropertyRecord, error)
	GetDetails(ctx context.Context, location id.Location) (*models.PropertyRecord, error)
	TransferOwnership(ctx context.Context, location id.Location, newOwner id.Principal) error
	ChangeStatus(ctx context.Context, location id.Location, status id.PropertyStatus) error
	CreateTransactionRecord(ctx context.Context, location id.Location, price uint64) error
	SetInspected(ctx context.Context, location id.Location, value bool) error
	SetViewed(ctx context.Context, location id.Location, value bool) error
	SetLegalDocuments(ctx context.Context, location id.Location, documents string) error
}

// Handler wires property endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a property handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts property endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/properties", h.HandleRegister)
	r.Get("/properties/{location}", h.HandleGetDetails)
	r.Post("/properties/{location}/transfer", h.HandleTransfer)
	r.Put("/properties/{location}/status", h.HandleChangeStatus)
	r.Put("/properties/{location}/inspection", h.HandleSetInspected)
	r.Put("/properties/{location}/viewing", h.HandleSetViewed)
	r.Put("/properties/{location}/legal-documents", h.HandleSetLegalDocuments)
	r.Post("/properties/{location}/transaction", h.HandleCreateTransaction)
}

// locationParam extracts and unescapes the location path parameter. Street
// addresses arrive percent-encoded.
func locationParam(r *http.Request) (id.Location, error) {
	raw := chi.URLParam(r, "location")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "malformed location")
	}
	return id.ParseLocation(decoded)
}

// HandleRegister handles POST /properties requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Register(ctx, req.ToInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "property registration failed",
			"request_id", requestID,
			"location", req.Location,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "property registered",
		"request_id", requestID,
		"location", record.Location.String(),
		"owner", record.Owner.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleGetDetails handles GET /properties/{location} requests.
func (h *Handler) HandleGetDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.GetDetails(ctx, location)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleTransfer handles POST /properties/{location}/transfer requests.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.TransferOwnership(ctx, location, id.Principal(req.NewOwner)); err != nil {
		h.logger.ErrorContext(ctx, "ownership transfer failed",
			"request_id", requestID,
			"location", location.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "ownership transferred",
		"request_id", requestID,
		"location", location.String(),
		"new_owner", req.NewOwner,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangeStatus handles PUT /properties/{location}/status requests.
func (h *Handler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[StatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.ChangeStatus(ctx, location, req.ParsedStatus()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetInspected handles PUT /properties/{location}/inspection requests.
func (h *Handler) HandleSetInspected(w http.ResponseWriter, r *http.Request) {
	h.handleFlag(w, r, h.service.SetInspected)
}

// HandleSetViewed handles PUT /properties/{location}/viewing requests.
func (h *Handler) HandleSetViewed(w http.ResponseWriter, r *http.Request) {
	h.handleFlag(w, r, h.service.SetViewed)
}

func (h *Handler) handleFlag(w http.ResponseWriter, r *http.Request, apply func(context.Context, id.Location, bool) error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[FlagRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := apply(ctx, location, req.Value); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetLegalDocuments handles PUT /properties/{location}/legal-documents requests.
func (h *Handler) HandleSetLegalDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[LegalDocumentsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetLegalDocuments(ctx, location, req.LegalDocuments); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateTransaction handles POST /properties/{location}/transaction requests.
func (h *Handler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	location, err := locationParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransactionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.CreateTransactionRecord(ctx, location, req.Price); err != nil {
		h.logger.ErrorContext(ctx, "transaction record creation failed",
			"request_id", requestID,
			"location", location.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "transaction record created",
		"request_id", requestID,
		"location", location.String(),
		"price", req.Price,
	)
	w.WriteHeader(http.StatusCreated)
}
