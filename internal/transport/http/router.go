// Package httptransport assembles the public HTTP surface: one chi router
// carrying the shared middleware chain, the feature handlers, and the
// operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cadastre/internal/platform/middleware"
	"cadastre/pkg/platform/httputil"
	adminmw "cadastre/pkg/platform/middleware/admin"
	authmw "cadastre/pkg/platform/middleware/auth"
	"cadastre/pkg/platform/middleware/metadata"
	"cadastre/pkg/platform/middleware/requesttime"
)

// Mountable is implemented by every feature handler.
type Mountable interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs. Admin may be nil when no admin
// token hash is configured; the admin routes are then not mounted at all.
type Deps struct {
	Logger         *slog.Logger
	TokenValidator authmw.TokenValidator
	AdminTokenHash string
	RequestTimeout time.Duration

	Property      Mountable
	Inventory     Mountable
	Ancillary     Mountable
	AccessControl Mountable

	// HealthChecks run on /healthz; a failing check turns the endpoint red.
	HealthChecks map[string]func(ctx context.Context) error
}

// NewRouter builds the full route tree.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(deps.RequestTimeout))

	r.Get("/healthz", healthHandler(deps.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.ContentTypeJSON)
		pr.Use(authmw.RequireAuth(deps.TokenValidator, deps.Logger))

		deps.Property.Register(pr)
		deps.Inventory.Register(pr)
		deps.Ancillary.Register(pr)
	})

	if deps.AdminTokenHash != "" {
		r.Group(func(ar chi.Router) {
			ar.Use(middleware.ContentTypeJSON)
			ar.Use(adminmw.RequireAdminToken(deps.AdminTokenHash, deps.Logger))
			ar.Use(authmw.RequireAuth(deps.TokenValidator, deps.Logger))

			deps.AccessControl.Register(ar)
		})
	}

	return r
}

func healthHandler(checks map[string]func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
