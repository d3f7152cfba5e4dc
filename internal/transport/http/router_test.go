package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	aclhandler "cadastre/internal/accesscontrol/handler"
	aclservice "cadastre/internal/accesscontrol/service"
	"cadastre/internal/accesscontrol/store/acl"
	anchandler "cadastre/internal/ancillary/handler"
	ancservice "cadastre/internal/ancillary/service"
	"cadastre/internal/ancillary/store/ancillary"
	invhandler "cadastre/internal/inventory/handler"
	invservice "cadastre/internal/inventory/service"
	inventorystore "cadastre/internal/inventory/store/inventory"
	jwttoken "cadastre/internal/jwt_token"
	prophandler "cadastre/internal/property/handler"
	propservice "cadastre/internal/property/service"
	propstore "cadastre/internal/property/store/property"
	"cadastre/pkg/platform/events"
	"cadastre/pkg/testutil"
)

const (
	adminPrincipal = "registry-admin"
	adminToken     = "local-admin-token"
)

type routerFixture struct {
	router http.Handler
	jwt    *jwttoken.JWTService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	logger := testutil.Logger()
	publisher := events.NewPublisher(events.NewInMemoryStore())

	aclSvc := aclservice.New(adminPrincipal, acl.NewInMemory(), publisher, logger)
	propSvc := propservice.NewRegistry(propstore.NewInMemory(), aclSvc, publisher,
		propservice.WithLogger(logger))
	invSvc := invservice.New(inventorystore.NewInMemory(), aclSvc, logger)
	ancSvc := ancservice.New(ancillary.NewInMemory(), aclSvc, logger)

	jwtSvc := jwttoken.NewJWTService("test-signing-key", "cadastre", "cadastre")
	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash admin token: %v", err)
	}

	router := NewRouter(Deps{
		Logger:         logger,
		TokenValidator: jwttoken.NewJWTServiceAdapter(jwtSvc),
		AdminTokenHash: string(hash),
		RequestTimeout: 5 * time.Second,
		Property:       prophandler.New(propSvc, logger),
		Inventory:      invhandler.New(invSvc, logger),
		Ancillary:      anchandler.New(ancSvc, logger),
		AccessControl:  aclhandler.New(aclSvc, logger),
	})
	return &routerFixture{router: router, jwt: jwtSvc}
}

func (f *routerFixture) bearer(t *testing.T, principal string) string {
	t.Helper()
	token, err := f.jwt.GenerateAccessToken(principal, time.Minute)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return "Bearer " + token
}

func (f *routerFixture) do(t *testing.T, method, path, auth string, admin bool, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if admin {
		req.Header.Set("X-Admin-Token", adminToken)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", false, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", rec.Code)
	}
}

func TestMetricsExposed(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/metrics", "", false, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
}

func TestAuthenticationRequired(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/properties/loc", "", false, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/properties/loc", "Bearer garbage", false, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", rec.Code)
	}
}

func TestAdminRoutesNeedAdminToken(t *testing.T) {
	f := newRouterFixture(t)
	auth := f.bearer(t, adminPrincipal)

	rec := f.do(t, http.MethodPost, "/admin/access-control/grants", auth, false,
		map[string]string{"principal": "alice"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin token, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/admin/access-control/grants", auth, true,
		map[string]string{"principal": "alice"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with admin token, got %d: %s", rec.Code, rec.Body.String())
	}
}

// TestEndToEndRegistryFlow drives the stack through the router: grant, then
// register and mutate a property as an authenticated caller.
func TestEndToEndRegistryFlow(t *testing.T) {
	f := newRouterFixture(t)
	adminAuth := f.bearer(t, adminPrincipal)
	aliceAuth := f.bearer(t, "alice")

	if rec := f.do(t, http.MethodPost, "/admin/access-control/grants", adminAuth, true,
		map[string]string{"principal": "alice"}); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 granting alice, got %d", rec.Code)
	}

	if rec := f.do(t, http.MethodPost, "/properties", aliceAuth, false, map[string]any{
		"location": "123 Elm St", "area": 120,
	}); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 registering, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := f.do(t, http.MethodPost, "/inventory", aliceAuth, false, map[string]any{
		"location": "123 Elm St",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 adding to inventory, got %d", rec.Code)
	}

	if rec := f.do(t, http.MethodPut, "/ancillary/regulations", aliceAuth, false, map[string]any{
		"text": "zone R-2",
	}); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 setting regulations, got %d", rec.Code)
	}

	get := f.do(t, http.MethodGet, "/properties/123%20Elm%20St", aliceAuth, false, nil)
	if get.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching property, got %d", get.Code)
	}
	var resp struct {
		Owner string `json:"owner"`
	}
	if err := json.NewDecoder(get.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Owner != "alice" {
		t.Fatalf("expected owner alice, got %q", resp.Owner)
	}
}
