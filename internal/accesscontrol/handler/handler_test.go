package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"cadastre/internal/accesscontrol/service"
	"cadastre/internal/accesscontrol/store/acl"
	id "cadastre/pkg/domain"
	"cadastre/pkg/platform/events"
	"cadastre/pkg/requestcontext"
	"cadastre/pkg/testutil"
)

const adminPrincipal = id.Principal("registry-admin")

func newACLRouter(t *testing.T, caller id.Principal) http.Handler {
	t.Helper()
	svc := service.New(adminPrincipal, acl.NewInMemory(),
		events.NewPublisher(events.NewInMemoryStore()), testutil.Logger())
	h := New(svc, testutil.Logger())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithPrincipal(req.Context(), caller)))
		})
	})
	h.Register(r)
	return r
}

func TestGrantRevokeLifecycle(t *testing.T) {
	router := newACLRouter(t, adminPrincipal)

	body, _ := json.Marshal(map[string]string{"principal": "alice"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/access-control/grants", bytes.NewReader(body)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 granting, got %d: %s", rec.Code, rec.Body.String())
	}

	check := httptest.NewRecorder()
	router.ServeHTTP(check, httptest.NewRequest(http.MethodGet, "/admin/access-control/grants/alice", nil))
	if check.Code != http.StatusOK {
		t.Fatalf("expected 200 checking, got %d", check.Code)
	}
	var checkResp struct {
		Authorized bool `json:"authorized"`
	}
	if err := json.NewDecoder(check.Body).Decode(&checkResp); err != nil {
		t.Fatalf("failed to decode check response: %v", err)
	}
	if !checkResp.Authorized {
		t.Fatalf("expected alice authorized after grant")
	}

	list := httptest.NewRecorder()
	router.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/admin/access-control/grants", nil))
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200 listing, got %d", list.Code)
	}
	var entries []GrantEntryResponse
	if err := json.NewDecoder(list.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(entries) != 1 || entries[0].Principal != "alice" {
		t.Fatalf("expected one entry for alice, got %v", entries)
	}

	revoke := httptest.NewRecorder()
	router.ServeHTTP(revoke, httptest.NewRequest(http.MethodDelete, "/admin/access-control/grants/alice", nil))
	if revoke.Code != http.StatusNoContent {
		t.Fatalf("expected 204 revoking, got %d", revoke.Code)
	}

	recheck := httptest.NewRecorder()
	router.ServeHTTP(recheck, httptest.NewRequest(http.MethodGet, "/admin/access-control/grants/alice", nil))
	if err := json.NewDecoder(recheck.Body).Decode(&checkResp); err != nil {
		t.Fatalf("failed to decode recheck response: %v", err)
	}
	if checkResp.Authorized {
		t.Fatalf("expected alice unauthorized after revoke")
	}
}

func TestNonAdminForbidden(t *testing.T) {
	router := newACLRouter(t, "mallory")

	body, _ := json.Marshal(map[string]string{"principal": "mallory"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/access-control/grants", bytes.NewReader(body)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin grant, got %d", rec.Code)
	}

	list := httptest.NewRecorder()
	router.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/admin/access-control/grants", nil))
	if list.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin list, got %d", list.Code)
	}
}

func TestGrantValidation(t *testing.T) {
	router := newACLRouter(t, adminPrincipal)

	body, _ := json.Marshal(map[string]string{"principal": "   "})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/access-control/grants", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank principal, got %d", rec.Code)
	}
}
