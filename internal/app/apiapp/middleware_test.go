package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	authsvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/auth"
)

const (
	testOrigin = "http://localhost:3000"
	testSecret = "0123456789abcdef0123456789abcdef"
)

func TestRequestGateSetsCORSHeadersOnRejections(t *testing.T) {
	gate := newGateForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rr := httptest.NewRecorder()

	gate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not run without a credential")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Fatalf("CORS origin missing on error response: %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("CORS credentials header missing on error response: %q", got)
	}
}

func TestRequestGateShortCircuitsPreflight(t *testing.T) {
	gate := newGateForTest(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/users/me", nil)
	rr := httptest.NewRecorder()

	gate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not run for preflight")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("preflight response should carry allowed methods")
	}
}

func TestRequestGateForwardsPublicPaths(t *testing.T) {
	gate := newGateForTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rr := httptest.NewRecorder()

	called := false
	gate(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("public route should pass without a credential")
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d", rr.Code)
	}
}

func TestRequestGateRejectsMalformedAuthorization(t *testing.T) {
	gate := newGateForTest(t)

	for _, value := range []string{"", "Bearer", "Bearer ", "Basic abc", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		if value != "" {
			req.Header.Set("Authorization", value)
		}
		rr := httptest.NewRecorder()

		gate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatalf("handler must not run for authorization %q", value)
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("authorization %q: got %d want %d", value, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestRequestGateRejectsInvalidToken(t *testing.T) {
	gate := newGateForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rr := httptest.NewRecorder()

	gate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not run for an invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRequestGateInjectsIdentity(t *testing.T) {
	jwtManager := newJWTManagerForTest(t)
	gate := RequestGate(jwtManager, testOrigin, PublicPaths(), zap.NewNop())

	token, _, err := jwtManager.GenerateAccessToken(42, "a@x.com", []string{authsvc.RoleRegistered})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing in context")
		}
		if identity.UserID != 42 || identity.Subject != "a@x.com" {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		if !identity.HasRole(authsvc.RoleRegistered) {
			t.Fatalf("identity should carry the registered role")
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d", rr.Code)
	}
}

func TestRequireAnyRoleAllowsCaseInsensitiveMatch(t *testing.T) {
	mw := RequireAnyRole(authsvc.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID:  1,
		Subject: "admin@x.com",
		Roles:   []string{"role_admin"},
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestRequireAnyRoleRejectsForbiddenRole(t *testing.T) {
	mw := RequireAnyRole(authsvc.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID:  2,
		Subject: "member@x.com",
		Roles:   []string{authsvc.RoleRegistered},
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not be called for forbidden role")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRequireAnyRoleWithoutIdentity(t *testing.T) {
	mw := RequireAnyRole(authsvc.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not be called without identity")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func newGateForTest(t *testing.T) func(http.Handler) http.Handler {
	t.Helper()
	return RequestGate(newJWTManagerForTest(t), testOrigin, PublicPaths(), zap.NewNop())
}

func newJWTManagerForTest(t *testing.T) *authsvc.JWTManager {
	t.Helper()
	m, err := authsvc.NewJWTManager(testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}
	return m
}
