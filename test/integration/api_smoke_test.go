package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/jorgemochonbernalpersonal/comparathor/internal/app/apiapp"
	"github.com/jorgemochonbernalpersonal/comparathor/internal/config"
)

func newAppForTest(t *testing.T) *apiapp.App {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"
	cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.Redis.Addr = mini.Addr()
	// Postgres is unreachable here; the app degrades instead of failing.
	cfg.Postgres.DSN = "postgres://nobody@localhost:1/none"

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	return app
}

func TestHealthz(t *testing.T) {
	app := newAppForTest(t)

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.OK {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app := newAppForTest(t)

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/users/me")
	if err != nil {
		t.Fatalf("get protected route: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("rejection should still carry CORS headers")
	}
}

func TestShortSecretAbortsStartup(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "too-short"

	if _, err := apiapp.New(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("short signing key must fail app construction")
	}
}
