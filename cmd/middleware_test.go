package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkpost/inkpost/internal/auth"
)

func testApplication() *application {
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	return &application{
		auth:   auth.NewAuth(codec),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func protectedHandler(app *application) http.Handler {
	protected := app.requireAuthenticatedUser(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return app.authenticate(protected)
}

func TestProtectedRouteWithoutBearerTokenIsUnauthorized(t *testing.T) {
	app := testApplication()

	// A non-bearer or malformed Authorization header carries no token, so
	// it gets the same answer as no credentials at all.
	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"unknown scheme", "Basic abcdef"},
		{"missing token part", "Token"},
		{"too many parts", "Token a b"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			if c.header != "" {
				r.Header.Set("Authorization", c.header)
			}
			w := httptest.NewRecorder()
			protectedHandler(app).ServeHTTP(w, r)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestProtectedRouteWithUndecodableTokenIsForbidden(t *testing.T) {
	app := testApplication()

	cases := []struct {
		name   string
		header string
	}{
		{"garbage token", "Token not-a-real-token"},
		{"bearer garbage", "Bearer not-a-real-token"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			r.Header.Set("Authorization", c.header)
			w := httptest.NewRecorder()
			protectedHandler(app).ServeHTTP(w, r)

			if w.Code != http.StatusForbidden {
				t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
			}
		})
	}
}

func TestOpenRouteIgnoresBadToken(t *testing.T) {
	app := testApplication()

	open := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.optionalViewer(r) != nil {
			t.Error("bad token produced a viewer")
		}
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	r.Header.Set("Authorization", "Token not-a-real-token")
	w := httptest.NewRecorder()
	open.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthenticateSetsVaryHeader(t *testing.T) {
	app := testApplication()

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	r := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Vary"); got != "Authorization" {
		t.Errorf("Vary = %q, want Authorization", got)
	}
}

func TestRecoverPanicTurnsPanicsIntoInternalErrors(t *testing.T) {
	app := testApplication()

	handler := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if got := w.Header().Get("Connection"); got != "close" {
		t.Errorf("Connection = %q, want close", got)
	}
}
