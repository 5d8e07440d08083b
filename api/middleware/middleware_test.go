package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/doccart/pkg/config"
	"github.com/angelmondragon/doccart/pkg/logger"
	"github.com/angelmondragon/doccart/pkg/types"
	"github.com/google/uuid"
)

func TestRequestIDPropagatesHeader(t *testing.T) {
	h := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if got := resp.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(resp.Header().Get(requestIDHeader)); err != nil {
		t.Fatalf("expected generated uuid request id, got %q", resp.Header().Get(requestIDHeader))
	}
}

func TestRequestIDReplacesUnusableHeader(t *testing.T) {
	h := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, bad := range []string{"has space", "tab\tid", "caf\u00e9", strings.Repeat("a", maxRequestIDLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, bad)
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)
		got := resp.Header().Get(requestIDHeader)
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("%q: expected a generated uuid, got %q", bad, got)
		}
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	var seen int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Logging(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner.ServeHTTP(w, r)
		seen = w.(*statusRecorder).status
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != http.StatusTeapot {
		t.Fatalf("expected recorded 418, got %d", seen)
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	h := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestCartSessionIssuesAndReusesCookie(t *testing.T) {
	cfg := config.CartConfig{CookieName: "doccart_session", SessionTTL: 2 * time.Hour, CookieSecure: true}
	var got string
	h := CartSession(cfg, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CartSessionFromContext(r.Context())
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart/view", nil))
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	issued := cookies[0]
	if issued.Name != "doccart_session" || issued.Value != got || !issued.HttpOnly || !issued.Secure || issued.MaxAge != 7200 {
		t.Fatalf("unexpected cookie %+v (ctx %q)", issued, got)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart/view", nil)
	req.AddCookie(&http.Cookie{Name: "doccart_session", Value: issued.Value})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != issued.Value {
		t.Fatalf("expected session reuse, got %q want %q", got, issued.Value)
	}

	req = httptest.NewRequest(http.MethodGet, "/cart/view", nil)
	req.AddCookie(&http.Cookie{Name: "doccart_session", Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == "../../etc" || got == "" {
		t.Fatalf("malformed cookie should be replaced, got %q", got)
	}
}

func TestCartSessionFromContextEmpty(t *testing.T) {
	//nolint:staticcheck
	if CartSessionFromContext(nil) != "" {
		t.Fatal("expected empty session for nil context")
	}
}
