package ratelimit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/domain"
	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/infra"
)

func TestMiddleware_AllowsThenRejectsSameKey(t *testing.T) {
	store := infra.NewWindowStore()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	var decisions []bool
	h := Middleware(Options{
		Store:               store,
		Rule:                domain.Rule{Limit: 1, Window: time.Minute},
		RejectStatus:        http.StatusTooManyRequests,
		RetryAfter:          1 * time.Second,
		AddRateLimitHeaders: true,
		OnDecision: func(_ *http.Request, _ string, allowed bool) {
			decisions = append(decisions, allowed)
		},
	})(next)

	// 1) primeira passa
	r1 := httptest.NewRequest(http.MethodGet, "http://example/listings/new", nil)
	r1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}
	if got := w1.Header().Get("X-RateLimit-Key"); got != "/listings/new:10.0.0.1" {
		t.Fatalf("expected route:ip key, got %q", got)
	}
	if got := w1.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Fatalf("expected X-RateLimit-Limit=1, got %q", got)
	}
	if got := w1.Header().Get("X-RateLimit-Window"); got != "60" {
		t.Fatalf("expected X-RateLimit-Window=60, got %q", got)
	}

	// 2) segunda deve bloquear (limit=1 na mesma janela)
	r2 := httptest.NewRequest(http.MethodGet, "http://example/listings/new", nil)
	r2.RemoteAddr = "10.0.0.1:1234"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if got := w2.Header().Get("Retry-After"); got == "" {
		t.Fatalf("expected Retry-After header to be set")
	}

	if calls != 1 {
		t.Fatalf("expected next handler to be called once, got %d", calls)
	}
	if len(decisions) != 2 || !decisions[0] || decisions[1] {
		t.Fatalf("expected decision hook [true false], got %v", decisions)
	}
}

func TestMiddleware_RouteSeparatesKeys(t *testing.T) {
	store := infra.NewWindowStore()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := Middleware(Options{
		Store: store,
		Rule:  domain.Rule{Limit: 1, Window: time.Minute},
	})(next)

	// mesmo IP em rotas diferentes => chaves diferentes, ambos passam
	r1 := httptest.NewRequest(http.MethodGet, "http://example/a", nil)
	r1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200 for /a, got %d", w1.Code)
	}

	r2 := httptest.NewRequest(http.MethodGet, "http://example/b", nil)
	r2.RemoteAddr = "10.0.0.1:1234"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 for /b, got %d", w2.Code)
	}
}

func TestMiddleware_KeyByHeader(t *testing.T) {
	store := infra.NewWindowStore()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := Middleware(Options{
		Store:     store,
		Rule:      domain.Rule{Limit: 1, Window: time.Minute},
		KeyHeader: "X-Api-Key",
	})(next)

	// duas chaves diferentes => ambos devem passar (cada chave tem sua janela)
	r1 := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r1.Header.Set("X-Api-Key", "k1")
	r1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200 for key k1, got %d", w1.Code)
	}

	r2 := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r2.Header.Set("X-Api-Key", "k2")
	r2.RemoteAddr = "10.0.0.1:1234"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 for key k2, got %d", w2.Code)
	}
}

func TestDefaultKeyFunc_TrustsFirstXFF(t *testing.T) {
	fn := DefaultKeyFunc("", true)

	r := httptest.NewRequest(http.MethodGet, "http://example/p", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	if got := fn(r); got != "/p:203.0.113.7" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}

	// sem confiança em XFF, cai no RemoteAddr
	fn = DefaultKeyFunc("", false)
	if got := fn(r); got != "/p:10.0.0.9" {
		t.Fatalf("expected RemoteAddr host, got %q", got)
	}
}
