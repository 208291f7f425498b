package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/application"
	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

// DecisionHook é chamado (best-effort) a cada decisão de admissão.
// Útil para ligar o limiter ao event log sem acoplar os pacotes.
type DecisionHook func(r *http.Request, key string, allowed bool)

type Options struct {
	Store               domain.AdmissionStore
	Rule                domain.Rule
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
	OnDecision          DecisionHook
}

// DefaultKeyFunc extrai a chave de admissão no formato rota:ip.
//
// O IP vem do primeiro valor de X-Forwarded-For (quando confiável), senão de
// RemoteAddr. keyHeader, quando presente na requisição, substitui o IP
// (ex: API key por cliente).
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		return r.URL.Path + ":" + clientID(r, keyHeader, trustXFF)
	}
}

func clientID(r *http.Request, keyHeader string, trustXFF bool) string {
	if keyHeader != "" {
		if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
			return v
		}
	}

	if trustXFF {
		// pega o primeiro IP do X-Forwarded-For (cliente original)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				ip := strings.TrimSpace(parts[0])
				if ip != "" {
					return ip
				}
			}
		}
	}

	// fallback: RemoteAddr
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	svc := application.Service{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				w.Header().Set("X-RateLimit-Limit", formatInt(opts.Rule.Limit))
				w.Header().Set("X-RateLimit-Window", formatSeconds(opts.Rule.Window))
			}

			dec := svc.Allow(domain.Key(key), opts.Rule)
			if opts.OnDecision != nil {
				opts.OnDecision(r, key, dec.Allowed)
			}
			if !dec.Allowed {
				w.Header().Set("Retry-After", formatSeconds(dec.RetryAfter))
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
