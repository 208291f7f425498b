package infra

import (
	"sync"
	"time"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/domain"

	"golang.org/x/time/rate"
)

// BucketStore é uma implementação alternativa de domain.AdmissionStore baseada
// em token-bucket (x/time/rate), com cache por chave e limpeza periódica.
//
// Em vez de contar tentativas numa janela exata, ele converte a regra em uma
// taxa contínua (limit/window) com burst = limit. É a escolha certa para rotas
// de tráfego alto, onde suavizar rajadas importa mais do que o teto exato por
// janela; para o teto exato use WindowStore.
type BucketStore struct {
	mu           sync.Mutex
	entries      map[domain.Key]*bucketEntry
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type bucketEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type BucketOption func(*BucketStore)

func WithIdleTTL(d time.Duration) BucketOption {
	return func(s *BucketStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) BucketOption {
	return func(s *BucketStore) { s.cleanupEvery = d }
}

func NewBucketStore(opts ...BucketOption) *BucketStore {
	s := &BucketStore{
		entries:      make(map[domain.Key]*bucketEntry),
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take implementa domain.AdmissionStore.
//
// O limiter de cada chave é criado na primeira chamada a partir da regra
// recebida; chamadas seguintes com regra diferente mantêm o limiter original
// até o janitor expirar a chave por inatividade.
func (s *BucketStore) Take(key domain.Key, rule domain.Rule) bool {
	if rule.Limit <= 0 || rule.Window <= 0 {
		return false
	}
	now := time.Now()

	s.mu.Lock()
	ent, ok := s.entries[key]
	if !ok {
		rps := float64(rule.Limit) / rule.Window.Seconds()
		ent = &bucketEntry{lim: rate.NewLimiter(rate.Limit(rps), rule.Limit)}
		s.entries[key] = ent
	}
	ent.lastSeen = now
	lim := ent.lim
	s.mu.Unlock()

	return lim.Allow()
}

func (s *BucketStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *BucketStore) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
