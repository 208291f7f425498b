package infra

import (
	"sync"
	"time"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/domain"
)

// WindowStore é uma implementação de infra baseada em log de janela deslizante:
// para cada chave guarda os timestamps das tentativas admitidas dentro da
// janela corrente.
//
// Semântica de Take:
//   1. descarta timestamps mais antigos que now-window;
//   2. se sobrarem >= limit registros, nega SEM registrar a tentativa;
//   3. caso contrário registra now e admite.
//
// O custo é O(tamanho da janela) por chamada — aceitável porque as janelas são
// curtas e os limites pequenos. Um único mutex cobre o mapa inteiro, o que
// serializa chamadas concorrentes para a mesma chave (requisito de correção:
// duas admissões simultâneas nunca podem caber na mesma vaga).
//
// Sem persistência: reiniciar o processo zera todas as janelas.
type WindowStore struct {
	mu      sync.Mutex
	buckets map[domain.Key]*windowBucket

	now          func() time.Time
	cleanupEvery time.Duration
}

type windowBucket struct {
	hits []time.Time
	// window da última regra vista; usado pelo Cleanup para decidir se o
	// bucket já esvaziou.
	window time.Duration
}

type WindowOption func(*WindowStore)

// WithClock injeta o relógio (testes).
func WithClock(now func() time.Time) WindowOption {
	return func(s *WindowStore) { s.now = now }
}

func WithWindowCleanupEvery(d time.Duration) WindowOption {
	return func(s *WindowStore) { s.cleanupEvery = d }
}

func NewWindowStore(opts ...WindowOption) *WindowStore {
	s := &WindowStore{
		buckets:      make(map[domain.Key]*windowBucket),
		now:          time.Now,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take implementa domain.AdmissionStore.
func (s *WindowStore) Take(key domain.Key, rule domain.Rule) bool {
	if rule.Limit <= 0 {
		return false
	}
	now := s.now()
	cutoff := now.Add(-rule.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok {
		// criação preguiçosa: o bucket só existe a partir do primeiro uso.
		b = &windowBucket{}
		s.buckets[key] = b
	}
	b.window = rule.Window

	// poda o que já saiu da janela (o slice está em ordem de chegada).
	i := 0
	for i < len(b.hits) && !b.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		b.hits = append(b.hits[:0], b.hits[i:]...)
	}

	if len(b.hits) >= rule.Limit {
		// negada: não registra, para que a janela deslize a partir das
		// tentativas admitidas e a chave se recupere após window.
		return false
	}
	b.hits = append(b.hits, now)
	return true
}

// Len devolve o número de buckets vivos (observabilidade/testes).
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Cleanup remove buckets cujos registros já saíram todos da janela.
func (s *WindowStore) Cleanup() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, b := range s.buckets {
		cutoff := now.Add(-b.window)
		empty := true
		for _, h := range b.hits {
			if h.After(cutoff) {
				empty = false
				break
			}
		}
		if empty {
			delete(s.buckets, k)
		}
	}
}

// StartJanitor inicia uma goroutine que remove buckets vazios periodicamente.
// Pare cancelando o contexto.
func (s *WindowStore) StartJanitor(ctx DoneContext) {
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

// DoneContext é o mínimo necessário para aceitar context.Context sem importar context aqui.
// (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}
