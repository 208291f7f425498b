package infra

import (
	"context"
	"sync"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/domain"
)

// MemorySink é uma implementação simples em memória de domain.Sink.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemorySink struct {
	mu     sync.Mutex
	total  int64
	byType map[string]int64
	last   []domain.Record

	keepLast int
}

type MemorySinkOption func(*MemorySink)

// WithKeepLast controla quantos eventos recentes ficam retidos (padrão 100).
func WithKeepLast(n int) MemorySinkOption {
	return func(s *MemorySink) { s.keepLast = n }
}

func NewMemorySink(opts ...MemorySinkOption) *MemorySink {
	s := &MemorySink{
		byType:   make(map[string]int64),
		keepLast: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemorySink) Write(_ context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.byType[rec.Type]++
	s.last = append(s.last, rec)
	if s.keepLast > 0 && len(s.last) > s.keepLast {
		s.last = s.last[len(s.last)-s.keepLast:]
	}
	return nil
}

func (s *MemorySink) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemorySink) ByType() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.byType))
	for k, v := range s.byType {
		out[k] = v
	}
	return out
}

func (s *MemorySink) Last() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Record, len(s.last))
	copy(out, s.last)
	return out
}
