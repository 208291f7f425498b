package infra

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/domain"
)

var ErrNotFound = errors.New("notify: record not found")

// MemoryStore é uma implementação simples em memória de domain.Store.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*domain.Record
	// ordem de inserção por usuário, para listagem estável em dev/testes.
	byUser map[int64][]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[uuid.UUID]*domain.Record),
		byUser: make(map[int64][]uuid.UUID),
	}
}

func (s *MemoryStore) Insert(_ context.Context, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.byID[rec.ID] = &cp
	s.byUser[rec.UserID] = append(s.byUser[rec.UserID], rec.ID)
	return nil
}

func (s *MemoryStore) MarkRead(_ context.Context, id uuid.UUID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok || rec.UserID != userID {
		return ErrNotFound
	}
	rec.Read = true
	return nil
}

// ByUser devolve cópias dos registros do usuário, em ordem de inserção.
func (s *MemoryStore) ByUser(userID int64) []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byUser[userID]
	out := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.byID[id])
	}
	return out
}
