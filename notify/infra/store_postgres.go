package infra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/domain"
)

// PostgresStore persiste notificações via pgx.
//
// Esquema esperado:
//
//	CREATE TABLE notifications (
//	  id         uuid PRIMARY KEY,
//	  user_id    bigint NOT NULL,
//	  type       text NOT NULL,
//	  title      text NOT NULL,
//	  body       text NOT NULL,
//	  link       text,
//	  read       boolean NOT NULL DEFAULT false,
//	  created_at timestamptz NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Insert(ctx context.Context, rec *domain.Record) error {
	var link any
	if rec.Link != "" {
		link = rec.Link
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, title, body, link, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.UserID, string(rec.Type), rec.Title, rec.Body, link, rec.Read, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// MarkRead só marca registros do próprio destinatário.
func (s *PostgresStore) MarkRead(ctx context.Context, id uuid.UUID, userID int64) error {
	ct, err := s.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
