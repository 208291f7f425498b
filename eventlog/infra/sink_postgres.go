package infra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/domain"
)

// PostgresSink grava o registro bruto do evento via pgx.
//
// Esquema esperado:
//
//	CREATE TABLE events (
//	  id           uuid PRIMARY KEY,
//	  type         text NOT NULL,
//	  actor_id     bigint,
//	  path         text,
//	  ip           text,
//	  visitor_hash text,
//	  detail       jsonb,
//	  created_at   timestamptz NOT NULL
//	);
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) Write(ctx context.Context, rec domain.Record) error {
	var actor, path, ip, hash, detail any
	if rec.ActorID != 0 {
		actor = rec.ActorID
	}
	if rec.Path != "" {
		path = rec.Path
	}
	if rec.IP != "" {
		ip = rec.IP
	}
	if rec.VisitorHash != "" {
		hash = rec.VisitorHash
	}
	if len(rec.Detail) > 0 {
		b, err := json.Marshal(rec.Detail)
		if err != nil {
			return fmt.Errorf("marshal detail: %w", err)
		}
		detail = string(b)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, type, actor_id, path, ip, visitor_hash, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)`,
		rec.ID, rec.Type, actor, path, ip, hash, detail, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}
