package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/domain"

	"github.com/redis/go-redis/v9"
)

// RedisSink mantém contadores agregados dos eventos em Redis.
//
// Ele não guarda o payload completo — só séries de contagem por tipo
// (total cumulativo + bucket por minuto). Para o registro bruto use o
// PostgresSink; os dois podem ser combinados via MultiSink.
type RedisSink struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"
}

type RedisSinkOption func(*RedisSink)

func WithPrefix(prefix string) RedisSinkOption {
	return func(s *RedisSink) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithTTL(d time.Duration) RedisSinkOption {
	return func(s *RedisSink) { s.ttl = d }
}

func WithBucket(bucket string) RedisSinkOption {
	return func(s *RedisSink) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisSink(rdb *redis.Client, opts ...RedisSinkOption) *RedisSink {
	s := &RedisSink{
		rdb:    rdb,
		prefix: "eventlog",
		ttl:    90 * 24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisSink) Write(ctx context.Context, rec domain.Record) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := rec.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}

	typ := strings.TrimSpace(rec.Type)
	if typ == "" {
		typ = "unknown"
	}

	totalKey := s.prefix + ":total"

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, totalKey, typ, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, typ, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if rec.Path != "" {
		pathKey := s.prefix + ":path"
		pipe.HIncrBy(ctx, pathKey, rec.Path+":"+typ, 1)
	}

	_, err := pipe.Exec(ctx)
	return err
}
