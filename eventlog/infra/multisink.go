package infra

import (
	"context"
	"errors"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/domain"
)

// MultiSink grava em vários sinks, isolando a falha de cada um: todos são
// tentados e os erros voltam agregados (o chamador best-effort descarta de
// qualquer forma).
type MultiSink []domain.Sink

func (m MultiSink) Write(ctx context.Context, rec domain.Record) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
