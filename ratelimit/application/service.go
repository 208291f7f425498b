package application

import (
	"time"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/domain"
)

// Service concentra a regra de aplicação do controle de admissão.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Store      domain.AdmissionStore
	RetryAfter time.Duration
}

func (s Service) Allow(key domain.Key, rule domain.Rule) domain.Decision {
	// orçamento zero (ou negativo) significa rota fechada: nega sempre,
	// independente do store.
	if rule.Limit <= 0 {
		return domain.Decision{Allowed: false, RetryAfter: s.retryAfter()}
	}
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.Store.Take(key, rule) {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.retryAfter()}
}

func (s Service) retryAfter() time.Duration {
	if s.RetryAfter <= 0 {
		return 1 * time.Second
	}
	return s.RetryAfter
}
