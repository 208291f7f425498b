package domain

// Camada de domínio do controle de admissão.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

type Key string

// Rule descreve o orçamento de uma chave: até Limit tentativas dentro da
// janela deslizante Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// AdmissionStore decide se uma tentativa cabe na janela da chave e, em caso
// afirmativo, registra a tentativa.
//
// Take deve ser atômico por chave: duas chamadas concorrentes para a mesma
// chave nunca podem ser ambas admitidas quando só resta uma vaga na janela.
// Chaves distintas são independentes.
//
// Observação: a implementação pode ser log de janela deslizante, token-bucket, etc.
type AdmissionStore interface {
	Take(key Key, rule Rule) bool
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
