package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record representa um evento de analytics/auditoria, append-only.
//
// Ele é propositalmente "agnóstico de HTTP": Path é uma string genérica e o
// Detail aceita qualquer payload estruturado.
//
// Observação: cuidado com cardinalidade (ex.: gravar Path/Type sem controle
// pode explodir o número de séries/chaves em uma base como Redis).
type Record struct {
	ID          uuid.UUID
	Type        string
	ActorID     int64 // 0 = anônimo
	Path        string
	IP          string
	VisitorHash string
	Detail      map[string]any
	CreatedAt   time.Time
}

// Sink é a estratégia de persistência dos eventos.
//
// Implementações podem gravar em Redis, Postgres, memória, etc.
// O chamador trata erro como best-effort (não derrubar request): o resultado
// da escrita é descartado.
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

// Notifier é o mínimo do fan-out de que o event log precisa para o gatilho
// opcional de notificação de admins. (Evita importar o pacote notify aqui.)
type Notifier interface {
	NotifyAdmins(title, body, link string)
}

// Background é o mínimo necessário para despachar trabalho de melhor esforço
// sem importar o pacote async aqui.
type Background interface {
	Enqueue(name string, fn func(ctx context.Context) error) bool
}
