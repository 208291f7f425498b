package domain

// Contratos com os colaboradores externos do fan-out.
//
// Os provedores reais (push/e-mail) e o banco ficam fora deste núcleo; aqui
// só entram as operações mínimas de que o fan-out precisa.

import (
	"context"

	"github.com/google/uuid"
)

// Store persiste notificações de usuário.
//
// Insert é a única escrita cujo sucesso importa contratualmente ao chamador
// do fan-out (ex.: refresh de UI logo em seguida); por isso devolve erro.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	MarkRead(ctx context.Context, id uuid.UUID, userID int64) error
}

type PushMessage struct {
	Title string
	Body  string
	Link  string
}

// Pusher envia push para as assinaturas registradas de um usuário ou para
// todos os admins. Falha de envio é engolida pelo núcleo (melhor esforço).
type Pusher interface {
	SendToUser(ctx context.Context, userID int64, msg PushMessage) error
	SendToAllAdmins(ctx context.Context, msg PushMessage) error
}

// Mailer envia um e-mail já renderizado. A implementação embrulhada pelo
// núcleo (infra.SafeMailer) garante que a falha de envio só escala por push.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type Admin struct {
	ID     int64
	Email  string
	Banned bool
}

// AdminDirectory lista as contas com papel de admin.
type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]Admin, error)
}

// Background é o mínimo necessário para despachar trabalho de melhor esforço
// sem importar o pacote async aqui. (Permite reuso em libs sem acoplar.)
type Background interface {
	Enqueue(name string, fn func(ctx context.Context) error) bool
}
