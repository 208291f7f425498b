package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/domain"
)

// Fanout entrega uma notificação lógica pelos canais configurados, isolando a
// falha de cada canal.
//
// Dois formatos de destinatário:
//   - usuário único: persiste um Record (síncrono — o erro sobe ao chamador)
//     e em seguida despacha o push em background (falha engolida);
//   - todos os admins: só push broadcast, nada persistido, nunca devolve erro.
type Fanout struct {
	Store domain.Store
	Push  domain.Pusher
	BG    domain.Background

	// Now é injetável para testes; nil usa time.Now.
	Now func() time.Time
}

// NotifyUser persiste o Record (read=false) e, só se a escrita deu certo,
// despacha um push para o usuário. Se a escrita falhar, nenhum push é tentado.
func (f *Fanout) NotifyUser(ctx context.Context, userID int64, typ domain.Type, title, body, link string) (*domain.Record, error) {
	if f.Store == nil {
		return nil, errors.New("notify: no store configured")
	}
	rec := &domain.Record{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		Link:      link,
		CreatedAt: f.now(),
	}
	if err := f.Store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}

	f.dispatch("notify.push_user", func(ctx context.Context) error {
		return f.Push.SendToUser(ctx, userID, domain.PushMessage{Title: title, Body: body, Link: link})
	})
	return rec, nil
}

// NotifyAdmins despacha um push broadcast para todos os admins. Nada é
// persistido e nenhuma falha chega ao chamador.
func (f *Fanout) NotifyAdmins(title, body, link string) {
	f.dispatch("notify.push_admins", func(ctx context.Context) error {
		return f.Push.SendToAllAdmins(ctx, domain.PushMessage{Title: title, Body: body, Link: link})
	})
}

// MarkRead é a única mutação permitida sobre um Record, emitida pelo próprio
// destinatário.
func (f *Fanout) MarkRead(ctx context.Context, id uuid.UUID, userID int64) error {
	if f.Store == nil {
		return errors.New("notify: no store configured")
	}
	return f.Store.MarkRead(ctx, id, userID)
}

// dispatch envia o job para o background; sem Background configurado, roda
// inline descartando o erro (o canal continua sendo melhor esforço).
func (f *Fanout) dispatch(name string, fn func(ctx context.Context) error) {
	if f.Push == nil {
		return
	}
	if f.BG != nil {
		f.BG.Enqueue(name, fn)
		return
	}
	_ = fn(context.Background())
}

func (f *Fanout) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
