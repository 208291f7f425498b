package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/domain"
)

// Logger registra eventos de telemetria de melhor esforço.
//
// Record devolve o controle imediatamente: a escrita no sink vai para o
// background e o resultado (sucesso ou falha) é descartado. Isto é telemetria,
// não trilha de auditoria com garantia de durabilidade. Record nunca devolve
// erro ao chamador.
type Logger struct {
	Sink   domain.Sink
	BG     domain.Background
	Notify domain.Notifier

	Now func() time.Time
}

// Option configura os campos opcionais de um evento.
type Option func(*recordOpts)

type recordOpts struct {
	actorID     int64
	path        string
	ip          string
	visitorHash string

	notify      bool
	notifyTitle string
	notifyBody  string
}

func WithActor(id int64) Option {
	return func(o *recordOpts) { o.actorID = id }
}

func WithPath(path string) Option {
	return func(o *recordOpts) { o.path = path }
}

func WithIP(ip string) Option {
	return func(o *recordOpts) { o.ip = ip }
}

func WithVisitorHash(hash string) Option {
	return func(o *recordOpts) { o.visitorHash = hash }
}

// WithNotify dispara adicionalmente o push de admins do fan-out.
// body vazio usa o tipo do evento como corpo.
func WithNotify(title, body string) Option {
	return func(o *recordOpts) {
		o.notify = true
		o.notifyTitle = title
		o.notifyBody = body
	}
}

// Record monta o evento e o despacha. Retorno é imediato; nada aqui espera
// pelo resultado da escrita.
func (l *Logger) Record(eventType string, detail map[string]any, opts ...Option) {
	var o recordOpts
	for _, opt := range opts {
		opt(&o)
	}

	rec := domain.Record{
		ID:          uuid.New(),
		Type:        eventType,
		ActorID:     o.actorID,
		Path:        o.path,
		IP:          o.ip,
		VisitorHash: o.visitorHash,
		Detail:      detail,
		CreatedAt:   l.now(),
	}

	if l.Sink != nil {
		sink := l.Sink
		if l.BG != nil {
			l.BG.Enqueue("eventlog.write", func(ctx context.Context) error {
				return sink.Write(ctx, rec)
			})
		} else {
			// sem background configurado, ainda é melhor esforço: o erro é
			// descartado aqui mesmo.
			_ = sink.Write(context.Background(), rec)
		}
	}

	if o.notify && l.Notify != nil {
		body := o.notifyBody
		if body == "" {
			body = eventType
		}
		l.Notify.NotifyAdmins(o.notifyTitle, body, "")
	}
}

func (l *Logger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
