package application

import (
	"context"
	"log"
	"strings"
	"text/template"
	"time"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/domain"
)

// ChannelSet seleciona os canais de escalonamento. Só existem dois valores
// válidos: PushOnly e PushAndEmail. O caminho de falha do mailer recebe a
// interface restrita PushEscalator e portanto nunca consegue selecionar
// PushAndEmail — é assim que o loop "e-mail sobre falha de e-mail" fica
// irrepresentável.
type ChannelSet int

const (
	PushOnly ChannelSet = iota
	PushAndEmail
)

// PushEscalator é a interface restrita entregue ao caminho de falha do envio
// de e-mail: só escala por push.
type PushEscalator interface {
	ReportPushOnly(contextLabel string, err error)
}

// maxErrorBody limita o corpo do push de erro (em runas).
const maxErrorBody = 200

var errorMailTmpl = template.Must(template.New("systemErrorAlert").Parse(`<!doctype html>
<html>
  <body>
    <h2>Alerta de erro do sistema</h2>
    <p><strong>Contexto:</strong> {{.Context}}</p>
    <p><strong>Mensagem:</strong> {{.Message}}</p>
    <p><strong>Quando:</strong> {{.At}}</p>
    <p><a href="{{.Link}}">Abrir painel de erros</a></p>
  </body>
</html>`))

// Escalator é a política de notificação para erros de sistema: sempre push
// para todos os admins; e-mail condicional, um envio independente por admin.
//
// Report nunca devolve erro e nunca panica — ele costuma ser invocado de
// dentro do caminho de falha de outra operação.
type Escalator struct {
	Push   domain.Pusher
	Mail   domain.Mailer
	Admins domain.AdminDirectory
	BG     domain.Background

	// Link é o destino fixo do push/e-mail de erro (ex: /admin/errors).
	Link string
	// PlaceholderDomain exclui contas com e-mail de preenchimento
	// (ex: conta criada sem contato real). Vazio usa placeholder.invalid.
	PlaceholderDomain string

	Now func() time.Time
}

// Report loga o erro, dispara um push broadcast e, se channels == PushAndEmail,
// um e-mail independente por admin elegível (não banido, sem e-mail de
// preenchimento).
func (e *Escalator) Report(contextLabel string, err error, channels ChannelSet) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	log.Printf("[escalation] context=%q pushOnly=%v err=%s", contextLabel, channels == PushOnly, msg)

	push := domain.PushMessage{
		Title: "Error: " + contextLabel,
		Body:  truncate(msg, maxErrorBody),
		Link:  e.link(),
	}
	if e.Push != nil {
		e.dispatch("escalation.push", func(ctx context.Context) error {
			return e.Push.SendToAllAdmins(ctx, push)
		})
	}

	if channels != PushAndEmail || e.Mail == nil || e.Admins == nil {
		return
	}
	// A listagem de admins e a renderização acontecem fora da resposta do
	// chamador; qualquer erro aqui é logado e descartado.
	e.dispatch("escalation.email_fanout", func(ctx context.Context) error {
		return e.emailAdmins(ctx, contextLabel, msg)
	})
}

// ReportPushOnly implementa PushEscalator.
func (e *Escalator) ReportPushOnly(contextLabel string, err error) {
	e.Report(contextLabel, err, PushOnly)
}

func (e *Escalator) emailAdmins(ctx context.Context, contextLabel, msg string) error {
	admins, err := e.Admins.ListAdmins(ctx)
	if err != nil {
		// descartado de propósito: escalonamento não pode falhar.
		log.Printf("[escalation] list admins failed: %v", err)
		return nil
	}

	var html strings.Builder
	data := struct {
		Context, Message, At, Link string
	}{contextLabel, truncate(msg, maxErrorBody), e.now().UTC().Format(time.RFC3339), e.link()}
	if err := errorMailTmpl.Execute(&html, data); err != nil {
		log.Printf("[escalation] render template failed: %v", err)
		return nil
	}
	body := html.String()
	subject := "Error: " + contextLabel

	for _, adm := range admins {
		if !e.eligible(adm) {
			continue
		}
		to := adm.Email
		// um envio independente por admin: a falha de um não bloqueia os demais.
		e.dispatch("escalation.email", func(ctx context.Context) error {
			return e.Mail.Send(ctx, to, subject, body)
		})
	}
	return nil
}

func (e *Escalator) eligible(adm domain.Admin) bool {
	if adm.Banned {
		return false
	}
	email := strings.ToLower(strings.TrimSpace(adm.Email))
	if email == "" || !strings.Contains(email, "@") {
		return false
	}
	return !strings.HasSuffix(email, "@"+e.placeholderDomain())
}

func (e *Escalator) dispatch(name string, fn func(ctx context.Context) error) {
	if e.BG != nil {
		e.BG.Enqueue(name, fn)
		return
	}
	if err := fn(context.Background()); err != nil {
		log.Printf("[escalation] %s failed: %v", name, err)
	}
}

func (e *Escalator) link() string {
	if e.Link != "" {
		return e.Link
	}
	return "/admin/errors"
}

func (e *Escalator) placeholderDomain() string {
	if e.PlaceholderDomain != "" {
		return strings.ToLower(e.PlaceholderDomain)
	}
	return "placeholder.invalid"
}

func (e *Escalator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
