package infra

import (
	"context"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/application"
	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/domain"
)

// SafeMailer decora um domain.Mailer com a regra dura do subsistema: a falha
// do próprio envio de e-mail só pode escalar por push.
//
// O decorator recebe application.PushEscalator (interface restrita), então
// nem por engano o caminho de falha consegue disparar outro e-mail — uma
// queda do provedor de e-mail nunca vira tempestade de e-mails.
type SafeMailer struct {
	Inner domain.Mailer
	Esc   application.PushEscalator
}

func NewSafeMailer(inner domain.Mailer, esc application.PushEscalator) *SafeMailer {
	return &SafeMailer{Inner: inner, Esc: esc}
}

func (m *SafeMailer) Send(ctx context.Context, to, subject, html string) error {
	err := m.Inner.Send(ctx, to, subject, html)
	if err != nil && m.Esc != nil {
		m.Esc.ReportPushOnly("email delivery", err)
	}
	return err
}
