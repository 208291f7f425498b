package infra

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/application"
	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/domain"
)

type countingMailer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *countingMailer) Send(context.Context, string, string, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

func (m *countingMailer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type countingPusher struct {
	mu        sync.Mutex
	broadcast int
}

func (p *countingPusher) SendToUser(context.Context, int64, domain.PushMessage) error { return nil }

func (p *countingPusher) SendToAllAdmins(context.Context, domain.PushMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcast++
	return nil
}

type singleAdmin struct{}

func (singleAdmin) ListAdmins(context.Context) ([]domain.Admin, error) {
	return []domain.Admin{{ID: 1, Email: "ops@example.com"}}, nil
}

func TestSafeMailer_EscalatesPushOnly(t *testing.T) {
	inner := &countingMailer{err: errors.New("smtp refused")}
	push := &countingPusher{}

	esc := &application.Escalator{Push: push, Admins: singleAdmin{}}
	esc.Mail = NewSafeMailer(inner, esc)

	if err := esc.Mail.Send(context.Background(), "ops@example.com", "s", "<b>x</b>"); err == nil {
		t.Fatalf("expected inner failure to surface to the dispatching job")
	}
	if inner.Calls() != 1 {
		t.Fatalf("expected a single send attempt, got %d", inner.Calls())
	}
	if push.broadcast != 1 {
		t.Fatalf("expected the failure to escalate by push, got %d broadcasts", push.broadcast)
	}
}

// O cenário completo: um escalonamento com e-mail, provedor de e-mail caído.
// O caminho de falha só enxerga ReportPushOnly, então a cadeia termina sem
// nenhuma segunda tentativa de e-mail — nunca "e-mail sobre falha de e-mail".
func TestSafeMailer_NoEmailStormOnProviderOutage(t *testing.T) {
	inner := &countingMailer{err: errors.New("smtp down")}
	push := &countingPusher{}

	// sem Background: tudo roda inline, o que torna a recursão observável
	// (e finita) dentro do próprio teste.
	esc := &application.Escalator{Push: push, Admins: singleAdmin{}}
	esc.Mail = NewSafeMailer(inner, esc)

	esc.Report("payment webhook", errors.New("timeout"), application.PushAndEmail)

	if inner.Calls() != 1 {
		t.Fatalf("expected exactly one email attempt, got %d (email storm?)", inner.Calls())
	}
	// dois pushes: o do erro original e o da falha de e-mail escalada
	if push.broadcast != 2 {
		t.Fatalf("expected 2 push broadcasts (original + email failure), got %d", push.broadcast)
	}
}
