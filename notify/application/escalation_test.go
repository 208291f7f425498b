package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/domain"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string // destinatários
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return m.err
}

type fakeAdmins struct {
	admins []domain.Admin
	err    error
}

func (a *fakeAdmins) ListAdmins(context.Context) ([]domain.Admin, error) {
	return a.admins, a.err
}

func newEscalator(push *fakePusher, mail *fakeMailer, admins *fakeAdmins, bg *fakeBG) *Escalator {
	e := &Escalator{Push: push, BG: bg, Link: "/admin/errors"}
	// evita embrulhar ponteiro nil em interface não-nil
	if mail != nil {
		e.Mail = mail
	}
	if admins != nil {
		e.Admins = admins
	}
	return e
}

func TestEscalator_PushAndEmail(t *testing.T) {
	push := &fakePusher{}
	mail := &fakeMailer{}
	admins := &fakeAdmins{admins: []domain.Admin{
		{ID: 1, Email: "ops@example.com"},
		{ID: 2, Email: "root@example.com"},
		{ID: 3, Email: "banned@example.com", Banned: true},
		{ID: 4, Email: "ghost@placeholder.invalid"},
	}}
	bg := &fakeBG{}
	e := newEscalator(push, mail, admins, bg)

	e.Report("payment webhook", errors.New("timeout"), PushAndEmail)
	bg.Run() // fan-out de e-mail
	bg.Run() // envios individuais enfileirados pelo fan-out

	if len(push.broadcast) != 1 {
		t.Fatalf("expected exactly one push broadcast, got %d", len(push.broadcast))
	}
	if got := push.broadcast[0].Title; got != "Error: payment webhook" {
		t.Fatalf("unexpected push title %q", got)
	}
	if len(mail.sent) != 2 {
		t.Fatalf("expected email only to the 2 eligible admins, got %v", mail.sent)
	}
	for _, to := range mail.sent {
		if to == "banned@example.com" || strings.HasSuffix(to, "@placeholder.invalid") {
			t.Fatalf("ineligible admin received email: %s", to)
		}
	}
}

func TestEscalator_PushOnlySendsNoEmail(t *testing.T) {
	push := &fakePusher{}
	mail := &fakeMailer{}
	admins := &fakeAdmins{admins: []domain.Admin{{ID: 1, Email: "ops@example.com"}}}
	bg := &fakeBG{}
	e := newEscalator(push, mail, admins, bg)

	e.Report("email delivery", errors.New("smtp down"), PushOnly)
	bg.Run()
	bg.Run()

	if len(push.broadcast) != 1 {
		t.Fatalf("expected exactly one push broadcast, got %d", len(push.broadcast))
	}
	if len(mail.sent) != 0 {
		t.Fatalf("push-only escalation must not email, got %v", mail.sent)
	}
}

func TestEscalator_TruncatesLongMessages(t *testing.T) {
	push := &fakePusher{}
	bg := &fakeBG{}
	e := newEscalator(push, nil, nil, bg)

	e.Report("ctx", errors.New(strings.Repeat("x", 500)), PushOnly)
	bg.Run()

	if len(push.broadcast) != 1 {
		t.Fatalf("expected one push, got %d", len(push.broadcast))
	}
	body := []rune(push.broadcast[0].Body)
	if len(body) != maxErrorBody+1 { // 200 + marcador de corte
		t.Fatalf("expected body truncated to %d runes, got %d", maxErrorBody+1, len(body))
	}
}

func TestEscalator_AdminListFailureIsSwallowed(t *testing.T) {
	push := &fakePusher{}
	mail := &fakeMailer{}
	admins := &fakeAdmins{err: errors.New("db down")}
	bg := &fakeBG{}
	e := newEscalator(push, mail, admins, bg)

	// não pode panicar nem propagar: escalonamento roda no caminho de falha alheio
	e.Report("anything", errors.New("boom"), PushAndEmail)
	bg.Run()
	bg.Run()

	if len(push.broadcast) != 1 {
		t.Fatalf("push must still go out when the admin list fails, got %d", len(push.broadcast))
	}
	if len(mail.sent) != 0 {
		t.Fatalf("no email should be attempted, got %v", mail.sent)
	}
}

func TestEscalator_NilErrorStillEscalates(t *testing.T) {
	push := &fakePusher{}
	bg := &fakeBG{}
	e := newEscalator(push, nil, nil, bg)

	e.Report("ctx", nil, PushOnly)
	bg.Run()

	if len(push.broadcast) != 1 {
		t.Fatalf("expected one push for nil error, got %d", len(push.broadcast))
	}
}
