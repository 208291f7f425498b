package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/async"
	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/domain"
)

type captureSink struct {
	mu   sync.Mutex
	recs []domain.Record
	err  error
}

func (s *captureSink) Write(_ context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return s.err
}

func (s *captureSink) Records() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Record, len(s.recs))
	copy(out, s.recs)
	return out
}

// slowSink segura a escrita até o canal liberar — serve para observar que
// Record devolve o controle antes da escrita completar.
type slowSink struct {
	release chan struct{}
	done    chan struct{}
}

func (s *slowSink) Write(context.Context, domain.Record) error {
	<-s.release
	close(s.done)
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string // title + "|" + body
}

func (n *fakeNotifier) NotifyAdmins(title, body, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, title+"|"+body)
}

func TestLogger_RecordCapturesFields(t *testing.T) {
	sink := &captureSink{}
	l := &Logger{Sink: sink} // sem BG: escreve inline, erro descartado

	l.Record("listing_view",
		map[string]any{"listing_id": 9},
		WithActor(42), WithPath("/listings/9"), WithIP("203.0.113.7"), WithVisitorHash("abc"))

	recs := sink.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Type != "listing_view" || rec.ActorID != 42 || rec.Path != "/listings/9" ||
		rec.IP != "203.0.113.7" || rec.VisitorHash != "abc" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Detail["listing_id"] != 9 {
		t.Fatalf("detail lost: %+v", rec.Detail)
	}
	if rec.CreatedAt.IsZero() || rec.ID == uuid.Nil {
		t.Fatalf("expected id and timestamp to be filled")
	}
}

func TestLogger_RecordReturnsBeforeSlowWrite(t *testing.T) {
	sink := &slowSink{release: make(chan struct{}), done: make(chan struct{})}

	bg := async.New(8, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bg.Start(ctx)

	l := &Logger{Sink: sink, BG: bg}

	returned := make(chan struct{})
	go func() {
		l.Record("slow_event", nil)
		close(returned)
	}()

	select {
	case <-returned:
		// voltou com o sink ainda segurando a escrita
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on the sink write")
	}

	close(sink.release)
	select {
	case <-sink.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sink write never completed in background")
	}
}

func TestLogger_SinkFailureIsSwallowed(t *testing.T) {
	sink := &captureSink{err: errors.New("disk full")}
	l := &Logger{Sink: sink}

	// não pode panicar nem propagar nada
	l.Record("whatever", nil)
}

func TestLogger_NotifyOptionTriggersAdminPush(t *testing.T) {
	sink := &captureSink{}
	notif := &fakeNotifier{}
	l := &Logger{Sink: sink, Notify: notif}

	l.Record("signup_abuse", nil, WithNotify("Abuso detectado", "ip repetido"))
	if len(notif.calls) != 1 || notif.calls[0] != "Abuso detectado|ip repetido" {
		t.Fatalf("unexpected notify calls: %v", notif.calls)
	}
}

func TestLogger_NotifyBodyDefaultsToEventType(t *testing.T) {
	notif := &fakeNotifier{}
	l := &Logger{Notify: notif}

	l.Record("signup_abuse", nil, WithNotify("Abuso detectado", ""))
	if len(notif.calls) != 1 || notif.calls[0] != "Abuso detectado|signup_abuse" {
		t.Fatalf("expected body to default to event type, got %v", notif.calls)
	}
}
