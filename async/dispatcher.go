package async

import (
	"context"
	"log"
	"sync"
	"time"
)

// Dispatcher executa trabalho "dispare e esqueça" em background: fila limitada
// + pool fixo de workers.
//
// Contrato:
//   - Enqueue nunca bloqueia o chamador: com a fila cheia o job é descartado
//     (com uma linha de log) e Enqueue devolve false;
//   - erros devolvidos pelos jobs são logados e descartados;
//   - panic dentro de um job é recuperado e logado — um job nunca derruba o
//     worker nem o processo;
//   - ao cancelar o contexto de Start, os workers drenam o que resta na fila
//     com um prazo de graça e encerram (melhor esforço, sem durabilidade).
type Dispatcher struct {
	queue      chan task
	workers    int
	drainGrace time.Duration

	wg sync.WaitGroup
}

type task struct {
	name string
	fn   func(ctx context.Context) error
}

type Option func(*Dispatcher)

func WithDrainGrace(d time.Duration) Option {
	return func(p *Dispatcher) { p.drainGrace = d }
}

func New(queueSize, workers int, opts ...Option) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{
		queue:      make(chan task, queueSize),
		workers:    workers,
		drainGrace: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start sobe os workers. Pare cancelando o contexto; Wait aguarda o término.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
}

func (d *Dispatcher) Wait() { d.wg.Wait() }

// Enqueue submete um job de melhor esforço. Nunca bloqueia: devolve false
// (e loga) quando a fila está cheia.
func (d *Dispatcher) Enqueue(name string, fn func(ctx context.Context) error) bool {
	select {
	case d.queue <- task{name: name, fn: fn}:
		return true
	default:
		log.Printf("[async] queue full, dropping job %q", name)
		return false
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case t := <-d.queue:
			d.run(ctx, t)
		}
	}
}

// drain consome o que couber no prazo de graça, com um contexto novo (o
// original já foi cancelado).
func (d *Dispatcher) drain() {
	if d.drainGrace <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.drainGrace)
	defer cancel()
	for {
		select {
		case t := <-d.queue:
			d.run(ctx, t)
		default:
			return
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, t task) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[async] job %q panicked: %v", t.name, p)
		}
	}()
	if err := t.fn(ctx); err != nil {
		log.Printf("[async] job %q failed: %v", t.name, err)
	}
}
