package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/seed/domain"
)

// ErrAlreadyRanToday indica que o guard de execução única recusou a rodada.
var ErrAlreadyRanToday = errors.New("seed: daily run already executed today")

// Orchestrator coordena a rodada diária:
//
//  1. guard de duplicidade (uma rodada por dia UTC, salvo force);
//  2. job de usuários sintéticos, sequencial — falha capturada, rodada segue;
//  3. limpezas de retenção e motores de conteúdo, todos concorrentes, cada um
//     com recover próprio: a falha (ou panic) de um job vira o seu JobResult e
//     nunca aborta os irmãos;
//  4. relatório agregado.
//
// O guard é em memória: reiniciar o processo o esquece (mesmo tradeoff do rate
// limiter). Reentradas manuais no mesmo dia pedem force.
type Orchestrator struct {
	Users    domain.UserSeeder
	Engines  []domain.ContentEngine
	Cleaners []domain.RetentionCleaner

	// Retention é a idade máxima dos registros de analytics; <= 0 usa 90 dias.
	Retention time.Duration

	Now func() time.Time

	mu      sync.Mutex
	lastRun string // data UTC (2006-01-02) do último início
}

func (o *Orchestrator) Run(ctx context.Context, force bool) (domain.RunReport, error) {
	started := o.now()
	today := started.UTC().Format("2006-01-02")

	o.mu.Lock()
	if !force && o.lastRun == today {
		o.mu.Unlock()
		return domain.RunReport{}, ErrAlreadyRanToday
	}
	o.lastRun = today
	o.mu.Unlock()

	report := domain.RunReport{StartedAt: started}

	// 1) usuários sintéticos, antes do resto; a contagem independe dos
	// demais passos e a falha não interrompe a rodada.
	report.NewUsers = runJob("new_users", func(ctx context.Context) (int64, error) {
		if o.Users == nil {
			return 0, nil
		}
		n, err := o.Users.SeedUsers(ctx)
		return int64(n), err
	})(ctx)

	// 2+3) limpezas e motores, concorrentes entre si.
	cutoff := started.Add(-o.retention())
	report.Cleanups = make([]domain.JobResult, len(o.Cleaners))
	report.Engines = make([]domain.JobResult, len(o.Engines))

	var wg sync.WaitGroup
	for i, c := range o.Cleaners {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Cleanups[i] = runJob(c.Name(), func(ctx context.Context) (int64, error) {
				return c.Cleanup(ctx, cutoff)
			})(ctx)
		}()
	}
	for i, eng := range o.Engines {
		i, eng := i, eng
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Engines[i] = runJob(eng.Name(), func(ctx context.Context) (int64, error) {
				sum, err := eng.Run(ctx)
				return int64(sum.Posts + sum.Replies), err
			})(ctx)
		}()
	}
	wg.Wait()

	report.FinishedAt = o.now()
	log.Printf("[seed] daily run finished: users=%+v cleanups=%d engines=%d elapsed=%s",
		report.NewUsers, len(report.Cleanups), len(report.Engines), report.FinishedAt.Sub(started))
	return report, nil
}

// runJob isola um job: erro ou panic viram JobResult, nunca sobem.
func runJob(name string, fn func(ctx context.Context) (int64, error)) func(ctx context.Context) domain.JobResult {
	return func(ctx context.Context) (res domain.JobResult) {
		res.Job = name
		defer func() {
			if p := recover(); p != nil {
				res.OK = false
				res.Err = fmt.Sprint("panic: ", p)
				log.Printf("[seed] job %q panicked: %v", name, p)
			}
		}()

		n, err := fn(ctx)
		res.Count = n
		if err != nil {
			res.Err = err.Error()
			return res
		}
		res.OK = true
		return res
	}
}

func (o *Orchestrator) retention() time.Duration {
	if o.Retention > 0 {
		return o.Retention
	}
	return 90 * 24 * time.Hour
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
