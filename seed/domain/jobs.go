package domain

// Contratos dos jobs diários e tipos do relatório agregado.
//
// Os motores de conteúdo e o gerador de usuários sintéticos são colaboradores
// externos: este núcleo só conhece "rode uma unidade de trabalho diário e me
// devolva um resumo".

import (
	"context"
	"time"
)

// UserSeeder cria o lote diário de usuários sintéticos e devolve quantos criou.
type UserSeeder interface {
	SeedUsers(ctx context.Context) (int, error)
}

// EngineSummary resume o que um motor de conteúdo criou em uma rodada.
type EngineSummary struct {
	Posts   int `json:"posts"`
	Replies int `json:"replies"`
}

// ContentEngine simula atividade orgânica do marketplace. Contrato: rodar uma
// unidade de trabalho diário, devolver o resumo e nunca deixar escrita parcial
// que exija rollback do chamador.
type ContentEngine interface {
	Name() string
	Run(ctx context.Context) (EngineSummary, error)
}

// RetentionCleaner apaga registros de analytics mais antigos que o cutoff e
// devolve quantas linhas removeu.
type RetentionCleaner interface {
	Name() string
	Cleanup(ctx context.Context, cutoff time.Time) (int64, error)
}

// JobResult é o desfecho individual de um job; falha de um job nunca
// contamina os irmãos.
type JobResult struct {
	Job   string `json:"job"`
	OK    bool   `json:"ok"`
	Count int64  `json:"count"`
	Err   string `json:"error,omitempty"`
}

// RunReport agrega os desfechos de uma invocação do orquestrador.
// Efêmero: quem chamou pode logar/retornar, mas nada disto é persistido aqui.
type RunReport struct {
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	NewUsers   JobResult   `json:"new_users"`
	Cleanups   []JobResult `json:"cleanups"`
	Engines    []JobResult `json:"engines"`
}
