// Package seed fornece o adapter HTTP do gatilho diário de seeding.
//
// Visão geral (camadas):
//
//   - domain: contratos dos jobs + tipos do relatório
//   - application: orquestrador (isolamento de falha por job, guard diário)
//   - infra: limpeza de retenção via pgx
//   - seed (este pacote): endpoint HTTP autenticado por segredo compartilhado
package seed
