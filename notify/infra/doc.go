// Package infra contém implementações concretas para os contratos do fan-out:
//
//   - MemoryStore: persistência em memória (dev/testes)
//   - PostgresStore: persistência via pgx
//   - SafeMailer: decorator de Mailer que restringe o escalonamento de falha
//     de envio ao canal push (prevenção de loop)
package infra
