// Package infra contém os sinks concretos do event log:
//
//   - MemorySink: contadores em memória (dev/testes)
//   - RedisSink: séries de contagem por tipo (total + bucket por minuto)
//   - PostgresSink: registro bruto com detail em jsonb
//   - MultiSink: combinação dos anteriores com falha isolada
package infra
