// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - WindowStore: log de janela deslizante por chave (teto exato por janela)
//   - BucketStore: token bucket por chave usando golang.org/x/time/rate
package infra
