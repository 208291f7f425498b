// Package application contém o orquestrador da rodada diária de seeding e
// limpeza, com isolamento de falha por job e guard de execução única por dia.
package application
