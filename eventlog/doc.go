// Package eventlog implementa o sink de analytics/auditoria de melhor esforço.
//
// Record devolve o controle imediatamente; a escrita acontece em background e
// o resultado é descartado. Opcionalmente um evento também aciona o push de
// admins do fan-out de notificações.
package eventlog
