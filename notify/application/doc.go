// Package application contém os casos de uso do fan-out de notificações
// (Fanout) e do escalonamento de erros de sistema (Escalator).
//
// Ele depende apenas do pacote domain e não conhece net/http nem os
// provedores concretos de push/e-mail.
package application
