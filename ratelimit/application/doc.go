// Package application contém o caso de uso do controle de admissão.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Allow(key, rule) retorna uma Decision (allow/deny + retry-after).
package application
