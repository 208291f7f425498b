// Package application contém o caso de uso do event log: montar o evento,
// despachar a escrita em background e, opcionalmente, acionar o push de
// admins do fan-out.
package application
