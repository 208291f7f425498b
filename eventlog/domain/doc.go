// Package domain define o tipo de evento e os contratos do event log.
//
// Este pacote não depende de net/http nem de implementações concretas.
package domain
