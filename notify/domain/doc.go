// Package domain define os tipos e contratos do fan-out de notificações e do
// escalonamento de erros.
//
// Este pacote não depende de net/http nem de implementações concretas
// (banco, provedor de push, provedor de e-mail).
package domain
