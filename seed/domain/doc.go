// Package domain define os contratos dos jobs diários (usuários sintéticos,
// motores de conteúdo, limpeza de retenção) e os tipos do relatório agregado.
package domain
