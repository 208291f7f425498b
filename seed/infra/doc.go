// Package infra contém implementações concretas dos jobs de limpeza:
// PostgresCleaner apaga registros de analytics além da janela de retenção.
package infra
