// Package async é a primitiva única de despacho "dispare e esqueça" do núcleo:
// fila limitada + workers fixos, com recuperação de panic e descarte logado de
// erros.
//
// Nenhum componente do núcleo sobe goroutines avulsas para trabalho de melhor
// esforço; tudo passa por aqui, o que limita o acúmulo de recursos quando um
// provedor externo fica lento.
package async
