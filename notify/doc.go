// Package notify implementa o fan-out de notificações multicanal
// (registro persistido, push, e-mail) e o escalonamento de erros de sistema.
//
// Visão geral (camadas):
//
//   - domain: tipos e contratos (Store, Pusher, Mailer, AdminDirectory)
//   - application: Fanout (entrega por canais com falha isolada) e Escalator
//     (política de erro de sistema com prevenção de loop)
//   - infra: stores concretos e o SafeMailer
//
// Propriedade central: todo call site trata estas operações como
// infraestrutura "dispare e esqueça" — elas nunca podem quebrar, bloquear ou
// entrar em loop a partir de uma requisição, mas ainda entregam os efeitos
// colaterais observáveis (push, e-mail, registro).
package notify
