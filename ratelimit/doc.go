// Package ratelimit fornece adapters HTTP (net/http) para controle de admissão
// por chave (rate limit de rotas caras ou abusáveis).
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: caso de uso (decisão allow/deny + retry-after) sem net/http
//   - infra: implementações concretas (janela deslizante, token bucket)
//   - ratelimit (este pacote): middleware HTTP + extração de chave + tradução para status/headers
//
// Fluxo:
//
//  1. Extrai a chave rota:ip (ou header de API key)
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, responde 429 com Retry-After
//  4. Se permitido, chama o próximo handler
//
// A decisão é síncrona e em memória: Allow nunca bloqueia em I/O e o estado
// não sobrevive a reinício do processo (tradeoff aceito).
package ratelimit
