// utilitário pequeno para formatação rápida/consistente de valores numéricos em headers/logs.
//    Evita puxar fmt (que é mais “pesado” e genérico) só para formatação simples

package ratelimit

import (
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// formatSeconds arredonda durações para segundos inteiros (formato esperado
// pelos headers Retry-After / X-RateLimit-Window).
func formatSeconds(d time.Duration) string {
	return strconv.Itoa(int(d.Seconds()))
}
