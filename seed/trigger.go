package seed

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/seed/application"
)

// SecretHeader carrega o segredo compartilhado do agendador externo.
const SecretHeader = "X-Cron-Secret"

type TriggerOptions struct {
	// Secret é obrigatório: vazio fecha o endpoint (fail closed).
	Secret       string
	Orchestrator *application.Orchestrator
}

// TriggerHandler expõe o orquestrador como endpoint HTTP para o gatilho diário.
//
// POST com o segredo em X-Cron-Secret (ou ?secret=). Falhas de jobs aparecem
// DENTRO do relatório (200), nunca como 5xx; só o guard de duplicidade vira
// 409. ?force=1 ignora o guard.
func TriggerHandler(opts TriggerOptions) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if !secretOK(r, opts.Secret) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		force := r.URL.Query().Get("force") == "1"
		report, err := opts.Orchestrator.Run(r.Context(), force)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, application.ErrAlreadyRanToday) {
				status = http.StatusConflict
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report)
	})
}

func secretOK(r *http.Request, secret string) bool {
	if secret == "" {
		return false
	}
	got := r.Header.Get(SecretHeader)
	if got == "" {
		got = r.URL.Query().Get("secret")
	}
	// comparação em tempo constante: o segredo é a única autenticação do gatilho.
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}
