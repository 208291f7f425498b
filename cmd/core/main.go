package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/async"
	evapp "github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/application"
	evdomain "github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/domain"
	evinfra "github.com/nycclassifieds-2026/nyc-classifieds-sub003/eventlog/infra"
	ntapp "github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/application"
	ntdomain "github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/domain"
	ntinfra "github.com/nycclassifieds-2026/nyc-classifieds-sub003/notify/infra"
	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit"
	rldomain "github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/domain"
	rlinfra "github.com/nycclassifieds-2026/nyc-classifieds-sub003/ratelimit/infra"
	"github.com/nycclassifieds-2026/nyc-classifieds-sub003/seed"
	seedapp "github.com/nycclassifieds-2026/nyc-classifieds-sub003/seed/application"
	seeddomain "github.com/nycclassifieds-2026/nyc-classifieds-sub003/seed/domain"
	seedinfra "github.com/nycclassifieds-2026/nyc-classifieds-sub003/seed/infra"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bg := async.New(cfg.dispatchQueue, cfg.dispatchWorkers)
	bg.Start(ctx)

	// --- persistência opcional -------------------------------------------
	var pool *pgxpool.Pool
	if cfg.postgresDSN != "" {
		pool, err = pgxpool.New(ctx, cfg.postgresDSN)
		if err != nil {
			log.Fatalf("pgx pool error: %v", err)
		}
		defer pool.Close()
	}

	var sinks evinfra.MultiSink
	if pool != nil {
		sinks = append(sinks, evinfra.NewPostgresSink(pool))
	}
	if cfg.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
		sinks = append(sinks, evinfra.NewRedisSink(rdb, evinfra.WithPrefix(cfg.redisPrefix)))
	}
	var sink evdomain.Sink
	if len(sinks) > 0 {
		sink = sinks
	} else {
		sink = evinfra.NewMemorySink()
	}

	var notifStore ntdomain.Store
	if pool != nil {
		notifStore = ntinfra.NewPostgresStore(pool)
	} else {
		notifStore = ntinfra.NewMemoryStore()
	}

	// --- provedores externos ---------------------------------------------
	// O app hospedeiro injeta aqui os SDKs reais de push/e-mail e o diretório
	// de admins do banco; os stand-ins abaixo só logam.
	var pusher ntdomain.Pusher = logPusher{}
	var admins ntdomain.AdminDirectory = staticAdmins(cfg.adminEmails)

	esc := &ntapp.Escalator{
		Push:              pusher,
		Admins:            admins,
		BG:                bg,
		Link:              cfg.errorLink,
		PlaceholderDomain: cfg.placeholderDomain,
	}
	// prevenção de loop: o mailer embrulhado só enxerga o escalonamento por push.
	esc.Mail = ntinfra.NewSafeMailer(logMailer{}, esc)

	fanout := &ntapp.Fanout{Store: notifStore, Push: pusher, BG: bg}
	events := &evapp.Logger{Sink: sink, BG: bg, Notify: fanout}

	// --- rate limit -------------------------------------------------------
	admission := rlinfra.NewWindowStore()
	admission.StartJanitor(ctx)

	// --- orquestrador diário ---------------------------------------------
	var cleaners []seeddomain.RetentionCleaner
	if pool != nil {
		for _, table := range cfg.cleanupTables {
			cleaners = append(cleaners, seedinfra.NewPostgresCleaner(pool, table))
		}
	}
	orch := &seedapp.Orchestrator{
		// Users e Engines vêm do app hospedeiro; sem eles a rodada só limpa.
		Cleaners:  cleaners,
		Retention: cfg.retention,
	}

	mux := http.NewServeMux()
	mux.Handle("/internal/cron/daily", recoverPanics(esc)(ratelimit.Middleware(ratelimit.Options{
		Store: admission,
		Rule:  rldomain.Rule{Limit: cfg.rateLimit, Window: cfg.rateWindow},
		OnDecision: func(r *http.Request, key string, allowed bool) {
			if !allowed {
				events.Record("rate_limit_denied", map[string]any{"key": key},
					evapp.WithPath(r.URL.Path), evapp.WithIP(r.RemoteAddr))
			}
		},
	})(seed.TriggerHandler(seed.TriggerOptions{Secret: cfg.cronSecret, Orchestrator: orch}))))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		_ = srv.Shutdown(shutdownCtx)
		bg.Wait()
	}()

	log.Printf("resilience core listening on %s", cfg.listenAddr)
	log.Printf("rate: limit=%d window=%s", cfg.rateLimit, cfg.rateWindow)
	log.Printf("storage: postgres=%v redis=%v", pool != nil, cfg.redisAddr != "")
	log.Printf("cron: cleanupTables=%v retention=%s", cfg.cleanupTables, cfg.retention)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// recoverPanics transforma panic de handler em 500 + escalonamento para os
// operadores (push e e-mail), em vez de derrubar a conexão.
func recoverPanics(esc *ntapp.Escalator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					esc.Report(r.URL.Path, fmt.Errorf("panic: %v", p), ntapp.PushAndEmail)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// logPusher e logMailer são stand-ins dos provedores reais.

type logPusher struct{}

func (logPusher) SendToUser(_ context.Context, userID int64, msg ntdomain.PushMessage) error {
	log.Printf("[push] user=%d title=%q", userID, msg.Title)
	return nil
}

func (logPusher) SendToAllAdmins(_ context.Context, msg ntdomain.PushMessage) error {
	log.Printf("[push] broadcast admins title=%q", msg.Title)
	return nil
}

type logMailer struct{}

func (logMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("[mail] to=%s subject=%q", to, subject)
	return nil
}

// staticAdmins serve o diretório de admins a partir de uma lista de e-mails
// na configuração (dev); em produção o hospedeiro liga o banco aqui.
type staticAdmins []string

func (a staticAdmins) ListAdmins(context.Context) ([]ntdomain.Admin, error) {
	out := make([]ntdomain.Admin, 0, len(a))
	for i, email := range a {
		out = append(out, ntdomain.Admin{ID: int64(i + 1), Email: email})
	}
	return out, nil
}

type config struct {
	listenAddr string
	cronSecret string

	rateLimit  int
	rateWindow time.Duration

	dispatchQueue   int
	dispatchWorkers int

	postgresDSN string

	redisAddr     string
	redisPassword string
	redisDB       int
	redisPrefix   string

	errorLink         string
	placeholderDomain string
	adminEmails       []string

	retention     time.Duration
	cleanupTables []string
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.cronSecret = os.Getenv("CRON_SECRET")

	cfg.rateLimit = getenvIntDefault("RATE_LIMIT", 30)
	cfg.rateWindow = getenvDurationDefault("RATE_WINDOW", 1*time.Minute)

	cfg.dispatchQueue = getenvIntDefault("DISPATCH_QUEUE", 1024)
	cfg.dispatchWorkers = getenvIntDefault("DISPATCH_WORKERS", 4)

	cfg.postgresDSN = os.Getenv("POSTGRES_DSN")

	cfg.redisAddr = getenvDefault("REDIS_ADDR", "")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)
	cfg.redisPrefix = getenvDefault("REDIS_PREFIX", "eventlog")

	cfg.errorLink = getenvDefault("ERROR_LINK", "/admin/errors")
	cfg.placeholderDomain = getenvDefault("PLACEHOLDER_DOMAIN", "placeholder.invalid")
	cfg.adminEmails = splitCSV(os.Getenv("ADMIN_EMAILS"))

	cfg.retention = time.Duration(getenvIntDefault("RETENTION_DAYS", 90)) * 24 * time.Hour
	cfg.cleanupTables = splitCSV(getenvDefault("CLEANUP_TABLES", "events,page_views"))

	if cfg.cronSecret == "" {
		return config{}, errors.New("CRON_SECRET is required")
	}
	if cfg.rateLimit <= 0 {
		return config{}, errors.New("RATE_LIMIT must be > 0")
	}
	if cfg.rateWindow <= 0 {
		return config{}, errors.New("RATE_WINDOW must be > 0")
	}
	return cfg, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
