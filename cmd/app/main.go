// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fedup-chat/internal/config"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/adapter"
	aiAdapters "fedup-chat/internal/infra/adapters/ai"
	searchAdapters "fedup-chat/internal/infra/adapters/search"
	"fedup-chat/internal/infra/api"
	pg "fedup-chat/internal/infra/db/postgres"
	"fedup-chat/internal/infra/logging"
	"fedup-chat/internal/infra/metrics"
	red "fedup-chat/internal/infra/redis"
	"fedup-chat/internal/infra/sched"
	"fedup-chat/internal/infra/security"
	"fedup-chat/internal/infra/web"
	"fedup-chat/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed cookies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)
	visitors := red.NewVisitorCounter(redisClient, cfg.Visitor.DedupeWindow)

	// ---- Record signing ----
	signer, err := security.NewRecordSigner(cfg.Demo.Secret)
	if err != nil {
		log.Fatalf("record signer: %v", err)
	}

	// ---- Repositories ----
	ledgerRepo := pg.NewLedgerRepo(pool)
	messageRepo := pg.NewMessageRepo(pool)
	settingsRepo := pg.NewSettingsRepo(pool)
	waitlistRepo := pg.NewWaitlistRepo(pool)

	// ---- AI adapters (primary Gemini -> demo Gemini -> OpenAI) ----
	var chain []adapter.CompletionAdapter
	if cfg.AI.GeminiKey != "" {
		primary, err := aiAdapters.NewGeminiAdapter(ctx, "gemini-primary", cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		chain = append(chain, primary)
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini (primary)")
	}
	if cfg.AI.GeminiDemoKey != "" {
		secondary, err := aiAdapters.NewGeminiAdapter(ctx, "gemini-demo", cfg.AI.GeminiDemoKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			log.Fatalf("gemini demo adapter: %v", err)
		}
		chain = append(chain, secondary)
	}
	if cfg.AI.OpenAIKey != "" {
		oa, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		chain = append(chain, oa)
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI (failover)")
	}
	if len(chain) == 0 {
		log.Fatalf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}
	ai := aiAdapters.NewLimitedAI(aiAdapters.NewFailoverAdapter(logger, chain...), cfg.AI.ConcurrentLimit)

	fallback := aiAdapters.NewFallbackResponder(time.Now().UnixNano())
	searcher := searchAdapters.NewDuckDuckGo(cfg.Search.BaseURL, cfg.Search.Timeout)
	prompt := usecase.NewPromptBuilder(cfg.AI.HistoryTokens)

	// ---- Use cases ----
	quotaUC := usecase.NewQuotaUseCase(ledgerRepo, model.QuotaCaps{
		TextTurns:  cfg.Quota.TextCap,
		VoiceTurns: cfg.Quota.VoiceCap,
	})
	sessionUC := usecase.NewSessionUseCase(messageRepo, settingsRepo, quotaUC)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo)
	waitlistUC := usecase.NewWaitlistUseCase(waitlistRepo)
	convoUC := usecase.NewConversationUseCase(
		messageRepo, settingsRepo, quotaUC, sessionUC,
		ai, searcher, fallback, locker, prompt,
		cfg.AI.RequestTimeout, logger,
	)
	demoUC := usecase.NewDemoSessionUseCase(
		signer, ai, fallback, prompt,
		model.ChatMode(cfg.Demo.Mode), cfg.Demo.Cap,
		cfg.AI.RequestTimeout, logger,
	)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.SessionSecret, cfg.Auth.SecureCookie && !cfg.Runtime.Dev, cfg.Auth.CookieDomain, cfg.Auth.TTL)
	srv := web.NewServer(convoUC, sessionUC, demoUC, quotaUC, settingsUC, waitlistUC, visitors, auth, cfg.Server.AdminAPIKey, logger)

	metrics.MustRegister()
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	handler := api.Chain(mux,
		api.Recover(logger),
		api.TraceID(),
		api.RequestLog(logger),
		api.CORS(cfg.Server.AllowedOrigins),
		api.RateLimit(rateLimiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger),
	)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Stats worker ----
	worker := sched.NewStatsWorker(10*time.Minute, waitlistRepo, settingsRepo, messageRepo, visitors, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
