// Command api is the Scoracle Persona engine's chat server.
//
// Usage:
//
//	scoracle-persona serve
//	scoracle-persona serve --addr :9000
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-persona/internal/api"
	"github.com/albapepper/scoracle-persona/internal/config"
	"github.com/albapepper/scoracle-persona/internal/conversation"
	"github.com/albapepper/scoracle-persona/internal/db"
	"github.com/albapepper/scoracle-persona/internal/generator"
	"github.com/albapepper/scoracle-persona/internal/orchestrator"
	"github.com/albapepper/scoracle-persona/internal/retrieval"
	"github.com/albapepper/scoracle-persona/internal/security"
	"github.com/albapepper/scoracle-persona/internal/store"
	"github.com/albapepper/scoracle-persona/internal/telemetry"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	slog.SetDefault(logger)
	_ = godotenv.Load(".env")

	var addrOverride string

	root := &cobra.Command{
		Use:   "scoracle-persona",
		Short: "Scoracle Persona chat engine",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addrOverride)
		},
	}
	serve.Flags().StringVar(&addrOverride, "addr", "", "override API_HOST:API_PORT, e.g. :9000")
	root.AddCommand(serve)
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func runServe(addrOverride string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected", "min_conns", cfg.DBPoolMinConns, "max_conns", cfg.DBPoolMaxConns)

	st := store.New(pool)

	dictRows, err := st.ListEntityDictionary(ctx)
	if err != nil {
		return fmt.Errorf("load entity dictionary: %w", err)
	}
	dict, err := retrieval.BuildDictionary(dictRows)
	if err != nil {
		return fmt.Errorf("build entity dictionary: %w", err)
	}
	logger.Info("entity dictionary compiled", "entries", len(dictRows))

	engine := retrieval.NewEngine(st, dict, retrieval.Config{
		FTSTopKPerDomain:  cfg.FTSTopKPerDomain,
		FTSTotalCap:       cfg.FTSTotalCap,
		GraphMaxDepth:     cfg.GraphMaxDepth,
		Fusion:            retrieval.FusionWeights{Beta: cfg.FusionBeta, Gamma: cfg.FusionGamma},
		DepthDecayDepth1:  cfg.DepthDecayDepth1,
		DepthDecayDepth2:  cfg.DepthDecayDepth2,
		MaxQueryLength:    cfg.MaxQueryLength,
		StrictFTSEscaping: cfg.StrictFTSEscaping,
	})

	convs := conversation.NewManager()
	sec := security.NewManager()

	gen, err := buildGenerator(cfg)
	if err != nil {
		return fmt.Errorf("build generator: %w", err)
	}

	mp, shutdownTelemetry, err := telemetry.InitProvider("scoracle-persona")
	if err != nil {
		return fmt.Errorf("init telemetry provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown error", "error", err)
		}
	}()
	metrics, err := telemetry.New(mp)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	orch := orchestrator.New(st, engine, convs, sec, gen, cfg, metrics, logger)

	go conversation.StartEviction(ctx, convs, cfg.ConversationEvictionSweep, cfg.ConversationIdleTimeout, logger)
	go security.StartEviction(ctx, sec, cfg.ConversationEvictionSweep, cfg.SecuritySessionIdleTimeout, logger)

	router := api.NewRouter(pool, orch, cfg)

	addr := addrOverride
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting scoracle-persona", "addr", addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
	return nil
}

// buildGenerator selects the Generator adapter per configuration. When no
// provider credential is configured, it falls back to generator.Fake so the
// server still boots and the security/deflection paths remain exercisable
// without a live LLM credential.
func buildGenerator(cfg *config.Config) (generator.Generator, error) {
	if cfg.GeneratorAPIKey == "" && os.Getenv(providerEnvVar(cfg.GeneratorProvider)) == "" {
		logger.Warn("no generator credentials configured, falling back to a fixed-response generator",
			"provider", cfg.GeneratorProvider)
		return &generator.Fake{Text: "Thanks for the question — I don't have a live model connected right now."}, nil
	}
	return generator.NewAnyLLM(cfg.GeneratorProvider, cfg.GeneratorModel)
}

func providerEnvVar(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	case "ollama":
		return "OLLAMA_HOST"
	default:
		return "OPENAI_API_KEY"
	}
}
