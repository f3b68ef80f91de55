package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/config"
	"github.com/jpkday/smartsave-ai-sub000/pkg/database"
	"github.com/jpkday/smartsave-ai-sub000/pkg/handlers"
	"github.com/jpkday/smartsave-ai-sub000/pkg/llm"
	"github.com/jpkday/smartsave-ai-sub000/pkg/logging"
	"github.com/jpkday/smartsave-ai-sub000/pkg/matching"
	"github.com/jpkday/smartsave-ai-sub000/pkg/mcp"
	"github.com/jpkday/smartsave-ai-sub000/pkg/mcp/tools"
	"github.com/jpkday/smartsave-ai-sub000/pkg/middleware"
	"github.com/jpkday/smartsave-ai-sub000/pkg/reconcile"
	"github.com/jpkday/smartsave-ai-sub000/pkg/repositories"
	"github.com/jpkday/smartsave-ai-sub000/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.String("error", logging.SanitizeError(err)))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connStr := cfg.Database.ConnectionString()
	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", logging.SanitizeConnectionString(connStr)),
		zap.Float64("match_threshold", cfg.Matching.Threshold),
		zap.Bool("hints_enabled", cfg.Hints.LLM.Enabled()))

	// Database
	if err := database.RunMigrationsURL(connStr, logger); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	// Matching
	abbreviations := matching.DefaultAbbreviations()
	if cfg.Matching.AbbreviationsFile != "" {
		abbreviations, err = matching.LoadAbbreviationsFile(cfg.Matching.AbbreviationsFile)
		if err != nil {
			return fmt.Errorf("abbreviations: %w", err)
		}
	}
	matcher := matching.NewMatcher(&cfg.Matching, abbreviations)
	pipeline := reconcile.NewPipeline(matcher)

	// Hints
	var hints services.HintService
	llmCfg := cfg.Hints.LLM
	llmCfg.Endpoint = config.ResolveURLForDocker(llmCfg.Endpoint)
	llmClient, err := llm.NewFromConfig(&llmCfg, logger)
	if err != nil {
		return fmt.Errorf("hint client: %w", err)
	}
	if llmClient != nil {
		hints = services.NewHintService(llmClient, services.HintConfig{
			MaxCandidates: cfg.Hints.MaxCandidates,
			Timeout:       cfg.Hints.Timeout,
			Breaker:       llm.NewCircuitBreaker(cfg.Hints.Breaker),
		}, logger)
		logger.Info("LLM hints enabled",
			zap.String("model", llmClient.GetModel()),
			zap.String("endpoint", llmClient.GetEndpoint()))
	}

	// Repositories and services
	catalogRepo := repositories.NewCatalogRepository()
	aliasRepo := repositories.NewAliasRepository()
	priceRepo := repositories.NewPriceRepository()

	reconcileService := services.NewReconciliationService(catalogRepo, aliasRepo, hints, pipeline, logger)
	finalizeService := services.NewFinalizeService(catalogRepo, aliasRepo, priceRepo, database.InTx, logger)
	priceService := services.NewPriceService(catalogRepo, priceRepo, logger)
	reviewService := services.NewReviewService(catalogRepo, logger)
	catalogService := services.NewCatalogService(catalogRepo, aliasRepo, logger)

	// HTTP routes
	mux := http.NewServeMux()
	tenantMiddleware := handlers.TenantMiddleware(database.WithHouseholdContext(db, logger))

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewReceiptHandler(reconcileService, reviewService, finalizeService, logger).RegisterRoutes(mux, tenantMiddleware)
	handlers.NewPriceHandler(priceService, logger).RegisterRoutes(mux, tenantMiddleware)
	handlers.NewCatalogHandler(catalogService, logger).RegisterRoutes(mux, tenantMiddleware)

	// MCP
	mcpServer := mcp.NewServer("smartsave", cfg.Version, logger)
	tools.RegisterHealthTool(mcpServer.MCP(), cfg.Version, db)
	tools.RegisterUnitPriceTool(mcpServer.MCP())
	tools.RegisterMatchItemTool(mcpServer.MCP(), &tools.MatchToolDeps{
		HouseholdContext: services.NewHouseholdContextFunc(db),
		Reconciler:       reconcileService,
		CatalogRepo:      catalogRepo,
		Matcher:          matcher,
		Logger:           logger,
	})
	mux.Handle("/mcp", mcpServer.Handler())

	srv := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           middleware.RequestLogger(logger.Named("http"))(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting smartsave",
			zap.String("addr", srv.Addr),
			zap.Bool("tls", cfg.TLSCertPath != ""))
		if cfg.TLSCertPath != "" {
			serverErr <- srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
			return
		}
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
