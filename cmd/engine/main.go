package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	appTelemetry "github.com/RakshakAI/ScamShield/pkg/app/telemetry"
	"github.com/RakshakAI/ScamShield/pkg/config"
	"github.com/RakshakAI/ScamShield/pkg/contextual"
	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
	handlers "github.com/RakshakAI/ScamShield/pkg/handlers/http"
	wsHandlers "github.com/RakshakAI/ScamShield/pkg/handlers/websocket"
	"github.com/RakshakAI/ScamShield/pkg/infra/auth/jwt"
	infraCache "github.com/RakshakAI/ScamShield/pkg/infra/cache"
	"github.com/RakshakAI/ScamShield/pkg/infra/database"
	infraLogger "github.com/RakshakAI/ScamShield/pkg/infra/logger"
	"github.com/RakshakAI/ScamShield/pkg/infra/metrics"
	_ "github.com/RakshakAI/ScamShield/pkg/infra/migrations"
	"github.com/RakshakAI/ScamShield/pkg/infra/providers/factory"
	"github.com/RakshakAI/ScamShield/pkg/infra/rulestore"
	infraTelemetry "github.com/RakshakAI/ScamShield/pkg/infra/telemetry"
	"github.com/RakshakAI/ScamShield/pkg/infra/telemetry/kafka"
	"github.com/RakshakAI/ScamShield/pkg/matcher"
	"github.com/RakshakAI/ScamShield/pkg/middleware"
	"github.com/RakshakAI/ScamShield/pkg/scorer"
	"github.com/RakshakAI/ScamShield/pkg/server"
	"github.com/RakshakAI/ScamShield/pkg/server/router"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

func main() {
	ctx := context.Background()
	envFile := os.Getenv("ENV_FILE")

	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger("engine")

	// Load configuration
	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	// Pattern catalog. A catalog that cannot be loaded or validated is fatal
	// at boot; the engine never serves without its rules.
	catalog, closeStore, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to load pattern catalog: %v", err)
	}
	defer closeStore()

	patternMatcher, err := matcher.New(catalog)
	if err != nil {
		logger.Fatalf("Failed to compile pattern catalog: %v", err)
	}

	riskScorer := scorer.New(cfg.Engine.CategoryBoost, cfg.Engine.CategoryBoostCap)

	resultCache := infraCache.NewResultCache(
		cfg.Cache.MaxSize,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
	)

	var mirror *infraCache.VerdictMirror
	if cfg.Cache.Distributed.Enabled {
		mirror = infraCache.NewVerdictMirror(cfg, resultCache, logger)
		logger.Info("distributed verdict mirror enabled")
	}

	gateway := buildContextualGateway(cfg, logger)

	classifier := classify.NewService(
		catalog, patternMatcher, riskScorer, resultCache, mirror, gateway, logger, cfg,
	)

	// telemetry
	exporterLocator := infraTelemetry.NewExporterLocator(
		infraTelemetry.WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()),
	)
	exporters, err := appTelemetry.NewTelemetryExportersBuilder(exporterLocator).
		Build(cfg.Telemetry.Exporters)
	if err != nil {
		logger.Fatalf("Failed to build telemetry exporters: %v", err)
	}

	metricsWorker := metrics.NewWorker(logger, exporters)
	metricsWorker.StartWorkers(4)

	jwtManager := jwt.NewJwtManager(&cfg.Server)

	// middleware
	middlewareTransport := &middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		RequestIDMiddleware:    middleware.NewRequestIDMiddleware(logger),
		CORSMiddleware:         middleware.NewCORSMiddleware(cfg.Server.AllowedOrigins),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
		AdminAuthMiddleware:    middleware.NewAdminAuthMiddleware(logger, jwtManager),
		WebsocketMiddleware:    middleware.NewWebsocketMiddleware(logger, cfg.Server.MaxWSConnections),
	}

	// Handler Transport
	handlerTransport := handlers.HandlerTransport{
		// Scoring
		AnalyzeHandler:      handlers.NewAnalyzeHandler(logger, classifier, metricsWorker),
		BatchAnalyzeHandler: handlers.NewBatchAnalyzeHandler(logger, classifier, metricsWorker),
		// Introspection
		ListRulesHandler:  handlers.NewListRulesHandler(logger, classifier),
		GetStatsHandler:   handlers.NewGetStatsHandler(logger, classifier),
		HealthHandler:     handlers.NewHealthHandler(logger, classifier),
		GetVersionHandler: handlers.NewGetVersionHandler(logger),
		// Admin
		InvalidateCacheHandler: handlers.NewInvalidateCacheHandler(logger, classifier),
	}

	wsHandlerTransport := &wsHandlers.HandlerTransportDTO{
		ScreenHandler: wsHandlers.NewScreenHandler(cfg, logger, classifier),
	}

	srv := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(middlewareTransport, handlerTransport, wsHandlerTransport),
		},
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	metricsWorker.Shutdown()
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}

// loadCatalog reads the rule catalog from the configured source. The postgres
// source keeps its connection open only for the read; the returned closer
// tears it down once the catalog is in memory.
func loadCatalog(
	ctx context.Context,
	cfg *config.Config,
	logger *logrus.Logger,
) (*rule.Catalog, func(), error) {
	noop := func() {}

	switch cfg.Engine.RulesSource {
	case "postgres":
		db, err := database.NewDB(logger, &database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize database: %w", err)
		}
		catalog, err := rulestore.NewPostgresRepository(db.DB, logger).Load(ctx)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return catalog, func() { _ = db.Close() }, nil
	default:
		catalog, err := rulestore.NewFileRepository(cfg.Engine.RulesFile, logger).Load(ctx)
		return catalog, noop, err
	}
}

// buildContextualGateway resolves the configured provider client. With the
// contextual stage disabled the analyzer is built without a client and
// reports itself unavailable, which the gate treats as "never invoke".
func buildContextualGateway(cfg *config.Config, logger *logrus.Logger) contextual.Gateway {
	if !cfg.Contextual.Enabled {
		logger.Info("contextual stage disabled, serving pattern-only verdicts")
		return contextual.NewAnalyzer(&cfg.Contextual, nil, logger)
	}

	locator := factory.NewProviderLocator(&fasthttp.Client{
		ReadTimeout:  time.Duration(cfg.Contextual.TimeoutSeconds) * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	client, err := locator.Get(cfg.Contextual.Provider)
	if err != nil {
		logger.WithError(err).Warn("unknown contextual provider, serving pattern-only verdicts")
		return contextual.NewAnalyzer(&cfg.Contextual, nil, logger)
	}

	logger.WithFields(logrus.Fields{
		"provider": cfg.Contextual.Provider,
		"model":    cfg.Contextual.Model,
	}).Info("contextual stage enabled")
	return contextual.NewAnalyzer(&cfg.Contextual, client, logger)
}
