package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"pagemill/internal/capabilities"
	"pagemill/internal/config"
	"pagemill/internal/delivery"
	"pagemill/internal/handler"
	"pagemill/internal/middleware"
	"pagemill/internal/remote"
	"pagemill/internal/repository/postgres"
	conversionSvc "pagemill/internal/service/conversion"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		f, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer f.Close()
		logOutput = f
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"conversion_service", cfg.ConversionBaseURL,
	)

	// Remote conversion engine client
	client := remote.NewHTTPClient(cfg.ConversionBaseURL, cfg.ConversionAPIKey)

	// Initialize capability registry
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	logger.Info("capability registry initialized")

	// Optional job snapshot persistence. Without DATABASE_URL the registry
	// runs purely in memory and starts empty on each boot.
	ctx := context.Background()
	var registry *conversionSvc.Registry
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		snapshotRepo := postgres.NewJobSnapshotRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		registry = conversionSvc.NewRegistry(snapshotRepo, logger)
		if err := registry.Restore(ctx); err != nil {
			logger.Warn("failed to restore job snapshots", "error", err)
		}
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
	} else {
		registry = conversionSvc.NewRegistry(nil, logger)
	}

	// WebSocket fan-out for job updates
	wsManager := handler.NewWebSocketManager(logger)
	wsManager.Start()
	registry.SetListener(wsManager.BroadcastJobUpdate)

	// Conversion services
	validator := conversionSvc.NewValidator(capabilityRegistry)
	enumerator := conversionSvc.NewEnumerator(client, logger)
	submitter := conversionSvc.NewSubmitter(client, validator, registry, logger)
	poller := conversionSvc.NewPoller(client, registry, logger)
	canceller := conversionSvc.NewCanceller(client, registry, logger)

	scheduler := conversionSvc.NewScheduler(poller, cfg.PollInterval, logger)
	if cfg.PollOnStartup {
		scheduler.Start()
		logger.Info("progress poller started", "interval", cfg.PollInterval)
	}
	defer scheduler.Stop()

	// Create handlers
	conversionHandler := handler.NewConversionHandler(enumerator, submitter, poller, canceller, registry, logger)
	pollerHandler := handler.NewPollerHandler(scheduler, logger)
	modelsHandler := handler.NewModelsHandler(capabilityRegistry, logger)
	downloadHandler := handler.NewDownloadHandler(client, delivery.NewAttachmentDeliverer(), logger)
	wsHandler := handler.NewWebSocketHandler(wsManager, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", conversionHandler.HealthCheck)

	// Discovery and submission routes
	mux.HandleFunc("POST /api/libraries/{id}/discover", conversionHandler.Discover)
	mux.HandleFunc("POST /api/libraries/{id}/conversions", conversionHandler.Submit)

	// Job routes
	mux.HandleFunc("GET /api/conversions", conversionHandler.ListJobs)
	mux.HandleFunc("POST /api/conversions/refresh", conversionHandler.Refresh) // Must come before {id} route
	mux.HandleFunc("GET /api/conversions/{id}", conversionHandler.GetJob)
	mux.HandleFunc("POST /api/conversions/{id}/cancel", conversionHandler.Cancel)

	// Poller control routes
	mux.HandleFunc("GET /api/poller", pollerHandler.GetState)
	mux.HandleFunc("POST /api/poller/start", pollerHandler.Start)
	mux.HandleFunc("POST /api/poller/stop", pollerHandler.Stop)
	mux.HandleFunc("PATCH /api/poller", pollerHandler.UpdateInterval)

	// Model capabilities routes
	mux.HandleFunc("GET /api/models/capabilities", modelsHandler.GetCapabilities)

	// Converted output download
	mux.HandleFunc("GET /api/files/{id}/download", downloadHandler.Download)

	// WebSocket job updates
	mux.HandleFunc("GET /api/ws", wsHandler.Serve)

	// Build middleware chain
	var httpHandler http.Handler = mux
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - handles OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived WebSocket connections
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
