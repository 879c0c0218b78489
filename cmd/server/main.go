package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"parceltrack-service/internal/infrastructure/config"
	"parceltrack-service/internal/infrastructure/persistence"
	"parceltrack-service/internal/interface/repository"
	"parceltrack-service/internal/interface/rest"
	"parceltrack-service/internal/usecase"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Parceltrack Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	mongoDB := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Set up PostgreSQL connection
	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	deliveryRepo := repository.NewGormDeliveryRepository(gormDB)
	historyRepo := repository.NewGormHistoryRepository(gormDB)
	eventRepo := repository.NewGormScheduledEventRepository(gormDB)
	configRepo := repository.NewGormSimulationConfigRepository(gormDB, cfg.Simulation)
	webhookRepo := repository.NewMongoWebhookRepository(mongoDB)
	whatsappRepo := repository.NewWhatsappRepository(log, cfg.WhatsAppEndpoint, cfg.WhatsAppToken)

	m := metrics.NewMetrics("parceltrack", prometheus.DefaultRegisterer)

	// Set up use cases
	deliveryService := usecase.NewDeliveryService(deliveryRepo, historyRepo, eventRepo, configRepo, whatsappRepo, log, m)
	executor := usecase.NewEventExecutor(deliveryRepo, historyRepo, eventRepo, whatsappRepo, log, m)
	webhookProcessor := usecase.NewWebhookProcessor(webhookRepo, deliveryService, log, m)

	// Start the scheduled event executor in a goroutine
	go executor.Run(ctx, cfg.ExecutorInterval)

	// Start the webhook retry sweep in a goroutine
	go webhookProcessor.Run(ctx, cfg.WebhookInterval)

	// Set up HTTP server
	router := rest.NewRouter(rest.RouterConfig{
		Deliveries:    deliveryService,
		Webhooks:      webhookProcessor,
		AdminAPIKey:   cfg.AdminAPIKey,
		WebhookAPIKey: cfg.WebhookAPIKey,
		Logger:        log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop background loops

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Parceltrack Service stopped")
}
