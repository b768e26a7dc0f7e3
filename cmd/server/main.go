package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voterdata-service/internal/infrastructure/config"
	"voterdata-service/internal/infrastructure/persistence"
	"voterdata-service/internal/interface/handler"
	mongoRepo "voterdata-service/internal/interface/repository"
	"voterdata-service/internal/usecase"
	"voterdata-service/pkg/logger"
	"voterdata-service/pkg/metrics"
	"voterdata-service/pkg/spreadsheet"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	domainRepo "voterdata-service/internal/domain/repository"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Voter Data Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Upload audit trail is optional; without a Postgres DSN the service
	// runs with the trail disabled.
	var uploadLogRepo domainRepo.UploadLogRepository
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI, &mongoRepo.UploadLogs{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		uploadLogRepo = mongoRepo.NewGormUploadLogRepository(gormDB)
	} else {
		log.Warn("POSTGRES_DSN not set, upload audit trail disabled")
	}

	// Set up repositories and the ingestion pipeline
	voterRepo := mongoRepo.NewMongoVoterRepository(db)
	m := metrics.NewMetrics("voterdata")
	parser := spreadsheet.NewParser(log)
	mapper := usecase.NewFieldMapper(log)
	ingestService := usecase.NewIngestService(voterRepo, uploadLogRepo, parser, mapper, log, m)

	voterHandler := handler.NewVoterHandler(ingestService, voterRepo, uploadLogRepo, cfg, log)

	// Set up HTTP router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	r.Mount("/api/voters", voterHandler.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port, "constrained", cfg.ConstrainedDeploy)
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

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Voter Data Service stopped")
}
