package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/ecometrics/ingest/internal/company"
	"github.com/ecometrics/ingest/internal/config"
	"github.com/ecometrics/ingest/internal/db"
	"github.com/ecometrics/ingest/internal/export"
	"github.com/ecometrics/ingest/internal/ingestion"
	"github.com/ecometrics/ingest/internal/middleware"
	"github.com/ecometrics/ingest/internal/pipeline"
	"github.com/ecometrics/ingest/internal/registry"
	"github.com/ecometrics/ingest/internal/repository"
	"github.com/ecometrics/ingest/internal/sample"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	companyRepo := repository.NewCompanyRepository(conn.Pool)
	mappingRepo := repository.NewMappingRepository(conn.Pool)
	logRepo := repository.NewIngestionLogRepository(conn.Pool)
	stagingRepo := repository.NewStagingRepository(conn.Pool)

	// Build the registry from defaults plus the configuration store
	reg := registry.New()
	if err := registry.Hydrate(ctx, reg, companyRepo, mappingRepo); err != nil {
		log.Fatalf("Failed to hydrate schema registry: %v", err)
	}
	log.Printf("[REGISTRY] loaded %d companies", len(reg.Companies()))

	coordinator := pipeline.New(reg, cfg.Validation)
	ingestService := ingestion.NewService(coordinator, stagingRepo, logRepo)
	exportService := export.NewService(stagingRepo, reg)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/upload", ingestion.NewHTTPHandler(ingestService))
	mux.Handle("/logs", ingestion.NewLogHandler(logRepo))
	mux.Handle("/export", export.NewHTTPHandler(exportService))
	mux.Handle("/sample", sample.NewHTTPHandler(coordinator, reg))
	mux.Handle("/companies", company.NewHTTPHandler(companyRepo, mappingRepo, reg))
	mux.Handle("/companies/", company.NewHTTPHandler(companyRepo, mappingRepo, reg))

	handler := corsHandler.Handler(middleware.LoggingMiddleware(mux))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting ingestion server on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
