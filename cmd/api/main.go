package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/leaselens/leaselens/internal/application"
	appreviews "github.com/leaselens/leaselens/internal/application/reviews"
	"github.com/leaselens/leaselens/internal/config"
	domai "github.com/leaselens/leaselens/internal/domain/ai"
	"github.com/leaselens/leaselens/internal/domain/review"
	"github.com/leaselens/leaselens/internal/infra/ai/anthropic"
	aopenai "github.com/leaselens/leaselens/internal/infra/ai/openai"
	mysqlp "github.com/leaselens/leaselens/internal/infra/db/mysql"
	postgresp "github.com/leaselens/leaselens/internal/infra/db/postgres"
	"github.com/leaselens/leaselens/internal/infra/httpserver"
	minioStore "github.com/leaselens/leaselens/internal/infra/storage"
	"github.com/leaselens/leaselens/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// model client
	var client domai.Client
	switch cfg.AI.Provider {
	case "openai":
		client = aopenai.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	default:
		client = anthropic.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens)
	}

	// review history repo (optional)
	var repo review.Repository
	healthChecks := map[string]middleware.HealthChecker{}
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewReviewRepository(db)
		healthChecks["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewReviewRepository(db)
		healthChecks["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "":
		log.Println("no database configured, review history disabled")
	default:
		log.Fatalf("unknown database driver: %q", cfg.Database.Driver)
	}

	// lease artifact store (optional)
	var artifacts review.ArtifactStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		artifacts = store
	}

	svc := &appreviews.Service{
		Sessions:      appreviews.NewSessionManager(time.Duration(cfg.Limits.SessionTTLMin) * time.Minute),
		AI:            client,
		Repo:          repo,
		Artifacts:     artifacts,
		Clock:         application.SystemClock{},
		PhaseInterval: time.Duration(cfg.Limits.PhaseIntervalMS) * time.Millisecond,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.Limits.RateCapacity, cfg.Limits.RateRefill))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(cfg.Server.AllowedOrigins),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if len(healthChecks) > 0 {
		mux.Get("/health/deep", middleware.HealthHandler(healthChecks))
	}
	mux.Mount("/", httpserver.NewRouter(svc, cfg.Limits.MaxUploadMB, cfg.Server.AdminKey))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func corsOrigins(configured []string) []string {
	if len(configured) == 0 {
		return []string{"*"}
	}
	return configured
}
