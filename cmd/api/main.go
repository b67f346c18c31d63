package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogview-backend/config"
	"catalogview-backend/internal/delivery/http/middleware"
	v1 "catalogview-backend/internal/delivery/http/v1"
	"catalogview-backend/internal/infrastructure/cache"
	"catalogview-backend/internal/repository/catalogapi"
	"catalogview-backend/internal/usecase"
	"catalogview-backend/pkg/logger"
	"catalogview-backend/pkg/storage"
	"catalogview-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Cache (In-Memory)
	// Backs both the category list and the view session store.
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Remote catalog data source
	source := catalogapi.NewClient(cfg.CatalogAPIURL, cfg.CatalogHTTPTimeout)
	log.Info().Str("endpoint", cfg.CatalogAPIURL).Msg("Catalog data source configured")

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Catalog Module (DataStore owner)
	catalogUC := usecase.NewCatalogUsecase(source, memCache, cfg)
	catalogHandler := v1.NewCatalogHandler(catalogUC)

	// Export Archive (optional R2 storage)
	var archiver usecase.ExportArchiver
	if cfg.ArchiveConfigured() {
		r2Storage, err := storage.NewR2Storage(
			context.Background(),
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		archiver = r2Storage
		log.Info().Str("bucket", cfg.R2BucketName).Msg("Export archive enabled")
	}

	// View Module (sessions, pipeline, paginator, exporter)
	viewUC := usecase.NewViewUsecase(catalogUC, memCache, archiver, cfg)
	viewHandler := v1.NewViewHandler(viewUC)

	// Auth Module (editor tokens)
	authHandler := v1.NewAuthHandler(cfg)

	// Auth
	mux.HandleFunc("POST /api/v1/auth/token", authHandler.IssueToken)

	// Catalog (Public)
	mux.HandleFunc("POST /api/v1/catalog/load", catalogHandler.Load)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.GetCategories)

	// View Sessions (Public)
	mux.HandleFunc("POST /api/v1/sessions", viewHandler.CreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/view", viewHandler.GetView)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}/category", viewHandler.SetCategory)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}/search", viewHandler.SetSearch)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}/sort", viewHandler.SetSort)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}/page", viewHandler.SetPage)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}/page-size", viewHandler.SetPageSize)
	mux.HandleFunc("GET /api/v1/sessions/{id}/export", viewHandler.Export)

	// Edit Session (Protected)
	mux.Handle("POST /api/v1/sessions/{id}/products/{productId}/edit", middleware.AuthMiddleware(http.HandlerFunc(viewHandler.OpenEdit)))
	mux.Handle("PUT /api/v1/sessions/{id}/edit", middleware.AuthMiddleware(http.HandlerFunc(viewHandler.SubmitEdit)))
	mux.Handle("DELETE /api/v1/sessions/{id}/edit", middleware.AuthMiddleware(http.HandlerFunc(viewHandler.CancelEdit)))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "ok", "products": %d}`, catalogUC.Count())
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Initial catalog load in the background; a failure here is recoverable
	// via POST /api/v1/catalog/load.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.CatalogHTTPTimeout)
		defer cancel()
		if err := catalogUC.Load(ctx); err != nil {
			log.Error().Err(err).Msg("Initial catalog load failed; store stays empty until retried")
		}
	}()

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Stop rate limiter cleanup goroutine before the listener drains
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
