package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"github.com/RafcikJ/10x-memo/internal/config"
	"github.com/RafcikJ/10x-memo/internal/database"
	"github.com/RafcikJ/10x-memo/internal/handlers"
	"github.com/RafcikJ/10x-memo/internal/quiz"
	"github.com/RafcikJ/10x-memo/internal/repository"
	"github.com/RafcikJ/10x-memo/internal/security"
	"github.com/RafcikJ/10x-memo/internal/service"
)

func main() {
	// Load .env if present, then configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	listRepo := repository.NewListRepository(db)
	testRepo := repository.NewTestRepository(db)
	quotaRepo := repository.NewQuotaRepository(db)

	// Initialize services
	sessions := quiz.NewSessionStore()
	listService := service.NewListService(listRepo)
	testService := service.NewTestService(listRepo, testRepo, sessions, cfg.MinTestItems)
	quotaService := service.NewQuotaService(quotaRepo, cfg.AIDailyLimit)
	aiService := service.NewAIService(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.AIRequestTimeout, cfg.AICountMin, cfg.AICountMax)

	if cfg.OpenRouterAPIKey == "" {
		log.Println("Warning: OPENROUTER_API_KEY not set, AI generation disabled")
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(cfg.JWTSecret, limiter)
	listHandler := handlers.NewListHandler(listService)
	testHandler := handlers.NewTestHandler(testService)
	aiHandler := handlers.NewAIHandler(aiService, quotaService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// List routes
	mux.HandleFunc("POST /api/lists", middleware.RequireAuth(listHandler.CreateList))
	mux.HandleFunc("GET /api/lists", middleware.RequireAuth(listHandler.GetLists))
	mux.HandleFunc("GET /api/lists/{id}", middleware.RequireAuth(listHandler.GetList))
	mux.HandleFunc("PATCH /api/lists/{id}", middleware.RequireAuth(listHandler.RenameList))
	mux.HandleFunc("DELETE /api/lists/{id}", middleware.RequireAuth(listHandler.DeleteList))
	mux.HandleFunc("POST /api/lists/{id}/touch", middleware.RequireAuth(listHandler.TouchList))

	// Item routes
	mux.HandleFunc("POST /api/lists/{id}/items", middleware.RequireAuth(listHandler.AddItem))
	mux.HandleFunc("PATCH /api/lists/{listId}/items/{itemId}", middleware.RequireAuth(listHandler.UpdateItem))
	mux.HandleFunc("DELETE /api/lists/{listId}/items/{itemId}", middleware.RequireAuth(listHandler.DeleteItem))

	// Test routes
	mux.HandleFunc("POST /api/lists/{id}/tests/start", middleware.RequireAuth(testHandler.StartTest))
	mux.HandleFunc("GET /api/lists/{id}/tests", middleware.RequireAuth(testHandler.GetListTests))
	mux.HandleFunc("GET /api/tests/current", middleware.RequireAuth(testHandler.CurrentSession))
	mux.HandleFunc("POST /api/tests/answer", middleware.RequireAuth(testHandler.SubmitAnswer))
	mux.HandleFunc("POST /api/tests/next", middleware.RequireAuth(testHandler.AdvanceFeedback))
	mux.HandleFunc("POST /api/tests/complete", middleware.RequireAuth(testHandler.CompleteTest))

	// AI routes
	mux.HandleFunc("POST /api/ai/generate", middleware.RateLimit(middleware.RequireAuth(aiHandler.Generate)))
	mux.HandleFunc("GET /api/ai/quota", middleware.RequireAuth(aiHandler.GetQuota))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Nightly cleanup of stale quota rows
	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(1).Day().At("03:00").Do(func() {
		cutoff := time.Now().UTC().AddDate(0, 0, -cfg.QuotaRetentionDays)
		deleted, err := quotaRepo.DeleteOlderThan(cutoff)
		if err != nil {
			log.Printf("Error cleaning up quota rows: %v", err)
			return
		}
		log.Printf("Quota cleanup removed %d rows older than %s", deleted, cutoff.Format("2006-01-02"))
	})
	if err != nil {
		log.Fatalf("Failed to schedule quota cleanup: %v", err)
	}
	scheduler.StartAsync()

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
