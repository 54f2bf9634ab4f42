package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/kisanmitra/server/internal/auth"
	"github.com/kisanmitra/server/internal/chat"
	"github.com/kisanmitra/server/internal/config"
	"github.com/kisanmitra/server/internal/db"
	"github.com/kisanmitra/server/internal/gemini"
	httphandler "github.com/kisanmitra/server/internal/http"
	"github.com/kisanmitra/server/internal/http/handlers"
	"github.com/kisanmitra/server/internal/repo"
	"github.com/kisanmitra/server/internal/speech"
)

func main() {
	// Load .env from CWD (env vars override)
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context for startup operations
	ctx := context.Background()

	// Open database connection
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := runMigrations(database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Gemini client is process-scoped: created once, no teardown needed
	geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.ChatModel, cfg.TitleModel, cfg.TTSModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	// Initialize repositories
	userRepo := repo.NewUserRepo(database)
	otpRepo := repo.NewOtpRepo(database)
	sessionRepo := repo.NewSessionRepo(database)
	messageRepo := repo.NewMessageRepo(database)

	// Initialize services
	authService := auth.NewService(otpRepo, userRepo)
	chatService := chat.NewService(sessionRepo, messageRepo, userRepo, geminiClient)
	speechService := speech.NewService(messageRepo, geminiClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.DevMode)
	userHandler := handlers.NewUserHandler(userRepo)
	chatHandler := handlers.NewChatHandler(chatService, speechService)

	// Create router
	router := httphandler.NewRouter(authHandler, userHandler, chatHandler)

	// Create HTTP server with timeouts. Write timeout is generous because
	// chat replies block on the upstream model call.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// runMigrations runs database migrations using goose
func runMigrations(database *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	migrationDir := "internal/db/migrations"
	if info, err := os.Stat(migrationDir); err != nil || !info.IsDir() {
		return fmt.Errorf("migrations directory not found (run from the module root)")
	}

	if err := goose.Up(database, migrationDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
