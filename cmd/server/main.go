package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	"github.com/kim-yukonthorn/bible-tracker/internal/cache"
	"github.com/kim-yukonthorn/bible-tracker/internal/catalog"
	"github.com/kim-yukonthorn/bible-tracker/internal/config"
	"github.com/kim-yukonthorn/bible-tracker/internal/database"
	"github.com/kim-yukonthorn/bible-tracker/internal/handlers"
	"github.com/kim-yukonthorn/bible-tracker/internal/repository"
	"github.com/kim-yukonthorn/bible-tracker/internal/security"
	"github.com/kim-yukonthorn/bible-tracker/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	c := cache.New(cfg.RedisAddr, cfg.RedisPassword)

	defaultZone, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		log.Fatalf("Invalid DEFAULT_TIMEZONE %q: %v", cfg.DefaultTimezone, err)
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	logRepo := repository.NewReadingLogRepository(db)

	// Initialize services
	authService := service.NewAuthService(profileRepo, c, cfg.LineChannelID, cfg.LineChannelSecret, cfg.SessionDuration)
	readingService := service.NewReadingService(logRepo, profileRepo, catalog.Default(), c, cfg.LeaderboardLimit)

	lineLoginConfig := &oauth2.Config{
		ClientID:     cfg.LineChannelID,
		ClientSecret: cfg.LineChannelSecret,
		Endpoint:     handlers.LineLoginEndpoint,
		Scopes:       []string{"profile", "openid"},
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(30, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter)
	authHandler := handlers.NewAuthHandler(authService, lineLoginConfig, cfg.OAuthRedirectBaseURL)
	readingHandler := handlers.NewReadingHandler(readingService, defaultZone)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/line/start", authHandler.StartLineLogin)
	mux.HandleFunc("GET /auth/line/callback", authHandler.LineLoginCallback)

	// Protected routes
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/onboarding/complete", middleware.RequireAuth(authHandler.CompleteOnboarding))
	mux.HandleFunc("POST /api/readings", middleware.RequireAuth(readingHandler.Submit))
	mux.HandleFunc("GET /api/readings", middleware.RequireAuth(readingHandler.History))
	mux.HandleFunc("GET /api/readings/day", middleware.RequireAuth(readingHandler.Day))
	mux.HandleFunc("DELETE /api/readings/{id}", middleware.RequireAuth(readingHandler.Delete))
	mux.HandleFunc("GET /api/books", middleware.RequireAuth(readingHandler.Books))
	mux.HandleFunc("GET /api/books/{book}/chapters", middleware.RequireAuth(readingHandler.BookChapters))
	mux.HandleFunc("GET /api/calendar", middleware.RequireAuth(readingHandler.Calendar))
	mux.HandleFunc("GET /api/leaderboard", middleware.RequireAuth(readingHandler.Leaderboard))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

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
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
