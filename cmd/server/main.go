package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pullquest/backend/internal/config"
	"github.com/pullquest/backend/internal/database"
	"github.com/pullquest/backend/internal/github"
	"github.com/pullquest/backend/internal/handler"
	"github.com/pullquest/backend/internal/middleware"
	"github.com/pullquest/backend/internal/repository"
	"github.com/pullquest/backend/internal/service"
)

// main is the single entry‑point for the REST API.
func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - Database: %s", cfg.DBName)
	log.Printf("  - MongoDB URI: %s", cfg.MongoURI)

	// Connect to MongoDB
	client, ctx, cancel, err := database.NewMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cancel()
	defer client.Disconnect(ctx)
	log.Printf("Connected to MongoDB")

	// Initialize repositories
	db := client.Database(cfg.DBName)
	userRepo := repository.NewUserRepository(db)
	stakeRepo := repository.NewStakeRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := stakeRepo.EnsureIndexes(idxCtx); err != nil {
		log.Printf("Warning: failed to create stake indexes: %v", err)
	}
	idxCancel()

	// Initialize services
	gh := github.NewClient(cfg.GitHubToken)
	stakeSvc := service.NewStakeService(userRepo, stakeRepo, analysisRepo)
	contributorSvc := service.NewContributorService(analysisRepo, gh)
	maintainerSvc := service.NewMaintainerService(gh)
	refillSvc := service.NewRefillService(userRepo)

	// Start the monthly coin refill scheduler
	sched, err := refillSvc.StartScheduler()
	if err != nil {
		log.Fatalf("Failed to start refill scheduler: %v", err)
	}
	defer func() { _ = sched.Shutdown() }()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	app.Use(middleware.Logging())
	limiter := middleware.NewUserRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	// Register routes; the limiter is applied per route group inside, so
	// GitHub webhook deliveries are never throttled.
	handler.RegisterRoutes(app, stakeSvc, contributorSvc, maintainerSvc, limiter.Middleware())

	// Add health check
	healthHandler := handler.NewHealthHandler(client)
	healthHandler.Register(app)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
