package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/homespark/backend/internal/config"
	"github.com/homespark/backend/internal/delivery/http"
	"github.com/homespark/backend/internal/domain"
	"github.com/homespark/backend/internal/repository/memory"
	"github.com/homespark/backend/internal/repository/postgres"
	"github.com/homespark/backend/internal/repository/rediscache"
	"github.com/homespark/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dependency Injection: Repositories
	var recRepo service.RecommendationRepository = postgres.NewMockRepository()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			log.Println("Recommendation log kept in memory only")
		} else {
			defer pool.Close()
			pgRepo := postgres.NewPostgresRepository(pool)
			if err := pgRepo.Migrate(ctx); err != nil {
				log.Printf("Warning: %v", err)
			}
			recRepo = pgRepo
			log.Println("Connected to PostgreSQL")
		}
	} else {
		log.Println("DATABASE_URL not set, recommendation log kept in memory only")
	}

	var climateCache domain.ClimateCache = memory.NewClimateCache(cfg.ClimateCacheTTL(), nil)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		redisCache := rediscache.NewClimateCache(rdb, cfg.ClimateCacheTTL())
		if err := redisCache.Health(ctx); err != nil {
			log.Printf("Warning: Redis unavailable, using in-memory climate cache: %v", err)
			rdb.Close()
		} else {
			defer rdb.Close()
			climateCache = redisCache
			log.Println("Connected to Redis")
		}
	}

	// Dependency Injection: Services
	policy := service.ParseBudgetPolicy(cfg.BudgetPolicy)
	weatherSvc := service.NewWeatherService(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	climateResolver := service.NewClimateResolver(weatherSvc, weatherSvc, climateCache)

	var images service.ImageSearch
	if cfg.UnsplashAccessKey != "" {
		images = service.NewUnsplashService(cfg.UnsplashAccessKey, cfg.UnsplashBaseURL)
	}

	fallback := service.NewFallbackSynthesizer(policy)
	recSvc := service.NewRecommendationService(
		service.NewRequestBuilder(policy, cfg.MaxResults, cfg.Threshold()),
		service.NewMLGateway(service.NewMLBridge(cfg.MLServiceURL), cfg.Retries(), cfg.MLTimeout()),
		service.NewResponseNormalizer(policy, fallback),
		fallback,
		images,
		recRepo,
	)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "HomeSpark API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, http.NewHandler(recSvc, climateResolver, recRepo, policy))

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s (%s)", cfg.Port, cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	recSvc.WaitBackground()
	log.Println("Server exited gracefully")
}
