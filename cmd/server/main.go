package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/config"
	"github.com/glmzsby/branch-points-api/internal/database"
	"github.com/glmzsby/branch-points-api/internal/handlers"
	"github.com/glmzsby/branch-points-api/internal/middleware"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"github.com/glmzsby/branch-points-api/internal/services"
	"github.com/glmzsby/branch-points-api/internal/storage"
	"github.com/glmzsby/branch-points-api/internal/utils"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed bootstrap accounts on an empty database
	if err := database.Seed(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Redis backs the token denylist; without it logout is best-effort only
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable, token revocation disabled: %v", err)
			rdb = nil
		}
		cancel()
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, rdb)

	// Evidence storage backend
	var evidence storage.EvidenceStore
	var err error
	switch cfg.StorageBackend {
	case "s3":
		evidence, err = storage.NewS3Store(cfg)
	default:
		evidence, err = storage.NewLocalStore(cfg.UploadDir)
	}
	if err != nil {
		log.Fatalf("Failed to initialize evidence storage: %v", err)
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	pointsService := services.NewPointsService(pointsRepo, userRepo, evidence)
	activityService := services.NewActivityService(activityRepo, userRepo)
	rankingService := services.NewRankingService(userRepo, pointsRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService, tokens)
	userHandler := handlers.NewUserHandler(userService)
	pointsHandler := handlers.NewPointsHandler(pointsService)
	activityHandler := handlers.NewActivityHandler(activityService)
	rankingHandler := handlers.NewRankingHandler(rankingService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Branch Points API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/login", authHandler.Login)
		api.POST("/admin/login", authHandler.AdminLogin)

		// Authenticated routes
		authed := api.Group("")
		authed.Use(middleware.RequireAuth(tokens))
		{
			authed.POST("/logout", authHandler.Logout)
			authed.GET("/user/info", authHandler.GetCurrentUser)
			authed.GET("/user/points", authHandler.GetCurrentPoints)
			authed.GET("/users", userHandler.ListUsers)
			authed.GET("/rankings", rankingHandler.List)

			authed.POST("/points/apply", pointsHandler.Apply)
			authed.GET("/points/personal", pointsHandler.Personal)
			authed.GET("/points/approved", pointsHandler.Approved)

			authed.POST("/activity/apply", activityHandler.Apply)
			authed.GET("/activity/list", activityHandler.List)
			authed.POST("/activity/join", activityHandler.Join)

			// Review routes (branch members only)
			review := authed.Group("")
			review.Use(middleware.RequireBranchMember())
			{
				review.GET("/points/review/list", pointsHandler.ReviewList)
				review.POST("/points/review", pointsHandler.Review)
				review.GET("/activity/review/list", activityHandler.ReviewList)
				review.POST("/activity/review", activityHandler.Review)
			}

			// Admin routes (branch secretary only)
			admin := authed.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", userHandler.ListUsers)
				admin.POST("/users", userHandler.CreateUser)
				admin.GET("/users/:id", userHandler.GetUser)
				admin.PUT("/users/:id", userHandler.UpdateUser)
				admin.DELETE("/users/:id", userHandler.DeleteUser)
				admin.POST("/activities/sweep", activityHandler.Sweep)
			}
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
