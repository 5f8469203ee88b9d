package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pricecheck/internal/auth"
	"pricecheck/internal/badges"
	"pricecheck/internal/cache"
	"pricecheck/internal/catalog"
	"pricecheck/internal/core"
	"pricecheck/internal/db"
	"pricecheck/internal/leaderboard"
	"pricecheck/internal/middleware"
	"pricecheck/internal/pricing"
	"pricecheck/internal/profile"
	"pricecheck/internal/reputation"
	"pricecheck/internal/review"
	"pricecheck/internal/storage"
	"pricecheck/internal/submission"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── LOGGER ─────────────────────────
	logger := newLogger()
	defer logger.Sync()

	// ───────────────────────── DB ─────────────────────────
	ctx := context.Background()

	pool, err := db.Connect(ctx, os.Getenv("DATABASE_URL"), logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	// ───────────────────────── CACHE ─────────────────────────
	appCache, err := cache.New(os.Getenv("REDIS_URL"), logger)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	defer appCache.Close()

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(ctx)
	if err != nil {
		logger.Fatal("R2 init failed", zap.Error(err))
	}

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── REPOS ─────────────────────────
	clock := core.SystemClock()

	catalogRepo := catalog.NewPostgresRepository(pool)
	submissionRepo := submission.NewPostgresRepository(pool)
	reputationRepo := reputation.NewPostgresRepository(pool)
	badgeRepo := badges.NewPostgresRepository(pool)
	reviewRepo := review.NewPostgresRepository(pool)
	leaderboardRepo := leaderboard.NewPostgresRepository(pool)

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	catalogReader := catalog.NewReader(catalogRepo)

	reputationService := reputation.NewService(reputationRepo, badgeRepo, clock, logger)
	badgeService := badges.NewService(badgeRepo, reputationService, clock, logger)

	submissionService := submission.NewService(
		submissionRepo,
		reputationService,
		badgeService,
		r2Client,
		clock,
		logger,
	)

	reviewService := review.NewService(
		reviewRepo,
		submissionRepo,
		reputationService,
		badgeService,
		clock,
		logger,
	)

	pricingService := pricing.NewService(
		catalogReader,
		submissionService,
		appCache,
		clock,
		logger,
	)

	leaderboardService := leaderboard.NewService(
		leaderboardRepo,
		reputationService,
		appCache,
		clock,
		logger,
	)

	profileService := profile.NewService(
		reputationService,
		badgeService,
		submissionService,
		leaderboardService,
		logger,
	)

	// ───────────────────────── HANDLERS ─────────────────────────
	catalogHandler := catalog.NewHandler(catalogRepo)
	submissionHandler := submission.NewHandler(submissionService)
	reviewHandler := review.NewHandler(reviewService)
	pricingHandler := pricing.NewHandler(pricingService)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)
	profileHandler := profile.NewHandler(profileService)

	// ───────────────────────── CATALOG ROUTES ─────────────────────────
	catalogGroup := r.Group("/catalog")
	{
		catalogGroup.GET("/providers", catalogHandler.ListProviders)
		catalogGroup.GET("/restaurants/:id/items", catalogHandler.ListMenuItems)
	}

	// ───────────────────────── PRICE ROUTES ─────────────────────────
	prices := r.Group("/prices")
	prices.Use(middleware.AuthMiddleware())
	{
		prices.POST("", submissionHandler.Submit)
		prices.GET("/items/:id", submissionHandler.ListForItem)
		prices.GET("/latest", submissionHandler.Latest)
		prices.POST("/:id/evidence", submissionHandler.UploadEvidence)

		prices.POST("/:id/verify", reviewHandler.Verify)
		prices.POST("/:id/dispute", reviewHandler.Dispute)
	}

	// ───────────────────────── DISPUTE ROUTES ─────────────────────────
	disputes := r.Group("/disputes")
	disputes.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleModerator, auth.RoleAdmin),
	)
	{
		disputes.GET("/pending", reviewHandler.Pending)
		disputes.POST("/:id/review", reviewHandler.StartReview)
		disputes.POST("/:id/resolve", reviewHandler.Resolve)
	}

	// ───────────────────────── COMPARISON ROUTES ─────────────────────────
	r.POST("/compare", pricingHandler.Compare)
	r.GET("/analytics", pricingHandler.Analytics)

	// ───────────────────────── LEADERBOARD ROUTES ─────────────────────────
	r.GET("/leaderboard/:period", leaderboardHandler.Get)

	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		admin.POST("/leaderboards/rebuild", leaderboardHandler.Rebuild)
	}

	// ───────────────────────── PROFILE ROUTES ─────────────────────────
	me := r.Group("/users/me")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/stats", profileHandler.Stats)
		me.GET("/badges", profileHandler.Badges)
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── START ─────────────────────────
	logger.Info("API running", zap.String("addr", ":8000"))
	r.Run(":8000")
}

// --------------------------------------------------
func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("logger init failed: %v", err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	return logger
}
