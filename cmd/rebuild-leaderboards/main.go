package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pricecheck/internal/badges"
	"pricecheck/internal/cache"
	"pricecheck/internal/core"
	"pricecheck/internal/db"
	"pricecheck/internal/leaderboard"
	"pricecheck/internal/reputation"
)

// Rebuilds every leaderboard period on a fixed interval. Run alongside
// the API so rankings stay fresh without putting the fold on the read
// path.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := db.Connect(ctx, dbURL, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	appCache, err := cache.New(os.Getenv("REDIS_URL"), logger)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	defer appCache.Close()

	clock := core.SystemClock()

	reputationRepo := reputation.NewPostgresRepository(pool)
	badgeRepo := badges.NewPostgresRepository(pool)
	leaderboardRepo := leaderboard.NewPostgresRepository(pool)

	reputationService := reputation.NewService(reputationRepo, badgeRepo, clock, logger)
	leaderboardService := leaderboard.NewService(
		leaderboardRepo,
		reputationService,
		appCache,
		clock,
		logger,
	)

	periods := []leaderboard.Period{
		leaderboard.PeriodDaily,
		leaderboard.PeriodWeekly,
		leaderboard.PeriodMonthly,
		leaderboard.PeriodAllTime,
	}

	rebuildAll := func() {
		for _, period := range periods {
			entries, err := leaderboardService.Rebuild(ctx, period)
			if err != nil {
				logger.Error("rebuild failed",
					zap.String("period", string(period)),
					zap.Error(err),
				)
				continue
			}
			logger.Info("rebuilt leaderboard",
				zap.String("period", string(period)),
				zap.Int("entries", len(entries)),
			)
		}
	}

	logger.Info("leaderboard worker running")
	rebuildAll()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rebuildAll()
	}
}
