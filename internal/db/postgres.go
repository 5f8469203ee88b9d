package db

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Connect opens the pgx pool, waits for the database with exponential
// backoff, and initializes the schema.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			logger.Warn("postgres not ready, retrying", zap.Error(err))
			return err
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 6)
	if err := backoff.Retry(ping, backoff.WithContext(policy, ctx)); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("schema initialized")
	return pool, nil
}

// initSchema creates or updates the database schema
func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		// -------------------------------
		// CATALOG
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS providers (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) UNIQUE NOT NULL,
			display_name VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			delivery_fee_base NUMERIC(10,3) NOT NULL DEFAULT 0,
			service_fee_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id BIGSERIAL PRIMARY KEY,
			restaurant_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100),
			is_vegetarian BOOLEAN NOT NULL DEFAULT FALSE,
			is_halal BOOLEAN NOT NULL DEFAULT TRUE,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant
			ON menu_items(restaurant_id)`,

		// -------------------------------
		// PRICE SUBMISSIONS (append-only)
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS price_submissions (
			id BIGSERIAL PRIMARY KEY,
			menu_item_id BIGINT NOT NULL,
			provider_id BIGINT NOT NULL,
			submitter_id VARCHAR(64) NOT NULL,
			price_value NUMERIC(10,3) NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL,
			is_offer BOOLEAN NOT NULL DEFAULT FALSE,
			offer_description TEXT,
			evidence_url VARCHAR(500),
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			verification_count INT NOT NULL DEFAULT 0,
			dispute_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_item_provider
			ON price_submissions(menu_item_id, provider_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_submitted_at
			ON price_submissions(submitted_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_submitter
			ON price_submissions(submitter_id)`,

		// -------------------------------
		// REPUTATION (ledger + snapshot)
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS point_events (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			points INT NOT NULL,
			action_type VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			reference_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_point_events_user
			ON point_events(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS reputation_snapshots (
			user_id VARCHAR(64) PRIMARY KEY,
			total_points INT NOT NULL DEFAULT 0,
			trust_score INT NOT NULL DEFAULT 0,
			submission_count INT NOT NULL DEFAULT 0,
			verified_submission_count INT NOT NULL DEFAULT 0,
			dispute_count INT NOT NULL DEFAULT 0,
			badge_count INT NOT NULL DEFAULT 0,
			level INT NOT NULL DEFAULT 1,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		// -------------------------------
		// VERIFICATIONS & DISPUTES
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS price_verifications (
			id BIGSERIAL PRIMARY KEY,
			submission_id BIGINT NOT NULL,
			verifier_user_id VARCHAR(64) NOT NULL,
			is_accurate BOOLEAN NOT NULL,
			notes VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_submission
			ON price_verifications(submission_id)`,
		`CREATE TABLE IF NOT EXISTS price_disputes (
			id BIGSERIAL PRIMARY KEY,
			submission_id BIGINT NOT NULL,
			disputer_user_id VARCHAR(64) NOT NULL,
			reason VARCHAR(500) NOT NULL,
			suggested_price NUMERIC(10,3),
			evidence_url VARCHAR(500),
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			reviewed_by VARCHAR(64),
			resolved_by VARCHAR(64),
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_disputes_submission
			ON price_disputes(submission_id)`,
		`CREATE INDEX IF NOT EXISTS idx_disputes_status
			ON price_disputes(status)`,

		// -------------------------------
		// BADGES & LEADERBOARDS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS user_badges (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			badge_type VARCHAR(50) NOT NULL,
			name VARCHAR(100) NOT NULL,
			description TEXT NOT NULL,
			earned_at TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_badges_user_type_active
			ON user_badges(user_id, badge_type) WHERE is_active`,
		`CREATE TABLE IF NOT EXISTS leaderboard_entries (
			id BIGSERIAL PRIMARY KEY,
			period VARCHAR(20) NOT NULL,
			user_id VARCHAR(64) NOT NULL,
			position INT NOT NULL,
			points INT NOT NULL,
			submission_count INT NOT NULL DEFAULT 0,
			verification_count INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_period_position
			ON leaderboard_entries(period, position)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
