package reputation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pricecheck/internal/core"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// LEDGER
// --------------------------------------------------

func (r *PostgresRepository) AppendEvent(
	ctx context.Context,
	event *PointEvent,
) error {

	return r.db.QueryRow(ctx, `
		INSERT INTO point_events (
			user_id,
			points,
			action_type,
			description,
			reference_id,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		event.UserID,
		event.Points,
		string(event.ActionType),
		event.Description,
		event.ReferenceID,
		event.CreatedAt,
	).Scan(&event.ID)
}

func (r *PostgresRepository) EventsByUser(
	ctx context.Context,
	userID string,
) ([]*PointEvent, error) {

	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			user_id,
			points,
			action_type,
			description,
			reference_id,
			created_at
		FROM point_events
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*PointEvent

	for rows.Next() {
		var e PointEvent
		var action string
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Points,
			&action,
			&e.Description,
			&e.ReferenceID,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.ActionType = Action(action)
		events = append(events, &e)
	}

	return events, rows.Err()
}

func (r *PostgresRepository) TotalsBetween(
	ctx context.Context,
	from, to time.Time,
) ([]UserTotals, error) {

	rows, err := r.db.Query(ctx, `
		SELECT
			user_id,
			GREATEST(SUM(points), 0),
			COUNT(*) FILTER (WHERE action_type = $3),
			COUNT(*) FILTER (WHERE action_type = $4)
		FROM point_events
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY user_id
	`, from, to, string(ActionSubmission), string(ActionVerification))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []UserTotals

	for rows.Next() {
		var t UserTotals
		if err := rows.Scan(
			&t.UserID,
			&t.Points,
			&t.SubmissionCount,
			&t.VerificationCount,
		); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

// --------------------------------------------------
// SNAPSHOTS
// --------------------------------------------------

func (r *PostgresRepository) SaveSnapshot(
	ctx context.Context,
	s *Snapshot,
) error {

	_, err := r.db.Exec(ctx, `
		INSERT INTO reputation_snapshots (
			user_id,
			total_points,
			trust_score,
			submission_count,
			verified_submission_count,
			dispute_count,
			badge_count,
			level,
			last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id)
		DO UPDATE SET
			total_points = EXCLUDED.total_points,
			trust_score = EXCLUDED.trust_score,
			submission_count = EXCLUDED.submission_count,
			verified_submission_count = EXCLUDED.verified_submission_count,
			dispute_count = EXCLUDED.dispute_count,
			badge_count = EXCLUDED.badge_count,
			level = EXCLUDED.level,
			last_updated = EXCLUDED.last_updated
	`,
		s.UserID,
		s.TotalPoints,
		s.TrustScore,
		s.SubmissionCount,
		s.VerifiedSubmissionCount,
		s.DisputeCount,
		s.BadgeCount,
		s.Level,
		s.LastUpdated,
	)

	return err
}

func (r *PostgresRepository) GetSnapshot(
	ctx context.Context,
	userID string,
) (*Snapshot, error) {

	var s Snapshot
	err := r.db.QueryRow(ctx, `
		SELECT
			user_id,
			total_points,
			trust_score,
			submission_count,
			verified_submission_count,
			dispute_count,
			badge_count,
			level,
			last_updated
		FROM reputation_snapshots
		WHERE user_id = $1
	`, userID).Scan(
		&s.UserID,
		&s.TotalPoints,
		&s.TrustScore,
		&s.SubmissionCount,
		&s.VerifiedSubmissionCount,
		&s.DisputeCount,
		&s.BadgeCount,
		&s.Level,
		&s.LastUpdated,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PostgresRepository) ListSnapshots(ctx context.Context) ([]*Snapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			user_id,
			total_points,
			trust_score,
			submission_count,
			verified_submission_count,
			dispute_count,
			badge_count,
			level,
			last_updated
		FROM reputation_snapshots
		ORDER BY total_points DESC, user_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*Snapshot

	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(
			&s.UserID,
			&s.TotalPoints,
			&s.TrustScore,
			&s.SubmissionCount,
			&s.VerifiedSubmissionCount,
			&s.DisputeCount,
			&s.BadgeCount,
			&s.Level,
			&s.LastUpdated,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &s)
	}

	return snapshots, rows.Err()
}
