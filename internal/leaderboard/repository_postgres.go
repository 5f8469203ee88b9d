package leaderboard

import (
	"context"
	"errors"

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

// ReplaceEntries swaps the period's entries inside one transaction.
func (r *PostgresRepository) ReplaceEntries(
	ctx context.Context,
	period Period,
	entries []*Entry,
) error {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM leaderboard_entries WHERE period = $1
	`, string(period)); err != nil {
		return err
	}

	for _, e := range entries {
		err := tx.QueryRow(ctx, `
			INSERT INTO leaderboard_entries (
				period,
				user_id,
				position,
				points,
				submission_count,
				verification_count,
				updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`,
			string(period),
			e.UserID,
			e.Position,
			e.Points,
			e.SubmissionCount,
			e.VerificationCount,
			e.UpdatedAt,
		).Scan(&e.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const entryColumns = `
	id,
	period,
	user_id,
	position,
	points,
	submission_count,
	verification_count,
	updated_at
`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	var period string
	err := row.Scan(
		&e.ID,
		&period,
		&e.UserID,
		&e.Position,
		&e.Points,
		&e.SubmissionCount,
		&e.VerificationCount,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Period = Period(period)
	return &e, nil
}

func (r *PostgresRepository) ListByPeriod(
	ctx context.Context,
	period Period,
	limit int,
) ([]*Entry, error) {

	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM leaderboard_entries
		WHERE period = $1
		ORDER BY position
		LIMIT $2
	`, string(period), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *PostgresRepository) FindUserEntry(
	ctx context.Context,
	period Period,
	userID string,
) (*Entry, error) {

	e, err := scanEntry(r.db.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM leaderboard_entries
		WHERE period = $1 AND user_id = $2
	`, string(period), userID))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}
