package badges

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, badge *Badge) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO user_badges (
			user_id,
			badge_type,
			name,
			description,
			earned_at,
			is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		badge.UserID,
		string(badge.BadgeType),
		badge.Name,
		badge.Description,
		badge.EarnedAt,
		badge.IsActive,
	).Scan(&badge.ID)
}

func (r *PostgresRepository) ListActive(
	ctx context.Context,
	userID string,
) ([]*Badge, error) {

	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			user_id,
			badge_type,
			name,
			description,
			earned_at,
			is_active
		FROM user_badges
		WHERE user_id = $1 AND is_active
		ORDER BY earned_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Badge

	for rows.Next() {
		var b Badge
		var badgeType string
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&badgeType,
			&b.Name,
			&b.Description,
			&b.EarnedAt,
			&b.IsActive,
		); err != nil {
			return nil, err
		}
		b.BadgeType = Type(badgeType)
		result = append(result, &b)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) CountActive(
	ctx context.Context,
	userID string,
) (int, error) {

	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM user_badges
		WHERE user_id = $1 AND is_active
	`, userID).Scan(&count)

	return count, err
}
