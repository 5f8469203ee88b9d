package submission

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

const submissionColumns = `
	id,
	menu_item_id,
	provider_id,
	submitter_id,
	price_value,
	submitted_at,
	is_offer,
	offer_description,
	evidence_url,
	is_verified,
	verification_count,
	dispute_count,
	created_at,
	updated_at
`

func scanSubmission(row pgx.Row) (*PriceSubmission, error) {
	var s PriceSubmission
	err := row.Scan(
		&s.ID,
		&s.MenuItemID,
		&s.ProviderID,
		&s.SubmitterID,
		&s.PriceValue,
		&s.SubmittedAt,
		&s.IsOffer,
		&s.OfferDescription,
		&s.EvidenceURL,
		&s.IsVerified,
		&s.VerificationCount,
		&s.DisputeCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// --------------------------------------------------
// CREATE
// --------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, sub *PriceSubmission) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO price_submissions (
			menu_item_id,
			provider_id,
			submitter_id,
			price_value,
			submitted_at,
			is_offer,
			offer_description,
			evidence_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`,
		sub.MenuItemID,
		sub.ProviderID,
		sub.SubmitterID,
		sub.PriceValue,
		sub.SubmittedAt,
		sub.IsOffer,
		sub.OfferDescription,
		sub.EvidenceURL,
	).Scan(
		&sub.ID,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
}

// --------------------------------------------------
// READS
// --------------------------------------------------

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*PriceSubmission, error) {
	sub, err := scanSubmission(r.db.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM price_submissions
		WHERE id = $1
	`, id))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (r *PostgresRepository) ListForItem(
	ctx context.Context,
	menuItemID int64,
) ([]*PriceSubmission, error) {

	rows, err := r.db.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM price_submissions
		WHERE menu_item_id = $1
		ORDER BY submitted_at DESC, id DESC
	`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

func (r *PostgresRepository) ListForItemProvider(
	ctx context.Context,
	menuItemID, providerID int64,
) ([]*PriceSubmission, error) {

	rows, err := r.db.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM price_submissions
		WHERE menu_item_id = $1 AND provider_id = $2
		ORDER BY submitted_at DESC, id DESC
	`, menuItemID, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

func (r *PostgresRepository) ListRecentByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]*PriceSubmission, error) {

	rows, err := r.db.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM price_submissions
		WHERE submitter_id = $1
		ORDER BY submitted_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

func collectSubmissions(rows pgx.Rows) ([]*PriceSubmission, error) {
	var subs []*PriceSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// --------------------------------------------------
// COUNTER MUTATIONS (single-statement, atomic)
// --------------------------------------------------

func (r *PostgresRepository) IncrementVerification(
	ctx context.Context,
	id int64,
	threshold int,
) (*PriceSubmission, error) {

	sub, err := scanSubmission(r.db.QueryRow(ctx, `
		UPDATE price_submissions
		SET
			verification_count = verification_count + 1,
			is_verified = verification_count + 1 >= $2,
			updated_at = now()
		WHERE id = $1
		RETURNING `+submissionColumns+`
	`, id, threshold))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (r *PostgresRepository) IncrementDispute(
	ctx context.Context,
	id int64,
) (*PriceSubmission, error) {

	sub, err := scanSubmission(r.db.QueryRow(ctx, `
		UPDATE price_submissions
		SET
			dispute_count = dispute_count + 1,
			updated_at = now()
		WHERE id = $1
		RETURNING `+submissionColumns+`
	`, id))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (r *PostgresRepository) SetEvidenceURL(ctx context.Context, id int64, url string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE price_submissions
		SET evidence_url = $2, updated_at = now()
		WHERE id = $1
	`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
