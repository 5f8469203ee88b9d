package review

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

// --------------------------------------------------
// VERIFICATIONS
// --------------------------------------------------

func (r *PostgresRepository) CreateVerification(ctx context.Context, v *Verification) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO price_verifications (
			submission_id,
			verifier_user_id,
			is_accurate,
			notes,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		v.SubmissionID,
		v.VerifierUserID,
		v.IsAccurate,
		v.Notes,
		v.CreatedAt,
	).Scan(&v.ID)
}

func (r *PostgresRepository) ListVerifications(
	ctx context.Context,
	submissionID int64,
) ([]*Verification, error) {

	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			submission_id,
			verifier_user_id,
			is_accurate,
			notes,
			created_at
		FROM price_verifications
		WHERE submission_id = $1
		ORDER BY created_at, id
	`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Verification

	for rows.Next() {
		var v Verification
		if err := rows.Scan(
			&v.ID,
			&v.SubmissionID,
			&v.VerifierUserID,
			&v.IsAccurate,
			&v.Notes,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}

	return result, rows.Err()
}

// --------------------------------------------------
// DISPUTES
// --------------------------------------------------

func (r *PostgresRepository) CreateDispute(ctx context.Context, d *Dispute) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO price_disputes (
			submission_id,
			disputer_user_id,
			reason,
			suggested_price,
			evidence_url,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`,
		d.SubmissionID,
		d.DisputerUserID,
		d.Reason,
		d.SuggestedPrice,
		d.EvidenceURL,
		string(d.Status),
		d.CreatedAt,
	).Scan(&d.ID)
}

func scanDispute(row pgx.Row) (*Dispute, error) {
	var d Dispute
	var status string
	err := row.Scan(
		&d.ID,
		&d.SubmissionID,
		&d.DisputerUserID,
		&d.Reason,
		&d.SuggestedPrice,
		&d.EvidenceURL,
		&status,
		&d.ReviewedBy,
		&d.ResolvedBy,
		&d.ResolvedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Status = DisputeStatus(status)
	return &d, nil
}

const disputeColumns = `
	id,
	submission_id,
	disputer_user_id,
	reason,
	suggested_price,
	evidence_url,
	status,
	reviewed_by,
	resolved_by,
	resolved_at,
	created_at,
	updated_at
`

func (r *PostgresRepository) GetDispute(ctx context.Context, disputeID int64) (*Dispute, error) {
	d, err := scanDispute(r.db.QueryRow(ctx, `
		SELECT `+disputeColumns+`
		FROM price_disputes
		WHERE id = $1
	`, disputeID))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) UpdateDispute(ctx context.Context, d *Dispute) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE price_disputes
		SET
			status = $2,
			reviewed_by = $3,
			resolved_by = $4,
			resolved_at = $5,
			updated_at = $6
		WHERE id = $1
	`,
		d.ID,
		string(d.Status),
		d.ReviewedBy,
		d.ResolvedBy,
		d.ResolvedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListDisputesByStatus(
	ctx context.Context,
	status DisputeStatus,
) ([]*Dispute, error) {

	rows, err := r.db.Query(ctx, `
		SELECT `+disputeColumns+`
		FROM price_disputes
		WHERE status = $1
		ORDER BY created_at, id
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Dispute

	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}

	return result, rows.Err()
}
