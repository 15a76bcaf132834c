package calls

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists calls in the calls table.
//
// Assumed schema:
//
//	CREATE TABLE calls (
//	  id               BIGSERIAL PRIMARY KEY,
//	  lead_id          BIGINT NOT NULL REFERENCES leads(id),
//	  provider_call_id TEXT,
//	  outcome          TEXT NOT NULL DEFAULT 'pending',
//	  transcript       TEXT,
//	  duration         INT,
//	  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const selectCols = `id, lead_id, provider_call_id, outcome, transcript, duration, created_at`

func (r *PostgresRepo) List(ctx context.Context, limit int) ([]Call, error) {
	q := `
SELECT ` + selectCols + `
FROM calls
ORDER BY id DESC
`
	args := []any{}
	if limit > 0 {
		q += `LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCalls(rows)
}

func (r *PostgresRepo) ListByOutcome(ctx context.Context, outcome Outcome) ([]Call, error) {
	const q = `
SELECT ` + selectCols + `
FROM calls
WHERE outcome = $1
ORDER BY id DESC
`
	rows, err := r.db.QueryContext(ctx, q, outcome)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCalls(rows)
}

func (r *PostgresRepo) Create(ctx context.Context, in NewCall) (Call, error) {
	const q = `
INSERT INTO calls (lead_id, provider_call_id, outcome)
VALUES ($1, NULLIF($2, ''), $3)
RETURNING ` + selectCols + `
`
	var c Call
	if err := r.db.QueryRowContext(ctx, q, in.LeadID, in.ProviderCallID, OutcomePending).Scan(
		&c.ID,
		&c.LeadID,
		&c.ProviderCallID,
		&c.Outcome,
		&c.Transcript,
		&c.DurationSeconds,
		&c.CreatedAt,
	); err != nil {
		return Call{}, err
	}
	return c, nil
}

func (r *PostgresRepo) SetResult(ctx context.Context, id int64, res Result) error {
	const q = `
UPDATE calls SET outcome = $2, transcript = $3, duration = $4 WHERE id = $1
`
	out, err := r.db.ExecContext(ctx, q, id, res.Outcome, res.Transcript, res.DurationSeconds)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) FindByProviderCallID(ctx context.Context, providerCallID string) (Call, bool, error) {
	const q = `
SELECT ` + selectCols + `
FROM calls
WHERE provider_call_id = $1
LIMIT 1
`
	var c Call
	err := r.db.QueryRowContext(ctx, q, providerCallID).Scan(
		&c.ID,
		&c.LeadID,
		&c.ProviderCallID,
		&c.Outcome,
		&c.Transcript,
		&c.DurationSeconds,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Call{}, false, nil
		}
		return Call{}, false, err
	}
	return c, true, nil
}

func scanCalls(rows *sql.Rows) ([]Call, error) {
	var out []Call
	for rows.Next() {
		var c Call
		if err := rows.Scan(
			&c.ID,
			&c.LeadID,
			&c.ProviderCallID,
			&c.Outcome,
			&c.Transcript,
			&c.DurationSeconds,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
