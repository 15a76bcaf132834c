package campaigns

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Intellimint/SalesCaller/pkg/utils"
)

// PostgresRepo persists campaigns in the campaigns table.
//
// Assumed schema:
//
//	CREATE TABLE campaigns (
//	  id          BIGSERIAL PRIMARY KEY,
//	  name        TEXT NOT NULL,
//	  is_active   BOOLEAN NOT NULL DEFAULT false,
//	  concurrency INT NOT NULL DEFAULT 5,
//	  voice_id    TEXT NOT NULL DEFAULT '',
//	  auto_retry  BOOLEAN NOT NULL DEFAULT true,
//	  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetActive(ctx context.Context) (Campaign, bool, error) {
	const q = `
SELECT id, name, is_active, concurrency, voice_id, auto_retry, created_at
FROM campaigns
WHERE is_active
ORDER BY id DESC
LIMIT 1
`
	var c Campaign
	err := r.db.QueryRowContext(ctx, q).Scan(
		&c.ID,
		&c.Name,
		&c.IsActive,
		&c.Concurrency,
		&c.VoiceID,
		&c.AutoRetry,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, false, nil
		}
		return Campaign{}, false, err
	}
	return c, true, nil
}

// Activate deactivates any active campaign and inserts the new one in a
// single transaction, keeping the single-active invariant at the store level.
func (r *PostgresRepo) Activate(ctx context.Context, in NewCampaign) (Campaign, error) {
	var out Campaign
	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE campaigns SET is_active = false WHERE is_active`); err != nil {
			return err
		}

		const q = `
INSERT INTO campaigns (name, is_active, concurrency, voice_id, auto_retry)
VALUES ($1, true, $2, $3, $4)
RETURNING id, name, is_active, concurrency, voice_id, auto_retry, created_at
`
		return tx.QueryRowContext(ctx, q, in.Name, in.Concurrency, in.VoiceID, in.AutoRetry).Scan(
			&out.ID,
			&out.Name,
			&out.IsActive,
			&out.Concurrency,
			&out.VoiceID,
			&out.AutoRetry,
			&out.CreatedAt,
		)
	})
	if err != nil {
		return Campaign{}, err
	}
	return out, nil
}

func (r *PostgresRepo) Deactivate(ctx context.Context) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE campaigns SET is_active = false WHERE is_active`)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
