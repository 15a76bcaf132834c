package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends audit events to the audit_events table.
//
// Assumed schema:
//
//	CREATE TABLE audit_events (
//	  id          UUID PRIMARY KEY,
//	  type        TEXT NOT NULL,
//	  campaign_id BIGINT NOT NULL DEFAULT 0,
//	  lead_id     BIGINT NOT NULL DEFAULT 0,
//	  call_id     BIGINT NOT NULL DEFAULT 0,
//	  message     TEXT NOT NULL DEFAULT '',
//	  metadata    TEXT NOT NULL DEFAULT '',
//	  created_at  TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, type, campaign_id, lead_id, call_id, message, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Type,
		e.CampaignID,
		e.LeadID,
		e.CallID,
		e.Message,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}
