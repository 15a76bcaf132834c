package leads

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists leads in the leads table.
//
// Assumed schema:
//
//	CREATE TABLE leads (
//	  id          BIGSERIAL PRIMARY KEY,
//	  phone       TEXT NOT NULL,
//	  company     TEXT NOT NULL DEFAULT '',
//	  contact     TEXT NOT NULL DEFAULT '',
//	  status      TEXT NOT NULL DEFAULT 'pending',
//	  prompt_name TEXT NOT NULL DEFAULT '',
//	  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) List(ctx context.Context) ([]Lead, error) {
	const q = `
SELECT id, phone, company, contact, status, prompt_name, created_at
FROM leads
ORDER BY id DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *PostgresRepo) ListByStatus(ctx context.Context, status Status) ([]Lead, error) {
	const q = `
SELECT id, phone, company, contact, status, prompt_name, created_at
FROM leads
WHERE status = $1
ORDER BY id ASC
`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Lead, error) {
	const q = `
SELECT id, phone, company, contact, status, prompt_name, created_at
FROM leads
WHERE id = $1
`
	var l Lead
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID,
		&l.Phone,
		&l.Company,
		&l.Contact,
		&l.Status,
		&l.PromptName,
		&l.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return l, nil
}

func (r *PostgresRepo) Create(ctx context.Context, in NewLead) (Lead, error) {
	const q = `
INSERT INTO leads (phone, company, contact, status, prompt_name)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, phone, company, contact, status, prompt_name, created_at
`
	var l Lead
	if err := r.db.QueryRowContext(ctx, q, in.Phone, in.Company, in.Contact, StatusPending, in.PromptName).Scan(
		&l.ID,
		&l.Phone,
		&l.Company,
		&l.Contact,
		&l.Status,
		&l.PromptName,
		&l.CreatedAt,
	); err != nil {
		return Lead{}, err
	}
	return l, nil
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	const q = `
UPDATE leads SET status = $2 WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLeads(rows *sql.Rows) ([]Lead, error) {
	var out []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(
			&l.ID,
			&l.Phone,
			&l.Company,
			&l.Contact,
			&l.Status,
			&l.PromptName,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
