package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lamar-health/intake-api/internal/platform/db"
	"github.com/lamar-health/intake-api/pkg/pagination"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cols = `id, npi, name, phone, email, created_at, updated_at`

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.NPI, &p.Name, &p.Phone, &p.Email,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

// Upsert relies on the unique index on npi: concurrent submissions for the
// same NPI resolve inside Postgres with the last write winning. xmax = 0
// distinguishes a fresh insert from a conflict-update.
func (r *repoPG) Upsert(ctx context.Context, p *Provider) (bool, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	var created bool
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO providers (id, npi, name, phone, email)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (npi) DO UPDATE
			SET name = EXCLUDED.name,
			    phone = EXCLUDED.phone,
			    email = EXCLUDED.email,
			    updated_at = NOW()
		RETURNING `+cols+`, (xmax = 0)`,
		p.ID, p.NPI, p.Name, p.Phone, p.Email)

	var out Provider
	if err := row.Scan(&out.ID, &out.NPI, &out.Name, &out.Phone, &out.Email,
		&out.CreatedAt, &out.UpdatedAt, &created); err != nil {
		return false, fmt.Errorf("upsert provider: %w", err)
	}
	*p = out
	return created, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	p, err := scanProvider(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM providers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) GetByNPI(ctx context.Context, npi string) (*Provider, error) {
	p, err := scanProvider(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM providers WHERE npi = $1`, npi))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Provider, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM providers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cols + ` FROM providers ORDER BY created_at ASC`
	if clause := (pagination.Params{Limit: limit, Offset: offset}).SQL(); clause != "" {
		query += " " + clause
	}

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
