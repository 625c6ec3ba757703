package provider

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert inserts the provider or, when the NPI already exists, updates
	// the existing row. Reports whether a new row was created.
	Upsert(ctx context.Context, p *Provider) (created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	GetByNPI(ctx context.Context, npi string) (*Provider, error)
	List(ctx context.Context, limit, offset int) ([]*Provider, int, error)
}
