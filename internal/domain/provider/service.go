package provider

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var npiPattern = regexp.MustCompile(`^\d{10}$`)

// UpsertCommand carries the fields accepted by the upsert endpoint.
type UpsertCommand struct {
	NPI   string  `json:"npi"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert registers a provider or refreshes the registry entry for an existing
// NPI. Returns the stored provider and whether it was newly created.
func (s *Service) Upsert(ctx context.Context, cmd UpsertCommand) (*Provider, bool, error) {
	cmd.NPI = strings.TrimSpace(cmd.NPI)
	cmd.Name = strings.TrimSpace(cmd.Name)

	if !npiPattern.MatchString(cmd.NPI) {
		return nil, false, ErrInvalidNPI
	}
	if cmd.Name == "" {
		return nil, false, ErrNameRequired
	}

	p := &Provider{
		NPI:   cmd.NPI,
		Name:  cmd.Name,
		Phone: cmd.Phone,
		Email: cmd.Email,
	}
	created, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, false, err
	}
	return p, created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByNPI(ctx context.Context, npi string) (*Provider, error) {
	return s.repo.GetByNPI(ctx, npi)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Provider, int, error) {
	return s.repo.List(ctx, limit, offset)
}
