package provider

import (
	"time"

	"github.com/google/uuid"
)

// Provider maps to the providers table. Providers are keyed by NPI: intake
// forms resubmit the same prescriber many times, and each submission updates
// the registry entry in place.
type Provider struct {
	ID        uuid.UUID `db:"id" json:"id"`
	NPI       string    `db:"npi" json:"npi"`
	Name      string    `db:"name" json:"name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
