package provider

import "errors"

var (
	ErrInvalidNPI   = errors.New("npi must be exactly 10 digits")
	ErrNameRequired = errors.New("name is required")
	ErrNotFound     = errors.New("provider not found")
)
