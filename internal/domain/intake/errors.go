package intake

import (
	"errors"
	"strings"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrDuplicateMRN     = errors.New("a patient with this mrn already exists")
)

// ValidationError carries the names of all inputs that failed validation so
// intake forms can surface every problem in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}
