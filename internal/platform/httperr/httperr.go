// Package httperr defines the JSON error body returned by every endpoint
// and helpers for writing it with a stable machine-readable kind.
package httperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Kind is a stable error discriminator. Clients switch on it rather than on
// message text.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidState      Kind = "invalid_state"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindExtractionFailed  Kind = "extraction_failed"
	KindExternalService   Kind = "external_service"
	KindPersistence       Kind = "persistence"
)

// Response is the error body shape shared by all endpoints.
type Response struct {
	Error   Kind     `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func respond(c echo.Context, status int, kind Kind, message string, fields []string) error {
	return c.JSON(status, Response{Error: kind, Message: message, Fields: fields})
}

// Validation writes a 400 with kind "validation". fields names the inputs
// that failed.
func Validation(c echo.Context, message string, fields ...string) error {
	return respond(c, http.StatusBadRequest, KindValidation, message, fields)
}

// NotFound writes a 404 with kind "not_found".
func NotFound(c echo.Context, message string) error {
	return respond(c, http.StatusNotFound, KindNotFound, message, nil)
}

// Conflict writes a 409 with kind "conflict".
func Conflict(c echo.Context, message string) error {
	return respond(c, http.StatusConflict, KindConflict, message, nil)
}

// InvalidState writes a 409 with kind "invalid_state". Used when an operation
// is valid for the resource type but not for its current lifecycle state.
func InvalidState(c echo.Context, message string) error {
	return respond(c, http.StatusConflict, KindInvalidState, message, nil)
}

// UnsupportedFormat writes a 400 with kind "unsupported_format".
func UnsupportedFormat(c echo.Context, message string) error {
	return respond(c, http.StatusBadRequest, KindUnsupportedFormat, message, nil)
}

// ExtractionFailed writes a 422 with kind "extraction_failed". The upload was
// the right format but could not be parsed.
func ExtractionFailed(c echo.Context, message string) error {
	return respond(c, http.StatusUnprocessableEntity, KindExtractionFailed, message, nil)
}

// ExternalService writes a 502 with kind "external_service".
func ExternalService(c echo.Context, message string) error {
	return respond(c, http.StatusBadGateway, KindExternalService, message, nil)
}

// Persistence writes a 500 with kind "persistence".
func Persistence(c echo.Context, message string) error {
	return respond(c, http.StatusInternalServerError, KindPersistence, message, nil)
}
