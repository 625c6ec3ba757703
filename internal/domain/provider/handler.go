package provider

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lamar-health/intake-api/internal/platform/httperr"
	"github.com/lamar-health/intake-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/providers", h.Upsert)
	api.GET("/providers", h.List)
}

// Upsert returns 201 when the NPI is new and 200 when an existing registry
// entry was updated.
func (h *Handler) Upsert(c echo.Context) error {
	var cmd UpsertCommand
	if err := c.Bind(&cmd); err != nil {
		return httperr.Validation(c, err.Error())
	}

	p, created, err := h.svc.Upsert(c.Request().Context(), cmd)
	switch {
	case errors.Is(err, ErrInvalidNPI):
		return httperr.Validation(c, err.Error(), "npi")
	case errors.Is(err, ErrNameRequired):
		return httperr.Validation(c, err.Error(), "name")
	case err != nil:
		return httperr.Persistence(c, "failed to save provider")
	}

	if created {
		return c.JSON(http.StatusCreated, p)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Persistence(c, "failed to list providers")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
