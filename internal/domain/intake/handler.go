package intake

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.POST("/orders/:id/confirm", h.ConfirmOrder)
}

type createPatientResponse struct {
	Patient *Patient `json:"patient"`
	Order   *Order   `json:"order"`
}

type createOrderResponse struct {
	Order   *Order `json:"order"`
	Warning string `json:"warning,omitempty"`
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var cmd CreatePatientCommand
	if err := c.Bind(&cmd); err != nil {
		return httperr.Validation(c, err.Error())
	}

	patient, order, err := h.svc.CreatePatientWithOrder(c.Request().Context(), cmd)
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return httperr.Validation(c, vErr.Error(), vErr.Fields...)
	case errors.Is(err, ErrProviderNotFound):
		return httperr.NotFound(c, err.Error())
	case errors.Is(err, ErrDuplicateMRN):
		return httperr.Conflict(c, err.Error())
	case err != nil:
		return httperr.Persistence(c, "failed to save intake")
	}

	return c.JSON(http.StatusCreated, createPatientResponse{Patient: patient, Order: order})
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation(c, "invalid patient id", "id")
	}
	patient, err := h.svc.GetPatient(c.Request().Context(), id)
	switch {
	case errors.Is(err, ErrPatientNotFound):
		return httperr.NotFound(c, err.Error())
	case err != nil:
		return httperr.Persistence(c, "failed to load patient")
	}
	return c.JSON(http.StatusOK, patient)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Persistence(c, "failed to list patients")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var cmd CreateOrderCommand
	if err := c.Bind(&cmd); err != nil {
		return httperr.Validation(c, err.Error())
	}

	order, warning, err := h.svc.CreateOrder(c.Request().Context(), cmd)
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return httperr.Validation(c, vErr.Error(), vErr.Fields...)
	case errors.Is(err, ErrPatientNotFound):
		return httperr.NotFound(c, err.Error())
	case err != nil:
		return httperr.Persistence(c, "failed to save order")
	}

	return c.JSON(http.StatusCreated, createOrderResponse{Order: order, Warning: warning})
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation(c, "invalid order id", "id")
	}
	order, err := h.svc.GetOrder(c.Request().Context(), id)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return httperr.NotFound(c, err.Error())
	case err != nil:
		return httperr.Persistence(c, "failed to load order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListOrders(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Persistence(c, "failed to list orders")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ConfirmOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation(c, "invalid order id", "id")
	}
	order, err := h.svc.ConfirmOrder(c.Request().Context(), id)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return httperr.NotFound(c, err.Error())
	case err != nil:
		return httperr.Persistence(c, "failed to confirm order")
	}
	return c.JSON(http.StatusOK, order)
}
