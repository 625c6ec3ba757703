package careplan

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lamar-health/intake-api/internal/domain/intake"
	"github.com/lamar-health/intake-api/internal/platform/httperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:patient_id/orders/:order_id/care-plan", h.Download)
}

// Download generates the care plan and returns it as a text attachment.
func (h *Handler) Download(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		return httperr.Validation(c, "invalid patient id", "patient_id")
	}
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		return httperr.Validation(c, "invalid order id", "order_id")
	}

	text, err := h.svc.Generate(c.Request().Context(), patientID, orderID)
	switch {
	case errors.Is(err, intake.ErrPatientNotFound), errors.Is(err, intake.ErrOrderNotFound):
		return httperr.NotFound(c, err.Error())
	case errors.Is(err, ErrOrderNotConfirmed):
		return httperr.InvalidState(c, err.Error())
	case errors.Is(err, ErrGeneration):
		return httperr.ExternalService(c, err.Error())
	case err != nil:
		return httperr.Persistence(c, "failed to generate care plan")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="care_plan_%s.txt"`, orderID))
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
