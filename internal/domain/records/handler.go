// Package records exposes the stateless medical-records extraction endpoint.
// Extracted text is returned to the caller, who attaches it to an intake
// submission; nothing is persisted here.
package records

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lamar-health/intake-api/internal/platform/docextract"
	"github.com/lamar-health/intake-api/internal/platform/httperr"
)

type Handler struct {
	extractor docextract.TextExtractor
}

func NewHandler(extractor docextract.TextExtractor) *Handler {
	return &Handler{extractor: extractor}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/records/extract", h.Extract)
}

type extractResponse struct {
	ExtractedText string `json:"extracted_text"`
	Pages         int    `json:"pages"`
}

func (h *Handler) Extract(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return httperr.Validation(c, "multipart field 'file' is required", "file")
	}

	f, err := fh.Open()
	if err != nil {
		return httperr.Validation(c, "could not read uploaded file", "file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return httperr.Validation(c, "could not read uploaded file", "file")
	}

	doc, err := h.extractor.Extract(c.Request().Context(), data)
	switch {
	case errors.Is(err, docextract.ErrNotPDF):
		return httperr.UnsupportedFormat(c, err.Error())
	case errors.Is(err, docextract.ErrExtraction):
		return httperr.ExtractionFailed(c, err.Error())
	case err != nil:
		return httperr.ExtractionFailed(c, "failed to process document")
	}

	return c.JSON(http.StatusOK, extractResponse{ExtractedText: doc.Text, Pages: doc.Pages})
}
