package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	apperrors "fixif/internal/errors"
	"fixif/internal/model"
	"fixif/internal/service"
)

// DiagnosisHandler handles the AI diagnosis endpoint.
type DiagnosisHandler struct {
	diagnosisService service.DiagnosisService
}

// NewDiagnosisHandler creates a new diagnosis handler.
func NewDiagnosisHandler(diagnosisService service.DiagnosisService) *DiagnosisHandler {
	return &DiagnosisHandler{diagnosisService: diagnosisService}
}

// Diagnose godoc
// @Summary Generate a preliminary vehicle diagnosis
// @Description Forwards the intake payload to the LLM provider and returns
// @Description its structured report. If the provider answers with text that
// @Description is not valid JSON the response still succeeds and carries the
// @Description raw text plus a warning.
// @Tags diagnosis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.DiagnoseRequest true "Vehicle intake"
// @Success 200 {object} model.DiagnosisResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /diagnose [post]
func (h *DiagnosisHandler) Diagnose(c echo.Context) error {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return err
	}

	var req model.DiagnoseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.diagnosisService.Diagnose(c.Request().Context(), claims.UserID, &req)
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		if he.Code == "INTERNAL_ERROR" {
			log.Error().Err(err).Msg("diagnosis request failed")
			he = apperrors.NewHTTPError(http.StatusInternalServerError,
				"internal server error while generating AI diagnosis", "DIAGNOSIS_FAILED")
		}
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, result)
}
