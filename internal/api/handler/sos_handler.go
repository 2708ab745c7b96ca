package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yaswanth810/Women-Safety-Platform/internal/api/metrics"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// SOSHandler handles emergency alert requests.
type SOSHandler struct {
	service ports.SOSService
}

func NewSOSHandler(service ports.SOSService) *SOSHandler {
	return &SOSHandler{service: service}
}

// Trigger handles POST /v1/sos.
//
// @Summary      Raise an SOS alert
// @Description  Stores the alert and notifies every emergency contact. Partial delivery failures are reported in the dispatch summary and never fail the request.
// @Tags         sos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      triggerRequest  true  "Current location and optional notes"
// @Success      201   {object}  triggerResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/sos [post]
func (h *SOSHandler) Trigger(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req triggerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Trigger(c.Request().Context(), actor, toTriggerInput(req))
	if err != nil {
		metrics.SOSRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return err
	}

	metrics.SOSTriggeredTotal.Inc()
	return c.JSON(http.StatusCreated, triggerResponse{
		Alert:         result.Alert,
		NotifiedCount: result.NotifiedCount,
		Dispatch:      result.Report,
	})
}

// Deactivate handles POST /v1/sos/:id/deactivate.
//
// @Summary      Deactivate an SOS alert
// @Tags         sos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Alert id"
// @Success      200  {object}  domain.SOSAlert
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/sos/{id}/deactivate [post]
func (h *SOSHandler) Deactivate(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	alert, err := h.service.Deactivate(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// Get handles GET /v1/sos/:id.
//
// @Summary      Get an SOS alert
// @Tags         sos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Alert id"
// @Success      200  {object}  domain.SOSAlert
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/sos/{id} [get]
func (h *SOSHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	alert, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// List handles GET /v1/sos.
//
// @Summary      List SOS alerts
// @Tags         sos
// @Produce      json
// @Security     BearerAuth
// @Param        scope   query     string  false  "own (default) or all"
// @Param        active  query     bool    false  "Only active alerts"
// @Success      200     {object}  alertListResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/sos [get]
func (h *SOSHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	activeOnly := false
	if raw := c.QueryParam("active"); raw != "" {
		activeOnly, err = strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active must be a boolean")
		}
	}

	items, err := h.service.List(c.Request().Context(), actor, ports.ListAlertsInput{
		Scope:      ports.Scope(c.QueryParam("scope")),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alertListResponse{Items: items, Count: len(items)})
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrLocationRequired):
		return "location_required"
	case errors.Is(err, domain.ErrAlreadyActive):
		return "already_active"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
