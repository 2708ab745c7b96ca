package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yaswanth810/Women-Safety-Platform/internal/api/metrics"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// AdminHandler serves moderator and admin analytics.
type AdminHandler struct {
	service ports.AnalyticsService
}

func NewAdminHandler(service ports.AnalyticsService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Hotspots handles GET /v1/admin/hotspots.
//
// @Summary      Geographic hotspots
// @Description  Projects located incidents and SOS alerts into points ordered by time, kind, then source id.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        type  query     string  false  "Incident type or sos"
// @Param        from  query     string  false  "RFC3339 lower bound (inclusive)"
// @Param        to    query     string  false  "RFC3339 upper bound (inclusive)"
// @Success      200   {object}  hotspotResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/admin/hotspots [get]
func (h *AdminHandler) Hotspots(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	filter := domain.HotspotFilter{Kind: c.QueryParam("type")}
	if filter.From, err = parseTimeParam(c, "from"); err != nil {
		return err
	}
	if filter.To, err = parseTimeParam(c, "to"); err != nil {
		return err
	}

	points, err := h.service.Hotspots(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	metrics.HotspotPointsReturned.Observe(float64(len(points)))
	return c.JSON(http.StatusOK, hotspotResponse{Points: points, Count: len(points)})
}

// Stats handles GET /v1/admin/stats.
//
// @Summary      Platform statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.PlatformStats
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func parseTimeParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be an RFC3339 timestamp")
	}
	return t.UTC(), nil
}
