package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaswanth810/Women-Safety-Platform/internal/api/metrics"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// headerIdempotentReplay marks a create response that returned an existing case.
const headerIdempotentReplay = "Idempotent-Replayed"

// IncidentHandler handles HTTP requests for incident cases.
type IncidentHandler struct {
	service ports.IncidentService
}

func NewIncidentHandler(service ports.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// Create handles POST /v1/incidents.
//
// @Summary      File a new incident report
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createIncidentRequest  true   "Incident details"
// @Success      201              {object}  domain.IncidentCase
// @Success      200              {object}  domain.IncidentCase  "Replay of an earlier submission"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/incidents [post]
func (h *IncidentHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createIncidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	result, err := h.service.Create(c.Request().Context(), actor, toCreateIncidentInput(req, idempotencyKey))
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		c.Response().Header().Set(headerIdempotentReplay, "true")
		return c.JSON(http.StatusOK, result.Incident)
	}

	metrics.IncidentsCreatedTotal.WithLabelValues(string(result.Incident.Type)).Inc()
	return c.JSON(http.StatusCreated, result.Incident)
}

// Get handles GET /v1/incidents/:id.
//
// @Summary      Get an incident case
// @Description  Anonymous cases are returned without the reporter id unless the caller owns the case or may reveal identities.
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Incident id"
// @Success      200  {object}  domain.IncidentCase
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/incidents/{id} [get]
func (h *IncidentHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	incident, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, incident)
}

// List handles GET /v1/incidents.
//
// @Summary      List incident cases
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        scope   query     string  false  "own (default) or all"
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  incidentListResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/incidents [get]
func (h *IncidentHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), actor, ports.ListIncidentsInput{
		Scope:  ports.Scope(c.QueryParam("scope")),
		Status: domain.IncidentStatus(c.QueryParam("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, incidentListResponse{Items: items, Count: len(items)})
}

// AppendEvidence handles POST /v1/incidents/:id/evidence.
//
// @Summary      Attach an evidence reference
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Incident id"
// @Param        body  body      evidenceRequest  true  "Stored file reference"
// @Success      200   {object}  domain.IncidentCase
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/incidents/{id}/evidence [post]
func (h *IncidentHandler) AppendEvidence(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req evidenceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	incident, err := h.service.AppendEvidence(c.Request().Context(), actor, c.Param("id"), req.FileRef)
	if err != nil {
		return err
	}

	metrics.EvidenceAppendedTotal.Inc()
	return c.JSON(http.StatusOK, incident)
}

// SetStatus handles PUT /v1/incidents/:id/status.
//
// @Summary      Change an incident's status
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Incident id"
// @Param        body  body      setStatusRequest  true  "Target status"
// @Success      200   {object}  domain.IncidentCase
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/incidents/{id}/status [put]
func (h *IncidentHandler) SetStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req setStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	incident, err := h.service.SetStatus(c.Request().Context(), actor, c.Param("id"), ports.SetStatusInput{
		Status: domain.IncidentStatus(req.Status),
		Notes:  req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.IncidentStatusUpdatesTotal.WithLabelValues(string(incident.Status)).Inc()
	return c.JSON(http.StatusOK, incident)
}
