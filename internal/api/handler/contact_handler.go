package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// ContactHandler manages the caller's emergency contact directory.
type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Add handles POST /v1/contacts.
//
// @Summary      Add an emergency contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      contactRequest  true  "Contact details"
// @Success      201   {object}  domain.EmergencyContact
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/contacts [post]
func (h *ContactHandler) Add(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req contactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	contact, err := h.service.Add(c.Request().Context(), actor, toContactInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contact)
}

// List handles GET /v1/contacts.
//
// @Summary      List emergency contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.EmergencyContact
// @Failure      401  {object}  errorResponse
// @Router       /v1/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	contacts, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contacts)
}

// Remove handles DELETE /v1/contacts/:id.
//
// @Summary      Remove an emergency contact
// @Tags         contacts
// @Security     BearerAuth
// @Param        id   path  string  true  "Contact id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/contacts/{id} [delete]
func (h *ContactHandler) Remove(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
