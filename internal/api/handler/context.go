package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaswanth810/Women-Safety-Platform/internal/api/middleware"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// actorFrom builds the core Actor from the claims injected by the Auth
// middleware. A token without a subject or with an unknown role is
// structurally valid but unusable, so it is rejected with 401.
func actorFrom(c echo.Context) (domain.Actor, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	role, _ := c.Get(middleware.ContextRole).(string)

	actor := domain.Actor{UserID: userID, Role: domain.Role(role)}
	if !actor.Authenticated() {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
