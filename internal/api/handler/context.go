package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kostmate/booking-api/internal/api/middleware"
	"github.com/kostmate/booking-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A missing
// identity means the route was mounted without Auth and is rejected with 401.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(middleware.KeyIdentity).(*domain.Identity)
	if identity == nil || identity.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}

func ctxSessionID(c echo.Context) (string, error) {
	sid, _ := c.Get(middleware.KeySessionID).(string)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sid, nil
}

// bindAndValidate binds the request body and runs the registered validator.
// Validation failures map to 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
