package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartclinic/clinic-portal/internal/api/middleware"
	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// ctxSession returns the session resolved by the Session middleware.
// A missing value means the route was registered without it, which is a
// wiring bug rather than a client error.
func ctxSession(c echo.Context) (domain.Session, error) {
	session, ok := c.Get(middleware.ContextSession).(domain.Session)
	if !ok {
		return domain.Session{}, echo.NewHTTPError(http.StatusInternalServerError, "session not resolved")
	}
	return session, nil
}

// requireSessionID fast-fails requests that must name a session but carry none.
func requireSessionID(c echo.Context) (string, error) {
	id := middleware.SessionID(c)
	if id == "" {
		return "", domain.NewFailure(domain.ErrInvalidInput, "missing session id; call POST /portal/session first")
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the registered validator.
// Both failures surface as InvalidInput.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewFailure(domain.ErrInvalidInput, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.NewFailure(domain.ErrInvalidInput, err.Error())
	}
	return nil
}
