package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Message
// is always safe to show to the user.
type errorResponse struct {
	Error        string `json:"error"`
	Kind         string `json:"kind,omitempty"`
	Redirect     string `json:"redirect,omitempty"`
	BookingState string `json:"booking_state,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps failures to status codes by kind.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	body := errorResponse{Error: err.Error(), Kind: domain.KindLabel(err)}
	var f *domain.Failure
	if errors.As(err, &f) {
		body.Redirect = f.Redirect
		body.BookingState = string(f.State)
	}

	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		if body.Redirect == "" {
			body.Redirect = "/"
		}
		return http.StatusUnauthorized, body
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, body
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, body
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, body
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, body
	case errors.Is(err, domain.ErrNetworkFailure):
		return http.StatusBadGateway, body
	case errors.Is(err, domain.ErrRejectedByBackend):
		if f != nil && f.Status >= 400 && f.Status < 500 {
			return f.Status, body
		}
		return http.StatusBadGateway, body
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Kind: "internal"}
}
