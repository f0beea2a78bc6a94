package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

const (
	// HeaderSessionID carries the opaque session id issued by POST /portal/session.
	HeaderSessionID = "X-Session-ID"
	// CookieSession is the cookie fallback for browsers.
	CookieSession = "clinic_session"
	// ContextSession is the echo context key holding the resolved domain.Session.
	ContextSession = "session"
)

// SessionResolver is the part of the session service the middleware needs.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (domain.Session, error)
}

// Session resolves the caller's session once per request and stores it in
// the echo context. An expired session is cleared by the resolver and the
// request fails so the client re-authenticates.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := resolver.Resolve(c.Request().Context(), SessionID(c))
			if err != nil {
				return err
			}
			c.Set(ContextSession, session)
			return next(c)
		}
	}
}

// SessionID reads the session id from the header, falling back to the cookie.
func SessionID(c echo.Context) string {
	if id := c.Request().Header.Get(HeaderSessionID); id != "" {
		return id
	}
	if cookie, err := c.Cookie(CookieSession); err == nil {
		return cookie.Value
	}
	return ""
}
