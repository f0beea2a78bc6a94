package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/smartclinic/clinic-portal/internal/api/middleware"
	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
	"github.com/smartclinic/clinic-portal/internal/core/service"
)

// SessionHandler serves session lifecycle routes: creation, role selection,
// login, logout, signup and the role header.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func sessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieSession,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func newSessionResponse(session domain.Session) sessionResponse {
	return sessionResponse{Session: session, Navigation: service.ComposeNavigation(session)}
}

// Create handles POST /portal/session.
//
// @Summary      Start a guest session
// @Tags         session
// @Produce      json
// @Success      201  {object}  sessionResponse
// @Router       /portal/session [post]
func (h *SessionHandler) Create(c echo.Context) error {
	session := h.sessions.New(c.Request().Context())
	c.SetCookie(sessionCookie(session.ID))
	c.Response().Header().Set(middleware.HeaderSessionID, session.ID)
	return c.JSON(http.StatusCreated, newSessionResponse(session))
}

// SelectRole handles POST /portal/session/role.
//
// @Summary      Select the browsing role of an anonymous visitor
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string             true  "Session id"
// @Param        body          body      selectRoleRequest  true  "Role tag: empty for guest or patient"
// @Success      200           {object}  sessionResponse
// @Failure      400           {object}  errorResponse
// @Failure      403           {object}  errorResponse
// @Router       /portal/session/role [post]
func (h *SessionHandler) SelectRole(c echo.Context) error {
	id, err := requireSessionID(c)
	if err != nil {
		return err
	}
	var req selectRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.sessions.SelectRole(c.Request().Context(), id, domain.ParseRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponse(session))
}

// Login handles POST /portal/login/:role.
//
// @Summary      Log in as admin, doctor or patient
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string        true  "Session id"
// @Param        role          path      string        true  "admin, doctor or patient"
// @Param        body          body      loginRequest  true  "Credentials"
// @Success      200           {object}  sessionResponse
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /portal/login/{role} [post]
func (h *SessionHandler) Login(c echo.Context) error {
	id, err := requireSessionID(c)
	if err != nil {
		return err
	}
	role := domain.ParseRole(c.Param("role"))
	switch role {
	case domain.RoleAdmin, domain.RoleDoctor, domain.RolePatient:
	default:
		return domain.NewFailure(domain.ErrInvalidInput, "role must be one of: admin, doctor, patient")
	}

	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.sessions.Login(c.Request().Context(), id, role, domain.Credentials{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponse(session))
}

// Logout handles POST /portal/logout. With keepPatient=true a signed-in
// patient drops the token but keeps browsing as a patient.
//
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Param        X-Session-ID  header    string  true   "Session id"
// @Param        keepPatient   query     bool    false  "Keep the patient browsing role"
// @Success      200           {object}  sessionResponse
// @Router       /portal/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	id, err := requireSessionID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if keep, _ := strconv.ParseBool(c.QueryParam("keepPatient")); keep {
		session, err := h.sessions.LogoutPatient(ctx, id)
		if err != nil {
			return err
		}
		resp := newSessionResponse(session)
		resp.Redirect = "/"
		return c.JSON(http.StatusOK, resp)
	}

	if err := h.sessions.Logout(ctx, id); err != nil {
		return err
	}
	resp := newSessionResponse(domain.GuestSession(id))
	resp.Redirect = "/"
	return c.JSON(http.StatusOK, resp)
}

// Signup handles POST /portal/signup.
//
// @Summary      Register a patient
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Patient details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /portal/signup [post]
func (h *SessionHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.sessions.Signup(c.Request().Context(), domain.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: msg})
}

// Header handles GET /portal/header.
//
// @Summary      Navigation for the current role
// @Tags         session
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session id"
// @Success      200           {object}  sessionResponse
// @Failure      401           {object}  errorResponse
// @Router       /portal/header [get]
func (h *SessionHandler) Header(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponse(session))
}
