package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

// DoctorHandler serves the doctor list view and the actions exposed on its
// cards. It applies each outcome's refresh instruction to the committed view.
type DoctorHandler struct {
	directory ports.DoctorDirectory
	gateway   ports.ActionGateway
	log       zerolog.Logger
}

func NewDoctorHandler(directory ports.DoctorDirectory, gateway ports.ActionGateway, log zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{directory: directory, gateway: gateway, log: log}
}

// List handles GET /portal/doctors. Any of name, time or specialty switches
// to the backend filter.
//
// @Summary      Load the doctor list
// @Tags         doctors
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session id"
// @Param        name          query     string  false  "Doctor name"
// @Param        time          query     string  false  "Availability slot"
// @Param        specialty     query     string  false  "Specialty"
// @Success      200           {object}  domain.DoctorListView
// @Failure      401           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /portal/doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	view, err := h.directory.Load(c.Request().Context(), session, ports.DoctorFilter{
		Name:      c.QueryParam("name"),
		Time:      c.QueryParam("time"),
		Specialty: c.QueryParam("specialty"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Current handles GET /portal/doctors/view.
//
// @Summary      Currently committed doctor list
// @Tags         doctors
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Session id"
// @Success      200           {object}  domain.DoctorListView
// @Failure      404           {object}  errorResponse
// @Router       /portal/doctors/view [get]
func (h *DoctorHandler) Current(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	view, ok := h.directory.Current(session.ID)
	if !ok {
		return domain.NewFailure(domain.ErrNotFound, "No doctor list loaded.")
	}
	return c.JSON(http.StatusOK, view)
}

// Unmount handles DELETE /portal/doctors/view. In-flight loads are cancelled
// and their results discarded.
//
// @Summary      Unmount the doctor list
// @Tags         doctors
// @Param        X-Session-ID  header  string  true  "Session id"
// @Success      204
// @Router       /portal/doctors/view [delete]
func (h *DoctorHandler) Unmount(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	h.directory.Unmount(session.ID)
	return c.NoContent(http.StatusNoContent)
}

// Add handles POST /portal/doctors. On success the list is reloaded.
//
// @Summary      Add a doctor (admin)
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string            true  "Session id"
// @Param        body          body      addDoctorRequest  true  "Doctor details"
// @Success      201           {object}  outcomeResponse
// @Failure      400           {object}  errorResponse
// @Failure      403           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /portal/doctors [post]
func (h *DoctorHandler) Add(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req addDoctorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.gateway.AddDoctor(c.Request().Context(), session, domain.NewDoctor{
		Name:         req.Name,
		Specialty:    req.Specialty,
		Email:        req.Email,
		Password:     req.Password,
		Mobile:       req.Mobile,
		Availability: req.Availability,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.apply(c, session, out))
}

// Invoke handles POST /portal/doctors/:id/actions/:kind. The action must be
// one the committed view exposes to this session.
//
// @Summary      Invoke a card action
// @Tags         doctors
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Session id"
// @Param        id            path      string  true  "Doctor id"
// @Param        kind          path      string  true  "delete, book_prompt or book"
// @Success      200           {object}  outcomeResponse
// @Failure      401           {object}  errorResponse
// @Failure      403           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /portal/doctors/{id}/actions/{kind} [post]
func (h *DoctorHandler) Invoke(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	action, err := h.directory.FindAction(session.ID, c.Param("id"), domain.ActionKind(c.Param("kind")))
	if err != nil {
		return err
	}
	out, err := h.gateway.Invoke(c.Request().Context(), action, session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.apply(c, session, out))
}

// Confirm handles POST /portal/confirmations/:token.
//
// @Summary      Confirm an armed action
// @Tags         doctors
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Session id"
// @Param        token         path      string  true  "Confirm token"
// @Success      200           {object}  outcomeResponse
// @Failure      403           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /portal/confirmations/{token} [post]
func (h *DoctorHandler) Confirm(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	out, err := h.gateway.Confirm(c.Request().Context(), c.Param("token"), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.apply(c, session, out))
}

// Cancel handles DELETE /portal/confirmations/:token.
//
// @Summary      Cancel an armed action
// @Tags         doctors
// @Param        X-Session-ID  header  string  true  "Session id"
// @Param        token         path    string  true  "Confirm token"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /portal/confirmations/{token} [delete]
func (h *DoctorHandler) Cancel(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.gateway.Cancel(c.Request().Context(), c.Param("token"), session); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// apply carries out the outcome's refresh on the session's committed view.
// A failed reload does not undo a completed action.
func (h *DoctorHandler) apply(c echo.Context, session domain.Session, out *domain.Outcome) outcomeResponse {
	resp := outcomeResponse{Outcome: out}
	switch out.Refresh {
	case domain.RefreshRemoveCard:
		if view, ok := h.directory.RemoveCard(session.ID, out.DoctorID); ok {
			resp.View = &view
		}
	case domain.RefreshReloadList:
		view, err := h.directory.Load(c.Request().Context(), session, ports.DoctorFilter{})
		if err != nil {
			h.log.Warn().Err(err).Str("session_id", session.ID).Msg("reload after action failed")
			break
		}
		resp.View = &view
	}
	return resp
}
