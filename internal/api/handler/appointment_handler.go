package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/core/ports"
)

type AppointmentHandler struct {
	board ports.AppointmentBoard
}

func NewAppointmentHandler(board ports.AppointmentBoard) *AppointmentHandler {
	return &AppointmentHandler{board: board}
}

// List handles GET /portal/appointments.
//
// @Summary      Appointment board for a doctor or signed-in patient
// @Tags         appointments
// @Produce      json
// @Param        X-Session-ID  header    string  true   "Session id"
// @Param        date          query     string  false  "YYYY-MM-DD, defaults to today"
// @Param        name          query     string  false  "Patient name filter"
// @Param        condition     query     string  false  "Condition filter"
// @Success      200           {object}  domain.AppointmentBoardView
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Failure      403           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /portal/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	var q appointmentQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	view, err := h.board.Load(c.Request().Context(), session, domain.AppointmentQuery{
		Date:      q.Date,
		Name:      q.Name,
		Condition: q.Condition,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Unmount handles DELETE /portal/appointments/view.
//
// @Summary      Unmount the appointment board
// @Tags         appointments
// @Param        X-Session-ID  header  string  true  "Session id"
// @Success      204
// @Router       /portal/appointments/view [delete]
func (h *AppointmentHandler) Unmount(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	h.board.Unmount(session.ID)
	return c.NoContent(http.StatusNoContent)
}
