package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditReader lists recorded gateway invocations of one session.
type AuditReader interface {
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]domain.AuditEntry, error)
}

type AuditHandler struct {
	reader AuditReader
}

func NewAuditHandler(reader AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// List handles GET /portal/audit.
//
// @Summary      Gateway audit trail of a session (admin)
// @Tags         audit
// @Produce      json
// @Param        X-Session-ID  header    string  true   "Session id"
// @Param        session_id    query     string  false  "Audited session, defaults to the caller's"
// @Param        limit         query     int     false  "Max entries (default 50, max 200)"
// @Success      200           {object}  auditResponse
// @Failure      400           {object}  errorResponse
// @Failure      403           {object}  map[string]string
// @Router       /portal/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	target := c.QueryParam("session_id")
	if target == "" {
		target = session.ID
	}

	limit := int64(defaultAuditLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			return domain.NewFailure(domain.ErrInvalidInput, "limit must be a positive integer")
		}
		limit = min(n, maxAuditLimit)
	}

	entries, err := h.reader.ListBySession(c.Request().Context(), target, limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return c.JSON(http.StatusOK, auditResponse{SessionID: target, Entries: entries})
}
