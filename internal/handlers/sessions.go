package handlers

import (
	"errors"
	"net/http"

	"focus_engine/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      List focus sessions
// @Description  Filter by start time (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD').
// @Tags         sessions
// @Produce      json
// @Param        from  query     string  false  "Start of range"  example(2025-08-01)
// @Param        to    query     string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Success      200   {object}  map[string]interface{}  "count, sessions"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/sessions [get]
// @Security     BearerAuth
func (h *Handler) listSessions(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	sessions, err := h.services.Sessions.List(c.Request.Context(), service.SessionFilter{From: from, To: to})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load sessions", "sessions_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

// @Summary      Get focus session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  models.FocusSession
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sessions/{id} [get]
// @Security     BearerAuth
func (h *Handler) getSession(c *gin.Context) {
	id := c.Param("id")
	session, err := h.services.Sessions.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load session", "sessions_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, session)
}
