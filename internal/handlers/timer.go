package handlers

import (
	"errors"
	"net/http"

	"focus_engine/internal/models"
	"focus_engine/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusStarted = "started"
	statusPaused  = "paused"
	statusToggled = "toggled"
	statusStopped = "stopped"
	statusModeSet = "mode_set"
	statusSynced  = "synced"

	errStopTimer       = "failed to record session"
	errForeground      = "failed to reconcile timer"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and the timer state the operation produced.
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, state models.TimerState, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	resp["state"] = state
	c.JSON(http.StatusOK, resp)
}

// StartRequest is the optional payload of the start endpoint.
type StartRequest struct {
	Category models.Category `json:"category"`
}

// SetModeRequest selects the timer mode.
type SetModeRequest struct {
	// Mode to set. Allowed: pomodoro, countdown, stopwatch
	Mode models.TimerMode `json:"mode" binding:"required" example:"pomodoro"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Start or resume the timer
// @Description  A fresh start records the category; resuming keeps the original one.
// @Tags         timer
// @Accept       json
// @Produce      json
// @Param        body  body      StartRequest  false  "Category"
// @Success      200   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/timer/start [post]
// @Security     BearerAuth
func (h *Handler) startTimer(c *gin.Context) {
	var req StartRequest
	if c.Request.ContentLength > 0 {
		if ok := h.bindJSONOrBadRequest(c, &req); !ok {
			return
		}
	}
	state := h.services.Focus.Start(c.Request.Context(), req.Category)
	h.respondWithStatusAndState(c, statusStarted, state, gin.H{})
}

// @Summary      Pause the timer
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/timer/pause [post]
// @Security     BearerAuth
func (h *Handler) pauseTimer(c *gin.Context) {
	state := h.services.Focus.Pause(c.Request.Context())
	h.respondWithStatusAndState(c, statusPaused, state, gin.H{})
}

// @Summary      Toggle the timer
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/timer/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleTimer(c *gin.Context) {
	state := h.services.Focus.Toggle(c.Request.Context())
	h.respondWithStatusAndState(c, statusToggled, state, gin.H{})
}

// @Summary      Stop the timer
// @Description  Abandons the open session. session is null when nothing was recorded.
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session, state"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/stop [post]
// @Security     BearerAuth
func (h *Handler) stopTimer(c *gin.Context) {
	session, err := h.services.Focus.Stop(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errStopTimer, "timer_stop_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStopped, h.services.Focus.Snapshot().Timer, gin.H{"session": session})
}

// @Summary      Set mode
// @Description  Ignored while the timer is running.
// @Tags         timer
// @Accept       json
// @Produce      json
// @Param        body  body      SetModeRequest  true  "Mode payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/timer/mode [post]
// @Security     BearerAuth
func (h *Handler) setMode(c *gin.Context) {
	var req SetModeRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	state, err := h.services.Focus.SetMode(c.Request.Context(), req.Mode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to set mode", "timer_set_mode_failed", err, "mode", req.Mode)
		return
	}
	h.respondWithStatusAndState(c, statusModeSet, state, gin.H{"mode": req.Mode})
}

// @Summary      Foreground resume
// @Description  Reconciles the countdown with the wall clock and applies any pending companion command.
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/foreground [post]
// @Security     BearerAuth
func (h *Handler) foreground(c *gin.Context) {
	state, err := h.services.Host.Foreground(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errForeground, "timer_foreground_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusSynced, state, gin.H{})
}

// @Summary      Get timer state
// @Tags         timer
// @Produce      json
// @Success      200  {object}  models.TimerState
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/timer/state [get]
// @Security     BearerAuth
func (h *Handler) getTimerState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Focus.Snapshot().Timer)
}
