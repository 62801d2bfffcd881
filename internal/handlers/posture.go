package handlers

import (
	"net/http"

	"focus_engine/internal/models"

	"github.com/gin-gonic/gin"
)

// ObservationRequest carries one landmark observation. A null face means no face was detected.
type ObservationRequest struct {
	Face *models.LandmarkGroup `json:"face"`
}

// @Summary      Submit a landmark observation
// @Tags         posture
// @Accept       json
// @Produce      json
// @Param        body  body      ObservationRequest  true  "Landmarks"
// @Success      200   {object}  models.PostureStatus
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/posture/observations [post]
// @Security     BearerAuth
func (h *Handler) postObservation(c *gin.Context) {
	var req ObservationRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	c.JSON(http.StatusOK, h.services.Focus.Observe(c.Request.Context(), req.Face))
}

// @Summary      Get posture status
// @Description  Debounced status plus raw metrics and debounce diagnostics.
// @Tags         posture
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/posture/status [get]
// @Security     BearerAuth
func (h *Handler) getPostureStatus(c *gin.Context) {
	snap := h.services.Focus.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":       snap.Posture,
		"metrics":      snap.Metrics,
		"diagnostics":  snap.Diagnostics,
		"session_open": snap.PostureSessionOpen,
	})
}

// @Summary      Get posture report
// @Description  Live report of the open session, or the last frozen one.
// @Tags         posture
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/posture/report [get]
// @Security     BearerAuth
func (h *Handler) getPostureReport(c *gin.Context) {
	report := h.services.Focus.PostureReport()
	c.JSON(http.StatusOK, gin.H{
		"report":     report,
		"good_ratio": report.GoodRatio(),
	})
}
