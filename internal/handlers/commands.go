package handlers

import (
	"errors"
	"net/http"

	"focus_engine/internal/models"
	"focus_engine/internal/service"

	"github.com/gin-gonic/gin"
)

// CommandRequest is written into the shared slot by a companion surface.
type CommandRequest struct {
	// Allowed: toggle, stop
	Kind models.CommandKind `json:"kind" binding:"required" example:"toggle"`
}

// @Summary      Submit companion command
// @Description  Overwrites the shared slot; the host applies it on its next poll.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body      CommandRequest  true  "Command"
// @Success      202   {object}  models.Command
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/commands [post]
// @Security     BearerAuth
func (h *Handler) submitCommand(c *gin.Context) {
	var req CommandRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	cmd, err := h.services.Relay.Submit(c.Request.Context(), req.Kind)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCommand) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to write command", "command_submit_failed", err, "kind", req.Kind)
		return
	}
	if h.log != nil {
		h.log.Infow("command_submitted", "kind", cmd.Kind, "device", pairedDevice(c))
	}
	c.JSON(http.StatusAccepted, cmd)
}

// @Summary      Read the command slot
// @Tags         commands
// @Produce      json
// @Success      200  {object}  models.CommandSlot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/commands [get]
// @Security     BearerAuth
func (h *Handler) getCommandSlot(c *gin.Context) {
	slot, err := h.services.Relay.Slot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load command slot", "command_slot_failed", err)
		return
	}
	c.JSON(http.StatusOK, slot)
}
