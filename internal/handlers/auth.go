package handlers

import (
	"errors"
	"net/http"

	"focus_engine/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterDeviceRequest pairs a companion surface with the host.
type RegisterDeviceRequest struct {
	Name        string `json:"name" binding:"required" example:"lock-screen"`
	Secret      string `json:"secret" binding:"required" example:"s3cret"`
	PairingCode string `json:"pairing_code" binding:"required" example:"000000"`
}

// TokenRequest exchanges device credentials for a bearer token.
type TokenRequest struct {
	Name   string `json:"name" binding:"required" example:"lock-screen"`
	Secret string `json:"secret" binding:"required" example:"s3cret"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Register companion device
// @Description  Requires the pairing code shown by the host.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterDeviceRequest  true  "Device credentials"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/devices [post]
func (h *Handler) registerDevice(c *gin.Context) {
	var input RegisterDeviceRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.Authorization.RegisterDevice(c.Request.Context(), input.Name, input.Secret, input.PairingCode)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_register_device_failed", "name", input.Name, "err", err)
		}
		code := http.StatusBadRequest
		if errors.Is(err, service.ErrInvalidPairingCode) {
			code = http.StatusForbidden
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Issue bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      TokenRequest  true  "Device credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/token [post]
func (h *Handler) issueToken(c *gin.Context) {
	var input TokenRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Authorization.GenerateToken(c.Request.Context(), input.Name, input.Secret)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_issue_token_failed", "name", input.Name, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
