package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// pairedDeviceKey holds the id of the companion device that signed the request.
const pairedDeviceKey = "pairedDevice"

// requirePairedDevice admits requests carrying a token issued by /auth/token
// and stores the device id on the context.
func (h *Handler) requirePairedDevice(c *gin.Context) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	switch {
	case scheme == "":
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "device token required"})
		return
	case !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "":
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "expected a Bearer device token"})
		return
	}

	device, err := h.services.Authorization.ParseToken(strings.TrimSpace(token))
	if err != nil {
		if h.log != nil {
			h.log.Debugw("device_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "device not paired or token expired"})
		return
	}

	c.Set(pairedDeviceKey, device)
	c.Next()
}

// pairedDevice returns the device id set by requirePairedDevice, or 0.
func pairedDevice(c *gin.Context) int {
	return c.GetInt(pairedDeviceKey)
}
