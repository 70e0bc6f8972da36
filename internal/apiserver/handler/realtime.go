package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RealtimeStats handles GET /api/realtime/stats
func (h *Handler) RealtimeStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connections": h.realtime.ConnectionCount(),
	})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
