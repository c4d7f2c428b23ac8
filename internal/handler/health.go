package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Liveness plus whether the analysis service is wired
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	analysis := "ready"
	if h.dashboards == nil {
		analysis = "unconfigured"
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "analysis": analysis})
}
