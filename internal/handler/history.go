package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetHistory godoc
// @Summary      Analysis history
// @Description  Returns recorded per-asset analysis rows, most recent first
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Max rows (default 30, max 500)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	if h.dashboards == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("limit", limit))

	records, err := h.dashboards.History(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// GetPersistence godoc
// @Summary      Sentiment persistence
// @Description  Share of consecutive recorded days on which an asset's sentiment kept its sign. This is not a measure of predictive accuracy.
// @Tags         history
// @Produce      json
// @Param        days  query  int  false  "Window in days (0 = all history)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/history/persistence [get]
func (h *Handler) GetPersistence(c *gin.Context) {
	if h.dashboards == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-persistence")
	defer span.End()

	days, ok := intQuery(c, "days", 0)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("days", days))

	stats, err := h.dashboards.Persistence(ctx, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"metric": "sentiment_persistence",
		"note":   "day-over-day sentiment sign agreement; does not validate trading outcomes",
		"days":   days,
		"stats":  stats,
	})
}

// intQuery parses a non-negative integer query parameter, writing a 400 on
// failure.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return 0, false
	}
	return n, true
}
