package handler

import (
	"net/http"
	"strings"

	"smartmarket/internal/pipeline"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetDashboard godoc
// @Summary      Sentiment dashboard
// @Description  Returns the latest analysis run in one of three views. All views are built from the same result set.
// @Tags         dashboard
// @Produce      json
// @Param        view  query  string  false  "summary, full or comparison"  default(summary)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	if h.dashboards == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-dashboard")
	defer span.End()

	view := strings.ToLower(strings.TrimSpace(c.DefaultQuery("view", "summary")))
	span.SetAttributes(attribute.String("view", view))
	if !validView(view) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "unsupported view: " + view,
			"supported_views": []string{"summary", "full", "comparison"},
		})
		return
	}

	d, err := h.dashboards.Latest(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboardBody(d, view))
}

// RefreshDashboard godoc
// @Summary      Run the analysis now
// @Description  Fetches feeds, rescores every asset and records history, then returns the summary view
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/dashboard/refresh [post]
func (h *Handler) RefreshDashboard(c *gin.Context) {
	if h.dashboards == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-dashboard")
	defer span.End()

	d, err := h.dashboards.Refresh(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	body := dashboardBody(d, "summary")
	body["status"] = "ok"
	c.JSON(http.StatusOK, body)
}

func validView(view string) bool {
	switch view {
	case "summary", "full", "comparison":
		return true
	}
	return false
}

func dashboardBody(d *pipeline.Dashboard, view string) gin.H {
	body := gin.H{
		"view":          view,
		"generated_at":  d.GeneratedAt,
		"articles_seen": d.ArticlesSeen,
		"warnings":      d.Warnings,
	}
	switch view {
	case "full":
		body["assets"] = d.Full()
	case "comparison":
		body["comparison"] = d.Comparison()
	default:
		body["assets"] = d.Summary()
	}
	return body
}
