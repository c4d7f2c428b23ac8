package handler

import (
	"context"

	"smartmarket/internal/domain"
	"smartmarket/internal/pipeline"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type DashboardService interface {
	Latest(ctx context.Context) (*pipeline.Dashboard, error)
	Refresh(ctx context.Context) (*pipeline.Dashboard, error)
	History(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Persistence(ctx context.Context, days int) ([]domain.PersistenceStat, error)
}

type Handler struct {
	tracer     trace.Tracer
	dashboards DashboardService
	apiKey     string
}

func New(tracer trace.Tracer, dashboards DashboardService, apiKey string) *Handler {
	return &Handler{
		tracer:     tracer,
		dashboards: dashboards,
		apiKey:     apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(h.apiKey))
	api.GET("/dashboard", h.GetDashboard)
	api.POST("/dashboard/refresh", h.RefreshDashboard)
	api.GET("/history", h.GetHistory)
	api.GET("/history/persistence", h.GetPersistence)
}
