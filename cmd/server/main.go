package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "smartmarket/docs"
	"smartmarket/internal/app"
	"smartmarket/internal/bot"
	"smartmarket/internal/config"
	"smartmarket/internal/handler"
	"smartmarket/internal/job"
	"smartmarket/internal/logger"
	"smartmarket/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initLoggerFunc         = logger.Init
	initTracerFunc         = tracing.InitTracer
	buildAppFunc           = app.Build
	startJobFunc           = func(j *job.RefreshJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           SmartMarket API
// @version         1.0
// @description     News sentiment trends and heuristic recommendations for gold, silver and bitcoin.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	if _, err := initLoggerFunc(); err != nil {
		log.Printf("logger init failed, using defaults: %v", err)
	}
	defer logger.Sync()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, "smartmarket-server")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(context.Background(), "tracer provider shutdown", err)
		}
	}()

	a, err := buildAppFunc(ctx, cfg, tracer)
	if err != nil {
		log.Fatalf("failed to build analysis stack: %v", err)
	}
	defer a.Close()

	// Scheduled refresh (stopped by ctx cancel)
	var cleaner job.Cleaner
	if a.Cleaner != nil {
		cleaner = a.Cleaner
	}
	startJobFunc(job.NewRefreshJob(tracer, a.Dashboards, cleaner, cfg.RefreshInterval), ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, a.Dashboards)

	h := handler.New(tracer, a.Dashboards, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("smartmarket"))
	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	logger.Info(ctx, "server listening", zap.String("addr", cfg.HTTPAddr))

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	logger.Info(ctx, "shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info(context.Background(), "server exiting")
}
