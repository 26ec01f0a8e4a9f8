package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yolodash/internal/app"
	"yolodash/internal/config"
	"yolodash/internal/infrastructure/restapi"
	"yolodash/internal/infrastructure/scheduler"
	"yolodash/internal/pkg/logger"
	"yolodash/internal/pkg/metrics"
	"yolodash/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync() // flushes buffer, if any
	logger.InitFromZap(zapLogger)
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if !cfg.Metrics.Disabled {
		metrics.MustRegisterMetrics()
	}

	dash, err := app.New(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize dashboard", zap.Error(err))
	}
	defer dash.Close()

	routerOpts := restapi.RouterOptions{
		AllowOrigins: cfg.Server.AllowOrigins,
		StaticDir:    cfg.Dashboard.StaticDir,
	}
	if !cfg.Metrics.Disabled {
		routerOpts.MetricsPath = cfg.Metrics.Path
		zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", cfg.Metrics.Path))
	}
	if !cfg.RateLimit.Disabled {
		routerOpts.ActionLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.ActionsPerSecond), cfg.RateLimit.Burst)
	}
	if _, err := os.Stat(cfg.Dashboard.StaticDir); err != nil {
		zapLogger.Warn("Static directory unavailable, not serving /static", zap.String("dir", cfg.Dashboard.StaticDir), zap.Error(err))
		routerOpts.StaticDir = ""
	}

	handler := restapi.NewDashboardHandler(dash.Dashboard, dash.ViewOptions, zapLogger)
	router := restapi.SetupRouter(handler, routerOpts, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.AutoRefresh.Schedule != "" {
		refresher, err := scheduler.NewRefresher(cfg.AutoRefresh.Schedule, dash.Dashboard, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to initialize auto-refresh", zap.Error(err))
		}
		refresher.Start()
		refresher.RunNow()
		g.Go(func() error {
			<-gctx.Done()
			refresher.Stop()
			return nil
		})
	}

	g.Go(func() error {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("Shutting down server...")
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		// Open event streams only end when their clients go away.
		if err := srv.Shutdown(ctxShutdown); err != nil {
			zapLogger.Warn("Server forced to shutdown", zap.Error(err))
			return srv.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		zapLogger.Error("Server stopped with error", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
