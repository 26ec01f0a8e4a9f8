package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"yolodash/internal/app"
	"yolodash/internal/config"
	"yolodash/internal/pkg/logger"
	"yolodash/internal/pkg/utils"
	"yolodash/internal/tui"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func main() {
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Stdout belongs to the terminal UI, so logs only go to a file.
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = utils.GetEnv("YOLODASH_TUI_LOG", "yolodash-tui.log")
	}
	zapLogger, err := newFileLogger(cfg.Logging.Level, logFile)
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync() // flushes buffer, if any
	logger.InitFromZap(zapLogger)

	dash, err := app.New(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize dashboard", zap.Error(err))
	}
	defer dash.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx, dash.Dashboard, dash.ViewOptions); err != nil {
		fmt.Fprintln(os.Stderr, err)
		zapLogger.Error("Terminal dashboard failed", zap.Error(err))
	}
}

func newFileLogger(level, file string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(logger.ParseLevel(level))
	cfg.OutputPaths = []string{file}
	cfg.ErrorOutputPaths = []string{file}
	return cfg.Build()
}
