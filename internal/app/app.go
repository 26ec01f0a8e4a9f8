// Package app assembles the dashboard from configuration.
package app

import (
	"fmt"
	"time"

	"yolodash/internal/app/port"
	"yolodash/internal/app/service"
	"yolodash/internal/app/state"
	"yolodash/internal/app/view"
	"yolodash/internal/config"
	"yolodash/internal/infrastructure/pricebridge"
	"yolodash/internal/infrastructure/walletbridge"
	"yolodash/internal/pkg/logger"

	"go.uber.org/zap"
)

// App is a wired dashboard ready to be served.
type App struct {
	Dashboard   *service.DashboardService
	ViewOptions view.Options

	closers []func()
}

// New builds the bridges and the dashboard service described by cfg.
func New(cfg *config.Config, zapLogger *zap.Logger) (*App, error) {
	appLogger := logger.NewSlogAdapter()

	wallet, closeWallet, err := newWalletBridge(cfg.WalletBridge, zapLogger, appLogger)
	if err != nil {
		return nil, err
	}

	prices := pricebridge.NewOracleClient(pricebridge.OracleClientConfig{
		BaseURL:         cfg.PriceBridge.BaseURL,
		ContractAddress: cfg.PriceBridge.ContractAddress,
		CodeHash:        cfg.PriceBridge.CodeHash,
		RateDecimals:    cfg.PriceBridge.RateDecimals,
		DisplayDecimals: cfg.PriceBridge.DisplayDecimals,
		Timeout:         cfg.PriceBridge.PriceTimeout(),
	}, zapLogger)

	// The service deadline must cover the slower of the two bridges.
	bridgeTimeout := cfg.WalletBridge.BridgeTimeout()
	if t := cfg.PriceBridge.PriceTimeout(); t > bridgeTimeout {
		bridgeTimeout = t
	}

	store := state.NewStore(cfg.Dashboard.PriceSymbol)
	svc := service.NewDashboardService(store, wallet, prices, appLogger, service.DashboardServiceConfig{
		PriceSymbol:        cfg.Dashboard.PriceSymbol,
		TrackedSymbols:     cfg.Dashboard.TrackedSymbols,
		BridgeTimeout:      bridgeTimeout,
		DiscardStaleWallet: cfg.Dashboard.StaleWalletGuard(),
	})

	a := &App{
		Dashboard: svc,
		ViewOptions: view.Options{
			Title:          cfg.Dashboard.Title,
			LogoURL:        cfg.Dashboard.LogoURL,
			HomeImage:      cfg.Dashboard.HomeImage,
			PriceSymbol:    svc.PriceSymbol(),
			TrackedSymbols: svc.TrackedSymbols(),
		},
	}
	// Fetches must stop before the bridges they use are closed.
	a.closers = append(a.closers, svc.Close)
	if closeWallet != nil {
		a.closers = append(a.closers, closeWallet)
	}
	return a, nil
}

// Close stops in-flight fetches and releases bridge resources.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}

func newWalletBridge(cfg config.WalletBridgeConfig, zapLogger *zap.Logger, appLogger port.Logger) (port.WalletBridge, func(), error) {
	switch cfg.Mode {
	case config.WalletModeRPC:
		bridge := walletbridge.NewRPCBridge(
			cfg.RPCURL,
			cfg.Method,
			time.Duration(cfg.DialTimeoutMillis)*time.Millisecond,
			time.Duration(cfg.IdleConnMinutes)*time.Minute,
			zapLogger,
		)
		zapLogger.Info("Wallet bridge initialized", zap.String("mode", cfg.Mode), zap.String("url", cfg.RPCURL))
		return bridge, bridge.Close, nil
	case config.WalletModeFile:
		zapLogger.Info("Wallet bridge initialized", zap.String("mode", cfg.Mode), zap.String("file", cfg.WalletFile))
		return walletbridge.NewFileBridge(cfg.WalletFile, cfg.AddressPrefix, appLogger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown wallet bridge mode %q", cfg.Mode)
	}
}
