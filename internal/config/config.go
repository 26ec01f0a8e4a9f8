package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Wallet bridge modes.
const (
	WalletModeRPC  = "rpc"
	WalletModeFile = "file"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
	WalletBridge WalletBridgeConfig `yaml:"walletBridge"`
	PriceBridge  PriceBridgeConfig  `yaml:"priceBridge"`
	Dashboard    DashboardConfig    `yaml:"dashboard"`
	AutoRefresh  AutoRefreshConfig  `yaml:"autoRefresh"`
	RateLimit    RateLimitConfig    `yaml:"rateLimit"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// ServerConfig holds the HTTP server configuration. Timeouts are seconds;
// WriteTimeout is zero by default so the SSE stream is not cut off.
type ServerConfig struct {
	Port         string   `yaml:"port" default:"8080" validate:"required"`
	ReadTimeout  int      `yaml:"readTimeout" default:"10" validate:"gte=0"`
	WriteTimeout int      `yaml:"writeTimeout" validate:"gte=0"`
	IdleTimeout  int      `yaml:"idleTimeout" default:"60" validate:"gte=0"`
	AllowOrigins []string `yaml:"allowOrigins"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// WalletBridgeConfig selects and configures the wallet bridge.
type WalletBridgeConfig struct {
	Mode                 string `yaml:"mode" default:"rpc" validate:"oneof=rpc file"`
	RPCURL               string `yaml:"rpcURL" validate:"required_if=Mode rpc"`
	Method               string `yaml:"method" default:"wallet_getAddress" validate:"required"`
	WalletFile           string `yaml:"walletFile" default:"data/wallet.txt" validate:"required_if=Mode file"`
	AddressPrefix        string `yaml:"addressPrefix" default:"secret1"`
	IdleConnMinutes      int    `yaml:"idleConnMinutes" default:"10" validate:"gt=0"`
	DialTimeoutMillis    int64  `yaml:"dialTimeoutMillis" default:"5000" validate:"gt=0"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis" default:"15000" validate:"gt=0"`
}

// PriceBridgeConfig configures the oracle gateway client.
type PriceBridgeConfig struct {
	BaseURL              string `yaml:"baseURL" default:"http://localhost:8787" validate:"required,url"`
	ContractAddress      string `yaml:"contractAddress" default:"secret10n2xl5jmez6r9umtdrth78k0vwmce0l5m9f5dm"`
	CodeHash             string `yaml:"codeHash" default:"32c4710842b97a526c243a68511b15f58d6e72a388af38a7221ff3244c754e91"`
	RateDecimals         int32  `yaml:"rateDecimals" default:"18" validate:"gte=0"`
	DisplayDecimals      int32  `yaml:"displayDecimals" default:"2" validate:"gte=0"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis" default:"10000" validate:"gt=0"`
}

// DashboardConfig holds what the dashboard shows.
type DashboardConfig struct {
	Title              string   `yaml:"title" default:"YoloDash"`
	LogoURL            string   `yaml:"logoURL" default:"https://yolodash.com"`
	HomeImage          string   `yaml:"homeImage" default:"./static/mn-steady.png"`
	StaticDir          string   `yaml:"staticDir" default:"static"`
	PriceSymbol        string   `yaml:"priceSymbol" default:"SHD" validate:"required"`
	TrackedSymbols     []string `yaml:"trackedSymbols" default:"[\"SHD\",\"ETH\",\"BTC\"]" validate:"min=1,dive,required"`
	DiscardStaleWallet *bool    `yaml:"discardStaleWallet"`
}

// AutoRefreshConfig configures periodic price refreshes. An empty schedule
// disables them.
type AutoRefreshConfig struct {
	Schedule string `yaml:"schedule"`
}

// RateLimitConfig limits how often actions may be posted.
type RateLimitConfig struct {
	Disabled         bool    `yaml:"disabled"`
	ActionsPerSecond float64 `yaml:"actionsPerSecond" default:"5" validate:"gt=0"`
	Burst            int     `yaml:"burst" default:"10" validate:"gt=0"`
}

// MetricsConfig holds configuration for the Prometheus endpoint.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path" default:"/metrics"`
}

// StaleWalletGuard reports whether late wallet responses are discarded.
// It defaults to true when unset.
func (c DashboardConfig) StaleWalletGuard() bool {
	return c.DiscardStaleWallet == nil || *c.DiscardStaleWallet
}

// PriceTimeout returns the price bridge request timeout.
func (c PriceBridgeConfig) PriceTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMillis) * time.Millisecond
}

// BridgeTimeout returns the timeout applied to each wallet bridge call.
func (c WalletBridgeConfig) BridgeTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMillis) * time.Millisecond
}

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		logrus.Errorf("Invalid configuration in %s: %v", path, err)
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse decodes YAML configuration data, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if cfg.Server.Port != "" && cfg.Server.Port[0] != ':' {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	if cfg.AutoRefresh.Schedule != "" {
		logrus.Infof("Auto refresh enabled with schedule %q", cfg.AutoRefresh.Schedule)
	}
	if cfg.RateLimit.Disabled {
		logrus.Info("Action rate limiting disabled")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}
