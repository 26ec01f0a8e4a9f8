package walletbridge

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"time"

	"yolodash/internal/app/port"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultDialTimeout = 5 * time.Second

// RPCBridge implements port.WalletBridge by calling a JSON-RPC method on the
// wallet endpoint. Dialled clients are pooled per URL and closed once they
// have been idle for the configured period.
type RPCBridge struct {
	url         string
	method      string
	dialTimeout time.Duration
	clients     *cache.Cache
	logger      *zap.Logger
}

var _ port.WalletBridge = (*RPCBridge)(nil)

// NewRPCBridge creates a new RPCBridge.
func NewRPCBridge(url, method string, dialTimeout, idleTTL time.Duration, logger *zap.Logger) *RPCBridge {
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	named := logger.Named("RPCWalletBridge")

	clients := cache.New(idleTTL, idleTTL/2+time.Second)
	clients.OnEvicted(func(key string, v interface{}) {
		if c, ok := v.(*rpc.Client); ok {
			named.Debug("Closing idle RPC client", zap.String("url", key))
			c.Close()
		}
	})

	return &RPCBridge{
		url:         url,
		method:      method,
		dialTimeout: dialTimeout,
		clients:     clients,
		logger:      named,
	}
}

// WalletAddress calls the configured method and returns its raw result.
func (b *RPCBridge) WalletAddress(ctx context.Context) ([]byte, error) {
	client, err := b.client(ctx)
	if err != nil {
		return nil, err
	}

	var result stdjson.RawMessage
	if err := client.CallContext(ctx, &result, b.method); err != nil {
		b.logger.Error("Wallet RPC call failed", zap.String("url", b.url), zap.String("method", b.method), zap.Error(err))
		// A broken connection should not be reused.
		b.clients.Delete(b.url)
		return nil, fmt.Errorf("wallet RPC %s on %s failed: %w", b.method, b.url, err)
	}
	b.logger.Debug("Wallet RPC call succeeded", zap.String("method", b.method), zap.ByteString("result", result))
	return result, nil
}

// Close closes every pooled client.
func (b *RPCBridge) Close() {
	for key := range b.clients.Items() {
		b.clients.Delete(key)
	}
}

func (b *RPCBridge) client(ctx context.Context) (*rpc.Client, error) {
	if v, ok := b.clients.Get(b.url); ok {
		// Touch the entry so an active client does not idle out.
		b.clients.SetDefault(b.url, v)
		return v.(*rpc.Client), nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, b.dialTimeout)
	defer cancel()

	b.logger.Info("Dialling wallet RPC endpoint", zap.String("url", b.url))
	client, err := rpc.DialContext(dialCtx, b.url)
	if err != nil {
		b.logger.Error("Failed to dial wallet RPC endpoint", zap.String("url", b.url), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to wallet RPC %s: %w", b.url, err)
	}
	if err := b.clients.Add(b.url, client, cache.DefaultExpiration); err != nil {
		// Another caller dialled concurrently; keep theirs.
		client.Close()
		if v, ok := b.clients.Get(b.url); ok {
			return v.(*rpc.Client), nil
		}
		return nil, fmt.Errorf("wallet RPC client for %s was evicted while dialling", b.url)
	}
	return client, nil
}
