package port

import "context"

// WalletBridge looks up the address of the connected wallet.
// The returned bytes are a raw JSON value; an empty slice or JSON null is the
// undefined-equivalent. An error means the bridge call was rejected.
type WalletBridge interface {
	WalletAddress(ctx context.Context) ([]byte, error)
}

// PriceBridge fetches prices from an external oracle.
// Like WalletBridge, results are raw JSON values decoded by the caller.
type PriceBridge interface {
	// Price fetches a single asset price. A JSON string is expected.
	Price(ctx context.Context, symbol string) ([]byte, error)
	// BatchPrices fetches several prices at once. A JSON object mapping
	// symbol to value is expected.
	BatchPrices(ctx context.Context, symbols []string) ([]byte, error)
}
