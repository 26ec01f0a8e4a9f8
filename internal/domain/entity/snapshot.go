package entity

import "fmt"

// Sentinel display strings.
const (
	WalletNotConnected   = "Not connected"
	WalletLoadFailed     = "Failed to load wallet address"
	PriceUnavailable     = "Price data unavailable"
	BatchEntryFailed     = "Error fetching price"
	BatchEntryLoading    = "Loading..."
	WalletAddressCaption = "SCRT Address: "
)

// DefaultPriceSymbol is the asset shown in the single price display.
const DefaultPriceSymbol = "SHD"

// DefaultTrackedSymbols are the rows of the batch price table.
var DefaultTrackedSymbols = []string{"SHD", "ETH", "BTC"}

// LoadingPriceText is the initial single price display for symbol.
func LoadingPriceText(symbol string) string {
	return fmt.Sprintf("Loading %s price...", symbol)
}

// PriceFetchFailedText is shown when the single price bridge call fails.
func PriceFetchFailedText(symbol string) string {
	return fmt.Sprintf("Error fetching %s price", symbol)
}

// FormatSinglePrice renders a fetched price for the single price display.
func FormatSinglePrice(symbol, value string) string {
	return fmt.Sprintf("%s = $%s", symbol, value)
}

// FormatBatchPrice renders a fetched price for one batch table row.
func FormatBatchPrice(value string) string {
	return "$" + value
}

// Snapshot is an immutable copy of the dashboard state.
type Snapshot struct {
	Version         uint64            `json:"version"`
	Connected       bool              `json:"connected"`
	WalletAddress   string            `json:"walletAddress"`
	SinglePrice     string            `json:"singlePrice"`
	BatchPrices     map[string]string `json:"batchPrices"`
	SelectedSection Section           `json:"selectedSection"`
}

// BatchPrice returns the display string for symbol, or the loading
// placeholder when the symbol has not been fetched.
func (s Snapshot) BatchPrice(symbol string) string {
	if v, ok := s.BatchPrices[symbol]; ok {
		return v
	}
	return BatchEntryLoading
}
