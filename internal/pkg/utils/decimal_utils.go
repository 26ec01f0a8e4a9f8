package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatScaledRate converts an integer rate carrying rateDecimals implied
// decimals into a fixed-point string with displayDecimals places.
// Example: rate="12345000000000000000", rateDecimals=18, displayDecimals=2 => "12.35"
func FormatScaledRate(rate string, rateDecimals int32, displayDecimals int32) (string, error) {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return "", fmt.Errorf("rate is empty")
	}
	if rateDecimals < 0 || displayDecimals < 0 {
		return "", fmt.Errorf("negative decimals: rate=%d display=%d", rateDecimals, displayDecimals)
	}

	value, err := decimal.NewFromString(rate)
	if err != nil {
		return "", fmt.Errorf("failed to parse rate %q: %w", rate, err)
	}
	return value.Shift(-rateDecimals).StringFixed(displayDecimals), nil
}
