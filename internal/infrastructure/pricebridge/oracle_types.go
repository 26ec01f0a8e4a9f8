package pricebridge

import jsoniter "github.com/json-iterator/go"

// OraclePrice is a single oracle quote as returned by the gateway.
// Rate is an integer string carrying RateDecimals implied decimals.
type OraclePrice struct {
	OracleKey        string `json:"oracleKey"`
	Rate             string `json:"rate"`
	LastUpdatedBase  int64  `json:"lastUpdatedBase"`
	LastUpdatedQuote int64  `json:"lastUpdatedQuote"`
}

// OracleBatch is the batch response: oracle key to quote. Values are kept raw
// because individual entries may be malformed.
type OracleBatch map[string]jsoniter.RawMessage
