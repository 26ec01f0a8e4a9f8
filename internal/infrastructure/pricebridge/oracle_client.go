package pricebridge

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"yolodash/internal/app/port"
	"yolodash/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var jsonNull = []byte("null")

const defaultOracleTimeout = 10 * time.Second

// OracleClientConfig configures OracleClient.
type OracleClientConfig struct {
	BaseURL         string
	ContractAddress string
	CodeHash        string
	RateDecimals    int32
	DisplayDecimals int32
	Timeout         time.Duration
}

// OracleClient implements port.PriceBridge against the oracle HTTP gateway.
type OracleClient struct {
	client *fasthttp.Client
	cfg    OracleClientConfig
	logger *zap.Logger
}

var _ port.PriceBridge = (*OracleClient)(nil)

// NewOracleClient creates a new OracleClient.
func NewOracleClient(cfg OracleClientConfig, logger *zap.Logger) *OracleClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultOracleTimeout
	}
	return &OracleClient{
		client: &fasthttp.Client{Name: "yolodash"},
		cfg:    cfg,
		logger: logger.Named("OracleClient"),
	}
}

// Price fetches the quote for symbol. A parseable rate is returned as a JSON
// string with DisplayDecimals places. A quote without a usable rate yields
// JSON null. Transport failures and non-200 responses are errors.
func (c *OracleClient) Price(ctx context.Context, symbol string) ([]byte, error) {
	query := c.baseQuery()
	query.Set("key", symbol)

	body, err := c.get(ctx, "/oracle/price", query)
	if err != nil {
		return nil, err
	}

	var quote OraclePrice
	if err := json.Unmarshal(body, &quote); err != nil {
		c.logger.Error("Failed to unmarshal oracle price response",
			zap.String("symbol", symbol),
			zap.ByteString("responseBody", body),
			zap.Error(err))
		return jsonNull, nil
	}

	formatted, err := utils.FormatScaledRate(quote.Rate, c.cfg.RateDecimals, c.cfg.DisplayDecimals)
	if err != nil {
		c.logger.Error("Oracle returned unusable rate",
			zap.String("symbol", symbol),
			zap.String("rate", quote.Rate),
			zap.Error(err))
		return jsonNull, nil
	}
	c.logger.Debug("Formatted oracle price", zap.String("symbol", symbol), zap.String("price", formatted))
	return json.Marshal(formatted)
}

// BatchPrices fetches quotes for symbols in one request. Entries with a
// parseable rate are replaced by formatted JSON strings; other entries pass
// through unchanged. A body that is not a JSON object is returned as is.
func (c *OracleClient) BatchPrices(ctx context.Context, symbols []string) ([]byte, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols cannot be empty")
	}
	query := c.baseQuery()
	query.Set("keys", strings.Join(symbols, ","))

	body, err := c.get(ctx, "/oracle/prices", query)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		c.logger.Warn("Oracle batch response is not an object", zap.ByteString("responseBody", body))
		return body, nil
	}

	var batch OracleBatch
	if err := json.Unmarshal(trimmed, &batch); err != nil {
		c.logger.Warn("Failed to unmarshal oracle batch response", zap.ByteString("responseBody", body), zap.Error(err))
		return body, nil
	}

	out := make(map[string]jsoniter.RawMessage, len(batch))
	for symbol, entry := range batch {
		out[symbol] = c.formatEntry(symbol, entry)
	}
	return json.Marshal(out)
}

func (c *OracleClient) formatEntry(symbol string, entry jsoniter.RawMessage) jsoniter.RawMessage {
	trimmed := bytes.TrimSpace(entry)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return entry
	}
	var quote OraclePrice
	if err := json.Unmarshal(trimmed, &quote); err != nil || quote.Rate == "" {
		return entry
	}
	formatted, err := utils.FormatScaledRate(quote.Rate, c.cfg.RateDecimals, c.cfg.DisplayDecimals)
	if err != nil {
		c.logger.Warn("Oracle batch entry has unusable rate", zap.String("symbol", symbol), zap.String("rate", quote.Rate), zap.Error(err))
		return entry
	}
	encoded, err := json.Marshal(formatted)
	if err != nil {
		return entry
	}
	return encoded
}

func (c *OracleClient) baseQuery() url.Values {
	query := url.Values{}
	if c.cfg.ContractAddress != "" {
		query.Set("contract", c.cfg.ContractAddress)
	}
	if c.cfg.CodeHash != "" {
		query.Set("codeHash", c.cfg.CodeHash)
	}
	return query
}

func (c *OracleClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	requestURL := c.cfg.BaseURL + path + "?" + query.Encode()
	c.logger.Debug("Requesting oracle gateway", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > c.cfg.Timeout {
		deadline = time.Now().Add(c.cfg.Timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Error("Failed to execute request to oracle gateway", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The body is owned by resp, which is released on return.
	body := append([]byte(nil), resp.Body()...)

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Oracle gateway request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", body))
		return nil, fmt.Errorf("oracle gateway request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(body))
	}
	return body, nil
}
