package service

import (
	"context"
	"sync"
	"time"

	"yolodash/internal/app/port"
	"yolodash/internal/app/state"
	"yolodash/internal/domain/entity"
	"yolodash/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

const (
	bridgeWallet = "wallet"
	bridgePrice  = "price"
	bridgeBatch  = "batch"

	defaultBridgeTimeout = 15 * time.Second
)

// DashboardServiceConfig holds the tunables of DashboardService.
type DashboardServiceConfig struct {
	// PriceSymbol is the asset of the single price display.
	PriceSymbol string
	// TrackedSymbols are requested from the batch price bridge.
	TrackedSymbols []string
	// BridgeTimeout bounds every bridge call.
	BridgeTimeout time.Duration
	// DiscardStaleWallet drops wallet responses that arrive after a
	// connect/disconnect newer than the one that requested them.
	DiscardStaleWallet bool
}

// DashboardService implements port.Dashboard on top of a state.Store and the
// wallet and price bridges.
type DashboardService struct {
	store   *state.Store
	wallet  port.WalletBridge
	prices  port.PriceBridge
	logger  port.Logger
	cfg     DashboardServiceConfig
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// walletMu serializes generation checks with wallet address writes.
	walletMu  sync.Mutex
	walletGen uint64
}

var _ port.Dashboard = (*DashboardService)(nil)

// NewDashboardService creates a DashboardService. Fetches started by the
// returned service are cancelled by Close.
func NewDashboardService(
	store *state.Store,
	wallet port.WalletBridge,
	prices port.PriceBridge,
	logger port.Logger,
	cfg DashboardServiceConfig,
) *DashboardService {
	if cfg.PriceSymbol == "" {
		cfg.PriceSymbol = entity.DefaultPriceSymbol
	}
	if len(cfg.TrackedSymbols) == 0 {
		cfg.TrackedSymbols = entity.DefaultTrackedSymbols
	}
	if cfg.BridgeTimeout <= 0 {
		cfg.BridgeTimeout = defaultBridgeTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &DashboardService{
		store:   store,
		wallet:  wallet,
		prices:  prices,
		logger:  logger.With("component", "DashboardService"),
		cfg:     cfg,
		baseCtx: ctx,
		cancel:  cancel,
	}
	s.logger.Info("DashboardService initialized",
		"priceSymbol", cfg.PriceSymbol,
		"trackedSymbols", cfg.TrackedSymbols,
		"discardStaleWallet", cfg.DiscardStaleWallet)
	return s
}

// Snapshot implements port.Dashboard.
func (s *DashboardService) Snapshot() entity.Snapshot {
	return s.store.Snapshot()
}

// Subscribe implements port.Dashboard.
func (s *DashboardService) Subscribe() (<-chan entity.Snapshot, func()) {
	return s.store.Subscribe()
}

// TrackedSymbols returns the symbols shown in the batch price table.
func (s *DashboardService) TrackedSymbols() []string {
	return append([]string(nil), s.cfg.TrackedSymbols...)
}

// PriceSymbol returns the asset of the single price display.
func (s *DashboardService) PriceSymbol() string {
	return s.cfg.PriceSymbol
}

// Connect marks the dashboard connected and starts the wallet address fetch.
// The connection flag is set before Connect returns, regardless of how the
// fetch turns out.
func (s *DashboardService) Connect() {
	metrics.Actions.WithLabelValues("connect").Inc()

	s.walletMu.Lock()
	s.walletGen++
	gen := s.walletGen
	s.store.SetConnected(true)
	s.walletMu.Unlock()
	metrics.SetConnected(true)

	s.spawn(func(ctx context.Context) {
		s.fetchWalletAddress(ctx, gen)
	})
}

// Disconnect marks the dashboard disconnected and resets the wallet address.
// An in-flight wallet fetch is not cancelled.
func (s *DashboardService) Disconnect() {
	metrics.Actions.WithLabelValues("disconnect").Inc()

	s.walletMu.Lock()
	s.walletGen++
	s.store.SetConnected(false)
	s.store.SetWalletAddress(entity.WalletNotConnected)
	s.walletMu.Unlock()
	metrics.SetConnected(false)

	s.logger.Info("Wallet disconnected")
}

// SelectSection switches the rendered body branch.
func (s *DashboardService) SelectSection(section entity.Section) error {
	if err := s.store.SetSelectedSection(section); err != nil {
		s.logger.Warn("Rejected section selection", "section", string(section), "error", err)
		return err
	}
	metrics.Actions.WithLabelValues("select_section").Inc()
	return nil
}

// RefreshPrice starts a single price fetch.
func (s *DashboardService) RefreshPrice() {
	metrics.Actions.WithLabelValues("refresh_price").Inc()
	s.spawn(func(ctx context.Context) {
		s.FetchPrice(ctx)
	})
}

// RefreshBatchPrices starts a batch price fetch.
func (s *DashboardService) RefreshBatchPrices() {
	metrics.Actions.WithLabelValues("refresh_batch").Inc()
	s.spawn(func(ctx context.Context) {
		s.FetchBatchPrices(ctx)
	})
}

// RefreshAll starts the single and batch price fetches together.
func (s *DashboardService) RefreshAll() {
	metrics.Actions.WithLabelValues("refresh_all").Inc()
	s.spawn(func(ctx context.Context) {
		var g errgroup.Group
		g.Go(func() error {
			s.FetchPrice(ctx)
			return nil
		})
		g.Go(func() error {
			s.FetchBatchPrices(ctx)
			return nil
		})
		_ = g.Wait()
	})
}

// FetchWalletAddress calls the wallet bridge and applies the result under the
// current wallet generation. It blocks until the bridge call resolves.
func (s *DashboardService) FetchWalletAddress(ctx context.Context) {
	s.walletMu.Lock()
	gen := s.walletGen
	s.walletMu.Unlock()
	s.fetchWalletAddress(ctx, gen)
}

func (s *DashboardService) fetchWalletAddress(ctx context.Context, gen uint64) {
	s.logger.Debug("Calling wallet bridge")
	raw, err := s.call(ctx, bridgeWallet, s.wallet.WalletAddress)
	outcome := DecodeString(raw, err)
	metrics.BridgeCalls.WithLabelValues(bridgeWallet, outcome.Kind.String()).Inc()

	address := entity.WalletLoadFailed
	if outcome.Kind == entity.OutcomeValue {
		address = outcome.Value
		s.logger.Info("Wallet address loaded", "address", address)
	} else {
		s.logger.Warn("Failed to load wallet address", "outcome", outcome.Kind.String(), "error", outcome.Err)
	}

	s.walletMu.Lock()
	defer s.walletMu.Unlock()
	if s.cfg.DiscardStaleWallet && gen != s.walletGen {
		metrics.StaleWalletResults.Inc()
		s.logger.Info("Discarding stale wallet response", "requestedGeneration", gen, "currentGeneration", s.walletGen)
		return
	}
	s.store.SetWalletAddress(address)
}

// FetchPrice calls the price bridge for the single price display and applies
// the result. It blocks until the bridge call resolves.
func (s *DashboardService) FetchPrice(ctx context.Context) {
	symbol := s.cfg.PriceSymbol
	raw, err := s.call(ctx, bridgePrice, func(ctx context.Context) ([]byte, error) {
		return s.prices.Price(ctx, symbol)
	})
	outcome := DecodeString(raw, err)
	metrics.BridgeCalls.WithLabelValues(bridgePrice, outcome.Kind.String()).Inc()

	switch outcome.Kind {
	case entity.OutcomeValue:
		s.store.SetSinglePrice(entity.FormatSinglePrice(symbol, outcome.Value))
		s.logger.Debug("Price updated", "symbol", symbol, "price", outcome.Value)
	case entity.OutcomeNotString:
		s.store.SetSinglePrice(entity.PriceUnavailable)
		s.logger.Warn("Price bridge returned no usable value", "symbol", symbol)
	default:
		s.store.SetSinglePrice(entity.PriceFetchFailedText(symbol))
		s.logger.Error("Error fetching price", "symbol", symbol, "error", outcome.Err)
	}
}

// FetchBatchPrices calls the batch price bridge and replaces the batch price
// mapping with the result. It blocks until the bridge call resolves.
func (s *DashboardService) FetchBatchPrices(ctx context.Context) {
	symbols := s.TrackedSymbols()
	raw, err := s.call(ctx, bridgeBatch, func(ctx context.Context) ([]byte, error) {
		return s.prices.BatchPrices(ctx, symbols)
	})
	if err != nil {
		metrics.BridgeCalls.WithLabelValues(bridgeBatch, entity.OutcomeFailed.String()).Inc()
		s.logger.Error("Error fetching batch prices", "symbols", symbols, "error", err)
		s.store.SetBatchPrices(map[string]string{})
		return
	}

	entries, ok := DecodeBatch(raw)
	if !ok {
		metrics.BridgeCalls.WithLabelValues(bridgeBatch, entity.OutcomeNotString.String()).Inc()
		s.logger.Warn("Batch price response is not an object, clearing batch prices", "bytes", len(raw))
		s.store.SetBatchPrices(map[string]string{})
		return
	}
	metrics.BridgeCalls.WithLabelValues(bridgeBatch, entity.OutcomeValue.String()).Inc()

	prices := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.OK {
			prices[e.Symbol] = entity.BatchEntryFailed
			s.logger.Warn("Batch price entry is not a string", "symbol", e.Symbol)
			continue
		}
		prices[e.Symbol] = entity.FormatBatchPrice(e.Value)
	}
	s.store.SetBatchPrices(prices)
	s.logger.Debug("Batch prices updated", "count", len(prices))
}

// Wait blocks until all fetches started so far have finished.
func (s *DashboardService) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight fetches and waits for them to finish.
func (s *DashboardService) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *DashboardService) spawn(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.baseCtx)
	}()
}

func (s *DashboardService) call(ctx context.Context, bridge string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.BridgeTimeout)
	defer cancel()

	start := time.Now()
	raw, err := fn(callCtx)
	metrics.BridgeDuration.WithLabelValues(bridge).Observe(time.Since(start).Seconds())
	return raw, err
}
