package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"yolodash/internal/app/state"
	"yolodash/internal/domain/entity"
	"yolodash/internal/pkg/logger"
)

type fakeWallet struct {
	raw     []byte
	err     error
	release chan struct{}
	started chan struct{}
}

func (f *fakeWallet) WalletAddress(ctx context.Context) ([]byte, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.raw, f.err
}

type fakePrices struct {
	single    []byte
	singleErr error
	batch     []byte
	batchErr  error
	symbols   []string
}

func (f *fakePrices) Price(_ context.Context, symbol string) ([]byte, error) {
	return f.single, f.singleErr
}

func (f *fakePrices) BatchPrices(_ context.Context, symbols []string) ([]byte, error) {
	f.symbols = symbols
	return f.batch, f.batchErr
}

func newService(t *testing.T, wallet *fakeWallet, prices *fakePrices, guard bool) *DashboardService {
	t.Helper()
	svc := NewDashboardService(state.NewStore("SHD"), wallet, prices, logger.NewSlogAdapter(), DashboardServiceConfig{
		BridgeTimeout:      time.Second,
		DiscardStaleWallet: guard,
	})
	t.Cleanup(svc.Close)
	return svc
}

func TestConnectSetsConnectedSynchronously(t *testing.T) {
	wallet := &fakeWallet{raw: []byte(`"secret1abc"`), release: make(chan struct{})}
	svc := newService(t, wallet, &fakePrices{}, true)

	svc.Connect()
	snap := svc.Snapshot()
	if !snap.Connected {
		t.Fatal("expected connected before the wallet fetch resolves")
	}
	if snap.WalletAddress != entity.WalletNotConnected {
		t.Fatalf("wallet address changed before fetch resolved: %q", snap.WalletAddress)
	}

	close(wallet.release)
	svc.Wait()
	if got := svc.Snapshot().WalletAddress; got != "secret1abc" {
		t.Fatalf("wallet = %q", got)
	}
}

func TestConnectWithFailingWalletStaysConnected(t *testing.T) {
	tests := map[string]*fakeWallet{
		"non-string": {raw: []byte(`42`)},
		"null":       {raw: []byte(`null`)},
		"empty":      {raw: nil},
		"error":      {err: errors.New("rejected")},
	}
	for name, wallet := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newService(t, wallet, &fakePrices{}, true)
			svc.Connect()
			svc.Wait()

			snap := svc.Snapshot()
			if !snap.Connected {
				t.Fatal("connection flag must not depend on fetch outcome")
			}
			if snap.WalletAddress != "Failed to load wallet address" {
				t.Fatalf("wallet = %q", snap.WalletAddress)
			}
		})
	}
}

func TestDisconnectResets(t *testing.T) {
	svc := newService(t, &fakeWallet{raw: []byte(`"secret1abc"`)}, &fakePrices{}, true)
	svc.Connect()
	svc.Wait()

	svc.Disconnect()
	snap := svc.Snapshot()
	if snap.Connected || snap.WalletAddress != "Not connected" {
		t.Fatalf("unexpected snapshot after disconnect: %+v", snap)
	}

	// Disconnect from the initial state is also a reset.
	svc.Disconnect()
	if snap := svc.Snapshot(); snap.Connected || snap.WalletAddress != "Not connected" {
		t.Fatalf("unexpected snapshot after second disconnect: %+v", snap)
	}
}

func TestLateWalletResponseAfterDisconnect(t *testing.T) {
	tests := []struct {
		name  string
		guard bool
		want  string
	}{
		{"guard discards stale response", true, "Not connected"},
		{"without guard last write wins", false, "secret1abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet := &fakeWallet{raw: []byte(`"secret1abc"`), release: make(chan struct{}), started: make(chan struct{}, 1)}
			svc := newService(t, wallet, &fakePrices{}, tt.guard)

			svc.Connect()
			<-wallet.started
			svc.Disconnect()
			close(wallet.release)
			svc.Wait()

			snap := svc.Snapshot()
			if snap.Connected {
				t.Fatal("expected disconnected")
			}
			if snap.WalletAddress != tt.want {
				t.Fatalf("wallet = %q, want %q", snap.WalletAddress, tt.want)
			}
		})
	}
}

func TestFetchPrice(t *testing.T) {
	tests := []struct {
		name   string
		prices *fakePrices
		want   string
	}{
		{"string", &fakePrices{single: []byte(`"12.34"`)}, "SHD = $12.34"},
		{"non-string", &fakePrices{single: []byte(`12.34`)}, "Price data unavailable"},
		{"null", &fakePrices{single: []byte(`null`)}, "Price data unavailable"},
		{"error", &fakePrices{singleErr: errors.New("network down")}, "Error fetching SHD price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, &fakeWallet{}, tt.prices, true)
			svc.FetchPrice(context.Background())
			if got := svc.Snapshot().SinglePrice; got != tt.want {
				t.Fatalf("price = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRefreshPriceIsAsync(t *testing.T) {
	svc := newService(t, &fakeWallet{}, &fakePrices{single: []byte(`"1.00"`)}, true)
	svc.RefreshPrice()
	svc.Wait()
	if got := svc.Snapshot().SinglePrice; got != "SHD = $1.00" {
		t.Fatalf("price = %q", got)
	}
}

func TestFetchBatchPrices(t *testing.T) {
	prices := &fakePrices{batch: []byte(`{"SHD":"12.34","ETH":42}`)}
	svc := newService(t, &fakeWallet{}, prices, true)

	svc.FetchBatchPrices(context.Background())

	want := map[string]string{"SHD": "$12.34", "ETH": "Error fetching price"}
	if got := svc.Snapshot().BatchPrices; !reflect.DeepEqual(got, want) {
		t.Fatalf("batch = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(prices.symbols, []string{"SHD", "ETH", "BTC"}) {
		t.Fatalf("requested symbols = %v", prices.symbols)
	}
}

func TestFetchBatchPricesMalformedClearsMapping(t *testing.T) {
	tests := map[string]*fakePrices{
		"array":     {batch: []byte(`["SHD"]`)},
		"string":    {batch: []byte(`"12.34"`)},
		"truncated": {batch: []byte(`{"SHD":`)},
		"null":      {batch: []byte(`null`)},
		"error":     {batchErr: errors.New("rejected")},
	}
	for name, prices := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newService(t, &fakeWallet{}, &fakePrices{batch: []byte(`{"SHD":"1.00","BTC":"2.00"}`)}, true)
			svc.FetchBatchPrices(context.Background())
			if len(svc.Snapshot().BatchPrices) != 2 {
				t.Fatal("setup: expected prior batch data")
			}

			svc.prices = prices
			svc.FetchBatchPrices(context.Background())
			if got := svc.Snapshot().BatchPrices; len(got) != 0 {
				t.Fatalf("expected empty mapping, got %v", got)
			}
		})
	}
}

func TestRefreshAll(t *testing.T) {
	prices := &fakePrices{single: []byte(`"12.34"`), batch: []byte(`{"BTC":"60000.00"}`)}
	svc := newService(t, &fakeWallet{}, prices, true)

	svc.RefreshAll()
	svc.Wait()

	snap := svc.Snapshot()
	if snap.SinglePrice != "SHD = $12.34" {
		t.Errorf("price = %q", snap.SinglePrice)
	}
	if snap.BatchPrices["BTC"] != "$60000.00" {
		t.Errorf("batch = %v", snap.BatchPrices)
	}
}

func TestSelectSection(t *testing.T) {
	svc := newService(t, &fakeWallet{}, &fakePrices{}, true)

	if err := svc.SelectSection(entity.SectionHome); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Snapshot().SelectedSection; got != entity.SectionHome {
		t.Fatalf("section = %q", got)
	}
	if err := svc.SelectSection("Other"); !errors.Is(err, entity.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if got := svc.Snapshot().SelectedSection; got != entity.SectionHome {
		t.Fatalf("section changed to %q", got)
	}
}

func TestSubscribersSeeMutations(t *testing.T) {
	svc := newService(t, &fakeWallet{}, &fakePrices{}, true)
	ch, cancel := svc.Subscribe()
	defer cancel()

	if err := svc.SelectSection(entity.SectionHome); err != nil {
		t.Fatal(err)
	}
	select {
	case snap := <-ch:
		if snap.SelectedSection != entity.SectionHome {
			t.Fatalf("section = %q", snap.SelectedSection)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestCloseCancelsInFlightFetch(t *testing.T) {
	wallet := &fakeWallet{raw: []byte(`"secret1abc"`), release: make(chan struct{})}
	svc := newService(t, wallet, &fakePrices{}, true)

	svc.Connect()
	done := make(chan struct{})
	go func() {
		svc.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the pending wallet fetch")
	}
	if got := svc.Snapshot().WalletAddress; got != "Failed to load wallet address" {
		t.Fatalf("wallet = %q", got)
	}
}
