package view

import (
	"strings"
	"testing"

	"yolodash/internal/domain/entity"
)

func initialSnapshot() entity.Snapshot {
	return entity.Snapshot{
		WalletAddress:   entity.WalletNotConnected,
		SinglePrice:     entity.LoadingPriceText("SHD"),
		BatchPrices:     map[string]string{},
		SelectedSection: entity.SectionShade,
	}
}

func TestRenderDisconnectedTopBar(t *testing.T) {
	root := Render(initialSnapshot(), DefaultOptions())

	connect := FindAction(root, ActionConnect)
	if connect == nil || connect.Text != "Connect Wallet" {
		t.Fatalf("expected Connect Wallet button, got %+v", connect)
	}
	if FindAction(root, ActionDisconnect) != nil {
		t.Fatal("Logout button must not render while disconnected")
	}
	if got := FindByID(root, "wallet-address").Text; got != "Not connected" {
		t.Fatalf("wallet display = %q", got)
	}
}

func TestRenderConnectedTopBar(t *testing.T) {
	snap := initialSnapshot()
	snap.Connected = true
	snap.WalletAddress = "secret1abc"
	root := Render(snap, DefaultOptions())

	logout := FindAction(root, ActionDisconnect)
	if logout == nil || logout.Text != "Logout" {
		t.Fatalf("expected Logout button, got %+v", logout)
	}
	if FindAction(root, ActionConnect) != nil {
		t.Fatal("Connect Wallet button must not render while connected")
	}
	if got := FindByID(root, "wallet-address").Text; got != "SCRT Address: secret1abc" {
		t.Fatalf("wallet display = %q", got)
	}
}

func TestRenderHomeShowsImage(t *testing.T) {
	snap := initialSnapshot()
	snap.SelectedSection = entity.SectionHome
	root := Render(snap, DefaultOptions())

	img := FindByID(root, "main-page-image")
	if img == nil || img.Kind != KindImage || img.Src != "./static/mn-steady.png" {
		t.Fatalf("expected home image, got %+v", img)
	}
	if FindByID(root, "price-panel") != nil {
		t.Fatal("price panel must not render on Home")
	}
}

func TestRenderShadeShowsPricePanel(t *testing.T) {
	snap := initialSnapshot()
	snap.SinglePrice = "SHD = $12.34"
	snap.BatchPrices = map[string]string{"SHD": "$12.34", "ETH": entity.BatchEntryFailed}
	root := Render(snap, DefaultOptions())

	if FindByID(root, "main-page-image") != nil {
		t.Fatal("image must not render on Shade")
	}
	if got := FindByID(root, "shd-price").Text; got != "SHD = $12.34" {
		t.Fatalf("single price = %q", got)
	}
	want := map[string]string{"SHD": "$12.34", "ETH": "Error fetching price", "BTC": "Loading..."}
	for symbol, price := range want {
		row := FindByID(root, "batch-"+symbol)
		if row == nil {
			t.Fatalf("missing row for %s", symbol)
		}
		if got := row.Children[1].Text; got != price {
			t.Errorf("%s price = %q, want %q", symbol, got, price)
		}
	}
	if FindAction(root, ActionRefreshPrice) == nil || FindAction(root, ActionRefreshBatch) == nil {
		t.Fatal("expected both refresh buttons")
	}
}

func TestRenderDoesNotBackfillBatchPrices(t *testing.T) {
	snap := initialSnapshot()
	Render(snap, DefaultOptions())
	if len(snap.BatchPrices) != 0 {
		t.Fatalf("render must not mutate batch prices: %v", snap.BatchPrices)
	}
}

func TestRenderHTMLEscapesAndPostsActions(t *testing.T) {
	snap := initialSnapshot()
	snap.Connected = true
	snap.WalletAddress = `<script>alert(1)</script>`
	out := RenderHTML(Render(snap, DefaultOptions()))

	if strings.Contains(out, "<script>") {
		t.Fatal("wallet address must be escaped")
	}
	if !strings.Contains(out, `action="/actions/disconnect"`) {
		t.Fatal("expected disconnect form")
	}
	if !strings.Contains(out, `<span id="shd-price" class="price-display">Loading SHD price...</span>`) {
		t.Fatalf("expected price display, got %s", out)
	}
}

func TestRenderText(t *testing.T) {
	out := RenderText(Render(initialSnapshot(), DefaultOptions()), map[Action]string{ActionConnect: "c"})
	for _, want := range []string{"YoloDash", "[Connect Wallet] (c)", "Not connected", "Loading SHD price...", "BTC          Loading..."} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}
