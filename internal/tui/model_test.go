package tui

import (
	"strings"
	"testing"

	"yolodash/internal/app/state"
	"yolodash/internal/app/view"
	"yolodash/internal/domain/entity"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeDashboard struct {
	store *state.Store
	calls []string
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{store: state.NewStore(entity.DefaultPriceSymbol)}
}

func (f *fakeDashboard) Connect() {
	f.calls = append(f.calls, "connect")
	f.store.SetConnected(true)
}

func (f *fakeDashboard) Disconnect() {
	f.calls = append(f.calls, "disconnect")
	f.store.SetConnected(false)
}

func (f *fakeDashboard) SelectSection(section entity.Section) error {
	f.calls = append(f.calls, "section:"+string(section))
	return f.store.SetSelectedSection(section)
}

func (f *fakeDashboard) RefreshPrice()       { f.calls = append(f.calls, "refresh-price") }
func (f *fakeDashboard) RefreshBatchPrices() { f.calls = append(f.calls, "refresh-batch") }
func (f *fakeDashboard) RefreshAll()         { f.calls = append(f.calls, "refresh-all") }

func (f *fakeDashboard) Snapshot() entity.Snapshot { return f.store.Snapshot() }

func (f *fakeDashboard) Subscribe() (<-chan entity.Snapshot, func()) { return f.store.Subscribe() }

func press(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return cmd
}

func TestModelKeysTriggerOfferedActions(t *testing.T) {
	dash := newFakeDashboard()
	m := NewModel(dash, view.DefaultOptions())
	defer m.Close()

	// Logout is not rendered while disconnected.
	press(m, "l")
	press(m, "c")
	press(m, "l")
	press(m, "r")
	press(m, "b")
	press(m, "h")
	// The refresh buttons are gone on the Home section.
	press(m, "r")
	press(m, "a")
	press(m, "x")

	want := []string{"connect", "disconnect", "refresh-price", "refresh-batch", "section:Home", "refresh-all"}
	if strings.Join(dash.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", dash.calls, want)
	}
}

func TestModelViewFollowsSnapshots(t *testing.T) {
	dash := newFakeDashboard()
	m := NewModel(dash, view.DefaultOptions())
	defer m.Close()

	out := m.View()
	for _, want := range []string{"[Connect Wallet] (c)", "Not connected", "Loading SHD price...", "Loading..."} {
		if !strings.Contains(out, want) {
			t.Errorf("initial view missing %q:\n%s", want, out)
		}
	}

	dash.store.SetConnected(true)
	dash.store.SetWalletAddress("secret1abc")
	dash.store.SetSinglePrice("SHD = $12.34")

	msg := m.waitForSnapshot()()
	if _, ok := msg.(snapshotMsg); !ok {
		t.Fatalf("waitForSnapshot returned %T, want snapshotMsg", msg)
	}
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Error("model should keep listening after a snapshot")
	}

	out = m.View()
	for _, want := range []string{"[Logout] (l)", "SCRT Address: secret1abc", "SHD = $12.34"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestModelIgnoresOlderSnapshot(t *testing.T) {
	dash := newFakeDashboard()
	dash.store.SetSinglePrice("SHD = $1.00")
	dash.store.SetSinglePrice("SHD = $2.00")
	m := NewModel(dash, view.DefaultOptions())
	defer m.Close()

	old := dash.Snapshot()
	old.Version = 1
	old.SinglePrice = "SHD = $1.00"
	m.Update(snapshotMsg(old))

	if !strings.Contains(m.View(), "SHD = $2.00") {
		t.Error("an older snapshot replaced a newer one")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(newFakeDashboard(), view.DefaultOptions())
	defer m.Close()

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}

func TestModelClosedSubscription(t *testing.T) {
	m := NewModel(newFakeDashboard(), view.DefaultOptions())
	m.Close()

	msg := m.waitForSnapshot()()
	if _, ok := msg.(closedMsg); !ok {
		t.Fatalf("got %T, want closedMsg", msg)
	}
	if _, cmd := m.Update(msg); cmd != nil {
		t.Error("model should stop listening once the subscription is closed")
	}
}
