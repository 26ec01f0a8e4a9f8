// Package state holds the dashboard's single source of truth.
package state

import (
	"fmt"
	"maps"
	"sync"

	"yolodash/internal/domain/entity"
)

// Store owns the dashboard state and publishes a snapshot to subscribers after
// every mutation.
type Store struct {
	mu      sync.RWMutex
	current entity.Snapshot

	subMu     sync.Mutex
	nextID    int
	subs      map[int]chan entity.Snapshot
	published uint64
}

// NewStore creates a Store in the initial state. priceSymbol is used for the
// single price loading placeholder.
func NewStore(priceSymbol string) *Store {
	return &Store{
		current: entity.Snapshot{
			Connected:       false,
			WalletAddress:   entity.WalletNotConnected,
			SinglePrice:     entity.LoadingPriceText(priceSymbol),
			BatchPrices:     map[string]string{},
			SelectedSection: entity.SectionShade,
		},
		subs: make(map[int]chan entity.Snapshot),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.current)
}

// SetConnected sets the connection flag.
func (s *Store) SetConnected(connected bool) {
	s.update(func(snap *entity.Snapshot) { snap.Connected = connected })
}

// SetWalletAddress overwrites the wallet address display string.
func (s *Store) SetWalletAddress(address string) {
	s.update(func(snap *entity.Snapshot) { snap.WalletAddress = address })
}

// SetSinglePrice overwrites the single price display string.
func (s *Store) SetSinglePrice(price string) {
	s.update(func(snap *entity.Snapshot) { snap.SinglePrice = price })
}

// SetBatchPrices replaces the whole batch price mapping. The store keeps its
// own copy of prices.
func (s *Store) SetBatchPrices(prices map[string]string) {
	replacement := make(map[string]string, len(prices))
	maps.Copy(replacement, prices)
	s.update(func(snap *entity.Snapshot) { snap.BatchPrices = replacement })
}

// SetSelectedSection switches the rendered body branch.
func (s *Store) SetSelectedSection(section entity.Section) error {
	if !section.Valid() {
		return fmt.Errorf("%w: %q", entity.ErrUnknownSection, string(section))
	}
	s.update(func(snap *entity.Snapshot) { snap.SelectedSection = section })
	return nil
}

// Subscribe registers a listener. The channel always holds the newest
// snapshot not yet received; older undelivered snapshots are dropped.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan entity.Snapshot, func()) {
	ch := make(chan entity.Snapshot, 1)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) update(mutate func(*entity.Snapshot)) {
	s.mu.Lock()
	mutate(&s.current)
	s.current.Version++
	snap := copySnapshot(s.current)
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Store) publish(snap entity.Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	// A concurrent update may already have published a newer version.
	if snap.Version <= s.published {
		return
	}
	s.published = snap.Version

	for _, ch := range s.subs {
		// Drain the pending snapshot, if any, so the newest one always fits.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func copySnapshot(snap entity.Snapshot) entity.Snapshot {
	out := snap
	out.BatchPrices = maps.Clone(snap.BatchPrices)
	if out.BatchPrices == nil {
		out.BatchPrices = map[string]string{}
	}
	return out
}
