package core

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"scanledger/pkg/checksum"
)

// FeedKey identifies one entry in the scan feed. Deliberately coarser than
// RecordKey: dashboards track the latest state per (SKU, pallet type) across
// warehouses.
type FeedKey struct {
	SKU        string
	PalletType string
}

// ScanEvent is one successful upsert as seen by downstream consumers.
type ScanEvent struct {
	ID               string          `json:"id"`
	Key              FeedKey         `json:"key"`
	Record           InventoryRecord `json:"record"`
	AccumulatedTotal int             `json:"accumulated_total"`
	LineHash         string          `json:"line_hash"`
	At               time.Time       `json:"at"`
}

// ScanFeed is the denormalized "latest scan state" cache published after every
// successful upsert. It is a cache, never a source of truth: on disagreement
// the ledger's ReadAll wins. Consumers either poll Latest/Snapshot or receive
// pushes on a subscribed channel; a ledger update is visible either way within
// one observation cycle.
type ScanFeed struct {
	mu     sync.RWMutex
	latest map[FeedKey]ScanEvent
	last   *ScanEvent
	subs   []chan ScanEvent
	buffer int
}

// NewScanFeed creates an empty feed. buffer sizes each subscriber channel;
// values below 1 get a minimal buffer.
func NewScanFeed(buffer int) *ScanFeed {
	if buffer < 1 {
		buffer = 1
	}
	return &ScanFeed{
		latest: make(map[FeedKey]ScanEvent),
		buffer: buffer,
	}
}

// Publish records the outcome of one successful upsert and fans it out.
// Publishing never blocks: a subscriber that has fallen behind misses the
// event and must fall back to polling — the feed is eventually consistent.
func (f *ScanFeed) Publish(record InventoryRecord, accumulatedTotal int) ScanEvent {
	event := ScanEvent{
		ID:               uuid.NewString(),
		Key:              FeedKey{SKU: record.SKU, PalletType: record.PalletType},
		Record:           record,
		AccumulatedTotal: accumulatedTotal,
		LineHash:         checksum.LineHash(EncodeRecord(record)),
		At:               time.Now(),
	}

	f.mu.Lock()
	f.latest[event.Key] = event
	f.last = &event
	subs := make([]chan ScanEvent, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
	return event
}

// Latest returns the most recent event across all keys. The boolean is false
// before the first successful publish — the cache must never be read as an
// empty-but-valid state.
func (f *ScanFeed) Latest() (ScanEvent, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.last == nil {
		return ScanEvent{}, false
	}
	return *f.last, true
}

// LatestFor returns the most recent event for one (SKU, pallet type).
func (f *ScanFeed) LatestFor(key FeedKey) (ScanEvent, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	event, ok := f.latest[key]
	return event, ok
}

// Snapshot copies the current latest-per-key state.
func (f *ScanFeed) Snapshot() map[FeedKey]ScanEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	snapshot := make(map[FeedKey]ScanEvent, len(f.latest))
	for k, v := range f.latest {
		snapshot[k] = v
	}
	return snapshot
}

// Subscribe registers a push channel. Events beyond the buffer are dropped
// for that subscriber; see Publish.
func (f *ScanFeed) Subscribe() <-chan ScanEvent {
	ch := make(chan ScanEvent, f.buffer)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch
}

// Reset clears the cache. Called when the ledger itself is reset or replaced
// by an import, so stale snapshots cannot outlive their source rows.
func (f *ScanFeed) Reset() {
	f.mu.Lock()
	f.latest = make(map[FeedKey]ScanEvent)
	f.last = nil
	f.mu.Unlock()
}
