// ABOUTME: In-memory remote channel used in tests.
// ABOUTME: Fans every write back to all subscribers, like the real store.

package remote

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/harper/cellar/internal/models"
)

var _ Channel = (*MemoryChannel)(nil)

// MemoryChannel is an in-process Channel. Every mutating call fans the
// resulting snapshot out to all subscribers — including the caller's own
// subscription — which reproduces the echo behavior of the real remote
// store.
type MemoryChannel struct {
	mu       sync.Mutex
	wines    map[uuid.UUID]models.Wine
	archived map[uuid.UUID]models.ArchivedWine
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewMemoryChannel returns an empty in-memory channel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{
		wines:    make(map[uuid.UUID]models.Wine),
		archived: make(map[uuid.UUID]models.ArchivedWine),
		subs:     make(map[int]func(Snapshot)),
	}
}

func (m *MemoryChannel) snapshotLocked() Snapshot {
	snap := Snapshot{
		Wines:    make(map[uuid.UUID]models.Wine, len(m.wines)),
		Archived: make(map[uuid.UUID]models.ArchivedWine, len(m.archived)),
	}
	for id, w := range m.wines {
		snap.Wines[id] = w
	}
	for id, a := range m.archived {
		snap.Archived[id] = a
	}
	return snap
}

func (m *MemoryChannel) fanOutLocked() {
	snap := m.snapshotLocked()
	for _, fn := range m.subs {
		fn(snap)
	}
}

// Fetch returns the current snapshot.
func (m *MemoryChannel) Fetch(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(), nil
}

// Subscribe registers a listener. No initial snapshot is delivered.
func (m *MemoryChannel) Subscribe(ctx context.Context, onSnapshot func(Snapshot)) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = onSnapshot
	m.mu.Unlock()

	return NewSubscription(func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}), nil
}

// SubscriberCount reports how many listeners are attached.
func (m *MemoryChannel) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Push delivers an arbitrary snapshot to all subscribers without changing
// the stored state. Tests use it to simulate lagging or foreign updates.
func (m *MemoryChannel) Push(snap Snapshot) {
	m.mu.Lock()
	subs := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// SetActive replaces the active map.
func (m *MemoryChannel) SetActive(ctx context.Context, wines map[uuid.UUID]models.Wine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wines = make(map[uuid.UUID]models.Wine, len(wines))
	for id, w := range wines {
		m.wines[id] = w
	}
	m.fanOutLocked()
	return nil
}

// SetArchive replaces the archive map.
func (m *MemoryChannel) SetArchive(ctx context.Context, archived map[uuid.UUID]models.ArchivedWine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived = make(map[uuid.UUID]models.ArchivedWine, len(archived))
	for id, a := range archived {
		m.archived[id] = a
	}
	m.fanOutLocked()
	return nil
}

// PutWine writes one active record.
func (m *MemoryChannel) PutWine(ctx context.Context, w models.Wine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wines[w.ID] = w
	m.fanOutLocked()
	return nil
}

// PutArchived writes one archive record.
func (m *MemoryChannel) PutArchived(ctx context.Context, a models.ArchivedWine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived[a.ID] = a
	m.fanOutLocked()
	return nil
}

// DeleteWine removes one active record, confirming by re-read.
func (m *MemoryChannel) DeleteWine(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wines, id)
	m.fanOutLocked()
	_, still := m.wines[id]
	return !still, nil
}

// DeleteArchived removes one archive record, confirming by re-read.
func (m *MemoryChannel) DeleteArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.archived, id)
	m.fanOutLocked()
	_, still := m.archived[id]
	return !still, nil
}

// Close detaches all subscribers.
func (m *MemoryChannel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = make(map[int]func(Snapshot))
	return nil
}
