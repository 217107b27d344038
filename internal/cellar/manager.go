// ABOUTME: Collection manager owning the in-memory cellar state.
// ABOUTME: Every mutation funnels mutate -> persist locally -> push remote.

package cellar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harper/cellar/internal/models"
)

var (
	ErrWineNotFound     = errors.New("wine not found")
	ErrArchivedNotFound = errors.New("archived wine not found")
	ErrPrefixTooShort   = errors.New("prefix must be at least 6 characters")
	ErrAmbiguousPrefix  = errors.New("prefix matches multiple wines")
)

// Saver persists the full collection after every mutation. The local
// cache store satisfies this.
type Saver interface {
	Save(models.Collection) error
}

// Publisher receives each local mutation for remote propagation. The
// syncer satisfies this; a nil publisher means local-only mode. Publish
// failures never surface here: the publisher degrades on its own.
type Publisher interface {
	WineChanged(ctx context.Context, w models.Wine)
	WineRemoved(ctx context.Context, id uuid.UUID)
	ArchivedChanged(ctx context.Context, a models.ArchivedWine)
	ArchivedRemoved(ctx context.Context, id uuid.UUID)
}

// Manager is the sole mutator of the collection. All state transitions
// (add, edit, quantity, archive, restore, delete) go through its methods;
// remote snapshots enter only via ReplaceAll.
type Manager struct {
	mu    sync.Mutex
	col   models.Collection
	store Saver
	pub   Publisher
}

// NewManager creates a manager. store and pub may each be nil.
func NewManager(store Saver, pub Publisher) *Manager {
	return &Manager{store: store, pub: pub}
}

// SetPublisher wires the remote publisher after construction. The syncer
// needs the manager first, so the two are connected in two steps.
func (m *Manager) SetPublisher(pub Publisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pub = pub
}

// Add inserts a new wine. A zero ID or AddedAt is filled in; quantity is
// floored at one bottle and taste scales are clamped.
func (m *Manager) Add(ctx context.Context, w models.Wine) (models.Wine, error) {
	if strings.TrimSpace(w.Name) == "" {
		return models.Wine{}, errors.New("wine name cannot be empty")
	}
	if !w.Type.Valid() {
		return models.Wine{}, fmt.Errorf("invalid wine type %q", w.Type)
	}
	if w.ID == uuid.Nil {
		fresh := models.NewWine(w.Name, w.Type)
		w.ID = fresh.ID
		if w.AddedAt.IsZero() {
			w.AddedAt = fresh.AddedAt
		}
	}
	if w.AddedAt.IsZero() {
		w.AddedAt = models.NewWine(w.Name, w.Type).AddedAt
	}
	if w.Quantity < 1 {
		w.Quantity = 1
	}
	w.ClampScales()

	m.mu.Lock()
	m.col.Wines = append(m.col.Wines, w)
	m.col.Sort()
	m.persistLocked()
	m.mu.Unlock()

	m.publishWine(ctx, w)
	return w, nil
}

// Update replaces the record with the same ID. AddedAt is preserved from
// the existing record regardless of what the caller passes.
func (m *Manager) Update(ctx context.Context, w models.Wine) (models.Wine, error) {
	if !w.Type.Valid() {
		return models.Wine{}, fmt.Errorf("invalid wine type %q", w.Type)
	}
	if w.Quantity < 1 {
		w.Quantity = 1
	}
	w.ClampScales()

	m.mu.Lock()
	idx := m.indexOfLocked(w.ID)
	if idx < 0 {
		m.mu.Unlock()
		return models.Wine{}, ErrWineNotFound
	}
	w.AddedAt = m.col.Wines[idx].AddedAt
	m.col.Wines[idx] = w
	m.col.Sort()
	m.persistLocked()
	m.mu.Unlock()

	m.publishWine(ctx, w)
	return w, nil
}

// AdjustQuantity changes the bottle count by delta. The count never drops
// below one: a decrement at one bottle is a no-op, never a delete and
// never an implicit archive.
func (m *Manager) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (models.Wine, error) {
	m.mu.Lock()
	idx := m.indexOfLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return models.Wine{}, ErrWineNotFound
	}

	next := m.col.Wines[idx].Quantity + delta
	if next < 1 {
		w := m.col.Wines[idx]
		m.mu.Unlock()
		return w, nil
	}
	m.col.Wines[idx].Quantity = next
	w := m.col.Wines[idx]
	m.persistLocked()
	m.mu.Unlock()

	m.publishWine(ctx, w)
	return w, nil
}

// Delete removes an active wine without archiving it.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	idx := m.indexOfLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return ErrWineNotFound
	}
	m.col.Wines = append(m.col.Wines[:idx], m.col.Wines[idx+1:]...)
	m.persistLocked()
	m.mu.Unlock()

	if pub := m.publisher(); pub != nil {
		pub.WineRemoved(ctx, id)
	}
	return nil
}

// Archive moves an active wine to the archive with a rating, a rebuy
// verdict, and archive notes. Copy plus delete: the archive record is a
// new value, not a shared reference.
func (m *Manager) Archive(ctx context.Context, id uuid.UUID, rating int, rebuy models.Rebuy, notes string) (models.ArchivedWine, error) {
	if !rebuy.Valid() {
		return models.ArchivedWine{}, fmt.Errorf("invalid rebuy verdict %q", rebuy)
	}

	m.mu.Lock()
	idx := m.indexOfLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return models.ArchivedWine{}, ErrWineNotFound
	}
	arch := models.Archive(m.col.Wines[idx], rating, rebuy, notes)
	m.col.Wines = append(m.col.Wines[:idx], m.col.Wines[idx+1:]...)
	m.col.Archived = append(m.col.Archived, arch)
	m.col.Sort()
	m.persistLocked()
	m.mu.Unlock()

	if pub := m.publisher(); pub != nil {
		pub.ArchivedChanged(ctx, arch)
		pub.WineRemoved(ctx, id)
	}
	return arch, nil
}

// AddArchived inserts an archive record directly, used when importing a
// backup. A zero ID or ArchivedAt is filled in and the rating is clamped.
func (m *Manager) AddArchived(ctx context.Context, a models.ArchivedWine) (models.ArchivedWine, error) {
	if strings.TrimSpace(a.Name) == "" {
		return models.ArchivedWine{}, errors.New("wine name cannot be empty")
	}
	if !a.Type.Valid() {
		return models.ArchivedWine{}, fmt.Errorf("invalid wine type %q", a.Type)
	}
	if !a.Rebuy.Valid() {
		return models.ArchivedWine{}, fmt.Errorf("invalid rebuy verdict %q", a.Rebuy)
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ArchivedAt.IsZero() {
		a.ArchivedAt = time.Now()
	}
	if a.Rating < 0 {
		a.Rating = 0
	}
	if a.Rating > 5 {
		a.Rating = 5
	}

	m.mu.Lock()
	m.col.Archived = append(m.col.Archived, a)
	m.col.Sort()
	m.persistLocked()
	m.mu.Unlock()

	if pub := m.publisher(); pub != nil {
		pub.ArchivedChanged(ctx, a)
	}
	return a, nil
}

// Restore moves an archived wine back to the active cellar under a new
// identity: fresh ID, fresh AddedAt. The archive record is removed.
func (m *Manager) Restore(ctx context.Context, archivedID uuid.UUID) (models.Wine, error) {
	m.mu.Lock()
	idx := m.indexOfArchivedLocked(archivedID)
	if idx < 0 {
		m.mu.Unlock()
		return models.Wine{}, ErrArchivedNotFound
	}
	restored := m.col.Archived[idx].Restore()
	m.col.Archived = append(m.col.Archived[:idx], m.col.Archived[idx+1:]...)
	m.col.Wines = append(m.col.Wines, restored)
	m.col.Sort()
	m.persistLocked()
	m.mu.Unlock()

	if pub := m.publisher(); pub != nil {
		pub.WineChanged(ctx, restored)
		pub.ArchivedRemoved(ctx, archivedID)
	}
	return restored, nil
}

// PurgeArchived permanently deletes an archive record.
func (m *Manager) PurgeArchived(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	idx := m.indexOfArchivedLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return ErrArchivedNotFound
	}
	m.col.Archived = append(m.col.Archived[:idx], m.col.Archived[idx+1:]...)
	m.persistLocked()
	m.mu.Unlock()

	if pub := m.publisher(); pub != nil {
		pub.ArchivedRemoved(ctx, id)
	}
	return nil
}

// Snapshot returns a copy of the current collection.
func (m *Manager) Snapshot() models.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.col.Clone()
}

// ReplaceAll swaps in a remote-originated collection. Only the syncer
// calls this; it does not persist or publish.
func (m *Manager) ReplaceAll(col models.Collection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	col.Sort()
	m.col = col
}

// Reset clears all in-memory state, used on sign-out.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.col = models.Collection{}
}

// TotalBottles sums the quantity across the active cellar.
func (m *Manager) TotalBottles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.col.TotalBottles()
}

// FindByPrefix resolves an active wine from an ID prefix of at least six
// characters. A full UUID also works.
func (m *Manager) FindByPrefix(prefix string) (models.Wine, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < 6 {
		return models.Wine{}, ErrPrefixTooShort
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []models.Wine
	for _, w := range m.col.Wines {
		if strings.HasPrefix(w.ID.String(), prefix) {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 0:
		return models.Wine{}, ErrWineNotFound
	case 1:
		return matches[0], nil
	default:
		return models.Wine{}, fmt.Errorf("%w: %d matches", ErrAmbiguousPrefix, len(matches))
	}
}

// FindArchivedByPrefix resolves an archived wine from an ID prefix.
func (m *Manager) FindArchivedByPrefix(prefix string) (models.ArchivedWine, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < 6 {
		return models.ArchivedWine{}, ErrPrefixTooShort
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []models.ArchivedWine
	for _, a := range m.col.Archived {
		if strings.HasPrefix(a.ID.String(), prefix) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return models.ArchivedWine{}, ErrArchivedNotFound
	case 1:
		return matches[0], nil
	default:
		return models.ArchivedWine{}, fmt.Errorf("%w: %d matches", ErrAmbiguousPrefix, len(matches))
	}
}

func (m *Manager) indexOfLocked(id uuid.UUID) int {
	for i, w := range m.col.Wines {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) indexOfArchivedLocked(id uuid.UUID) int {
	for i, a := range m.col.Archived {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked saves the collection to the local store. The store
// swallows its own failures, so local persistence never blocks a
// mutation.
func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	_ = m.store.Save(m.col.Clone())
}

func (m *Manager) publisher() Publisher {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pub
}

func (m *Manager) publishWine(ctx context.Context, w models.Wine) {
	if pub := m.publisher(); pub != nil {
		pub.WineChanged(ctx, w)
	}
}
