// ABOUTME: Remote sync channel contract and snapshot types.
// ABOUTME: The remote store fans full snapshots back to every subscriber.

package remote

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/harper/cellar/internal/models"
)

// Snapshot is a full copy of the remote collection, delivered to a
// subscriber on any change. The fan-out includes changes the subscriber
// itself just wrote; echo suppression lives above this layer.
type Snapshot struct {
	Wines    map[uuid.UUID]models.Wine
	Archived map[uuid.UUID]models.ArchivedWine
}

// Collection converts the snapshot maps into a sorted Collection.
func (s Snapshot) Collection() models.Collection {
	col := models.Collection{
		Wines:    make([]models.Wine, 0, len(s.Wines)),
		Archived: make([]models.ArchivedWine, 0, len(s.Archived)),
	}
	for _, w := range s.Wines {
		col.Wines = append(col.Wines, w)
	}
	for _, a := range s.Archived {
		col.Archived = append(col.Archived, a)
	}
	col.Sort()
	return col
}

// Channel is the narrow contract to the per-user remote store. The remote
// holds two maps keyed by record ID (active and archive), so point writes
// and deletes never rewrite the whole collection. Every operation must be
// awaited before the caller proceeds to a dependent step.
type Channel interface {
	// Fetch reads the current remote snapshot once.
	Fetch(ctx context.Context) (Snapshot, error)

	// Subscribe registers onSnapshot to be invoked with the full remote
	// snapshot whenever the remote collection changes. The handle must be
	// cancelled before switching identity.
	Subscribe(ctx context.Context, onSnapshot func(Snapshot)) (*Subscription, error)

	// SetActive and SetArchive replace a whole remote map.
	SetActive(ctx context.Context, wines map[uuid.UUID]models.Wine) error
	SetArchive(ctx context.Context, archived map[uuid.UUID]models.ArchivedWine) error

	// Point writes.
	PutWine(ctx context.Context, w models.Wine) error
	PutArchived(ctx context.Context, a models.ArchivedWine) error

	// Point deletes. The returned bool is the result of re-reading after
	// the delete, guarding against eventual-consistency lag.
	DeleteWine(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteArchived(ctx context.Context, id uuid.UUID) (bool, error)

	Close() error
}

// Subscription is a cancellable handle returned by Subscribe. Cancel is
// idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription wraps a cancel func in an idempotent handle.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel detaches the listener. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
