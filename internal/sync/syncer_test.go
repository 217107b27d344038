// ABOUTME: Tests for the syncer against the in-memory remote channel.
// ABOUTME: Covers connect-time merge, echo suppression, and sign-out.

package sync

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/cellar/internal/cache"
	"github.com/harper/cellar/internal/models"
	"github.com/harper/cellar/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHolder is a minimal CollectionHolder for exercising the syncer
// without pulling in the full manager.
type fakeHolder struct {
	mu  stdsync.Mutex
	col models.Collection
}

func (f *fakeHolder) Snapshot() models.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.col.Clone()
}

func (f *fakeHolder) ReplaceAll(col models.Collection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	col.Sort()
	f.col = col
}

func (f *fakeHolder) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.col = models.Collection{}
}

func (f *fakeHolder) removeWine(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.col.Wines[:0]
	for _, w := range f.col.Wines {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	f.col.Wines = kept
}

func TestStartLocalOnlyWithoutChannel(t *testing.T) {
	holder := &fakeHolder{}
	s := New(holder, nil, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.Connected())
}

func TestStartMergesAndPushesLocalOnly(t *testing.T) {
	ctx := context.Background()

	store, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	localOnly := *models.NewWine("local-only", models.TypeRed)
	require.NoError(t, store.Save(models.Collection{Wines: []models.Wine{localOnly}}))

	mem := remote.NewMemoryChannel()
	remoteWine := *models.NewWine("remote", models.TypeWhite)
	require.NoError(t, mem.PutWine(ctx, remoteWine))

	holder := &fakeHolder{}
	s := New(holder, store, mem, WithGrace(50*time.Millisecond))
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	assert.True(t, s.Connected())

	col := holder.Snapshot()
	require.Len(t, col.Wines, 2)

	// The local-only record reached the remote store.
	snap, err := mem.Fetch(ctx)
	require.NoError(t, err)
	_, ok := snap.Wines[localOnly.ID]
	assert.True(t, ok, "local-only record should be pushed to remote")
}

func TestEchoSuppressionOnDelete(t *testing.T) {
	ctx := context.Background()

	mem := remote.NewMemoryChannel()
	x := *models.NewWine("X", models.TypeRed)
	require.NoError(t, mem.PutWine(ctx, x))

	holder := &fakeHolder{}
	s := New(holder, nil, mem, WithGrace(150*time.Millisecond))
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	require.Len(t, holder.Snapshot().Wines, 1)

	// Local delete: mutate in-memory state first, then push the delete.
	// The memory channel fans the echo back synchronously inside
	// WineRemoved, while the gate is held.
	holder.removeWine(x.ID)
	s.WineRemoved(ctx, x.ID)

	// A lagging snapshot that still contains X arrives inside the grace
	// window. It must not resurrect X.
	stale := remote.Snapshot{Wines: map[uuid.UUID]models.Wine{x.ID: x}}
	mem.Push(stale)

	assert.Empty(t, holder.Snapshot().Wines, "stale echo resurrected a deleted record")

	// After the grace window, genuine remote changes apply again.
	time.Sleep(300 * time.Millisecond)
	fresh := *models.NewWine("fresh", models.TypeWhite)
	require.NoError(t, mem.PutWine(ctx, fresh))

	col := holder.Snapshot()
	require.Len(t, col.Wines, 1)
	assert.Equal(t, fresh.ID, col.Wines[0].ID)
}

func TestSnapshotAppliedWhenNotSuppressed(t *testing.T) {
	ctx := context.Background()

	mem := remote.NewMemoryChannel()
	holder := &fakeHolder{}
	s := New(holder, nil, mem, WithGrace(20*time.Millisecond))
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	w := *models.NewWine("from another device", models.TypeSparkling)
	require.NoError(t, mem.PutWine(ctx, w))

	col := holder.Snapshot()
	require.Len(t, col.Wines, 1)
	assert.Equal(t, w.ID, col.Wines[0].ID)
}

func TestSignOutClearsStateAndDetaches(t *testing.T) {
	ctx := context.Background()

	mem := remote.NewMemoryChannel()
	require.NoError(t, mem.PutWine(ctx, *models.NewWine("w", models.TypeRed)))

	holder := &fakeHolder{}
	s := New(holder, nil, mem, WithGrace(20*time.Millisecond))
	require.NoError(t, s.Start(ctx))
	require.Len(t, holder.Snapshot().Wines, 1)
	require.Equal(t, 1, mem.SubscriberCount())

	s.SignOut()

	assert.Empty(t, holder.Snapshot().Wines, "sign-out must clear in-memory state")
	assert.Equal(t, 0, mem.SubscriberCount(), "sign-out must detach the listener")
	assert.False(t, s.Connected())

	// Idempotent teardown.
	s.Stop()
	s.SignOut()
}

func TestPublishHooksAreNoopsWhenDisconnected(t *testing.T) {
	ctx := context.Background()
	holder := &fakeHolder{}
	s := New(holder, nil, nil)
	require.NoError(t, s.Start(ctx))

	// None of these should panic or touch a remote.
	s.WineChanged(ctx, *models.NewWine("w", models.TypeRed))
	s.WineRemoved(ctx, uuid.New())
	s.ArchivedChanged(ctx, models.Archive(*models.NewWine("a", models.TypeRed), 1, models.RebuyNo, ""))
	s.ArchivedRemoved(ctx, uuid.New())
}
