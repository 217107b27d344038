// ABOUTME: Syncer wiring the collection manager, cache, and remote channel.
// ABOUTME: Owns connect-time merge, snapshot application, and gated pushes.

package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harper/cellar/internal/cache"
	"github.com/harper/cellar/internal/models"
	"github.com/harper/cellar/internal/remote"
)

// CollectionHolder is the slice of the collection manager the syncer
// needs: reading the current state, replacing it wholesale with a
// remote-originated collection, and clearing it on sign-out.
type CollectionHolder interface {
	Snapshot() models.Collection
	ReplaceAll(models.Collection)
	Reset()
}

// Syncer keeps local and remote state converged. A nil channel means
// local-only mode: Start still loads the cache and every publish hook is
// a no-op.
type Syncer struct {
	holder  CollectionHolder
	store   *cache.Store
	channel remote.Channel
	gate    *Gate

	mu        sync.Mutex
	sub       *remote.Subscription
	connected bool
	lastSync  time.Time
	lastErr   error
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithGrace sets the echo-suppression grace window.
func WithGrace(d time.Duration) Option {
	return func(s *Syncer) { s.gate = NewGate(d) }
}

// New builds a syncer. store and channel may each be nil.
func New(holder CollectionHolder, store *cache.Store, channel remote.Channel, opts ...Option) *Syncer {
	s := &Syncer{
		holder:  holder,
		store:   store,
		channel: channel,
		gate:    NewGate(DefaultGrace),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the cached collection, reconciles it with the remote store
// when one is configured, pushes local-only records, and subscribes for
// remote changes. Remote failure is not an error: the syncer degrades to
// local-only mode and records the cause for the status display.
func (s *Syncer) Start(ctx context.Context) error {
	local := models.Collection{}
	if s.store != nil {
		local = s.store.Load()
	}
	s.holder.ReplaceAll(local)

	if s.channel == nil {
		return nil
	}

	snap, err := s.channel.Fetch(ctx)
	if err != nil {
		s.fail("remote unavailable, working locally", err)
		return nil
	}

	merged := Merge(local, snap.Collection())
	s.holder.ReplaceAll(merged.Collection)
	s.save(merged.Collection)
	s.pushLocalOnly(ctx, merged)

	sub, err := s.channel.Subscribe(ctx, s.handleSnapshot)
	if err != nil {
		s.fail("remote subscription failed, working locally", err)
		return nil
	}

	s.mu.Lock()
	s.sub = sub
	s.connected = true
	s.lastSync = time.Now()
	s.mu.Unlock()
	return nil
}

// pushLocalOnly uploads the records the merge found only on this device,
// holding the gate so the resulting snapshot echo is absorbed.
func (s *Syncer) pushLocalOnly(ctx context.Context, merged MergeResult) {
	if len(merged.PushWines) == 0 && len(merged.PushArchived) == 0 {
		return
	}
	s.gate.Hold()
	defer s.gate.Release()
	for _, w := range merged.PushWines {
		if err := s.channel.PutWine(ctx, w); err != nil {
			s.fail("push wine", err)
		}
	}
	for _, a := range merged.PushArchived {
		if err := s.channel.PutArchived(ctx, a); err != nil {
			s.fail("push archived wine", err)
		}
	}
}

// SyncNow forces an immediate fetch-and-merge against the remote store.
// Unlike Start, a remote failure is returned to the caller.
func (s *Syncer) SyncNow(ctx context.Context) error {
	if s.channel == nil {
		return errors.New("sync is not enabled")
	}

	snap, err := s.channel.Fetch(ctx)
	if err != nil {
		s.fail("sync", err)
		return err
	}

	merged := Merge(s.holder.Snapshot(), snap.Collection())
	s.holder.ReplaceAll(merged.Collection)
	s.save(merged.Collection)
	s.pushLocalOnly(ctx, merged)

	s.mu.Lock()
	s.lastSync = time.Now()
	s.mu.Unlock()
	return nil
}

// handleSnapshot applies a remote snapshot. While the gate is suppressed
// the snapshot is an echo of our own in-flight write and is dropped;
// otherwise the remote is authoritative and replaces the in-memory
// collection, which is then persisted locally.
func (s *Syncer) handleSnapshot(snap remote.Snapshot) {
	if s.gate.Suppressed() {
		return
	}

	col := snap.Collection()
	s.holder.ReplaceAll(col)
	s.save(col)

	s.mu.Lock()
	s.lastSync = time.Now()
	s.mu.Unlock()
}

// Stop cancels the remote subscription. Idempotent; must be called before
// the identity changes so a stale listener cannot leak another user's
// data.
func (s *Syncer) Stop() {
	s.mu.Lock()
	sub := s.sub
	s.connected = false
	s.mu.Unlock()
	sub.Cancel()
}

// SignOut tears the subscription down and clears the in-memory
// collection.
func (s *Syncer) SignOut() {
	s.Stop()
	s.holder.Reset()
}

// Connected reports whether the remote subscription is live.
func (s *Syncer) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Status returns the last successful sync time and the last remote error,
// for the passive status display.
func (s *Syncer) Status() (lastSync time.Time, lastErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync, s.lastErr
}

// Gate exposes the suppression gate, mainly for tests.
func (s *Syncer) Gate() *Gate {
	return s.gate
}

func (s *Syncer) save(col models.Collection) {
	if s.store == nil {
		return
	}
	_ = s.store.Save(col)
}

func (s *Syncer) fail(op string, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", op, err)
}

// The methods below are the publish hooks the collection manager calls
// after each local mutation. Each one engages the gate before the remote
// write, awaits the write, then releases the gate so the trailing grace
// window absorbs the echo.

// WineChanged pushes a created or updated active record.
func (s *Syncer) WineChanged(ctx context.Context, w models.Wine) {
	if !s.Connected() {
		return
	}
	s.gate.Hold()
	defer s.gate.Release()
	if err := s.channel.PutWine(ctx, w); err != nil {
		s.fail("push wine", err)
	}
}

// WineRemoved deletes an active record remotely.
func (s *Syncer) WineRemoved(ctx context.Context, id uuid.UUID) {
	if !s.Connected() {
		return
	}
	s.gate.Hold()
	defer s.gate.Release()
	confirmed, err := s.channel.DeleteWine(ctx, id)
	if err != nil {
		s.fail("delete wine", err)
		return
	}
	if !confirmed {
		fmt.Fprintf(os.Stderr, "Warning: remote delete of %s not yet visible\n", id)
	}
}

// ArchivedChanged pushes a created or updated archive record.
func (s *Syncer) ArchivedChanged(ctx context.Context, a models.ArchivedWine) {
	if !s.Connected() {
		return
	}
	s.gate.Hold()
	defer s.gate.Release()
	if err := s.channel.PutArchived(ctx, a); err != nil {
		s.fail("push archived wine", err)
	}
}

// ArchivedRemoved deletes an archive record remotely.
func (s *Syncer) ArchivedRemoved(ctx context.Context, id uuid.UUID) {
	if !s.Connected() {
		return
	}
	s.gate.Hold()
	defer s.gate.Release()
	confirmed, err := s.channel.DeleteArchived(ctx, id)
	if err != nil {
		s.fail("delete archived wine", err)
		return
	}
	if !confirmed {
		fmt.Fprintf(os.Stderr, "Warning: remote delete of %s not yet visible\n", id)
	}
}
