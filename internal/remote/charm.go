// ABOUTME: Charm KV implementation of the remote sync channel.
// ABOUTME: Type-prefixed keys, short-lived connections via the Do API.

package remote

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	charmproto "github.com/charmbracelet/charm/proto"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/cellar/internal/models"
)

const (
	// DBName is the name of the charm kv database for cellar.
	DBName = "cellar"

	// WinePrefix keys the active collection, DrunkPrefix the archive.
	WinePrefix  = "wine:"
	DrunkPrefix = "drunk:"

	// defaultWatchInterval is how often the subscription polls the charm
	// server for a changed snapshot.
	defaultWatchInterval = 3 * time.Second
)

var _ Channel = (*CharmChannel)(nil)

// CharmChannel implements Channel on top of the per-user charm cloud KV.
// Each operation opens the database, performs the operation, syncs, and
// closes it, so no persistent connection is held.
type CharmChannel struct {
	dbName   string
	interval time.Duration
}

// CharmOption configures a CharmChannel.
type CharmOption func(*CharmChannel)

// WithDBName overrides the kv database name.
func WithDBName(name string) CharmOption {
	return func(c *CharmChannel) { c.dbName = name }
}

// WithWatchInterval overrides the subscription poll interval.
func WithWatchInterval(d time.Duration) CharmOption {
	return func(c *CharmChannel) {
		if d > 0 {
			c.interval = d
		}
	}
}

// NewCharmChannel builds a channel against the given charm host (empty
// keeps the charm default).
func NewCharmChannel(host string, opts ...CharmOption) (*CharmChannel, error) {
	if host != "" {
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			return nil, err
		}
	}

	c := &CharmChannel{
		dbName:   DBName,
		interval: defaultWatchInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func wineKey(id uuid.UUID) []byte {
	return []byte(WinePrefix + id.String())
}

func drunkKey(id uuid.UUID) []byte {
	return []byte(DrunkPrefix + id.String())
}

// Fetch syncs with the charm server and reads both collections.
func (c *CharmChannel) Fetch(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	err := kv.Do(c.dbName, func(k *kv.KV) error {
		if err := k.Sync(); err != nil {
			return fmt.Errorf("sync with charm: %w", err)
		}
		var err error
		snap, err = readSnapshot(k)
		return err
	})
	return snap, err
}

// readSnapshot iterates both key prefixes into a Snapshot.
func readSnapshot(k *kv.KV) (Snapshot, error) {
	snap := Snapshot{
		Wines:    make(map[uuid.UUID]models.Wine),
		Archived: make(map[uuid.UUID]models.ArchivedWine),
	}

	err := k.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(WinePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var w models.Wine
				if err := json.Unmarshal(val, &w); err != nil {
					// Skip records we cannot decode rather than failing
					// the whole snapshot.
					return nil
				}
				snap.Wines[w.ID] = w
				return nil
			})
			if err != nil {
				return err
			}
		}

		prefix = []byte(DrunkPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var a models.ArchivedWine
				if err := json.Unmarshal(val, &a); err != nil {
					return nil
				}
				snap.Archived[a.ID] = a
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return snap, err
}

// fingerprint produces a stable digest of a snapshot. JSON map encoding
// sorts keys, so equal snapshots always hash equal.
func fingerprint(s Snapshot) [sha256.Size]byte {
	wines, _ := json.Marshal(s.Wines)
	archived, _ := json.Marshal(s.Archived)
	return sha256.Sum256(append(wines, archived...))
}

// Subscribe polls the charm server and invokes onSnapshot whenever the
// remote snapshot's fingerprint changes. The first successful read is
// not delivered; connect-time state is handled by Fetch and the merge.
func (c *CharmChannel) Subscribe(ctx context.Context, onSnapshot func(Snapshot)) (*Subscription, error) {
	initial, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	last := fingerprint(initial)

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-watchCtx.Done():
				return
			case <-ticker.C:
				snap, err := c.Fetch(watchCtx)
				if err != nil {
					// Transient server trouble; keep polling.
					continue
				}
				fp := fingerprint(snap)
				if fp == last {
					continue
				}
				last = fp
				onSnapshot(snap)
			}
		}
	}()

	return NewSubscription(cancel), nil
}

// SetActive replaces the whole remote active map.
func (c *CharmChannel) SetActive(ctx context.Context, wines map[uuid.UUID]models.Wine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := clearPrefix(k, WinePrefix); err != nil {
			return err
		}
		for _, w := range wines {
			data, err := json.Marshal(w)
			if err != nil {
				return fmt.Errorf("marshal wine: %w", err)
			}
			if err := k.Set(wineKey(w.ID), data); err != nil {
				return err
			}
		}
		return k.Sync()
	})
}

// SetArchive replaces the whole remote archive map.
func (c *CharmChannel) SetArchive(ctx context.Context, archived map[uuid.UUID]models.ArchivedWine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := clearPrefix(k, DrunkPrefix); err != nil {
			return err
		}
		for _, a := range archived {
			data, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("marshal archived wine: %w", err)
			}
			if err := k.Set(drunkKey(a.ID), data); err != nil {
				return err
			}
		}
		return k.Sync()
	})
}

func clearPrefix(k *kv.KV, prefix string) error {
	var keys [][]byte
	err := k.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := k.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// PutWine writes one active record.
func (c *CharmChannel) PutWine(ctx context.Context, w models.Wine) error {
	return c.put(ctx, wineKey(w.ID), w)
}

// PutArchived writes one archive record.
func (c *CharmChannel) PutArchived(ctx context.Context, a models.ArchivedWine) error {
	return c.put(ctx, drunkKey(a.ID), a)
}

func (c *CharmChannel) put(ctx context.Context, key []byte, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := k.Set(key, data); err != nil {
			return err
		}
		return k.Sync()
	})
}

// DeleteWine removes one active record and confirms by re-reading.
func (c *CharmChannel) DeleteWine(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.delete(ctx, wineKey(id))
}

// DeleteArchived removes one archive record and confirms by re-reading.
func (c *CharmChannel) DeleteArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.delete(ctx, drunkKey(id))
}

func (c *CharmChannel) delete(ctx context.Context, key []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := kv.Do(c.dbName, func(k *kv.KV) error {
		if err := k.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return k.Sync()
	})
	if err != nil {
		return false, err
	}

	// Re-read after the delete to defend against lag.
	confirmed := false
	err = kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		_, getErr := k.Get(key)
		if errors.Is(getErr, badger.ErrKeyNotFound) {
			confirmed = true
			return nil
		}
		return getErr
	})
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// Close is a no-op: the Do API opens and closes per operation.
func (c *CharmChannel) Close() error {
	return nil
}

// ID returns the charm user ID for this device.
func (c *CharmChannel) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", err
	}
	return cc.ID()
}

// User returns the current charm user information.
func (c *CharmChannel) User() (*charmproto.User, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return nil, err
	}
	return cc.Bio()
}

// Link initiates the charm linking process for this device.
func (c *CharmChannel) Link() error {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return err
	}
	_, err = cc.Bio()
	return err
}

// Unlink clears the local charm state for this database.
func (c *CharmChannel) Unlink() error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Reset()
	})
}
