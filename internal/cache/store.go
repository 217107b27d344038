// ABOUTME: Local cache store for the full collection, backed by badger.
// ABOUTME: One JSON blob rewritten wholesale; load is fail-soft.

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/harper/cellar/internal/models"
)

// collectionKey is the single key holding the whole collection snapshot.
var collectionKey = []byte("collection")

// Store persists the collection locally so the cellar is available
// offline. It is consulted first at startup and is not the source of
// truth once the remote channel is live.
type Store struct {
	db *badger.DB

	// put writes the marshalled blob. Tests swap it to force write
	// failures, such as a value over the size limit.
	put func(data []byte) error
}

// Open opens (or creates) the badger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	s := &Store{db: db}
	s.put = s.putBlob
	return s, nil
}

// DefaultPath returns the XDG data location for the cache.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "cellar", "cache")
}

// Load reads the cached collection. It fails soft: a missing key, corrupt
// data, or a read error all yield an empty collection rather than an
// error, so startup never blocks on a bad cache.
func (s *Store) Load() models.Collection {
	var col models.Collection

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(collectionKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &col)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			fmt.Fprintf(os.Stderr, "Warning: cache unreadable, starting empty: %v\n", err)
		}
		return models.Collection{}
	}

	col.Sort()
	return col
}

// Save writes the whole collection as one blob. If the write fails on a
// size limit it retries once with all embedded images stripped; if that
// also fails the error is logged and swallowed so the user keeps working
// with in-memory state.
func (s *Store) Save(col models.Collection) error {
	if err := s.write(col); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache write failed, retrying without images: %v\n", err)
		if err := s.write(col.StripImages()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cache write failed, collection not persisted: %v\n", err)
		}
	}
	return nil
}

func (s *Store) write(col models.Collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	return s.put(data)
}

func (s *Store) putBlob(data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(collectionKey, data)
	})
}

// Close releases the badger database.
func (s *Store) Close() error {
	return s.db.Close()
}
