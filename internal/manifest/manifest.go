// Package manifest records rendered formulas in a bbolt database, keyed by
// fragment cache key. It lets a later run size an image without reading the
// PNG and lets "gitex cache" list and prune artifacts.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketRenders = "renders"

// openTimeout bounds the wait for the file lock held by another gitex.
const openTimeout = time.Second

// ErrLocked indicates another process holds the manifest open.
var ErrLocked = errors.New("manifest is locked by another process")

// Entry describes one rendered artifact.
type Entry struct {
	Key        string    `json:"-"`
	Formula    string    `json:"formula"`
	Mode       string    `json:"mode"`
	Artifact   string    `json:"artifact"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	DPI        int       `json:"dpi"`
	RenderedAt time.Time `json:"renderedAt"`
}

// Store is a manifest database.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the manifest at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRenders))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing manifest: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put records e under e.Key, replacing any previous entry.
func (s *Store) Put(e Entry) error {
	if e.Key == "" {
		return errors.New("manifest: empty key")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketRenders)).Put([]byte(e.Key), data)
	})
}

// Get returns the entry for key.
func (s *Store) Get(key string) (Entry, bool, error) {
	var (
		e     Entry
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketRenders)).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		return decode(key, v, &e)
	})
	if err != nil {
		return Entry{}, false, err
	}
	return e, found, nil
}

// List returns all entries ordered by key.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketRenders)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var e Entry
			if err := decode(string(k), v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

// Delete removes the given keys. Missing keys are ignored.
func (s *Store) Delete(keys ...string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRenders))
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Prune deletes every entry for which keep returns false and returns the
// removed entries.
func (s *Store) Prune(keep func(Entry) bool) ([]Entry, error) {
	var removed []Entry
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRenders))
		// Deleting while iterating a cursor skips keys, so collect first.
		err := b.ForEach(func(k, v []byte) error {
			var e Entry
			if err := decode(string(k), v, &e); err != nil {
				return err
			}
			if !keep(e) {
				removed = append(removed, e)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, e := range removed {
			if err := b.Delete([]byte(e.Key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func decode(key string, v []byte, e *Entry) error {
	if err := json.Unmarshal(v, e); err != nil {
		return fmt.Errorf("manifest entry %s: %w", key, err)
	}
	e.Key = key
	return nil
}
