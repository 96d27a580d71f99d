// Package state manages gridwarp's persistent state using BoltDB.
// All writes are transactional; reads use read-only transactions to minimise contention.
package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	v1 "github.com/f9-o/gridwarp/api/v1"
)

// Bucket names
var (
	bucketSessions = []byte("sessions")
	bucketMeta     = []byte("meta")
)

// Meta keys
const (
	keyLastDisplay = "last_display"
)

// DB wraps a BoltDB instance with typed accessor methods.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the state database at the given path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db %q: %w", path, err)
	}

	// Ensure all buckets exist
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSessions, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %q: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &DB{bolt: db}, nil
}

// Close closes the underlying BoltDB file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.bolt.Path()
}

// ─────────────────────────────────────────────────────────────────────────────
// Session history
// ─────────────────────────────────────────────────────────────────────────────

// PutSession upserts a session record.
func (db *DB) PutSession(rec v1.SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("put session: empty id")
	}
	return db.putJSON(bucketSessions, rec.ID, rec)
}

// GetSession retrieves a session by ID. Returns nil, nil if not found.
func (db *DB) GetSession(id string) (*v1.SessionRecord, error) {
	var rec v1.SessionRecord
	found, err := db.getJSON(bucketSessions, id, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// ListSessions returns session records newest first. limit <= 0 returns all.
func (db *DB) ListSessions(limit int) ([]v1.SessionRecord, error) {
	var recs []v1.SessionRecord
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEach(func(k, v []byte) error {
			var r v1.SessionRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal session %q: %w", k, err)
			}
			recs = append(recs, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].StartedAt.After(recs[j].StartedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// PruneSessions keeps the newest keep records and deletes the rest.
// It returns the number of deleted records.
func (db *DB) PruneSessions(keep int) (int, error) {
	recs, err := db.ListSessions(0)
	if err != nil {
		return 0, err
	}
	if len(recs) <= keep {
		return 0, nil
	}
	stale := recs[keep:]
	err = db.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		for _, r := range stale {
			if err := b.Delete([]byte(r.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(stale), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Last display
// ─────────────────────────────────────────────────────────────────────────────

// SetLastDisplay remembers the display a session ended on.
func (db *DB) SetLastDisplay(index int) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put([]byte(keyLastDisplay), []byte(strconv.Itoa(index)))
	})
}

// LastDisplay returns the remembered display index; ok is false when none
// has been stored.
func (db *DB) LastDisplay() (index int, ok bool, err error) {
	err = db.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get([]byte(keyLastDisplay))
		if data == nil {
			return nil
		}
		n, convErr := strconv.Atoi(string(data))
		if convErr != nil {
			return fmt.Errorf("decode last display %q: %w", data, convErr)
		}
		index, ok = n, true
		return nil
	})
	return index, ok, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Generic helpers
// ─────────────────────────────────────────────────────────────────────────────

func (db *DB) putJSON(bucket []byte, key string, val any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (db *DB) getJSON(bucket []byte, key string, out any) (bool, error) {
	var found bool
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, out)
	})
	return found, err
}
