package state

import (
	"encoding/binary"
	"encoding/json"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/focusgate/internal/guard/domain"
)

var (
	bucketSettings = []byte("settings")
	bucketEvents   = []byte("events")
	bucketDelays   = []byte("delays")

	keyEnabled = []byte("enabled")
	keyRecent  = []byte("recent")
)

// BoltStore persists the daemon's process-wide state: the interception
// toggle, the bounded recent-event list, and pending delay windows. State is
// loaded at start and saved on every mutation so delay windows survive a
// daemon restart.
type BoltStore struct {
	db *bbolt.DB
}

// Open opens (or creates) a Bolt database at path and ensures buckets exist.
func Open(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSettings); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketEvents); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketDelays); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

// Enabled reads the interception toggle. A database with no stored value is
// a first install, which defaults to enabled.
func (s *BoltStore) Enabled() (bool, error) {
	enabled := true
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketSettings).Get(keyEnabled)
		if v != nil {
			enabled = v[0] == 1
		}
		return nil
	})
	return enabled, err
}

// SetEnabled persists the interception toggle.
func (s *BoltStore) SetEnabled(enabled bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		v := []byte{0}
		if enabled {
			v[0] = 1
		}
		return tx.Bucket(bucketSettings).Put(keyEnabled, v)
	})
}

// SaveEvents replaces the persisted recent-event list. The caller owns the
// bound; the store writes whatever it is handed.
func (s *BoltStore) SaveEvents(events []domain.Event) error {
	buf, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).Put(keyRecent, buf)
	})
}

// LoadEvents returns the persisted recent-event list, oldest first.
func (s *BoltStore) LoadEvents() ([]domain.Event, error) {
	var events []domain.Event
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketEvents).Get(keyRecent)
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &events)
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// PutDelay persists the wake time for a domain's delay window.
func (s *BoltStore) PutDelay(name string, expiresAt time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(expiresAt.Unix()))
		return tx.Bucket(bucketDelays).Put([]byte(name), buf)
	})
}

// DeleteDelay removes the persisted wake time for a domain.
func (s *BoltStore) DeleteDelay(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDelays).Delete([]byte(name))
	})
}

// LoadDelays returns every persisted delay window keyed by domain. The delay
// tracker reconciles these at start: lapsed windows resolve immediately,
// pending ones are rescheduled.
func (s *BoltStore) LoadDelays() (map[string]time.Time, error) {
	delays := make(map[string]time.Time)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDelays).ForEach(func(k, v []byte) error {
			if len(v) == 8 {
				delays[string(k)] = time.Unix(int64(binary.BigEndian.Uint64(v)), 0)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return delays, nil
}
