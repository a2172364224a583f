package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"radio-metadata-go/logcolors"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const artworkBucket = "artwork"

// Snapshot is a local bolt-backed copy of resolved artwork. Successful
// artwork lookups are written through to it, and it is only ever read while
// the shared store is unreachable. A Redis outage must not turn every poll
// into a fresh round of art-search traffic.
type Snapshot struct {
	db *bolt.DB
}

// OpenSnapshot opens (or creates) the snapshot database at path.
func OpenSnapshot(path string) (*Snapshot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(artworkBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot bucket: %w", err)
	}

	log.Infof("%s Artwork snapshot opened at %s", logcolors.LogSnapshot, path)
	return &Snapshot{db: db}, nil
}

// Put stores a resolved artwork payload under a fingerprint. Best effort.
func (s *Snapshot) Put(fingerprint, payload string) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(artworkBucket)).Put([]byte(fingerprint), []byte(payload))
	})
	if err != nil {
		log.Warnf("%s Failed to store %s: %v", logcolors.LogSnapshot, fingerprint, err)
	}
}

// Get returns the snapshotted payload for a fingerprint, if any.
func (s *Snapshot) Get(fingerprint string) (string, bool) {
	var payload string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(artworkBucket)).Get([]byte(fingerprint))
		if data == nil {
			return bolt.ErrBucketNotFound
		}
		payload = string(data)
		return nil
	})
	if err != nil {
		return "", false
	}
	return payload, true
}

// Len returns the number of snapshotted entries.
func (s *Snapshot) Len() int {
	count := 0
	_ = s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(artworkBucket)).Stats().KeyN
		return nil
	})
	return count
}

// Close closes the snapshot database.
func (s *Snapshot) Close() error {
	return s.db.Close()
}
