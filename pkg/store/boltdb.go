package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/havochq/havoc/pkg/types"
)

var (
	// Bucket names
	bucketRuns = []byte("runs")
)

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the run-history database under dataDir
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "havoc.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketRuns, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// SaveRun upserts a run record keyed by its UUID
func (s *BoltStore) SaveRun(run *types.Run) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return b.Put([]byte(run.UUID), data)
	})
}

// GetRun returns the run record for the given UUID
func (s *BoltStore) GetRun(uuid string) (*types.Run, error) {
	var run types.Run
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		data := b.Get([]byte(uuid))
		if data == nil {
			return fmt.Errorf("run not found: %s", uuid)
		}
		return json.Unmarshal(data, &run)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns all recorded runs
func (s *BoltStore) ListRuns() ([]*types.Run, error) {
	var runs []*types.Run
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		return b.ForEach(func(k, v []byte) error {
			var run types.Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, &run)
			return nil
		})
	})
	return runs, err
}

// DeleteRun removes a run record
func (s *BoltStore) DeleteRun(uuid string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		return b.Delete([]byte(uuid))
	})
}
