package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "receipts"

// BoltStore implements Store using a BoltDB scratch file. The file lives
// only as long as the store and is removed by Close.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// NewBoltStore creates a scratch database file in dir. An empty dir uses the
// OS temp directory.
func NewBoltStore(dir string) (*BoltStore, error) {
	f, err := os.CreateTemp(dir, "receipt-processor-*.db")
	if err != nil {
		return nil, fmt.Errorf("creating scratch file: %w", err)
	}
	path := f.Name()
	f.Close()

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db, path: path}, nil
}

// Path returns the location of the scratch file
func (b *BoltStore) Path() string {
	return b.path
}

// Put saves a record to the database
func (b *BoltStore) Put(record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(record.ID), data)
	})
}

// Get retrieves a record by ID
func (b *BoltStore) Get(id string) (*Record, error) {
	var record *Record
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Close closes the database and removes the scratch file
func (b *BoltStore) Close() error {
	closeErr := b.db.Close()
	removeErr := os.Remove(b.path)
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}
	return errors.Join(closeErr, removeErr)
}
