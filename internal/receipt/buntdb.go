package receipt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/buntdb"
)

const buntKeyPrefix = "receipt:"

// BuntStore implements Store using an in-memory BuntDB database
type BuntStore struct {
	db *buntdb.DB
}

// NewBuntStore opens an in-memory BuntDB database
func NewBuntStore() (*BuntStore, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening buntdb: %w", err)
	}
	return &BuntStore{db: db}, nil
}

// Put saves a record under receipt:<id>
func (b *BuntStore) Put(record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(buntKeyPrefix+record.ID, string(data), nil)
		return err
	})
}

// Get retrieves a record by ID
func (b *BuntStore) Get(id string) (*Record, error) {
	var value string
	err := b.db.View(func(tx *buntdb.Tx) error {
		var err error
		value, err = tx.Get(buntKeyPrefix + id)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	return &record, nil
}

// Close closes the database
func (b *BuntStore) Close() error {
	return b.db.Close()
}
