package receipt

import "sync"

// Store defines the interface for scored receipt storage
type Store interface {
	// Put saves a record, replacing any record with the same ID
	Put(record *Record) error

	// Get retrieves a record by ID, returning ErrNotFound if it is absent
	Get(id string) (*Record, error)

	// Close releases the store's resources
	Close() error
}

// MemoryStore implements Store with a mutex-guarded map
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Put saves a copy of the record
func (m *MemoryStore) Put(record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = *record
	return nil
}

// Get returns a copy of the stored record
func (m *MemoryStore) Get(id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
