package storage

import (
	"sort"
	"sync"

	"poc-go/internal/poc"
)

// MemoryStorage is an in-memory implementation of poc.Storage.
// Useful for testing. Safe for concurrent use: upserts from concurrent
// pipeline instances are serialized, last writer wins per record id.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]*poc.CaptureRecord
}

var _ poc.Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory record store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]*poc.CaptureRecord)}
}

// Upsert inserts or fully replaces a record by id.
func (m *MemoryStorage) Upsert(record *poc.CaptureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *record
	m.records[record.ID] = &stored
	return nil
}

// Get returns a record by id, or nil if no record exists.
func (m *MemoryStorage) Get(id string) (*poc.CaptureRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	out := *record
	return &out, nil
}

// ListByStatus returns all records with the given status, newest first.
func (m *MemoryStorage) ListByStatus(status poc.RecordStatus) ([]*poc.CaptureRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*poc.CaptureRecord
	for _, record := range m.records {
		if record.Status == status {
			out := *record
			records = append(records, &out)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
	return records, nil
}

// FindByFileRef returns the most recent record for a file reference.
func (m *MemoryStorage) FindByFileRef(fileRef string) (*poc.CaptureRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *poc.CaptureRecord
	for _, record := range m.records {
		if record.FileRef != fileRef {
			continue
		}
		if best == nil || record.CreatedAt.After(best.CreatedAt) {
			best = record
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	return &out, nil
}

// Stats returns aggregate counts over all records.
func (m *MemoryStorage) Stats() (*poc.StorageStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats poc.StorageStats
	for _, record := range m.records {
		stats.Total++
		if record.Status == poc.StatusVerified {
			stats.Verified++
		}
		if record.Anchored() {
			stats.AnchoredCount++
		}
	}
	return &stats, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStorage) Close() error { return nil }
