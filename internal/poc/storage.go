package poc

// StorageStats summarizes the record store.
type StorageStats struct {
	Total         int64
	Verified      int64
	AnchoredCount int64
}

// Storage provides an interface for capture record persistence.
// Implementations must support concurrent upsert-by-id safely;
// last-writer-wins per record is acceptable because each record is only
// ever written by its own pipeline instance.
type Storage interface {
	// Upsert inserts or fully replaces a record by id. Idempotent:
	// upserting the same record twice leaves storage unchanged.
	Upsert(record *CaptureRecord) error

	// Get returns a record by id, or nil if no record exists.
	Get(id string) (*CaptureRecord, error)

	// ListByStatus returns all records with the given lifecycle status,
	// newest first.
	ListByStatus(status RecordStatus) ([]*CaptureRecord, error)

	// FindByFileRef returns the most recent record for a file reference,
	// or nil if the file has never been verified.
	FindByFileRef(fileRef string) (*CaptureRecord, error)

	// Stats returns aggregate counts over all records.
	Stats() (*StorageStats, error)

	// Close closes the underlying store.
	Close() error
}
