package poc

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// RecordID builds a capture record identifier from a timestamp and a
// random suffix, e.g. "cap-20240115T103000Z-1a2b3c4d". The time prefix
// keeps ids roughly sortable; the suffix makes concurrent captures safe.
func RecordID(now time.Time, idgen IDGenerator) string {
	suffix := idgen.New()
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("cap-%s-%s", now.UTC().Format("20060102T150405Z"), suffix)
}
