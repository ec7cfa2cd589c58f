// Package storage persists capture records.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"poc-go/internal/poc"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements poc.Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

var _ poc.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (or creates) a SQLite record store at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteStorage{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the
// PRAGMAs the record store relies on. Exported for tools and tests.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Concurrent pipeline instances upsert different record ids; a busy
	// timeout covers the brief writer lock SQLite takes per statement.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// DB exposes the underlying connection for migrations.
func (s *SQLiteStorage) DB() *sql.DB { return s.db }

const recordColumns = `id, file_ref, display_name, media_kind, size_bytes,
	digest, signature, public_key, anchor_tx, anchor_block,
	synthetic_score, generative_score, duplication_pct, oracle_simulated,
	trust_score, trust_grade, watermark_id, status, device_id, location,
	created_at, updated_at`

// Upsert inserts or fully replaces a record by id. Idempotent: upserting
// the same record twice leaves storage in the same observable state.
func (s *SQLiteStorage) Upsert(record *poc.CaptureRecord) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO capture_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.FileRef, record.DisplayName, string(record.Kind), record.SizeBytes,
		record.Digest, record.Signature, record.PublicKey, record.AnchorTx, record.AnchorBlock,
		record.SyntheticScore, record.GenerativeScore, record.DuplicationPct, record.OracleSimulated,
		record.TrustScore, record.TrustGrade, record.WatermarkID, string(record.Status),
		record.DeviceID, record.Location, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting record %s: %w", record.ID, err)
	}
	return nil
}

// Get returns a record by id, or nil if no record exists.
func (s *SQLiteStorage) Get(id string) (*poc.CaptureRecord, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM capture_records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("getting record %s: %w", id, err)
	}
	return record, nil
}

// ListByStatus returns all records with the given status, newest first.
func (s *SQLiteStorage) ListByStatus(status poc.RecordStatus) ([]*poc.CaptureRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+recordColumns+` FROM capture_records
		WHERE status = ? ORDER BY created_at DESC, id DESC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("listing records by status: %w", err)
	}
	defer rows.Close()

	var records []*poc.CaptureRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// FindByFileRef returns the most recent record for a file reference, or
// nil if the file has never been verified.
func (s *SQLiteStorage) FindByFileRef(fileRef string) (*poc.CaptureRecord, error) {
	row := s.db.QueryRow(`
		SELECT `+recordColumns+` FROM capture_records
		WHERE file_ref = ? ORDER BY created_at DESC, id DESC LIMIT 1`, fileRef)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("finding record by file ref: %w", err)
	}
	return record, nil
}

// Stats returns aggregate counts over all records.
func (s *SQLiteStorage) Stats() (*poc.StorageStats, error) {
	var stats poc.StorageStats
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'verified' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN anchor_tx IS NOT NULL AND anchor_tx != '' THEN 1 ELSE 0 END), 0)
		FROM capture_records`).Scan(&stats.Total, &stats.Verified, &stats.AnchoredCount)
	if err != nil {
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	return &stats, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*poc.CaptureRecord, error) {
	var record poc.CaptureRecord
	var kind, status string

	err := row.Scan(
		&record.ID, &record.FileRef, &record.DisplayName, &kind, &record.SizeBytes,
		&record.Digest, &record.Signature, &record.PublicKey, &record.AnchorTx, &record.AnchorBlock,
		&record.SyntheticScore, &record.GenerativeScore, &record.DuplicationPct, &record.OracleSimulated,
		&record.TrustScore, &record.TrustGrade, &record.WatermarkID, &status,
		&record.DeviceID, &record.Location, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Kind = poc.MediaKind(kind)
	record.Status = poc.RecordStatus(status)
	return &record, nil
}
