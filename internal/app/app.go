// Package app wires the verification core together from configuration.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"poc-go/internal/anchor"
	"poc-go/internal/cloudsync"
	"poc-go/internal/config"
	"poc-go/internal/fs"
	"poc-go/internal/hashing"
	"poc-go/internal/keystore"
	"poc-go/internal/oracle"
	"poc-go/internal/poc"
	"poc-go/internal/signing"
	"poc-go/internal/storage"
)

// PocApp is the application layer between the CLI and the VerifyService.
// It constructs all dependencies from config, exposes high-level
// operations that accept raw string paths, and manages resource lifecycle
// on Close.
type PocApp struct {
	cfg     *config.Config
	storage poc.Storage
	signer  *signing.Ed25519Signer
	fsmgr   poc.FilesystemManager
	service *poc.VerifyService
	logFile *os.File
}

// NewPocApp creates a fully wired PocApp from the given config.
// operation identifies the CLI command being run (e.g. "Verify", "Scan").
// passphrase unlocks the device signing key; commands that never touch it
// may pass "". observer receives live step updates during verification.
// The caller must call Close when done.
func NewPocApp(cfg *config.Config, operation, passphrase string, observer poc.ProgressObserver) (*PocApp, error) {
	fsmgr := fs.NewOSFilesystemManager()

	store, err := storage.NewStorageFromConfig(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("creating storage: %w", err)
	}

	keys, err := keystore.NewKeyStoreFromConfig(cfg.KeyStore, passphrase)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating keystore: %w", err)
	}
	signer := signing.NewEd25519Signer(keys)

	syncer, err := cloudsync.NewSyncerFromConfig(context.Background(), cfg.CloudSync)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating cloud sync: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	if observer == nil {
		observer = poc.NewNopObserver()
	}

	svc := poc.NewVerifyService(
		store,
		hashing.NewSHA256Hasher(fsmgr),
		signer,
		anchor.NewClientFromConfig(cfg.Anchor),
		oracle.NewAuthenticityClientFromConfig(cfg.Oracle, log),
		oracle.NewOriginalityClientFromConfig(cfg.Oracle, log),
		syncer,
		fsmgr,
		observer,
		log,
		poc.RealClock{},
		poc.UUIDGenerator{},
	)

	return &PocApp{
		cfg:     cfg,
		storage: store,
		signer:  signer,
		fsmgr:   fsmgr,
		service: svc,
		logFile: logFile,
	}, nil
}

// SetupKeys performs one-time device key generation and returns the
// public key as hex. Fails if a key pair already exists.
func (a *PocApp) SetupKeys() (string, error) {
	if a.signer.IsConfigured() {
		return "", fmt.Errorf("a device key pair already exists; refusing to overwrite it")
	}
	if err := a.signer.Setup(); err != nil {
		return "", fmt.Errorf("generating device keys: %w", err)
	}
	return a.signer.PublicKey()
}

// KeysConfigured returns true if the device key pair exists.
func (a *PocApp) KeysConfigured() bool {
	return a.signer.IsConfigured()
}

// VerifyFile resolves the given path and runs the full verification
// pipeline on it, returning the finished record.
func (a *PocApp) VerifyFile(ctx context.Context, rawPath string) (*poc.CaptureRecord, error) {
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	prov := poc.Provenance{DeviceID: a.cfg.DeviceID}
	if a.cfg.Location != "" {
		loc := a.cfg.Location
		prov.Location = &loc
	}
	return a.service.Verify(ctx, p, prov)
}

// ScanFile re-hashes the given file and compares it against its stored
// proof.
func (a *PocApp) ScanFile(rawPath string) (*poc.ScanResult, error) {
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return a.service.ScanFile(p)
}

// GetRecord returns a capture record by id, or nil if it does not exist.
func (a *PocApp) GetRecord(id string) (*poc.CaptureRecord, error) {
	return a.service.GetRecord(id)
}

// ListRecords returns records with the given status, newest first.
func (a *PocApp) ListRecords(status poc.RecordStatus) ([]*poc.CaptureRecord, error) {
	return a.service.ListRecords(status)
}

// GetStats returns aggregate counts over the record store.
func (a *PocApp) GetStats() (*poc.StorageStats, error) {
	return a.service.GetStats()
}

// Close releases all resources.
func (a *PocApp) Close() error {
	var firstErr error

	if err := a.storage.Close(); err != nil {
		firstErr = fmt.Errorf("closing storage: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
