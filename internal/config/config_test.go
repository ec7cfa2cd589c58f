package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		DeviceID: "test-device-abc",
		BaseDir:  "/home/user/.local/share/poc",
		LogDir:   "/home/user/.local/share/poc/log",
		Location: "59.3293,18.0686",
		KeyStore: KeyStoreConfig{Type: "file", Dir: "/home/user/.local/share/poc/keys"},
		Storage:  StorageConfig{Type: "sqlite", DataDir: "/home/user/.local/share/poc/data"},
		Anchor:   AnchorConfig{Endpoint: "https://anchor.example.com", TimeoutSeconds: 15},
		Oracle: OracleConfig{
			AuthenticityURL: "https://oracle.example.com/authenticity",
			OriginalityURL:  "https://oracle.example.com/originality",
			APIKey:          "test-key",
			TimeoutSeconds:  20,
		},
		CloudSync: CloudSyncConfig{
			Type:     "s3",
			S3Bucket: "poc-proofs",
			S3Prefix: "device-abc",
			S3Region: "eu-north-1",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.DeviceID != original.DeviceID {
		t.Errorf("DeviceID = %q, want %q", got.DeviceID, original.DeviceID)
	}
	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.Location != original.Location {
		t.Errorf("Location = %q, want %q", got.Location, original.Location)
	}
	if got.KeyStore.Type != "file" || got.KeyStore.Dir != original.KeyStore.Dir {
		t.Errorf("KeyStore = %+v, want %+v", got.KeyStore, original.KeyStore)
	}
	if got.Storage.Type != "sqlite" || got.Storage.DataDir != original.Storage.DataDir {
		t.Errorf("Storage = %+v, want %+v", got.Storage, original.Storage)
	}
	if got.Anchor.Endpoint != original.Anchor.Endpoint {
		t.Errorf("Anchor.Endpoint = %q, want %q", got.Anchor.Endpoint, original.Anchor.Endpoint)
	}
	if got.Anchor.TimeoutSeconds != 15 {
		t.Errorf("Anchor.TimeoutSeconds = %d, want 15", got.Anchor.TimeoutSeconds)
	}
	if got.Oracle.AuthenticityURL != original.Oracle.AuthenticityURL {
		t.Errorf("Oracle.AuthenticityURL = %q, want %q", got.Oracle.AuthenticityURL, original.Oracle.AuthenticityURL)
	}
	if got.Oracle.APIKey != "test-key" {
		t.Errorf("Oracle.APIKey = %q, want %q", got.Oracle.APIKey, "test-key")
	}
	if got.CloudSync.Type != "s3" {
		t.Errorf("CloudSync.Type = %q, want %q", got.CloudSync.Type, "s3")
	}
	if got.CloudSync.S3Bucket != "poc-proofs" {
		t.Errorf("CloudSync.S3Bucket = %q, want %q", got.CloudSync.S3Bucket, "poc-proofs")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("device-1", "/data/poc")

	if cfg.DeviceID != "device-1" {
		t.Errorf("DeviceID = %q, want %q", cfg.DeviceID, "device-1")
	}
	if cfg.BaseDir != "/data/poc" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/poc")
	}
	if cfg.LogDir != "/data/poc/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/poc/log")
	}
	if cfg.KeyStore.Type != "file" || cfg.KeyStore.Dir != "/data/poc/keys" {
		t.Errorf("KeyStore = %+v, want file store under /data/poc/keys", cfg.KeyStore)
	}
	if cfg.Storage.Type != "sqlite" || cfg.Storage.DataDir != "/data/poc/data" {
		t.Errorf("Storage = %+v, want sqlite under /data/poc/data", cfg.Storage)
	}
	if cfg.Anchor.TimeoutSeconds != 30 {
		t.Errorf("Anchor.TimeoutSeconds = %d, want 30", cfg.Anchor.TimeoutSeconds)
	}
	if cfg.Oracle.TimeoutSeconds != 30 {
		t.Errorf("Oracle.TimeoutSeconds = %d, want 30", cfg.Oracle.TimeoutSeconds)
	}
	if cfg.CloudSync.Type != "none" {
		t.Errorf("CloudSync.Type = %q, want %q", cfg.CloudSync.Type, "none")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "poc.toml")
		cfg := NewConfig("d1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "poc.toml")
		cfg := NewConfig("d1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "poc.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Storage = StorageConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.DeviceID != "read-test" {
			t.Errorf("DeviceID = %q, want %q", got.DeviceID, "read-test")
		}
		if got.Storage.Type != "memory" {
			t.Errorf("Storage.Type = %q, want %q", got.Storage.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/poc.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
