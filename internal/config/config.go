// Package config reads and writes the poc TOML configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for poc.
type Config struct {
	DeviceID string `toml:"device_id"`
	BaseDir  string `toml:"base_dir"`
	LogDir   string `toml:"log_dir"`
	Location string `toml:"location,omitempty"` // optional provenance geolocation descriptor

	KeyStore  KeyStoreConfig  `toml:"keystore"`
	Storage   StorageConfig   `toml:"storage"`
	Anchor    AnchorConfig    `toml:"anchor"`
	Oracle    OracleConfig    `toml:"oracle"`
	CloudSync CloudSyncConfig `toml:"cloudsync"`
}

// KeyStoreConfig represents configuration for the device key store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type KeyStoreConfig struct {
	Type string `toml:"type"`          // "file" or "memory"
	Dir  string `toml:"dir,omitempty"` // only used for type=file
}

// StorageConfig represents configuration for the capture record store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// AnchorConfig holds the ledger anchor gateway settings.
type AnchorConfig struct {
	Endpoint       string `toml:"endpoint"`        // anchor gateway base URL; empty disables anchoring
	TimeoutSeconds int    `toml:"timeout_seconds"` // defaults to 30
}

// OracleConfig holds the AI classifier gateway settings.
// Both oracles degrade to simulated estimates when the endpoint is empty
// or unreachable.
type OracleConfig struct {
	AuthenticityURL string `toml:"authenticity_url"`
	OriginalityURL  string `toml:"originality_url"`
	APIKey          string `toml:"api_key,omitempty"`
	TimeoutSeconds  int    `toml:"timeout_seconds"` // defaults to 30
}

// CloudSyncConfig represents configuration for the cloud sync backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CloudSyncConfig struct {
	Type string `toml:"type"` // "none", "s3", or "filesystem"

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"` // empty means use the default AWS credential chain
	S3SecretKey string `toml:"s3_secret_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`
}

// NewConfig creates a new Config with the provided values and default paths.
func NewConfig(deviceID, baseDir string) *Config {
	return &Config{
		DeviceID: deviceID,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		KeyStore: KeyStoreConfig{
			Type: "file",
			Dir:  filepath.Join(baseDir, "keys"),
		},
		Storage: StorageConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Anchor: AnchorConfig{
			TimeoutSeconds: 30,
		},
		Oracle: OracleConfig{
			TimeoutSeconds: 30,
		},
		CloudSync: CloudSyncConfig{
			Type: "none",
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
