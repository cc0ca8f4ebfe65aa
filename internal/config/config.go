package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default reconciliation settings used by config init.
const (
	DefaultBatchSize       = 100
	DefaultCooldownMinutes = 5
)

// Config represents the main configuration for photocat.
type Config struct {
	Roots      []string             `toml:"roots"` // root catalog folder paths
	LogDir     string               `toml:"log_dir"`
	Catalog    CatalogConfig        `toml:"catalog"`
	Database   DatabaseConfig       `toml:"database"`
	Thumbnails ThumbnailStoreConfig `toml:"thumbnails"`
}

// CatalogConfig holds the reconciliation engine settings.
type CatalogConfig struct {
	BatchSize       int  `toml:"batch_size"`       // operations per run
	CooldownMinutes int  `toml:"cooldown_minutes"` // minimum spacing between automatic runs
	DeleteFromDisk  bool `toml:"delete_from_disk"` // also remove backing files on asset deletion
	IncludeHidden   bool `toml:"include_hidden"`   // walk hidden (dot) subdirectories
}

// DatabaseConfig represents configuration for the catalog database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ThumbnailStoreConfig represents configuration for the thumbnail blob store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ThumbnailStoreConfig struct {
	Type string `toml:"type"` // "memory", "filesystem", or "s3"

	// Filesystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		LogDir: filepath.Join(baseDir, "log"),
		Catalog: CatalogConfig{
			BatchSize:       DefaultBatchSize,
			CooldownMinutes: DefaultCooldownMinutes,
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "catalog"),
		},
		Thumbnails: ThumbnailStoreConfig{
			Type:   "filesystem",
			FSRoot: filepath.Join(baseDir, "thumbnails"),
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
func writeToFile(path string, cfg *Config) error {
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
