package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the on-disk settings for anishelf. Flags override any
// value loaded from the file.
type Config struct {
	// DestRoot is the library root the canonical layout is created in.
	DestRoot string `json:"dest_root"`
	// ArchiveRoot receives processed source folders after linking.
	ArchiveRoot string `json:"archive_root"`
	// IgnoreExtensions are skipped during scanning (leading dot).
	IgnoreExtensions []string `json:"ignore_extensions"`
	// IgnoreFiles are exact base names skipped during scanning.
	IgnoreFiles []string `json:"ignore_files"`

	EnableJournal    bool `json:"enable_journal"`
	LogRetentionDays int  `json:"log_retention_days"`
	// Workers bounds concurrent folder planning. Zero selects the default.
	Workers int `json:"workers"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		IgnoreExtensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".xz", ".png", ".txt"},
		IgnoreFiles:      []string{".DS_Store", "Thumbs.db"},
		EnableJournal:    true,
		LogRetentionDays: 30,
		Workers:          4,
	}
}

// Path returns the config file location.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".anishelf", "config.json"), nil
}

// Load reads the configuration from disk, falling back to defaults for
// a missing file or missing fields.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaults := DefaultConfig()
	if len(cfg.IgnoreExtensions) == 0 {
		cfg.IgnoreExtensions = defaults.IgnoreExtensions
	}
	if len(cfg.IgnoreFiles) == 0 {
		cfg.IgnoreFiles = defaults.IgnoreFiles
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	return cfg, nil
}

// Save writes the configuration to disk, creating the directory when
// needed.
func (cfg *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return cfg.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path.
func (cfg *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Ignored reports whether a scanned file should be skipped.
func (cfg *Config) Ignored(name string) bool {
	for _, f := range cfg.IgnoreFiles {
		if name == f {
			return true
		}
	}
	ext := filepath.Ext(name)
	for _, e := range cfg.IgnoreExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
