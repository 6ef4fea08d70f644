package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/BadgerOps/tclabpack/internal/codec"
)

// Config is the top-level configuration
type Config struct {
	Compress   CompressConfig   `yaml:"compress"`
	Decompress DecompressConfig `yaml:"decompress"`
	Codecs     CodecsConfig     `yaml:"codecs"`
	History    HistoryConfig    `yaml:"history"`
}

// CompressConfig holds defaults for the compress command
type CompressConfig struct {
	Folder        string `yaml:"folder"`
	Codec         string `yaml:"codec"` // empty selects zstd when available, else lzma
	Level         int    `yaml:"level"`
	KeepOriginals bool   `yaml:"keep_originals"`
	Pattern       string `yaml:"pattern"`
	Workers       int    `yaml:"workers"`
}

// DecompressConfig holds defaults for the decompress command
type DecompressConfig struct {
	Folder         string `yaml:"folder"`
	Codec          string `yaml:"codec"` // empty searches every known suffix
	OutputDir      string `yaml:"output_dir"`
	KeepCompressed bool   `yaml:"keep_compressed"`
}

// CodecsConfig controls which backends the registry exposes
type CodecsConfig struct {
	Disabled []string `yaml:"disabled"`
}

// HistoryConfig controls the SQLite batch history
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Compress: CompressConfig{
			Folder:        "output",
			Codec:         "",
			Level:         3,
			KeepOriginals: true,
			Pattern:       "*",
			Workers:       1,
		},
		Decompress: DecompressConfig{
			Folder:         "output",
			OutputDir:      "descomp",
			KeepCompressed: true,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
	}
}

// Load reads a config file from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return cfg, nil
}

// Validate checks codec names and numeric ranges
func (c *Config) Validate() error {
	if c.Compress.Codec != "" {
		if _, err := codec.ParseCodec(c.Compress.Codec); err != nil {
			return fmt.Errorf("compress.codec: %w", err)
		}
	}
	if c.Decompress.Codec != "" {
		if _, err := codec.ParseCodec(c.Decompress.Codec); err != nil {
			return fmt.Errorf("decompress.codec: %w", err)
		}
	}
	for _, name := range c.Codecs.Disabled {
		if _, err := codec.ParseCodec(name); err != nil {
			return fmt.Errorf("codecs.disabled: %w", err)
		}
	}
	if c.Compress.Workers < 0 {
		return fmt.Errorf("compress.workers must not be negative, got %d", c.Compress.Workers)
	}
	return nil
}

// RegistryOptions converts the codecs section into registry options
func (c *Config) RegistryOptions() []codec.Option {
	var disabled []codec.Codec
	for _, name := range c.Codecs.Disabled {
		if cd, err := codec.ParseCodec(name); err == nil {
			disabled = append(disabled, cd)
		}
	}
	if len(disabled) == 0 {
		return nil
	}
	return []codec.Option{codec.WithDisabled(disabled...)}
}

// HistoryDBPath returns the configured history database path, falling back
// to the user state directory
func (c *Config) HistoryDBPath() string {
	if c.History.DBPath != "" {
		return c.History.DBPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "tclabpack", "history.db")
	}
	return "tclabpack-history.db"
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() (string, error) {
	searchPaths := []string{
		"tclabpack.yaml",
		"/etc/tclabpack/tclabpack.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths,
			filepath.Join(home, ".config", "tclabpack", "tclabpack.yaml"),
		)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", searchPaths)
}
