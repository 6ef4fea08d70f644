package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BadgerOps/tclabpack/internal/codec"
)

// TestDefaultConfig verifies that DefaultConfig returns sensible defaults
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		getValue func(*Config) string
		want     string
	}{
		{"compress folder", func(c *Config) string { return c.Compress.Folder }, "output"},
		{"compress codec", func(c *Config) string { return c.Compress.Codec }, ""},
		{"pattern", func(c *Config) string { return c.Compress.Pattern }, "*"},
		{"decompress folder", func(c *Config) string { return c.Decompress.Folder }, "output"},
		{"output dir", func(c *Config) string { return c.Decompress.OutputDir }, "descomp"},
		{"db path", func(c *Config) string { return c.History.DBPath }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.getValue(cfg)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if cfg.Compress.Level != 3 {
		t.Errorf("Compress.Level = %d, want 3", cfg.Compress.Level)
	}
	if cfg.Compress.Workers != 1 {
		t.Errorf("Compress.Workers = %d, want 1", cfg.Compress.Workers)
	}
	if !cfg.Compress.KeepOriginals {
		t.Error("Compress.KeepOriginals = false, want true")
	}
	if !cfg.Decompress.KeepCompressed {
		t.Error("Decompress.KeepCompressed = false, want true")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

// TestLoad tests loading a valid config file
func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "tclabpack.yaml")

	configContent := `
compress:
  folder: "runs"
  codec: "gzip"
  level: 9
  keep_originals: false
  pattern: "*.csv"
  workers: 4
decompress:
  folder: "archive"
  codec: "xz"
  output_dir: "restored"
codecs:
  disabled: ["zstd"]
history:
  enabled: false
  db_path: "/tmp/history.db"
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Compress.Folder != "runs" {
		t.Errorf("Compress.Folder = %q, want %q", cfg.Compress.Folder, "runs")
	}
	if cfg.Compress.Codec != "gzip" {
		t.Errorf("Compress.Codec = %q, want %q", cfg.Compress.Codec, "gzip")
	}
	if cfg.Compress.Level != 9 {
		t.Errorf("Compress.Level = %d, want 9", cfg.Compress.Level)
	}
	if cfg.Compress.KeepOriginals {
		t.Error("Compress.KeepOriginals = true, want false")
	}
	if cfg.Compress.Pattern != "*.csv" {
		t.Errorf("Compress.Pattern = %q, want %q", cfg.Compress.Pattern, "*.csv")
	}
	if cfg.Compress.Workers != 4 {
		t.Errorf("Compress.Workers = %d, want 4", cfg.Compress.Workers)
	}

	if cfg.Decompress.Folder != "archive" || cfg.Decompress.Codec != "xz" || cfg.Decompress.OutputDir != "restored" {
		t.Errorf("unexpected decompress section: %+v", cfg.Decompress)
	}
	// keep_compressed was not set and keeps its default.
	if !cfg.Decompress.KeepCompressed {
		t.Error("Decompress.KeepCompressed = false, want default true")
	}

	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.HistoryDBPath() != "/tmp/history.db" {
		t.Errorf("HistoryDBPath() = %q", cfg.HistoryDBPath())
	}
}

// TestLoadInvalidYAML tests that Load returns an error for invalid YAML
func TestLoadInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "invalid.yaml")

	invalidContent := `
compress:
  folder: "output"
  invalid: [unclosed bracket
`

	if err := os.WriteFile(configFile, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(configFile); err == nil {
		t.Error("Load() succeeded, want error for invalid YAML")
	}
}

// TestLoadUnknownCodec tests that Load rejects codec names outside the known set
func TestLoadUnknownCodec(t *testing.T) {
	tests := map[string]string{
		"compress":   "compress:\n  codec: brotli\n",
		"decompress": "decompress:\n  codec: lz4\n",
		"disabled":   "codecs:\n  disabled: [snappy]\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "tclabpack.yaml")
			if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}
			_, err := Load(configFile)
			if !errors.Is(err, codec.ErrUnknownCodec) {
				t.Fatalf("Load() error = %v, want ErrUnknownCodec", err)
			}
		})
	}
}

// TestLoadNonexistentFile tests that Load returns an error for missing files
func TestLoadNonexistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/config.yaml"); err == nil {
		t.Error("Load() succeeded, want error for nonexistent file")
	}
}

func TestValidateNegativeWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Compress.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() succeeded, want error for negative workers")
	}
}

func TestRegistryOptions(t *testing.T) {
	cfg := DefaultConfig()
	if opts := cfg.RegistryOptions(); opts != nil {
		t.Errorf("RegistryOptions() = %v, want nil with nothing disabled", opts)
	}

	cfg.Codecs.Disabled = []string{"zstd"}
	reg := codec.NewRegistry(cfg.RegistryOptions()...)
	if reg.Available(codec.Zstd) {
		t.Error("zstd should be disabled by config")
	}
	if !reg.Available(codec.Gzip) || !reg.Available(codec.Lzma) {
		t.Error("gzip and lzma should stay available")
	}
}

// TestFindConfigFileNotFound tests that FindConfigFile returns error when no config exists
func TestFindConfigFileNotFound(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	tempDir := t.TempDir()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
	t.Setenv("HOME", tempDir)

	if _, err := FindConfigFile(); err == nil {
		t.Error("FindConfigFile() succeeded, want error when no config exists")
	}
}

// TestFindConfigFileFound tests that FindConfigFile returns the found config
func TestFindConfigFileFound(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	tempDir := t.TempDir()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})

	configFile := filepath.Join(tempDir, "tclabpack.yaml")
	if err := os.WriteFile(configFile, []byte("compress:\n  level: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	found, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile() failed: %v", err)
	}
	if found != "tclabpack.yaml" {
		t.Errorf("FindConfigFile() = %q, want tclabpack.yaml", found)
	}
}
