// ABOUTME: Tests for fittrack configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// isolate points XDG_CONFIG_HOME at a temp dir and clears FITTRACK_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range []string{"DATA_DIR", "DB_FILE", "LOG_LEVEL", "LOG_FILE", "DEFAULT_WEIGHT_KG"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	return tmpDir
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/fittrack-test"}
	if got := cfg.GetDataDir(); got != "/tmp/fittrack-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/fittrack-test")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/fit-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "fit-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestGetDBPath(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default file", Config{DataDir: "/data"}, "/data/fittrack.db"},
		{"relative file", Config{DataDir: "/data", DBFile: "other.db"}, "/data/other.db"},
		{"absolute file", Config{DataDir: "/data", DBFile: "/srv/fit.db"}, "/srv/fit.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GetDBPath(); got != tt.want {
				t.Errorf("GetDBPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetLogDefaults(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.GetLogFile(); got != "/data/fittrack.log" {
		t.Errorf("GetLogFile() = %q", got)
	}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/fit", filepath.Join(home, "data/fit")},
		{"data/fit", "data/fit"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Should return defaults
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
	if cfg.DBFile != "fittrack.db" {
		t.Errorf("Expected default DBFile, got %q", cfg.DBFile)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LogLevel, got %q", cfg.LogLevel)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		DataDir:         "/tmp/fit-data",
		LogLevel:        "debug",
		DefaultWeightKg: 72.5,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.DataDir != "/tmp/fit-data" {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, "/tmp/fit-data")
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel mismatch: got %q", loaded.LogLevel)
	}
	if loaded.DefaultWeightKg != 72.5 {
		t.Errorf("DefaultWeightKg mismatch: got %v", loaded.DefaultWeightKg)
	}
	if loaded.DBFile != "fittrack.db" {
		t.Errorf("expected default DBFile to fill in, got %q", loaded.DBFile)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	cfg := &Config{DataDir: "/tmp/from-file", LogLevel: "warn"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	t.Setenv("FITTRACK_LOG_LEVEL", "debug")
	t.Setenv("FITTRACK_DEFAULT_WEIGHT_KG", "80")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want env value debug", loaded.LogLevel)
	}
	if loaded.DefaultWeightKg != 80 {
		t.Errorf("DefaultWeightKg = %v, want 80", loaded.DefaultWeightKg)
	}
	if loaded.DataDir != "/tmp/from-file" {
		t.Errorf("DataDir = %q, want file value", loaded.DataDir)
	}
}

func TestLoadFromExplicitPath(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("db_file: custom.db\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.DBFile != "custom.db" {
		t.Errorf("DBFile = %q, want custom.db", cfg.DBFile)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{LogLevel: "info"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "fittrack")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "fittrack")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("data_dir: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid YAML config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := isolate(t)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "fittrack", "config.yaml")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{DataDir: tmpDir}
	db, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer db.Close()

	dbPath := filepath.Join(tmpDir, "fittrack.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected fittrack.db to be created")
	}
	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}
}

func TestConfigYAMLOmitsEmpty(t *testing.T) {
	data, err := yaml.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Empty config should result in "{}" since fields have omitempty
	if string(data) != "{}\n" {
		t.Errorf("Expected empty YAML mapping, got %q", string(data))
	}
}
