// ABOUTME: fittrack configuration loaded from file, environment and .env.
// ABOUTME: Resolves data, database and log paths and opens the store.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/fittrack/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. FITTRACK_DATA_DIR.
const EnvPrefix = "FITTRACK"

const (
	defaultDBFile   = "fittrack.db"
	defaultLogLevel = "info"
	logFileName     = "fittrack.log"
)

// Config stores fittrack settings.
type Config struct {
	// DataDir is the root directory for the database and log file.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fittrack.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`

	// DBFile is the database filename, or an absolute path.
	DBFile string `mapstructure:"db_file" yaml:"db_file,omitempty"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file,omitempty"`

	// DefaultWeightKg is used for calorie estimates when the profile has no weight.
	DefaultWeightKg float64 `mapstructure:"default_weight_kg" yaml:"default_weight_kg,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the database path. Relative DBFile values live in the data directory.
func (c *Config) GetDBPath() string {
	file := c.DBFile
	if file == "" {
		file = defaultDBFile
	}
	file = ExpandPath(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.GetDataDir(), file)
}

// GetLogFile returns the log path, defaulting to fittrack.log in the data directory.
func (c *Config) GetLogFile() string {
	if c.LogFile == "" {
		return filepath.Join(c.GetDataDir(), logFileName)
	}
	return ExpandPath(c.LogFile)
}

// GetLogLevel returns the configured level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite store at the configured path.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.GetDBPath())
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fittrack", "config.yaml")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path. A missing file is not an error.
// Variables from a .env file in the working directory are loaded first,
// then FITTRACK_* variables override file values.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("data_dir", "")
	v.SetDefault("db_file", defaultDBFile)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("default_weight_kg", 0.0)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to the default path as YAML.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path as YAML.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
