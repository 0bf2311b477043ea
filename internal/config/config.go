package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Backend     string `json:"backend"`
	DBPath      string `json:"db_path,omitempty"`
	DataDir     string `json:"data_dir,omitempty"`
	RedisURL    string `json:"redis_url,omitempty"`
	StorageKey  string `json:"storage_key,omitempty"`
	IncludeDone bool   `json:"include_done,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`
}

func Default() Config {
	return Config{Backend: BackendSQLite, LogLevel: "info"}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazyboard", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads path as JSON with comments and trailing commas allowed. A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: invalid JSONC: %w", err)
	}
	if err := json.Unmarshal(standardized, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendSQLite, BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.LogLevel != "" {
		switch strings.ToLower(c.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("config: unknown log level %q", c.LogLevel)
		}
	}
	return nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return atomic.WriteFile(path, strings.NewReader(string(data)+"\n"))
}
