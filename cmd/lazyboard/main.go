package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/Joseda-hg/lazyboard/internal/config"
	"github.com/Joseda-hg/lazyboard/internal/db"
	"github.com/Joseda-hg/lazyboard/internal/kv"
	"github.com/Joseda-hg/lazyboard/internal/model"
	"github.com/Joseda-hg/lazyboard/internal/report"
	"github.com/Joseda-hg/lazyboard/internal/store"
	"github.com/Joseda-hg/lazyboard/internal/tui"
)

type flags struct {
	configPath  string
	backend     string
	dbPath      string
	dataDir     string
	redisURL    string
	key         string
	list        bool
	status      string
	priority    string
	includeDone bool
	dueBefore   string
	debug       bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "config file path")
	flag.StringVar(&f.backend, "backend", "", "storage backend: sqlite, file, redis or memory")
	flag.StringVar(&f.dbPath, "db", "", "sqlite db path")
	flag.StringVar(&f.dataDir, "data-dir", "", "directory for the file backend")
	flag.StringVar(&f.redisURL, "redis", "", "redis URL for the redis backend")
	flag.StringVar(&f.key, "key", "", "storage key holding the board")
	flag.BoolVar(&f.list, "list", false, "print the board as a table and exit")
	flag.StringVar(&f.status, "status", "", "only list tasks with this status")
	flag.StringVar(&f.priority, "priority", "", "only list tasks with this priority")
	flag.BoolVar(&f.includeDone, "include-done", false, "include done tasks")
	flag.StringVar(&f.dueBefore, "due-before", "", "only list tasks due on or before YYYY-MM-DD")
	flag.BoolVar(&f.debug, "debug", false, "enable debug logging")
	flag.Parse()

	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfgPath, err := resolveConfigPath(f.configPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cfgPath, f)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg, f.list, filepath.Dir(cfgPath))
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	medium, closeMedium := openMedium(ctx, cfg, logger)
	defer closeMedium()

	s, err := store.Open(ctx, medium, store.Options{Key: cfg.StorageKey, Logger: logger})
	if err != nil {
		return err
	}

	filter := model.Filter{
		Status:      f.status,
		Priority:    f.priority,
		IncludeDone: cfg.IncludeDone || f.includeDone,
	}
	if f.dueBefore != "" {
		if _, err := model.ParseDate(f.dueBefore); err != nil {
			return fmt.Errorf("--due-before: %w", err)
		}
		filter.DueBefore = &f.dueBefore
	}

	if f.list {
		return report.Write(os.Stdout, store.ApplyFilter(s.List(), filter), report.Options{Color: isatty.IsTerminal(os.Stdout.Fd())})
	}
	return tui.Run(s, tui.Options{Filter: filter, Logger: logger})
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig writes the defaults on first run, then layers this run's flags on
// top. Flags never reach the file.
func loadConfig(path string, f flags) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(path, cfg); err != nil {
			return config.Config{}, err
		}
	}

	applyFlags(&cfg, f, filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, f flags, configDir string) {
	if f.backend != "" {
		cfg.Backend = strings.ToLower(f.backend)
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(configDir, "lazyboard.db")
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(configDir, "data")
	}
	if f.redisURL != "" {
		cfg.RedisURL = f.redisURL
	}
	if f.key != "" {
		cfg.StorageKey = f.key
	}
	if f.debug {
		cfg.LogLevel = "debug"
	}
}

// setupLogger sends logs to stderr when listing and to a file next to the
// config otherwise, since the TUI owns the terminal.
func setupLogger(cfg config.Config, list bool, configDir string) (*log.Logger, func(), error) {
	logger := log.New()
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if list {
		logger.SetOutput(os.Stderr)
		return logger, func() {}, nil
	}

	path := filepath.Join(configDir, "lazyboard.log")
	if err := config.EnsureDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	return logger, func() { _ = file.Close() }, nil
}

// openMedium opens the configured backend, falling back to memory when it
// cannot be reached.
func openMedium(ctx context.Context, cfg config.Config, logger log.FieldLogger) (kv.Store, func()) {
	entry := logger.WithField("backend", cfg.Backend)

	switch strings.ToLower(cfg.Backend) {
	case config.BackendMemory:
		entry.Info("using in-memory storage, changes are not kept")
		return kv.NewMemory(), func() {}
	case config.BackendFile:
		medium, err := kv.NewFile(cfg.DataDir)
		if err == nil {
			entry.WithField("dir", cfg.DataDir).Info("opened storage")
			return medium, func() {}
		}
		entry.WithError(err).Warn("falling back to in-memory storage")
	case config.BackendRedis:
		medium, err := kv.DialRedis(ctx, cfg.RedisURL)
		if err == nil {
			entry.Info("opened storage")
			return medium, func() { _ = medium.Close() }
		}
		entry.WithError(err).Warn("falling back to in-memory storage")
	default:
		medium, err := openSQLite(cfg.DBPath)
		if err == nil {
			entry.WithField("path", cfg.DBPath).Info("opened storage")
			return medium, func() { _ = medium.Close() }
		}
		entry.WithError(err).Warn("falling back to in-memory storage")
	}

	return kv.NewMemory(), func() {}
}

func openSQLite(path string) (*db.KV, error) {
	if err := config.EnsureDir(path); err != nil {
		return nil, err
	}

	sqlDB, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	return db.NewKV(sqlDB), nil
}

