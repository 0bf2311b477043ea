package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/lazyboard/internal/config"
	"github.com/Joseda-hg/lazyboard/internal/db"
	"github.com/Joseda-hg/lazyboard/internal/kv"
)

func TestApplyFlagsFillsPaths(t *testing.T) {
	cfg := config.Default()
	applyFlags(&cfg, flags{backend: "FILE", key: "work", debug: true}, "/cfg")

	require.Equal(t, config.BackendFile, cfg.Backend)
	require.Equal(t, filepath.Join("/cfg", "lazyboard.db"), cfg.DBPath)
	require.Equal(t, filepath.Join("/cfg", "data"), cfg.DataDir)
	require.Equal(t, "work", cfg.StorageKey)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigKeepsFlagsOutOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	original := "{\n  // board lives in sqlite\n  \"backend\": \"sqlite\",\n  \"storage_key\": \"home\",\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	cfg, err := loadConfig(path, flags{backend: "memory", key: "scratch", debug: true})
	require.NoError(t, err)
	require.Equal(t, config.BackendMemory, cfg.Backend)
	require.Equal(t, "scratch", cfg.StorageKey)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, original, string(data))

	cfg, err = loadConfig(path, flags{})
	require.NoError(t, err)
	require.Equal(t, config.BackendSQLite, cfg.Backend)
	require.Equal(t, "home", cfg.StorageKey)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lazyboard", "config.json")

	cfg, err := loadConfig(path, flags{backend: "redis", redisURL: "redis://localhost:6379"})
	require.NoError(t, err)
	require.Equal(t, config.BackendRedis, cfg.Backend)

	saved, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), saved)
}

func TestOpenMediumPicksBackend(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	ctx := context.Background()
	dir := t.TempDir()

	medium, closeMedium := openMedium(ctx, config.Config{Backend: config.BackendSQLite, DBPath: filepath.Join(dir, "board.db")}, logger)
	defer closeMedium()
	require.IsType(t, &db.KV{}, medium)

	medium, _ = openMedium(ctx, config.Config{Backend: config.BackendFile, DataDir: filepath.Join(dir, "data")}, logger)
	require.IsType(t, &kv.File{}, medium)

	mr := miniredis.RunT(t)
	medium, closeRedis := openMedium(ctx, config.Config{Backend: config.BackendRedis, RedisURL: "redis://" + mr.Addr()}, logger)
	defer closeRedis()
	require.IsType(t, &kv.Redis{}, medium)
}

func TestOpenMediumFallsBackToMemory(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	url := "redis://" + mr.Addr()
	mr.Close()

	medium, _ := openMedium(context.Background(), config.Config{Backend: config.BackendRedis, RedisURL: url}, logger)
	require.IsType(t, &kv.Memory{}, medium)
	require.NotNil(t, hook.LastEntry())
	require.Equal(t, "falling back to in-memory storage", hook.LastEntry().Message)
}
