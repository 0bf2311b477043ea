package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// KV is a key-value medium backed by the kv table.
type KV struct {
	DB *sql.DB
}

func NewKV(db *sql.DB) *KV {
	return &KV{DB: db}
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := k.DB.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	_, err := k.DB.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (k *KV) Close() error {
	return k.DB.Close()
}
