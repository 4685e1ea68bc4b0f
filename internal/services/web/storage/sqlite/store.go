package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/geodev/geodev/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/geodev/geodev/internal/services/web/storage"
	"github.com/geodev/geodev/internal/services/web/storage/sqlite/migrations"
)

// Store provides SQLite-backed persistence for query cache data.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a query cache SQLite store.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	sqlDB, err := sqlitemigrate.Open(ctx, filepath.Clean(path), migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetCacheEntry loads a cache payload and metadata by key.
func (s *Store) GetCacheEntry(ctx context.Context, cacheKey string) (webstorage.CacheEntry, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.CacheEntry{}, false, fmt.Errorf("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return webstorage.CacheEntry{}, false, fmt.Errorf("cache key is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT cache_key, scope, payload_json, stale, checked_at, refreshed_at, expires_at
		 FROM cache_entries
		 WHERE cache_key = ?`,
		cacheKey,
	)

	var entry webstorage.CacheEntry
	var staleInt, checkedAt, refreshedAt, expiresAt int64
	if err := row.Scan(
		&entry.CacheKey,
		&entry.Scope,
		&entry.PayloadBytes,
		&staleInt,
		&checkedAt,
		&refreshedAt,
		&expiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.CacheEntry{}, false, nil
		}
		return webstorage.CacheEntry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	entry.Stale = staleInt != 0
	entry.CheckedAt = unixMillisToTime(checkedAt)
	entry.RefreshedAt = unixMillisToTime(refreshedAt)
	entry.ExpiresAt = unixMillisToTime(expiresAt)
	return entry, true, nil
}

// PutCacheEntry upserts a cache payload and metadata by key.
func (s *Store) PutCacheEntry(ctx context.Context, entry webstorage.CacheEntry) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	entry.Scope = strings.TrimSpace(entry.Scope)
	if entry.Scope == "" {
		return fmt.Errorf("cache scope is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return fmt.Errorf("cache payload is required")
	}
	if entry.CheckedAt.IsZero() {
		entry.CheckedAt = time.Now().UTC()
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = entry.CheckedAt
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO cache_entries (
		    cache_key, scope, payload_json, stale, checked_at, refreshed_at, expires_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    scope = excluded.scope,
		    payload_json = excluded.payload_json,
		    stale = excluded.stale,
		    checked_at = excluded.checked_at,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		entry.CacheKey,
		entry.Scope,
		entry.PayloadBytes,
		boolToInt(entry.Stale),
		timeToUnixMillis(entry.CheckedAt),
		timeToUnixMillis(entry.RefreshedAt),
		timeToUnixMillis(entry.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes a cache entry by key.
func (s *Store) DeleteCacheEntry(ctx context.Context, cacheKey string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key = ?`, cacheKey); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// MarkCacheEntryStale flags one cache row stale. Missing rows are ignored.
func (s *Store) MarkCacheEntryStale(ctx context.Context, cacheKey string, checkedAt time.Time) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	if checkedAt.IsZero() {
		checkedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE cache_entries
		 SET stale = 1,
		     checked_at = CASE WHEN checked_at < ? THEN ? ELSE checked_at END
		 WHERE cache_key = ?`,
		timeToUnixMillis(checkedAt),
		timeToUnixMillis(checkedAt),
		cacheKey,
	)
	if err != nil {
		return fmt.Errorf("mark cache entry stale: %w", err)
	}
	return nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ webstorage.Store = (*Store)(nil)
